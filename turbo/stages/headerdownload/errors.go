// Copyright 2024 The Erigon Authors
// (modifications)
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package headerdownload

import "errors"

var (
	// ErrNoPreverifiedConfig names the case of a chain with no compiled-in
	// preverified hash table. VerifyStagePreverified is handed its
	// PreverifiedHashesConfig directly and does not return this error.
	ErrNoPreverifiedConfig = errors.New("headerdownload: no preverified hashes for this chain")

	// ErrChainOrderMismatch marks a slice whose internal parent-hash chain
	// doesn't line up, caught at VerifiedInternally.
	ErrChainOrderMismatch = errors.New("headerdownload: header chain order mismatch within slice")

	// ErrAnchorMismatch marks a slice whose 193rd header doesn't hash to the
	// compiled-in anchor for its position.
	ErrAnchorMismatch = errors.New("headerdownload: anchor header does not match preverified hash")

	// ErrNonContiguousSave names an attempt to persist a slice whose
	// StartBlockNum isn't exactly the next expected height. SaveStage does
	// not return it: such a slice stays Verified until the gap below fills.
	ErrNonContiguousSave = errors.New("headerdownload: attempted non-contiguous save")

	// ErrMaxAttemptsExceeded marks a slice Invalid once RetryStage has
	// retried it past the configured attempt ceiling.
	ErrMaxAttemptsExceeded = errors.New("headerdownload: exceeded max request attempts")
)
