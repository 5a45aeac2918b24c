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

import (
	"github.com/coresync/headsync/core/types"
)

// BlockHeadersResponse is one peer's answer to a GetBlockHeaders request:
// RequestID ties it back to the slice that asked for it.
type BlockHeadersResponse struct {
	RequestID uint64
	PeerID    string
	Headers   []*types.Header
}

// BlockHashAnnouncement is an unsolicited NewBlockHashes message, consumed
// by TopBlockEstimateStage to track the chain tip.
type BlockHashAnnouncement struct {
	PeerID string
	Number uint64
}

// Sentry is the only contract this package has with the (out-of-scope)
// peer-wire protocol: a request/response mailbox plus peer bookkeeping.
// Its shape is grounded on the teacher's sentry_multi_client gRPC facade,
// reduced to the calls the stages actually issue.
type Sentry interface {
	// SendGetBlockHeaders asks any suitable peer for SliceSize+1 headers
	// starting at startBlockNum, returning the request id FetchReceiveStage
	// will see echoed back in a BlockHeadersResponse.
	SendGetBlockHeaders(startBlockNum uint64, amount int) (requestID uint64, err error)

	// PenalizePeer marks peerID as having sent bad data.
	PenalizePeer(peerID string)

	// Responses drains any BlockHeadersResponse messages received since the
	// last call.
	Responses() []BlockHeadersResponse

	// Announcements drains any BlockHashAnnouncement messages received
	// since the last call.
	Announcements() []BlockHashAnnouncement

	// CanProceed reports whether the sentry currently has at least one
	// usable peer; false makes the downloader's termination check trip.
	CanProceed() bool
}
