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

// Package headerdownload implements the header pipeline: a ring of
// fixed-size header slices advancing through a status lattice, driven by
// seven cooperating stages plus a top-block estimator.
package headerdownload

import (
	"time"

	"github.com/coresync/headsync/core/types"
)

// SliceSize is the fixed number of headers one slice covers.
const SliceSize = 192

// Status is a position in the slice lattice:
//
//	Empty -> Waiting -> Downloaded -> VerifiedInternally -> Verified -> Saved -> Refilled
//	            |            |               |
//	            +------------+---- Invalid --+---> Empty
type Status int

const (
	StatusEmpty Status = iota
	StatusWaiting
	StatusDownloaded
	StatusVerifiedInternally
	StatusVerified
	StatusSaved
	StatusRefilled
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "Empty"
	case StatusWaiting:
		return "Waiting"
	case StatusDownloaded:
		return "Downloaded"
	case StatusVerifiedInternally:
		return "VerifiedInternally"
	case StatusVerified:
		return "Verified"
	case StatusSaved:
		return "Saved"
	case StatusRefilled:
		return "Refilled"
	case StatusInvalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// legalTransitions is the lattice's edge set; set_slice_status rejects
// anything not listed here, except the caller resetting a slice in place
// (handled separately by PenalizeStage/RetryStage, which always land on
// Empty).
var legalTransitions = map[Status]map[Status]bool{
	StatusEmpty:              {StatusWaiting: true},
	StatusWaiting:            {StatusDownloaded: true, StatusEmpty: true, StatusInvalid: true},
	StatusDownloaded:         {StatusVerifiedInternally: true, StatusInvalid: true},
	StatusVerifiedInternally: {StatusVerified: true, StatusInvalid: true},
	StatusVerified:           {StatusSaved: true},
	StatusSaved:              {StatusRefilled: true},
	StatusRefilled:           {},
	StatusInvalid:            {StatusEmpty: true},
}

// HeaderSlice is a contiguous, slice-boundary-aligned range of SliceSize
// headers.
type HeaderSlice struct {
	StartBlockNum uint64
	Status        Status

	// Headers holds SliceSize+1 entries once Status >= Downloaded: indices
	// [0, SliceSize) are this slice's own headers, index SliceSize is the
	// extra "anchor" header (block StartBlockNum+SliceSize) fetched only to
	// verify against the next slice-anchor hash (section 4.5).
	Headers []*types.Header

	RequestTime    time.Time
	RequestAttempt int
	FromPeerID     string
}

// AnchorHeader returns the extra 193rd header used for preverified-hash
// verification, or nil if the slice hasn't been downloaded yet.
func (s *HeaderSlice) AnchorHeader() *types.Header {
	if len(s.Headers) <= SliceSize {
		return nil
	}
	return s.Headers[SliceSize]
}

// OwnHeaders returns this slice's own SliceSize headers (excluding the
// anchor), or nil if not yet downloaded.
func (s *HeaderSlice) OwnHeaders() []*types.Header {
	if len(s.Headers) < SliceSize {
		return nil
	}
	return s.Headers[:SliceSize]
}

// reset clears everything but StartBlockNum and returns the slice to Empty,
// as PenalizeStage and RetryStage-on-timeout both do.
func (s *HeaderSlice) reset() {
	s.Status = StatusEmpty
	s.Headers = nil
	s.RequestAttempt = 0
	s.RequestTime = time.Time{}
	s.FromPeerID = ""
}
