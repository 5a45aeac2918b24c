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
	"github.com/coresync/headsync-lib/log"
)

// VerifyStagePreverified performs the lattice's two verification hops in
// sequence: an internal parent-hash chain check (Downloaded ->
// VerifiedInternally), then a check of the slice's anchor header against
// the compiled-in preverified hash table (VerifiedInternally -> Verified).
// A slice failing either hop goes to Invalid instead.
type VerifyStagePreverified struct {
	hs     *HeaderSlices
	config PreverifiedHashesConfig
}

func NewVerifyStagePreverified(hs *HeaderSlices, config PreverifiedHashesConfig) *VerifyStagePreverified {
	return &VerifyStagePreverified{hs: hs, config: config}
}

// Tick verifies every Downloaded slice currently in the window.
func (s *VerifyStagePreverified) Tick() error {
	for _, slice := range s.hs.AllByStatus(StatusDownloaded) {
		if !s.verifyInternalOrder(slice) {
			log.Warn("headerdownload: internal chain order mismatch", "start", slice.StartBlockNum, "peer", slice.FromPeerID)
			if err := s.hs.SetSliceStatus(slice, StatusInvalid); err != nil {
				return err
			}
			continue
		}
		if err := s.hs.SetSliceStatus(slice, StatusVerifiedInternally); err != nil {
			return err
		}
	}

	for _, slice := range s.hs.AllByStatus(StatusVerifiedInternally) {
		if !s.verifyAnchor(slice) {
			log.Warn("headerdownload: anchor hash mismatch", "start", slice.StartBlockNum, "peer", slice.FromPeerID)
			if err := s.hs.SetSliceStatus(slice, StatusInvalid); err != nil {
				return err
			}
			continue
		}
		if err := s.hs.SetSliceStatus(slice, StatusVerified); err != nil {
			return err
		}
		s.hs.NotifyStatusWatchers()
	}
	return nil
}

// verifyInternalOrder checks that each header's ParentHash matches the hash
// of the header immediately before it, including the anchor as the last
// link in the chain.
func (s *VerifyStagePreverified) verifyInternalOrder(slice *HeaderSlice) bool {
	for i := 1; i < len(slice.Headers); i++ {
		if slice.Headers[i].ParentHash != slice.Headers[i-1].Hash() {
			return false
		}
		if slice.Headers[i].Number != slice.Headers[i-1].Number+1 {
			return false
		}
	}
	return true
}

// verifyAnchor checks the slice's 193rd header against the compiled-in
// trust root. A slice past the end of the trust root table has no anchor
// to check against full consensus verification (an explicit Non-goal), so
// it cannot be accepted here: RefillStage never offers Empty slots beyond
// FinalBlockNum, and FinalBlockNum is never advanced past what the trust
// root covers, so in practice every slice this stage sees has an entry.
func (s *VerifyStagePreverified) verifyAnchor(slice *HeaderSlice) bool {
	want, ok := s.config.HashAt(slice.StartBlockNum)
	if !ok {
		return false
	}
	anchor := slice.AnchorHeader()
	if anchor == nil {
		return false
	}
	return anchor.Hash() == want
}
