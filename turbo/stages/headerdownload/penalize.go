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

// PenalizeStage reports the peer behind every Invalid slice to the sentry
// and recycles the slice back to Empty so FetchRequestStage tries it again,
// presumably against a different peer.
type PenalizeStage struct {
	hs      *HeaderSlices
	sentry  Sentry
	tracker *PenaltyTracker
}

func NewPenalizeStage(hs *HeaderSlices, sentry Sentry, tracker *PenaltyTracker) *PenalizeStage {
	return &PenalizeStage{hs: hs, sentry: sentry, tracker: tracker}
}

// Tick penalizes and recycles every currently Invalid slice.
func (s *PenalizeStage) Tick() error {
	for _, slice := range s.hs.AllByStatus(StatusInvalid) {
		if slice.FromPeerID != "" {
			s.sentry.PenalizePeer(slice.FromPeerID)
			n := s.tracker.Strike(slice.FromPeerID)
			log.Info("headerdownload: penalized peer", "peer", slice.FromPeerID, "strikes", n, "start", slice.StartBlockNum)
		}
		s.hs.ResetToEmpty(slice, false)
	}
	return nil
}
