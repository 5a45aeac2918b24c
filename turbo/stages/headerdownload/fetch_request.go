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
	"time"

	"github.com/coresync/headsync-lib/log"
)

// FetchRequestStage picks Empty slices and issues GetBlockHeaders requests
// for them, up to Config.MaxInflight outstanding Waiting slices at a time.
type FetchRequestStage struct {
	hs     *HeaderSlices
	sentry Sentry
	cfg    Config

	// pending maps an in-flight requestID back to the slice awaiting it, so
	// FetchReceiveStage can match a response without scanning the window.
	pending map[uint64]*HeaderSlice
}

func NewFetchRequestStage(hs *HeaderSlices, sentry Sentry, cfg Config) *FetchRequestStage {
	return &FetchRequestStage{hs: hs, sentry: sentry, cfg: cfg, pending: map[uint64]*HeaderSlice{}}
}

// Tick issues as many requests as the inflight budget allows this round.
func (s *FetchRequestStage) Tick() error {
	for s.hs.CountByStatus(StatusWaiting) < s.cfg.MaxInflight {
		slice := s.hs.FindByStatus(StatusEmpty)
		if slice == nil {
			return nil
		}
		reqID, err := s.sentry.SendGetBlockHeaders(slice.StartBlockNum, SliceSize+1)
		if err != nil {
			log.Warn("headerdownload: request failed", "start", slice.StartBlockNum, "err", err)
			return nil
		}
		if err := s.hs.SetSliceStatus(slice, StatusWaiting); err != nil {
			return err
		}
		slice.RequestTime = time.Now()
		s.pending[reqID] = slice
		s.hs.NotifyStatusWatchers()
	}
	return nil
}

// take removes and returns the slice awaiting requestID, if any.
func (s *FetchRequestStage) take(requestID uint64) (*HeaderSlice, bool) {
	slice, ok := s.pending[requestID]
	if ok {
		delete(s.pending, requestID)
	}
	return slice, ok
}

// cancelPending drops any outstanding request tracked for slice, used by
// RetryStage when it reclaims a timed-out Waiting slice.
func (s *FetchRequestStage) cancelPending(slice *HeaderSlice) {
	for id, pending := range s.pending {
		if pending == slice {
			delete(s.pending, id)
		}
	}
}
