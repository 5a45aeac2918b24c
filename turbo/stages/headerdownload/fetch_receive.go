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

// FetchReceiveStage drains the sentry's response mailbox and moves matched
// slices from Waiting to Downloaded. A response that doesn't match any
// pending request (stale, duplicate, or for a slice already retried away)
// is dropped.
type FetchReceiveStage struct {
	hs      *HeaderSlices
	sentry  Sentry
	request *FetchRequestStage
}

func NewFetchReceiveStage(hs *HeaderSlices, sentry Sentry, request *FetchRequestStage) *FetchReceiveStage {
	return &FetchReceiveStage{hs: hs, sentry: sentry, request: request}
}

// Tick processes every response currently buffered in the sentry.
func (s *FetchReceiveStage) Tick() error {
	for _, resp := range s.sentry.Responses() {
		slice, ok := s.request.take(resp.RequestID)
		if !ok {
			continue
		}
		if len(resp.Headers) < SliceSize+1 {
			// Short answer: treat like a timeout, let RetryStage re-issue it.
			continue
		}
		slice.Headers = resp.Headers
		slice.FromPeerID = resp.PeerID
		if err := s.hs.SetSliceStatus(slice, StatusDownloaded); err != nil {
			log.Warn("headerdownload: downloaded transition rejected", "start", slice.StartBlockNum, "err", err)
			continue
		}
		s.hs.NotifyStatusWatchers()
	}
	return nil
}

// CanProceedCheck reports whether the sentry still sees usable peers;
// false makes Downloader.Run trip the pipeline's termination condition.
func (s *FetchReceiveStage) CanProceedCheck() bool {
	return s.sentry.CanProceed()
}
