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

	"github.com/cenkalti/backoff/v4"

	"github.com/coresync/headsync-lib/log"
)

// RetryStage reclaims Waiting slices whose request has sat past the
// slice's own exponential-backoff deadline, sending them back to Empty for
// FetchRequestStage to reissue, up to Config.MaxAttempts before giving up
// and marking the slice Invalid for PenalizeStage to deal with. Each
// reclaim grows that slice's wait before the next one is allowed, so a
// peer that keeps stalling the same slice gets re-hammered less often
// instead of every RequestTimeout on the dot.
type RetryStage struct {
	hs      *HeaderSlices
	request *FetchRequestStage
	cfg     Config

	// backoffs tracks one exponential-backoff clock per in-flight slice,
	// each tagged with the attempt count its current wait duration was
	// computed for, so Tick only calls NextBackOff once per attempt rather
	// than once per poll.
	backoffs map[*HeaderSlice]*retryBackoff
}

type retryBackoff struct {
	clock   *backoff.ExponentialBackOff
	attempt int
	wait    time.Duration
}

func NewRetryStage(hs *HeaderSlices, request *FetchRequestStage, cfg Config) *RetryStage {
	return &RetryStage{hs: hs, request: request, cfg: cfg, backoffs: map[*HeaderSlice]*retryBackoff{}}
}

// Tick reclaims every Waiting slice whose backoff deadline has passed, and
// drops backoff state for slices that have left the retry cycle entirely
// (saved, refilled, or already invalidated) so the map doesn't grow for the
// life of the run.
func (s *RetryStage) Tick() error {
	for _, slice := range s.hs.AllByStatus(StatusWaiting) {
		rb, ok := s.backoffs[slice]
		if !ok || rb.attempt != slice.RequestAttempt {
			if !ok {
				clock := backoff.NewExponentialBackOff()
				clock.InitialInterval = s.cfg.RequestTimeout
				clock.MaxElapsedTime = 0
				clock.Reset()
				rb = &retryBackoff{clock: clock}
				s.backoffs[slice] = rb
			}
			rb.attempt = slice.RequestAttempt
			rb.wait = rb.clock.NextBackOff()
		}

		if time.Since(slice.RequestTime) < rb.wait {
			continue
		}
		s.request.cancelPending(slice)

		slice.RequestAttempt++
		if slice.RequestAttempt >= s.cfg.MaxAttempts {
			delete(s.backoffs, slice)
			if err := s.hs.SetSliceStatus(slice, StatusInvalid); err != nil {
				return err
			}
			log.Warn("headerdownload: slice exceeded max attempts", "start", slice.StartBlockNum, "attempts", slice.RequestAttempt)
			continue
		}
		s.hs.ResetToEmpty(slice, true)
	}

	for _, slice := range s.hs.AllByStatus(StatusInvalid) {
		delete(s.backoffs, slice)
	}
	for _, slice := range s.hs.AllByStatus(StatusSaved) {
		delete(s.backoffs, slice)
	}
	for _, slice := range s.hs.AllByStatus(StatusRefilled) {
		delete(s.backoffs, slice)
	}
	return nil
}
