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

// TopBlockEstimateStage passively tallies NewBlockHashes announcements and
// tracks the highest observed block number as an estimate of the network
// tip. It does not drive the download window: widening the target past the
// compiled-in preverified trust root would hand VerifyStagePreverified
// slices it has no anchor hash for, which is exactly the full-consensus
// verification path this module declines to implement (out of scope). The
// estimate is exposed for callers (e.g. a status report) to read.
type TopBlockEstimateStage struct {
	sentry Sentry

	estimate uint64
}

func NewTopBlockEstimateStage(hs *HeaderSlices, sentry Sentry) *TopBlockEstimateStage {
	return &TopBlockEstimateStage{sentry: sentry}
}

// Tick folds in every announcement buffered since the last call.
func (s *TopBlockEstimateStage) Tick() error {
	for _, a := range s.sentry.Announcements() {
		if a.Number > s.estimate {
			s.estimate = a.Number
		}
	}
	return nil
}

// Estimate returns the highest block number observed so far.
func (s *TopBlockEstimateStage) Estimate() uint64 {
	return s.estimate
}
