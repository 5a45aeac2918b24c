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
	"context"
	"time"

	"github.com/holiman/uint256"

	"github.com/coresync/headsync-lib/kv"
	"github.com/coresync/headsync-lib/log"
)

// tickStage is the common shape every pipeline stage presents to Run.
type tickStage interface {
	Tick() error
}

// Downloader composes the eight stages over a single HeaderSlices window
// and drives them cooperatively from one goroutine: each Tick runs to
// completion before the next stage gets a turn, so no stage needs its own
// locking beyond what HeaderSlices already provides. The teacher's
// downloader instead multiplexes independent per-stage tasks onto a single
// async reactor; a synchronous round-robin loop is the idiomatic Go
// equivalent when nothing here does its own blocking I/O (Sentry is
// polled, not awaited).
type Downloader struct {
	hs *HeaderSlices

	fetchRequest *FetchRequestStage
	fetchReceive *FetchReceiveStage
	retry        *RetryStage
	verify       *VerifyStagePreverified
	penalize     *PenalizeStage
	save         *SaveStage
	refill       *RefillStage
	topBlock     *TopBlockEstimateStage

	idleSleep time.Duration
}

// NewDownloader wires one instance of each stage against a shared
// HeaderSlices window.
func NewDownloader(hs *HeaderSlices, sentry Sentry, db kv.RwDB, cfg Config, preverified PreverifiedHashesConfig, startingTotalDifficulty *uint256.Int) *Downloader {
	tracker := NewPenaltyTracker(cfg.PenaltyCacheSize)
	fetchRequest := NewFetchRequestStage(hs, sentry, cfg)
	return &Downloader{
		hs:           hs,
		fetchRequest: fetchRequest,
		fetchReceive: NewFetchReceiveStage(hs, sentry, fetchRequest),
		retry:        NewRetryStage(hs, fetchRequest, cfg),
		verify:       NewVerifyStagePreverified(hs, preverified),
		penalize:     NewPenalizeStage(hs, sentry, tracker),
		save:         NewSaveStage(hs, db, startingTotalDifficulty),
		refill:       NewRefillStage(hs),
		topBlock:     NewTopBlockEstimateStage(hs, sentry),
		idleSleep:    50 * time.Millisecond,
	}
}

// Run drives the pipeline until ctx is cancelled, a stage reports a fatal
// error, the sentry runs out of usable peers, or every slice through the
// window's final position has been saved and slid out. The three-way
// termination check is grounded on the teacher's preverified downloader
// loop: first-error, can't-proceed, empty-at-final-position.
func (d *Downloader) Run(ctx context.Context) error {
	stages := []tickStage{
		d.fetchRequest,
		d.fetchReceive,
		d.retry,
		d.verify,
		d.penalize,
		d.save,
		d.refill,
		d.topBlock,
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		didWork := false
		for _, stage := range stages {
			before := d.snapshotActivity()
			if err := stage.Tick(); err != nil {
				return err
			}
			if d.snapshotActivity() != before {
				didWork = true
			}
		}

		if !d.fetchReceive.CanProceedCheck() {
			log.Warn("headerdownload: no usable peers, stopping")
			return nil
		}
		if d.hs.IsEmptyAtFinalPosition() {
			log.Info("headerdownload: reached final position, stopping")
			return nil
		}

		if !didWork {
			d.hs.NotifyStatusWatchers()
			time.Sleep(d.idleSleep)
		}
	}
}

// snapshotActivity is a cheap proxy for "did anything change this round",
// used only to decide whether to idle-sleep between rounds.
func (d *Downloader) snapshotActivity() uint64 {
	return d.hs.LowestBlockNum() +
		uint64(d.hs.CountByStatus(StatusWaiting)) +
		uint64(d.hs.CountByStatus(StatusDownloaded)) +
		uint64(d.hs.CountByStatus(StatusVerifiedInternally)) +
		uint64(d.hs.CountByStatus(StatusVerified)) +
		uint64(d.hs.CountByStatus(StatusSaved)) +
		uint64(d.hs.CountByStatus(StatusInvalid))
}
