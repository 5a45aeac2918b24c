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

	"github.com/c2h5oh/datasize"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Config bundles the tunables section 3's "Design Notes" calls out by name.
type Config struct {
	// MemLimit bounds the header-slice window's footprint; the window size
	// is MemLimit / sliceFootprint (section 3, "window sizing").
	MemLimit datasize.ByteSize

	// MaxInflight caps how many slices FetchRequestStage may have
	// outstanding (Waiting) at once.
	MaxInflight int

	// MaxAttempts is how many times a slice may be (re)requested before
	// RetryStage marks it Invalid instead of re-issuing it.
	MaxAttempts int

	// RequestTimeout is how long a Waiting slice may sit before RetryStage
	// considers the request lost.
	RequestTimeout time.Duration

	// PenaltyCacheSize bounds the LRU tracking per-peer penalty counts.
	PenaltyCacheSize int
}

// DefaultConfig mirrors the teacher's historical defaults for a
// moderate-bandwidth full sync.
func DefaultConfig() Config {
	return Config{
		MemLimit:         512 * datasize.MB,
		MaxInflight:      32,
		MaxAttempts:      10,
		RequestTimeout:   5 * time.Second,
		PenaltyCacheSize: 1024,
	}
}

// PenaltyTracker counts per-peer strikes (bad slices) using a bounded LRU so
// a long-running download doesn't accumulate state for every peer it has
// ever seen.
type PenaltyTracker struct {
	cache *lru.Cache[string, int]
}

func NewPenaltyTracker(size int) *PenaltyTracker {
	c, _ := lru.New[string, int](size)
	return &PenaltyTracker{cache: c}
}

// Strike records one penalty against peerID and returns the new count.
func (p *PenaltyTracker) Strike(peerID string) int {
	n, _ := p.cache.Get(peerID)
	n++
	p.cache.Add(peerID, n)
	return n
}

// Count reports peerID's current strike count without modifying it.
func (p *PenaltyTracker) Count(peerID string) int {
	n, _ := p.cache.Get(peerID)
	return n
}
