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
	"fmt"
	"sync"

	"github.com/c2h5oh/datasize"
)

// sliceFootprint is the approximate in-memory cost of one fully-downloaded
// slice: SliceSize+1 header records, budgeted generously since headers carry
// variable-length Extra data.
const sliceFootprint = (SliceSize + 1) * 700

// HeaderSlices is the windowed, ring-buffered collection of slices covering
// [lowestBlockNum, lowestBlockNum+window*SliceSize). It is the only shared
// mutable object the pipeline's stages touch (section 5); every mutation
// goes through its methods, which serialize status transitions under mu.
type HeaderSlices struct {
	mu   sync.Mutex
	cond *sync.Cond

	// slots is the ring: slots[(baseIndex+i)%len(slots)] holds the slice
	// whose StartBlockNum is lowestBlockNum+i*SliceSize. A nil entry means
	// that position is past finalBlockNum and will never be populated.
	slots     []*HeaderSlice
	baseIndex int

	lowestBlockNum uint64
	finalBlockNum  uint64
}

// NewHeaderSlices builds a fresh window starting at lowest and sized so its
// total footprint fits memLimit.
func NewHeaderSlices(memLimit datasize.ByteSize, lowest, final uint64) *HeaderSlices {
	window := int(memLimit.Bytes()) / sliceFootprint
	if window < 1 {
		window = 1
	}
	hs := &HeaderSlices{
		slots:          make([]*HeaderSlice, window),
		lowestBlockNum: lowest,
		finalBlockNum:  final,
	}
	hs.cond = sync.NewCond(&hs.mu)
	for i := 0; i < window; i++ {
		start := lowest + uint64(i)*SliceSize
		if start > final {
			break
		}
		hs.slots[i] = &HeaderSlice{StartBlockNum: start, Status: StatusEmpty}
	}
	return hs
}

// Window reports the slot capacity (not all slots are necessarily occupied
// near the chain tip).
func (hs *HeaderSlices) Window() int {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	return len(hs.slots)
}

// slotAt returns the slot at logical position i in ascending StartBlockNum
// order (the ring index i mapped through baseIndex), or nil if that
// position is unoccupied.
func (hs *HeaderSlices) slotAt(i int) *HeaderSlice {
	return hs.slots[(hs.baseIndex+i)%len(hs.slots)]
}

// FindByStatus returns the lowest-StartBlockNum slice currently in status s,
// per the FIFO-by-height tie-break (section 4.1).
func (hs *HeaderSlices) FindByStatus(s Status) *HeaderSlice {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	for i := 0; i < len(hs.slots); i++ {
		slot := hs.slotAt(i)
		if slot != nil && slot.Status == s {
			return slot
		}
	}
	return nil
}

// CountByStatus reports how many slices currently sit in status s, used by
// FetchRequestStage to cap in-flight requests.
func (hs *HeaderSlices) CountByStatus(s Status) int {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	n := 0
	for i := 0; i < len(hs.slots); i++ {
		if slot := hs.slotAt(i); slot != nil && slot.Status == s {
			n++
		}
	}
	return n
}

// AllByStatus returns every slice currently in status s, ascending by
// StartBlockNum. Unlike FindByStatus this doesn't stop at the first match,
// so callers that need to examine (not just grab one of) a status class use
// this instead.
func (hs *HeaderSlices) AllByStatus(s Status) []*HeaderSlice {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	var out []*HeaderSlice
	for i := 0; i < len(hs.slots); i++ {
		if slot := hs.slotAt(i); slot != nil && slot.Status == s {
			out = append(out, slot)
		}
	}
	return out
}

// SetSliceStatus atomically transitions slice to newStatus, rejecting any
// edge legalTransitions doesn't list.
func (hs *HeaderSlices) SetSliceStatus(slice *HeaderSlice, newStatus Status) error {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	if !legalTransitions[slice.Status][newStatus] {
		return fmt.Errorf("headerdownload: illegal transition %s -> %s for slice %d", slice.Status, newStatus, slice.StartBlockNum)
	}
	slice.Status = newStatus
	hs.cond.Broadcast()
	return nil
}

// ResetToEmpty clears slice (headers, attempt count, peer credit) and
// transitions it back to Empty; used by PenalizeStage (from Invalid) and by
// RetryStage (from Waiting, where the caller has already bumped
// RequestAttempt before calling this).
func (hs *HeaderSlices) ResetToEmpty(slice *HeaderSlice, keepAttempt bool) {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	attempt := 0
	if keepAttempt {
		attempt = slice.RequestAttempt
	}
	slice.reset()
	slice.RequestAttempt = attempt
	slice.Status = StatusEmpty
	hs.cond.Broadcast()
}

// NotifyStatusWatchers wakes any goroutine blocked in Wait.
func (hs *HeaderSlices) NotifyStatusWatchers() {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	hs.cond.Broadcast()
}

// Wait blocks until NotifyStatusWatchers is next called. Callers re-check
// their condition after waking, since Broadcast carries no payload.
func (hs *HeaderSlices) Wait() {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	hs.cond.Wait()
}

// SlideWindowIfPossible drops the lowest slice once it reaches Refilled,
// shifts the ring's base forward, and appends a fresh Empty slot at the top
// if blocks remain below finalBlockNum.
func (hs *HeaderSlices) SlideWindowIfPossible() bool {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	lowest := hs.slotAt(0)
	if lowest == nil || lowest.Status != StatusRefilled {
		return false
	}
	hs.lowestBlockNum += SliceSize
	nextStart := hs.lowestBlockNum + uint64(len(hs.slots)-1)*SliceSize
	var fresh *HeaderSlice
	if nextStart <= hs.finalBlockNum {
		fresh = &HeaderSlice{StartBlockNum: nextStart, Status: StatusEmpty}
	}
	hs.slots[hs.baseIndex] = fresh
	hs.baseIndex = (hs.baseIndex + 1) % len(hs.slots)
	hs.cond.Broadcast()
	return true
}

// LowestBlockNum is the height of the lowest slice still tracked (i.e. the
// first not-yet-saved block).
func (hs *HeaderSlices) LowestBlockNum() uint64 {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	return hs.lowestBlockNum
}

// FinalBlockNum is the last block this download run targets.
func (hs *HeaderSlices) FinalBlockNum() uint64 {
	return hs.finalBlockNum
}

// IsEmptyAtFinalPosition reports whether every slice through finalBlockNum
// has been saved and slid out of the window.
func (hs *HeaderSlices) IsEmptyAtFinalPosition() bool {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	return hs.lowestBlockNum > hs.finalBlockNum
}
