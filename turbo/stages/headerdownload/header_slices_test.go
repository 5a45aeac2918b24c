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
	"testing"

	"github.com/c2h5oh/datasize"
	"github.com/stretchr/testify/require"
)

// TestWindowBackpressure reproduces S6: a memory limit that fits only 4
// slices keeps the window at 4 occupied slots no matter how large
// final_block_num is, sliding exactly once the lowest slice reaches
// Refilled.
func TestWindowBackpressure(t *testing.T) {
	memLimit := datasize.ByteSize(4 * sliceFootprint)
	hs := NewHeaderSlices(memLimit, 0, SliceSize*10)
	require.Equal(t, 4, hs.Window())

	occupied := 0
	for i := 0; i < hs.Window(); i++ {
		if hs.slotAt(i) != nil {
			occupied++
		}
	}
	require.Equal(t, 4, occupied)

	lowest := hs.FindByStatus(StatusEmpty)
	require.NotNil(t, lowest)
	require.Equal(t, uint64(0), lowest.StartBlockNum)

	require.NoError(t, hs.SetSliceStatus(lowest, StatusWaiting))
	require.NoError(t, hs.SetSliceStatus(lowest, StatusDownloaded))
	require.NoError(t, hs.SetSliceStatus(lowest, StatusVerifiedInternally))
	require.NoError(t, hs.SetSliceStatus(lowest, StatusVerified))
	require.NoError(t, hs.SetSliceStatus(lowest, StatusSaved))
	require.NoError(t, hs.SetSliceStatus(lowest, StatusRefilled))

	slid := hs.SlideWindowIfPossible()
	require.True(t, slid, "lowest slice is Refilled, the window must slide")
	require.Equal(t, uint64(SliceSize), hs.LowestBlockNum())

	// still exactly 4 occupied slots after sliding
	occupied = 0
	for i := 0; i < hs.Window(); i++ {
		if hs.slotAt(i) != nil {
			occupied++
		}
	}
	require.Equal(t, 4, occupied)
}

func TestLegalTransitionsRejectIllegalEdges(t *testing.T) {
	hs := NewHeaderSlices(datasize.ByteSize(4*sliceFootprint), 0, SliceSize*4)
	slice := hs.FindByStatus(StatusEmpty)
	require.NotNil(t, slice)

	err := hs.SetSliceStatus(slice, StatusVerified)
	require.Error(t, err, "Empty -> Verified must be rejected")

	require.NoError(t, hs.SetSliceStatus(slice, StatusWaiting))
	require.NoError(t, hs.SetSliceStatus(slice, StatusDownloaded))
	require.NoError(t, hs.SetSliceStatus(slice, StatusInvalid))
	require.NoError(t, hs.SetSliceStatus(slice, StatusEmpty))
}

func TestSlicesNeverOverlap(t *testing.T) {
	hs := NewHeaderSlices(datasize.ByteSize(4*sliceFootprint), 0, SliceSize*4)
	seen := map[uint64]bool{}
	for i := 0; i < hs.Window(); i++ {
		slot := hs.slotAt(i)
		if slot == nil {
			continue
		}
		require.False(t, seen[slot.StartBlockNum], "duplicate StartBlockNum in window")
		seen[slot.StartBlockNum] = true
		require.Zero(t, slot.StartBlockNum%SliceSize, "slices must align to SliceSize boundaries")
	}
}
