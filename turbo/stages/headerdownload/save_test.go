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
	"testing"

	"github.com/c2h5oh/datasize"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/coresync/headsync-lib/kv"
	"github.com/coresync/headsync-lib/kv/dbutils"
	"github.com/coresync/headsync-lib/kv/memdb"
)

// TestSaveStageBlocksOnGap reproduces property 3 / save continuity: a
// Verified slice whose StartBlockNum isn't the next expected height is left
// untouched (not saved) until the gap below it fills in.
func TestSaveStageBlocksOnGap(t *testing.T) {
	final := 2*SliceSize - 1
	hs := NewHeaderSlices(datasize.ByteSize(4*sliceFootprint), 0, uint64(final))

	chain := buildChain(0, 2*SliceSize+1, 0xE0)

	lower := hs.FindByStatus(StatusEmpty) // start=0
	require.NotNil(t, lower)
	var upper *HeaderSlice
	for i := 0; i < hs.Window(); i++ {
		if s := hs.slotAt(i); s != nil && s.StartBlockNum == SliceSize {
			upper = s
		}
	}
	require.NotNil(t, upper)

	require.NoError(t, hs.SetSliceStatus(upper, StatusWaiting))
	upper.Headers = chain[SliceSize : 2*SliceSize+1]
	require.NoError(t, hs.SetSliceStatus(upper, StatusDownloaded))
	require.NoError(t, hs.SetSliceStatus(upper, StatusVerifiedInternally))
	require.NoError(t, hs.SetSliceStatus(upper, StatusVerified))

	db := memdb.New()
	save := NewSaveStage(hs, db, uint256.NewInt(0))
	require.NoError(t, save.Tick())
	require.Equal(t, StatusVerified, upper.Status, "upper slice must wait for the gap below it to fill")

	ro, err := db.BeginRo(context.Background())
	require.NoError(t, err)
	h, err := ro.GetOne(kv.CanonicalHash, dbutils.EncodeBlockNumber(SliceSize))
	require.NoError(t, err)
	require.Nil(t, h, "nothing from the upper slice should be persisted yet")
	ro.Rollback()

	require.NoError(t, hs.SetSliceStatus(lower, StatusWaiting))
	lower.Headers = chain[0 : SliceSize+1]
	require.NoError(t, hs.SetSliceStatus(lower, StatusDownloaded))
	require.NoError(t, hs.SetSliceStatus(lower, StatusVerifiedInternally))
	require.NoError(t, hs.SetSliceStatus(lower, StatusVerified))

	require.NoError(t, save.Tick())
	require.Equal(t, StatusSaved, lower.Status)
	require.Equal(t, StatusVerified, upper.Status, "upper still waits: it only becomes next-in-line once the lower slot slides out of the window")

	refill := NewRefillStage(hs)
	require.NoError(t, refill.Tick())
	require.Equal(t, uint64(SliceSize), hs.LowestBlockNum(), "saving+refilling the lower slice must slide the window up")

	require.NoError(t, save.Tick())
	require.Equal(t, StatusSaved, upper.Status, "once the window has slid, the upper slice is next-in-line and saves")

	ro, err = db.BeginRo(context.Background())
	require.NoError(t, err)
	defer ro.Rollback()
	for n := uint64(0); n <= uint64(final); n++ {
		h, err := ro.GetOne(kv.CanonicalHash, dbutils.EncodeBlockNumber(n))
		require.NoError(t, err)
		require.NotNil(t, h, "block %d should now be persisted", n)
	}
}
