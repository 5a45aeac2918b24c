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

	libcommon "github.com/coresync/headsync-lib/common"

	"github.com/coresync/headsync/core/types"
)

// TestIdempotentVerify reproduces property 6: verifying two independently
// downloaded copies of the same slice content yields the same Verified
// outcome each time.
func TestIdempotentVerify(t *testing.T) {
	chain := buildChain(0, SliceSize+1, 0xD0)
	preverified := PreverifiedHashesConfig{Hashes: []libcommon.Hash{chain[0].Hash(), chain[SliceSize].Hash()}}

	runOnce := func() Status {
		hs := NewHeaderSlices(datasize.ByteSize(1*sliceFootprint), 0, SliceSize-1)
		slice := hs.FindByStatus(StatusEmpty)
		require.NoError(t, hs.SetSliceStatus(slice, StatusWaiting))
		slice.Headers = chain
		require.NoError(t, hs.SetSliceStatus(slice, StatusDownloaded))

		v := NewVerifyStagePreverified(hs, preverified)
		require.NoError(t, v.Tick())
		return slice.Status
	}

	first := runOnce()
	second := runOnce()
	require.Equal(t, StatusVerified, first)
	require.Equal(t, first, second)
}

// TestVerifyInvalidatesBrokenChain confirms a slice whose internal
// parent-hash chain is broken is rejected, and that re-verifying an
// identically-broken copy is equally rejected (the other half of property
// 6: the outcome is a pure function of the slice's content).
func TestVerifyInvalidatesBrokenChain(t *testing.T) {
	chain := buildChain(0, SliceSize+1, 0xD1)
	preverified := PreverifiedHashesConfig{Hashes: []libcommon.Hash{chain[0].Hash(), chain[SliceSize].Hash()}}

	brokenCopy := func() []*types.Header {
		cp := make([]*types.Header, len(chain))
		for i, h := range chain {
			dup := *h
			cp[i] = &dup
		}
		cp[SliceSize/2].Number++ // breaks the ascending-number link
		return cp
	}

	runOnce := func() Status {
		hs := NewHeaderSlices(datasize.ByteSize(1*sliceFootprint), 0, SliceSize-1)
		slice := hs.FindByStatus(StatusEmpty)
		require.NoError(t, hs.SetSliceStatus(slice, StatusWaiting))
		slice.Headers = brokenCopy()
		require.NoError(t, hs.SetSliceStatus(slice, StatusDownloaded))

		v := NewVerifyStagePreverified(hs, preverified)
		require.NoError(t, v.Tick())
		return slice.Status
	}

	require.Equal(t, StatusInvalid, runOnce())
	require.Equal(t, StatusInvalid, runOnce())
}
