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

package types

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	libcommon "github.com/coresync/headsync-lib/common"
)

func sampleHeader(number uint64, parent libcommon.Hash) *Header {
	return &Header{
		ParentHash: parent,
		Coinbase:   libcommon.BytesToAddress([]byte{1, 2, 3}),
		Root:       libcommon.BytesToHash([]byte{4, 5, 6}),
		TxHash:     libcommon.BytesToHash([]byte{7, 8, 9}),
		Difficulty: uint256.NewInt(17),
		Number:     number,
		GasLimit:   30_000_000,
		GasUsed:    21_000,
		Time:       1_700_000_000 + number,
		Extra:      []byte("test"),
	}
}

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := sampleHeader(100, libcommon.BytesToHash([]byte{0xde, 0xad}))
	enc := h.EncodeRLP()
	got, err := DecodeHeaderRLP(enc)
	require.NoError(t, err)
	require.Equal(t, h.ParentHash, got.ParentHash)
	require.Equal(t, h.Number, got.Number)
	require.Equal(t, h.GasLimit, got.GasLimit)
	require.Equal(t, h.Time, got.Time)
	require.True(t, h.Difficulty.Eq(got.Difficulty))
}

func TestHeaderHashIsDeterministicAndChainable(t *testing.T) {
	genesis := sampleHeader(0, libcommon.Hash{})
	genesisHash := genesis.Hash()
	require.Equal(t, genesisHash, genesis.Hash(), "hash must be stable across calls")

	child := sampleHeader(1, genesisHash)
	require.NotEqual(t, genesisHash, child.Hash())
	require.Equal(t, genesisHash, child.ParentHash)
}
