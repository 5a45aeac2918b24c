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

package state

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	libcommon "github.com/coresync/headsync-lib/common"
	"github.com/coresync/headsync-lib/kv"
	"github.com/coresync/headsync-lib/kv/memdb"

	"github.com/coresync/headsync/core/types"
)

func u64ptr(v uint64) *uint64 { return &v }

// TestHistoricalAccountRead reproduces the historical-read scenario: tip
// balance 100 at block 10, with recorded pre-images at blocks 5 and 10.
func TestHistoricalAccountRead(t *testing.T) {
	db := memdb.New()
	tx, err := db.BeginRw(context.Background())
	require.NoError(t, err)

	a := libcommon.BytesToAddress([]byte{0xA1})
	require.NoError(t, WritePlainStateAccount(tx, a, &types.Account{Balance: uint256.NewInt(100)}))
	require.NoError(t, writeAccountChangeSet(tx, 5, a, (&types.Account{Balance: uint256.NewInt(40)}).EncodeRLP()))
	require.NoError(t, appendHistoryIndex(tx, kv.AccountsHistory, a.Bytes(), 5))
	require.NoError(t, writeAccountChangeSet(tx, 10, a, (&types.Account{Balance: uint256.NewInt(70)}).EncodeRLP()))
	require.NoError(t, appendHistoryIndex(tx, kv.AccountsHistory, a.Bytes(), 10))
	require.NoError(t, tx.Commit())

	ro, err := db.BeginRo(context.Background())
	require.NoError(t, err)
	defer ro.Rollback()

	r := NewHistoryReader(10)

	got, err := r.AccountRead(ro, a, u64ptr(4))
	require.NoError(t, err)
	require.True(t, got.Balance.Eq(uint256.NewInt(40)))

	got, err = r.AccountRead(ro, a, u64ptr(7))
	require.NoError(t, err)
	require.True(t, got.Balance.Eq(uint256.NewInt(70)))

	got, err = r.AccountRead(ro, a, u64ptr(10))
	require.NoError(t, err)
	require.True(t, got.Balance.Eq(uint256.NewInt(100)))
}

// TestStorageReadAcrossIncarnation reproduces the storage-incarnation
// scenario: slot 0x01 is 0xAA under incarnation 1, wiped by a self-destruct
// at block 5, then set to 0xBB under incarnation 2 at block 7.
func TestStorageReadAcrossIncarnation(t *testing.T) {
	db := memdb.New()
	tx, err := db.BeginRw(context.Background())
	require.NoError(t, err)

	a := libcommon.BytesToAddress([]byte{0xB2})
	slot := libcommon.BytesToHash([]byte{0x01})

	existing := &types.Account{Nonce: 1, Balance: uint256.NewInt(0), CodeHash: libcommon.BytesToHash([]byte{0xc0, 0xde}), Incarnation: 1}
	destroyed := &types.Account{Incarnation: 1}
	recreatedTip := &types.Account{Nonce: 1, Balance: uint256.NewInt(0), CodeHash: libcommon.BytesToHash([]byte{0xc0, 0xde}), Incarnation: 2}

	// Pre-images: before block 5 the account existed (incarnation 1);
	// before block 7 it was destroyed (still incarnation 1, IsEmpty true).
	require.NoError(t, writeAccountChangeSet(tx, 5, a, existing.EncodeRLP()))
	require.NoError(t, appendHistoryIndex(tx, kv.AccountsHistory, a.Bytes(), 5))
	require.NoError(t, writeAccountChangeSet(tx, 7, a, destroyed.EncodeRLP()))
	require.NoError(t, appendHistoryIndex(tx, kv.AccountsHistory, a.Bytes(), 7))

	// Storage: the self-destruct wipe at block 5 is an ordinary
	// StorageChange whose pre-value is the incarnation-1 slot content.
	require.NoError(t, writeStorageChangeSet(tx, 5, a, 1, slot, uint256.NewInt(0xAA)))
	entityKey := storageHistoryEntityKey(a, slot)
	require.NoError(t, appendHistoryIndex(tx, kv.StorageHistory, entityKey, 5))

	require.NoError(t, WritePlainStateAccount(tx, a, recreatedTip))
	require.NoError(t, WritePlainStateStorage(tx, a, 2, slot, uint256.NewInt(0xBB)))
	require.NoError(t, tx.Commit())

	ro, err := db.BeginRo(context.Background())
	require.NoError(t, err)
	defer ro.Rollback()

	r := NewHistoryReader(8)

	v, err := r.StorageRead(ro, a, slot, u64ptr(4))
	require.NoError(t, err)
	require.True(t, v.Eq(uint256.NewInt(0xAA)))

	v, err = r.StorageRead(ro, a, slot, u64ptr(6))
	require.NoError(t, err)
	require.True(t, v.IsZero())

	v, err = r.StorageRead(ro, a, slot, u64ptr(8))
	require.NoError(t, err)
	require.True(t, v.Eq(uint256.NewInt(0xBB)))
}
