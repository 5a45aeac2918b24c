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
	"bytes"
	"encoding/binary"

	"github.com/holiman/uint256"

	libcommon "github.com/coresync/headsync-lib/common"
	"github.com/coresync/headsync-lib/kv"
	"github.com/coresync/headsync-lib/kv/dbutils"
)

// writeAccountChangeSet records the pre-image of address as of just before
// block, under PlainAccountChangeSet's DupSort layout: key blockNum(8),
// value address(20)||pre_image.
func writeAccountChangeSet(tx kv.RwTx, block uint64, address libcommon.Address, preImage []byte) error {
	v := append(append([]byte{}, address.Bytes()...), preImage...)
	return tx.Put(kv.PlainAccountChangeSet, dbutils.EncodeBlockNumber(block), v)
}

// readAccountChangeSet returns the pre-image recorded for address at block,
// or ok=false if no such row exists.
func readAccountChangeSet(tx kv.Tx, block uint64, address libcommon.Address) ([]byte, bool, error) {
	cur, err := tx.CursorDupSort(kv.PlainAccountChangeSet)
	if err != nil {
		return nil, false, err
	}
	defer cur.Close()
	v, err := cur.SeekBothRange(dbutils.EncodeBlockNumber(block), address.Bytes())
	if err != nil {
		return nil, false, err
	}
	if v == nil || !bytes.HasPrefix(v, address.Bytes()) {
		return nil, false, nil
	}
	return v[len(address):], true, nil
}

// storageChangeSetKey is the 36-byte DupSort key prefix: blockNum(8) ||
// address(20) || incarnation(8).
func storageChangeSetKey(block uint64, address libcommon.Address, incarnation uint64) []byte {
	k := dbutils.EncodeBlockNumber(block)
	k = append(k, address.Bytes()...)
	var incBuf [8]byte
	binary.BigEndian.PutUint64(incBuf[:], incarnation)
	return append(k, incBuf[:]...)
}

// writeStorageChangeSet records the pre-value of (address, incarnation,
// slot) as of just before block.
func writeStorageChangeSet(tx kv.RwTx, block uint64, address libcommon.Address, incarnation uint64, slot libcommon.Hash, preValue *uint256.Int) error {
	key := storageChangeSetKey(block, address, incarnation)
	var preBytes [32]byte
	if preValue != nil {
		preValue.WriteToSlice(preBytes[:])
	}
	v := append(append([]byte{}, slot.Bytes()...), preBytes[:]...)
	return tx.Put(kv.PlainStorageChangeSet, key, v)
}

// readStorageChangeSet returns the pre-value recorded for (address,
// incarnation, slot) at block, or ok=false if no such row exists.
func readStorageChangeSet(tx kv.Tx, block uint64, address libcommon.Address, incarnation uint64, slot libcommon.Hash) (*uint256.Int, bool, error) {
	cur, err := tx.CursorDupSort(kv.PlainStorageChangeSet)
	if err != nil {
		return nil, false, err
	}
	defer cur.Close()
	key := storageChangeSetKey(block, address, incarnation)
	v, err := cur.SeekBothRange(key, slot.Bytes())
	if err != nil {
		return nil, false, err
	}
	if v == nil || !bytes.HasPrefix(v, slot.Bytes()) || len(v) < 64 {
		return nil, false, nil
	}
	return new(uint256.Int).SetBytes(v[32:64]), true, nil
}
