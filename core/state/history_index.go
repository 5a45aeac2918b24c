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

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/pkg/errors"

	libcommon "github.com/coresync/headsync-lib/common"
	"github.com/coresync/headsync-lib/kv"
	"github.com/coresync/headsync-lib/kv/dbutils"
)

// chunkEntryLimit bounds how many block numbers a single history-index row
// may hold before it is closed and a fresh "open" chunk is started; it caps
// per-row size and keeps seeks O(log N) as section 9 describes.
const chunkEntryLimit = 1000

// openChunkSuffix marks the not-yet-closed, highest chunk of an entity's
// history: new block numbers are appended here until the chunk fills.
var openChunkSuffix = ^uint64(0)

// AccountHistoryKey builds the AccountsHistory row key for address, closed
// at chunkHighBlock (or openChunkSuffix for the live chunk).
func AccountHistoryKey(address libcommon.Address, chunkHighBlock uint64) []byte {
	return append(append([]byte{}, address.Bytes()...), dbutils.EncodeBlockNumber(chunkHighBlock)...)
}

// StorageHistoryKey builds the StorageHistory row key for (address, slot).
func StorageHistoryKey(address libcommon.Address, slot libcommon.Hash, chunkHighBlock uint64) []byte {
	k := append([]byte{}, address.Bytes()...)
	k = append(k, slot.Bytes()...)
	return append(k, dbutils.EncodeBlockNumber(chunkHighBlock)...)
}

func decodeBitmap(v []byte) (*roaring.Bitmap, error) {
	bm := roaring.New()
	if len(v) == 0 {
		return bm, nil
	}
	if _, err := bm.ReadFrom(bytes.NewReader(v)); err != nil {
		return nil, errors.Wrap(err, "state: decode history bitmap")
	}
	return bm, nil
}

func encodeBitmap(bm *roaring.Bitmap) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := bm.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "state: encode history bitmap")
	}
	return buf.Bytes(), nil
}

// appendHistoryIndex records that entityPrefix (an address, or
// address||slot) changed at block, closing the open chunk once it grows
// past chunkEntryLimit.
func appendHistoryIndex(tx kv.RwTx, table string, entityPrefix []byte, block uint64) error {
	openKey := append(append([]byte{}, entityPrefix...), dbutils.EncodeBlockNumber(openChunkSuffix)...)
	v, err := tx.GetOne(table, openKey)
	if err != nil {
		return err
	}
	bm, err := decodeBitmap(v)
	if err != nil {
		return err
	}
	bm.Add(uint32(block))
	if bm.GetCardinality() > chunkEntryLimit {
		if err := tx.Delete(table, openKey); err != nil {
			return err
		}
		closedKey := append(append([]byte{}, entityPrefix...), dbutils.EncodeBlockNumber(uint64(bm.Maximum()))...)
		enc, err := encodeBitmap(bm)
		if err != nil {
			return err
		}
		return tx.Put(table, closedKey, enc)
	}
	enc, err := encodeBitmap(bm)
	if err != nil {
		return err
	}
	return tx.Put(table, openKey, enc)
}

// findFirstChangeAfter seeks the smallest block number > block recorded for
// entityPrefix, scanning chunks in ascending suffix order until the entity's
// key space is exhausted. It returns ok=false when no later change exists.
func findFirstChangeAfter(tx kv.Tx, table string, entityPrefix []byte, block uint64) (uint64, bool, error) {
	cur, err := tx.Cursor(table)
	if err != nil {
		return 0, false, err
	}
	defer cur.Close()

	seekKey := append(append([]byte{}, entityPrefix...), dbutils.EncodeBlockNumber(block)...)
	k, v, err := cur.Seek(seekKey)
	if err != nil {
		return 0, false, err
	}
	for k != nil && bytes.HasPrefix(k, entityPrefix) {
		bm, err := decodeBitmap(v)
		if err != nil {
			return 0, false, err
		}
		it := bm.Iterator()
		it.AdvanceIfNeeded(uint32(block + 1))
		if it.HasNext() {
			return uint64(it.Next()), true, nil
		}
		k, v, err = cur.Next()
		if err != nil {
			return 0, false, err
		}
	}
	return 0, false, nil
}
