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
	"encoding/binary"

	"github.com/holiman/uint256"

	libcommon "github.com/coresync/headsync-lib/common"
	"github.com/coresync/headsync-lib/kv"

	"github.com/coresync/headsync/core/types"
)

// plainStateStorageKey is address(20) || incarnation(8) || slot(32).
func plainStateStorageKey(address libcommon.Address, incarnation uint64, slot libcommon.Hash) []byte {
	k := append([]byte{}, address.Bytes()...)
	var incBuf [8]byte
	binary.BigEndian.PutUint64(incBuf[:], incarnation)
	k = append(k, incBuf[:]...)
	return append(k, slot.Bytes()...)
}

// ReadPlainStateAccount returns the tip account image for address, or the
// default (non-existent) account if no row exists.
func ReadPlainStateAccount(tx kv.Tx, address libcommon.Address) (*types.Account, error) {
	v, err := tx.GetOne(kv.PlainState, address.Bytes())
	if err != nil {
		return nil, err
	}
	return types.DecodeAccountRLP(v)
}

// WritePlainStateAccount stores acct as the tip image for address, or
// deletes the row when acct is the default (non-existent) account.
func WritePlainStateAccount(tx kv.RwTx, address libcommon.Address, acct *types.Account) error {
	if acct == nil || acct.IsEmpty() {
		return tx.Delete(kv.PlainState, address.Bytes())
	}
	return tx.Put(kv.PlainState, address.Bytes(), acct.EncodeRLP())
}

// ReadPlainStateStorage returns the tip value of (address, incarnation,
// slot), defaulting to zero.
func ReadPlainStateStorage(tx kv.Tx, address libcommon.Address, incarnation uint64, slot libcommon.Hash) (*uint256.Int, error) {
	v, err := tx.GetOne(kv.PlainState, plainStateStorageKey(address, incarnation, slot))
	if err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return uint256.NewInt(0), nil
	}
	return new(uint256.Int).SetBytes(v), nil
}

// WritePlainStateStorage stores value as the tip value of (address,
// incarnation, slot), or deletes the row when value is zero.
func WritePlainStateStorage(tx kv.RwTx, address libcommon.Address, incarnation uint64, slot libcommon.Hash, value *uint256.Int) error {
	key := plainStateStorageKey(address, incarnation, slot)
	if value == nil || value.IsZero() {
		return tx.Delete(kv.PlainState, key)
	}
	return tx.Put(kv.PlainState, key, value.Bytes())
}
