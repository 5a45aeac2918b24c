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
	"github.com/holiman/uint256"

	libcommon "github.com/coresync/headsync-lib/common"
	"github.com/coresync/headsync-lib/kv"

	"github.com/coresync/headsync/core/types"
)

// HistoryReader answers point-in-time account and storage queries by
// combining PlainState with the change-set/history-index pair, per section
// 4.9. It holds no mutable state of its own: every call takes the
// transactional snapshot it reads from.
type HistoryReader struct {
	// Tip is the highest block number whose effects are already reflected
	// in PlainState. Reads for block >= Tip go straight to PlainState.
	Tip uint64
}

func NewHistoryReader(tip uint64) *HistoryReader {
	return &HistoryReader{Tip: tip}
}

// AccountRead implements account_read(tx, address, block_opt).
func (r *HistoryReader) AccountRead(tx kv.Tx, address libcommon.Address, block *uint64) (*types.Account, error) {
	if block == nil || *block >= r.Tip {
		return ReadPlainStateAccount(tx, address)
	}
	bStar, ok, err := findFirstChangeAfter(tx, kv.AccountsHistory, address.Bytes(), *block)
	if err != nil {
		return nil, err
	}
	if !ok {
		return ReadPlainStateAccount(tx, address)
	}
	enc, ok, err := readAccountChangeSet(tx, bStar, address)
	if err != nil {
		return nil, err
	}
	if !ok {
		return ReadPlainStateAccount(tx, address)
	}
	return types.DecodeAccountRLP(enc)
}

// StorageRead implements storage_read(tx, address, slot, block_opt). The
// incarnation to use is resolved from the account as of the same block
// (section 4.9's "analogous" storage algorithm, made precise: the account
// record already carries the Incarnation an Ethereum state reader needs,
// so storage_read reuses AccountRead instead of taking a second parameter).
func (r *HistoryReader) StorageRead(tx kv.Tx, address libcommon.Address, slot libcommon.Hash, block *uint64) (*uint256.Int, error) {
	acct, err := r.AccountRead(tx, address, block)
	if err != nil {
		return nil, err
	}
	if acct.IsEmpty() {
		return uint256.NewInt(0), nil
	}
	if block == nil || *block >= r.Tip {
		return ReadPlainStateStorage(tx, address, acct.Incarnation, slot)
	}
	entityKey := storageHistoryEntityKey(address, slot)
	bStar, ok, err := findFirstChangeAfter(tx, kv.StorageHistory, entityKey, *block)
	if err != nil {
		return nil, err
	}
	if !ok {
		return ReadPlainStateStorage(tx, address, acct.Incarnation, slot)
	}
	v, ok, err := readStorageChangeSet(tx, bStar, address, acct.Incarnation, slot)
	if err != nil {
		return nil, err
	}
	if !ok {
		return ReadPlainStateStorage(tx, address, acct.Incarnation, slot)
	}
	return v, nil
}

func storageHistoryEntityKey(address libcommon.Address, slot libcommon.Hash) []byte {
	return append(append([]byte{}, address.Bytes()...), slot.Bytes()...)
}
