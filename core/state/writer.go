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
	"sort"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	libcommon "github.com/coresync/headsync-lib/common"
	"github.com/coresync/headsync-lib/kv"

	"github.com/coresync/headsync/core/types"
)

// AccountChange describes one account's transition across one block:
// Pre is the image before the block (nil means the account did not exist),
// Post is the image after (nil means the account no longer exists).
type AccountChange struct {
	Address libcommon.Address
	Pre     *types.Account
	Post    *types.Account
}

// StorageChange describes one storage slot's transition across one block.
// A self-destruct wipe is modeled as an ordinary StorageChange with
// Post == nil (or zero): the history index and change-set don't need to
// know why a slot changed, only that it did.
type StorageChange struct {
	Address     libcommon.Address
	Incarnation uint64
	Slot        libcommon.Hash
	Pre         *uint256.Int
	Post        *uint256.Int
}

// ApplyBlockChangeSet is the collaborator contract of section 4.10: given
// the account and storage transitions the (out-of-scope) execution stage
// computed for block, it writes the change-set rows, appends to the
// history indexes, and updates PlainState to the post-images, all within
// the caller's single tx so the whole block commits atomically.
func ApplyBlockChangeSet(tx kv.RwTx, block uint64, accounts []AccountChange, storage []StorageChange) error {
	sort.Slice(accounts, func(i, j int) bool {
		return bytes.Compare(accounts[i].Address.Bytes(), accounts[j].Address.Bytes()) < 0
	})
	sort.Slice(storage, func(i, j int) bool {
		if c := bytes.Compare(storage[i].Address.Bytes(), storage[j].Address.Bytes()); c != 0 {
			return c < 0
		}
		return bytes.Compare(storage[i].Slot.Bytes(), storage[j].Slot.Bytes()) < 0
	})

	for _, c := range accounts {
		pre := c.Pre
		if pre == nil {
			pre = &types.Account{Balance: uint256.NewInt(0)}
		}
		if err := writeAccountChangeSet(tx, block, c.Address, pre.EncodeRLP()); err != nil {
			return errors.Wrapf(err, "state: write account change-set for %s", c.Address)
		}
		if err := appendHistoryIndex(tx, kv.AccountsHistory, c.Address.Bytes(), block); err != nil {
			return errors.Wrapf(err, "state: append account history for %s", c.Address)
		}
		if err := WritePlainStateAccount(tx, c.Address, c.Post); err != nil {
			return errors.Wrapf(err, "state: write plain-state account for %s", c.Address)
		}
	}

	for _, c := range storage {
		if err := writeStorageChangeSet(tx, block, c.Address, c.Incarnation, c.Slot, c.Pre); err != nil {
			return errors.Wrapf(err, "state: write storage change-set for %s/%s", c.Address, c.Slot)
		}
		entityKey := storageHistoryEntityKey(c.Address, c.Slot)
		if err := appendHistoryIndex(tx, kv.StorageHistory, entityKey, block); err != nil {
			return errors.Wrapf(err, "state: append storage history for %s/%s", c.Address, c.Slot)
		}
		if err := WritePlainStateStorage(tx, c.Address, c.Incarnation, c.Slot, c.Post); err != nil {
			return errors.Wrapf(err, "state: write plain-state storage for %s/%s", c.Address, c.Slot)
		}
	}
	return nil
}
