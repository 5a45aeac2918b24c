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
	"bytes"

	"github.com/holiman/uint256"

	libcommon "github.com/coresync/headsync-lib/common"
	"github.com/coresync/headsync-lib/rlp"
)

// Account is the PlainState record for one address. A zero-value Account
// (nonce 0, balance 0, empty code hash, incarnation 0) signals non-existence.
type Account struct {
	Nonce       uint64
	Balance     *uint256.Int
	CodeHash    libcommon.Hash
	Incarnation uint64
}

// IsEmpty reports whether the account is the default, non-existent value.
// Incarnation deliberately does not gate this: a self-destructed account
// keeps its Incarnation until the address is recreated, so an account can
// be empty (nonce/balance/code all zero) with a nonzero Incarnation during
// the window between destruction and recreation.
func (a *Account) IsEmpty() bool {
	return a.Nonce == 0 && (a.Balance == nil || a.Balance.IsZero()) &&
		a.CodeHash == (libcommon.Hash{})
}

// EncodeRLP returns the canonical encoding stored in PlainState and as the
// pre-image value in AccountChangeSet.
func (a *Account) EncodeRLP() []byte {
	var buf bytes.Buffer
	balance := a.Balance
	if balance == nil {
		balance = uint256.NewInt(0)
	}
	rlp.EncodeList(&buf,
		rlp.Encoded(func(b *bytes.Buffer) { rlp.EncodeUint64(b, a.Nonce) }),
		rlp.Encoded(func(b *bytes.Buffer) { rlp.EncodeBytes(b, balance.Bytes()) }),
		rlp.Encoded(func(b *bytes.Buffer) { rlp.EncodeBytes(b, a.CodeHash.Bytes()) }),
		rlp.Encoded(func(b *bytes.Buffer) { rlp.EncodeUint64(b, a.Incarnation) }),
	)
	return buf.Bytes()
}

// DecodeAccountRLP decodes an account previously written by EncodeRLP. A nil
// or empty enc decodes to the default (non-existent) account.
func DecodeAccountRLP(enc []byte) (*Account, error) {
	if len(enc) == 0 {
		return &Account{Balance: uint256.NewInt(0)}, nil
	}
	items, err := rlp.DecodeList(enc)
	if err != nil {
		return nil, err
	}
	nonce, err := rlp.DecodeUint64(items[0])
	if err != nil {
		return nil, err
	}
	balanceBytes, err := rlp.DecodeBytes(items[1])
	if err != nil {
		return nil, err
	}
	codeHash, err := rlp.DecodeBytes(items[2])
	if err != nil {
		return nil, err
	}
	incarnation, err := rlp.DecodeUint64(items[3])
	if err != nil {
		return nil, err
	}
	return &Account{
		Nonce:       nonce,
		Balance:     new(uint256.Int).SetBytes(balanceBytes),
		CodeHash:    libcommon.BytesToHash(codeHash),
		Incarnation: incarnation,
	}, nil
}
