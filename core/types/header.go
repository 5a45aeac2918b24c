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
	"golang.org/x/crypto/sha3"

	libcommon "github.com/coresync/headsync-lib/common"
	"github.com/coresync/headsync-lib/rlp"
)

// Header is the subset of a block header the header-download pipeline and
// the historical state accessor need: enough to chain-verify by parent hash
// and number, persist a canonical record, and accumulate total difficulty.
// Execution-only fields (bloom, base fee, Cancun/blob fields) are the
// execution collaborator's concern, not this core's.
type Header struct {
	ParentHash libcommon.Hash
	Coinbase   libcommon.Address
	Root       libcommon.Hash
	TxHash     libcommon.Hash
	Difficulty *uint256.Int
	Number     uint64
	GasLimit   uint64
	GasUsed    uint64
	Time       uint64
	Extra      []byte
}

// Hash returns the Keccak256 hash of the RLP-encoded header, the value the
// header pipeline uses as a slice's anchor and as HeaderNumber's key.
func (h *Header) Hash() libcommon.Hash {
	hw := sha3.NewLegacyKeccak256()
	hw.Write(h.EncodeRLP())
	var out libcommon.Hash
	hw.Sum(out[:0])
	return out
}

// EncodeRLP returns the canonical RLP encoding of the header.
func (h *Header) EncodeRLP() []byte {
	var buf bytes.Buffer
	rlp.EncodeList(&buf,
		rlp.Encoded(func(b *bytes.Buffer) { rlp.EncodeBytes(b, h.ParentHash.Bytes()) }),
		rlp.Encoded(func(b *bytes.Buffer) { rlp.EncodeBytes(b, h.Coinbase.Bytes()) }),
		rlp.Encoded(func(b *bytes.Buffer) { rlp.EncodeBytes(b, h.Root.Bytes()) }),
		rlp.Encoded(func(b *bytes.Buffer) { rlp.EncodeBytes(b, h.TxHash.Bytes()) }),
		rlp.Encoded(func(b *bytes.Buffer) { rlp.EncodeBytes(b, difficultyBytes(h.Difficulty)) }),
		rlp.Encoded(func(b *bytes.Buffer) { rlp.EncodeUint64(b, h.Number) }),
		rlp.Encoded(func(b *bytes.Buffer) { rlp.EncodeUint64(b, h.GasLimit) }),
		rlp.Encoded(func(b *bytes.Buffer) { rlp.EncodeUint64(b, h.GasUsed) }),
		rlp.Encoded(func(b *bytes.Buffer) { rlp.EncodeUint64(b, h.Time) }),
		rlp.Encoded(func(b *bytes.Buffer) { rlp.EncodeBytes(b, h.Extra) }),
	)
	return buf.Bytes()
}

func difficultyBytes(d *uint256.Int) []byte {
	if d == nil {
		return nil
	}
	return d.Bytes()
}

// DecodeHeaderRLP decodes a header previously written by EncodeRLP.
func DecodeHeaderRLP(enc []byte) (*Header, error) {
	items, err := rlp.DecodeList(enc)
	if err != nil {
		return nil, err
	}
	get := func(i int) ([]byte, error) { return rlp.DecodeBytes(items[i]) }
	parentHash, err := get(0)
	if err != nil {
		return nil, err
	}
	coinbase, err := get(1)
	if err != nil {
		return nil, err
	}
	root, err := get(2)
	if err != nil {
		return nil, err
	}
	txHash, err := get(3)
	if err != nil {
		return nil, err
	}
	difficulty, err := get(4)
	if err != nil {
		return nil, err
	}
	number, err := rlp.DecodeUint64(items[5])
	if err != nil {
		return nil, err
	}
	gasLimit, err := rlp.DecodeUint64(items[6])
	if err != nil {
		return nil, err
	}
	gasUsed, err := rlp.DecodeUint64(items[7])
	if err != nil {
		return nil, err
	}
	t, err := rlp.DecodeUint64(items[8])
	if err != nil {
		return nil, err
	}
	extra, err := get(9)
	if err != nil {
		return nil, err
	}
	return &Header{
		ParentHash: libcommon.BytesToHash(parentHash),
		Coinbase:   libcommon.BytesToAddress(coinbase),
		Root:       libcommon.BytesToHash(root),
		TxHash:     libcommon.BytesToHash(txHash),
		Difficulty: new(uint256.Int).SetBytes(difficulty),
		Number:     number,
		GasLimit:   gasLimit,
		GasUsed:    gasUsed,
		Time:       t,
		Extra:      extra,
	}, nil
}
