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

// Package common holds the small set of fixed-size primitives the header
// pipeline and the state accessor pass around: block hashes, addresses and
// block numbers.
package common

import (
	"encoding/hex"
	"fmt"
)

// Hash is a 32-byte block or header hash.
type Hash [32]byte

func (h Hash) Bytes() []byte { return h[:] }
func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

func BytesToHash(b []byte) (h Hash) {
	if len(b) > len(h) {
		b = b[len(b)-len(h):]
	}
	copy(h[len(h)-len(b):], b)
	return h
}

// Address is a 20-byte account identifier.
type Address [20]byte

func (a Address) Bytes() []byte { return a[:] }
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

func BytesToAddress(b []byte) (a Address) {
	if len(b) > len(a) {
		b = b[len(b)-len(a):]
	}
	copy(a[len(a)-len(b):], b)
	return a
}

// BlockNumber is an unsigned chain height.
type BlockNumber uint64

func (n BlockNumber) String() string { return fmt.Sprintf("%d", uint64(n)) }
