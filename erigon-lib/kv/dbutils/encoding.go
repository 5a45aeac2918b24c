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

// Package dbutils holds the big-endian key-encoding helpers every table in
// erigon-lib/kv relies on, the same role the teacher's own dbutils package
// plays for callers like cursor.Seek(dbutils.EncodeBlockNumber(n)).
package dbutils

import "encoding/binary"

// EncodeBlockNumber big-endian encodes a block number so lexicographic byte
// order matches numeric order.
func EncodeBlockNumber(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

func DecodeBlockNumber(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}
