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

package kv

import "context"

// Cursor walks one table's keys in sorted order. nil, nil, nil signals
// end-of-table, mirroring mdbx's NotFound-as-empty-option convention.
type Cursor interface {
	First() (k, v []byte, err error)
	Seek(seek []byte) (k, v []byte, err error)
	SeekExact(key []byte) (k, v []byte, err error)
	Next() (k, v []byte, err error)
	Prev() (k, v []byte, err error)
	Last() (k, v []byte, err error)
	Current() (k, v []byte, err error)
	Close()
}

// CursorDupSort additionally walks the multiple values stored under one key
// in a dup-sorted table.
type CursorDupSort interface {
	Cursor
	SeekBothRange(key, value []byte) (v []byte, err error)
	NextDup() (k, v []byte, err error)
	NextNoDup() (k, v []byte, err error)
}

// MutableCursor is a Cursor opened against a read-write transaction.
type MutableCursor interface {
	Cursor
	Put(k, v []byte) error
	Append(k, v []byte) error
	Delete(k []byte) error
	DeleteCurrent() error
	Count() (uint64, error)
}

// MutableCursorDupSort is a CursorDupSort opened against a read-write
// transaction.
type MutableCursorDupSort interface {
	MutableCursor
	CursorDupSort
	AppendDup(k, v []byte) error
	DeleteCurrentDuplicates() error
}

// Tx is a read-only transactional view over the generic cursor interface.
// The underlying memory-mapped engine is out of scope; anything satisfying
// Tx can back the header pipeline and the state accessor.
type Tx interface {
	GetOne(table string, key []byte) (val []byte, err error)
	Cursor(table string) (Cursor, error)
	CursorDupSort(table string) (CursorDupSort, error)
	Rollback()
}

// RwTx is a Tx that also allows mutation and commit.
type RwTx interface {
	Tx
	Put(table string, k, v []byte) error
	Delete(table string, k []byte) error
	RwCursor(table string) (MutableCursor, error)
	RwCursorDupSort(table string) (MutableCursorDupSort, error)
	Commit() error
}

// RoDB opens read-only transactions.
type RoDB interface {
	BeginRo(ctx context.Context) (Tx, error)
}

// RwDB opens both read-only and read-write transactions.
type RwDB interface {
	RoDB
	BeginRw(ctx context.Context) (RwTx, error)
}
