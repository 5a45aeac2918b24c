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

// Package kv names the persisted tables the header pipeline and the state
// accessor read and write, and defines the generic transactional cursor
// contract they consume. The underlying storage engine is out of scope here:
// anything satisfying these interfaces (an mdbx-backed engine, or the
// in-memory kv/memdb used by tests) can back them.
package kv

const (
	// Header: num(8) || hash(32) -> RLP(header)
	Header = "Header"
	// CanonicalHash: num(8) -> hash(32)
	CanonicalHash = "CanonicalHash"
	// HeaderNumber: hash(32) -> num(8)
	HeaderNumber = "HeaderNumber"
	// TotalDifficulty: num(8) || hash(32) || 't' -> RLP(U256)
	TotalDifficulty = "TotalDifficulty"
	// BlockBody: num(8) || hash(32) -> RLP(body, with tx-id range)
	BlockBody = "BlockBody"

	// PlainState: address(20) -> RLP(account)
	// or address(20) || incarnation(8) || slot(32) -> U256
	PlainState = "PlainState"

	// PlainAccountChangeSet: num(8) -> address(20) || pre_image (DupSort)
	PlainAccountChangeSet = "PlainAccountChangeSet"
	// PlainStorageChangeSet: num(8) || address(20) || incarnation(8) -> slot(32) || pre_value(32) (DupSort)
	PlainStorageChangeSet = "PlainStorageChangeSet"

	// AccountsHistory: address(20) || chunk_high_block(8) -> roaring bitmap of block numbers
	AccountsHistory = "AccountsHistory"
	// StorageHistory: address(20) || slot(32) || chunk_high_block(8) -> roaring bitmap
	StorageHistory = "StorageHistory"

	// SyncStageProgress: stage name -> block_num(8)
	SyncStageProgress = "SyncStageProgress"
	// TxLookup: tx_hash(32) -> block_num(8)
	TxLookup = "TxLookup"
)

// TableFlags describe the physical layout a table was created with.
type TableFlags uint

const (
	Default TableFlags = 0x00
	// DupSort tables allow multiple values per key, sorted.
	DupSort TableFlags = 0x04
)

// TableCfgItem mirrors the subset of mdbx table configuration this core
// cares about: which tables are dup-sorted, and the fixed-width prefix of
// their key that addresses the dup-sort group.
type TableCfgItem struct {
	Flags      TableFlags
	DupFromLen int // length of the dup-sort key prefix, 0 if not dup-sorted
}

// ChaindataTablesCfg is the subset of the schema this core actually touches.
var ChaindataTablesCfg = map[string]TableCfgItem{
	Header:                {Flags: Default},
	CanonicalHash:         {Flags: Default},
	HeaderNumber:          {Flags: Default},
	TotalDifficulty:       {Flags: Default},
	BlockBody:             {Flags: Default},
	PlainState:            {Flags: Default},
	PlainAccountChangeSet: {Flags: DupSort, DupFromLen: 8},
	PlainStorageChangeSet: {Flags: DupSort, DupFromLen: 36},
	AccountsHistory:       {Flags: Default},
	StorageHistory:        {Flags: Default},
	SyncStageProgress:     {Flags: Default},
	TxLookup:              {Flags: Default},
}

// ChaindataTables lists every table name this core persists to or reads
// from, in the same spirit as the teacher's ChaindataTables list.
var ChaindataTables = func() []string {
	names := make([]string, 0, len(ChaindataTablesCfg))
	for name := range ChaindataTablesCfg {
		names = append(names, name)
	}
	return names
}()
