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

// Package memdb is an in-process stand-in for the out-of-scope
// memory-mapped B+tree engine. It backs every table in
// erigon-lib/kv.ChaindataTablesCfg with a github.com/google/btree ordered
// tree and satisfies the kv.Tx/kv.RwTx cursor contract, so tests never
// need a real mdbx environment.
package memdb

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/google/btree"

	"github.com/coresync/headsync-lib/kv"
)

// kvItem is the btree element. For DupSort tables key is the full composite
// key||value; the table's dupFromLen records where the logical key ends.
type kvItem struct {
	key   []byte
	value []byte
}

func (a kvItem) Less(than btree.Item) bool {
	return bytes.Compare(a.key, than.(kvItem).key) < 0
}

type table struct {
	tree       *btree.BTree
	dupSort    bool
	dupFromLen int
}

// MemDB is a single-process database that admits either any number of
// concurrent read-only transactions or one read-write transaction, never
// both at once (a sync.RWMutex held for the transaction's lifetime).
type MemDB struct {
	mu     sync.RWMutex
	tables map[string]*table
}

func New() *MemDB {
	db := &MemDB{tables: make(map[string]*table)}
	for name, cfg := range kv.ChaindataTablesCfg {
		db.tables[name] = &table{
			tree:       btree.New(32),
			dupSort:    cfg.Flags&kv.DupSort != 0,
			dupFromLen: cfg.DupFromLen,
		}
	}
	return db
}

func (db *MemDB) BeginRo(_ context.Context) (kv.Tx, error) {
	db.mu.RLock()
	return &tx{db: db, writable: false}, nil
}

func (db *MemDB) BeginRw(_ context.Context) (kv.RwTx, error) {
	db.mu.Lock()
	return &tx{db: db, writable: true}, nil
}

type tx struct {
	db       *MemDB
	writable bool
	done     bool
}

func (t *tx) table(name string) (*table, error) {
	tbl, ok := t.db.tables[name]
	if !ok {
		return nil, fmt.Errorf("memdb: unknown table %q", name)
	}
	return tbl, nil
}

func (t *tx) GetOne(name string, key []byte) ([]byte, error) {
	tbl, err := t.table(name)
	if err != nil {
		return nil, err
	}
	found := tbl.tree.Get(kvItem{key: key})
	if found == nil {
		return nil, nil
	}
	return found.(kvItem).value, nil
}

func (t *tx) Put(name string, k, v []byte) error {
	tbl, err := t.table(name)
	if err != nil {
		return err
	}
	if tbl.dupSort {
		composite := append(append([]byte{}, k...), v...)
		tbl.tree.ReplaceOrInsert(kvItem{key: composite})
		return nil
	}
	tbl.tree.ReplaceOrInsert(kvItem{key: append([]byte{}, k...), value: append([]byte{}, v...)})
	return nil
}

func (t *tx) Delete(name string, k []byte) error {
	tbl, err := t.table(name)
	if err != nil {
		return err
	}
	tbl.tree.Delete(kvItem{key: k})
	return nil
}

func (t *tx) Cursor(name string) (kv.Cursor, error) {
	tbl, err := t.table(name)
	if err != nil {
		return nil, err
	}
	return &cursor{tbl: tbl}, nil
}

func (t *tx) CursorDupSort(name string) (kv.CursorDupSort, error) {
	tbl, err := t.table(name)
	if err != nil {
		return nil, err
	}
	if !tbl.dupSort {
		return nil, fmt.Errorf("memdb: table %q is not DupSort", name)
	}
	return &cursor{tbl: tbl}, nil
}

func (t *tx) RwCursor(name string) (kv.MutableCursor, error) {
	c, err := t.Cursor(name)
	if err != nil {
		return nil, err
	}
	return c.(*cursor), nil
}

func (t *tx) RwCursorDupSort(name string) (kv.MutableCursorDupSort, error) {
	c, err := t.CursorDupSort(name)
	if err != nil {
		return nil, err
	}
	return c.(*cursor), nil
}

func (t *tx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	t.db.mu.Unlock()
	return nil
}

func (t *tx) Rollback() {
	if t.done {
		return
	}
	t.done = true
	if t.writable {
		t.db.mu.Unlock()
	} else {
		t.db.mu.RUnlock()
	}
}

// cursor implements kv.MutableCursorDupSort; non-dup tables simply never
// exercise the dup-specific methods.
type cursor struct {
	tbl *table
	cur *kvItem
}

func (c *cursor) Close() {}

func (c *cursor) split(it kvItem) (k, v []byte) {
	if !c.tbl.dupSort {
		return it.key, it.value
	}
	return it.key[:c.tbl.dupFromLen], it.key[c.tbl.dupFromLen:]
}

func (c *cursor) First() ([]byte, []byte, error) {
	min := c.tbl.tree.Min()
	if min == nil {
		c.cur = nil
		return nil, nil, nil
	}
	it := min.(kvItem)
	c.cur = &it
	k, v := c.split(it)
	return k, v, nil
}

func (c *cursor) Last() ([]byte, []byte, error) {
	max := c.tbl.tree.Max()
	if max == nil {
		c.cur = nil
		return nil, nil, nil
	}
	it := max.(kvItem)
	c.cur = &it
	k, v := c.split(it)
	return k, v, nil
}

func (c *cursor) Seek(seek []byte) ([]byte, []byte, error) {
	var found *kvItem
	c.tbl.tree.AscendGreaterOrEqual(kvItem{key: seek}, func(i btree.Item) bool {
		it := i.(kvItem)
		found = &it
		return false
	})
	if found == nil {
		c.cur = nil
		return nil, nil, nil
	}
	c.cur = found
	k, v := c.split(*found)
	return k, v, nil
}

func (c *cursor) SeekExact(key []byte) ([]byte, []byte, error) {
	found := c.tbl.tree.Get(kvItem{key: key})
	if found == nil {
		c.cur = nil
		return nil, nil, nil
	}
	it := found.(kvItem)
	c.cur = &it
	k, v := c.split(it)
	return k, v, nil
}

func (c *cursor) Current() ([]byte, []byte, error) {
	if c.cur == nil {
		return nil, nil, nil
	}
	k, v := c.split(*c.cur)
	return k, v, nil
}

func (c *cursor) Next() ([]byte, []byte, error) {
	if c.cur == nil {
		return c.First()
	}
	var seen []kvItem
	start := *c.cur
	c.tbl.tree.AscendGreaterOrEqual(start, func(i btree.Item) bool {
		seen = append(seen, i.(kvItem))
		return len(seen) < 2
	})
	if len(seen) < 2 {
		c.cur = nil
		return nil, nil, nil
	}
	c.cur = &seen[1]
	k, v := c.split(seen[1])
	return k, v, nil
}

func (c *cursor) Prev() ([]byte, []byte, error) {
	if c.cur == nil {
		return c.Last()
	}
	var seen []kvItem
	start := *c.cur
	c.tbl.tree.DescendLessOrEqual(start, func(i btree.Item) bool {
		seen = append(seen, i.(kvItem))
		return len(seen) < 2
	})
	if len(seen) < 2 {
		c.cur = nil
		return nil, nil, nil
	}
	c.cur = &seen[1]
	k, v := c.split(seen[1])
	return k, v, nil
}

func (c *cursor) SeekBothRange(key, value []byte) ([]byte, error) {
	prefix := append(append([]byte{}, key...), value...)
	var found *kvItem
	c.tbl.tree.AscendGreaterOrEqual(kvItem{key: prefix}, func(i btree.Item) bool {
		it := i.(kvItem)
		found = &it
		return false
	})
	if found == nil || !bytes.HasPrefix(found.key, key) {
		c.cur = nil
		return nil, nil
	}
	c.cur = found
	_, v := c.split(*found)
	return v, nil
}

func (c *cursor) NextDup() ([]byte, []byte, error) {
	if c.cur == nil {
		return nil, nil, nil
	}
	prefix, _ := c.split(*c.cur)
	k, v, err := c.Next()
	if err != nil || k == nil {
		return nil, nil, err
	}
	nk, _ := c.split(*c.cur)
	if !bytes.Equal(nk, prefix) {
		c.cur = nil
		return nil, nil, nil
	}
	return k, v, nil
}

func (c *cursor) NextNoDup() ([]byte, []byte, error) {
	if c.cur == nil {
		return c.First()
	}
	prefix, _ := c.split(*c.cur)
	for {
		k, v, err := c.Next()
		if err != nil || k == nil {
			return k, v, err
		}
		if !bytes.Equal(k, prefix) {
			return k, v, nil
		}
	}
}

func (c *cursor) Put(k, v []byte) error {
	if c.tbl.dupSort {
		composite := append(append([]byte{}, k...), v...)
		c.tbl.tree.ReplaceOrInsert(kvItem{key: composite})
		return nil
	}
	c.tbl.tree.ReplaceOrInsert(kvItem{key: append([]byte{}, k...), value: append([]byte{}, v...)})
	return nil
}

func (c *cursor) Append(k, v []byte) error { return c.Put(k, v) }

func (c *cursor) AppendDup(k, v []byte) error { return c.Put(k, v) }

func (c *cursor) Delete(k []byte) error {
	c.tbl.tree.Delete(kvItem{key: k})
	return nil
}

func (c *cursor) DeleteCurrent() error {
	if c.cur == nil {
		return nil
	}
	c.tbl.tree.Delete(*c.cur)
	c.cur = nil
	return nil
}

func (c *cursor) DeleteCurrentDuplicates() error {
	if c.cur == nil {
		return nil
	}
	prefix, _ := c.split(*c.cur)
	for {
		k, _, err := c.Seek(prefix)
		if err != nil {
			return err
		}
		if k == nil || !bytes.Equal(k, prefix) {
			return nil
		}
		if err := c.DeleteCurrent(); err != nil {
			return err
		}
	}
}

func (c *cursor) Count() (uint64, error) {
	return uint64(c.tbl.tree.Len()), nil
}
