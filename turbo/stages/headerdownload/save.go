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

package headerdownload

import (
	"bytes"
	"context"

	"github.com/holiman/uint256"

	"github.com/coresync/headsync-lib/kv"
	"github.com/coresync/headsync-lib/kv/dbutils"
	"github.com/coresync/headsync-lib/rlp"

	"github.com/coresync/headsync/core/types"
)

// SaveStage persists Verified slices to the canonical chain tables, in
// strict block-number order: a slice may only be saved once every slice
// below it is already Saved (section 4.1's "no gaps" window invariant
// applies equally to what's been written to disk, not just to the window).
type SaveStage struct {
	hs *HeaderSlices
	db kv.RwDB

	// parentTotalDifficulty is the running total difficulty of the highest
	// saved header, seeded from the caller's starting point.
	parentTotalDifficulty *uint256.Int
}

func NewSaveStage(hs *HeaderSlices, db kv.RwDB, startingTotalDifficulty *uint256.Int) *SaveStage {
	return &SaveStage{hs: hs, db: db, parentTotalDifficulty: startingTotalDifficulty}
}

// Tick saves every Verified slice that is next-in-line by height, stopping
// at the first gap.
func (s *SaveStage) Tick() error {
	for {
		slice := s.hs.FindByStatus(StatusVerified)
		if slice == nil {
			return nil
		}
		if slice.StartBlockNum != s.hs.LowestBlockNum() {
			return nil
		}
		if err := s.saveOne(slice); err != nil {
			return err
		}
		if err := s.hs.SetSliceStatus(slice, StatusSaved); err != nil {
			return err
		}
		s.hs.NotifyStatusWatchers()
	}
}

func (s *SaveStage) saveOne(slice *HeaderSlice) error {
	tx, err := s.db.BeginRw(context.Background())
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, h := range slice.OwnHeaders() {
		if err := s.saveHeader(tx, h); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SaveStage) saveHeader(tx kv.RwTx, h *types.Header) error {
	hash := h.Hash()
	numBuf := dbutils.EncodeBlockNumber(h.Number)

	if err := tx.Put(kv.Header, append(append([]byte{}, numBuf...), hash.Bytes()...), h.EncodeRLP()); err != nil {
		return err
	}
	if err := tx.Put(kv.CanonicalHash, numBuf, hash.Bytes()); err != nil {
		return err
	}
	if err := tx.Put(kv.HeaderNumber, hash.Bytes(), numBuf); err != nil {
		return err
	}

	td := new(uint256.Int).Add(s.parentTotalDifficulty, h.Difficulty)
	tdKey := append(append(append([]byte{}, numBuf...), hash.Bytes()...), 't')
	var tdEnc bytes.Buffer
	rlp.EncodeBytes(&tdEnc, td.Bytes())
	if err := tx.Put(kv.TotalDifficulty, tdKey, tdEnc.Bytes()); err != nil {
		return err
	}
	s.parentTotalDifficulty = td
	return nil
}
