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

import "github.com/pkg/errors"

// PrunedError names a historical read that targets a block whose
// change-set or history-index rows have already been pruned away.
// HistoryReader does not detect pruning and does not return it.
var PrunedError = errors.New("state: old data not available due to pruning")

// ErrCorruptChangeSet marks a decode failure on a row the history index
// claims should exist; this is a storage error (section 7), fatal to the
// caller's transaction.
var ErrCorruptChangeSet = errors.New("state: corrupt change-set entry")
