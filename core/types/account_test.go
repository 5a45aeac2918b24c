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
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	libcommon "github.com/coresync/headsync-lib/common"
)

func TestAccountEncodeDecodeRoundTrip(t *testing.T) {
	a := &Account{
		Nonce:       7,
		Balance:     uint256.NewInt(1_000_000),
		CodeHash:    libcommon.BytesToHash([]byte{0xaa, 0xbb}),
		Incarnation: 3,
	}
	enc := a.EncodeRLP()
	got, err := DecodeAccountRLP(enc)
	require.NoError(t, err)
	require.Equal(t, a.Nonce, got.Nonce)
	require.True(t, a.Balance.Eq(got.Balance))
	require.Equal(t, a.CodeHash, got.CodeHash)
	require.Equal(t, a.Incarnation, got.Incarnation)
}

func TestDecodeAccountRLPEmptyIsDefault(t *testing.T) {
	got, err := DecodeAccountRLP(nil)
	require.NoError(t, err)
	require.True(t, got.IsEmpty())
}

func TestIsEmptyIgnoresIncarnation(t *testing.T) {
	// A destroyed account keeps its incarnation counter until recreated:
	// IsEmpty must still report true so storage_read treats it as gone.
	a := &Account{Balance: uint256.NewInt(0), Incarnation: 4}
	require.True(t, a.IsEmpty())

	a.Nonce = 1
	require.False(t, a.IsEmpty())
}
