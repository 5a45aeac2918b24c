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
	"context"
	"sync"
	"testing"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	libcommon "github.com/coresync/headsync-lib/common"
	"github.com/coresync/headsync-lib/kv"
	"github.com/coresync/headsync-lib/kv/dbutils"
	"github.com/coresync/headsync-lib/kv/memdb"

	"github.com/coresync/headsync/core/types"
)

// fakeSentry is a scriptable Sentry double: tests queue up responses to
// hand back for a given GetBlockHeaders request, and can force CanProceed
// to false to exercise the sentry-gone termination path.
type fakeSentry struct {
	mu sync.Mutex

	// respond, if non-nil, is called synchronously from SendGetBlockHeaders
	// to decide what (if anything) to enqueue as the eventual response.
	respond func(requestID uint64, start uint64) *BlockHeadersResponse

	nextReqID     uint64
	queued        []BlockHeadersResponse
	penalized     []string
	canProceed    bool
	announcements []BlockHashAnnouncement
}

func newFakeSentry() *fakeSentry {
	return &fakeSentry{canProceed: true}
}

func (f *fakeSentry) SendGetBlockHeaders(startBlockNum uint64, amount int) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextReqID++
	id := f.nextReqID
	if f.respond != nil {
		if resp := f.respond(id, startBlockNum); resp != nil {
			f.queued = append(f.queued, *resp)
		}
	}
	return id, nil
}

func (f *fakeSentry) PenalizePeer(peerID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.penalized = append(f.penalized, peerID)
}

func (f *fakeSentry) Responses() []BlockHeadersResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.queued
	f.queued = nil
	return out
}

func (f *fakeSentry) Announcements() []BlockHashAnnouncement {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.announcements
	f.announcements = nil
	return out
}

func (f *fakeSentry) CanProceed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canProceed
}

// buildChain constructs a linear, parent-linked chain of n+1 headers
// starting at startBlockNum (the extra header is the anchor used by
// preverified-hash verification).
func buildChain(startBlockNum uint64, n int, seed byte) []*types.Header {
	headers := make([]*types.Header, n)
	parent := libcommon.Hash{}
	if startBlockNum > 0 {
		parent = libcommon.BytesToHash([]byte{seed, byte(startBlockNum - 1)})
	}
	for i := 0; i < n; i++ {
		h := &types.Header{
			ParentHash: parent,
			Number:     startBlockNum + uint64(i),
			Difficulty: uint256.NewInt(1),
			Extra:      []byte{seed},
		}
		headers[i] = h
		parent = h.Hash()
	}
	return headers
}

// TestColdSyncHappyPath reproduces S1: two slices, fed in reverse arrival
// order, both verify against preverified anchors and SaveStage persists
// them in ascending order.
func TestColdSyncHappyPath(t *testing.T) {
	final := 2*SliceSize - 1
	hs := NewHeaderSlices(datasize.ByteSize(4*sliceFootprint), 0, uint64(final))

	chain := buildChain(0, 2*SliceSize+1, 0xC0)
	anchors := []libcommon.Hash{chain[0].Hash(), chain[SliceSize].Hash(), chain[2*SliceSize].Hash()}
	preverified := PreverifiedHashesConfig{Hashes: anchors}

	sentry := newFakeSentry()
	sentry.respond = func(id, start uint64) *BlockHeadersResponse {
		end := start + SliceSize + 1
		return &BlockHeadersResponse{RequestID: id, PeerID: "peerA", Headers: append([]*types.Header{}, chain[start:end]...)}
	}

	db := memdb.New()
	cfg := DefaultConfig()
	cfg.MaxInflight = 2
	dl := NewDownloader(hs, sentry, db, cfg, preverified, uint256.NewInt(0))

	// Deliver the second slice's response before the first's by reordering
	// the queue fakeSentry built up; both GetBlockHeaders calls happen on
	// the same Tick so this just exercises that delivery order doesn't
	// matter to FetchReceiveStage/VerifyStagePreverified.
	require.NoError(t, dl.fetchRequest.Tick())
	if len(sentry.queued) == 2 {
		sentry.queued[0], sentry.queued[1] = sentry.queued[1], sentry.queued[0]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, dl.Run(ctx))

	require.True(t, hs.IsEmptyAtFinalPosition())

	ro, err := db.BeginRo(context.Background())
	require.NoError(t, err)
	defer ro.Rollback()

	for n := uint64(0); n <= uint64(final); n++ {
		h, err := ro.GetOne(kv.CanonicalHash, dbutils.EncodeBlockNumber(n))
		require.NoError(t, err)
		require.NotNil(t, h, "block %d should have a canonical hash", n)
	}
}

// TestBadPeerPenalizedAndRetried reproduces S2: the first peer answers
// slice [0,192) with a header whose hash doesn't match the preverified
// anchor, so the slice goes Invalid, its peer is penalized, and it is
// retried successfully against a second peer.
func TestBadPeerPenalizedAndRetried(t *testing.T) {
	final := SliceSize - 1
	hs := NewHeaderSlices(datasize.ByteSize(4*sliceFootprint), 0, uint64(final))

	goodChain := buildChain(0, SliceSize+1, 0xAA)
	preverified := PreverifiedHashesConfig{Hashes: []libcommon.Hash{goodChain[0].Hash(), goodChain[SliceSize].Hash()}}

	badChain := buildChain(0, SliceSize+1, 0xBB)

	sentry := newFakeSentry()
	attempt := 0
	sentry.respond = func(id, start uint64) *BlockHeadersResponse {
		attempt++
		if attempt == 1 {
			return &BlockHeadersResponse{RequestID: id, PeerID: "badPeer", Headers: append([]*types.Header{}, badChain...)}
		}
		return &BlockHeadersResponse{RequestID: id, PeerID: "goodPeer", Headers: append([]*types.Header{}, goodChain...)}
	}

	db := memdb.New()
	dl := NewDownloader(hs, sentry, db, DefaultConfig(), preverified, uint256.NewInt(0))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, dl.Run(ctx))

	require.True(t, hs.IsEmptyAtFinalPosition())
	require.Contains(t, sentry.penalized, "badPeer")
	require.NotContains(t, sentry.penalized, "goodPeer")
}

// TestTimeoutRetriesThenInvalidates reproduces S3: a slice whose request
// never gets a response is reset to Empty with an incremented attempt
// count, and is marked Invalid once MaxAttempts is exceeded.
func TestTimeoutRetriesThenInvalidates(t *testing.T) {
	hs := NewHeaderSlices(datasize.ByteSize(1*sliceFootprint), 0, SliceSize-1)
	sentry := newFakeSentry() // respond is nil: every request goes unanswered

	cfg := DefaultConfig()
	cfg.RequestTimeout = 0 // every Waiting slice is immediately "timed out"
	cfg.MaxAttempts = 3

	fetchRequest := NewFetchRequestStage(hs, sentry, cfg)
	retry := NewRetryStage(hs, fetchRequest, cfg)

	slice := hs.FindByStatus(StatusEmpty)
	require.NotNil(t, slice)

	require.NoError(t, fetchRequest.Tick())
	require.Equal(t, StatusWaiting, slice.Status)

	require.NoError(t, retry.Tick())
	require.Equal(t, StatusEmpty, slice.Status)
	require.Equal(t, 1, slice.RequestAttempt)

	require.NoError(t, fetchRequest.Tick())
	require.NoError(t, retry.Tick())
	require.Equal(t, 2, slice.RequestAttempt)
	require.Equal(t, StatusEmpty, slice.Status)

	require.NoError(t, fetchRequest.Tick())
	require.NoError(t, retry.Tick())
	require.Equal(t, StatusInvalid, slice.Status, "slice must invalidate once MaxAttempts is exceeded")
}
