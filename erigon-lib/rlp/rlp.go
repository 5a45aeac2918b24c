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

// Package rlp implements just enough of Ethereum's Recursive Length Prefix
// encoding to round-trip the header and account records this core persists.
// Kept as an in-repo package rather than a third-party dependency, matching
// the teacher's own convention of carrying rlp alongside its types instead of
// importing it (erigon-lib/rlp is an internal package in the teacher too).
package rlp

import (
	"bytes"
	"errors"
	"fmt"
)

var ErrUnexpectedEOF = errors.New("rlp: unexpected end of input")

// EncodeBytes appends the RLP string encoding of b.
func EncodeBytes(buf *bytes.Buffer, b []byte) {
	if len(b) == 1 && b[0] < 0x80 {
		buf.WriteByte(b[0])
		return
	}
	writeHeader(buf, 0x80, 0xb7, len(b))
	buf.Write(b)
}

// EncodeUint64 appends the RLP encoding of x, stripped of leading zero bytes.
func EncodeUint64(buf *bytes.Buffer, x uint64) {
	if x == 0 {
		buf.WriteByte(0x80)
		return
	}
	var tmp [8]byte
	i := 8
	for x > 0 {
		i--
		tmp[i] = byte(x)
		x >>= 8
	}
	EncodeBytes(buf, tmp[i:])
}

// EncodeList wraps the already-encoded items with an RLP list header.
func EncodeList(buf *bytes.Buffer, items ...[]byte) {
	var body bytes.Buffer
	for _, it := range items {
		body.Write(it)
	}
	writeHeader(buf, 0xc0, 0xf7, body.Len())
	buf.Write(body.Bytes())
}

// Encoded is a convenience helper: encode a single value with fn into its
// own buffer and return the bytes, for composing nested EncodeList calls.
func Encoded(fn func(buf *bytes.Buffer)) []byte {
	var buf bytes.Buffer
	fn(&buf)
	return buf.Bytes()
}

func writeHeader(buf *bytes.Buffer, shortBase, longBase byte, size int) {
	if size < 56 {
		buf.WriteByte(shortBase + byte(size))
		return
	}
	var lenBytes []byte
	n := size
	for n > 0 {
		lenBytes = append([]byte{byte(n)}, lenBytes...)
		n >>= 8
	}
	buf.WriteByte(longBase + byte(len(lenBytes)))
	buf.Write(lenBytes)
}

// item is a decoded RLP string or list payload.
type item struct {
	isList  bool
	payload []byte
}

// decodeItem reads one RLP item from b, returning it and the remaining bytes.
func decodeItem(b []byte) (item, []byte, error) {
	if len(b) == 0 {
		return item{}, nil, ErrUnexpectedEOF
	}
	first := b[0]
	switch {
	case first < 0x80:
		return item{payload: b[:1]}, b[1:], nil
	case first < 0xb8:
		size := int(first - 0x80)
		if len(b) < 1+size {
			return item{}, nil, ErrUnexpectedEOF
		}
		return item{payload: b[1 : 1+size]}, b[1+size:], nil
	case first < 0xc0:
		lenOfLen := int(first - 0xb7)
		if len(b) < 1+lenOfLen {
			return item{}, nil, ErrUnexpectedEOF
		}
		size := decodeBigEndianInt(b[1 : 1+lenOfLen])
		start := 1 + lenOfLen
		if len(b) < start+size {
			return item{}, nil, ErrUnexpectedEOF
		}
		return item{payload: b[start : start+size]}, b[start+size:], nil
	case first < 0xf8:
		size := int(first - 0xc0)
		if len(b) < 1+size {
			return item{}, nil, ErrUnexpectedEOF
		}
		return item{isList: true, payload: b[1 : 1+size]}, b[1+size:], nil
	default:
		lenOfLen := int(first - 0xf7)
		if len(b) < 1+lenOfLen {
			return item{}, nil, ErrUnexpectedEOF
		}
		size := decodeBigEndianInt(b[1 : 1+lenOfLen])
		start := 1 + lenOfLen
		if len(b) < start+size {
			return item{}, nil, ErrUnexpectedEOF
		}
		return item{isList: true, payload: b[start : start+size]}, b[start+size:], nil
	}
}

func decodeBigEndianInt(b []byte) int {
	n := 0
	for _, c := range b {
		n = n<<8 | int(c)
	}
	return n
}

// DecodeBytes decodes a single RLP string item.
func DecodeBytes(b []byte) ([]byte, error) {
	it, rest, err := decodeItem(b)
	if err != nil {
		return nil, err
	}
	if it.isList {
		return nil, fmt.Errorf("rlp: expected string, got list")
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("rlp: %d trailing bytes", len(rest))
	}
	return it.payload, nil
}

// DecodeUint64 decodes a single RLP-encoded unsigned integer.
func DecodeUint64(b []byte) (uint64, error) {
	raw, err := DecodeBytes(b)
	if err != nil {
		return 0, err
	}
	var v uint64
	for _, c := range raw {
		v = v<<8 | uint64(c)
	}
	return v, nil
}

// DecodeList splits the payload of a top-level RLP list into its items,
// each still RLP-encoded, in order.
func DecodeList(b []byte) ([][]byte, error) {
	it, rest, err := decodeItem(b)
	if err != nil {
		return nil, err
	}
	if !it.isList {
		return nil, fmt.Errorf("rlp: expected list")
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("rlp: %d trailing bytes", len(rest))
	}
	var out [][]byte
	payload := it.payload
	for len(payload) > 0 {
		var raw []byte
		_, after, err := decodeItem(payload)
		if err != nil {
			return nil, err
		}
		raw = payload[:len(payload)-len(after)]
		out = append(out, raw)
		payload = after
	}
	return out, nil
}
