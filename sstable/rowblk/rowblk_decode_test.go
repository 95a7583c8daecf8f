// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package rowblk

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeEntry(t *testing.T) {
	type result struct {
		shared, unshared, valueLen uint32
		keyStart                   int
		ok                         bool
	}
	testCases := []struct {
		name       string
		data       string
		pos, limit int
		expected   result
	}{
		{name: "fast path", data: "\x01\x02\x03abxyz", pos: 0, limit: 8,
			expected: result{1, 2, 3, 3, true}},
		{name: "exact fit", data: "\x00\x00\x00", pos: 0, limit: 3,
			expected: result{0, 0, 0, 3, true}},
		{name: "offset", data: "zz\x00\x01\x00k", pos: 2, limit: 6,
			expected: result{0, 1, 0, 5, true}},
		{name: "slow path", data: "\x00\x01\x80\x01k" + string(make([]byte, 128)), pos: 0, limit: 133,
			expected: result{0, 1, 128, 4, true}},
		{name: "slow path shared", data: "\xac\x02\x01\x00k", pos: 0, limit: 5,
			expected: result{300, 1, 0, 4, true}},
		{name: "fewer than three bytes", data: "\x00\x00", pos: 0, limit: 2},
		{name: "pos after limit", data: "\x00\x00\x00\x00", pos: 4, limit: 2},
		{name: "limit past data", data: "\x00\x00\x00", pos: 0, limit: 4},
		{name: "suffix past limit", data: "\x00\x02\x00a", pos: 0, limit: 4},
		{name: "value past limit", data: "\x00\x00\x02ab", pos: 0, limit: 4},
		{name: "truncated varint", data: "\x00\x00\x80", pos: 0, limit: 3},
		{name: "overlong varint", data: "\x80\x80\x80\x80\x80\x00\x00\x00", pos: 0, limit: 8},
		{name: "overflowing varint", data: "\xff\xff\xff\xff\x1f\x00\x00", pos: 0, limit: 7},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var r result
			r.shared, r.unshared, r.valueLen, r.keyStart, r.ok = decodeEntry([]byte(tc.data), tc.pos, tc.limit)
			require.Equal(t, tc.expected, r)
		})
	}
}

func TestDecodeVarint32(t *testing.T) {
	testCases := []struct {
		data string
		v    uint32
		next int
		ok   bool
	}{
		{"\x00", 0, 1, true},
		{"\x7f", 127, 1, true},
		{"\x80\x01", 128, 2, true},
		{"\xff\xff\xff\xff\x0f", math.MaxUint32, 5, true},
		{"\xff\xff\xff\xff\x10", 0, 0, false},
		{"\xff\xff\xff\xff\xff\x01", 0, 0, false},
		{"\x80", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tc := range testCases {
		v, next, ok := decodeVarint32([]byte(tc.data), 0, len(tc.data))
		require.Equal(t, tc.ok, ok, "%q", tc.data)
		require.Equal(t, tc.v, v, "%q", tc.data)
		require.Equal(t, tc.next, next, "%q", tc.data)
	}
}

func TestDecodeEntryRandom(t *testing.T) {
	rng := rand.New(rand.NewPCG(0, 0))
	for i := 0; i < 10000; i++ {
		data := make([]byte, rng.IntN(16))
		for j := range data {
			// Bias towards small lengths so that some entries decode.
			if rng.IntN(2) == 0 {
				data[j] = byte(rng.IntN(4))
			} else {
				data[j] = byte(rng.Uint32())
			}
		}
		limit := rng.IntN(len(data) + 1)
		pos := rng.IntN(len(data) + 1)
		shared, unshared, valueLen, keyStart, ok := decodeEntry(data, pos, limit)
		if !ok {
			require.Zero(t, shared)
			require.Zero(t, keyStart)
			continue
		}
		require.LessOrEqual(t, keyStart+int(unshared)+int(valueLen), limit)
		require.Greater(t, keyStart, pos)
	}
}
