// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package rowblk

import (
	"strings"
	"testing"

	"github.com/cockroachdb/sstblock/internal/binfmt"
	"github.com/cockroachdb/sstblock/internal/blocktest"
	"github.com/cockroachdb/sstblock/sstable/block"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	data := blocktest.Build(2, []blocktest.KV{
		{Key: []byte("a"), Value: []byte("1")},
		{Key: []byte("ab"), Value: []byte("2")},
	})
	b := NewBlock(block.Borrowed(data))
	f := binfmt.New(data)
	Describe(f, b, nil)
	require.False(t, f.More())
	expected := strings.Join([]string{
		"00-01: x 00     # uvarint(0): entry 0 (restart 0): shared key length",
		"01-02: x 01     # uvarint(1): unshared key length",
		"02-03: x 01     # uvarint(1): value length",
		"03-04: x 61     # key suffix (key a)",
		"04-05: x 31     # value 1",
		"05-06: x 01     # uvarint(1): entry 1: shared key length",
		"06-07: x 01     # uvarint(1): unshared key length",
		"07-08: x 01     # uvarint(1): value length",
		"08-09: x 62     # key suffix (key ab)",
		"09-10: x 32     # value 2",
		"10-14: 00000000 # restart point 0: offset 0",
		"14-18: 01000000 # restart point count: 1",
	}, "\n") + "\n"
	require.Equal(t, expected, f.String())
}

func TestDescribeCorruptEntry(t *testing.T) {
	data := []byte("\x00\x01\x01a1" + "\x05\x01" + string(blocktest.Trailer(0)))
	b := NewBlock(block.Borrowed(data))
	f := binfmt.New(data)
	Describe(f, b, func(v []byte) string { return strings.ToUpper(string(v)) })
	require.False(t, f.More())
	out := f.String()
	require.Contains(t, out, "key suffix (key A)")
	require.Contains(t, out, "05-06: x 05")
	require.Contains(t, out, "corrupt entry 1 at offset 5")
	require.Contains(t, out, "06-07: x 01")
	require.Contains(t, out, "restart point count: 1")
}

func TestDescribeCorruptBlock(t *testing.T) {
	data := []byte("\x01\x00\x00")
	f := binfmt.New(data)
	Describe(f, NewBlock(block.Borrowed(data)), nil)
	require.Equal(t, "0-3: x 010000 # rowblk: bad block contents (size 3)\n", f.String())
}

func TestDescribeCorruptEntryText(t *testing.T) {
	// The shared length of the second entry exceeds the previous key, so the
	// entry and everything after it is dumped as text.
	data := []byte("\x00\x01\x01a1" + "\x05\x01\x01zz" + string(blocktest.Trailer(0)))
	b := NewBlock(block.Borrowed(data))
	f := binfmt.New(data)
	Describe(f, b, nil)
	lines := strings.Split(strings.TrimSuffix(f.String(), "\n"), "\n")
	require.Len(t, lines, 9)
	require.Regexp(t, `^05-06: x 05 +# corrupt entry 1 at offset 5$`, lines[5])
	require.Regexp(t, `^06-10: x 01017a7a +# \.\.zz$`, lines[6])
	require.Regexp(t, `^10-14: 00000000 +# restart point 0: offset 0$`, lines[7])
	require.Regexp(t, `^14-18: 01000000 +# restart point count: 1$`, lines[8])
}
