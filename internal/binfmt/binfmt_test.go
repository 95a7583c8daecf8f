// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package binfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatter(t *testing.T) {
	data := []byte("\x00\x03\x02abcxy\x01\x00\x00\x00")
	f := New(data).LineWidth(4)
	require.Equal(t, 12, f.Remaining())

	v, ok := f.Uvarint("shared")
	require.True(t, ok)
	require.Equal(t, uint64(0), v)
	f.HexBytesln(1, "unshared: %d", 3)
	f.Line(1).HexBytes(1).Done("value len")
	f.HexTextln(3)
	f.HexBytesln(2, "value")
	require.Equal(t, uint32(1), f.PeekUint32())
	f.HexBytesln(4, "restart count")
	require.False(t, f.More())

	require.Equal(t, strings.Join([]string{
		"00-01: x 00   # uvarint(0): shared",
		"01-02: x 03   # unshared: 3",
		"02-03: 02     # value len",
		"03-05: x 6162 # ab",
		"05-06: x 63   # c",
		"06-08: x 7879 # value",
		"08-10: x 0100 # restart count",
		"10-12: x 0000 # (continued...)",
	}, "\n")+"\n", f.String())
}

func TestFormatterInvalidUvarint(t *testing.T) {
	f := New([]byte{0x80, 0x80})
	_, ok := f.Uvarint("shared")
	require.False(t, ok)
	require.False(t, f.More())
	require.Contains(t, f.String(), "invalid uvarint: shared")
}

func TestFormatterWriteTo(t *testing.T) {
	f := New([]byte("hello")).LineWidth(10)
	f.SetLinePrefix("> ")
	f.HexTextln(5)
	want := f.String()
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, want, buf.String())
	require.Equal(t, "> 0-5: x 68656c6c6f # hello\n", want)
	// WriteTo resets the pending output.
	require.Equal(t, "", f.String())
}
