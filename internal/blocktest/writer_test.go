// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package blocktest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	w := &Writer{RestartInterval: 2}
	require.NoError(t, w.AddString("a", "a_v"))
	require.NoError(t, w.AddString("ab", "ab_v"))
	require.NoError(t, w.AddString("b", "b_v"))
	require.Equal(t, 3, w.EntryCount())
	require.Equal(t, 22, w.EntriesSize())
	expected := []byte(
		"\x00\x01\x03aa_v" +
			"\x01\x01\x04bab_v" +
			"\x00\x01\x03bb_v" +
			"\x00\x00\x00\x00" + "\x0f\x00\x00\x00" +
			"\x02\x00\x00\x00")
	require.Equal(t, expected, w.Finish())
	require.Equal(t, 0, w.EntryCount())

	// The writer is reusable after Finish.
	require.NoError(t, w.AddString("x", ""))
	require.Equal(t, []byte("\x00\x01\x00x"+"\x00\x00\x00\x00"+"\x01\x00\x00\x00"), w.Finish())
}

func TestWriterEmpty(t *testing.T) {
	w := &Writer{RestartInterval: 16}
	require.Equal(t, []byte("\x00\x00\x00\x00"), w.Finish())
}

func TestWriterLongLengths(t *testing.T) {
	w := &Writer{RestartInterval: 1}
	value := make([]byte, 200)
	require.NoError(t, w.AddString("k", string(value)))
	b := w.Finish()
	// 200 does not fit in a single byte.
	require.Equal(t, []byte{0x00, 0x01, 0xc8, 0x01, 'k'}, b[:5])
	require.Len(t, b, 5+200+8)
}

func TestWriterOutOfOrder(t *testing.T) {
	w := &Writer{RestartInterval: 4}
	require.NoError(t, w.AddString("b", ""))
	require.Error(t, w.AddString("a", ""))
	require.Error(t, w.AddString("b", ""))
	require.NoError(t, w.AddString("ba", ""))
	require.Error(t, (&Writer{}).AddString("a", ""))
}

func TestWriterOutOfOrderAtRestart(t *testing.T) {
	// Every key starts a restart run.
	w := &Writer{RestartInterval: 1}
	require.NoError(t, w.AddString("b", ""))
	require.Error(t, w.AddString("a", ""))
	require.Error(t, w.AddString("b", ""))
	require.Equal(t, 1, w.EntryCount())

	// The third key lands on the second restart point.
	w = &Writer{RestartInterval: 2}
	require.NoError(t, w.AddString("b", ""))
	require.NoError(t, w.AddString("c", ""))
	require.Error(t, w.AddString("a", ""))
	require.NoError(t, w.AddString("d", ""))
	require.Equal(t, 3, w.EntryCount())
}

func TestTrailer(t *testing.T) {
	require.Equal(t, []byte("\x00\x00\x00\x00"), Trailer())
	require.Equal(t, []byte("\x05\x00\x00\x00\x01\x00\x00\x00"), Trailer(5))
}

func TestBuild(t *testing.T) {
	b := Build(1, []KV{{Key: []byte("a"), Value: []byte("1")}, {Key: []byte("b"), Value: []byte("2")}})
	require.Equal(t, []byte("\x00\x01\x01a1"+"\x00\x01\x01b2"+
		"\x00\x00\x00\x00"+"\x05\x00\x00\x00"+"\x02\x00\x00\x00"), b)
	require.Panics(t, func() {
		Build(1, []KV{{Key: []byte("b")}, {Key: []byte("a")}})
	})
}
