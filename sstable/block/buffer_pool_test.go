// Copyright 2023 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package block

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/stretchr/testify/require"
)

func writeBufferPool(w io.Writer, bp *BufferPool) {
	for i := 0; i < cap(bp.pool); i++ {
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		if i >= len(bp.pool) {
			fmt.Fprint(w, "[    ]")
			continue
		}
		sz := len(bp.pool[i].v)
		if bp.pool[i].b == nil {
			fmt.Fprintf(w, "[%4d]", sz)
		} else {
			fmt.Fprintf(w, "<%4d>", sz)
		}
	}
}

func TestBufferPool(t *testing.T) {
	var bp BufferPool
	var buf bytes.Buffer
	handles := map[string]Buf{}
	drainPool := func() {
		for h, b := range handles {
			b.Release()
			delete(handles, h)
		}
		bp.Release()
	}
	defer drainPool()
	datadriven.RunTest(t, "testdata/buffer_pool", func(t *testing.T, td *datadriven.TestData) string {
		buf.Reset()
		switch td.Cmd {
		case "init":
			if cap(bp.pool) > 0 {
				drainPool()
			}
			var initialSize int
			td.ScanArgs(t, "size", &initialSize)
			bp.Init(initialSize)
			writeBufferPool(&buf, &bp)
			return buf.String()
		case "alloc":
			var n int
			var handle string
			td.ScanArgs(t, "n", &n)
			td.ScanArgs(t, "handle", &handle)
			handles[handle] = bp.Alloc(n)
			writeBufferPool(&buf, &bp)
			return buf.String()
		case "release":
			var handle string
			td.ScanArgs(t, "handle", &handle)
			b := handles[handle]
			b.Release()
			delete(handles, handle)
			writeBufferPool(&buf, &bp)
			return buf.String()
		case "in-use":
			return fmt.Sprint(bp.InUse())
		default:
			return fmt.Sprintf("unrecognized command %q", td.Cmd)
		}
	})
}

func TestBufferHandle(t *testing.T) {
	var bp BufferPool
	bp.Init(2)
	defer bp.Release()

	var zero BufferHandle
	require.False(t, zero.Valid())
	zero.Release()

	b := bp.Alloc(16)
	require.True(t, b.Valid())
	require.Len(t, b.Bytes(), 16)
	h := b.MakeHandle()
	require.True(t, h.Valid())
	require.Equal(t, 1, bp.InUse())
	h.Release()
	require.False(t, h.Valid())
	require.Equal(t, 0, bp.InUse())
	// Releasing a reset handle is a no-op.
	h.Release()
	require.Equal(t, 0, bp.InUse())

	released := 0
	fh := FuncBufferHandle(func() { released++ })
	require.True(t, fh.Valid())
	fh.Release()
	fh.Release()
	require.Equal(t, 1, released)
}

func TestContents(t *testing.T) {
	var bp BufferPool
	bp.Init(1)
	defer bp.Release()

	data := []byte("borrowed")
	c := Borrowed(data)
	require.False(t, c.Owned())
	require.Equal(t, data, c.Data)

	b := bp.Alloc(4)
	copy(b.Bytes(), "abcd")
	c = Owned(b)
	require.True(t, c.Owned())
	require.Equal(t, []byte("abcd"), c.Data)
	require.Equal(t, 1, bp.InUse())
	c.Handle.Release()
	require.Equal(t, 0, bp.InUse())

	var calls int
	c = OwnedFunc(data, func() { calls++ })
	require.True(t, c.Owned())
	c.Handle.Release()
	require.Equal(t, 1, calls)
}
