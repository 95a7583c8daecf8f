// Copyright 2023 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package block

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/sstblock/internal/invariants"
)

// A BufferPool holds a pool of buffers for holding decoded blocks. An initial
// size of the pool is provided on Init, but a BufferPool will grow to meet the
// largest working set size. It'll never shrink. When a buffer is released, the
// BufferPool recycles the buffer for future allocations.
//
// A BufferPool should only be used for short-lived allocations with
// well-understood working set sizes to avoid excessive memory consumption.
//
// BufferPool is not thread-safe.
type BufferPool struct {
	// pool contains all the buffers held by the pool, including buffers that
	// are in-use. For every i < len(pool): pool[i].v is non-nil.
	pool []allocedBuffer
}

type allocedBuffer struct {
	v []byte
	// b holds the current byte slice. It's backed by v, but may be a subslice
	// of v's memory while the buffer is in-use [ len(b) ≤ len(v) ].
	//
	// If the buffer is not currently in-use, b is nil. When being recycled, the
	// BufferPool.Alloc will reset b to be a subslice of v.
	b []byte
}

// Init initializes the pool with an initial working set buffer size of
// `initialSize`.
func (p *BufferPool) Init(initialSize int) {
	*p = BufferPool{
		pool: make([]allocedBuffer, 0, initialSize),
	}
}

// Release releases all buffers held by the pool and resets the pool to an
// uninitialized state. It is an error to release a pool while any of its
// buffers are in use.
func (p *BufferPool) Release() {
	for i := range p.pool {
		if p.pool[i].b != nil {
			panic(errors.AssertionFailedf("Release called on a BufferPool with in-use buffers"))
		}
		p.pool[i].v = nil
	}
	p.pool = p.pool[:0]
}

// InUse returns the number of buffers currently handed out by the pool.
func (p *BufferPool) InUse() int {
	var n int
	for i := range p.pool {
		if p.pool[i].b != nil {
			n++
		}
	}
	return n
}

// Alloc allocates a new buffer of size n. If the pool already holds a buffer at
// least as large as n, the pooled buffer is used instead.
//
// Alloc is O(MAX(N,M)) where N is the largest number of concurrently in-use
// buffers allocated and M is the initialSize passed to Init.
func (p *BufferPool) Alloc(n int) Buf {
	unusableBufferIdx := -1
	for i := 0; i < len(p.pool); i++ {
		if p.pool[i].b == nil {
			if len(p.pool[i].v) >= n {
				p.pool[i].b = p.pool[i].v[:n]
				return Buf{p: p, i: i}
			}
			unusableBufferIdx = i
		}
	}

	// If we would need to grow the size of the pool to allocate another buffer,
	// but there was a slot available occupied by a buffer that's just too
	// small, replace the too-small buffer.
	if len(p.pool) == cap(p.pool) && unusableBufferIdx >= 0 {
		i := unusableBufferIdx
		p.pool[i].v = make([]byte, n)
		p.pool[i].b = p.pool[i].v
		return Buf{p: p, i: i}
	}

	// Allocate a new buffer.
	v := make([]byte, n)
	p.pool = append(p.pool, allocedBuffer{v: v, b: v})
	return Buf{p: p, i: len(p.pool) - 1}
}

// A Buf holds a reference to a pooled byte buffer.
type Buf struct {
	p *BufferPool
	// i holds the index into p.pool where the buffer may be found. This scheme
	// avoids needing to allocate the handle to the buffer on the heap at the
	// cost of copying two words instead of one.
	i int
}

// Valid returns true if the buf holds a valid buffer.
func (b Buf) Valid() bool {
	return b.p != nil
}

// Bytes returns the in-use byte slice. The slice must not be used after the
// buffer is released.
func (b Buf) Bytes() []byte {
	if b.p == nil {
		return nil
	}
	return b.p.pool[b.i].b
}

// Release releases the buffer back to the pool.
func (b *Buf) Release() {
	if b.p == nil {
		return
	}
	if b.p.pool[b.i].b == nil {
		panic(errors.AssertionFailedf("buffer %d released twice", b.i))
	}
	if invariants.Enabled && invariants.Sometimes(10) {
		invariants.Mangle(b.p.pool[b.i].b)
	}
	// Clear the allocedBuffer's byte slice. This signals the allocated buffer
	// is no longer in use and a future call to BufferPool.Alloc may reuse this
	// buffer.
	b.p.pool[b.i].b = nil
	b.p = nil
}

// A BufferHandle is a handle to memory whose ownership has been transferred to
// its holder. The handle either points to a buffer allocated from a BufferPool
// or carries a caller-provided release function.
//
// The zero value is a valid handle that owns nothing; releasing it has no
// effect.
type BufferHandle struct {
	b       Buf
	release func()
}

// MakeHandle constructs a BufferHandle owning the pooled buffer.
func (b Buf) MakeHandle() BufferHandle {
	return BufferHandle{b: b}
}

// FuncBufferHandle constructs a BufferHandle that invokes release when the
// handle is released. It is used for memory that was not allocated from a
// BufferPool.
func FuncBufferHandle(release func()) BufferHandle {
	return BufferHandle{release: release}
}

// Valid returns true if the BufferHandle owns memory.
func (bh BufferHandle) Valid() bool {
	return bh.b.Valid() || bh.release != nil
}

// Release releases the owned memory, either back to the BufferPool or through
// the release function. It is okay to call Release on a zero-value
// BufferHandle (to no effect). The handle is reset so that a second call is a
// no-op.
func (bh *BufferHandle) Release() {
	bh.b.Release()
	if bh.release != nil {
		bh.release()
	}
	*bh = BufferHandle{}
}
