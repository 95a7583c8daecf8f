// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package rowblk decodes row-oriented sstable blocks.
//
// A block is a sequence of prefix-compressed entries followed by a trailer:
//
//	+---------+---------+-----+-----------+-----------+-----+--------------+
//	| entry 0 | entry 1 | ... | restart 0 | restart 1 | ... | num restarts |
//	+---------+---------+-----+-----------+-----------+-----+--------------+
//
// Each restart and the restart count are little-endian uint32s. A restart is
// the offset of an entry whose key is stored in full. Every other entry shares
// a prefix with the key of the entry immediately preceding it:
//
//	+------------+--------------+-----------+------------+-------+
//	| shared len | unshared len | value len | key suffix | value |
//	+------------+--------------+-----------+------------+-------+
//
// The three lengths are varint32s.
package rowblk

import (
	"encoding/binary"

	"github.com/cockroachdb/sstblock/internal/base"
	"github.com/cockroachdb/sstblock/internal/invariants"
	"github.com/cockroachdb/sstblock/sstable/block"
)

// EmptySize holds the size of an empty block. Every block ends in a uint32
// trailer encoding the number of restart points within the block.
const EmptySize = 4

// Block is an immutable, validated view of the raw bytes of a single block.
// Any number of iterators may read a Block concurrently.
type Block struct {
	data   []byte
	handle block.BufferHandle
	// size is len(data), or zero if the trailer is malformed.
	size          int
	restartOffset int
	numRestarts   int
	// err is set if the trailer is malformed. It is surfaced through the
	// iterators returned by NewIter.
	err        error
	closeCheck invariants.CloseChecker
}

// NewBlock constructs a Block over the given contents. If the contents carry
// a valid handle the Block takes ownership of the data and releases it in
// Release; otherwise the data is borrowed and must outlive the Block.
//
// A malformed trailer is not reported here. The Block is marked corrupt and
// every iterator over it reports the corruption.
func NewBlock(c block.Contents) *Block {
	b := &Block{data: c.Data, handle: c.Handle}
	n := len(c.Data)
	if n < EmptySize {
		b.err = base.CorruptionErrorf("rowblk: bad block contents (size %d)", n)
		return b
	}
	numRestarts := binary.LittleEndian.Uint32(c.Data[n-4:])
	if maxRestarts := uint32((n - EmptySize) / 4); numRestarts > maxRestarts {
		b.err = base.CorruptionErrorf("rowblk: bad block contents (%d restarts in %d bytes)", numRestarts, n)
		return b
	}
	b.size = n
	b.numRestarts = int(numRestarts)
	b.restartOffset = n - (1+b.numRestarts)*4
	return b
}

// NewIter returns an iterator over the block's entries, ordered by cmp. A nil
// cmp orders keys bytewise.
//
// The returned iterator is always empty if the block holds no restart points,
// and always reports a corruption error if the block's trailer is malformed.
func (b *Block) NewIter(cmp base.Compare) base.Iterator {
	b.closeCheck.AssertNotClosed()
	if b.err != nil {
		return newErrorIter(b.err)
	}
	if b.numRestarts == 0 {
		return emptyIter{}
	}
	if cmp == nil {
		cmp = base.DefaultComparer.Compare
	}
	i := &Iter{}
	i.init(cmp, b.data, b.restartOffset, b.numRestarts)
	return i
}

// Release releases the block's data if the block owns it. Neither the block
// nor any of its iterators may be used after Release.
func (b *Block) Release() {
	b.closeCheck.Close()
	b.handle.Release()
}

// Size returns the length of the block, or zero if its trailer is malformed.
func (b *Block) Size() int {
	return b.size
}

// NumRestarts returns the number of restart points in the block.
func (b *Block) NumRestarts() int {
	return b.numRestarts
}

// RestartOffset returns the offset of the restart array, which is also the
// end of the block's entries.
func (b *Block) RestartOffset() int {
	return b.restartOffset
}

// Corrupt returns the corruption error for a block whose trailer is
// malformed, or nil.
func (b *Block) Corrupt() error {
	return b.err
}

// Data returns the raw bytes of the block.
func (b *Block) Data() []byte {
	return b.data
}

// RestartPoint returns the offset of the i-th restart point.
func (b *Block) RestartPoint(i int) int {
	invariants.CheckBounds(i, b.numRestarts)
	return int(binary.LittleEndian.Uint32(b.data[b.restartOffset+4*i:]))
}

// RestartKey returns the key stored in full at the i-th restart point. The
// returned slice aliases the block.
func (b *Block) RestartKey(i int) ([]byte, error) {
	off := b.RestartPoint(i)
	shared, unshared, _, keyStart, ok := decodeEntry(b.data, off, b.restartOffset)
	if !ok {
		return nil, base.CorruptionErrorf("rowblk: bad entry in block at offset %d", off)
	}
	if shared != 0 {
		return nil, base.CorruptionErrorf(
			"rowblk: restart point %d at offset %d has shared length %d", i, off, shared)
	}
	return b.data[keyStart : keyStart+int(unshared)], nil
}
