// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package sstblock decodes and iterates over single row-oriented sstable
// blocks: immutable, sorted, prefix-compressed runs of key/value pairs
// followed by a restart point array.
//
// The caller hands over the raw bytes of a block, already decompressed and
// checksummed, optionally transferring ownership of them. Structural
// corruption in those bytes never panics; it is reported through the Error
// method of the iterator that encounters it, as an error for which
// IsCorruptionError returns true.
package sstblock

import (
	"github.com/cockroachdb/sstblock/internal/base"
	"github.com/cockroachdb/sstblock/sstable/block"
	"github.com/cockroachdb/sstblock/sstable/rowblk"
)

// Iterator exports the base.Iterator type.
type Iterator = base.Iterator

// Compare exports the base.Compare type.
type Compare = base.Compare

// Comparer exports the base.Comparer type.
type Comparer = base.Comparer

// DefaultComparer exports the base.DefaultComparer variable.
var DefaultComparer = base.DefaultComparer

// ErrCorruption is a marker to indicate that the bytes of a block are not in
// the expected format.
var ErrCorruption = base.ErrCorruption

// IsCorruptionError returns true if the given error indicates corruption.
func IsCorruptionError(err error) bool {
	return base.IsCorruptionError(err)
}

// Block exports the rowblk.Block type.
type Block = rowblk.Block

// Contents exports the block.Contents type.
type Contents = block.Contents

// BufferPool exports the block.BufferPool type.
type BufferPool = block.BufferPool

// Buf exports the block.Buf type.
type Buf = block.Buf

// NewBlock constructs a Block over the given contents.
func NewBlock(c Contents) *Block {
	return rowblk.NewBlock(c)
}

// Borrowed returns Contents that refer to data without owning it. The data
// must outlive the Block and all of its iterators.
func Borrowed(data []byte) Contents {
	return block.Borrowed(data)
}

// Owned returns Contents that own data. The Block calls release exactly once,
// from Block.Release.
func Owned(data []byte, release func()) Contents {
	return block.OwnedFunc(data, release)
}

// Pooled returns Contents that own a buffer allocated from a BufferPool. The
// Block returns the buffer to its pool from Block.Release.
func Pooled(b Buf) Contents {
	return block.Owned(b)
}
