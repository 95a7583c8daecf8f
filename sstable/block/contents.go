// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package block holds the memory ownership primitives shared by block
// readers: pooled buffers, handles that transfer ownership of them, and the
// Contents pair handed to a block on construction.
package block

// Contents is the raw bytes of a block plus, optionally, the handle owning
// them. When Handle is valid the block takes ownership of Data and releases
// the handle once it is done with it; otherwise Data is borrowed and must
// outlive the block and all of its iterators.
type Contents struct {
	Data   []byte
	Handle BufferHandle
}

// Borrowed returns Contents that refer to data without owning it.
func Borrowed(data []byte) Contents {
	return Contents{Data: data}
}

// Owned returns Contents that own the pooled buffer b. The block data is the
// buffer's in-use byte slice.
func Owned(b Buf) Contents {
	return Contents{Data: b.Bytes(), Handle: b.MakeHandle()}
}

// OwnedFunc returns Contents whose data is released by calling release.
func OwnedFunc(data []byte, release func()) Contents {
	return Contents{Data: data, Handle: FuncBufferHandle(release)}
}

// Owned returns true if the contents carry ownership of their data.
func (c Contents) Owned() bool {
	return c.Handle.Valid()
}
