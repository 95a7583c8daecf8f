// Copyright 2019 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import "fmt"

// Iterator iterates over the key/value pairs of a sorted source in key order.
//
// Iterators provide 3 absolute positioning methods and 2 relative positioning
// methods. The absolute positioning methods are:
//
// - Seek
// - SeekToFirst
// - SeekToLast
//
// The relative positioning methods are:
//
// - Next
// - Prev
//
// The relative positioning methods and the Key/Value accessors may only be
// called while the iterator is Valid. When Valid returns false, Error
// distinguishes an exhausted iterator (nil) from one that stopped because the
// underlying data is corrupt (an error marked with ErrCorruption).
//
// An Iterator is not safe for concurrent use. Distinct iterators over the same
// immutable data may be used concurrently.
type Iterator interface {
	// Valid returns true if the iterator is positioned at a key/value pair.
	Valid() bool

	// SeekToFirst moves the iterator to the first key/value pair. The iterator
	// is Valid afterwards iff the source is non-empty.
	SeekToFirst()

	// SeekToLast moves the iterator to the last key/value pair. The iterator is
	// Valid afterwards iff the source is non-empty.
	SeekToLast()

	// Seek moves the iterator to the first key/value pair whose key is greater
	// than or equal to target. The iterator is invalid afterwards if no such
	// key exists.
	Seek(target []byte)

	// Next moves the iterator to the next key/value pair. The iterator must be
	// Valid.
	Next()

	// Prev moves the iterator to the previous key/value pair. The iterator must
	// be Valid.
	Prev()

	// Key returns the key at the current position. The iterator must be Valid.
	// The returned slice is only stable until the next positioning call.
	Key() []byte

	// Value returns the value at the current position. The iterator must be
	// Valid. The returned slice aliases the underlying data and remains valid
	// for as long as that data does.
	Value() []byte

	// Error returns the accumulated error, if any. Exhausting the source is
	// not considered to be an error.
	Error() error

	// Close closes the iterator and returns any accumulated error. Once Close
	// is called the iterator should not be used again.
	Close() error

	fmt.Stringer
}
