// Copyright 2023 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package invalidating provides an iterator wrapper that catches callers
// holding on to keys and values past the next positioning call.
package invalidating

import (
	"slices"

	"github.com/cockroachdb/sstblock/internal/base"
	"github.com/cockroachdb/sstblock/internal/invariants"
)

// MaybeWrapIfInvariants wraps some iterators with an invalidating iterator.
// MaybeWrapIfInvariants does nothing in non-invariant builds.
func MaybeWrapIfInvariants(iter base.Iterator) base.Iterator {
	if invariants.Enabled && invariants.Sometimes(10) {
		return NewIter(iter)
	}
	return iter
}

// iter tests unsafe key/value slice reuse by modifying the last returned
// key/value to all 0xff bytes.
type iter struct {
	iter    base.Iterator
	lastKey []byte
	lastVal []byte
}

var _ base.Iterator = (*iter)(nil)

// NewIter constructs a new invalidating iterator that wraps the provided
// iterator, trashing buffers for previously returned keys and values.
func NewIter(originalIterator base.Iterator) base.Iterator {
	return &iter{iter: originalIterator}
}

func (i *iter) update() {
	i.trashLast()
	if !i.iter.Valid() {
		i.lastKey, i.lastVal = nil, nil
		return
	}
	// Clone keeps empty values non-nil, matching the wrapped iterator.
	i.lastKey = slices.Clone(i.iter.Key())
	i.lastVal = slices.Clone(i.iter.Value())
}

func (i *iter) trashLast() {
	for _, b := range [][]byte{i.lastKey, i.lastVal} {
		for j := range b {
			b[j] = 0xff
		}
	}
}

func (i *iter) Valid() bool {
	return i.iter.Valid()
}

func (i *iter) SeekToFirst() {
	i.iter.SeekToFirst()
	i.update()
}

func (i *iter) SeekToLast() {
	i.iter.SeekToLast()
	i.update()
}

func (i *iter) Seek(target []byte) {
	i.iter.Seek(target)
	i.update()
}

func (i *iter) Next() {
	i.iter.Next()
	i.update()
}

func (i *iter) Prev() {
	i.iter.Prev()
	i.update()
}

func (i *iter) Key() []byte {
	return i.lastKey
}

func (i *iter) Value() []byte {
	return i.lastVal
}

func (i *iter) Error() error {
	return i.iter.Error()
}

func (i *iter) Close() error {
	i.trashLast()
	i.lastKey, i.lastVal = nil, nil
	return i.iter.Close()
}

func (i *iter) String() string {
	return i.iter.String()
}
