// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package rowblk

import "github.com/cockroachdb/sstblock/internal/base"

// emptyIter is the iterator over a block without restart points. It is never
// valid and never fails.
type emptyIter struct{}

var _ base.Iterator = emptyIter{}

func (emptyIter) Valid() bool { return false }
func (emptyIter) SeekToFirst() {}
func (emptyIter) SeekToLast() {}
func (emptyIter) Seek(target []byte) {}
func (emptyIter) Next() {}
func (emptyIter) Prev() {}
func (emptyIter) Key() []byte { return nil }
func (emptyIter) Value() []byte { return nil }
func (emptyIter) Error() error { return nil }
func (emptyIter) Close() error { return nil }
func (emptyIter) String() string { return "empty" }

// errorIter is the iterator over a block whose trailer is malformed. It is
// never valid and always reports its error.
type errorIter struct {
	err error
}

var _ base.Iterator = (*errorIter)(nil)

func newErrorIter(err error) *errorIter {
	return &errorIter{err: err}
}

func (c *errorIter) Valid() bool {
	return false
}

func (c *errorIter) SeekToFirst() {}

func (c *errorIter) SeekToLast() {}

func (c *errorIter) Seek(target []byte) {}

func (c *errorIter) Next() {}

func (c *errorIter) Prev() {}

func (c *errorIter) Key() []byte {
	return nil
}

func (c *errorIter) Value() []byte {
	return nil
}

func (c *errorIter) Error() error {
	return c.err
}

func (c *errorIter) Close() error {
	return c.err
}

func (c *errorIter) String() string {
	return "error"
}
