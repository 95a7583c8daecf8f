// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package blocktest builds row-oriented blocks for tests. Production code
// never constructs blocks; it only decodes the ones it is handed.
package blocktest

import (
	"bytes"
	"encoding/binary"

	"github.com/cockroachdb/crlib/crbytes"
	"github.com/cockroachdb/errors"
)

// Writer buffers and serializes key/value pairs into a row-oriented block.
type Writer struct {
	// RestartInterval configures the interval at which the writer will write a
	// full key without prefix compression, and encode a corresponding restart
	// point.
	RestartInterval int
	nEntries        int
	nextRestart     int
	buf             []byte
	restarts        []uint32
	prevKey         []byte
	tmp             [4]byte
}

// Reset resets the block writer to empty, preserving buffers for reuse.
func (w *Writer) Reset() {
	*w = Writer{
		RestartInterval: w.RestartInterval,
		buf:             w.buf[:0],
		restarts:        w.restarts[:0],
		prevKey:         w.prevKey[:0],
	}
}

// EntryCount returns the count of entries written to the writer.
func (w *Writer) EntryCount() int {
	return w.nEntries
}

// Add adds a key value pair to the block. Keys must be added in increasing
// order; Add returns an error otherwise.
func (w *Writer) Add(key, value []byte) error {
	if w.RestartInterval <= 0 {
		return errors.AssertionFailedf("blocktest: invalid restart interval %d", w.RestartInterval)
	}
	if w.nEntries > 0 && bytes.Compare(w.prevKey, key) >= 0 {
		return errors.AssertionFailedf("blocktest: key %q added after %q", key, w.prevKey)
	}
	shared := 0
	if w.nEntries == w.nextRestart {
		w.nextRestart = w.nEntries + w.RestartInterval
		w.restarts = append(w.restarts, uint32(len(w.buf)))
	} else {
		shared = crbytes.CommonPrefix(w.prevKey, key)
	}
	w.buf = binary.AppendUvarint(w.buf, uint64(shared))
	w.buf = binary.AppendUvarint(w.buf, uint64(len(key)-shared))
	w.buf = binary.AppendUvarint(w.buf, uint64(len(value)))
	w.buf = append(w.buf, key[shared:]...)
	w.buf = append(w.buf, value...)
	w.prevKey = append(w.prevKey[:0], key...)
	w.nEntries++
	return nil
}

// AddString is Add with string arguments.
func (w *Writer) AddString(key, value string) error {
	return w.Add([]byte(key), []byte(value))
}

// EntriesSize returns the number of bytes of entries written so far, which is
// also the offset of the restart array once the block is finished.
func (w *Writer) EntriesSize() int {
	return len(w.buf)
}

// Finish finalizes the block, serializes it and returns the serialized data.
// Unlike blocks written by table writers, a block with no entries has no
// restart points.
func (w *Writer) Finish() []byte {
	tmp4 := w.tmp[:4]
	for _, x := range w.restarts {
		binary.LittleEndian.PutUint32(tmp4, x)
		w.buf = append(w.buf, tmp4...)
	}
	binary.LittleEndian.PutUint32(tmp4, uint32(len(w.restarts)))
	w.buf = append(w.buf, tmp4...)
	result := w.buf

	// Reset the block state.
	w.nEntries = 0
	w.nextRestart = 0
	w.buf = nil
	w.restarts = w.restarts[:0]
	w.prevKey = w.prevKey[:0]
	return result
}

// KV is a key/value pair.
type KV struct {
	Key, Value []byte
}

// Build encodes the sorted kvs into a block with the given restart interval.
// It panics if the keys are not strictly increasing.
func Build(restartInterval int, kvs []KV) []byte {
	w := Writer{RestartInterval: restartInterval}
	for _, kv := range kvs {
		if err := w.Add(kv.Key, kv.Value); err != nil {
			panic(err)
		}
	}
	return w.Finish()
}

// Trailer returns the restart array and trailer for the given restart
// offsets. It is used to assemble deliberately malformed blocks.
func Trailer(restarts ...uint32) []byte {
	b := make([]byte, 0, 4*(len(restarts)+1))
	for _, r := range restarts {
		b = binary.LittleEndian.AppendUint32(b, r)
	}
	return binary.LittleEndian.AppendUint32(b, uint32(len(restarts)))
}
