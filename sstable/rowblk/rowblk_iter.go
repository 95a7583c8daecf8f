// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package rowblk

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"github.com/cockroachdb/sstblock/internal/base"
	"github.com/cockroachdb/sstblock/internal/invariants"
)

// Iter is an iterator over a single block of data.
//
// Keys are reconstructed into a buffer owned by the iterator, so the slice
// returned by Key is only stable until the next positioning call. Values are
// never copied: the slice returned by Value aliases the block.
//
// There are no backward links between entries. Prev re-decodes forward from
// the closest restart point before the current entry, so its cost is bounded
// by the restart interval the block was built with.
//
// When the block bytes turn out to be malformed the iterator becomes invalid
// and Error reports a corruption error until the next absolute positioning
// call (SeekToFirst, SeekToLast or Seek).
type Iter struct {
	cmp base.Compare
	// data is the block, including the restart array and trailer.
	data []byte
	// restarts is the offset of the restart array, which is also the end of
	// the entries.
	restarts    int
	numRestarts int
	// offset is the offset of the current entry. The iterator is valid iff
	// offset < restarts.
	offset int
	// nextOffset is the offset of the entry following the current one. After
	// seekToRestartPoint it is the offset of the restart point and the
	// current entry is meaningless.
	nextOffset int
	// restartIndex is the index of the restart run holding the current entry:
	// the greatest i with restart point i <= offset. It is numRestarts when
	// the iterator is invalid.
	restartIndex int
	key          []byte
	val          []byte
	err          error
	stats        IterStats
	closeCheck   invariants.CloseChecker
}

// Assert that Iter implements the base.Iterator interface.
var _ base.Iterator = (*Iter)(nil)

// IterStats counts the decoding work performed by an Iter.
type IterStats struct {
	// EntriesDecoded is the number of entries decoded while stepping.
	EntriesDecoded int
	// RestartSeeks is the number of times the iterator repositioned itself at
	// a restart point.
	RestartSeeks int
	// SearchProbes is the number of restart run heads decoded by binary
	// search.
	SearchProbes int
}

// SafeFormat implements redact.SafeFormatter.
func (s IterStats) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("entries decoded: %d, restart seeks: %d, search probes: %d",
		s.EntriesDecoded, s.RestartSeeks, s.SearchProbes)
}

// String implements fmt.Stringer.
func (s IterStats) String() string {
	return redact.StringWithoutMarkers(s)
}

func (i *Iter) init(cmp base.Compare, data []byte, restarts, numRestarts int) {
	key := i.key[:0]
	*i = Iter{
		cmp:          cmp,
		data:         data,
		restarts:     restarts,
		numRestarts:  numRestarts,
		offset:       restarts,
		nextOffset:   restarts,
		restartIndex: numRestarts,
		key:          key,
	}
}

// String implements fmt.Stringer.
func (i *Iter) String() string {
	return "rowblk"
}

// Stats returns the work performed by the iterator since it was created or
// since the last call to ResetStats.
func (i *Iter) Stats() IterStats {
	return i.stats
}

// ResetStats zeroes the iterator's stats.
func (i *Iter) ResetStats() {
	i.stats = IterStats{}
}

func (i *Iter) getRestartPoint(idx int) int {
	invariants.CheckBounds(idx, i.numRestarts)
	return int(binary.LittleEndian.Uint32(i.data[i.restarts+4*idx:]))
}

// seekToRestartPoint primes the iterator so that the next call to
// parseNextKey decodes the entry at the idx-th restart point.
func (i *Iter) seekToRestartPoint(idx int) {
	i.key = i.key[:0]
	i.val = nil
	i.restartIndex = idx
	i.nextOffset = i.getRestartPoint(idx)
	i.stats.RestartSeeks++
}

// invalidate positions the iterator past the end of the entries.
func (i *Iter) invalidate() {
	i.offset = i.restarts
	i.nextOffset = i.restarts
	i.restartIndex = i.numRestarts
	i.key = i.key[:0]
	i.val = nil
}

// corruptionError invalidates the iterator and latches err.
func (i *Iter) corruptionError(err error) {
	i.invalidate()
	i.err = err
}

// parseNextKey decodes the entry at nextOffset, reconstructing its key from
// the key currently held. It returns false if there are no more entries or
// the entry is corrupt.
func (i *Iter) parseNextKey() bool {
	i.offset = i.nextOffset
	if i.offset >= i.restarts {
		i.invalidate()
		return false
	}
	shared, unshared, valueLen, keyStart, ok := decodeEntry(i.data, i.offset, i.restarts)
	if !ok {
		i.corruptionError(base.CorruptionErrorf("rowblk: bad entry in block at offset %d", i.offset))
		return false
	}
	if int(shared) > len(i.key) {
		i.corruptionError(base.CorruptionErrorf(
			"rowblk: bad entry in block at offset %d (shared %d > key length %d)",
			i.offset, shared, len(i.key)))
		return false
	}
	i.stats.EntriesDecoded++
	valStart := keyStart + int(unshared)
	valEnd := valStart + int(valueLen)
	i.key = append(i.key[:shared], i.data[keyStart:valStart]...)
	i.val = i.data[valStart:valEnd:valEnd]
	i.nextOffset = valEnd
	for i.restartIndex+1 < i.numRestarts && i.getRestartPoint(i.restartIndex+1) <= i.offset {
		i.restartIndex++
	}
	return true
}

// SeekToFirst implements base.Iterator.
func (i *Iter) SeekToFirst() {
	i.closeCheck.AssertNotClosed()
	i.err = nil
	i.seekToRestartPoint(0)
	i.parseNextKey()
}

// SeekToLast implements base.Iterator.
func (i *Iter) SeekToLast() {
	i.closeCheck.AssertNotClosed()
	i.err = nil
	i.seekToRestartPoint(i.numRestarts - 1)
	for i.parseNextKey() && i.nextOffset < i.restarts {
		// Keep decoding until the last entry of the final restart run.
	}
}

// Seek implements base.Iterator. It positions the iterator at the first key
// greater than or equal to target.
//
// Seek binary searches the restart points for the last run whose first key is
// less than target and then scans forward. When the iterator is already
// positioned, the current key narrows the search, and a seek to a key within
// the current run continues from the current entry without rewinding. This
// relies on the block bytes not changing under the iterator.
func (i *Iter) Seek(target []byte) {
	i.closeCheck.AssertNotClosed()
	i.err = nil

	left, right := 0, i.numRestarts-1
	cmp := 0
	if i.Valid() {
		cmp = i.cmp(i.key, target)
		switch {
		case cmp < 0:
			left = i.restartIndex
		case cmp > 0:
			right = i.restartIndex
		default:
			// Already positioned at target.
			return
		}
	}

	for left < right {
		mid := (left + right + 1) / 2
		off := i.getRestartPoint(mid)
		i.stats.SearchProbes++
		shared, unshared, _, keyStart, ok := decodeEntry(i.data, off, i.restarts)
		if !ok {
			i.corruptionError(base.CorruptionErrorf("rowblk: bad entry in block at offset %d", off))
			return
		}
		if shared != 0 {
			i.corruptionError(base.CorruptionErrorf(
				"rowblk: restart point %d at offset %d has shared length %d", mid, off, shared))
			return
		}
		if i.cmp(i.data[keyStart:keyStart+int(unshared)], target) < 0 {
			// All keys in the runs before mid are < target.
			left = mid
		} else {
			// All keys in the runs at or after mid are >= target.
			right = mid - 1
		}
	}

	if invariants.Enabled && cmp != 0 && !i.Valid() {
		panic(errors.AssertionFailedf("rowblk: compared against an invalid position"))
	}
	if skipSeek := left == i.restartIndex && cmp < 0; !skipSeek {
		i.seekToRestartPoint(left)
	}
	for i.parseNextKey() {
		if i.cmp(i.key, target) >= 0 {
			return
		}
	}
}

// Next implements base.Iterator. The iterator must be valid.
func (i *Iter) Next() {
	if !i.Valid() {
		if invariants.Enabled {
			panic(errors.AssertionFailedf("rowblk: Next called on an invalid iterator"))
		}
		return
	}
	i.parseNextKey()
}

// Prev implements base.Iterator. The iterator must be valid.
func (i *Iter) Prev() {
	if !i.Valid() {
		if invariants.Enabled {
			panic(errors.AssertionFailedf("rowblk: Prev called on an invalid iterator"))
		}
		return
	}

	// Find the last restart point strictly before the current entry.
	original := i.offset
	for i.getRestartPoint(i.restartIndex) >= original {
		if i.restartIndex == 0 {
			// No entries before the current one.
			i.invalidate()
			return
		}
		i.restartIndex--
	}

	// Decode forward until the entry that ends where the original one begins.
	i.seekToRestartPoint(i.restartIndex)
	for i.parseNextKey() && i.nextOffset < original {
	}
}

// Key implements base.Iterator. The iterator must be valid.
func (i *Iter) Key() []byte {
	if !i.Valid() {
		if invariants.Enabled {
			panic(errors.AssertionFailedf("rowblk: Key called on an invalid iterator"))
		}
		return nil
	}
	return i.key
}

// Value implements base.Iterator. The iterator must be valid.
func (i *Iter) Value() []byte {
	if !i.Valid() {
		if invariants.Enabled {
			panic(errors.AssertionFailedf("rowblk: Value called on an invalid iterator"))
		}
		return nil
	}
	return i.val
}

// Valid returns true if the iterator is currently positioned at an entry.
func (i *Iter) Valid() bool {
	return i.offset < i.restarts
}

// Error implements base.Iterator.
func (i *Iter) Error() error {
	return i.err
}

// Close implements base.Iterator. It drops the iterator's references to the
// block and returns the latched error, if any.
func (i *Iter) Close() error {
	i.closeCheck.Close()
	err := i.err
	key := i.key[:0]
	closeCheck := i.closeCheck
	*i = Iter{key: key, closeCheck: closeCheck}
	return err
}
