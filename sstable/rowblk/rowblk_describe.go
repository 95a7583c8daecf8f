// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package rowblk

import (
	"fmt"

	"github.com/cockroachdb/sstblock/internal/base"
	"github.com/cockroachdb/sstblock/internal/binfmt"
)

// Describe describes the binary format of the block, one entry at a time,
// followed by the restart array and the trailer. fmtKV formats keys and values
// for the comments; if nil, non-printable bytes are hex escaped.
//
// Describe stops annotating entries at the first one that fails to decode and
// formats the rest of the entries as hex with their printable characters.
func Describe(f *binfmt.Formatter, b *Block, fmtKV func([]byte) string) {
	if fmtKV == nil {
		fmtKV = func(v []byte) string { return fmt.Sprint(base.FormatBytes(v)) }
	}
	if b.err != nil {
		if f.More() {
			f.HexBytesln(f.Remaining(), "%v", b.err)
		}
		return
	}

	var key []byte
	restartIdx := 0
	for entry := 0; f.Offset() < b.restartOffset; entry++ {
		off := f.Offset()
		shared, unshared, valueLen, keyStart, ok := decodeEntry(b.data, off, b.restartOffset)
		if ok && int(shared) > len(key) {
			ok = false
		}
		if !ok {
			f.HexBytesln(1, "corrupt entry %d at offset %d", entry, off)
			if n := b.restartOffset - f.Offset(); n > 0 {
				f.HexTextln(n)
			}
			break
		}
		for restartIdx < b.numRestarts && b.RestartPoint(restartIdx) < off {
			restartIdx++
		}
		if restartIdx < b.numRestarts && b.RestartPoint(restartIdx) == off {
			f.Uvarint("entry %d (restart %d): shared key length", entry, restartIdx)
		} else {
			f.Uvarint("entry %d: shared key length", entry)
		}
		f.Uvarint("unshared key length")
		f.Uvarint("value length")
		key = append(key[:shared], b.data[keyStart:keyStart+int(unshared)]...)
		if unshared > 0 {
			f.HexBytesln(int(unshared), "key suffix (key %s)", fmtKV(key))
		}
		if valueLen > 0 {
			valStart := keyStart + int(unshared)
			f.HexBytesln(int(valueLen), "value %s", fmtKV(b.data[valStart:valStart+int(valueLen)]))
		}
	}
	for i := 0; i < b.numRestarts; i++ {
		f.Line(4).HexBytes(4).Done("restart point %d: offset %d", i, f.PeekUint32())
	}
	f.Line(4).HexBytes(4).Done("restart point count: %d", f.PeekUint32())
}
