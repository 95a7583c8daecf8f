// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package rowblk

// decodeEntry decodes the header of the entry at data[pos:], which must lie
// entirely before limit. It returns the three lengths of the entry and the
// offset of the key suffix; the value begins unshared bytes later.
//
// decodeEntry never panics. Any header that is malformed or does not fit
// before limit returns ok=false.
func decodeEntry(
	data []byte, pos, limit int,
) (shared, unshared, valueLen uint32, keyStart int, ok bool) {
	if pos < 0 || limit > len(data) || limit-pos < 3 {
		return 0, 0, 0, 0, false
	}
	shared, unshared, valueLen = uint32(data[pos]), uint32(data[pos+1]), uint32(data[pos+2])
	keyStart = pos + 3
	if (shared | unshared | valueLen) >= 128 {
		// At least one length does not fit in a single byte.
		if shared, keyStart, ok = decodeVarint32(data, pos, limit); !ok {
			return 0, 0, 0, 0, false
		}
		if unshared, keyStart, ok = decodeVarint32(data, keyStart, limit); !ok {
			return 0, 0, 0, 0, false
		}
		if valueLen, keyStart, ok = decodeVarint32(data, keyStart, limit); !ok {
			return 0, 0, 0, 0, false
		}
	}
	if uint64(unshared)+uint64(valueLen) > uint64(limit-keyStart) {
		return 0, 0, 0, 0, false
	}
	return shared, unshared, valueLen, keyStart, true
}

// decodeVarint32 decodes a varint from data[pos:limit]. It fails if the varint
// is truncated, longer than 5 bytes, or does not fit in a uint32.
func decodeVarint32(data []byte, pos, limit int) (uint32, int, bool) {
	var v uint32
	for shift := uint(0); shift <= 28 && pos < limit; shift += 7 {
		b := data[pos]
		pos++
		if b < 0x80 {
			if shift == 28 && b > 0x0f {
				return 0, 0, false
			}
			return v | uint32(b)<<shift, pos, true
		}
		v |= uint32(b&0x7f) << shift
	}
	return 0, 0, false
}
