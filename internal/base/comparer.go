// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import (
	"bytes"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/cockroachdb/redact"
)

// Compare returns -1, 0, or +1 depending on whether a is 'less than', 'equal
// to' or 'greater than' b.
//
// The ordering must be a total order over byte-sequence keys and must match
// the order the block was built in. A Compare that disagrees with the build
// order makes Seek and Prev return arbitrary positions; this is not detected
// as corruption.
type Compare func(a, b []byte) int

// FormatKey returns a formatter for the user key.
type FormatKey func(key []byte) fmt.Formatter

// DefaultFormatter is the default implementation of user key formatting:
// non-ASCII data is formatted as escaped hexadecimal values.
var DefaultFormatter FormatKey = func(key []byte) fmt.Formatter {
	return FormatBytes(key)
}

// Comparer defines a total ordering over the space of []byte keys: a 'less
// than' relationship.
type Comparer struct {
	// Compare defaults to bytes.Compare if it is not specified.
	Compare Compare
	// FormatKey defaults to the DefaultFormatter if it is not specified.
	FormatKey FormatKey

	// Name is the name of the comparer.
	//
	// Blocks do not record the comparer they were built with; Name exists for
	// diagnostics only.
	Name string
}

// EnsureDefaults ensures that all non-optional fields are set.
//
// If c is nil, returns DefaultComparer.
//
// If any fields need to be set, returns a modified copy of c.
func (c *Comparer) EnsureDefaults() *Comparer {
	if c == nil {
		return DefaultComparer
	}
	if c.Compare != nil && c.FormatKey != nil && c.Name != "" {
		return c
	}
	n := &Comparer{}
	*n = *c
	if n.Compare == nil {
		n.Compare = bytes.Compare
	}
	if n.FormatKey == nil {
		n.FormatKey = DefaultFormatter
	}
	if n.Name == "" {
		n.Name = "unnamed"
	}
	return n
}

// DefaultComparer is the default implementation of the Comparer interface.
// It uses the natural ordering, consistent with bytes.Compare.
var DefaultComparer = &Comparer{
	Compare:   bytes.Compare,
	FormatKey: DefaultFormatter,

	// This name is part of the C++ Level-DB implementation's default file
	// format, and should not be changed.
	Name: "leveldb.BytewiseComparator",
}

// FormatBytes formats a byte slice using hexadecimal escapes for non-ASCII
// data.
type FormatBytes []byte

const lowerhex = "0123456789abcdef"

// Format implements the fmt.Formatter interface.
func (p FormatBytes) Format(s fmt.State, c rune) {
	s.Write(p.appendEscaped(make([]byte, 0, len(p))))
}

// SafeFormat implements redact.SafeFormatter. Key bytes are user data and are
// therefore printed as unsafe (redactable) values.
func (p FormatBytes) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Print(string(p.appendEscaped(make([]byte, 0, len(p)))))
}

func (p FormatBytes) appendEscaped(buf []byte) []byte {
	for _, b := range p {
		if b < utf8.RuneSelf && strconv.IsPrint(rune(b)) {
			buf = append(buf, b)
			continue
		}
		buf = append(buf, `\x`...)
		buf = append(buf, lowerhex[b>>4])
		buf = append(buf, lowerhex[b&0xF])
	}
	return buf
}
