// Copyright 2023 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package itertest provides facilities for testing iterators.
package itertest

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/cockroachdb/crlib/crstrings"
	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/sstblock/internal/base"
)

type iterCmdOpts struct {
	fmtKV           formatKV
	showCommands    bool
	withoutNewlines bool
	stats           func() fmt.Stringer
}

// An IterOpt configures the behavior of RunIterCmd.
type IterOpt func(*iterCmdOpts)

// A formatKV configures the formatting to use when presenting key-value pairs.
type formatKV func(w io.Writer, iter base.Iterator)

// Condensed configures RunIterCmd to output condensed results without values,
// collapsed onto a single line.
func Condensed(opts *iterCmdOpts) {
	opts.fmtKV = condensedFormatKV
	opts.withoutNewlines = true
}

// ShowCommands configures RunIterCmd to show the command in each output line
// (so you don't have to visually match the line to the command).
func ShowCommands(opts *iterCmdOpts) {
	opts.showCommands = true
}

// WithStats configures RunIterCmd to print the result of stats for the
// "stats" command. The "reset-stats" command calls ResetStats on the iterator
// if it implements it.
func WithStats(stats func() fmt.Stringer) IterOpt {
	return func(opts *iterCmdOpts) { opts.stats = stats }
}

func defaultFormatKV(w io.Writer, iter base.Iterator) {
	if iter.Valid() {
		fmt.Fprintf(w, "%s:%s", iter.Key(), iter.Value())
	} else if err := iter.Error(); err != nil {
		fmt.Fprintf(w, "err=%v", err)
	} else {
		fmt.Fprintf(w, ".")
	}
}

// condensedFormatKV is a FormatKV that outputs condensed results.
func condensedFormatKV(w io.Writer, iter base.Iterator) {
	if iter.Valid() {
		fmt.Fprintf(w, "<%s>", iter.Key())
	} else if err := iter.Error(); err != nil {
		fmt.Fprintf(w, "err=%v", err)
	} else {
		fmt.Fprint(w, ".")
	}
}

// RunIterCmd evaluates a datadriven command controlling an iterator, returning
// a string with the results of the iterator operations.
func RunIterCmd(t *testing.T, d *datadriven.TestData, iter base.Iterator, opts ...IterOpt) string {
	var buf bytes.Buffer
	RunIterCmdWriter(t, &buf, d, iter, opts...)
	return buf.String()
}

// RunIterCmdWriter evaluates a datadriven command controlling an iterator,
// writing the results of the iterator operations to the provided Writer.
//
// The supported operations are first, last, next, prev, seek <key>, stats and
// reset-stats.
func RunIterCmdWriter(
	t *testing.T, w io.Writer, d *datadriven.TestData, iter base.Iterator, opts ...IterOpt,
) {
	o := iterCmdOpts{fmtKV: defaultFormatKV}
	for _, opt := range opts {
		opt(&o)
	}

	lines := crstrings.Lines(d.Input)
	maxCmdLen := 1
	for _, line := range lines {
		maxCmdLen = max(maxCmdLen, len(line))
	}
	for _, line := range lines {
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		if o.showCommands {
			fmt.Fprintf(w, "%*s: ", min(maxCmdLen, 40), line)
		}
		switch parts[0] {
		case "seek":
			if len(parts) != 2 {
				fmt.Fprint(w, "seek <key>\n")
				return
			}
			iter.Seek([]byte(strings.TrimSpace(parts[1])))
		case "first":
			iter.SeekToFirst()
		case "last":
			iter.SeekToLast()
		case "next":
			iter.Next()
		case "prev":
			iter.Prev()
		case "stats":
			if o.stats != nil {
				fmt.Fprintf(w, "%s\n", o.stats())
			}
			continue
		case "reset-stats":
			if r, ok := iter.(interface{ ResetStats() }); ok {
				r.ResetStats()
			}
			continue
		default:
			fmt.Fprintf(w, "unknown op: %s", parts[0])
			return
		}
		o.fmtKV(w, iter)
		if !o.withoutNewlines {
			fmt.Fprintln(w)
		}
	}
}
