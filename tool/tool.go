// Copyright 2019 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package tool implements introspection commands for raw row-oriented blocks.
package tool

import (
	"github.com/cockroachdb/sstblock/internal/base"
	"github.com/spf13/cobra"
)

// Comparer exports the base.Comparer type.
type Comparer = base.Comparer

// Logger exports the base.Logger type.
type Logger = base.Logger

// T is the container for all of the introspection tools.
type T struct {
	Commands  []*cobra.Command
	block     *blockT
	comparers map[string]*Comparer
	logger    Logger
}

// A Option configures the T.
type Option func(*T)

// Comparers may be passed to New to register comparers for use by the
// introspection tools.
func Comparers(cmps ...*Comparer) Option {
	return func(t *T) {
		for _, c := range cmps {
			t.comparers[c.Name] = c
		}
	}
}

// WithLogger sets the logger used to report files that could not be read.
func WithLogger(l Logger) Option {
	return func(t *T) {
		t.logger = l
	}
}

// New creates a new introspection tool.
func New(opts ...Option) *T {
	t := &T{
		comparers: make(map[string]*Comparer),
		logger:    base.DefaultLogger{},
	}
	t.comparers[base.DefaultComparer.Name] = base.DefaultComparer
	for _, opt := range opts {
		opt(t)
	}

	t.block = newBlock(t.comparers, t.logger)
	t.Commands = []*cobra.Command{
		t.block.Root,
	}
	return t
}
