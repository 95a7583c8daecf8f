// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package invariants

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCloseChecker(t *testing.T) {
	var c CloseChecker
	c.AssertNotClosed()
	c.Close()
	if Enabled {
		require.Panics(t, c.AssertNotClosed)
		require.Panics(t, c.Close)
	} else {
		require.NotPanics(t, c.AssertNotClosed)
		require.NotPanics(t, c.Close)
	}
}

func TestCheckBounds(t *testing.T) {
	CheckBounds(0, 1)
	CheckBounds(uint32(4), uint32(5))
	if Enabled {
		require.Panics(t, func() { CheckBounds(5, 5) })
		require.Panics(t, func() { CheckBounds(-1, 5) })
	} else {
		require.NotPanics(t, func() { CheckBounds(5, 5) })
	}
}

func TestMangle(t *testing.T) {
	b := []byte("hello")
	Mangle(b)
	require.Equal(t, []byte{0xCC, 0xCC, 0xCC, 0xCC, 0xCC}, b)
	if !Enabled {
		require.False(t, Sometimes(100))
	}
}
