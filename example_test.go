// Copyright 2020 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstblock_test

import (
	"fmt"
	"log"

	"github.com/cockroachdb/sstblock"
	"github.com/cockroachdb/sstblock/internal/blocktest"
)

func Example() {
	w := blocktest.Writer{RestartInterval: 2}
	for _, k := range []string{"a", "ab", "b", "ba", "c"} {
		if err := w.AddString(k, k+"_v"); err != nil {
			log.Fatal(err)
		}
	}
	b := sstblock.NewBlock(sstblock.Borrowed(w.Finish()))
	defer b.Release()

	iter := b.NewIter(nil)
	for iter.Seek([]byte("az")); iter.Valid(); iter.Next() {
		fmt.Printf("%s %s\n", iter.Key(), iter.Value())
	}
	if err := iter.Close(); err != nil {
		log.Fatal(err)
	}
	// Output:
	// b b_v
	// ba ba_v
	// c c_v
}

func Example_corruption() {
	// A trailer claiming more restart points than the block can hold.
	b := sstblock.NewBlock(sstblock.Borrowed([]byte("\x02\x00\x00\x00")))
	iter := b.NewIter(nil)
	iter.SeekToFirst()
	fmt.Println(iter.Valid(), sstblock.IsCorruptionError(iter.Error()))
	fmt.Println(iter.Error())
	// Output:
	// false true
	// rowblk: bad block contents (2 restarts in 4 bytes)
}
