// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// blockdump prints the contents and layout of raw row-oriented blocks.
package main

import (
	"log"
	"os"

	"github.com/cockroachdb/sstblock/tool"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "blockdump [command] (flags)",
	Short: "row-oriented block introspection tool",
	Long:  ``,
}

func main() {
	log.SetFlags(0)

	cobra.EnableCommandSorting = false
	t := tool.New()
	rootCmd.AddCommand(t.Commands...)

	if err := rootCmd.Execute(); err != nil {
		// Cobra has already printed the error message.
		os.Exit(1)
	}
}
