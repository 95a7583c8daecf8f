// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/sstblock/internal/binfmt"
	"github.com/cockroachdb/sstblock/internal/invalidating"
	"github.com/cockroachdb/sstblock/sstable/block"
	"github.com/cockroachdb/sstblock/sstable/rowblk"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// blockT implements block-level tools, including both configuration state and
// the commands themselves. Each file argument holds the raw bytes of a single
// row-oriented block, already decompressed.
type blockT struct {
	Root     *cobra.Command
	Layout   *cobra.Command
	Restarts *cobra.Command
	Scan     *cobra.Command
	Seek     *cobra.Command

	// Configuration and state.
	comparers map[string]*Comparer
	logger    Logger

	// Flags.
	comparerName string
	fmtKey       formatter
	fmtValue     formatter
	truncate     int
	width        int
	reverse      bool
	verbose      bool
}

func newBlock(comparers map[string]*Comparer, logger Logger) *blockT {
	b := &blockT{
		comparers: comparers,
		logger:    logger,
	}
	b.fmtKey.mustSet("pretty")
	b.fmtValue.mustSet("[%x]")

	b.Root = &cobra.Command{
		Use:   "block",
		Short: "block introspection tools",
	}
	b.Layout = &cobra.Command{
		Use:   "layout <blocks>",
		Short: "print block entry layout",
		Long: `
Print the binary layout of the blocks: the header, key suffix and value of
every entry followed by the restart points.
`,
		Args: cobra.MinimumNArgs(1),
		Run:  b.runLayout,
	}
	b.Restarts = &cobra.Command{
		Use:   "restarts <blocks>",
		Short: "print block restart points",
		Long: `
Print a table of the restart points of the blocks along with the key stored in
full at each of them.
`,
		Args: cobra.MinimumNArgs(1),
		Run:  b.runRestarts,
	}
	b.Scan = &cobra.Command{
		Use:   "scan <blocks>",
		Short: "print block records",
		Long: `
Print the records in the blocks. The blocks are scanned in command line order
which means the records will be printed in that order.
`,
		Args: cobra.MinimumNArgs(1),
		Run:  b.runScan,
	}
	b.Seek = &cobra.Command{
		Use:   "seek <block> <keys>",
		Short: "seek within a block",
		Long: `
Seek to each of the keys in the block and print the first record with a key
greater than or equal to it. Keys may be prefixed with hex: or raw:.
`,
		Args: cobra.MinimumNArgs(2),
		Run:  b.runSeek,
	}

	b.Root.AddCommand(b.Layout, b.Restarts, b.Scan, b.Seek)
	for _, cmd := range []*cobra.Command{b.Scan, b.Seek} {
		cmd.Flags().StringVar(
			&b.comparerName, "comparer", "", "comparer name (defaults to bytewise)")
		cmd.Flags().Var(
			&b.fmtKey, "key", "key formatter")
		cmd.Flags().Var(
			&b.fmtValue, "value", "value formatter")
		cmd.Flags().IntVar(
			&b.truncate, "truncate", 0, "truncate values longer than this many bytes (0 disables)")
	}
	b.Layout.Flags().Var(
		&b.fmtKey, "key", "key and value formatter")
	b.Layout.Flags().IntVar(
		&b.width, "width", 40, "maximum width of the hex column")
	b.Restarts.Flags().Var(
		&b.fmtKey, "key", "key formatter")
	b.Scan.Flags().BoolVarP(
		&b.reverse, "reverse", "r", false, "scan in reverse order")
	b.Scan.Flags().BoolVarP(
		&b.verbose, "verbose", "v", false, "print iterator stats")
	return b
}

func (b *blockT) comparer() (*Comparer, error) {
	if b.comparerName == "" {
		return nil, nil
	}
	c, ok := b.comparers[b.comparerName]
	if !ok {
		return nil, errors.Errorf("unknown comparer %q", errors.Safe(b.comparerName))
	}
	c = c.EnsureDefaults()
	b.fmtKey.setForComparer(c)
	return c, nil
}

// foreachBlock reads each of the paths and invokes fn with the decoded block.
// Files that cannot be read are logged and skipped.
func (b *blockT) foreachBlock(stdout io.Writer, paths []string, fn func(path string, blk *rowblk.Block)) {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			b.logger.Errorf("%s: %v", path, err)
			continue
		}
		fmt.Fprintf(stdout, "%s\n", path)
		blk := rowblk.NewBlock(block.Borrowed(data))
		fn(path, blk)
		blk.Release()
	}
}

func (b *blockT) runLayout(cmd *cobra.Command, args []string) {
	stdout := cmd.OutOrStdout()
	b.foreachBlock(stdout, args, func(path string, blk *rowblk.Block) {
		f := binfmt.New(blk.Data()).LineWidth(b.width)
		f.SetLinePrefix("  ")
		rowblk.Describe(f, blk, b.fmtKey.sprint)
		if _, err := f.WriteTo(stdout); err != nil {
			b.logger.Errorf("%s: %v", path, err)
		}
	})
}

func (b *blockT) runRestarts(cmd *cobra.Command, args []string) {
	stdout := cmd.OutOrStdout()
	b.foreachBlock(stdout, args, func(path string, blk *rowblk.Block) {
		if err := blk.Corrupt(); err != nil {
			fmt.Fprintf(stdout, "error: %v\n", err)
			return
		}
		fmt.Fprintf(stdout, "%s, %s restart points\n",
			crhumanize.Bytes(int64(blk.Size()), crhumanize.Compact, crhumanize.OmitI),
			crhumanize.Count(int64(blk.NumRestarts()), crhumanize.Compact))
		if blk.NumRestarts() == 0 {
			return
		}
		tbl := tablewriter.NewWriter(stdout)
		tbl.SetHeader([]string{"Restart", "Offset", "Key"})
		tbl.SetAlignment(tablewriter.ALIGN_LEFT)
		for i := 0; i < blk.NumRestarts(); i++ {
			k, err := blk.RestartKey(i)
			keyStr := b.fmtKey.sprint(k)
			if err != nil {
				keyStr = fmt.Sprintf("error: %v", err)
			}
			tbl.Append([]string{
				fmt.Sprintf("%d", i),
				fmt.Sprintf("%d", blk.RestartPoint(i)),
				keyStr,
			})
		}
		tbl.Render()
	})
}

func (b *blockT) runScan(cmd *cobra.Command, args []string) {
	stdout := cmd.OutOrStdout()
	cmp, err := b.comparer()
	if err != nil {
		fmt.Fprintf(stdout, "%s\n", err)
		return
	}
	b.foreachBlock(stdout, args, func(path string, blk *rowblk.Block) {
		iter := blk.NewIter(compareFunc(cmp))
		defer iter.Close()
		if b.reverse {
			for iter.SeekToLast(); iter.Valid(); iter.Prev() {
				formatKeyValue(stdout, b.fmtKey, b.fmtValue, iter.Key(), trunc(iter.Value(), b.truncate))
			}
		} else {
			for iter.SeekToFirst(); iter.Valid(); iter.Next() {
				formatKeyValue(stdout, b.fmtKey, b.fmtValue, iter.Key(), trunc(iter.Value(), b.truncate))
			}
		}
		if err := iter.Error(); err != nil {
			fmt.Fprintf(stdout, "error: %v\n", err)
		}
		if ri, ok := iter.(*rowblk.Iter); ok && b.verbose {
			fmt.Fprintf(stdout, "stats: %s\n", ri.Stats())
		}
	})
}

func (b *blockT) runSeek(cmd *cobra.Command, args []string) {
	stdout := cmd.OutOrStdout()
	cmp, err := b.comparer()
	if err != nil {
		fmt.Fprintf(stdout, "%s\n", err)
		return
	}
	var keys []key
	for _, arg := range args[1:] {
		var k key
		if err := k.Set(arg); err != nil {
			fmt.Fprintf(stdout, "%s\n", err)
			return
		}
		keys = append(keys, k)
	}
	b.foreachBlock(stdout, args[:1], func(path string, blk *rowblk.Block) {
		iter := invalidating.MaybeWrapIfInvariants(blk.NewIter(compareFunc(cmp)))
		defer iter.Close()
		for _, k := range keys {
			fmt.Fprintf(stdout, "seek %s: ", b.fmtKey.sprint(k))
			iter.Seek(k)
			switch {
			case iter.Valid():
				formatKeyValue(stdout, b.fmtKey, b.fmtValue, iter.Key(), trunc(iter.Value(), b.truncate))
			case iter.Error() != nil:
				fmt.Fprintf(stdout, "error: %v\n", iter.Error())
			default:
				fmt.Fprintf(stdout, ".\n")
			}
		}
	})
}

func compareFunc(c *Comparer) func(a, b []byte) int {
	if c == nil {
		return nil
	}
	return c.Compare
}
