package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c9s/rbtree/pkg/cmd/cmdutil"
	"github.com/c9s/rbtree/pkg/rbtree"
	"github.com/c9s/rbtree/pkg/style"
)

func init() {
	ShowCmd.Flags().String("keys", "", "keys to insert, e.g. 20,15,25,10,5,1,30,22,27")
	ShowCmd.Flags().String("delete", "", "keys to delete after the inserts")
	ShowCmd.Flags().Bool("table", false, "print the pre-order dump as a table")
	RootCmd.AddCommand(ShowCmd)
}

// go run ./cmd/rbtree show --keys 20,15,25,10,5,1,30,22,27 --delete 1,5,15
var ShowCmd = &cobra.Command{
	Use:   "show",
	Short: "build a tree from the given keys and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		keyStr, err := cmd.Flags().GetString("keys")
		if err != nil {
			return err
		}

		deleteStr, err := cmd.Flags().GetString("delete")
		if err != nil {
			return err
		}

		showTable, err := cmd.Flags().GetBool("table")
		if err != nil {
			return err
		}

		keys, err := cmdutil.ParseKeys(keyStr)
		if err != nil {
			return err
		}

		deletes, err := cmdutil.ParseKeys(deleteStr)
		if err != nil {
			return err
		}

		tree := rbtree.New[int64]()
		for _, k := range keys {
			tree.Insert(k)
		}

		out := cmd.OutOrStdout()
		for _, k := range deletes {
			if err := tree.Delete(k); err != nil {
				fmt.Fprintf(out, "delete %d: %v\n", k, err)
			}
		}

		if tree.Len() == 0 {
			fmt.Fprintln(out, "<empty>")
			return nil
		}

		if showTable {
			var entries []rbtree.DumpEntry[int64]
			for e := range tree.Dump() {
				entries = append(entries, e)
			}

			style.RenderDumpTable(out, fmt.Sprintf("rbtree (%d keys, height %d)", tree.Len(), tree.Height()), entries)
			return nil
		}

		return tree.Render(out)
	},
}
