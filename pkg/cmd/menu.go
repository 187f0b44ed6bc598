package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/c9s/rbtree/pkg/cmd/cmdutil"
	"github.com/c9s/rbtree/pkg/envvar"
	"github.com/c9s/rbtree/pkg/interact"
	"github.com/c9s/rbtree/pkg/rbtree"
	"github.com/c9s/rbtree/pkg/style"
	"github.com/c9s/rbtree/pkg/treesvc"
)

func init() {
	MenuCmd.Flags().String("preload", "", "keys inserted before the menu starts, e.g. 20,15,25")
	MenuCmd.Flags().Bool("dump-on-mutation", false, "log the tree after every insert and delete (needs --debug)")
	MenuCmd.Flags().Bool("quiet", false, "do not print the option menu before each prompt")
	RootCmd.AddCommand(MenuCmd)
}

// go run ./cmd/rbtree menu --preload 20,15,25
var MenuCmd = &cobra.Command{
	Use:   "menu",
	Short: "interactive insert/search/delete/show menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		preload, err := cmd.Flags().GetString("preload")
		if err != nil {
			return err
		}

		keys, err := cmdutil.ParseKeys(preload)
		if err != nil {
			return err
		}

		dumpOnMutation, err := cmd.Flags().GetBool("dump-on-mutation")
		if err != nil {
			return err
		}

		quiet, err := cmd.Flags().GetBool("quiet")
		if err != nil {
			return err
		}

		envvar.SetBool("RBTREE_NO_COLOR", &color.NoColor)

		svc := treesvc.New("menu", treesvc.WithDumpOnMutation(dumpOnMutation))
		svc.Insert(keys...)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		console := &interact.Console{
			Interact: newMenu(svc),
			In:       cmd.InOrStdin(),
			Out:      cmd.OutOrStdout(),
			Prompt:   "choose an option: ",
		}

		if !quiet {
			console.Menu = printMenu
		}

		// ctrl-c at the prompt ends the menu like exit does
		if err := console.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		return nil
	},
}

func printMenu(w io.Writer) {
	fmt.Fprint(w, "\n"+
		"1 - insert\n"+
		"2 - search\n"+
		"3 - delete\n"+
		"4 - show tree\n"+
		"0 - exit\n")
}

// newMenu registers the numbered options of the menu and their word aliases.
// Numbered options ask for the key on the next line, words take the keys as arguments.
func newMenu(svc *treesvc.Service) *interact.Interact {
	i := interact.New()

	insert := func(reply interact.Reply, keys ...int64) error {
		if len(keys) == 0 {
			return errors.New("insert needs at least one key")
		}

		svc.Insert(keys...)
		reply.Message(fmt.Sprintf("inserted %s, size = %d", formatKeys(keys), svc.Len()))
		return nil
	}

	search := func(reply interact.Reply, key int64) error {
		h, err := svc.Search(key)
		if errors.Is(err, rbtree.ErrKeyNotFound) {
			reply.Message(fmt.Sprintf("key %d not found", key))
			return nil
		} else if err != nil {
			return err
		}

		reply.Message(fmt.Sprintf("key %d found (%s)", h.Key(), style.NodeColorLabel(h.Color())))
		return nil
	}

	remove := func(reply interact.Reply, key int64) error {
		err := svc.Delete(key)
		if errors.Is(err, rbtree.ErrKeyNotFound) {
			reply.Message(fmt.Sprintf("key %d not found", key))
			return nil
		} else if err != nil {
			return err
		}

		reply.Message(fmt.Sprintf("key %d deleted, size = %d", key, svc.Len()))
		return nil
	}

	show := func(reply interact.Reply, mode ...string) error {
		var buf bytes.Buffer
		if len(mode) > 0 && mode[0] == "table" {
			style.RenderDumpTable(&buf, svc.Name, svc.Dump())
		} else if err := svc.Render(&buf); err != nil {
			return err
		}

		if buf.Len() == 0 {
			reply.Message("<empty>")
			return nil
		}

		reply.Message(strings.TrimRight(buf.String(), "\n"))
		return nil
	}

	exit := func() error {
		return interact.ErrExit
	}

	i.Command("1", "insert a key", func(reply interact.Reply) {
		reply.Message("value to insert:")
	}).Next(func(reply interact.Reply, key int64) error {
		return insert(reply, key)
	})

	i.Command("2", "search a key", func(reply interact.Reply) {
		reply.Message("value to search:")
	}).Next(search)

	i.Command("3", "delete a key", func(reply interact.Reply) {
		reply.Message("value to delete:")
	}).Next(remove)

	i.Command("4", "show the tree", show)
	i.Command("0", "exit", exit)

	i.Command("insert", "insert keys: insert 20 15 25", insert)
	i.Command("search", "search a key: search 22", search)
	i.Command("delete", "delete a key: delete 15", remove)
	i.Command("show", "show the tree: show [table]", show)
	i.Command("exit", "exit", exit)
	i.Command("quit", "exit", exit)

	i.Command("help", "list the commands", func(reply interact.Reply) {
		for _, c := range i.Commands() {
			reply.Message(fmt.Sprintf("%-8s %s", c.Name, c.Desc))
		}
	})

	return i
}

func formatKeys(keys []int64) string {
	ss := make([]string, len(keys))
	for idx, k := range keys {
		ss[idx] = fmt.Sprint(k)
	}

	return strings.Join(ss, ",")
}
