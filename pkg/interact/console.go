package interact

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// WriterReply prints every message as one line of the writer.
type WriterReply struct {
	W io.Writer
}

func (r *WriterReply) Message(message string) {
	_, _ = fmt.Fprintln(r.W, message)
}

// Console runs the interaction over a line-oriented text stream.
type Console struct {
	Interact *Interact
	In       io.Reader
	Out      io.Writer

	// Prompt is printed before reading a command, Menu is printed before the prompt
	Prompt string
	Menu   func(w io.Writer)
}

// Run reads lines until the input ends, ctx is canceled or a command returns ErrExit.
// Command errors are printed and the loop goes on. A canceled ctx returns ctx.Err()
// without waiting for the pending read.
func (c *Console) Run(ctx context.Context) error {
	reply := &WriterReply{W: c.Out}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErrC := make(chan error, 1)
	go c.readLines(ctx, lines, readErrC)

	for {
		if !c.Interact.Pending() {
			if c.Menu != nil {
				c.Menu(c.Out)
			}

			if c.Prompt != "" {
				_, _ = fmt.Fprint(c.Out, c.Prompt)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-readErrC:
			return err

		case line := <-lines:
			err := c.Interact.HandleLine(line, reply)
			if errors.Is(err, ErrExit) {
				return nil
			} else if err != nil {
				reply.Message("error: " + err.Error())
			}
		}
	}
}

// readLines feeds the input lines into the channel, then reports the scanner error.
// The goroutine stays blocked in Read if ctx is canceled while no input arrives.
func (c *Console) readLines(ctx context.Context, lines chan<- string, errC chan<- error) {
	scanner := bufio.NewScanner(c.In)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}

	errC <- scanner.Err()
}
