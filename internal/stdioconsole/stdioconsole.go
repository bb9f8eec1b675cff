// Package stdioconsole runs the interactive stdin console.
//
// Lines are read on a background goroutine and evaluated on the owner
// thread through the main loop, so script state is never touched from
// the reader side.
package stdioconsole

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"gameshell/internal/mainloop"
)

// EvalFunc evaluates one console line and returns its printable result.
type EvalFunc func(line string) (string, error)

// Console reads lines from an input stream and evaluates them.
type Console struct {
	loop *mainloop.Loop
	eval EvalFunc
	in   io.Reader
	out  io.Writer
	done chan struct{}
}

// New creates a Console. Lines from in are evaluated with eval on the
// owner thread of loop; results and errors are written to out.
func New(loop *mainloop.Loop, eval EvalFunc, in io.Reader, out io.Writer) *Console {
	return &Console{
		loop: loop,
		eval: eval,
		in:   in,
		out:  out,
		done: make(chan struct{}),
	}
}

// Start begins reading lines in a background goroutine. It returns
// immediately; the goroutine exits on EOF or context cancellation.
func (c *Console) Start(ctx context.Context) {
	go c.readLines(ctx)
}

// Done is closed once the reader goroutine has exited, after every line
// read so far has been evaluated and its outcome written.
func (c *Console) Done() <-chan struct{} {
	return c.done
}

// readLines is the console loop: read a line, evaluate it on the owner
// thread, print the outcome.
func (c *Console) readLines(ctx context.Context) {
	defer close(c.done)

	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var result string
		var err error
		c.loop.PostAndWait(func() {
			result, err = c.eval(line)
		})

		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
			continue
		}
		if result != "" {
			fmt.Fprintf(c.out, "%s\n", result)
		}
	}

	if err := scanner.Err(); err != nil {
		log.Printf("Console input error: %v", err)
	}
}
