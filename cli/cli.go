// Package cli provides the line-oriented front end for the ChainSpire
// engine and the session logic it shares with the TUI: meta-commands,
// save files, map export and trace formatting.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/nathoo/chainspire/engine"
)

// CLI reads commands line by line and prints replies. System lines are
// shown in brackets.
type CLI struct {
	*Session
	In        io.Reader
	Out       io.Writer
	EchoInput bool // echo each input line after the prompt (for script playback)
}

// New creates a CLI on stdin/stdout wired to the given engine.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Session: NewSession(eng, ""),
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Run prints the title and the current phase, then loops until /quit or
// end of input.
func (c *CLI) Run() {
	c.render(c.Intro(""))

	scanner := bufio.NewScanner(c.In)
	for {
		fmt.Fprint(c.Out, c.Prompt())
		if !scanner.Scan() {
			fmt.Fprintln(c.Out)
			return
		}
		line := scanner.Text()
		if c.EchoInput {
			fmt.Fprintln(c.Out, line)
		}
		reply := c.Exec(line)
		c.render(reply.Lines)
		if reply.Quit {
			return
		}
	}
}

func (c *CLI) render(lines []Line) {
	for _, l := range lines {
		if l.System {
			fmt.Fprintf(c.Out, "[%s]\n", l.Text)
			continue
		}
		fmt.Fprintln(c.Out, l.Text)
	}
}
