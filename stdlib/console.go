// Package stdlib provides the implementations of vm.Stdlib: a process
// console and an in-memory one.
package stdlib

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/tliron/commonlog"
	"golang.org/x/term"
)

var log = commonlog.GetLogger("basic.stdlib")

// Console talks to the process: PRINT goes to stdout, INPUT reads stdin
// (with line editing on a terminal) and ENVIRON works on the real
// environment.
type Console struct {
	out    io.Writer
	in     *bufio.Reader
	editor *liner.State // nil unless stdin and stdout are terminals

	history []string

	// Prompt is shown by INPUT when editing is enabled.
	Prompt string
	// MaxHistory bounds the editor's history; zero disables it.
	MaxHistory int
	// Exit is called by SYSTEM.
	Exit func(code int)
}

// NewConsole creates a console on stdin and stdout.
func NewConsole() *Console {
	c := NewConsoleIO(os.Stdin, os.Stdout)
	if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		c.editor = liner.NewLiner()
		c.editor.SetCtrlCAborts(true)
	}
	return c
}

// NewConsoleIO creates a console on arbitrary streams, without line
// editing.
func NewConsoleIO(in io.Reader, out io.Writer) *Console {
	return &Console{
		out:        out,
		in:         bufio.NewReader(in),
		Prompt:     "? ",
		MaxHistory: 100,
		Exit:       os.Exit,
	}
}

// Interactive reports whether INPUT uses the line editor.
func (c *Console) Interactive() bool {
	return c.editor != nil
}

// Close restores the terminal.
func (c *Console) Close() error {
	if c.editor != nil {
		return c.editor.Close()
	}
	return nil
}

func (c *Console) Print(args []string) {
	fmt.Fprintln(c.out, strings.Join(args, " "))
}

// Input reads one line, line ending included. The line editor strips the
// ending itself, so interactive input has none.
func (c *Console) Input() (string, error) {
	if c.editor != nil {
		line, err := c.editor.Prompt(c.Prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", fmt.Errorf("input aborted: %w", err)
		}
		if err != nil {
			return "", err
		}
		c.remember(line)
		return line, nil
	}
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return line, nil
}

// remember adds a line to the editor's history, dropping the oldest
// entries beyond MaxHistory.
func (c *Console) remember(line string) {
	if line == "" || c.MaxHistory <= 0 {
		return
	}
	c.history = append(c.history, line)
	if len(c.history) <= c.MaxHistory {
		c.editor.AppendHistory(line)
		return
	}
	c.history = c.history[len(c.history)-c.MaxHistory:]
	c.editor.ClearHistory()
	for _, h := range c.history {
		c.editor.AppendHistory(h)
	}
}

func (c *Console) GetEnvVar(name string) string {
	return os.Getenv(name)
}

func (c *Console) SetEnvVar(name, value string) {
	if err := os.Setenv(name, value); err != nil {
		log.Warningf("cannot set %s: %v", name, err)
	}
}

// System runs the exit hook with status 0.
func (c *Console) System() {
	if c.Exit != nil {
		c.Exit(0)
	}
}
