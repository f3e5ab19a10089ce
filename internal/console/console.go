// Package console writes operator-facing progress lines, colour-coded when the
// output is a terminal.
package console

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	green  = "\033[92m"
	yellow = "\033[93m"
	red    = "\033[91m"
	reset  = "\033[0m"
)

// Console is not safe for concurrent use; the workflow is single-threaded.
type Console struct {
	w     io.Writer
	color bool
}

// New returns a Console writing to w. When color is false, lines are written
// without ANSI escapes.
func New(w io.Writer, color bool) *Console {
	if w == nil {
		w = io.Discard
	}
	return &Console{w: w, color: color}
}

// Auto enables colour only when f is a terminal and noColor is unset.
func Auto(f *os.File, noColor bool) *Console {
	return New(f, !noColor && term.IsTerminal(int(f.Fd())))
}

// Writer exposes the underlying writer for prompts that must not end in a
// newline.
func (c *Console) Writer() io.Writer { return c.w }

func (c *Console) Successf(format string, args ...any) { c.line(green, format, args...) }
func (c *Console) Warnf(format string, args ...any)    { c.line(yellow, format, args...) }
func (c *Console) Failf(format string, args ...any)    { c.line(red, format, args...) }
func (c *Console) Infof(format string, args ...any)    { c.line("", format, args...) }

// Printf writes without a trailing newline or colour.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.w, format, args...)
}

func (c *Console) line(code, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if c.color && code != "" {
		msg = code + msg + reset
	}
	fmt.Fprintln(c.w, msg)
}
