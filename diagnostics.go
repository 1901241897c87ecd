// Copyright 2026 The Haymaker Authors
// SPDX-License-Identifier: Apache-2.0

package haymaker

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Sink is the logical diagnostics/output destination the core requires
// (spec section 1: "a logical sink for diagnostics"). It is deliberately
// narrow: a banner line per dispatched recipe, a trace line for `+`
// (debug) commands, a rendered diagnostic for any Error, and the two
// byte streams a subprocess writes to.
type Sink interface {
	Banner(format string, args ...any)
	Trace(format string, args ...any)
	Diagnostic(err *Error)
	Stdout() io.Writer
	Stderr() io.Writer
}

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

// ConsoleSink is the default Sink, writing banners/traces to Err and
// recipe output to Out/Err directly, colorizing diagnostics when the
// underlying file descriptor is a terminal.
//
// Grounded on the teacher's exec.go banner/os.Stderr convention;
// terminal detection via github.com/mattn/go-isatty per
// _examples/other_examples/manifests/friedelschoen-mk/go.mod (a direct
// mk-family clone that depends on the same library for this purpose).
type ConsoleSink struct {
	Out, Err io.Writer
	Color    bool
}

// NewConsoleSink builds a ConsoleSink over stdout/stderr, enabling color
// only when stderr is attached to a terminal.
func NewConsoleSink() *ConsoleSink {
	color := false
	if f, ok := interface{}(os.Stderr).(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &ConsoleSink{Out: os.Stdout, Err: os.Stderr, Color: color}
}

func (c *ConsoleSink) Banner(format string, args ...any) {
	fmt.Fprintf(c.Err, format+"\n", args...)
}

func (c *ConsoleSink) Trace(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if c.Color {
		msg = ansiYellow + msg + ansiReset
	}
	fmt.Fprintln(c.Err, msg)
}

func (c *ConsoleSink) Diagnostic(err *Error) {
	var msg string
	if err.Pos != nil {
		msg = err.Error()
	} else {
		msg = err.Processed()
	}
	if c.Color {
		msg = ansiRed + msg + ansiReset
	}
	fmt.Fprintln(c.Err, msg)
}

func (c *ConsoleSink) Stdout() io.Writer { return c.Out }
func (c *ConsoleSink) Stderr() io.Writer { return c.Err }
