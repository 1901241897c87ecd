// Copyright 2026 The Haymaker Authors
// SPDX-License-Identifier: Apache-2.0

package haymaker

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a Haymaker error per the error taxonomy.
type Kind int

const (
	// KindNone is the zero value; never attached to a real error.
	KindNone Kind = iota
	KindSourceIO
	KindCommentUnbalanced
	KindStrayShell
	KindParseError
	KindAssignmentMalformed
	KindIncludeMissing
	KindCycleDetected
	KindUnresolvedInput
	KindExpansionRunaway
	KindPipelineError
	KindRecipeFailure
)

func (k Kind) String() string {
	switch k {
	case KindSourceIO:
		return "SourceIO"
	case KindCommentUnbalanced:
		return "CommentUnbalanced"
	case KindStrayShell:
		return "StrayShell"
	case KindParseError:
		return "ParseError"
	case KindAssignmentMalformed:
		return "AssignmentMalformed"
	case KindIncludeMissing:
		return "IncludeMissing"
	case KindCycleDetected:
		return "CycleDetected"
	case KindUnresolvedInput:
		return "UnresolvedInput"
	case KindExpansionRunaway:
		return "ExpansionRunaway"
	case KindPipelineError:
		return "PipelineError"
	case KindRecipeFailure:
		return "RecipeFailure"
	default:
		return "Unknown"
	}
}

// SourcePos locates a diagnostic in the original, pre-expansion byte
// stream. Column is a 1-based rune offset into the line.
type SourcePos struct {
	File   string
	Line   int
	Column int
}

// Error is a Haymaker diagnostic: a Kind, a human-readable message, an
// optional source position, and an optional wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Pos  *SourcePos

	// Processed-error fields (populated when the failure happened after
	// macro expansion, e.g. PipelineError / RecipeFailure): the original
	// (pre-expansion) command line and its expanded form.
	Original string
	Expanded string

	cause error
}

func (e *Error) Error() string {
	if e.Pos != nil {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.File, e.Pos.Line, e.Pos.Column, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.cause }

// Caret renders a three-line "source" diagnostic: a file:line:col
// header, the offending source line, and a caret pointing at
// e.Pos.Column.
func (e *Error) Caret(sourceLine string) string {
	caret := make([]byte, 0, e.Pos.Column)
	for i := 1; i < e.Pos.Column; i++ {
		caret = append(caret, ' ')
	}
	caret = append(caret, '^')
	return fmt.Sprintf("%s:%d:%d: %s\n%s\n%s", e.Pos.File, e.Pos.Line, e.Pos.Column, e.Msg, sourceLine, caret)
}

// Processed renders a "processed" diagnostic carrying both the original
// and expanded command line, per spec section 6.
func (e *Error) Processed() string {
	return fmt.Sprintf("%s: %s\n  source:   %s\n  expanded: %s", e.Kind, e.Msg, e.Original, e.Expanded)
}

func newErr(kind Kind, pos *SourcePos, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Pos: pos}
}

func wrapErr(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:  kind,
		Msg:   fmt.Sprintf(format, args...),
		cause: errors.WithStack(cause),
	}
}

// ExitCode maps any error returned from a Haymaker operation to a process
// exit code, per spec section 6: 0 on nil, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
