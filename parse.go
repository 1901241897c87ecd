// Copyright 2026 The Haymaker Authors
// SPDX-License-Identifier: Apache-2.0

package haymaker

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
)

// Parse reads the hayfile at path, recursively splicing any include
// directives in place, and returns the flat statement sequence. vars
// accumulates assignments as parsing proceeds left to right, since
// include directives are expanded (but not assignment values — spec
// section 4.2) against whatever variables are bound at that point in
// the file.
//
// Grounded on the teacher's parse.go line-by-line parser, restructured
// for hayfile grammar (spec sections 4.1-4.3, 6).
func Parse(path string, vars *Vars) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, newErr(KindSourceIO, nil, "reading %s: %v", path, err)
	}

	if !CommentBalanced(string(raw)) {
		// Soft diagnostic per spec section 7: warn only, keep going.
		os.Stderr.WriteString(path + ": warning: " + KindCommentUnbalanced.String() + ": block comment still open at EOF\n")
	}

	lines := StripComments(string(raw), "")

	p := &parser{path: path, dir: filepath.Dir(path), vars: vars}
	file := &File{}

	var cur *Rule
	for i, stripped := range lines {
		lineNum := i + 1
		trimmedRight := strings.TrimRight(stripped, " \t")
		if trimmedRight == "" {
			continue
		}

		if stripped[0] == ' ' || stripped[0] == '\t' {
			if cur == nil {
				col := 1
				for col <= len(stripped) && (stripped[col-1] == ' ' || stripped[col-1] == '\t') {
					col++
				}
				return nil, newErr(KindStrayShell, &SourcePos{File: path, Line: lineNum, Column: col},
					"command line before any rule")
			}
			rest, debug, silence, neglect := parseCommandFlags(stripped)
			cur.Commands = append(cur.Commands, Command{
				Line:       rest,
				Debug:      debug,
				Silence:    silence,
				Neglect:    neglect,
				SourceLine: lineNum,
			})
			continue
		}

		trimmed := strings.TrimSpace(trimmedRight)

		switch {
		case strings.Contains(trimmed, "="):
			if err := p.parseAssignment(trimmed, lineNum); err != nil {
				return nil, err
			}

		case trimmed == "include" || strings.HasPrefix(trimmed, "include ") || strings.HasPrefix(trimmed, "include\t"):
			included, err := p.parseInclude(trimmed, lineNum)
			if err != nil {
				return nil, err
			}
			file.Stmts = append(file.Stmts, included.Stmts...)
			cur = nil

		default:
			rule, err := p.parseRuleHeader(trimmed, lineNum)
			if err != nil {
				return nil, err
			}
			file.Stmts = append(file.Stmts, rule)
			cur = rule
		}
	}

	return file, nil
}

type parser struct {
	path string
	dir  string
	vars *Vars
}

// parseAssignment implements spec section 4.2's chained-assignment rule:
// segment the line on '=', the rightmost segment is the literal value,
// every variable-name token in every earlier segment is bound to it.
func (p *parser) parseAssignment(line string, lineNum int) error {
	parts := strings.Split(line, "=")
	value := strings.TrimSpace(parts[len(parts)-1])

	var bound int
	for _, dest := range parts[:len(parts)-1] {
		for _, tok := range strings.Fields(dest) {
			if !isVarName(tok) {
				return newErr(KindAssignmentMalformed, &SourcePos{File: p.path, Line: lineNum},
					"invalid variable name %q", tok)
			}
			p.vars.Set(tok, value)
			bound++
		}
	}
	if bound == 0 {
		return newErr(KindAssignmentMalformed, &SourcePos{File: p.path, Line: lineNum},
			"assignment has no destination")
	}
	return nil
}

// parseInclude expands and splices the hayfiles named by an include
// directive, per spec section 4.2 and 6.
func (p *parser) parseInclude(line string, lineNum int) (*File, error) {
	rawArgs := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(line, "include"), " "))
	expanded, _ := p.vars.Expand(rawArgs)

	paths, err := shlex.Split(expanded)
	if err != nil {
		return nil, newErr(KindParseError, &SourcePos{File: p.path, Line: lineNum},
			"include: %v", err)
	}

	merged := &File{}
	for _, rel := range paths {
		resolved := rel
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(p.dir, resolved)
		}
		if _, statErr := os.Stat(resolved); statErr != nil {
			return nil, newErr(KindIncludeMissing, &SourcePos{File: p.path, Line: lineNum},
				"include path %q does not exist", rel)
		}
		included, parseErr := Parse(resolved, p.vars)
		if parseErr != nil {
			return nil, parseErr
		}
		merged.Stmts = append(merged.Stmts, included.Stmts...)
	}
	return merged, nil
}

// parseRuleHeader parses "outputs : group | group | ..." per the
// grammar in spec section 4.3.
func (p *parser) parseRuleHeader(line string, lineNum int) (*Rule, error) {
	colonIdx := strings.IndexByte(line, ':')
	if colonIdx < 0 {
		return nil, newErr(KindParseError, &SourcePos{File: p.path, Line: lineNum},
			"unrecognized syntax: %s", line)
	}

	outputsStr := strings.TrimSpace(line[:colonIdx])
	stepsStr := strings.TrimSpace(line[colonIdx+1:])

	outputs := strings.Fields(outputsStr)
	if len(outputs) == 0 {
		return nil, newErr(KindParseError, &SourcePos{File: p.path, Line: lineNum},
			"rule header has no outputs")
	}

	var steps []Step
	if stepsStr != "" {
		for _, part := range strings.Split(stepsStr, "|") {
			tokens := strings.Fields(part)
			if len(tokens) == 0 {
				return nil, newErr(KindParseError, &SourcePos{File: p.path, Line: lineNum},
					"empty dependency group in rule header")
			}
			steps = append(steps, Step{Tokens: tokens})
		}
	}

	return &Rule{Outputs: outputs, Steps: steps, Line: lineNum}, nil
}
