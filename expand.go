// Copyright 2026 The Haymaker Authors
// SPDX-License-Identifier: Apache-2.0

package haymaker

// maxRewrites bounds the number of successful single-step rewrites
// Expand performs on one line before giving up and reporting
// ExpansionRunaway. Spec section 4.4.2 calls for "a fixed number" on the
// order of ~16; chosen generously above any legitimate hayfile's nesting.
const maxRewrites = 16

// Expand repeatedly rewrites the leftmost-innermost @ form in s until no
// form remains or the runaway guard trips. A missing variable substitutes
// as empty (spec section 4.4.4); a failing pipeline substitutes as empty
// and contributes a non-fatal PipelineError diagnostic, so the returned
// diagnostics slice may be non-empty even though expansion completed.
//
// Grounded on the teacher's vars.go Expand method (restart-from-start
// single-substitution loop) and
// _examples/original_source/src/derive.rs's left_derive/subcall.
func (v *Vars) Expand(s string) (string, []*Error) {
	var diags []*Error
	for i := 0; i < maxRewrites; i++ {
		next, diag, changed := rewriteOnce(s, v)
		if diag != nil {
			diags = append(diags, diag)
		}
		if !changed {
			return next, diags
		}
		s = next
	}
	diags = append(diags, newErr(KindExpansionRunaway, nil,
		"expansion did not converge after %d rewrites", maxRewrites))
	return s, diags
}

// parenFrame is one open '(' on the matching stack; subcall marks frames
// opened by the two-character "@(" sequence as opposed to a bare '('.
type parenFrame struct {
	subcall   bool
	bodyStart int
}

// rewriteOnce performs a single left-to-right scan of s looking for
// exactly one rewrite: a bare @name reference outside any pending
// @(...) span takes priority and is applied immediately; otherwise the
// first @(...) span to close (necessarily the leftmost-innermost one,
// since frames close in stack order) is extracted, evaluated, and
// substituted. Single-quoted spans suppress all interpretation of
// @, (, ), and | within them (spec section 4.4.1).
func rewriteOnce(s string, vars *Vars) (result string, diag *Error, changed bool) {
	quoted := false
	var stack []parenFrame
	subcallDepth := 0

	for i := 0; i < len(s); i++ {
		c := s[i]

		if c == '\'' {
			quoted = !quoted
			continue
		}
		if quoted {
			continue
		}

		if c == '@' && subcallDepth == 0 {
			if i+1 < len(s) && s[i+1] == '(' {
				stack = append(stack, parenFrame{subcall: true, bodyStart: i + 2})
				subcallDepth++
				i++ // consume the '('
				continue
			}
			if name, ok := scanVarName(s, i+1); ok {
				val := vars.Get(name)
				return s[:i] + val + s[i+1+len(name):], nil, true
			}
			continue
		}

		if c == '@' && i+1 < len(s) && s[i+1] == '(' {
			stack = append(stack, parenFrame{subcall: true, bodyStart: i + 2})
			subcallDepth++
			i++
			continue
		}

		if c == '(' {
			stack = append(stack, parenFrame{subcall: false})
			continue
		}

		if c == ')' {
			if len(stack) == 0 {
				continue
			}
			frame := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !frame.subcall {
				continue
			}
			subcallDepth--
			inner := s[frame.bodyStart:i]
			replacement, pipeDiag := evalSubcall(inner, vars)
			return s[:frame.bodyStart-2] + replacement + s[i+1:], pipeDiag, true
		}
	}

	return s, nil, false
}

// scanVarName consumes a maximal run of variable-name characters
// starting at index from, returning ok=false if the run is empty.
func scanVarName(s string, from int) (string, bool) {
	end := from
	for end < len(s) && isVarNameChar(rune(s[end])) {
		end++
	}
	if end == from {
		return "", false
	}
	return s[from:end], true
}

// evalSubcall implements spec section 4.4.2 step 3: if inner begins
// (after leading horizontal whitespace) with a bare @name, that head
// variable is expanded exactly once before the pipeline evaluator runs,
// so a variable reference may supply a subcall's initial state.
func evalSubcall(inner string, vars *Vars) (string, *Error) {
	ws := 0
	for ws < len(inner) && (inner[ws] == ' ' || inner[ws] == '\t') {
		ws++
	}
	if ws < len(inner) && inner[ws] == '@' {
		if name, ok := scanVarName(inner, ws+1); ok {
			val := vars.Get(name)
			inner = inner[:ws] + val + inner[ws+1+len(name):]
		}
	}

	result, err := evalPipeline(inner, vars)
	if err != nil {
		return "", err
	}
	return result, nil
}
