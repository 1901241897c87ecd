// Copyright 2026 The Haymaker Authors
// SPDX-License-Identifier: Apache-2.0

package haymaker

import (
	"os/exec"
	"sort"
	"strconv"
	"strings"
)

// token is one whitespace-delimited unit produced by tokenize. A token
// that started and ended with a single quote has that quoting stripped
// (single is set); a token that started and ended with a double quote
// keeps its literal quote characters (matching the spec's intentional
// quote/unquote asymmetry, see spec section 9 "Quoting asymmetry" and
// _examples/original_source/src/derive.rs's subcall, which only strips
// single-quoted runs during tokenization).
type token struct {
	text   string
	single bool
}

// tokenize splits s into whitespace-delimited tokens, honoring '...' and
// "..." as units that may contain embedded whitespace. Grounded on the
// original's args_regex: `'[^']*'|"[^"]*"|\S+`.
func tokenize(s string) []token {
	var out []token
	i, n := 0, len(s)
	for i < n {
		for i < n && isSpace(s[i]) {
			i++
		}
		if i >= n {
			break
		}
		switch s[i] {
		case '\'':
			if end := strings.IndexByte(s[i+1:], '\''); end >= 0 {
				out = append(out, token{text: s[i+1 : i+1+end], single: true})
				i = i + 1 + end + 1
				continue
			}
		case '"':
			if end := strings.IndexByte(s[i+1:], '"'); end >= 0 {
				out = append(out, token{text: s[i : i+1+end+1]})
				i = i + 1 + end + 1
				continue
			}
		}
		j := i
		for j < n && !isSpace(s[j]) {
			j++
		}
		out = append(out, token{text: s[i:j]})
		i = j
	}
	return out
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' }

func tokenTexts(toks []token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.text
	}
	return out
}

// splitOutsideQuotes splits s on sep, skipping any sep that occurs inside
// a '...' single-quoted span. Unlike
// _examples/original_source/src/text.rs's split_when_balanced, empty
// segments are preserved (a leading/trailing/doubled separator yields an
// empty segment), because the pipeline's first segment may legitimately
// be the empty initial state.
func splitOutsideQuotes(s string, sep byte) []string {
	var out []string
	quoted := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			quoted = !quoted
		case sep:
			if !quoted {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}

// evalPipeline evaluates the body of an @(...) subcall: a '|'-separated
// sequence of stages operating on a single string state. Grounded on
// _examples/original_source/src/derive.rs's subcall and spec section
// 4.4.3's builtin catalog.
func evalPipeline(text string, vars *Vars) (string, *Error) {
	segments := splitOutsideQuotes(text, '|')
	state := strings.TrimSpace(segments[0])

	for _, raw := range segments[1:] {
		stage := strings.TrimSpace(raw)
		if stage == "" {
			return "", newErr(KindPipelineError, nil, "empty pipeline stage")
		}

		name, rest := splitFirstToken(stage)
		args := tokenize(rest)
		inputs := tokenize(state)

		newState, stop, err := applyStage(name, args, inputs, state, vars)
		if err != nil {
			return "", err
		}
		state = newState
		if stop {
			break
		}
	}

	return strings.TrimSpace(state), nil
}

// splitFirstToken splits s into its first whitespace-delimited run and
// the (left-trimmed) remainder.
func splitFirstToken(s string) (first, rest string) {
	s = strings.TrimLeft(s, " \t")
	i := 0
	for i < len(s) && !isSpace(s[i]) {
		i++
	}
	return s[:i], strings.TrimLeft(s[i:], " \t")
}

func applyStage(name string, args, inputs []token, state string, vars *Vars) (newState string, stop bool, err *Error) {
	switch name {
	case "noop", "filter", "sift", "replace":
		return strings.Join(tokenTexts(inputs), " "), false, nil

	case "concat":
		return strings.Join(tokenTexts(inputs), ""), false, nil

	case "count":
		return strconv.Itoa(len(inputs)), false, nil

	case "include":
		wanted := tokenTexts(args)
		var kept []string
		for _, in := range inputs {
			if containsStr(wanted, in.text) {
				kept = append(kept, in.text)
			}
		}
		return strings.Join(kept, " "), false, nil

	case "exclude":
		unwanted := tokenTexts(args)
		var kept []string
		for _, in := range inputs {
			if !containsStr(unwanted, in.text) {
				kept = append(kept, in.text)
			}
		}
		return strings.Join(kept, " "), false, nil

	case "quote":
		out := make([]string, len(inputs))
		for i, in := range inputs {
			out[i] = "'" + in.text + "'"
		}
		return strings.Join(out, " "), false, nil

	case "unquote":
		out := make([]string, len(inputs))
		for i, in := range inputs {
			out[i] = stripDoubleQuotes(in.text)
		}
		return strings.Join(out, " "), false, nil

	case "add":
		out := tokenTexts(inputs)
		out = append(out, tokenTexts(args)...)
		return strings.Join(out, " "), false, nil

	case "sort":
		out := tokenTexts(inputs)
		sort.Strings(out)
		return strings.Join(out, " "), false, nil

	case "first":
		if len(inputs) == 0 {
			return "", false, newErr(KindPipelineError, nil, "no first input")
		}
		return inputs[0].text, false, nil

	case "last":
		if len(inputs) == 0 {
			return "", false, newErr(KindPipelineError, nil, "no last input")
		}
		return inputs[len(inputs)-1].text, false, nil

	case "drop":
		n := 1
		if len(args) > 0 {
			v, ok := parseIntArg(args[0].text)
			if !ok {
				return "", false, newErr(KindPipelineError, nil, "drop: invalid count %q", args[0].text)
			}
			n = v
		}
		if n < 0 {
			n = 0
		}
		if n > len(inputs) {
			n = len(inputs)
		}
		return strings.Join(tokenTexts(inputs[n:]), " "), false, nil

	case "pop":
		n := 1
		if len(args) > 0 {
			v, ok := parseIntArg(args[0].text)
			if !ok {
				return "", false, newErr(KindPipelineError, nil, "pop: invalid count %q", args[0].text)
			}
			n = v
		}
		if n < 0 {
			n = 0
		}
		if n > len(inputs) {
			n = len(inputs)
		}
		return strings.Join(tokenTexts(inputs[:len(inputs)-n]), " "), false, nil

	case "append":
		var out []string
		for _, in := range inputs {
			for _, a := range args {
				out = append(out, in.text+a.text)
			}
		}
		return strings.Join(out, " "), false, nil

	case "prepend":
		var out []string
		for _, in := range inputs {
			for _, a := range args {
				out = append(out, a.text+in.text)
			}
		}
		return strings.Join(out, " "), false, nil

	case "between":
		a, b := 1, len(inputs)
		if len(args) > 0 {
			v, ok := parseIntArg(args[0].text)
			if !ok {
				return "", false, newErr(KindPipelineError, nil, "between: invalid bound %q", args[0].text)
			}
			a = v
		}
		if len(args) > 1 {
			v, ok := parseIntArg(args[1].text)
			if !ok {
				return "", false, newErr(KindPipelineError, nil, "between: invalid bound %q", args[1].text)
			}
			b = v
		}
		if a < 1 {
			a = 1
		}
		if b > len(inputs) {
			b = len(inputs)
		}
		if a > b {
			return "", false, nil
		}
		return strings.Join(tokenTexts(inputs[a-1:b]), " "), false, nil

	case "index":
		n := len(inputs)
		var out []string
		for _, a := range args {
			k, ok := parseIntArg(a.text)
			if !ok {
				return "", false, newErr(KindPipelineError, nil, "index: invalid index %q", a.text)
			}
			var pos int // 1-based
			switch {
			case k > 0:
				pos = k
			case k < 0:
				pos = n + k + 1
			default:
				pos = 0 // out of range sentinel
			}
			if pos < 1 || pos > n {
				continue
			}
			out = append(out, inputs[pos-1].text)
		}
		return strings.Join(out, " "), false, nil

	case "has":
		wanted := tokenTexts(args)
		for _, in := range inputs {
			if containsStr(wanted, in.text) {
				return state, false, nil
			}
		}
		return "", false, nil

	case "split":
		cur := tokenTexts(inputs)
		for _, a := range args {
			var next []string
			for _, tok := range cur {
				for _, piece := range strings.Split(tok, a.text) {
					if piece != "" {
						next = append(next, piece)
					}
				}
			}
			cur = next
		}
		return strings.Join(cur, " "), false, nil

	case "shell":
		cmdline := strings.Join(tokenTexts(args), " ")
		out, runErr := runShellPipe(cmdline, state)
		if runErr != nil {
			return "", false, wrapErr(KindPipelineError, runErr, "shell %q failed", cmdline)
		}
		return out, false, nil

	case "def":
		for _, a := range args {
			vars.Set(a.text, state)
		}
		return state, false, nil

	case "stop":
		return state, true, nil

	case "error":
		return "", false, newErr(KindPipelineError, nil, "called error")

	case "debug_dash":
		out := make([]string, len(inputs))
		for i, in := range inputs {
			out[i] = strings.Repeat("-", len([]rune(in.text)))
		}
		return strings.Join(out, " "), false, nil

	default:
		return "", false, newErr(KindPipelineError, nil, "unknown pipeline command %q", name)
	}
}

func containsStr(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func stripDoubleQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func parseIntArg(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// runShellPipe runs "sh -c cmdline" with stdin set to stdinPayload and
// returns trimmed stdout. A non-zero exit is reported as an error.
func runShellPipe(cmdline, stdinPayload string) (string, error) {
	cmd := exec.Command("sh", "-c", cmdline)
	cmd.Stdin = strings.NewReader(stdinPayload)
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(out), "\n"), nil
}
