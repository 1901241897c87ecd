// Copyright 2026 The Haymaker Authors
// SPDX-License-Identifier: Apache-2.0

package haymaker

import "strings"

// StripComments consumes raw hayfile text and returns a line sequence
// with block comments (`/* ... */`, nestable) replaced by blank, so that
// later diagnostics can point at the original columns, and with a line
// comment (`#`, `//`) outside a block cutting off the rest of its line.
// blank is the glyph substituted for each character inside a
// block comment (the empty string drops them instead, shortening the
// line; "-" or similar preserves column alignment).
//
// Quoted strings are not honored by this pass: comment markers win over
// quoting, matching the intent of hayfile syntax.
//
// Grounded on _examples/original_source/src/comments.rs (uncomment).
func StripComments(text, blank string) []string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	depth := 0

	for _, source := range lines {
		var b strings.Builder
		runes := []rune(source)
		ignoreScopeChanges := false

		for i := 0; i < len(runes); i++ {
			c := runes[i]
			var n rune
			if i+1 < len(runes) {
				n = runes[i+1]
			} else {
				n = ' '
			}

			if !ignoreScopeChanges {
				if c == '/' && n == '*' {
					depth++
					b.WriteString(blank)
					b.WriteString(blank)
					i++ // consume the '*' too
					continue
				}
				if c == '*' && n == '/' && depth != 0 {
					depth--
					b.WriteString(blank)
					b.WriteString(blank)
					i++ // consume the '/' too
					continue
				}
			}

			if c == '#' || (c == '/' && n == '/') {
				if depth == 0 {
					break
				}
				// Inside a block comment, line-comment markers don't close it.
				ignoreScopeChanges = true
			}

			if depth == 0 {
				b.WriteRune(c)
			} else {
				b.WriteString(blank)
			}
		}

		out = append(out, b.String())
	}

	return out
}

// CommentBalanced reports whether every opened block comment in text was
// closed by EOF. A false result corresponds to the soft CommentUnbalanced
// diagnostic (spec section 7): implementations may warn but need not
// abort.
func CommentBalanced(text string) bool {
	depth := 0
	runes := []rune(text)
	ignoreScopeChanges := false
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		var n rune
		if i+1 < len(runes) {
			n = runes[i+1]
		}
		if c == '\n' {
			ignoreScopeChanges = false
			continue
		}
		if !ignoreScopeChanges {
			if c == '/' && n == '*' {
				depth++
				i++
				continue
			}
			if c == '*' && n == '/' && depth != 0 {
				depth--
				i++
				continue
			}
		}
		if c == '#' || (c == '/' && n == '/') {
			if depth == 0 {
				// truncate to end of line: skip ahead
				for i < len(runes) && runes[i] != '\n' {
					i++
				}
				continue
			}
			ignoreScopeChanges = true
		}
	}
	return depth == 0
}
