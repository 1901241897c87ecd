// Copyright 2026 The Haymaker Authors
// SPDX-License-Identifier: Apache-2.0

package haymaker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandVariableSubstitution(t *testing.T) {
	testCases := []struct {
		name     string
		vars     map[string]string
		input    string
		expected string
	}{
		{
			name:     "bound variable",
			vars:     map[string]string{"cc": "gcc"},
			input:    "@cc -c",
			expected: "gcc -c",
		},
		{
			name:     "missing variable substitutes empty",
			vars:     nil,
			input:    "[@missing]",
			expected: "[]",
		},
		{
			name:     "multiple occurrences all rewritten",
			vars:     map[string]string{"x": "1"},
			input:    "@x + @x",
			expected: "1 + 1",
		},
		{
			name:     "no expansion leaves text untouched",
			vars:     nil,
			input:    "plain text",
			expected: "plain text",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := NewVars()
			for name, val := range tc.vars {
				v.Set(name, val)
			}
			got, diags := v.Expand(tc.input)
			assert.Empty(t, diags)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestExpandSubcallPipeline(t *testing.T) {
	v := NewVars()
	v.Set("srcs", "a.c b.c c.c")

	got, diags := v.Expand("@(@srcs | count)")
	require.Empty(t, diags)
	assert.Equal(t, "3", got)
}

func TestExpandLeftmostInnermostOrder(t *testing.T) {
	v := NewVars()
	v.Set("a", "x")
	v.Set("b", "y")

	got, diags := v.Expand("@(@a | concat)@(@b | concat)")
	require.Empty(t, diags)
	assert.Equal(t, "xy", got)
}

func TestExpandNestedParensDoNotCloseSubcallEarly(t *testing.T) {
	v := NewVars()

	// Bare "(x)(y)" tokens inside the subcall body must nest as ordinary
	// parentheses, not be mistaken for the end of the @( ... ) span: a
	// naive depth counter that increments only on "@(" but decrements on
	// any ")" would close the subcall at the first bare ")" here. The
	// state "(x)(y)" is a single token, so after "add (z)" there are two.
	got, diags := v.Expand("@( (x)(y) | add (z) | count)")
	require.Empty(t, diags)
	assert.Equal(t, "2", got)
}

func TestExpandRunawayGuard(t *testing.T) {
	v := NewVars()
	v.Set("loop", "@loop")

	_, diags := v.Expand("@loop")
	require.NotEmpty(t, diags)
	assert.Equal(t, KindExpansionRunaway, diags[len(diags)-1].Kind)
}

func TestExpandIsIdempotentOnceConverged(t *testing.T) {
	v := NewVars()
	v.Set("name", "widget")

	first, diags := v.Expand("@name.o")
	require.Empty(t, diags)

	second, diags := v.Expand(first)
	require.Empty(t, diags)
	assert.Equal(t, first, second)
}
