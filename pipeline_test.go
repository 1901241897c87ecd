// Copyright 2026 The Haymaker Authors
// SPDX-License-Identifier: Apache-2.0

package haymaker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalPipelineBuiltins(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "count", text: "a b c | count", expected: "3"},
		{name: "sort", text: "banana apple cherry | sort", expected: "apple banana cherry"},
		{name: "sort idempotent", text: "banana apple cherry | sort | sort", expected: "apple banana cherry"},
		{name: "first", text: "one two three | first", expected: "one"},
		{name: "last", text: "one two three | last", expected: "three"},
		{name: "drop default", text: "one two three | drop", expected: "two three"},
		{name: "drop n", text: "one two three | drop 2", expected: "three"},
		{name: "pop default", text: "one two three | pop", expected: "one two"},
		{name: "between", text: "one two three four | between 2 3", expected: "two three"},
		{name: "index positive", text: "one two three | index 2", expected: "two"},
		{name: "index negative", text: "one two three | index -1", expected: "three"},
		{name: "index out of range skipped", text: "one two three | index 0 5 -9", expected: ""},
		{name: "include", text: "a b c d | include b d", expected: "b d"},
		{name: "exclude", text: "a b c d | exclude b d", expected: "a c"},
		{name: "has present", text: "a b c | has b", expected: "a b c"},
		{name: "has absent", text: "a b c | has z", expected: ""},
		{name: "append", text: "a b | append .o", expected: "a.o b.o"},
		{name: "prepend", text: "a b | prepend lib", expected: "liba libb"},
		{name: "concat", text: "a b c | concat", expected: "abc"},
		{name: "split", text: "a,b,,c | split ,", expected: "a b c"},
		{name: "stop ends pipeline early", text: "a b | stop | count", expected: "a b"},
		{name: "quote then unquote round-trips", text: "alpha beta | quote | unquote", expected: "alpha beta"},
		{name: "pipe inside single quotes is literal", text: "cat '|' wc -c | count", expected: "4"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := evalPipeline(tc.text, NewVars())
			require.Nil(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestEvalPipelineDefBindsIntoScope(t *testing.T) {
	v := NewVars()
	got, err := evalPipeline("a b c | count | def n", v)
	require.Nil(t, err)
	assert.Equal(t, "3", got)
	assert.Equal(t, "3", v.Get("n"))
}

func TestEvalPipelineUnknownCommandErrors(t *testing.T) {
	_, err := evalPipeline("a b | nonsense", NewVars())
	require.NotNil(t, err)
	assert.Equal(t, KindPipelineError, err.Kind)
}

func TestEvalPipelineEmptyStageErrors(t *testing.T) {
	_, err := evalPipeline("a b ||  count", NewVars())
	require.NotNil(t, err)
	assert.Equal(t, KindPipelineError, err.Kind)
}

func TestTokenizeQuoteAsymmetry(t *testing.T) {
	toks := tokenize(`'single' "double"`)
	require.Len(t, toks, 2)
	assert.Equal(t, "single", toks[0].text)
	assert.True(t, toks[0].single)
	assert.Equal(t, `"double"`, toks[1].text)
	assert.False(t, toks[1].single)
}
