// Copyright 2026 The Haymaker Authors
// SPDX-License-Identifier: Apache-2.0

package haymaker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHayfile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestParseChainedAssignment(t *testing.T) {
	dir := t.TempDir()
	path := writeHayfile(t, dir, "hayfile", "cc = cxx = gcc\n")

	vars := NewVars()
	_, err := Parse(path, vars)
	require.NoError(t, err)
	assert.Equal(t, "gcc", vars.Get("cc"))
	assert.Equal(t, "gcc", vars.Get("cxx"))
}

func TestParseRuleWithDependencyGroupsAndRecipe(t *testing.T) {
	dir := t.TempDir()
	path := writeHayfile(t, dir, "hayfile", "app.o : a.c b.c | lib.h\n\tgcc -c a.c b.c\n")

	vars := NewVars()
	file, err := Parse(path, vars)
	require.NoError(t, err)
	require.Len(t, file.Stmts, 1)

	r := file.Stmts[0].(*Rule)
	assert.Equal(t, []string{"app.o"}, r.Outputs)
	require.Len(t, r.Steps, 2)
	assert.Equal(t, []string{"a.c", "b.c"}, r.Steps[0].Tokens)
	assert.Equal(t, []string{"lib.h"}, r.Steps[1].Tokens)
	require.Len(t, r.Commands, 1)
	assert.Equal(t, "gcc -c a.c b.c", r.Commands[0].Line)
}

func TestParseCommandFlagCluster(t *testing.T) {
	dir := t.TempDir()
	path := writeHayfile(t, dir, "hayfile", "out :\n\t+-^echo hi\n")

	file, err := Parse(path, NewVars())
	require.NoError(t, err)
	r := file.Stmts[0].(*Rule)
	require.Len(t, r.Commands, 1)
	cmd := r.Commands[0]
	assert.True(t, cmd.Debug)
	assert.True(t, cmd.Silence)
	assert.True(t, cmd.Neglect)
	assert.Equal(t, "echo hi", cmd.Line)
}

func TestParseCommandBeforeAnyRuleIsStrayShell(t *testing.T) {
	dir := t.TempDir()
	path := writeHayfile(t, dir, "hayfile", "\techo oops\n")

	_, err := Parse(path, NewVars())
	require.Error(t, err)
	assert.Equal(t, KindStrayShell, err.(*Error).Kind)
}

func TestParseIncludeSplicesStatements(t *testing.T) {
	dir := t.TempDir()
	writeHayfile(t, dir, "shared.hay", "shared.o : shared.c\n\tgcc -c shared.c\n")
	path := writeHayfile(t, dir, "hayfile", "include shared.hay\napp.o : shared.o\n\tgcc -c shared.o\n")

	file, err := Parse(path, NewVars())
	require.NoError(t, err)
	require.Len(t, file.Stmts, 2)
	assert.Equal(t, []string{"shared.o"}, file.Stmts[0].(*Rule).Outputs)
	assert.Equal(t, []string{"app.o"}, file.Stmts[1].(*Rule).Outputs)
}

func TestParseIncludeMissingFileErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeHayfile(t, dir, "hayfile", "include nope.hay\n")

	_, err := Parse(path, NewVars())
	require.Error(t, err)
	assert.Equal(t, KindIncludeMissing, err.(*Error).Kind)
}

func TestParseDuplicateOutputDetectedAtGraphBuild(t *testing.T) {
	dir := t.TempDir()
	path := writeHayfile(t, dir, "hayfile", "a : \n\ttrue\na : \n\ttrue\n")

	file, err := Parse(path, NewVars())
	require.NoError(t, err)
	_, err = BuildGraph(file)
	require.Error(t, err)
	assert.Equal(t, KindParseError, err.(*Error).Kind)
}
