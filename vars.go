// Copyright 2026 The Haymaker Authors
// SPDX-License-Identifier: Apache-2.0

package haymaker

import (
	"strconv"
	"strings"
)

// Vars is an ordered name -> string mapping, per spec section 3. Order is
// not semantically observable (expansion never iterates all variables)
// but stable iteration helps produce deterministic diagnostics and test
// output.
type Vars struct {
	order []string
	vals  map[string]string
}

// NewVars returns an empty variable map.
func NewVars() *Vars {
	return &Vars{vals: make(map[string]string)}
}

// Set stores value under name, appending name to the iteration order if
// it is new.
func (v *Vars) Set(name, value string) {
	if _, ok := v.vals[name]; !ok {
		v.order = append(v.order, name)
	}
	v.vals[name] = value
}

// Get returns the value bound to name, or "" if unbound. Per spec section
// 4.4.4, a missing variable substitutes as empty, never an error.
func (v *Vars) Get(name string) string {
	return v.vals[name]
}

// Has reports whether name is bound.
func (v *Vars) Has(name string) bool {
	_, ok := v.vals[name]
	return ok
}

// Names returns all bound names in insertion order.
func (v *Vars) Names() []string {
	out := make([]string, len(v.order))
	copy(out, v.order)
	return out
}

// Clone returns an independent copy of v. Used to give each recipe
// execution its own mutable scope (spec section 3: "the expansion engine
// borrows a mutable variable map for the scope of one expansion").
func (v *Vars) Clone() *Vars {
	c := &Vars{
		order: make([]string, len(v.order)),
		vals:  make(map[string]string, len(v.vals)),
	}
	copy(c.order, v.order)
	for k, val := range v.vals {
		c.vals[k] = val
	}
	return c
}

// isVarNameChar reports whether r is a legal character in a variable
// name: an ASCII letter or digit, '_' or '-'. Non-ASCII letters and
// digits are not accepted.
func isVarNameChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	default:
		return false
	}
}

// IsVarName reports whether s is a legal Haymaker variable name: the
// same check the parser uses for assignment destinations, exported so
// callers binding name=value overrides on the command line can apply
// it too.
func IsVarName(s string) bool { return isVarName(s) }

// isVarName reports whether s is entirely composed of legal variable-name
// characters and is non-empty. Positional names ("1", "2", ...) and the
// reserved names "out", "out1", "out2", ..., "all" all satisfy this same
// character class, so no separate check is needed for them.
func isVarName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isVarNameChar(r) {
			return false
		}
	}
	return true
}

// bindRecipeScope binds the positional and aggregate variables a recipe
// execution sees, per spec section 4.6: 1, 2, ... for inputs across all
// groups in order; out1, out2, ... for outputs; all and out as the
// space-joined aggregates.
func bindRecipeScope(vars *Vars, inputs, outputs []string) {
	for i, in := range inputs {
		vars.Set(strconv.Itoa(i+1), in)
	}
	for i, out := range outputs {
		vars.Set("out"+strconv.Itoa(i+1), out)
	}
	vars.Set("all", strings.Join(inputs, " "))
	vars.Set("out", strings.Join(outputs, " "))
}
