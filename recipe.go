// Copyright 2026 The Haymaker Authors
// SPDX-License-Identifier: Apache-2.0

package haymaker

// Inputs flattens a rule's dependency groups into the single ordered
// input-token sequence used for both DAG edges and positional variable
// binding (spec section 3: "their concatenation is the recipe's full
// dependency list"; section 4.6: "1, 2, ... to each input token
// (positional inputs across all groups, in order)").
func (r *Rule) Inputs() []string {
	var inputs []string
	for _, step := range r.Steps {
		inputs = append(inputs, step.Tokens...)
	}
	return inputs
}

// HasRecipe reports whether r carries any commands to execute. A rule
// with no commands is a grouping/prerequisite-only declaration.
func (r *Rule) HasRecipe() bool {
	return len(r.Commands) > 0
}
