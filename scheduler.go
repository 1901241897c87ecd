// Copyright 2026 The Haymaker Authors
// SPDX-License-Identifier: Apache-2.0

package haymaker

import (
	"strings"
)

// Scheduler drives the ready-set/work-queue execution model of spec
// section 4.6: up to Jobs recipes in flight, dispatched as their
// dependencies complete, with completion events processed one at a
// time so ready-set updates stay sequentially consistent (spec
// section 5).
//
// Grounded on _examples/original_source/src/build.rs's channel +
// ready-set + buffer_unordered shape (translated from futures to
// goroutines/channels) and the teacher's exec.go banner/dry-run
// conventions.
type Scheduler struct {
	Graph   *Graph
	Vars    *Vars
	Sink    Sink
	Jobs    int
	DryRun  bool
	Verbose bool
}

type taskResult struct {
	rule *Rule
	err  error
}

// Run executes every rule needed to build targets (all rules, if
// targets is empty), honoring the DAG partial order and the
// cancellation policy of spec section 5: on first failure, stop
// dispatching new recipes but let already-running ones finish.
func (s *Scheduler) Run(targets []string) error {
	jobs := s.Jobs
	if jobs < 1 {
		jobs = 1
	}

	rules, err := s.selectRules(targets)
	if err != nil {
		return err
	}
	ruleSet := make(map[*Rule]bool, len(rules))
	for _, r := range rules {
		ruleSet[r] = true
	}

	remaining := make(map[*Rule]int, len(rules))
	for _, r := range rules {
		count := 0
		for _, d := range s.Graph.Dependencies(r) {
			if ruleSet[d] {
				count++
			}
		}
		remaining[r] = count
	}

	var queue []*Rule
	dispatched := make(map[*Rule]bool, len(rules))
	for _, r := range rules {
		if remaining[r] == 0 {
			queue = append(queue, r)
			dispatched[r] = true
		}
	}

	done := make(chan taskResult)
	inFlight := 0
	completed := 0
	failed := false
	var firstErr error

	for completed < len(rules) {
		for len(queue) > 0 && inFlight < jobs && !failed {
			r := queue[0]
			queue = queue[1:]
			inFlight++
			go func(r *Rule) {
				done <- taskResult{rule: r, err: s.execute(r)}
			}(r)
		}

		if inFlight == 0 {
			break
		}

		res := <-done
		inFlight--
		completed++

		if res.err != nil {
			failed = true
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		if failed {
			continue
		}

		for _, dependent := range s.Graph.Dependents(res.rule) {
			if !ruleSet[dependent] || dispatched[dependent] {
				continue
			}
			remaining[dependent]--
			if remaining[dependent] == 0 {
				dispatched[dependent] = true
				queue = append(queue, dependent)
			}
		}
	}

	return firstErr
}

// selectRules returns every rule in the graph when targets is empty, or
// the transitive dependency closure of the rules producing targets.
func (s *Scheduler) selectRules(targets []string) ([]*Rule, error) {
	return SelectClosure(s.Graph, targets)
}

// execute runs one recipe to completion: clone the global scope, bind
// recipe-local variables, then run each command strictly in order
// (spec section 4.6).
func (s *Scheduler) execute(r *Rule) error {
	if !r.HasRecipe() {
		return nil
	}

	local := s.Vars.Clone()
	bindRecipeScope(local, r.Inputs(), r.Outputs)

	s.Sink.Banner("haymaker: building %s", strings.Join(r.Outputs, " "))

	for _, cmd := range r.Commands {
		expanded, diags := local.Expand(cmd.Line)
		for _, d := range diags {
			d.Original, d.Expanded = cmd.Line, expanded
			s.Sink.Diagnostic(d)
		}

		if cmd.Debug || s.Verbose {
			s.Sink.Trace("%s -> %s", cmd.Line, expanded)
		}
		if !cmd.Silence {
			s.Sink.Banner("  %s", expanded)
		}

		if s.DryRun {
			continue
		}

		if err := RunCommand(expanded, s.Sink); err != nil {
			if cmd.Neglect {
				ferr := wrapErr(KindRecipeFailure, err,
					"command failed (neglected): %s", expanded)
				ferr.Original, ferr.Expanded = cmd.Line, expanded
				s.Sink.Diagnostic(ferr)
				continue
			}
			ferr := wrapErr(KindRecipeFailure, err, "recipe for %s failed: %s",
				strings.Join(r.Outputs, " "), expanded)
			ferr.Original, ferr.Expanded = cmd.Line, expanded
			return ferr
		}
	}

	return nil
}
