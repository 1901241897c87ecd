// Copyright 2026 The Haymaker Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rfranks/haymaker"
	"github.com/rfranks/haymaker/config"
	"github.com/spf13/cobra"
)

var (
	flagFile    string
	flagJobs    int
	flagVerbose bool
	flagDryRun  bool
	flagGraph   bool
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "haymaker: %s\n", err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:   "haymaker [flags] [target...] [name=value...]",
		Short: "A parallel build system driven by macro-expanded recipes",
		Long: `Haymaker reads a hayfile describing rules (outputs, their dependency
groups, and the shell commands that produce them), builds the
dependency graph those rules imply, and runs every recipe needed to
build the requested targets with bounded parallelism.

Arguments of the form name=value bind a variable before the hayfile is
parsed, overriding any assignment the hayfile itself makes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg, args)
		},
	}

	root.Flags().StringVarP(&flagFile, "file", "f", "", "hayfile to read (default: search "+strings.Join(config.Candidates(cfg.Hayfile), ", ")+")")
	root.Flags().IntVarP(&flagJobs, "jobs", "j", 0, "number of recipes to run in parallel (default: from config / NumCPU)")
	root.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "trace every macro expansion, not just debug-flagged commands")
	root.Flags().BoolVarP(&flagDryRun, "dry-run", "n", false, "print recipe commands without running them")
	root.Flags().BoolVar(&flagGraph, "graph", false, "print the dependency graph as Graphviz DOT and exit")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "haymaker: %s\n", err)
		os.Exit(1)
	}
}

// run resolves the hayfile, parses it, builds the dependency graph, and
// either prints it (--graph) or hands it to a Scheduler.
func run(cfg *config.Config, args []string) error {
	vars := haymaker.NewVars()
	var targets []string
	var overrides [][2]string
	for _, arg := range args {
		if name, value, ok := strings.Cut(arg, "="); ok && haymaker.IsVarName(name) {
			vars.Set(name, value)
			overrides = append(overrides, [2]string{name, value})
			continue
		}
		targets = append(targets, arg)
	}

	path, err := resolveHayfile(cfg)
	if err != nil {
		return err
	}

	file, err := haymaker.Parse(path, vars)
	if err != nil {
		return err
	}
	for _, o := range overrides {
		vars.Set(o[0], o[1])
	}

	graph, err := haymaker.BuildGraph(file)
	if err != nil {
		return err
	}

	if flagGraph {
		return writeDOT(os.Stdout, graph, targets)
	}

	jobs := flagJobs
	if jobs <= 0 {
		jobs = cfg.Jobs
	}

	sink := haymaker.NewConsoleSink()
	if !cfg.Color {
		sink.Color = false
	}

	sched := &haymaker.Scheduler{
		Graph:   graph,
		Vars:    vars,
		Sink:    sink,
		Jobs:    jobs,
		DryRun:  flagDryRun,
		Verbose: flagVerbose,
	}
	return sched.Run(targets)
}

// resolveHayfile honors -f/--file when given, otherwise searches the
// configured candidate names in order.
func resolveHayfile(cfg *config.Config) (string, error) {
	if flagFile != "" {
		return flagFile, nil
	}
	for _, name := range config.Candidates(cfg.Hayfile) {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no hayfile found (tried %s)", strings.Join(config.Candidates(cfg.Hayfile), ", "))
}

// writeDOT renders a Graphviz DOT description of graph's rules, scoped
// to the transitive dependency closure of targets when any are given.
func writeDOT(w *os.File, graph *haymaker.Graph, targets []string) error {
	rules := graph.Rules()
	if len(targets) > 0 {
		selected, err := haymaker.SelectClosure(graph, targets)
		if err != nil {
			return err
		}
		rules = selected
	}

	fmt.Fprintln(w, "digraph haymaker {")
	for _, r := range rules {
		name := strings.Join(r.Outputs, ",")
		fmt.Fprintf(w, "  %q;\n", name)
		for _, dep := range graph.Dependencies(r) {
			fmt.Fprintf(w, "  %q -> %q;\n", name, strings.Join(dep.Outputs, ","))
		}
	}
	fmt.Fprintln(w, "}")
	return nil
}
