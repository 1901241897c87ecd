// Copyright 2026 The Haymaker Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads ambient Haymaker settings that a user may want to
// set once per machine or repository rather than type on every
// invocation: which hayfile name to look for, the default parallelism,
// and whether diagnostics should be colorized.
//
// Grounded on _examples/rshelekhov-lazymake/config/config.go's
// viper-defaults-then-read shape, extended with a search path and an
// env-var prefix. The hayfile name and job count also have CLI flags
// that win over the file; color has no flag. Color false turns color
// off; true leaves it to terminal detection.
package config

import (
	"runtime"

	"github.com/spf13/viper"
)

// Config holds the resolved ambient settings, before any CLI flag
// override is applied.
type Config struct {
	Hayfile string
	Jobs    int
	Color   bool
}

// Load reads ".haymaker" (searched in the current directory and $HOME,
// in either YAML or TOML form) over top of built-in defaults, falling
// back silently to the defaults when no such file exists — an absent
// config file is not an error, only a missing hayfile is.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("hayfile", "hayfile")
	v.SetDefault("jobs", runtime.NumCPU())
	v.SetDefault("color", true)

	v.SetConfigName(".haymaker")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")

	v.SetEnvPrefix("haymaker")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	return &Config{
		Hayfile: v.GetString("hayfile"),
		Jobs:    v.GetInt("jobs"),
		Color:   v.GetBool("color"),
	}, nil
}

// Candidates returns the hayfile names Haymaker tries, in order, when
// the user did not pass -f/--file explicitly: the configured name
// first, then the conventional make-alike fallbacks.
func Candidates(configured string) []string {
	seen := map[string]bool{}
	var out []string
	for _, name := range []string{configured, "hayfile", "Hayfile", "makefile", "Makefile"} {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
