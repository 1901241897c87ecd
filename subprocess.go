// Copyright 2026 The Haymaker Authors
// SPDX-License-Identifier: Apache-2.0

package haymaker

import (
	"os/exec"
)

// RunCommand implements the subprocess sink contract of spec section
// 4.7: launch a shell interpreter for one expanded command line,
// streaming its stdout/stderr to the given writers, returning an error
// on non-zero exit. No PTY, no environment scrubbing — the child
// inherits the parent's environment.
//
// Grounded on the teacher's exec.go executeRecipe (sh -c invocation,
// os/exec.Command) and util.go's runShellCapture.
func RunCommand(line string, sink Sink) error {
	cmd := exec.Command("sh", "-c", line)
	cmd.Stdout = sink.Stdout()
	cmd.Stderr = sink.Stderr()
	return cmd.Run()
}
