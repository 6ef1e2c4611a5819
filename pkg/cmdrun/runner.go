package cmdrun

import (
	"context"
	"strings"
)

// Result captures the outcome of an executed command
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Output returns stdout with surrounding whitespace trimmed
func (r Result) Output() string {
	return strings.TrimSpace(r.Stdout)
}

// Runner executes system commands. The remediator only talks to the host
// through a Runner so tests can substitute a fake.
type Runner interface {
	// Run executes the command and waits for it to finish. A non-zero
	// exit code is reported in Result, not as an error; err is non-nil
	// only when the command could not be started or was cancelled.
	Run(ctx context.Context, name string, args ...string) (Result, error)
}
