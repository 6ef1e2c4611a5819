// Package cmdruntest provides a scriptable Runner for tests.
package cmdruntest

import (
	"context"
	"strings"
	"sync"

	"github.com/opsforge/nodemedic/pkg/cmdrun"
)

// Response is what the fake returns for a matching command
type Response struct {
	Result cmdrun.Result
	Err    error
}

// Fake is a Runner that replays scripted responses and records every
// command it was asked to run.
type Fake struct {
	mu        sync.Mutex
	responses map[string]Response
	calls     []string
}

// NewFake creates an empty fake runner. Unscripted commands succeed with
// exit code 0 and empty output.
func NewFake() *Fake {
	return &Fake{
		responses: make(map[string]Response),
	}
}

// On scripts the response for a command line. The key is the command and
// its arguments joined by spaces, e.g. "systemctl is-active k3s-agent".
func (f *Fake) On(cmdline string, resp Response) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = resp
	return f
}

// OnExit scripts a bare exit code for a command line
func (f *Fake) OnExit(cmdline string, exitCode int) *Fake {
	return f.On(cmdline, Response{Result: cmdrun.Result{ExitCode: exitCode}})
}

// OnStdout scripts a successful command with the given stdout
func (f *Fake) OnStdout(cmdline, stdout string) *Fake {
	return f.On(cmdline, Response{Result: cmdrun.Result{Stdout: stdout}})
}

// Run implements cmdrun.Runner
func (f *Fake) Run(ctx context.Context, name string, args ...string) (cmdrun.Result, error) {
	cmdline := name
	if len(args) > 0 {
		cmdline += " " + strings.Join(args, " ")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cmdline)

	if resp, ok := f.responses[cmdline]; ok {
		return resp.Result, resp.Err
	}
	return cmdrun.Result{}, nil
}

// Calls returns every command line run so far, in order
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// CalledMatching reports whether any recorded command contains substr
func (f *Fake) CalledMatching(substr string) bool {
	for _, c := range f.Calls() {
		if strings.Contains(c, substr) {
			return true
		}
	}
	return false
}
