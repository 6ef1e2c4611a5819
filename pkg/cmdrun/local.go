package cmdrun

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/opsforge/nodemedic/pkg/log"
)

// DefaultTimeout bounds a single command invocation
const DefaultTimeout = 60 * time.Second

// Local runs commands on the host via os/exec
type Local struct {
	// Timeout is the per-command execution timeout (default: 60 seconds)
	Timeout time.Duration

	logger zerolog.Logger
}

// NewLocal creates a new local runner
func NewLocal() *Local {
	return &Local{
		Timeout: DefaultTimeout,
		logger:  log.WithComponent("cmdrun"),
	}
}

// WithTimeout sets the per-command timeout
func (l *Local) WithTimeout(timeout time.Duration) *Local {
	l.Timeout = timeout
	return l
}

// Run executes the command, capturing stdout and stderr
func (l *Local) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmdStr := commandString(name, args)
	l.logger.Debug().Str("cmd", cmdStr).Msg("executing command")

	execCtx, cancel := context.WithTimeout(ctx, l.Timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			l.logger.Debug().
				Str("cmd", cmdStr).
				Int("exit_code", result.ExitCode).
				Msg("command exited non-zero")
			return result, nil
		}

		result.ExitCode = -1
		l.logger.Debug().
			Str("cmd", cmdStr).
			Err(err).
			Msg("command execution error")
		return result, fmt.Errorf("failed to run %s: %w", cmdStr, err)
	}

	l.logger.Debug().Str("cmd", cmdStr).Msg("command succeeded")
	return result, nil
}

func commandString(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
