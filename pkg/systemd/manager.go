package systemd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/opsforge/nodemedic/pkg/cmdrun"
	"github.com/opsforge/nodemedic/pkg/log"
)

// Manager drives systemctl and journalctl for a single unit
type Manager struct {
	runner cmdrun.Runner
	logger zerolog.Logger
}

// NewManager creates a service manager backed by the given runner
func NewManager(runner cmdrun.Runner) *Manager {
	return &Manager{
		runner: runner,
		logger: log.WithComponent("systemd"),
	}
}

// DaemonReload reloads unit definitions after a unit file change
func (m *Manager) DaemonReload(ctx context.Context) error {
	result, err := m.runner.Run(ctx, "systemctl", "daemon-reload")
	if err != nil {
		return fmt.Errorf("daemon-reload failed: %w", err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("daemon-reload exited %d: %s", result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Stop stops the unit. A non-zero exit is returned as an error so the
// caller can decide to ignore it; a unit that is already stopped is the
// common case.
func (m *Manager) Stop(ctx context.Context, unit string) error {
	result, err := m.runner.Run(ctx, "systemctl", "stop", unit)
	if err != nil {
		return fmt.Errorf("stop %s failed: %w", unit, err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("stop %s exited %d: %s", unit, result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Start starts the unit
func (m *Manager) Start(ctx context.Context, unit string) error {
	result, err := m.runner.Run(ctx, "systemctl", "start", unit)
	if err != nil {
		return fmt.Errorf("start %s failed: %w", unit, err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("start %s exited %d: %s", unit, result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	return nil
}

// IsActive reports whether the unit is in the active state. The returned
// string is systemctl's state word (active, inactive, failed, ...).
func (m *Manager) IsActive(ctx context.Context, unit string) (bool, string, error) {
	result, err := m.runner.Run(ctx, "systemctl", "is-active", unit)
	if err != nil {
		return false, "", fmt.Errorf("is-active %s failed: %w", unit, err)
	}

	state := result.Output()
	if state == "" {
		state = "unknown"
	}

	m.logger.Debug().Str("unit", unit).Str("state", state).Msg("queried unit state")
	return result.ExitCode == 0 && state == "active", state, nil
}

// JournalTail returns the last n journal lines for the unit
func (m *Manager) JournalTail(ctx context.Context, unit string, n int) (string, error) {
	result, err := m.runner.Run(ctx, "journalctl",
		"-u", unit,
		"-n", strconv.Itoa(n),
		"--no-pager",
	)
	if err != nil {
		return "", fmt.Errorf("journalctl for %s failed: %w", unit, err)
	}
	if result.ExitCode != 0 {
		return "", fmt.Errorf("journalctl for %s exited %d: %s", unit, result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	return result.Stdout, nil
}
