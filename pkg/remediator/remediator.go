package remediator

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/opsforge/nodemedic/pkg/cmdrun"
	"github.com/opsforge/nodemedic/pkg/config"
	"github.com/opsforge/nodemedic/pkg/health"
	"github.com/opsforge/nodemedic/pkg/log"
	"github.com/opsforge/nodemedic/pkg/systemd"
	"github.com/opsforge/nodemedic/pkg/token"
	"github.com/opsforge/nodemedic/pkg/types"
)

// summaryLines is the journal tail length shown after a successful run
const summaryLines = 10

// Remediator runs the fixed repair sequence for a NotReady agent node.
// It performs no terminal input and never exits the process; all host
// interaction goes through the injected runner and token fetcher so the
// sequence is testable end to end.
type Remediator struct {
	cfg    *config.Config
	runner cmdrun.Runner
	sysd   *systemd.Manager
	tokens *token.Provisioner
	out    io.Writer
	logger zerolog.Logger
	euid   func() int
	sleep  func(time.Duration)
}

// New creates a remediator for the given config
func New(cfg *config.Config, runner cmdrun.Runner, fetcher token.Fetcher) *Remediator {
	return &Remediator{
		cfg:    cfg,
		runner: runner,
		sysd:   systemd.NewManager(runner),
		tokens: token.NewProvisioner(cfg.TokenFilePath, fetcher),
		out:    os.Stdout,
		logger: log.WithComponent("remediator"),
		euid:   os.Geteuid,
		sleep:  time.Sleep,
	}
}

// WithOutput redirects console narration, useful for tests
func (r *Remediator) WithOutput(out io.Writer) *Remediator {
	r.out = out
	return r
}

// Run executes the remediation sequence. The returned record is always
// populated, also on failure; err is non-nil iff the run did not verify
// the agent active.
func (r *Remediator) Run(ctx context.Context) (*types.RunRecord, error) {
	record := &types.RunRecord{
		ID:           uuid.New().String(),
		ControlPlane: r.cfg.ControlPlaneAddr,
		Service:      r.cfg.ServiceName,
		StartedAt:    time.Now(),
	}
	logger := log.WithRunID(record.ID)

	err := r.sequence(ctx, record)

	record.FinishedAt = time.Now()
	record.Succeeded = err == nil
	if err != nil {
		record.Error = err.Error()
		if failed := record.FailedStep(); failed != nil {
			logger.Error().
				Str("step", failed.Name).
				Str("detail", failed.Detail).
				Msg("remediation failed")
		}
		fmt.Fprintf(r.out, "\n✗ Remediation failed: %v\n", err)
		return record, err
	}

	logger.Info().
		Dur("duration", record.Duration()).
		Msg("remediation succeeded")
	fmt.Fprintf(r.out, "\n✓ Node remediation complete. Service %s is active.\n", r.cfg.ServiceName)
	fmt.Fprintf(r.out, "  Check node status from the control plane with: kubectl get nodes\n")
	return record, nil
}

// sequence runs the ordered steps, appending a StepResult for each one
// executed. The first failure aborts.
func (r *Remediator) sequence(ctx context.Context, record *types.RunRecord) error {
	steps := []struct {
		name string
		fn   func(context.Context) (string, error)
	}{
		{types.StepPrivilegeCheck, r.checkPrivilege},
		{types.StepInputCheck, r.checkInput},
		{types.StepReachability, r.checkReachability},
		{types.StepBinaryPresence, r.checkBinary},
		{types.StepUnitReconcile, r.reconcileUnit},
		{types.StepTokenProvision, r.provisionToken},
		{types.StepServiceRestart, r.restartService},
		{types.StepVerifyActive, r.verifyActive},
		{types.StepLogSummary, r.logSummary},
	}

	for i, step := range steps {
		start := time.Now()
		detail, err := step.fn(ctx)

		result := types.StepResult{
			Name:     step.name,
			Status:   types.StepStatusOK,
			Detail:   detail,
			Duration: time.Since(start),
		}
		if err != nil {
			result.Status = types.StepStatusFailed
			result.Detail = err.Error()
		}
		record.Steps = append(record.Steps, result)
		stepLog := log.WithStep(step.name)
		stepLog.Debug().
			Str("status", string(result.Status)).
			Dur("duration", result.Duration).
			Msg("step finished")

		if err != nil {
			// Record the unreached steps so the run history shows where
			// the sequence aborted.
			for _, rest := range steps[i+1:] {
				record.Steps = append(record.Steps, types.StepResult{
					Name:   rest.name,
					Status: types.StepStatusSkipped,
				})
			}
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}

func (r *Remediator) checkPrivilege(ctx context.Context) (string, error) {
	if r.euid() != 0 {
		return "", fmt.Errorf("must run as root (euid %d)", r.euid())
	}
	return "running as root", nil
}

func (r *Remediator) checkInput(ctx context.Context) (string, error) {
	if strings.TrimSpace(r.cfg.ControlPlaneAddr) == "" {
		return "", fmt.Errorf("control-plane address is empty")
	}
	return "control plane " + r.cfg.ControlPlaneAddr, nil
}

func (r *Remediator) checkReachability(ctx context.Context) (string, error) {
	fmt.Fprintf(r.out, "[1/5] Checking control plane %s...\n", r.cfg.ControlPlaneAddr)

	ping := health.NewPingChecker(r.cfg.ControlPlaneAddr, r.runner).WithCount(r.cfg.PingCount)
	result := ping.Check(ctx)
	if !result.Healthy {
		return "", fmt.Errorf("control plane unreachable: %s", result.Message)
	}
	fmt.Fprintf(r.out, "      ✓ %s\n", result.Message)

	// The API port check is advisory: a host that answers ICMP but not
	// the API may be mid-restart, which is no reason to stop repairing
	// this node.
	apiAddr := fmt.Sprintf("%s:%d", r.cfg.ControlPlaneAddr, r.cfg.APIPort)
	if tcp := health.NewTCPChecker(apiAddr).Check(ctx); !tcp.Healthy {
		r.logger.Warn().Str("addr", apiAddr).Msg("control-plane API port not accepting connections")
		fmt.Fprintf(r.out, "      ! API port %d not reachable (continuing)\n", r.cfg.APIPort)
	}

	return result.Message, nil
}

func (r *Remediator) checkBinary(ctx context.Context) (string, error) {
	info, err := os.Stat(r.cfg.AgentBinaryPath)
	if err != nil {
		return "", fmt.Errorf("agent binary not found at %s: %w", r.cfg.AgentBinaryPath, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("agent binary path %s is a directory", r.cfg.AgentBinaryPath)
	}
	return "agent binary at " + r.cfg.AgentBinaryPath, nil
}

func (r *Remediator) reconcileUnit(ctx context.Context) (string, error) {
	fmt.Fprintf(r.out, "[2/5] Reconciling service definition %s...\n", r.cfg.ServiceFilePath)

	result, err := systemd.Reconcile(r.cfg.ServiceFilePath, r.cfg.AgentBinaryPath)
	if err != nil {
		return "", err
	}

	switch result.Action {
	case systemd.ActionNone:
		fmt.Fprintf(r.out, "      ✓ ExecStart already points at %s\n", r.cfg.AgentBinaryPath)
		return "unit file already correct", nil

	case systemd.ActionCreated:
		fmt.Fprintf(r.out, "      ✓ Created unit file\n")

	case systemd.ActionPatched:
		if result.FoundPath == "" {
			r.logger.Warn().
				Str("unit", r.cfg.ServiceFilePath).
				Msg("existing unit file had no usable ExecStart path, rewrote it")
		} else {
			r.logger.Info().
				Str("old", result.FoundPath).
				Str("new", r.cfg.AgentBinaryPath).
				Msg("patched ExecStart path")
		}
		fmt.Fprintf(r.out, "      ✓ Patched ExecStart (backup: %s)\n", result.BackupPath)
	}

	if err := r.sysd.DaemonReload(ctx); err != nil {
		// The unit file is already fixed; a reload failure will surface
		// again at restart where it is actionable.
		r.logger.Warn().Err(err).Msg("daemon-reload failed")
	}

	return fmt.Sprintf("unit file %s", result.Action), nil
}

func (r *Remediator) provisionToken(ctx context.Context) (string, error) {
	fmt.Fprintf(r.out, "[3/5] Ensuring join token %s...\n", r.cfg.TokenFilePath)

	outcome, err := r.tokens.EnsureToken(ctx, r.cfg.ControlPlaneAddr)
	if err != nil {
		return "", fmt.Errorf("%w\n      Provision the token manually: copy %s from the control plane to %s",
			err, r.cfg.RemoteTokenPath, r.cfg.TokenFilePath)
	}

	fmt.Fprintf(r.out, "      ✓ Join token %s\n", outcome)
	return "token " + string(outcome), nil
}

func (r *Remediator) restartService(ctx context.Context) (string, error) {
	fmt.Fprintf(r.out, "[4/5] Restarting %s...\n", r.cfg.ServiceName)

	if err := r.sysd.Stop(ctx, r.cfg.ServiceName); err != nil {
		// Stopping an already stopped unit fails; that is fine.
		svcLog := log.WithService(r.cfg.ServiceName)
		svcLog.Debug().Err(err).Msg("stop failed, service likely not running")
	}
	r.sleep(time.Duration(r.cfg.StopSettle))

	if err := r.sysd.Start(ctx, r.cfg.ServiceName); err != nil {
		return "", err
	}
	r.sleep(time.Duration(r.cfg.StartSettle))

	fmt.Fprintf(r.out, "      ✓ Service restarted\n")
	return "service restarted", nil
}

func (r *Remediator) verifyActive(ctx context.Context) (string, error) {
	fmt.Fprintf(r.out, "[5/5] Verifying %s is active...\n", r.cfg.ServiceName)

	active, state, err := r.sysd.IsActive(ctx, r.cfg.ServiceName)
	if err != nil {
		return "", err
	}

	if !active {
		tail, tailErr := r.sysd.JournalTail(ctx, r.cfg.ServiceName, r.cfg.JournalLines)
		if tailErr == nil && tail != "" {
			fmt.Fprintf(r.out, "\nRecent logs for %s:\n%s\n", r.cfg.ServiceName, tail)
		}
		return "", fmt.Errorf("service %s is %s after restart", r.cfg.ServiceName, state)
	}

	fmt.Fprintf(r.out, "      ✓ Service is active\n")
	return "service active", nil
}

func (r *Remediator) logSummary(ctx context.Context) (string, error) {
	tail, err := r.sysd.JournalTail(ctx, r.cfg.ServiceName, summaryLines)
	if err != nil {
		// The run already verified; a journal hiccup is not a failure.
		r.logger.Warn().Err(err).Msg("could not read journal for summary")
		return "journal unavailable", nil
	}
	if tail != "" {
		fmt.Fprintf(r.out, "\nRecent logs for %s:\n%s\n", r.cfg.ServiceName, tail)
	}
	return "summary printed", nil
}
