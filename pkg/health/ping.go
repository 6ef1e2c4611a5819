package health

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/opsforge/nodemedic/pkg/cmdrun"
)

// PingChecker probes a host with ICMP echo requests via the system ping
// utility. ping exits zero when at least one reply arrived, which is the
// reachability bar for remediation.
type PingChecker struct {
	// Address is the host to probe
	Address string

	// Count is the number of echo requests to send (default: 3)
	Count int

	// ReplyWait is the per-probe reply timeout in seconds (default: 2)
	ReplyWait int

	runner cmdrun.Runner
}

// NewPingChecker creates a new ICMP reachability checker
func NewPingChecker(address string, runner cmdrun.Runner) *PingChecker {
	return &PingChecker{
		Address:   address,
		Count:     3,
		ReplyWait: 2,
		runner:    runner,
	}
}

// WithCount sets the number of echo requests
func (p *PingChecker) WithCount(count int) *PingChecker {
	if count > 0 {
		p.Count = count
	}
	return p
}

// Check performs the ICMP reachability check
func (p *PingChecker) Check(ctx context.Context) Result {
	start := time.Now()

	result, err := p.runner.Run(ctx, "ping",
		"-c", strconv.Itoa(p.Count),
		"-W", strconv.Itoa(p.ReplyWait),
		p.Address,
	)
	if err != nil {
		return Result{
			Healthy:   false,
			Message:   fmt.Sprintf("ping could not run: %v", err),
			CheckedAt: start,
			Duration:  time.Since(start),
		}
	}

	if result.ExitCode != 0 {
		msg := fmt.Sprintf("no echo reply from %s (%d probes)", p.Address, p.Count)
		if s := strings.TrimSpace(result.Stderr); s != "" {
			msg = fmt.Sprintf("%s: %s", msg, s)
		}
		return Result{
			Healthy:   false,
			Message:   msg,
			CheckedAt: start,
			Duration:  time.Since(start),
		}
	}

	return Result{
		Healthy:   true,
		Message:   fmt.Sprintf("%s reachable via ICMP", p.Address),
		CheckedAt: start,
		Duration:  time.Since(start),
	}
}

// Type returns the check type
func (p *PingChecker) Type() CheckType {
	return CheckTypePing
}
