package cmdrun

import (
	"context"
	"testing"
	"time"
)

func TestLocalRun_Success(t *testing.T) {
	runner := NewLocal()

	result, err := runner.Run(context.Background(), "echo", "hello")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", result.ExitCode)
	}

	if result.Output() != "hello" {
		t.Errorf("Output() = %q, want %q", result.Output(), "hello")
	}
}

func TestLocalRun_NonZeroExit(t *testing.T) {
	runner := NewLocal()

	// false exits 1; that must surface as data, not an error
	result, err := runner.Run(context.Background(), "false")
	if err != nil {
		t.Fatalf("Run() error = %v, want nil for non-zero exit", err)
	}

	if result.ExitCode == 0 {
		t.Error("ExitCode = 0, want non-zero")
	}
}

func TestLocalRun_MissingBinary(t *testing.T) {
	runner := NewLocal()

	_, err := runner.Run(context.Background(), "nodemedic-no-such-binary-xyz")
	if err == nil {
		t.Fatal("Run() error = nil, want error for missing binary")
	}
}

func TestLocalRun_Timeout(t *testing.T) {
	runner := NewLocal().WithTimeout(100 * time.Millisecond)

	start := time.Now()
	_, _ = runner.Run(context.Background(), "sleep", "5")
	elapsed := time.Since(start)

	if elapsed > 2*time.Second {
		t.Errorf("Run() took %v, timeout not enforced", elapsed)
	}
}

func TestCommandString(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		args []string
		want string
	}{
		{name: "no args", cmd: "systemctl", args: nil, want: "systemctl"},
		{name: "with args", cmd: "systemctl", args: []string{"is-active", "k3s-agent"}, want: "systemctl is-active k3s-agent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := commandString(tt.cmd, tt.args)
			if got != tt.want {
				t.Errorf("commandString() = %q, want %q", got, tt.want)
			}
		})
	}
}
