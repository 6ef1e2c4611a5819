package systemd

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// UnitTemplate is the service definition written when none exists. The
// agent is restarted unconditionally and waits for the network to be
// online, matching how k3s installs its own units.
const UnitTemplate = `[Unit]
Description=Lightweight Kubernetes agent
Documentation=https://k3s.io
Wants=network-online.target
After=network-online.target

[Service]
Type=exec
ExecStart=%s agent
KillMode=process
Delegate=yes
LimitNOFILE=infinity
LimitNPROC=infinity
LimitCORE=infinity
TasksMax=infinity
TimeoutStartSec=0
Restart=always
RestartSec=5s

[Install]
WantedBy=multi-user.target
`

// ReconcileAction describes what Reconcile did to the unit file
type ReconcileAction string

const (
	ActionNone    ReconcileAction = "none"
	ActionPatched ReconcileAction = "patched"
	ActionCreated ReconcileAction = "created"
)

// ReconcileResult reports the outcome of a unit-file reconciliation
type ReconcileResult struct {
	Action ReconcileAction

	// FoundPath is the launch path extracted from an existing unit file,
	// empty when the file was absent or its ExecStart was unparseable
	FoundPath string

	// BackupPath is set when the existing file was backed up before a patch
	BackupPath string
}

// ExecStartPath extracts the launch binary from a unit file's ExecStart
// line. The second return is false when no ExecStart line exists or its
// value is empty. Systemd's exec-prefix characters (-, @, +, !) are
// stripped before the path is read.
func ExecStartPath(content string) (string, bool) {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "ExecStart=") {
			continue
		}

		value := strings.TrimSpace(strings.TrimPrefix(trimmed, "ExecStart="))
		value = strings.TrimLeft(value, "-@+!")
		fields := strings.Fields(value)
		if len(fields) == 0 {
			return "", false
		}
		return fields[0], true
	}
	return "", false
}

// RenderUnit produces a fresh unit file pointing at the given agent binary
func RenderUnit(binaryPath string) string {
	return fmt.Sprintf(UnitTemplate, binaryPath)
}

// patchExecStart rewrites the launch path on the first ExecStart line,
// preserving that line's arguments and every other line byte-for-byte.
// An unparseable ExecStart line is replaced wholesale with a default
// "agent" invocation.
func patchExecStart(content, binaryPath string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "ExecStart=") {
			continue
		}

		value := strings.TrimSpace(strings.TrimPrefix(trimmed, "ExecStart="))
		value = strings.TrimLeft(value, "-@+!")
		fields := strings.Fields(value)
		if len(fields) > 1 {
			lines[i] = "ExecStart=" + binaryPath + " " + strings.Join(fields[1:], " ")
		} else {
			lines[i] = "ExecStart=" + binaryPath + " agent"
		}
		break
	}
	return strings.Join(lines, "\n")
}

// Reconcile ensures the unit file at path launches binaryPath.
//
// An existing file whose ExecStart already points at binaryPath is left
// untouched. Any other existing file (wrong path, or a malformed
// ExecStart, which callers should log) is copied to a timestamped backup
// beside the original and patched in place. A missing file is created
// from the template. Errors are I/O only; content is never a failure.
func Reconcile(path, binaryPath string) (ReconcileResult, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if writeErr := os.WriteFile(path, []byte(RenderUnit(binaryPath)), 0644); writeErr != nil {
			return ReconcileResult{}, fmt.Errorf("failed to create unit file: %w", writeErr)
		}
		return ReconcileResult{Action: ActionCreated}, nil
	}
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("failed to read unit file: %w", err)
	}

	content := string(data)
	found, ok := ExecStartPath(content)
	if ok && found == binaryPath {
		return ReconcileResult{Action: ActionNone, FoundPath: found}, nil
	}

	backupPath := fmt.Sprintf("%s.bak.%d", path, time.Now().Unix())
	if err := os.WriteFile(backupPath, data, 0644); err != nil {
		return ReconcileResult{}, fmt.Errorf("failed to write backup: %w", err)
	}

	// A file with no ExecStart line at all has nothing to patch; rewrite
	// it from the template. Otherwise only the ExecStart line changes.
	patched := patchExecStart(content, binaryPath)
	if !strings.Contains(content, "ExecStart=") {
		patched = RenderUnit(binaryPath)
	}
	if err := os.WriteFile(path, []byte(patched), 0644); err != nil {
		return ReconcileResult{}, fmt.Errorf("failed to patch unit file: %w", err)
	}

	return ReconcileResult{
		Action:     ActionPatched,
		FoundPath:  found,
		BackupPath: backupPath,
	}, nil
}
