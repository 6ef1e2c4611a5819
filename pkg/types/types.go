package types

import (
	"time"
)

// StepStatus represents the outcome of a single remediation step
type StepStatus string

const (
	StepStatusOK      StepStatus = "ok"
	StepStatusFailed  StepStatus = "failed"
	StepStatusSkipped StepStatus = "skipped"
)

// Well-known step names, in execution order
const (
	StepPrivilegeCheck = "privilege-check"
	StepInputCheck     = "input-check"
	StepReachability   = "reachability"
	StepBinaryPresence = "binary-presence"
	StepUnitReconcile  = "unit-reconcile"
	StepTokenProvision = "token-provision"
	StepServiceRestart = "service-restart"
	StepVerifyActive   = "verify-active"
	StepLogSummary     = "log-summary"
)

// StepResult records what a single remediation step did
type StepResult struct {
	Name     string        `json:"name"`
	Status   StepStatus    `json:"status"`
	Detail   string        `json:"detail,omitempty"`
	Duration time.Duration `json:"duration"`
}

// RunRecord is the persisted outcome of one remediation run
type RunRecord struct {
	ID           string       `json:"id"`
	ControlPlane string       `json:"control_plane"`
	Service      string       `json:"service"`
	StartedAt    time.Time    `json:"started_at"`
	FinishedAt   time.Time    `json:"finished_at"`
	Steps        []StepResult `json:"steps"`
	Succeeded    bool         `json:"succeeded"`
	Error        string       `json:"error,omitempty"`
}

// FailedStep returns the first failed step, if any
func (r *RunRecord) FailedStep() *StepResult {
	for i := range r.Steps {
		if r.Steps[i].Status == StepStatusFailed {
			return &r.Steps[i]
		}
	}
	return nil
}

// Duration returns the wall-clock duration of the run
func (r *RunRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
