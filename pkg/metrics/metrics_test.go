package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/opsforge/nodemedic/pkg/types"
)

func TestRecordRun_Success(t *testing.T) {
	start := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	record := &types.RunRecord{
		ID:         "run-1",
		StartedAt:  start,
		FinishedAt: start.Add(42 * time.Second),
		Succeeded:  true,
		Steps: []types.StepResult{
			{Name: types.StepPrivilegeCheck, Status: types.StepStatusOK, Duration: time.Millisecond},
			{Name: types.StepReachability, Status: types.StepStatusOK, Duration: 2 * time.Second},
		},
	}

	RecordRun(record)

	if got := testutil.ToFloat64(RunSuccess); got != 1 {
		t.Errorf("RunSuccess = %v, want 1", got)
	}
	if got := testutil.ToFloat64(RunDuration); got != 42 {
		t.Errorf("RunDuration = %v, want 42", got)
	}
	if got := testutil.ToFloat64(StepTotal.WithLabelValues(types.StepReachability, "ok")); got < 1 {
		t.Errorf("StepTotal[reachability,ok] = %v, want >= 1", got)
	}
}

func TestRecordRun_Failure(t *testing.T) {
	start := time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC)
	record := &types.RunRecord{
		ID:         "run-2",
		StartedAt:  start,
		FinishedAt: start.Add(5 * time.Second),
		Succeeded:  false,
		Steps: []types.StepResult{
			{Name: types.StepReachability, Status: types.StepStatusFailed, Duration: 5 * time.Second},
		},
	}

	RecordRun(record)

	if got := testutil.ToFloat64(RunSuccess); got != 0 {
		t.Errorf("RunSuccess = %v, want 0", got)
	}
}

func TestTimerDuration(t *testing.T) {
	timer := NewTimer()

	sleepDuration := 50 * time.Millisecond
	time.Sleep(sleepDuration)

	duration := timer.Duration()
	if duration < sleepDuration {
		t.Errorf("Timer.Duration() = %v, want >= %v", duration, sleepDuration)
	}
}

func TestTimerObserveDurationVec(t *testing.T) {
	vec := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "test_step_duration_seconds",
			Help:    "Test duration histogram",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"step"},
	)

	timer := NewTimer()
	time.Sleep(10 * time.Millisecond)
	timer.ObserveDurationVec(vec, "reachability")

	if got := testutil.CollectAndCount(vec); got != 1 {
		t.Errorf("histogram series count = %d, want 1", got)
	}
}
