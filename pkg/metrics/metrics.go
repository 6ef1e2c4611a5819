package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/opsforge/nodemedic/pkg/types"
)

var (
	// Step metrics
	StepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nodemedic_step_duration_seconds",
			Help:    "Duration of each remediation step in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"step"},
	)

	StepTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodemedic_step_total",
			Help: "Remediation steps executed by step name and status",
		},
		[]string{"step", "status"},
	)

	// Run metrics
	RunSuccess = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "nodemedic_run_success",
			Help: "Whether the last remediation run succeeded (1 = success, 0 = failure)",
		},
	)

	RunDuration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "nodemedic_run_duration_seconds",
			Help: "Wall-clock duration of the last remediation run in seconds",
		},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(StepDuration)
	prometheus.MustRegister(StepTotal)
	prometheus.MustRegister(RunSuccess)
	prometheus.MustRegister(RunDuration)
}

// RecordRun populates the run and step metrics from a finished run
func RecordRun(record *types.RunRecord) {
	for _, step := range record.Steps {
		StepDuration.WithLabelValues(step.Name).Observe(step.Duration.Seconds())
		StepTotal.WithLabelValues(step.Name, string(step.Status)).Inc()
	}

	if record.Succeeded {
		RunSuccess.Set(1)
	} else {
		RunSuccess.Set(0)
	}
	RunDuration.Set(record.Duration().Seconds())
}

// Push publishes the registered metrics to a Pushgateway. nodemedic is a
// one-shot process, so push replaces the scrape endpoint a long-running
// service would expose.
func Push(gatewayURL, controlPlane, service string) error {
	return push.New(gatewayURL, "nodemedic").
		Gatherer(prometheus.DefaultGatherer).
		Grouping("control_plane", controlPlane).
		Grouping("service", service).
		Push()
}
