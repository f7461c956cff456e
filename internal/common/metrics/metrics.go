// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RiskPredictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_predictions_total",
			Help: "Total number of risk predictions by tier",
		},
		[]string{"tier"},
	)

	NormalizationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_normalization_failures_total",
			Help: "Total number of rejected applicant selections by field",
		},
		[]string{"field"},
	)

	InferenceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "risk_inference_duration_seconds",
			Help:    "Duration of a single classifier call in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
	)

	FormRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_form_requests_total",
			Help: "Total number of form submissions by response status",
		},
		[]string{"status"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)
)
