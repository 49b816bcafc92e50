package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Provider metrics
	ProviderCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokenpulse_provider_calls_total",
			Help: "Total number of upstream provider calls",
		},
		[]string{"provider", "status"}, // status: success|error
	)

	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tokenpulse_provider_latency_seconds",
			Help:    "Upstream provider call latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider"},
	)

	// Cache metrics
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokenpulse_cache_ops_total",
			Help: "Cache lookups by collector and outcome",
		},
		[]string{"collector", "result"}, // result: hit|miss
	)

	// Pipeline metrics
	PipelineStages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokenpulse_pipeline_stages_total",
			Help: "Pipeline stage executions by outcome",
		},
		[]string{"stage", "outcome"}, // stage: explain|drivers|recommend; outcome: live|fallback
	)

	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tokenpulse_analysis_duration_seconds",
			Help:    "Per-token analysis duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"status"}, // status: success|error
	)

	BatchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokenpulse_batch_requests_total",
			Help: "Analysis batch requests by status",
		},
		[]string{"status"}, // status: accepted|rejected|error
	)

	BatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tokenpulse_batch_size_symbols",
			Help:    "Number of symbols per analysis batch",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
	)

	// Worker metrics
	WorkerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokenpulse_worker_executions_total",
			Help: "Total number of worker executions",
		},
		[]string{"worker", "status"}, // status: success|error|panic
	)

	WorkerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tokenpulse_worker_duration_seconds",
			Help:    "Worker execution duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"worker"},
	)
)

// Init registers all metrics with Prometheus
func Init() {
	prometheus.MustRegister(ProviderCalls)
	prometheus.MustRegister(ProviderLatency)
	prometheus.MustRegister(CacheOps)
	prometheus.MustRegister(PipelineStages)
	prometheus.MustRegister(AnalysisDuration)
	prometheus.MustRegister(BatchRequests)
	prometheus.MustRegister(BatchSize)
	prometheus.MustRegister(WorkerExecutions)
	prometheus.MustRegister(WorkerDuration)
}

// Handler returns the HTTP handler for the /metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
