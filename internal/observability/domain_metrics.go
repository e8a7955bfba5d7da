package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	translateRequestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "querysmith_translate_requests_total",
			Help: "Total number of natural-language translation requests.",
		},
	)
	generationFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "querysmith_generation_failures_total",
			Help: "Total number of failed generator calls.",
		},
	)
	generationRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "querysmith_generation_retries_total",
			Help: "Total number of generation retries after a failed attempt.",
		},
	)
	validationRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "querysmith_validation_rejected_total",
			Help: "Total number of candidate statements rejected by the validator.",
		},
		[]string{"rule"},
	)
	guardrailRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "querysmith_guardrail_rejected_total",
			Help: "Total number of candidate statements rejected by the guardrail.",
		},
		[]string{"rule"},
	)
	generationLatencySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "querysmith_generation_latency_seconds",
			Help:    "Generator call latency in seconds.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)
	executionLatencySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "querysmith_execution_latency_seconds",
			Help:    "Database execution latency for validated statements in seconds.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
	)
)

func init() {
	prometheus.MustRegister(
		translateRequestsTotal,
		generationFailuresTotal,
		generationRetriesTotal,
		validationRejectedTotal,
		guardrailRejectedTotal,
		generationLatencySeconds,
		executionLatencySeconds,
	)
}

func IncrementTranslateRequests() {
	translateRequestsTotal.Inc()
}

func ObserveGeneration(elapsed time.Duration, success bool) {
	generationLatencySeconds.Observe(elapsed.Seconds())
	if !success {
		generationFailuresTotal.Inc()
	}
}

func ObserveGenerationRetries(retries int) {
	if retries > 0 {
		generationRetriesTotal.Add(float64(retries))
	}
}

func IncrementValidationRejected(rule string) {
	validationRejectedTotal.WithLabelValues(nonEmptyRule(rule)).Inc()
}

func IncrementGuardrailRejected(rule string) {
	guardrailRejectedTotal.WithLabelValues(nonEmptyRule(rule)).Inc()
}

func nonEmptyRule(rule string) string {
	if rule == "" {
		return "unknown"
	}
	return rule
}

func ObserveExecution(elapsed time.Duration) {
	executionLatencySeconds.Observe(elapsed.Seconds())
}
