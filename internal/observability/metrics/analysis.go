package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

type analysisCollectors struct {
	total      *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	finalScore *prometheus.HistogramVec
	fallbacks  *prometheus.CounterVec
}

func newAnalysisCollectors() *analysisCollectors {
	return &analysisCollectors{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "analysis",
				Name:      "total",
				Help:      "Completed analyses by model status and feedback source.",
			},
			[]string{"service", "model_status", "feedback_source"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "analysis",
				Name:      "duration_seconds",
				Help:      "Pipeline duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"service"},
		),
		finalScore: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "analysis",
				Name:      "final_score",
				Help:      "Distribution of final resume scores.",
				Buckets:   scoreBuckets,
			},
			[]string{"service"},
		),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "analysis",
				Name:      "extractor_fallbacks_total",
				Help:      "Document reader attempts that did not produce text, by strategy and outcome.",
			},
			[]string{"service", "strategy", "outcome"},
		),
	}
}

func (c *analysisCollectors) register(registry *prometheus.Registry) {
	registry.MustRegister(c.total, c.duration, c.finalScore, c.fallbacks)
}

func (c *analysisCollectors) observe(service string, result *domain.AnalysisResult, duration time.Duration) {
	c.duration.WithLabelValues(service).Observe(duration.Seconds())
	if result == nil {
		return
	}
	modelStatus := string(result.Diagnostics.ModelStatus)
	if modelStatus == "" {
		modelStatus = "unknown"
	}
	source := result.FeedbackSource
	if source == "" {
		source = "unknown"
	}
	c.total.WithLabelValues(service, modelStatus, source).Inc()
	c.finalScore.WithLabelValues(service).Observe(result.FinalScore)

	for _, attempt := range result.Diagnostics.Extraction.Attempts {
		if attempt.Outcome == domain.AttemptOK {
			break
		}
		c.fallbacks.WithLabelValues(service, attempt.Strategy, attempt.Outcome).Inc()
	}
}

type upstreamCollectors struct {
	retries      *prometheus.CounterVec
	breakerState *prometheus.GaugeVec
}

func newUpstreamCollectors() *upstreamCollectors {
	return &upstreamCollectors{
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "retries_total",
				Help:      "Retried upstream calls by operation.",
			},
			[]string{"service", "operation"},
		),
		breakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "circuit_breaker_state",
				Help:      "Circuit breaker state by operation: 0 closed, 1 half-open, 2 open.",
			},
			[]string{"service", "operation"},
		),
	}
}

func (c *upstreamCollectors) register(registry *prometheus.Registry) {
	registry.MustRegister(c.retries, c.breakerState)
}

func (c *upstreamCollectors) setBreakerState(service, operation, state string) {
	value := 0.0
	switch state {
	case "half-open":
		value = 1
	case "open":
		value = 2
	}
	c.breakerState.WithLabelValues(service, operation).Set(value)
}
