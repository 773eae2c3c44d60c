package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	// Generations counts generation requests by focus and outcome.
	Generations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cookbook_generations_total",
		Help: "Total number of recipe generation requests",
	}, []string{"focus", "outcome"})

	// ReviewDecisions counts accept and reject decisions.
	ReviewDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cookbook_review_decisions_total",
		Help: "Total number of review decisions by type",
	}, []string{"decision"})

	// GenerationLatency records generation call latency in seconds.
	GenerationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cookbook_generation_latency_seconds",
		Help:    "Recipe generation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"focus"})
)

// ObserveGeneration records one generation attempt.
func ObserveGeneration(focus string, seconds float64, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	Generations.WithLabelValues(focus, outcome).Inc()
	GenerationLatency.WithLabelValues(focus).Observe(seconds)
}

// ObserveDecision records one review decision, "accept" or "reject".
func ObserveDecision(decision string) {
	ReviewDecisions.WithLabelValues(decision).Inc()
}

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
