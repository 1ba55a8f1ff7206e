// Package metrics exposes Prometheus instrumentation for the coach:
// classified intents, entity extractions, recommendation outcomes and reply
// latency.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// IntentsTotal counts classified learner statements by intent.
	IntentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensei_intents_total",
			Help: "Total number of classified learner statements",
		},
		[]string{"intent"}, // "learned_concept", "solved_problem", "query"
	)

	// ExtractionsTotal counts identifiers extracted from text.
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensei_extractions_total",
			Help: "Total number of concepts and problems extracted from learner text",
		},
		[]string{"table", "method"}, // table: "concept", "problem"; method: "exact", "fuzzy"
	)

	// RecommendationsTotal counts produced results by kind.
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensei_recommendations_total",
			Help: "Total number of recommendation results by kind",
		},
		[]string{"kind"},
	)

	// ReplyDuration measures end-to-end reply latency.
	ReplyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sensei_reply_duration_seconds",
			Help:    "Duration of coach replies in seconds",
			Buckets: []float64{.0001, .0005, .001, .0025, .005, .01, .025, .05, .1},
		},
	)
)

// RecordIntent increments the intent counter.
func RecordIntent(intent string) {
	IntentsTotal.WithLabelValues(intent).Inc()
}

// RecordExtraction increments the extraction counter for one matched identifier.
func RecordExtraction(table, method string) {
	ExtractionsTotal.WithLabelValues(table, method).Inc()
}

// RecordRecommendation increments the recommendation counter.
func RecordRecommendation(kind string) {
	RecommendationsTotal.WithLabelValues(kind).Inc()
}

// ObserveReply records how long a reply took.
func ObserveReply(d time.Duration) {
	ReplyDuration.Observe(d.Seconds())
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// NewServer returns an HTTP server exposing Handler at /metrics on addr.
func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
