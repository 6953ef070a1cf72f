package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docstore", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docstore", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	DocumentsSaved = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docstore", Name: "documents_saved_total", Help: "Number of save calls by outcome (created_id, given_id, error)."},
		[]string{"outcome"},
	)
	Searches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docstore", Name: "searches_total", Help: "Number of search calls by outcome (ok, error)."},
		[]string{"outcome"},
	)
	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{Namespace: "docstore", Name: "search_results", Help: "Documents returned per search.", Buckets: prometheus.ExponentialBuckets(1, 4, 6)},
	)
	Lookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docstore", Name: "lookups_total", Help: "Number of find-by-id calls by result (hit, miss, error)."},
		[]string{"result"},
	)
	Exports = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docstore", Name: "exports_total", Help: "Number of search exports by outcome (ok, error)."},
		[]string{"outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(DocumentsSaved)
	reg.MustRegister(Searches)
	reg.MustRegister(SearchResults)
	reg.MustRegister(Lookups)
	reg.MustRegister(Exports)
}
