package duoquiz

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Generation runs by outcome: ok, oracle_error, parse_error, unsuitable_topic, store_error
	generationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duoquiz_generation_runs_total",
			Help: "Total number of game generation runs",
		},
		[]string{"outcome"},
	)

	// Candidates by checker action: accept, revise, reject, duplicate
	candidateResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duoquiz_question_candidates_total",
			Help: "Question candidates recovered from the oracle, by validation result",
		},
		[]string{"result"},
	)

	gamesPersisted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "duoquiz_games_persisted_total",
			Help: "Games written to the store",
		},
	)

	folderLinkFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "duoquiz_folder_link_failures_total",
			Help: "Games persisted whose folder gameIds update failed",
		},
	)

	reconciledLinks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "duoquiz_reconciled_links_total",
			Help: "Missing folder links restored by reconciliation",
		},
	)

	oracleLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "duoquiz_oracle_duration_seconds",
			Help:    "Time spent waiting on the generation oracle",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 8),
		},
	)
)
