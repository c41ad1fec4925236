package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// LeaderboardComputations counts full engine runs (cache misses)
	LeaderboardComputations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leaderboard_computations_total",
			Help: "Total number of full leaderboard computations",
		},
	)

	// LeaderboardCacheHits counts leaderboard reads served from Redis
	LeaderboardCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leaderboard_cache_hits_total",
			Help: "Total number of leaderboard reads served from cache",
		},
	)

	// ComputationDuration observes how long one engine run takes
	ComputationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leaderboard_computation_duration_seconds",
			Help:    "Duration of leaderboard computations",
			Buckets: prometheus.DefBuckets,
		},
	)

	// PredictionsSubmitted counts accepted prediction submissions
	PredictionsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "predictions_submitted_total",
			Help: "Total number of accepted prediction submissions",
		},
	)

	// OrphanedPredictions counts predictions excluded because their author
	// left the user snapshot
	OrphanedPredictions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orphaned_predictions_total",
			Help: "Predictions excluded from scoring because their user no longer exists",
		},
	)

	// SnapshotRetries counts retried snapshot fetches against the store
	SnapshotRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "snapshot_fetch_retries_total",
			Help: "Total number of retried snapshot fetches",
		},
	)
)

// Register registers all metrics. Call once from main.
func Register() {
	prometheus.MustRegister(
		LeaderboardComputations,
		LeaderboardCacheHits,
		ComputationDuration,
		PredictionsSubmitted,
		OrphanedPredictions,
		SnapshotRetries,
	)
}
