package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"predictor/internal/engine"
	"predictor/internal/metrics"
	"predictor/internal/models"
	"predictor/internal/repository"
	"predictor/internal/worker"
)

const (
	// snapshotRetries bounds how often a flaky store read is retried before
	// the read path degrades
	snapshotRetries = 3
	snapshotBackoff = 500 * time.Millisecond
)

// SnapshotSource supplies the three immutable collections the engine consumes.
// Each call fetches the full collection; the engine never touches the store.
type SnapshotSource interface {
	FetchPredictions(ctx context.Context) ([]models.Prediction, error)
	FetchResults(ctx context.Context) ([]models.Result, error)
	FetchUsers(ctx context.Context) ([]models.User, error)
}

// CompetitionService orchestrates snapshot fetches, the scoring engine, the
// leaderboard cache and prediction persistence
type CompetitionService struct {
	snapshots SnapshotSource
	store     *repository.PostgresRepository
	cache     *repository.RedisRepository // nil disables caching
	pool      *worker.WorkerPool
}

// NewCompetitionService creates a new competition service
func NewCompetitionService(
	snapshots SnapshotSource,
	store *repository.PostgresRepository,
	cache *repository.RedisRepository,
	pool *worker.WorkerPool,
) *CompetitionService {
	return &CompetitionService{
		snapshots: snapshots,
		store:     store,
		cache:     cache,
		pool:      pool,
	}
}

// snapshot bundles one consistent read of the three input collections
type snapshot struct {
	predictions []models.Prediction
	results     []models.Result
	users       []models.User
}

// fetchSnapshot reads all three collections with bounded retry and brief
// backoff. Two concurrent computations may see slightly different snapshots
// against a live store; that is accepted rather than locked away.
func (s *CompetitionService) fetchSnapshot(ctx context.Context) (snapshot, error) {
	var snap snapshot
	var lastErr error

	for attempt := 1; attempt <= snapshotRetries; attempt++ {
		if attempt > 1 {
			metrics.SnapshotRetries.Inc()
			select {
			case <-ctx.Done():
				return snapshot{}, ctx.Err()
			case <-time.After(snapshotBackoff):
			}
		}

		snap, lastErr = s.fetchOnce(ctx)
		if lastErr == nil {
			return snap, nil
		}
		log.Printf("snapshot fetch attempt %d/%d failed: %v", attempt, snapshotRetries, lastErr)
	}

	return snapshot{}, fmt.Errorf("snapshot fetch failed after %d attempts: %w", snapshotRetries, lastErr)
}

func (s *CompetitionService) fetchOnce(ctx context.Context) (snapshot, error) {
	predictions, err := s.snapshots.FetchPredictions(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("fetch predictions: %w", err)
	}
	results, err := s.snapshots.FetchResults(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("fetch results: %w", err)
	}
	users, err := s.snapshots.FetchUsers(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("fetch users: %w", err)
	}
	return snapshot{predictions: predictions, results: results, users: users}, nil
}

// GetLeaderboard returns the full ranked leaderboard. Cache hits skip the
// engine entirely; when the store stays unreachable after bounded retries the
// read path degrades to an empty leaderboard instead of failing.
func (s *CompetitionService) GetLeaderboard(ctx context.Context) (*models.LeaderboardResponse, error) {
	if s.cache != nil {
		rows, err := s.cache.GetCachedLeaderboard(ctx)
		if err == nil {
			metrics.LeaderboardCacheHits.Inc()
			return &models.LeaderboardResponse{Leaderboard: rows, Total: len(rows)}, nil
		}
		if !errors.Is(err, repository.ErrCacheMiss) {
			log.Printf("leaderboard cache read failed, recomputing: %v", err)
		}
	}

	snap, err := s.fetchSnapshot(ctx)
	if err != nil {
		log.Printf("serving empty leaderboard, store unavailable: %v", err)
		return &models.LeaderboardResponse{Leaderboard: []models.LeaderboardRow{}}, nil
	}

	rows := s.compute(snap)

	if s.cache != nil {
		if err := s.cache.CacheLeaderboard(ctx, rows); err != nil {
			log.Printf("failed to cache leaderboard: %v", err)
		}
	}

	return &models.LeaderboardResponse{Leaderboard: rows, Total: len(rows)}, nil
}

// compute runs the pure engine over one snapshot
func (s *CompetitionService) compute(snap snapshot) []models.LeaderboardRow {
	start := time.Now()

	agg := engine.Aggregate(snap.predictions, snap.results, snap.users)
	rows := engine.Rank(agg, snap.users)

	metrics.LeaderboardComputations.Inc()
	metrics.ComputationDuration.Observe(time.Since(start).Seconds())
	if agg.Orphaned > 0 {
		metrics.OrphanedPredictions.Add(float64(agg.Orphaned))
		log.Printf("excluded %d predictions from users no longer in the snapshot", agg.Orphaned)
	}

	return rows
}

// GetUserStats returns the personal statistics bundle for one user.
// Returns engine.ErrUserNotFound for a user absent from the snapshot.
func (s *CompetitionService) GetUserStats(ctx context.Context, userID string) (*models.UserStatsBundle, error) {
	snap, err := s.fetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := engine.UserStats(snap.predictions, snap.results, snap.users, userID)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// HealthCheck checks the health of both Redis and PostgreSQL
func (s *CompetitionService) HealthCheck(ctx context.Context) error {
	if s.store != nil {
		if err := s.store.Ping(ctx); err != nil {
			return fmt.Errorf("PostgreSQL health check failed: %w", err)
		}
	}
	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			return fmt.Errorf("Redis health check failed: %w", err)
		}
	}
	return nil
}
