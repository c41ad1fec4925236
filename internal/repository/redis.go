package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"predictor/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	// LeaderboardCacheKey holds the rendered leaderboard JSON for the current version
	LeaderboardCacheKey = "predictor:leaderboard"

	// VersionKey tracks the global leaderboard version for change detection.
	// It is bumped whenever a result is entered or corrected; websocket clients
	// refetch when they see it move.
	VersionKey = "predictor:leaderboard:version"

	// cacheTTL bounds staleness if an invalidation is ever missed
	cacheTTL = 5 * time.Minute
)

// ErrCacheMiss marks an absent cache entry
var ErrCacheMiss = errors.New("cache miss")

// RedisRepository caches the computed leaderboard and tracks its version.
// Ranking itself is done by the engine; Redis only memoizes the result.
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository creates a new Redis repository
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{
		client: client,
	}
}

// cachedLeaderboard pins the cached payload to the version it was computed at
type cachedLeaderboard struct {
	Version int64                   `json:"version"`
	Rows    []models.LeaderboardRow `json:"rows"`
}

// GetCachedLeaderboard returns the cached leaderboard if it matches the current
// version, ErrCacheMiss otherwise.
func (r *RedisRepository) GetCachedLeaderboard(ctx context.Context) ([]models.LeaderboardRow, error) {
	raw, err := r.client.Get(ctx, LeaderboardCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var cached cachedLeaderboard
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, fmt.Errorf("corrupt leaderboard cache: %w", err)
	}

	version, err := r.GetLeaderboardVersion(ctx)
	if err != nil {
		return nil, err
	}
	if cached.Version != version {
		return nil, ErrCacheMiss
	}

	return cached.Rows, nil
}

// CacheLeaderboard stores a freshly computed leaderboard against the version
// it was computed at
func (r *RedisRepository) CacheLeaderboard(ctx context.Context, rows []models.LeaderboardRow) error {
	version, err := r.GetLeaderboardVersion(ctx)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(cachedLeaderboard{Version: version, Rows: rows})
	if err != nil {
		return err
	}

	return r.client.Set(ctx, LeaderboardCacheKey, raw, cacheTTL).Err()
}

// BumpVersion invalidates the cached leaderboard and advances the global
// version counter in one pipeline
func (r *RedisRepository) BumpVersion(ctx context.Context) error {
	pipe := r.client.Pipeline()
	pipe.Incr(ctx, VersionKey)
	pipe.Del(ctx, LeaderboardCacheKey)
	_, err := pipe.Exec(ctx)
	return err
}

// GetLeaderboardVersion returns the current global version number
func (r *RedisRepository) GetLeaderboardVersion(ctx context.Context) (int64, error) {
	version, err := r.client.Get(ctx, VersionKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil // version not set yet
		}
		return 0, err
	}
	return version, nil
}

// Ping checks if Redis is reachable
func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisRepository) Close() error {
	return r.client.Close()
}
