package service

import (
	"context"
	"errors"
	"fmt"

	"predictor/internal/metrics"
	"predictor/internal/models"
	"predictor/internal/repository"
	"predictor/internal/worker"
)

// SubmitPrediction validates a submission against the store and hands it to
// the worker pool. The request is acknowledged once queued; a full queue is
// surfaced to the caller because Postgres is the only home for predictions.
func (s *CompetitionService) SubmitPrediction(ctx context.Context, req models.PredictionRequest) error {
	if _, err := s.store.GetUser(ctx, req.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("unknown user: %w", err)
		}
		return fmt.Errorf("user lookup failed: %w", err)
	}
	if _, err := s.store.GetFixture(ctx, req.FixtureID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("unknown fixture: %w", err)
		}
		return fmt.Errorf("fixture lookup failed: %w", err)
	}

	task := worker.PredictionTask{
		Prediction: models.Prediction{
			UserID:        req.UserID,
			FixtureID:     req.FixtureID,
			Gameweek:      req.Gameweek,
			PredictedHome: req.PredictedHome,
			PredictedAway: req.PredictedAway,
		},
	}

	if err := s.pool.Submit(task); err != nil {
		return fmt.Errorf("prediction not accepted: %w", err)
	}

	metrics.PredictionsSubmitted.Inc()
	return nil
}

// ListPredictions returns predictions matching the typed filter
func (s *CompetitionService) ListPredictions(ctx context.Context, filter models.PredictionFilter) ([]models.Prediction, error) {
	return s.store.ListPredictions(ctx, filter)
}

// SubmitResult records the official result for a fixture and invalidates the
// cached leaderboard so clients see the new standings
func (s *CompetitionService) SubmitResult(ctx context.Context, req models.ResultRequest) error {
	if _, err := s.store.GetFixture(ctx, req.FixtureID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("unknown fixture: %w", err)
		}
		return fmt.Errorf("fixture lookup failed: %w", err)
	}

	res := models.Result{
		FixtureID:  req.FixtureID,
		Gameweek:   req.Gameweek,
		ActualHome: req.ActualHome,
		ActualAway: req.ActualAway,
	}
	if err := s.store.UpsertResult(ctx, &res); err != nil {
		return fmt.Errorf("failed to store result: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.BumpVersion(ctx); err != nil {
			return fmt.Errorf("result stored but cache invalidation failed: %w", err)
		}
	}

	return nil
}

// ListResults returns results matching the typed filter
func (s *CompetitionService) ListResults(ctx context.Context, filter models.ResultFilter) ([]models.Result, error) {
	return s.store.ListResults(ctx, filter)
}

// ListFixtures returns fixtures matching the typed filter
func (s *CompetitionService) ListFixtures(ctx context.Context, filter models.FixtureFilter) ([]models.Fixture, error) {
	return s.store.ListFixtures(ctx, filter)
}
