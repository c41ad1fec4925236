package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"predictor/internal/engine"
	"predictor/internal/models"
	"predictor/internal/repository"
)

// AdminOverview assembles high-level competition numbers for the admin
// dashboard
func (s *CompetitionService) AdminOverview(ctx context.Context) (*models.AdminOverview, error) {
	users, predictions, results, fixtures, err := s.store.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tables: %w", err)
	}

	scored, err := s.store.ScoredGameweeks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scored gameweeks: %w", err)
	}
	all, err := s.store.FixtureGameweeks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixture gameweeks: %w", err)
	}

	scoredSet := make(map[int]struct{}, len(scored))
	for _, gw := range scored {
		scoredSet[gw] = struct{}{}
	}
	nextGW := 0
	for _, gw := range all {
		if _, ok := scoredSet[gw]; !ok {
			nextGW = gw
			break
		}
	}

	completion := 0
	if fixtures > 0 {
		completion = int(math.Round(float64(results) / float64(fixtures) * 100))
	}

	return &models.AdminOverview{
		TotalUsers:       users,
		TotalPredictions: predictions,
		TotalResults:     results,
		TotalFixtures:    fixtures,
		ScoredGameweeks:  len(scored),
		NextGameweek:     nextGW,
		CompletionPct:    completion,
	}, nil
}

// ListUsersWithPoints lists every user with their prediction count and season
// total, derived from the same aggregation the leaderboard uses
func (s *CompetitionService) ListUsersWithPoints(ctx context.Context) ([]models.AdminUserRow, error) {
	snap, err := s.fetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	agg := engine.Aggregate(snap.predictions, snap.results, snap.users)

	predCount := make(map[string]int, len(snap.users))
	for _, p := range snap.predictions {
		predCount[p.UserID]++
	}

	rows := make([]models.AdminUserRow, 0, len(snap.users))
	for _, u := range snap.users {
		rows = append(rows, models.AdminUserRow{
			ID:              u.ID,
			Username:        u.Username,
			Email:           u.Email,
			Role:            u.Role,
			PredictionCount: predCount[u.ID],
			TotalPoints:     agg.Total(u.ID),
		})
	}

	return rows, nil
}

// UpdateUserRole promotes or demotes a user. The acting admin cannot change
// their own role.
func (s *CompetitionService) UpdateUserRole(ctx context.Context, actingUserID, targetUserID, role string) error {
	if actingUserID == targetUserID {
		return fmt.Errorf("cannot change your own role")
	}
	if err := s.store.UpdateUserRole(ctx, targetUserID, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return fmt.Errorf("role update failed: %w", err)
	}
	return nil
}

// DeleteUser removes a user and their predictions, then invalidates the
// leaderboard cache since their rows disappear from the standings
func (s *CompetitionService) DeleteUser(ctx context.Context, actingUserID, targetUserID string) error {
	if actingUserID == targetUserID {
		return fmt.Errorf("cannot delete your own account")
	}
	if err := s.store.DeleteUser(ctx, targetUserID); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.BumpVersion(ctx); err != nil {
			return fmt.Errorf("user deleted but cache invalidation failed: %w", err)
		}
	}
	return nil
}

// GetUserRole looks up the role of an acting user for the capability check at
// the transport boundary
func (s *CompetitionService) GetUserRole(ctx context.Context, userID string) (string, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}
