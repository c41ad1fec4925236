package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"predictor/internal/engine"
	"predictor/internal/models"
)

// fakeSource serves fixed snapshots, optionally failing a number of times
// before succeeding
type fakeSource struct {
	predictions []models.Prediction
	results     []models.Result
	users       []models.User

	failures int
	calls    int
}

func (f *fakeSource) FetchPredictions(ctx context.Context) ([]models.Prediction, error) {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("store unavailable")
	}
	return f.predictions, nil
}

func (f *fakeSource) FetchResults(ctx context.Context) ([]models.Result, error) {
	return f.results, nil
}

func (f *fakeSource) FetchUsers(ctx context.Context) ([]models.User, error) {
	return f.users, nil
}

func twoUserSource() *fakeSource {
	return &fakeSource{
		users: []models.User{
			{ID: "a", Username: "alice", Role: models.RoleUser},
			{ID: "b", Username: "bob", Role: models.RoleUser},
		},
		predictions: []models.Prediction{
			{UserID: "a", FixtureID: 1, Gameweek: 1, PredictedHome: 2, PredictedAway: 1},
			{UserID: "a", FixtureID: 2, Gameweek: 2, PredictedHome: 1, PredictedAway: 0},
			{UserID: "b", FixtureID: 1, Gameweek: 1, PredictedHome: 2, PredictedAway: 1},
			{UserID: "b", FixtureID: 2, Gameweek: 2, PredictedHome: 0, PredictedAway: 0},
		},
		results: []models.Result{
			{FixtureID: 1, Gameweek: 1, ActualHome: 2, ActualAway: 1},
			{FixtureID: 2, Gameweek: 2, ActualHome: 3, ActualAway: 0},
		},
	}
}

func TestGetLeaderboardComputesRankedRows(t *testing.T) {
	svc := NewCompetitionService(twoUserSource(), nil, nil, nil)

	resp, err := svc.GetLeaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Leaderboard, 2)

	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "alice", resp.Leaderboard[0].Player)
	assert.Equal(t, 7, resp.Leaderboard[0].TotalPoints)
	assert.Equal(t, 1, resp.Leaderboard[0].Rank)
	assert.Equal(t, "bob", resp.Leaderboard[1].Player)
	assert.Equal(t, 5, resp.Leaderboard[1].TotalPoints)
	assert.Equal(t, 2, resp.Leaderboard[1].Rank)
}

func TestGetLeaderboardRecoversFromTransientFailure(t *testing.T) {
	src := twoUserSource()
	src.failures = 1
	svc := NewCompetitionService(src, nil, nil, nil)

	resp, err := svc.GetLeaderboard(context.Background())
	require.NoError(t, err)
	assert.Len(t, resp.Leaderboard, 2)
	assert.Equal(t, 2, src.calls)
}

func TestGetLeaderboardDegradesToEmptyWhenStoreIsDown(t *testing.T) {
	src := twoUserSource()
	src.failures = 100
	svc := NewCompetitionService(src, nil, nil, nil)

	resp, err := svc.GetLeaderboard(context.Background())
	require.NoError(t, err, "read path must stay available when the store is down")
	assert.Empty(t, resp.Leaderboard)
	assert.Zero(t, resp.Total)
}

func TestGetUserStats(t *testing.T) {
	svc := NewCompetitionService(twoUserSource(), nil, nil, nil)

	stats, err := svc.GetUserStats(context.Background(), "b")
	require.NoError(t, err)

	assert.Equal(t, "bob", stats.Username)
	assert.Equal(t, 5, stats.TotalPoints)
	assert.Equal(t, 2, stats.PredictionsScored)
	assert.Equal(t, 2, stats.CurrentRank)
	assert.Equal(t, 2, stats.TotalRankedPlayers)
}

func TestGetUserStatsUnknownUser(t *testing.T) {
	svc := NewCompetitionService(twoUserSource(), nil, nil, nil)

	_, err := svc.GetUserStats(context.Background(), "nobody")
	assert.ErrorIs(t, err, engine.ErrUserNotFound)
}

func TestGetUserStatsPropagatesStoreFailure(t *testing.T) {
	src := twoUserSource()
	src.failures = 100
	svc := NewCompetitionService(src, nil, nil, nil)

	_, err := svc.GetUserStats(context.Background(), "a")
	assert.Error(t, err)
}
