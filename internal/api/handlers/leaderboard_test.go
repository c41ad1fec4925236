package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"predictor/internal/models"
	"predictor/internal/service"
	"predictor/internal/websocket"
)

type staticSource struct {
	predictions []models.Prediction
	results     []models.Result
	users       []models.User
}

func (s staticSource) FetchPredictions(ctx context.Context) ([]models.Prediction, error) {
	return s.predictions, nil
}

func (s staticSource) FetchResults(ctx context.Context) ([]models.Result, error) {
	return s.results, nil
}

func (s staticSource) FetchUsers(ctx context.Context) ([]models.User, error) {
	return s.users, nil
}

func testApp() *fiber.App {
	src := staticSource{
		users: []models.User{
			{ID: "a", Username: "alice", Role: models.RoleUser},
			{ID: "b", Username: "bob", Role: models.RoleUser},
		},
		predictions: []models.Prediction{
			{UserID: "a", FixtureID: 1, Gameweek: 1, PredictedHome: 2, PredictedAway: 1},
			{UserID: "b", FixtureID: 1, Gameweek: 1, PredictedHome: 0, PredictedAway: 0},
		},
		results: []models.Result{
			{FixtureID: 1, Gameweek: 1, ActualHome: 2, ActualAway: 1},
		},
	}

	svc := service.NewCompetitionService(src, nil, nil, nil)
	h := NewHandler(svc, websocket.NewHub(nil))

	app := fiber.New()
	app.Get("/api/v1/leaderboard", h.GetLeaderboard)
	app.Get("/api/v1/users/:id/stats", h.GetUserStats)
	return app
}

func TestGetLeaderboardEndpoint(t *testing.T) {
	app := testApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/leaderboard", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload models.LeaderboardResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	require.Len(t, payload.Leaderboard, 2)
	assert.Equal(t, "alice", payload.Leaderboard[0].Player)
	assert.Equal(t, 5, payload.Leaderboard[0].TotalPoints)
	assert.Equal(t, 1, payload.Leaderboard[0].Rank)
	assert.Equal(t, "bob", payload.Leaderboard[1].Player)
	assert.Equal(t, 2, payload.Leaderboard[1].Rank)
}

func TestGetUserStatsEndpoint(t *testing.T) {
	app := testApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/users/a/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var stats models.UserStatsBundle
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, "alice", stats.Username)
	assert.Equal(t, 5, stats.TotalPoints)
	assert.Equal(t, 1, stats.CurrentRank)
}

func TestGetUserStatsEndpointNotFound(t *testing.T) {
	app := testApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/users/nobody/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
