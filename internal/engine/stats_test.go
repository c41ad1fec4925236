package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"predictor/internal/models"
)

func TestUserStats(t *testing.T) {
	users := []models.User{user("a", "alice"), user("b", "bob")}
	preds := []models.Prediction{
		prediction("a", 1, 1, 2, 1), // exact, 5
		prediction("a", 2, 1, 3, 1), // correct result, 2
		prediction("a", 3, 2, 0, 0), // wrong, 0
		prediction("a", 4, 3, 1, 1), // no result yet
		prediction("b", 1, 1, 2, 1), // exact, 5
	}
	results := []models.Result{
		result(1, 1, 2, 1),
		result(2, 1, 1, 0),
		result(3, 2, 2, 0),
	}

	stats, err := UserStats(preds, results, users, "a")
	require.NoError(t, err)

	assert.Equal(t, "alice", stats.Username)
	assert.Equal(t, 7, stats.TotalPoints)
	assert.Equal(t, 3, stats.PredictionsScored)
	assert.Equal(t, 1, stats.ExactCount)
	assert.Equal(t, 1, stats.CorrectResultCount)
	assert.Equal(t, 1, stats.WrongCount)
	assert.Equal(t, 67, stats.AccuracyPct)
	assert.Equal(t, 1, stats.BestGameweek)
	assert.Equal(t, 7, stats.BestGameweekPoints)
	assert.Equal(t, 0, stats.WorstGameweekPts)
	assert.Equal(t, 1, stats.CurrentRank)
	assert.Equal(t, 2, stats.TotalRankedPlayers)
	assert.Equal(t, []models.WeekPoints{{Gameweek: 1, Points: 7}, {Gameweek: 2, Points: 0}}, stats.WeeklyProgression)
}

func TestUserStatsUnknownUser(t *testing.T) {
	users := []models.User{user("a", "alice")}

	_, err := UserStats(nil, nil, users, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserStatsNoScoredPredictions(t *testing.T) {
	users := []models.User{user("a", "alice")}
	preds := []models.Prediction{prediction("a", 1, 1, 2, 1)}

	stats, err := UserStats(preds, nil, users, "a")
	require.NoError(t, err)

	assert.Zero(t, stats.PredictionsScored)
	assert.Zero(t, stats.AccuracyPct, "accuracy must be 0 with nothing scored, not a division error")
	assert.Zero(t, stats.TotalPoints)
	assert.Zero(t, stats.BestGameweek)
	assert.Zero(t, stats.WorstGameweekPts)
	assert.Zero(t, stats.CurrentRank)
	assert.Empty(t, stats.WeeklyProgression)
}

func TestUserStatsAccuracyBounds(t *testing.T) {
	users := []models.User{user("a", "alice")}
	preds := []models.Prediction{
		prediction("a", 1, 1, 2, 1),
		prediction("a", 2, 1, 1, 1),
	}
	results := []models.Result{
		result(1, 1, 2, 1),
		result(2, 1, 1, 1),
	}

	stats, err := UserStats(preds, results, users, "a")
	require.NoError(t, err)
	assert.Equal(t, 100, stats.AccuracyPct)

	// All wrong drives it to the floor.
	badResults := []models.Result{
		result(1, 1, 0, 5),
		result(2, 1, 0, 5),
	}
	stats, err = UserStats(preds, badResults, users, "a")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.AccuracyPct)
}

func TestUserStatsBestGameweekTieTakesEarliest(t *testing.T) {
	users := []models.User{user("a", "alice")}
	preds := []models.Prediction{
		prediction("a", 1, 3, 2, 1),
		prediction("a", 2, 9, 1, 0),
	}
	results := []models.Result{
		result(1, 3, 2, 1),
		result(2, 9, 1, 0),
	}

	stats, err := UserStats(preds, results, users, "a")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.BestGameweek)
	assert.Equal(t, 5, stats.BestGameweekPoints)
	assert.Equal(t, 5, stats.WorstGameweekPts)
}

func TestUserStatsRankCountsZeroPointUsers(t *testing.T) {
	users := []models.User{user("a", "alice"), user("b", "bob")}
	preds := []models.Prediction{
		prediction("a", 1, 1, 2, 1), // exact
		prediction("b", 1, 1, 0, 3), // wrong, still ranked on 0 points
	}
	results := []models.Result{result(1, 1, 2, 1)}

	stats, err := UserStats(preds, results, users, "b")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CurrentRank)
	assert.Equal(t, 2, stats.TotalRankedPlayers)
	assert.Zero(t, stats.TotalPoints)
}
