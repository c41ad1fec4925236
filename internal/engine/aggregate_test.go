package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"predictor/internal/models"
)

func user(id, name string) models.User {
	return models.User{ID: id, Username: name, Role: models.RoleUser}
}

func prediction(userID string, fixtureID uint, gw, home, away int) models.Prediction {
	return models.Prediction{
		UserID:        userID,
		FixtureID:     fixtureID,
		Gameweek:      gw,
		PredictedHome: home,
		PredictedAway: away,
	}
}

func result(fixtureID uint, gw, home, away int) models.Result {
	return models.Result{
		FixtureID:  fixtureID,
		Gameweek:   gw,
		ActualHome: home,
		ActualAway: away,
	}
}

func TestAggregateJoinsOnFixture(t *testing.T) {
	users := []models.User{user("u1", "alice")}
	preds := []models.Prediction{
		prediction("u1", 1, 1, 2, 1), // exact, 5 pts
		prediction("u1", 2, 1, 1, 0), // home win vs home win, 2 pts
		prediction("u1", 3, 2, 0, 0), // wrong, 0 pts
	}
	results := []models.Result{
		result(1, 1, 2, 1),
		result(2, 1, 3, 0),
		result(3, 2, 1, 0),
	}

	agg := Aggregate(preds, results, users)

	assert.Equal(t, 1, agg.Size())
	assert.Equal(t, 7, agg.Total("u1"))
	assert.Equal(t, map[int]int{1: 7, 2: 0}, agg.UserWeeks("u1"))
}

func TestAggregateSkipsUnscoredFixtures(t *testing.T) {
	users := []models.User{user("u1", "alice")}
	preds := []models.Prediction{
		prediction("u1", 1, 1, 2, 1),
		prediction("u1", 99, 1, 2, 1), // fixture without a result
	}
	results := []models.Result{result(1, 1, 2, 1)}

	agg := Aggregate(preds, results, users)

	assert.Equal(t, 5, agg.Total("u1"))
	assert.Len(t, agg.UserWeeks("u1"), 1)
	assert.Zero(t, agg.Orphaned)
}

func TestAggregateExcludesDeletedUsers(t *testing.T) {
	users := []models.User{user("u1", "alice")}
	preds := []models.Prediction{
		prediction("u1", 1, 1, 2, 1),
		prediction("ghost", 1, 1, 2, 1),
	}
	results := []models.Result{result(1, 1, 2, 1)}

	agg := Aggregate(preds, results, users)

	assert.Equal(t, 1, agg.Size())
	assert.Equal(t, 1, agg.Orphaned)
	assert.Zero(t, agg.Total("ghost"))
}

func TestAggregateBucketsByPredictionGameweek(t *testing.T) {
	// If the prediction and result disagree on the gameweek, the prediction's
	// stated gameweek wins.
	users := []models.User{user("u1", "alice")}
	preds := []models.Prediction{prediction("u1", 1, 7, 2, 1)}
	results := []models.Result{result(1, 8, 2, 1)}

	agg := Aggregate(preds, results, users)

	assert.Equal(t, map[int]int{7: 5}, agg.UserWeeks("u1"))
}

func TestAggregateUserWithoutPredictionsIsOmitted(t *testing.T) {
	users := []models.User{user("u1", "alice"), user("u2", "bob")}
	preds := []models.Prediction{prediction("u1", 1, 1, 2, 1)}
	results := []models.Result{result(1, 1, 2, 1)}

	agg := Aggregate(preds, results, users)

	assert.Equal(t, 1, agg.Size())
	assert.Empty(t, agg.UserWeeks("u2"))
}

func TestAggregateEmptySnapshots(t *testing.T) {
	agg := Aggregate(nil, nil, nil)
	assert.Zero(t, agg.Size())
	assert.Zero(t, agg.Orphaned)
}
