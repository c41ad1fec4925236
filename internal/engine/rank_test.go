package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"predictor/internal/models"
)

func TestRankOrdersByTotalDescending(t *testing.T) {
	users := []models.User{user("a", "alice"), user("b", "bob")}
	preds := []models.Prediction{
		prediction("a", 1, 1, 2, 1), // exact, 5
		prediction("a", 2, 2, 1, 0), // correct result, 2
		prediction("b", 1, 1, 2, 1), // exact, 5
		prediction("b", 2, 2, 0, 0), // wrong, 0
	}
	results := []models.Result{
		result(1, 1, 2, 1),
		result(2, 2, 3, 1),
	}

	rows := Rank(Aggregate(preds, results, users), users)

	require.Len(t, rows, 2)
	assert.Equal(t, "alice", rows[0].Player)
	assert.Equal(t, 7, rows[0].TotalPoints)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "bob", rows[1].Player)
	assert.Equal(t, 5, rows[1].TotalPoints)
	assert.Equal(t, 2, rows[1].Rank)
}

func TestRankTiesGetConsecutiveRanks(t *testing.T) {
	users := []models.User{user("b", "bob"), user("a", "alice")}
	preds := []models.Prediction{
		prediction("a", 1, 1, 2, 1),
		prediction("b", 1, 1, 2, 1),
	}
	results := []models.Result{result(1, 1, 2, 1)}

	rows := Rank(Aggregate(preds, results, users), users)

	require.Len(t, rows, 2)
	// Equal totals: ranks stay strictly positional, tie broken by user ID.
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 2, rows[1].Rank)
	assert.Equal(t, "a", rows[0].UserID)
	assert.Equal(t, "b", rows[1].UserID)
}

func TestRankIsIdempotent(t *testing.T) {
	users := []models.User{user("a", "alice"), user("b", "bob"), user("c", "carol")}
	preds := []models.Prediction{
		prediction("a", 1, 1, 2, 1),
		prediction("b", 1, 1, 3, 0),
		prediction("c", 1, 1, 0, 0),
	}
	results := []models.Result{result(1, 1, 2, 1)}

	agg := Aggregate(preds, results, users)
	first := Rank(agg, users)
	second := Rank(Aggregate(preds, results, users), users)

	assert.Equal(t, first, second)
}

func TestRankMonotonicAndSumLaw(t *testing.T) {
	users := []models.User{user("a", "alice"), user("b", "bob"), user("c", "carol")}
	preds := []models.Prediction{
		prediction("a", 1, 1, 2, 1),
		prediction("a", 2, 5, 1, 1),
		prediction("b", 1, 1, 1, 0),
		prediction("c", 2, 5, 0, 4),
	}
	results := []models.Result{
		result(1, 1, 2, 1),
		result(2, 5, 1, 1),
	}

	rows := Rank(Aggregate(preds, results, users), users)
	require.NotEmpty(t, rows)

	for i, row := range rows {
		sum := 0
		for gw := 1; gw <= models.TotalGameweeks; gw++ {
			sum += row.PointsByGameweek[gw]
		}
		assert.Equal(t, row.TotalPoints, sum, "total must equal the sum of gameweek buckets")
		assert.Len(t, row.PointsByGameweek, models.TotalGameweeks)

		if i > 0 {
			assert.Less(t, rows[i-1].Rank, row.Rank)
			assert.GreaterOrEqual(t, rows[i-1].TotalPoints, row.TotalPoints)
		}
	}
}

func TestRankEmptyAggregation(t *testing.T) {
	rows := Rank(Aggregate(nil, nil, nil), nil)
	assert.Empty(t, rows)
}
