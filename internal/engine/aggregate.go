package engine

import (
	"predictor/internal/models"
)

// Aggregation holds per-user, per-gameweek point totals folded from the three
// input snapshots. A user appears only if they have at least one prediction
// whose author is still present in the user snapshot; a gameweek appears only
// once at least one of that user's predictions in it has been scored (possibly
// for zero points).
type Aggregation struct {
	points map[string]map[int]int

	// Orphaned counts predictions that referenced a user_id absent from the
	// user snapshot (e.g. a deleted account). They are excluded, never an error.
	Orphaned int
}

// Aggregate folds every prediction that has a matching result and an eligible
// author into per-user, per-gameweek totals. Points are bucketed by the
// prediction's stated gameweek, since that is what was scored against.
// Predictions whose fixture has no result yet contribute nothing.
func Aggregate(predictions []models.Prediction, results []models.Result, users []models.User) Aggregation {
	resultByFixture := make(map[uint]models.Result, len(results))
	for _, r := range results {
		resultByFixture[r.FixtureID] = r
	}

	eligible := make(map[string]struct{}, len(users))
	for _, u := range users {
		eligible[u.ID] = struct{}{}
	}

	agg := Aggregation{points: make(map[string]map[int]int)}

	for _, p := range predictions {
		if _, ok := eligible[p.UserID]; !ok {
			agg.Orphaned++
			continue
		}

		r, ok := resultByFixture[p.FixtureID]
		if !ok {
			continue // no result yet
		}

		pts := Score(p.PredictedHome, p.PredictedAway, r.ActualHome, r.ActualAway)
		weeks, ok := agg.points[p.UserID]
		if !ok {
			weeks = make(map[int]int)
			agg.points[p.UserID] = weeks
		}
		weeks[p.Gameweek] += pts
	}

	return agg
}

// UserWeeks returns the scored gameweek totals for one user. The returned map
// is a copy; mutating it does not affect the aggregation.
func (a Aggregation) UserWeeks(userID string) map[int]int {
	weeks := make(map[int]int, len(a.points[userID]))
	for gw, pts := range a.points[userID] {
		weeks[gw] = pts
	}
	return weeks
}

// Total returns the season total for one user, 0 if the user was not scored.
func (a Aggregation) Total(userID string) int {
	total := 0
	for _, pts := range a.points[userID] {
		total += pts
	}
	return total
}

// Size returns the number of users with at least one scored prediction
func (a Aggregation) Size() int {
	return len(a.points)
}
