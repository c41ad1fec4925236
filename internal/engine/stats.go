package engine

import (
	"errors"
	"math"
	"sort"

	"predictor/internal/models"
)

// ErrUserNotFound is returned when a stats query targets a user absent from
// the user snapshot.
var ErrUserNotFound = errors.New("user not found")

// UserStats derives one user's personal statistics from the same snapshots the
// leaderboard is built from. The competitive rank and population size come
// from ranking the full population; everything else is local to the target
// user's scored predictions.
func UserStats(predictions []models.Prediction, results []models.Result, users []models.User, userID string) (models.UserStatsBundle, error) {
	var target *models.User
	for i := range users {
		if users[i].ID == userID {
			target = &users[i]
			break
		}
	}
	if target == nil {
		return models.UserStatsBundle{}, ErrUserNotFound
	}

	resultByFixture := make(map[uint]models.Result, len(results))
	for _, r := range results {
		resultByFixture[r.FixtureID] = r
	}

	bundle := models.UserStatsBundle{
		UserID:   target.ID,
		Username: target.Username,
	}

	for _, p := range predictions {
		if p.UserID != userID {
			continue
		}
		r, ok := resultByFixture[p.FixtureID]
		if !ok {
			continue
		}
		bundle.PredictionsScored++
		switch Score(p.PredictedHome, p.PredictedAway, r.ActualHome, r.ActualAway) {
		case PointsExact:
			bundle.ExactCount++
		case PointsCorrectResult:
			bundle.CorrectResultCount++
		default:
			bundle.WrongCount++
		}
	}

	if bundle.PredictionsScored > 0 {
		hit := float64(bundle.ExactCount + bundle.CorrectResultCount)
		bundle.AccuracyPct = int(math.Round(hit / float64(bundle.PredictionsScored) * 100))
	}

	agg := Aggregate(predictions, results, users)
	weeks := agg.UserWeeks(userID)
	bundle.TotalPoints = agg.Total(userID)

	scoredWeeks := make([]int, 0, len(weeks))
	for gw := range weeks {
		scoredWeeks = append(scoredWeeks, gw)
	}
	sort.Ints(scoredWeeks)

	for i, gw := range scoredWeeks {
		pts := weeks[gw]
		bundle.WeeklyProgression = append(bundle.WeeklyProgression, models.WeekPoints{Gameweek: gw, Points: pts})

		// Ties for best go to the earliest gameweek.
		if i == 0 || pts > bundle.BestGameweekPoints {
			bundle.BestGameweek = gw
			bundle.BestGameweekPoints = pts
		}
		if i == 0 || pts < bundle.WorstGameweekPts {
			bundle.WorstGameweekPts = pts
		}
	}

	rows := Rank(agg, users)
	bundle.TotalRankedPlayers = len(rows)
	for _, row := range rows {
		if row.UserID == userID {
			bundle.CurrentRank = row.Rank
			break
		}
	}

	return bundle, nil
}
