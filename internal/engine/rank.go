package engine

import (
	"sort"

	"predictor/internal/models"
)

// Rank orders an aggregation into the full leaderboard. Rows are sorted by
// total points descending with 1-based strict positional ranks: equal totals
// receive consecutive, not equal, rank numbers. Ties are broken by user ID
// ascending so identical snapshots always produce identical output.
// Every row carries all 38 gameweek buckets; unscored weeks hold 0.
func Rank(agg Aggregation, users []models.User) []models.LeaderboardRow {
	nameByID := make(map[string]string, len(users))
	for _, u := range users {
		nameByID[u.ID] = u.Username
	}

	rows := make([]models.LeaderboardRow, 0, agg.Size())
	for userID := range agg.points {
		byWeek := make(map[int]int, models.TotalGameweeks)
		total := 0
		for gw := 1; gw <= models.TotalGameweeks; gw++ {
			pts := agg.points[userID][gw]
			byWeek[gw] = pts
			total += pts
		}
		rows = append(rows, models.LeaderboardRow{
			UserID:           userID,
			Player:           nameByID[userID],
			PointsByGameweek: byWeek,
			TotalPoints:      total,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalPoints != rows[j].TotalPoints {
			return rows[i].TotalPoints > rows[j].TotalPoints
		}
		return rows[i].UserID < rows[j].UserID
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}

	return rows
}
