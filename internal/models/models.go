package models

import (
	"time"
)

// Roles a user can hold. Only admins may enter results or manage users.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// TotalGameweeks is the number of rounds in a season.
const TotalGameweeks = 38

// User represents a registered participant in the competition
type User struct {
	ID        string    `gorm:"primarykey;type:uuid" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Role      string    `gorm:"size:20;not null;default:user" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// Fixture represents a single scheduled match in a gameweek
type Fixture struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Gameweek    int       `gorm:"not null;index" json:"gameweek"`
	Date        string    `gorm:"size:10;not null" json:"date"`
	Day         string    `gorm:"size:10" json:"day"`
	KickoffTime string    `gorm:"size:10" json:"kickoff_time"`
	HomeTeam    string    `gorm:"size:50;not null" json:"home_team"`
	AwayTeam    string    `gorm:"size:50;not null" json:"away_team"`
	Venue       string    `gorm:"size:100" json:"venue"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Fixture) TableName() string {
	return "fixtures"
}

// Prediction is a user's forecast of a fixture's final score.
// At most one prediction exists per (user_id, fixture_id).
type Prediction struct {
	ID            string    `gorm:"primarykey;type:uuid" json:"id"`
	UserID        string    `gorm:"type:uuid;not null;index;uniqueIndex:uix_user_fixture" json:"user_id"`
	FixtureID     uint      `gorm:"not null;index;uniqueIndex:uix_user_fixture" json:"fixture_id"`
	Gameweek      int       `gorm:"not null" json:"gameweek"`
	PredictedHome int       `gorm:"not null" json:"predicted_home"`
	PredictedAway int       `gorm:"not null" json:"predicted_away"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Prediction) TableName() string {
	return "predictions"
}

// Result is the official final score of a fixture, entered by an admin.
// At most one result exists per fixture.
type Result struct {
	ID         string    `gorm:"primarykey;type:uuid" json:"id"`
	FixtureID  uint      `gorm:"not null;uniqueIndex" json:"fixture_id"`
	Gameweek   int       `gorm:"not null" json:"gameweek"`
	ActualHome int       `gorm:"not null" json:"actual_home"`
	ActualAway int       `gorm:"not null" json:"actual_away"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Result) TableName() string {
	return "results"
}

// LeaderboardRow is a single ranked entry in the leaderboard output.
// PointsByGameweek carries all gameweeks 1..38; unscored weeks hold 0.
type LeaderboardRow struct {
	Rank             int         `json:"rank"`
	UserID           string      `json:"user_id"`
	Player           string      `json:"player"`
	PointsByGameweek map[int]int `json:"points_by_gameweek"`
	TotalPoints      int         `json:"total_points"`
}

// WeekPoints is one step of a user's weekly progression
type WeekPoints struct {
	Gameweek int `json:"gameweek"`
	Points   int `json:"points"`
}

// UserStatsBundle holds a single user's personal statistics
type UserStatsBundle struct {
	UserID             string       `json:"user_id"`
	Username           string       `json:"username"`
	TotalPoints        int          `json:"total_points"`
	PredictionsScored  int          `json:"predictions_scored"`
	ExactCount         int          `json:"exact_count"`
	CorrectResultCount int          `json:"correct_result_count"`
	WrongCount         int          `json:"wrong_count"`
	AccuracyPct        int          `json:"accuracy_pct"`
	BestGameweek       int          `json:"best_gameweek"`
	BestGameweekPoints int          `json:"best_gameweek_points"`
	WorstGameweekPts   int          `json:"worst_gameweek_points"`
	CurrentRank        int          `json:"current_rank"`
	TotalRankedPlayers int          `json:"total_ranked_players"`
	WeeklyProgression  []WeekPoints `json:"weekly_progression"`
}
