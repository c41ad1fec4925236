package models

// PredictionRequest is the payload for submitting a score prediction
type PredictionRequest struct {
	UserID        string `json:"user_id" validate:"required,uuid4"`
	FixtureID     uint   `json:"fixture_id" validate:"required"`
	Gameweek      int    `json:"gameweek" validate:"required,min=1,max=38"`
	PredictedHome int    `json:"predicted_home" validate:"min=0,max=99"`
	PredictedAway int    `json:"predicted_away" validate:"min=0,max=99"`
}

// ResultRequest is the payload for recording an official result
type ResultRequest struct {
	FixtureID  uint `json:"fixture_id" validate:"required"`
	Gameweek   int  `json:"gameweek" validate:"required,min=1,max=38"`
	ActualHome int  `json:"actual_home" validate:"min=0,max=99"`
	ActualAway int  `json:"actual_away" validate:"min=0,max=99"`
}

// RoleUpdateRequest promotes or demotes a user
type RoleUpdateRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// PredictionFilter enumerates the fields predictions may be queried by.
// Nil fields are not applied.
type PredictionFilter struct {
	UserID    *string
	FixtureID *uint
	Gameweek  *int
}

// ResultFilter enumerates the fields results may be queried by
type ResultFilter struct {
	FixtureID *uint
	Gameweek  *int
}

// FixtureFilter enumerates the fields fixtures may be queried by
type FixtureFilter struct {
	Gameweek *int
	HomeTeam *string
	AwayTeam *string
	Date     *string
}

// LeaderboardResponse wraps the full ranked leaderboard
type LeaderboardResponse struct {
	Leaderboard []LeaderboardRow `json:"leaderboard"`
	Total       int              `json:"total"`
}

// AdminOverview holds high-level numbers for the admin dashboard
type AdminOverview struct {
	TotalUsers       int64 `json:"total_users"`
	TotalPredictions int64 `json:"total_predictions"`
	TotalResults     int64 `json:"total_results"`
	TotalFixtures    int64 `json:"total_fixtures"`
	ScoredGameweeks  int   `json:"scored_gameweeks"`
	NextGameweek     int   `json:"next_gameweek"`
	CompletionPct    int   `json:"completion_pct"`
}

// AdminUserRow is one row of the admin user listing
type AdminUserRow struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	PredictionCount int    `json:"prediction_count"`
	TotalPoints     int    `json:"total_points"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
