// Package engine implements the pure scoring and leaderboard computation for
// the prediction competition. It performs no I/O and holds no state; every
// function is a pure transformation of the snapshots it is handed.
package engine

// Points awarded per scored prediction
const (
	PointsExact         = 5
	PointsCorrectResult = 2
	PointsWrong         = 0
)

// Score awards points for one (prediction, result) pair.
// Exact scoreline earns PointsExact, matching outcome (win/draw/loss category)
// earns PointsCorrectResult, anything else earns PointsWrong.
func Score(predictedHome, predictedAway, actualHome, actualAway int) int {
	if predictedHome == actualHome && predictedAway == actualAway {
		return PointsExact
	}
	if outcome(predictedHome, predictedAway) == outcome(actualHome, actualAway) {
		return PointsCorrectResult
	}
	return PointsWrong
}

// outcome maps a scoreline to its win/draw/loss category:
// 1 for a home win, -1 for an away win, 0 for a draw.
func outcome(home, away int) int {
	switch {
	case home > away:
		return 1
	case home < away:
		return -1
	default:
		return 0
	}
}
