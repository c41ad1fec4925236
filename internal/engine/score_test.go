package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name                   string
		predHome, predAway     int
		actualHome, actualAway int
		want                   int
	}{
		{"exact scoreline", 2, 1, 2, 1, PointsExact},
		{"exact nil-nil draw", 0, 0, 0, 0, PointsExact},
		{"exact away win", 0, 3, 0, 3, PointsExact},
		{"correct home win, wrong scoreline", 3, 1, 2, 0, PointsCorrectResult},
		{"correct away win, wrong scoreline", 0, 1, 1, 3, PointsCorrectResult},
		{"correct draw, wrong scoreline", 2, 2, 1, 1, PointsCorrectResult},
		{"predicted draw, home win happened", 1, 1, 2, 0, PointsWrong},
		{"predicted home win, away win happened", 2, 0, 0, 1, PointsWrong},
		{"predicted away win, draw happened", 0, 2, 1, 1, PointsWrong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.predHome, tt.predAway, tt.actualHome, tt.actualAway)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreAlwaysInPointScale(t *testing.T) {
	for ph := 0; ph <= 4; ph++ {
		for pa := 0; pa <= 4; pa++ {
			for ah := 0; ah <= 4; ah++ {
				for aa := 0; aa <= 4; aa++ {
					pts := Score(ph, pa, ah, aa)
					assert.Contains(t, []int{PointsWrong, PointsCorrectResult, PointsExact}, pts)
				}
			}
		}
	}
}

func TestScoreExactEqualityAlwaysFive(t *testing.T) {
	for home := 0; home <= 6; home++ {
		for away := 0; away <= 6; away++ {
			assert.Equal(t, PointsExact, Score(home, away, home, away))
		}
	}
}
