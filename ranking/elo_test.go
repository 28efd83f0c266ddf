package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWinProbability_Complementary(t *testing.T) {
	pairs := [][2]float64{
		{1200, 1200},
		{1500, 1200},
		{1000, 2400},
		{0, 3000},
		{1310.5, 1289.25},
	}
	for _, p := range pairs {
		pa := WinProbability(p[0], p[1])
		pb := WinProbability(p[1], p[0])
		assert.InDelta(t, 1.0, pa+pb, 1e-9, "P(a,b)+P(b,a) must be 1 for %v", p)
	}
}

func TestWinProbability_EqualRatings(t *testing.T) {
	for _, r := range []float64{0, 800, 1200, 2500} {
		assert.Equal(t, 0.5, WinProbability(r, r))
	}
}

func TestWinProbability_Saturation(t *testing.T) {
	high := WinProbability(3000, 100)
	low := WinProbability(100, 3000)
	assert.Greater(t, high, 0.999)
	assert.Less(t, high, 1.0)
	assert.Less(t, low, 0.001)
	assert.Greater(t, low, 0.0)
}

func TestNewRating_EvenMatch(t *testing.T) {
	// Two 1200 players, A wins: expected probability 0.5, K=32.
	p := WinProbability(1200, 1200)
	assert.Equal(t, 1216, NewRating(1200, 1, p, DefaultK))
	assert.Equal(t, 1184, NewRating(1200, 0, 1-p, DefaultK))
}

func TestDelta_TeamScenario(t *testing.T) {
	// Team mean 1300 beats team mean 1000.
	p := WinProbability(1300, 1000)
	assert.InDelta(t, 0.849, p, 0.001)
	assert.Equal(t, 5, Delta(DefaultK, 1, p))
	assert.Equal(t, -5, Delta(DefaultK, 0, 1-p))
}

func TestDelta_Monotonic(t *testing.T) {
	for _, diff := range []float64{-800, -400, -50, 0, 50, 400, 800} {
		p := WinProbability(1200+diff, 1200)
		assert.GreaterOrEqual(t, Delta(DefaultK, 1, p), 0, "winner never loses points")
		assert.LessOrEqual(t, Delta(DefaultK, 0, 1-p), 0, "loser never gains points")
	}
}

func TestEffective(t *testing.T) {
	assert.Equal(t, BaseRating, Effective(0))
	assert.Equal(t, BaseRating, Effective(-10))
	assert.Equal(t, 1, Effective(1))
	assert.Equal(t, 1450, Effective(1450))
}

func TestTeamAverage(t *testing.T) {
	assert.Equal(t, 1300.0, TeamAverage([]int{1200, 1400}))
	assert.Equal(t, 1000.0, TeamAverage([]int{1000, 1000}))
	// Unset ratings count as the base rating.
	assert.Equal(t, 1250.0, TeamAverage([]int{0, 1300}))
	assert.Equal(t, float64(BaseRating), TeamAverage(nil))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-4))
	assert.Equal(t, 0, Clamp(0))
	assert.Equal(t, 995, Clamp(995))
}
