package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayerStatWinPercentage(t *testing.T) {
	assert.Equal(t, 0.0, PlayerStat{}.WinPercentage())
	assert.Equal(t, 50.0, PlayerStat{MatchesPlayed: 4, Wins: 2, Losses: 2}.WinPercentage())
	assert.Equal(t, 100.0, PlayerStat{MatchesPlayed: 3, Wins: 3}.WinPercentage())
	assert.InDelta(t, 33.33, PlayerStat{MatchesPlayed: 3, Wins: 1, Losses: 2}.WinPercentage(), 0.01)
}

func TestPlayerStatWinLossRatio(t *testing.T) {
	assert.Equal(t, 0.0, PlayerStat{}.WinLossRatio())
	// Undefeated players report their raw win count.
	assert.Equal(t, 5.0, PlayerStat{MatchesPlayed: 5, Wins: 5}.WinLossRatio())
	assert.Equal(t, 2.0, PlayerStat{MatchesPlayed: 6, Wins: 4, Losses: 2}.WinLossRatio())
	assert.Equal(t, 0.5, PlayerStat{MatchesPlayed: 3, Wins: 1, Losses: 2}.WinLossRatio())
}
