package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobin_EveryPairMeetsOnce(t *testing.T) {
	pairings, err := RoundRobin([]int{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Len(t, pairings, 6)

	seen := make(map[[2]int]bool)
	for _, p := range pairings {
		key := [2]int{p.HomeID, p.AwayID}
		if p.HomeID > p.AwayID {
			key = [2]int{p.AwayID, p.HomeID}
		}
		assert.False(t, seen[key], "pair %v scheduled twice", key)
		seen[key] = true
	}
	assert.Len(t, seen, 6)
}

func TestRoundRobin_OddCountGetsByes(t *testing.T) {
	pairings, err := RoundRobin([]int{1, 2, 3})
	require.NoError(t, err)
	assert.Len(t, pairings, 3)

	for _, p := range pairings {
		assert.NotZero(t, p.HomeID)
		assert.NotZero(t, p.AwayID)
	}
}

func TestRoundRobin_NoPlayerTwicePerRound(t *testing.T) {
	pairings, err := RoundRobin([]int{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	byRound := make(map[int]map[int]bool)
	for _, p := range pairings {
		if byRound[p.Round] == nil {
			byRound[p.Round] = make(map[int]bool)
		}
		assert.False(t, byRound[p.Round][p.HomeID], "player %d plays twice in round %d", p.HomeID, p.Round)
		assert.False(t, byRound[p.Round][p.AwayID], "player %d plays twice in round %d", p.AwayID, p.Round)
		byRound[p.Round][p.HomeID] = true
		byRound[p.Round][p.AwayID] = true
	}
}

func TestRoundRobin_TooFewPlayers(t *testing.T) {
	_, err := RoundRobin([]int{1})
	assert.Error(t, err)

	_, err = RoundRobin(nil)
	assert.Error(t, err)
}
