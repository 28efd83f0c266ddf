package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asopadel/padel-system/models"
)

func intPtr(v int) *int         { return &v }
func strPtr(s string) *string   { return &s }
func player(id int) models.User { return models.User{ID: id, Rating: 1200} }

func TestResolveWinner_ExplicitIndicatorWinsOverScore(t *testing.T) {
	match := &models.Match{
		WinnerTeam: intPtr(2),
		Score:      strPtr("2-1"), // says team 1 won, must be ignored
	}
	team1 := []models.User{player(1)}
	team2 := []models.User{player(2)}

	winners, losers, err := resolveWinner(match, team1, team2)
	require.NoError(t, err)
	assert.Equal(t, 2, winners[0].ID)
	assert.Equal(t, 1, losers[0].ID)
}

func TestResolveWinner_LegacyScoreFallback(t *testing.T) {
	match := &models.Match{Score: strPtr("2-1")}
	team1 := []models.User{player(1)}
	team2 := []models.User{player(2)}

	winners, losers, err := resolveWinner(match, team1, team2)
	require.NoError(t, err)
	assert.Equal(t, 1, winners[0].ID)
	assert.Equal(t, 2, losers[0].ID)
}

func TestResolveWinner_ScoreWithSpaces(t *testing.T) {
	match := &models.Match{Score: strPtr("0 - 2")}
	winners, _, err := resolveWinner(match, []models.User{player(1)}, []models.User{player(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, winners[0].ID)
}

func TestResolveWinner_DrawScoreUnresolvable(t *testing.T) {
	match := &models.Match{Score: strPtr("1-1")}
	_, _, err := resolveWinner(match, []models.User{player(1)}, []models.User{player(2)})
	assert.ErrorIs(t, err, ErrMatchOutcomeUnresolvable)
}

func TestResolveWinner_ScoreIgnoredForDoubles(t *testing.T) {
	// A set score cannot pick a winner when sides field two players each.
	match := &models.Match{Score: strPtr("2-0")}
	team1 := []models.User{player(1), player(2)}
	team2 := []models.User{player(3), player(4)}

	_, _, err := resolveWinner(match, team1, team2)
	assert.ErrorIs(t, err, ErrMatchOutcomeUnresolvable)
}

func TestResolveWinner_NoOutcomeSources(t *testing.T) {
	match := &models.Match{}
	_, _, err := resolveWinner(match, []models.User{player(1)}, []models.User{player(2)})
	assert.ErrorIs(t, err, ErrMatchOutcomeUnresolvable)
}

func TestResolveWinner_RosterValidation(t *testing.T) {
	match := &models.Match{WinnerTeam: intPtr(1)}

	t.Run("empty side", func(t *testing.T) {
		_, _, err := resolveWinner(match, nil, []models.User{player(2)})
		assert.ErrorIs(t, err, ErrMatchRosterSize)
	})

	t.Run("oversized side", func(t *testing.T) {
		team1 := []models.User{player(1), player(2), player(3)}
		_, _, err := resolveWinner(match, team1, []models.User{player(4)})
		assert.ErrorIs(t, err, ErrMatchRosterSize)
	})

	t.Run("player on both sides", func(t *testing.T) {
		_, _, err := resolveWinner(match, []models.User{player(1)}, []models.User{player(1)})
		assert.ErrorIs(t, err, ErrMatchRosterOverlap)
	})
}

func TestValidateRosters(t *testing.T) {
	assert.NoError(t, validateRosters([]int{1}, []int{2}))
	assert.NoError(t, validateRosters([]int{1, 2}, []int{3, 4}))
	assert.ErrorIs(t, validateRosters(nil, []int{2}), ErrMatchRosterSize)
	assert.ErrorIs(t, validateRosters([]int{1, 2, 3}, []int{4}), ErrMatchRosterSize)
	assert.ErrorIs(t, validateRosters([]int{1, 2}, []int{2, 3}), ErrMatchRosterOverlap)
	assert.ErrorIs(t, validateRosters([]int{1, 1}, []int{2}), ErrMatchRosterOverlap)
}

func TestParseSetScore(t *testing.T) {
	tests := []struct {
		input   string
		sets1   int
		sets2   int
		wantErr bool
	}{
		{input: "2-1", sets1: 2, sets2: 1},
		{input: "0-2", sets1: 0, sets2: 2},
		{input: " 2 - 0 ", sets1: 2, sets2: 0},
		{input: "abc", wantErr: true},
		{input: "2-1-0", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s1, s2, err := parseSetScore(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.sets1, s1)
			assert.Equal(t, tt.sets2, s2)
		})
	}
}

func TestPlayerRatings(t *testing.T) {
	players := []models.User{{ID: 1, Rating: 1300}, {ID: 2, Rating: 1100}}
	assert.Equal(t, []int{1300, 1100}, playerRatings(players))
}

func TestCheckFinalizable(t *testing.T) {
	assert.NoError(t, checkFinalizable(&models.Match{Status: models.MatchStatusScheduled}))
	assert.NoError(t, checkFinalizable(&models.Match{Status: models.MatchStatusConfirmed}))

	err := checkFinalizable(&models.Match{ID: 3, Status: models.MatchStatusFinalized})
	assert.ErrorIs(t, err, ErrMatchAlreadyFinalized)

	err = checkFinalizable(&models.Match{ID: 4, Status: models.MatchStatusCanceled})
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.NotErrorIs(t, err, ErrMatchNotCancelable)
}

func TestOutcomeUnusable(t *testing.T) {
	assert.True(t, outcomeUnusable(ErrMatchOutcomeUnresolvable))
	assert.True(t, outcomeUnusable(fmt.Errorf("%w: drawn score %q", ErrMatchOutcomeUnresolvable, "1-1")))
	assert.True(t, outcomeUnusable(ErrMatchRosterSize))
	assert.True(t, outcomeUnusable(ErrMatchRosterOverlap))
	assert.True(t, outcomeUnusable(ErrMatchWinnerInvalid))

	// Storage failures must stay fatal for a rebuild.
	assert.False(t, outcomeUnusable(errors.New("connection reset")))
	assert.False(t, outcomeUnusable(ErrMatchNotFound))
}
