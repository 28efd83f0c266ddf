package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusConfirmed MatchStatus = "confirmed"
	MatchStatusFinalized MatchStatus = "finalized"
	MatchStatusCanceled  MatchStatus = "canceled"
)

// Match is a padel match between two team rosters of 1-2 players each.
// WinnerTeam is 1 or 2 once the result is in; RatingApplied guards the
// rating/statistics update so a finalized match is processed at most once.
type Match struct {
	ID            int         `json:"id" db:"id"`
	TournamentID  int         `json:"tournament_id" db:"tournament_id"`
	CourtID       *int        `json:"court_id,omitempty" db:"court_id"`
	RefereeID     *int        `json:"referee_id,omitempty" db:"referee_id"`
	Date          time.Time   `json:"date" db:"date"`
	StartTime     string      `json:"start_time" db:"start_time"` // "HH:MM"
	Score         *string     `json:"score,omitempty" db:"score"`
	Status        MatchStatus `json:"status" db:"status"`
	WinnerTeam    *int        `json:"winner_team,omitempty" db:"winner_team"`
	ResultEdits   int         `json:"result_edits" db:"result_edits"`
	RatingApplied bool        `json:"-" db:"rating_applied"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`

	Team1 []User `json:"team1,omitempty" db:"-"`
	Team2 []User `json:"team2,omitempty" db:"-"`

	Court      *Court      `json:"court,omitempty" db:"-"`
	Tournament *Tournament `json:"tournament,omitempty" db:"-"`
}

// PlayerStat is the cumulative win/loss record of a player within a category
// (nil category covers uncategorized play). Invariant: Wins + Losses equals
// MatchesPlayed.
type PlayerStat struct {
	ID            int  `json:"id" db:"id"`
	PlayerID      int  `json:"player_id" db:"player_id"`
	CategoryID    *int `json:"category_id,omitempty" db:"category_id"`
	MatchesPlayed int  `json:"matches_played" db:"matches_played"`
	Wins          int  `json:"wins" db:"wins"`
	Losses        int  `json:"losses" db:"losses"`

	Player *User `json:"player,omitempty" db:"-"`
}

// WinPercentage reports wins over matches played as a percentage, 0 when the
// player has not played yet.
func (s PlayerStat) WinPercentage() float64 {
	if s.MatchesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.MatchesPlayed) * 100
}

// WinLossRatio reports wins per loss. With zero losses the raw win count is
// returned instead of dividing by zero.
func (s PlayerStat) WinLossRatio() float64 {
	if s.Losses == 0 {
		return float64(s.Wins)
	}
	return float64(s.Wins) / float64(s.Losses)
}
