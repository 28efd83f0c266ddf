package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/asopadel/padel-system/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
	ErrMatchCourtInvalid      = errors.New("match court conflict or invalid")
	ErrMatchPlayerInvalid     = errors.New("match player conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match, team1IDs, team2IDs []int) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	// GetByIDForUpdate locks the match row so concurrent finalize attempts
	// serialize and the rating_applied guard stays race-free.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	GetRosters(ctx context.Context, exec SQLExecutor, matchID int) (team1, team2 []models.User, err error)
	ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error)
	ListByPlayer(ctx context.Context, playerID int) ([]*models.Match, error)
	ListByCourtAndDate(ctx context.Context, courtID int, date string) ([]*models.Match, error)
	ListFinalizedChronological(ctx context.Context, exec SQLExecutor) ([]*models.Match, error)
	ListToday(ctx context.Context) ([]*models.Match, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, id int, score *string, status models.MatchStatus, winnerTeam *int, resultEdits int) error
	MarkRatingApplied(ctx context.Context, exec SQLExecutor, id int) error
	UpdateStatus(ctx context.Context, id int, status models.MatchStatus) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, tournament_id, court_id, referee_id, date, start_time, score, status, winner_team, result_edits, rating_applied, created_at`

func scanMatch(row interface{ Scan(...interface{}) error }) (*models.Match, error) {
	m := &models.Match{}
	err := row.Scan(
		&m.ID,
		&m.TournamentID,
		&m.CourtID,
		&m.RefereeID,
		&m.Date,
		&m.StartTime,
		&m.Score,
		&m.Status,
		&m.WinnerTeam,
		&m.ResultEdits,
		&m.RatingApplied,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, match *models.Match, team1IDs, team2IDs []int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin match create transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO matches (tournament_id, court_id, referee_id, date, start_time, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err = tx.QueryRowContext(ctx, query,
		match.TournamentID,
		match.CourtID,
		match.RefereeID,
		match.Date,
		match.StartTime,
		match.Status,
	).Scan(&match.ID, &match.CreatedAt)
	if err != nil {
		return r.handleMatchError(err)
	}

	for team, ids := range map[int][]int{1: team1IDs, 2: team2IDs} {
		for _, userID := range ids {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO match_players (match_id, user_id, team) VALUES ($1, $2, $3)`,
				match.ID, userID, team); err != nil {
				return r.handleMatchError(err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit match create transaction: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	if exec == nil {
		exec = r.db
	}
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	match, err := scanMatch(exec.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	if exec == nil {
		exec = r.db
	}
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 FOR UPDATE`
	match, err := scanMatch(exec.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to lock match %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) GetRosters(ctx context.Context, exec SQLExecutor, matchID int) ([]models.User, []models.User, error) {
	if exec == nil {
		exec = r.db
	}
	query := `
		SELECT mp.team, ` + prefixedUserColumns("u") + `
		FROM match_players mp
		JOIN users u ON u.id = mp.user_id
		WHERE mp.match_id = $1
		ORDER BY mp.team, u.id`

	rows, err := exec.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query rosters for match %d: %w", matchID, err)
	}
	defer rows.Close()

	var team1, team2 []models.User
	for rows.Next() {
		var team int
		user := models.User{}
		if scanErr := rows.Scan(
			&team,
			&user.ID,
			&user.Cedula,
			&user.FirstName,
			&user.LastName,
			&user.Email,
			&user.Phone,
			&user.Role,
			&user.PlayerCategory,
			&user.Rating,
			&user.PasswordHash,
			&user.PhotoKey,
			&user.Active,
			&user.CreatedAt,
		); scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan roster row: %w", scanErr)
		}
		if team == 1 {
			team1 = append(team1, user)
		} else {
			team2 = append(team2, user)
		}
	}
	if err = rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error during roster rows iteration: %w", err)
	}
	return team1, team2, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	if statusFilter != nil {
		queryBuilder.WriteString(" AND status = $" + strconv.Itoa(len(args)+1))
		args = append(args, *statusFilter)
	}
	queryBuilder.WriteString(" ORDER BY date ASC, start_time ASC, id ASC")

	return r.queryMatches(ctx, r.db, queryBuilder.String(), args...)
}

func (r *postgresMatchRepository) ListByPlayer(ctx context.Context, playerID int) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + ` FROM matches
		WHERE id IN (SELECT match_id FROM match_players WHERE user_id = $1)
		ORDER BY date DESC, start_time DESC`
	return r.queryMatches(ctx, r.db, query, playerID)
}

func (r *postgresMatchRepository) ListByCourtAndDate(ctx context.Context, courtID int, date string) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + ` FROM matches
		WHERE court_id = $1 AND date = $2 AND status != 'canceled'
		ORDER BY start_time ASC`
	return r.queryMatches(ctx, r.db, query, courtID, date)
}

func (r *postgresMatchRepository) ListFinalizedChronological(ctx context.Context, exec SQLExecutor) ([]*models.Match, error) {
	if exec == nil {
		exec = r.db
	}
	query := `
		SELECT ` + matchColumns + ` FROM matches
		WHERE status = 'finalized'
		ORDER BY date ASC, start_time ASC, id ASC`
	return r.queryMatches(ctx, exec, query)
}

func (r *postgresMatchRepository) ListToday(ctx context.Context) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE date = CURRENT_DATE AND status != 'canceled' ORDER BY start_time ASC`
	return r.queryMatches(ctx, r.db, query)
}

func (r *postgresMatchRepository) queryMatches(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, id int, score *string, status models.MatchStatus, winnerTeam *int, resultEdits int) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE matches
		SET score = $1, status = $2, winner_team = $3, result_edits = $4
		WHERE id = $5`

	result, err := exec.ExecContext(ctx, query, score, status, winnerTeam, resultEdits, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) MarkRatingApplied(ctx context.Context, exec SQLExecutor, id int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `UPDATE matches SET rating_applied = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("MarkRatingApplied: failed to execute query for match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, id int, status models.MatchStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE matches SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_court_id_fkey":
			return ErrMatchCourtInvalid
		case "match_players_user_id_fkey", "match_players_match_id_fkey":
			return ErrMatchPlayerInvalid
		}
	}
	return err
}
