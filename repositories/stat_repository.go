package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/asopadel/padel-system/models"
)

var ErrStatNotFound = errors.New("player statistic not found")

type StatRepository interface {
	// GetOrCreate returns the stat row for (player, category), creating an
	// empty one if it does not exist yet.
	GetOrCreate(ctx context.Context, exec SQLExecutor, playerID int, categoryID *int) (*models.PlayerStat, error)
	AddResult(ctx context.Context, exec SQLExecutor, statID int, won bool) error
	ListByPlayer(ctx context.Context, playerID int) ([]*models.PlayerStat, error)
	DeleteAll(ctx context.Context, exec SQLExecutor) error
}

type postgresStatRepository struct {
	db *sql.DB
}

func NewPostgresStatRepository(db *sql.DB) StatRepository {
	return &postgresStatRepository{db: db}
}

const statColumns = `id, player_id, category_id, matches_played, wins, losses`

func scanStat(row interface{ Scan(...interface{}) error }) (*models.PlayerStat, error) {
	s := &models.PlayerStat{}
	err := row.Scan(&s.ID, &s.PlayerID, &s.CategoryID, &s.MatchesPlayed, &s.Wins, &s.Losses)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *postgresStatRepository) GetOrCreate(ctx context.Context, exec SQLExecutor, playerID int, categoryID *int) (*models.PlayerStat, error) {
	if exec == nil {
		exec = r.db
	}
	// The unique constraint treats NULL categories as equal, so the upsert is
	// race-free for both categorized and uncategorized stats.
	query := `
		INSERT INTO player_stats (player_id, category_id)
		VALUES ($1, $2)
		ON CONFLICT (player_id, category_id) DO UPDATE SET player_id = EXCLUDED.player_id
		RETURNING ` + statColumns

	stat, err := scanStat(exec.QueryRowContext(ctx, query, playerID, categoryID))
	if err != nil {
		return nil, fmt.Errorf("failed to get or create stat for player %d: %w", playerID, err)
	}
	return stat, nil
}

func (r *postgresStatRepository) AddResult(ctx context.Context, exec SQLExecutor, statID int, won bool) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE player_stats
		SET matches_played = matches_played + 1,
		    wins = wins + CASE WHEN $1 THEN 1 ELSE 0 END,
		    losses = losses + CASE WHEN $1 THEN 0 ELSE 1 END
		WHERE id = $2`

	result, err := exec.ExecContext(ctx, query, won, statID)
	if err != nil {
		return fmt.Errorf("AddResult: failed to execute query for stat %d: %w", statID, err)
	}
	return checkAffectedRows(result, ErrStatNotFound)
}

func (r *postgresStatRepository) ListByPlayer(ctx context.Context, playerID int) ([]*models.PlayerStat, error) {
	query := `SELECT ` + statColumns + ` FROM player_stats WHERE player_id = $1 ORDER BY category_id NULLS FIRST`

	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats for player %d: %w", playerID, err)
	}
	defer rows.Close()

	stats := make([]*models.PlayerStat, 0)
	for rows.Next() {
		stat, scanErr := scanStat(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan stat row: %w", scanErr)
		}
		stats = append(stats, stat)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during stat rows iteration: %w", err)
	}
	return stats, nil
}

func (r *postgresStatRepository) DeleteAll(ctx context.Context, exec SQLExecutor) error {
	if exec == nil {
		exec = r.db
	}
	if _, err := exec.ExecContext(ctx, `DELETE FROM player_stats`); err != nil {
		return fmt.Errorf("failed to delete player stats: %w", err)
	}
	return nil
}
