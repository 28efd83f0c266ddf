package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/asopadel/padel-system/models"
)

var ErrCourtNotFound = errors.New("court not found")

type CourtRepository interface {
	Create(ctx context.Context, court *models.Court) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Court, error)
	// LockByID reads the court row FOR UPDATE so concurrent reservation
	// attempts for the same court serialize on it.
	LockByID(ctx context.Context, exec SQLExecutor, id int) (*models.Court, error)
	List(ctx context.Context) ([]*models.Court, error)
	Update(ctx context.Context, court *models.Court) error
	UpdateState(ctx context.Context, id int, state models.CourtState) error
	UpdateImageKey(ctx context.Context, id int, key *string) error
	Delete(ctx context.Context, id int) error
}

type postgresCourtRepository struct {
	db *sql.DB
}

func NewPostgresCourtRepository(db *sql.DB) CourtRepository {
	return &postgresCourtRepository{db: db}
}

const courtColumns = `id, name, location, state, price_per_hour, opening_time, closing_time, description, image_key`

func scanCourt(row interface{ Scan(...interface{}) error }) (*models.Court, error) {
	c := &models.Court{}
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Location,
		&c.State,
		&c.PricePerHour,
		&c.OpeningTime,
		&c.ClosingTime,
		&c.Description,
		&c.ImageKey,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresCourtRepository) Create(ctx context.Context, court *models.Court) error {
	query := `
		INSERT INTO courts (name, location, state, price_per_hour, opening_time, closing_time, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		court.Name,
		court.Location,
		court.State,
		court.PricePerHour,
		court.OpeningTime,
		court.ClosingTime,
		court.Description,
	).Scan(&court.ID)
	if err != nil {
		return fmt.Errorf("failed to create court: %w", err)
	}
	return nil
}

func (r *postgresCourtRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Court, error) {
	if exec == nil {
		exec = r.db
	}
	court, err := scanCourt(exec.QueryRowContext(ctx, `SELECT `+courtColumns+` FROM courts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourtNotFound
		}
		return nil, fmt.Errorf("failed to scan court by id %d: %w", id, err)
	}
	return court, nil
}

func (r *postgresCourtRepository) LockByID(ctx context.Context, exec SQLExecutor, id int) (*models.Court, error) {
	if exec == nil {
		exec = r.db
	}
	court, err := scanCourt(exec.QueryRowContext(ctx, `SELECT `+courtColumns+` FROM courts WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourtNotFound
		}
		return nil, fmt.Errorf("failed to lock court %d: %w", id, err)
	}
	return court, nil
}

func (r *postgresCourtRepository) List(ctx context.Context) ([]*models.Court, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+courtColumns+` FROM courts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query courts: %w", err)
	}
	defer rows.Close()

	courts := make([]*models.Court, 0)
	for rows.Next() {
		court, scanErr := scanCourt(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan court row: %w", scanErr)
		}
		courts = append(courts, court)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during court rows iteration: %w", err)
	}
	return courts, nil
}

func (r *postgresCourtRepository) Update(ctx context.Context, court *models.Court) error {
	query := `
		UPDATE courts
		SET name = $1, location = $2, state = $3, price_per_hour = $4,
		    opening_time = $5, closing_time = $6, description = $7
		WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		court.Name,
		court.Location,
		court.State,
		court.PricePerHour,
		court.OpeningTime,
		court.ClosingTime,
		court.Description,
		court.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCourtNotFound)
}

func (r *postgresCourtRepository) UpdateState(ctx context.Context, id int, state models.CourtState) error {
	result, err := r.db.ExecContext(ctx, `UPDATE courts SET state = $1 WHERE id = $2`, state, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCourtNotFound)
}

func (r *postgresCourtRepository) UpdateImageKey(ctx context.Context, id int, key *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE courts SET image_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCourtNotFound)
}

func (r *postgresCourtRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM courts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCourtNotFound)
}
