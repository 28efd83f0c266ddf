package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/asopadel/padel-system/models"
	"github.com/lib/pq"
)

var (
	ErrReservationNotFound      = errors.New("reservation not found")
	ErrReservationCourtInvalid  = errors.New("reservation court conflict or invalid")
	ErrReservationPlayerInvalid = errors.New("reservation player conflict or invalid")
)

type ReservationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, res *models.Reservation) error
	GetByID(ctx context.Context, id int) (*models.Reservation, error)
	// ListActiveByCourtAndDate returns the non-canceled reservations for a
	// court on a date, optionally excluding one reservation (the one being
	// edited).
	ListActiveByCourtAndDate(ctx context.Context, exec SQLExecutor, courtID int, date time.Time, excludeID *int) ([]*models.Reservation, error)
	ListByPlayer(ctx context.Context, playerID int) ([]*models.Reservation, error)
	UpdateStatus(ctx context.Context, id int, status models.ReservationStatus) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type postgresReservationRepository struct {
	db *sql.DB
}

func NewPostgresReservationRepository(db *sql.DB) ReservationRepository {
	return &postgresReservationRepository{db: db}
}

const reservationColumns = `id, court_id, player_id, date, start_time, end_time, status, created_at`

func scanReservation(row interface{ Scan(...interface{}) error }) (*models.Reservation, error) {
	res := &models.Reservation{}
	err := row.Scan(
		&res.ID,
		&res.CourtID,
		&res.PlayerID,
		&res.Date,
		&res.StartTime,
		&res.EndTime,
		&res.Status,
		&res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *postgresReservationRepository) Create(ctx context.Context, exec SQLExecutor, res *models.Reservation) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO reservations (court_id, player_id, date, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		res.CourtID,
		res.PlayerID,
		res.Date,
		res.StartTime,
		res.EndTime,
		res.Status,
	).Scan(&res.ID, &res.CreatedAt)

	return r.handleReservationError(err)
}

func (r *postgresReservationRepository) GetByID(ctx context.Context, id int) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, err := scanReservation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to scan reservation by id %d: %w", id, err)
	}
	return res, nil
}

func (r *postgresReservationRepository) ListActiveByCourtAndDate(ctx context.Context, exec SQLExecutor, courtID int, date time.Time, excludeID *int) ([]*models.Reservation, error) {
	if exec == nil {
		exec = r.db
	}
	query := `
		SELECT ` + reservationColumns + ` FROM reservations
		WHERE court_id = $1 AND date = $2 AND status != 'canceled' AND ($3::int IS NULL OR id != $3)
		ORDER BY start_time ASC`

	rows, err := exec.QueryContext(ctx, query, courtID, date, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations for court %d: %w", courtID, err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

func (r *postgresReservationRepository) ListByPlayer(ctx context.Context, playerID int) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE player_id = $1 ORDER BY date DESC, start_time DESC`

	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations for player %d: %w", playerID, err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

func collectReservations(rows *sql.Rows) ([]*models.Reservation, error) {
	reservations := make([]*models.Reservation, 0)
	for rows.Next() {
		res, scanErr := scanReservation(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan reservation row: %w", scanErr)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during reservation rows iteration: %w", err)
	}
	return reservations, nil
}

func (r *postgresReservationRepository) UpdateStatus(ctx context.Context, id int, status models.ReservationStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE reservations SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrReservationNotFound)
}

func (r *postgresReservationRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrReservationNotFound)
}

func (r *postgresReservationRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return count, nil
}

func (r *postgresReservationRepository) handleReservationError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "reservations_court_id_fkey":
			return ErrReservationCourtInvalid
		case "reservations_player_id_fkey":
			return ErrReservationPlayerInvalid
		}
	}
	return err
}
