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
	ErrUserNotFound       = errors.New("user not found")
	ErrUserCedulaConflict = errors.New("cedula already registered")
	ErrUserEmailConflict  = errors.New("email already registered")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByCedula(ctx context.Context, cedula string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateRating(ctx context.Context, exec SQLExecutor, userID, rating int) error
	ResetAllRatings(ctx context.Context, exec SQLExecutor) error
	UpdatePhotoKey(ctx context.Context, userID int, key *string) error
	Delete(ctx context.Context, id int) error
	TopByRating(ctx context.Context, limit int) ([]*models.User, error)
	CountPlayers(ctx context.Context) (int, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `id, cedula, first_name, last_name, email, phone, role, player_category, rating, password_hash, photo_key, active, created_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
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
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (cedula, first_name, last_name, email, phone, role, player_category, rating, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Cedula,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Phone,
		user.Role,
		user.PlayerCategory,
		user.Rating,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)

	return r.handleUserError(err)
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user by id %d: %w", id, err)
	}
	return user, nil
}

func (r *postgresUserRepository) GetByCedula(ctx context.Context, cedula string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE cedula = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, cedula))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user by cedula: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) List(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + userColumns + ` FROM users WHERE active = TRUE`)

	args := make([]interface{}, 0, 4)
	placeholder := 1

	if filter.Role != nil {
		queryBuilder.WriteString(" AND role = $" + strconv.Itoa(placeholder))
		args = append(args, *filter.Role)
		placeholder++
	}
	if filter.Category != nil {
		queryBuilder.WriteString(" AND player_category = $" + strconv.Itoa(placeholder))
		args = append(args, *filter.Category)
		placeholder++
	}
	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(
			" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR cedula ILIKE $%d)",
			placeholder, placeholder, placeholder))
		args = append(args, "%"+filter.Search+"%")
		placeholder++
	}

	queryBuilder.WriteString(" ORDER BY last_name ASC, first_name ASC")
	if filter.Limit > 0 {
		queryBuilder.WriteString(" LIMIT $" + strconv.Itoa(placeholder))
		args = append(args, filter.Limit)
		placeholder++
	}
	if filter.Offset > 0 {
		queryBuilder.WriteString(" OFFSET $" + strconv.Itoa(placeholder))
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", scanErr)
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during user rows iteration: %w", err)
	}
	return users, nil
}

func (r *postgresUserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, email = $3, phone = $4,
		    player_category = $5, active = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Phone,
		user.PlayerCategory,
		user.Active,
		user.ID,
	)
	if err != nil {
		return r.handleUserError(err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) UpdateRating(ctx context.Context, exec SQLExecutor, userID, rating int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `UPDATE users SET rating = $1 WHERE id = $2`, rating, userID)
	if err != nil {
		return fmt.Errorf("UpdateRating: failed to execute query for user %d: %w", userID, err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) ResetAllRatings(ctx context.Context, exec SQLExecutor) error {
	if exec == nil {
		exec = r.db
	}
	if _, err := exec.ExecContext(ctx, `UPDATE users SET rating = 0 WHERE role = 'player'`); err != nil {
		return fmt.Errorf("ResetAllRatings: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) UpdatePhotoKey(ctx context.Context, userID int, key *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET photo_key = $1 WHERE id = $2`, key, userID)
	if err != nil {
		return fmt.Errorf("UpdatePhotoKey: failed to execute query for user %d: %w", userID, err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) TopByRating(ctx context.Context, limit int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = 'player' AND active = TRUE ORDER BY rating DESC, last_name ASC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top players: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0, limit)
	for rows.Next() {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan top player row: %w", scanErr)
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during top player rows iteration: %w", err)
	}
	return users, nil
}

func (r *postgresUserRepository) CountPlayers(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = 'player' AND active = TRUE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

func (r *postgresUserRepository) handleUserError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "users_cedula_key":
			return ErrUserCedulaConflict
		case "users_email_key":
			return ErrUserEmailConflict
		}
	}
	return err
}
