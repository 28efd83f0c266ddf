package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/asopadel/padel-system/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound        = errors.New("tournament not found")
	ErrTournamentCategoryInvalid = errors.New("tournament category invalid")
	ErrTournamentRefereeInvalid  = errors.New("tournament referee invalid")
	ErrCategoryNotFound          = errors.New("category not found")
	ErrCategoryNameConflict      = errors.New("category name already exists")
	ErrEnrollmentConflict        = errors.New("player already enrolled in this tournament")
)

type TournamentRepository interface {
	Create(ctx context.Context, t *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, limit, offset int) ([]*models.Tournament, error)
	Update(ctx context.Context, t *models.Tournament) error
	Delete(ctx context.Context, id int) error
	EnrollPlayer(ctx context.Context, tournamentID, userID int) error
	RemovePlayer(ctx context.Context, tournamentID, userID int) error
	ListPlayers(ctx context.Context, tournamentID int) ([]models.User, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id int) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `id, name, description, start_date, end_date, category_id, referee_id, prizes, created_at`

func scanTournament(row interface{ Scan(...interface{}) error }) (*models.Tournament, error) {
	t := &models.Tournament{}
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.StartDate,
		&t.EndDate,
		&t.CategoryID,
		&t.RefereeID,
		&t.Prizes,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, description, start_date, end_date, category_id, referee_id, prizes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.Description, t.StartDate, t.EndDate, t.CategoryID, t.RefereeID, t.Prizes,
	).Scan(&t.ID, &t.CreatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	t, err := scanTournament(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament by id %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, limit, offset int) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments ORDER BY start_date DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", scanErr)
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments
		SET name = $1, description = $2, start_date = $3, end_date = $4,
		    category_id = $5, referee_id = $6, prizes = $7
		WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		t.Name, t.Description, t.StartDate, t.EndDate, t.CategoryID, t.RefereeID, t.Prizes, t.ID,
	)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) EnrollPlayer(ctx context.Context, tournamentID, userID int) error {
	query := `INSERT INTO tournament_players (tournament_id, user_id) VALUES ($1, $2)`
	_, err := r.db.ExecContext(ctx, query, tournamentID, userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch {
			case pqErr.Code == "23505":
				return ErrEnrollmentConflict
			case pqErr.Constraint == "tournament_players_tournament_id_fkey":
				return ErrTournamentNotFound
			case pqErr.Constraint == "tournament_players_user_id_fkey":
				return ErrUserNotFound
			}
		}
		return fmt.Errorf("failed to enroll player %d in tournament %d: %w", userID, tournamentID, err)
	}
	return nil
}

func (r *postgresTournamentRepository) RemovePlayer(ctx context.Context, tournamentID, userID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tournament_players WHERE tournament_id = $1 AND user_id = $2`,
		tournamentID, userID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresTournamentRepository) ListPlayers(ctx context.Context, tournamentID int) ([]models.User, error) {
	query := `
		SELECT ` + prefixedUserColumns("u") + `
		FROM users u
		JOIN tournament_players tp ON tp.user_id = u.id
		WHERE tp.tournament_id = $1
		ORDER BY u.rating DESC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournament players: %w", err)
	}
	defer rows.Close()

	players := make([]models.User, 0)
	for rows.Next() {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament player row: %w", scanErr)
		}
		players = append(players, *user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament player rows iteration: %w", err)
	}
	return players, nil
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "tournaments_category_id_fkey":
			return ErrTournamentCategoryInvalid
		case "tournaments_referee_id_fkey":
			return ErrTournamentRefereeInvalid
		}
	}
	return err
}

type postgresCategoryRepository struct {
	db *sql.DB
}

func NewPostgresCategoryRepository(db *sql.DB) CategoryRepository {
	return &postgresCategoryRepository{db: db}
}

func (r *postgresCategoryRepository) Create(ctx context.Context, c *models.Category) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id`,
		c.Name, c.Description,
	).Scan(&c.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "categories_name_key" {
			return ErrCategoryNameConflict
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *postgresCategoryRepository) GetByID(ctx context.Context, id int) (*models.Category, error) {
	c := &models.Category{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to scan category by id %d: %w", id, err)
	}
	return c, nil
}

func (r *postgresCategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)
	for rows.Next() {
		c := &models.Category{}
		if scanErr := rows.Scan(&c.ID, &c.Name, &c.Description); scanErr != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", scanErr)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during category rows iteration: %w", err)
	}
	return categories, nil
}
