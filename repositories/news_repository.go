package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/asopadel/padel-system/models"
)

var (
	ErrNewsNotFound = errors.New("news post not found")
	ErrHeroNotFound = errors.New("hero banner not found")
)

type NewsRepository interface {
	Create(ctx context.Context, post *models.News) error
	GetByID(ctx context.Context, id int) (*models.News, error)
	ListLatest(ctx context.Context, limit int) ([]*models.News, error)
	Update(ctx context.Context, post *models.News) error
	UpdateImageKey(ctx context.Context, id int, key *string) error
	Delete(ctx context.Context, id int) error

	CreateHero(ctx context.Context, hero *models.Hero) error
	GetActiveHero(ctx context.Context) (*models.Hero, error)
	// ActivateHero makes a single hero active, deactivating the rest.
	ActivateHero(ctx context.Context, id int) error
}

type postgresNewsRepository struct {
	db *sql.DB
}

func NewPostgresNewsRepository(db *sql.DB) NewsRepository {
	return &postgresNewsRepository{db: db}
}

const newsColumns = `id, title, body, author_id, image_key, published_at`

func scanNews(row interface{ Scan(...interface{}) error }) (*models.News, error) {
	n := &models.News{}
	err := row.Scan(&n.ID, &n.Title, &n.Body, &n.AuthorID, &n.ImageKey, &n.PublishedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *postgresNewsRepository) Create(ctx context.Context, post *models.News) error {
	query := `
		INSERT INTO news (title, body, author_id)
		VALUES ($1, $2, $3)
		RETURNING id, published_at`

	err := r.db.QueryRowContext(ctx, query, post.Title, post.Body, post.AuthorID).
		Scan(&post.ID, &post.PublishedAt)
	if err != nil {
		return fmt.Errorf("failed to create news post: %w", err)
	}
	return nil
}

func (r *postgresNewsRepository) GetByID(ctx context.Context, id int) (*models.News, error) {
	post, err := scanNews(r.db.QueryRowContext(ctx, `SELECT `+newsColumns+` FROM news WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNewsNotFound
		}
		return nil, fmt.Errorf("failed to scan news post by id %d: %w", id, err)
	}
	return post, nil
}

func (r *postgresNewsRepository) ListLatest(ctx context.Context, limit int) ([]*models.News, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+newsColumns+` FROM news ORDER BY published_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query news posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*models.News, 0, limit)
	for rows.Next() {
		post, scanErr := scanNews(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan news row: %w", scanErr)
		}
		posts = append(posts, post)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during news rows iteration: %w", err)
	}
	return posts, nil
}

func (r *postgresNewsRepository) Update(ctx context.Context, post *models.News) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE news SET title = $1, body = $2 WHERE id = $3`,
		post.Title, post.Body, post.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNewsNotFound)
}

func (r *postgresNewsRepository) UpdateImageKey(ctx context.Context, id int, key *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE news SET image_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNewsNotFound)
}

func (r *postgresNewsRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNewsNotFound)
}

func (r *postgresNewsRepository) CreateHero(ctx context.Context, hero *models.Hero) error {
	query := `
		INSERT INTO heroes (title, subtitle, active)
		VALUES ($1, $2, $3)
		RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, hero.Title, hero.Subtitle, hero.Active).Scan(&hero.ID); err != nil {
		return fmt.Errorf("failed to create hero banner: %w", err)
	}
	return nil
}

func (r *postgresNewsRepository) GetActiveHero(ctx context.Context) (*models.Hero, error) {
	hero := &models.Hero{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, subtitle, image_key, active FROM heroes WHERE active = TRUE ORDER BY id DESC LIMIT 1`,
	).Scan(&hero.ID, &hero.Title, &hero.Subtitle, &hero.ImageKey, &hero.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHeroNotFound
		}
		return nil, fmt.Errorf("failed to scan active hero: %w", err)
	}
	return hero, nil
}

func (r *postgresNewsRepository) ActivateHero(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin hero activation transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `UPDATE heroes SET active = FALSE WHERE active = TRUE`); err != nil {
		return fmt.Errorf("failed to deactivate heroes: %w", err)
	}
	result, err := tx.ExecContext(ctx, `UPDATE heroes SET active = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to activate hero %d: %w", id, err)
	}
	if err = checkAffectedRows(result, ErrHeroNotFound); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit hero activation: %w", err)
	}
	return nil
}
