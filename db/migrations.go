package db

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS categories (
    id SERIAL PRIMARY KEY,
    name VARCHAR(50) NOT NULL UNIQUE,
    description TEXT
);

CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    cedula VARCHAR(10) NOT NULL UNIQUE,
    first_name VARCHAR(50) NOT NULL,
    last_name VARCHAR(50) NOT NULL,
    email VARCHAR(255) NOT NULL UNIQUE,
    phone VARCHAR(20),
    role VARCHAR(20) NOT NULL DEFAULT 'player',
    player_category VARCHAR(20),
    rating INTEGER NOT NULL DEFAULT 0,
    password_hash TEXT NOT NULL,
    photo_key TEXT,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CONSTRAINT users_role_check CHECK (role IN ('admin', 'referee', 'player')),
    CONSTRAINT users_player_category_check CHECK (player_category IN ('juvenil', 'adulto', 'senior')),
    CONSTRAINT users_rating_check CHECK (rating >= 0)
);
CREATE INDEX IF NOT EXISTS idx_users_rating ON users(rating DESC) WHERE role = 'player';

CREATE TABLE IF NOT EXISTS tournaments (
    id SERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    description TEXT NOT NULL,
    start_date DATE NOT NULL,
    end_date DATE NOT NULL,
    category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
    referee_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
    prizes TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS tournament_players (
    tournament_id INTEGER NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    PRIMARY KEY (tournament_id, user_id)
);

CREATE TABLE IF NOT EXISTS courts (
    id SERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    location VARCHAR(200) NOT NULL,
    state VARCHAR(20) NOT NULL DEFAULT 'available',
    price_per_hour NUMERIC(10,2) NOT NULL DEFAULT 0,
    opening_time VARCHAR(5) NOT NULL DEFAULT '08:00',
    closing_time VARCHAR(5) NOT NULL DEFAULT '22:00',
    description TEXT,
    image_key TEXT,

    CONSTRAINT courts_state_check CHECK (state IN ('available', 'reserved', 'maintenance'))
);

CREATE TABLE IF NOT EXISTS matches (
    id SERIAL PRIMARY KEY,
    tournament_id INTEGER NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
    court_id INTEGER REFERENCES courts(id) ON DELETE SET NULL,
    referee_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
    date DATE NOT NULL,
    start_time VARCHAR(5) NOT NULL,
    score VARCHAR(100),
    status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
    winner_team INTEGER,
    result_edits INTEGER NOT NULL DEFAULT 0,
    rating_applied BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CONSTRAINT matches_status_check CHECK (status IN ('scheduled', 'confirmed', 'finalized', 'canceled')),
    CONSTRAINT matches_winner_team_check CHECK (winner_team IN (1, 2))
);
CREATE INDEX IF NOT EXISTS idx_matches_tournament ON matches(tournament_id);
CREATE INDEX IF NOT EXISTS idx_matches_court_date ON matches(court_id, date);

CREATE TABLE IF NOT EXISTS match_players (
    match_id INTEGER NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    team INTEGER NOT NULL,
    PRIMARY KEY (match_id, user_id),
    CONSTRAINT match_players_team_check CHECK (team IN (1, 2))
);

CREATE TABLE IF NOT EXISTS player_stats (
    id SERIAL PRIMARY KEY,
    player_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
    matches_played INTEGER NOT NULL DEFAULT 0,
    wins INTEGER NOT NULL DEFAULT 0,
    losses INTEGER NOT NULL DEFAULT 0,

    CONSTRAINT player_stats_unique UNIQUE NULLS NOT DISTINCT (player_id, category_id),
    CONSTRAINT player_stats_counts_check CHECK (wins + losses = matches_played)
);

CREATE TABLE IF NOT EXISTS reservations (
    id SERIAL PRIMARY KEY,
    court_id INTEGER NOT NULL REFERENCES courts(id) ON DELETE CASCADE,
    player_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    date DATE NOT NULL,
    start_time VARCHAR(5) NOT NULL,
    end_time VARCHAR(5) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CONSTRAINT reservations_status_check CHECK (status IN ('pending', 'confirmed', 'canceled')),
    CONSTRAINT reservations_interval_check CHECK (end_time > start_time)
);
CREATE INDEX IF NOT EXISTS idx_reservations_court_date ON reservations(court_id, date);

CREATE TABLE IF NOT EXISTS news (
    id SERIAL PRIMARY KEY,
    title VARCHAR(150) NOT NULL,
    body TEXT NOT NULL,
    author_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
    image_key TEXT,
    published_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS heroes (
    id SERIAL PRIMARY KEY,
    title VARCHAR(150) NOT NULL,
    subtitle VARCHAR(200),
    image_key TEXT,
    active BOOLEAN NOT NULL DEFAULT FALSE
);
`

// Migrate applies the schema. Statements are idempotent so the call is safe on
// every startup.
func Migrate(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
