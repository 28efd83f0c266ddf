package models

import "time"

type News struct {
	ID          int       `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Body        string    `json:"body" db:"body"`
	AuthorID    *int      `json:"author_id,omitempty" db:"author_id"`
	ImageKey    *string   `json:"-" db:"image_key"`
	ImageURL    *string   `json:"image_url,omitempty" db:"-"`
	PublishedAt time.Time `json:"published_at" db:"published_at"`

	Author *User `json:"author,omitempty" db:"-"`
}

// Hero is the landing-page banner; at most one is active at a time.
type Hero struct {
	ID       int     `json:"id" db:"id"`
	Title    string  `json:"title" db:"title"`
	Subtitle *string `json:"subtitle,omitempty" db:"subtitle"`
	ImageKey *string `json:"-" db:"image_key"`
	ImageURL *string `json:"image_url,omitempty" db:"-"`
	Active   bool    `json:"active" db:"active"`
}
