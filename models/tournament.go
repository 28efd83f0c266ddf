package models

import "time"

type Category struct {
	ID          int     `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description,omitempty" db:"description"`
}

type Tournament struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	EndDate     time.Time `json:"end_date" db:"end_date"`
	CategoryID  *int      `json:"category_id,omitempty" db:"category_id"`
	RefereeID   *int      `json:"referee_id,omitempty" db:"referee_id"`
	Prizes      *string   `json:"prizes,omitempty" db:"prizes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// Optional linked entities, populated by the service layer.
	Category *Category `json:"category,omitempty" db:"-"`
	Referee  *User     `json:"referee,omitempty" db:"-"`
	Players  []User    `json:"players,omitempty" db:"-"`
}
