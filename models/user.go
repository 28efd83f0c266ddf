package models

import "time"

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleReferee UserRole = "referee"
	RolePlayer  UserRole = "player"
)

// PlayerCategory mirrors the age bracket a player competes in.
type PlayerCategory string

const (
	CategoryJuvenil PlayerCategory = "juvenil"
	CategoryAdulto  PlayerCategory = "adulto"
	CategorySenior  PlayerCategory = "senior"
)

type User struct {
	ID             int             `json:"id" db:"id"`
	Cedula         string          `json:"cedula" db:"cedula"`
	FirstName      string          `json:"first_name" db:"first_name"`
	LastName       string          `json:"last_name" db:"last_name"`
	Email          string          `json:"email" db:"email"`
	Phone          *string         `json:"phone,omitempty" db:"phone"`
	Role           UserRole        `json:"role" db:"role"`
	PlayerCategory *PlayerCategory `json:"player_category,omitempty" db:"player_category"`
	Rating         int             `json:"rating" db:"rating"`
	PasswordHash   string          `json:"-" db:"password_hash"`
	PhotoKey       *string         `json:"-" db:"photo_key"`
	PhotoURL       *string         `json:"photo_url,omitempty" db:"-"`
	Active         bool            `json:"active" db:"active"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

type Credentials struct {
	Cedula   string `json:"cedula"`
	Password string `json:"password"`
}

type UserFilter struct {
	Role     *UserRole
	Category *PlayerCategory
	Search   string
	Limit    int
	Offset   int
}
