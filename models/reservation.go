package models

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCanceled  ReservationStatus = "canceled"
)

// Reservation books a court for a [StartTime, EndTime) slot on a single date.
// Times are wall-clock "HH:MM" strings within the court's operating hours.
type Reservation struct {
	ID        int               `json:"id" db:"id"`
	CourtID   int               `json:"court_id" db:"court_id"`
	PlayerID  int               `json:"player_id" db:"player_id"`
	Date      time.Time         `json:"date" db:"date"`
	StartTime string            `json:"start_time" db:"start_time"`
	EndTime   string            `json:"end_time" db:"end_time"`
	Status    ReservationStatus `json:"status" db:"status"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`

	Court  *Court `json:"court,omitempty" db:"-"`
	Player *User  `json:"player,omitempty" db:"-"`
}
