package models

type CourtState string

const (
	CourtStateAvailable   CourtState = "available"
	CourtStateReserved    CourtState = "reserved"
	CourtStateMaintenance CourtState = "maintenance"
)

type Court struct {
	ID           int        `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Location     string     `json:"location" db:"location"`
	State        CourtState `json:"state" db:"state"`
	PricePerHour float64    `json:"price_per_hour" db:"price_per_hour"`
	OpeningTime  string     `json:"opening_time" db:"opening_time"` // "HH:MM"
	ClosingTime  string     `json:"closing_time" db:"closing_time"` // "HH:MM"
	Description  *string    `json:"description,omitempty" db:"description"`
	ImageKey     *string    `json:"-" db:"image_key"`
	ImageURL     *string    `json:"image_url,omitempty" db:"-"`
}

// CourtLiveStatus is the derived occupancy state of a court at an instant,
// cross-referencing the administrative state, confirmed reservations and
// scheduled matches.
type CourtLiveStatus struct {
	CourtID          int        `json:"court_id"`
	Status           CourtState `json:"status"`
	AvailableAgainAt *string    `json:"available_again_at,omitempty"` // "HH:MM"
}
