package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/asopadel/padel-system/models"
)

func testCourt() *models.Court {
	return &models.Court{
		ID:          1,
		Name:        "Cancha 1",
		State:       models.CourtStateAvailable,
		OpeningTime: "08:00",
		ClosingTime: "22:00",
	}
}

func confirmed(start, end string) *models.Reservation {
	return &models.Reservation{CourtID: 1, StartTime: start, EndTime: end, Status: models.ReservationStatusConfirmed}
}

func TestValidateSlot_Accepts(t *testing.T) {
	court := testCourt()

	assert.NoError(t, validateSlot(court, "10:00", "11:00", nil))
	assert.NoError(t, validateSlot(court, "08:00", "12:00", nil))
	assert.NoError(t, validateSlot(court, "20:30", "22:00", nil))
}

func TestValidateSlot_DurationRules(t *testing.T) {
	court := testCourt()

	assert.ErrorIs(t, validateSlot(court, "10:00", "10:00", nil), ErrReservationEndBeforeStart)
	assert.ErrorIs(t, validateSlot(court, "11:00", "10:00", nil), ErrReservationEndBeforeStart)
	assert.ErrorIs(t, validateSlot(court, "10:00", "10:30", nil), ErrReservationTooShort)
	assert.ErrorIs(t, validateSlot(court, "10:00", "14:30", nil), ErrReservationTooLong)
}

func TestValidateSlot_OperatingHours(t *testing.T) {
	court := testCourt()

	assert.ErrorIs(t, validateSlot(court, "07:00", "09:00", nil), ErrReservationOutsideHours)
	assert.ErrorIs(t, validateSlot(court, "21:00", "23:00", nil), ErrReservationOutsideHours)
	assert.ErrorIs(t, validateSlot(court, "06:00", "07:30", nil), ErrReservationOutsideHours)
}

func TestValidateSlot_OverlapDetection(t *testing.T) {
	court := testCourt()
	existing := []*models.Reservation{confirmed("10:00", "12:00")}

	// A 10:00-12:00 booking blocks 11:00-13:00.
	assert.ErrorIs(t, validateSlot(court, "11:00", "13:00", existing), ErrReservationConflict)
	// Fully inside.
	assert.ErrorIs(t, validateSlot(court, "10:30", "11:30", existing), ErrReservationConflict)
	// Fully covering.
	assert.ErrorIs(t, validateSlot(court, "09:00", "13:00", existing), ErrReservationConflict)
	// Identical slot.
	assert.ErrorIs(t, validateSlot(court, "10:00", "12:00", existing), ErrReservationConflict)
}

func TestValidateSlot_BackToBackSlotsDoNotClash(t *testing.T) {
	court := testCourt()
	existing := []*models.Reservation{confirmed("10:00", "12:00")}

	// A booking ending exactly at 12:00 frees the court for 12:00-13:00.
	assert.NoError(t, validateSlot(court, "12:00", "13:00", existing))
	assert.NoError(t, validateSlot(court, "09:00", "10:00", existing))
}

func TestValidateSlot_PendingBookingsStillBlock(t *testing.T) {
	court := testCourt()
	pending := &models.Reservation{CourtID: 1, StartTime: "14:00", EndTime: "15:00", Status: models.ReservationStatusPending}

	assert.ErrorIs(t, validateSlot(court, "14:30", "15:30", []*models.Reservation{pending}), ErrReservationConflict)
}

func TestValidateSlot_MalformedTimes(t *testing.T) {
	court := testCourt()

	assert.ErrorIs(t, validateSlot(court, "bogus", "11:00", nil), ErrValidationFailed)
	assert.ErrorIs(t, validateSlot(court, "10:00", "25:61", nil), ErrValidationFailed)
}

func TestParseClock(t *testing.T) {
	minutes, err := parseClock("08:30")
	assert.NoError(t, err)
	assert.Equal(t, 510, minutes)

	_, err = parseClock("8:30am")
	assert.Error(t, err)
}
