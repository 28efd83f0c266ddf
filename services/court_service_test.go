package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asopadel/padel-system/models"
)

func minutesAt(hh, mm int) int { return hh*60 + mm }

func TestDeriveLiveStatus_MaintenanceTrumpsEverything(t *testing.T) {
	court := testCourt()
	court.State = models.CourtStateMaintenance
	reservations := []*models.Reservation{confirmed("10:00", "12:00")}
	matches := []*models.Match{{CourtID: &court.ID, StartTime: "10:00", Status: models.MatchStatusConfirmed}}

	status := deriveLiveStatus(court, reservations, matches, minutesAt(10, 30))
	assert.Equal(t, models.CourtStateMaintenance, status.Status)
	assert.Nil(t, status.AvailableAgainAt)
}

func TestDeriveLiveStatus_ConfirmedReservationCoveringNow(t *testing.T) {
	court := testCourt()
	reservations := []*models.Reservation{confirmed("10:00", "12:00")}

	status := deriveLiveStatus(court, reservations, nil, minutesAt(11, 0))
	assert.Equal(t, models.CourtStateReserved, status.Status)
	require.NotNil(t, status.AvailableAgainAt)
	assert.Equal(t, "12:00", *status.AvailableAgainAt)
}

func TestDeriveLiveStatus_ReservationHandsOverAtEndMinute(t *testing.T) {
	court := testCourt()
	reservations := []*models.Reservation{confirmed("10:00", "12:00")}

	// Same half-open convention as the booking overlap check: the court is
	// free at the exact end minute so a back-to-back slot takes over cleanly.
	status := deriveLiveStatus(court, reservations, nil, minutesAt(10, 0))
	assert.Equal(t, models.CourtStateReserved, status.Status)

	status = deriveLiveStatus(court, reservations, nil, minutesAt(12, 0))
	assert.Equal(t, models.CourtStateAvailable, status.Status)
	assert.Nil(t, status.AvailableAgainAt)
}

func TestDeriveLiveStatus_PendingReservationDoesNotOccupy(t *testing.T) {
	court := testCourt()
	pending := &models.Reservation{CourtID: 1, StartTime: "10:00", EndTime: "12:00", Status: models.ReservationStatusPending}

	status := deriveLiveStatus(court, []*models.Reservation{pending}, nil, minutesAt(11, 0))
	assert.Equal(t, models.CourtStateAvailable, status.Status)
}

func TestDeriveLiveStatus_MatchBlocksTwoHours(t *testing.T) {
	court := testCourt()
	match := &models.Match{StartTime: "14:00", Status: models.MatchStatusScheduled}

	status := deriveLiveStatus(court, nil, []*models.Match{match}, minutesAt(15, 59))
	assert.Equal(t, models.CourtStateReserved, status.Status)
	require.NotNil(t, status.AvailableAgainAt)
	assert.Equal(t, "16:00", *status.AvailableAgainAt)

	// The block ends exactly two hours after the start.
	status = deriveLiveStatus(court, nil, []*models.Match{match}, minutesAt(16, 0))
	assert.Equal(t, models.CourtStateAvailable, status.Status)
}

func TestDeriveLiveStatus_CanceledMatchIgnored(t *testing.T) {
	court := testCourt()
	match := &models.Match{StartTime: "14:00", Status: models.MatchStatusCanceled}

	status := deriveLiveStatus(court, nil, []*models.Match{match}, minutesAt(14, 30))
	assert.Equal(t, models.CourtStateAvailable, status.Status)
}

func TestDeriveLiveStatus_ReservationBeatsMatch(t *testing.T) {
	court := testCourt()
	reservations := []*models.Reservation{confirmed("14:00", "15:00")}
	matches := []*models.Match{{StartTime: "14:00", Status: models.MatchStatusConfirmed}}

	status := deriveLiveStatus(court, reservations, matches, minutesAt(14, 30))
	assert.Equal(t, models.CourtStateReserved, status.Status)
	require.NotNil(t, status.AvailableAgainAt)
	assert.Equal(t, "15:00", *status.AvailableAgainAt)
}

func TestDeriveLiveStatus_QuietCourt(t *testing.T) {
	court := testCourt()

	status := deriveLiveStatus(court, nil, nil, minutesAt(9, 0))
	assert.Equal(t, models.CourtStateAvailable, status.Status)
	assert.Nil(t, status.AvailableAgainAt)
}

func TestMinutesToClock(t *testing.T) {
	assert.Equal(t, "08:00", minutesToClock(480))
	assert.Equal(t, "16:05", minutesToClock(965))
	assert.Equal(t, "00:00", minutesToClock(0))
}
