package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/asopadel/padel-system/live"
	"github.com/asopadel/padel-system/models"
	"github.com/asopadel/padel-system/repositories"
)

const (
	minReservationDuration = 60  // minutes
	maxReservationDuration = 240 // minutes
)

type CreateReservationInput struct {
	CourtID   int    `json:"court_id"`
	PlayerID  int    `json:"player_id"`
	Date      string `json:"date"` // "2006-01-02"
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// PlayerReservations splits a player's bookings into upcoming and past.
type PlayerReservations struct {
	Upcoming []*models.Reservation `json:"upcoming"`
	History  []*models.Reservation `json:"history"`
}

type ReservationService interface {
	Create(ctx context.Context, input CreateReservationInput) (*models.Reservation, error)
	GetByID(ctx context.Context, id int) (*models.Reservation, error)
	ListByPlayer(ctx context.Context, playerID int) (*PlayerReservations, error)
	Confirm(ctx context.Context, id int) error
	Cancel(ctx context.Context, id int, actorID int, actorRole models.UserRole) error
}

type reservationService struct {
	db              *sql.DB
	reservationRepo repositories.ReservationRepository
	courtRepo       repositories.CourtRepository
	hub             *live.Hub
	logger          *slog.Logger
	now             func() time.Time
}

func NewReservationService(
	db *sql.DB,
	reservationRepo repositories.ReservationRepository,
	courtRepo repositories.CourtRepository,
	hub *live.Hub,
	logger *slog.Logger,
) ReservationService {
	return &reservationService{
		db:              db,
		reservationRepo: reservationRepo,
		courtRepo:       courtRepo,
		hub:             hub,
		logger:          logger,
		now:             time.Now,
	}
}

// validateSlot checks a requested slot against the duration rules, the
// court's operating hours and the existing bookings. It is pure over its
// inputs so both the create path and tests exercise the exact same rules.
func validateSlot(court *models.Court, startTime, endTime string, existing []*models.Reservation) error {
	start, err := parseClock(startTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	end, err := parseClock(endTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if end <= start {
		return ErrReservationEndBeforeStart
	}
	duration := end - start
	if duration < minReservationDuration {
		return ErrReservationTooShort
	}
	if duration > maxReservationDuration {
		return ErrReservationTooLong
	}

	opening, err := parseClock(court.OpeningTime)
	if err != nil {
		return fmt.Errorf("court %d has invalid opening time: %w", court.ID, err)
	}
	closing, err := parseClock(court.ClosingTime)
	if err != nil {
		return fmt.Errorf("court %d has invalid closing time: %w", court.ID, err)
	}
	if start < opening || end > closing {
		return ErrReservationOutsideHours
	}

	// Half-open interval overlap: [start, end) against each existing
	// [e.start, e.end). Back-to-back slots sharing a boundary do not clash.
	for _, e := range existing {
		eStart, err := parseClock(e.StartTime)
		if err != nil {
			return fmt.Errorf("reservation %d has invalid start time: %w", e.ID, err)
		}
		eEnd, err := parseClock(e.EndTime)
		if err != nil {
			return fmt.Errorf("reservation %d has invalid end time: %w", e.ID, err)
		}
		if start < eEnd && end > eStart {
			return fmt.Errorf("%w: %s-%s is taken", ErrReservationConflict, e.StartTime, e.EndTime)
		}
	}
	return nil
}

func (s *reservationService) Create(ctx context.Context, input CreateReservationInput) (*models.Reservation, error) {
	date, err := parseDate(input.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	today := s.now()
	if date.Before(time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)) {
		return nil, ErrReservationPastDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin reservation transaction: %w", err)
	}
	defer tx.Rollback()

	// Locking the court row serializes concurrent bookings for the same
	// court, closing the window between the overlap check and the insert.
	court, err := s.courtRepo.LockByID(ctx, tx, input.CourtID)
	if err != nil {
		return nil, mapCourtRepoError(err)
	}
	if court.State == models.CourtStateMaintenance {
		return nil, fmt.Errorf("%w: court is under maintenance", ErrReservationConflict)
	}

	existing, err := s.reservationRepo.ListActiveByCourtAndDate(ctx, tx, input.CourtID, date, nil)
	if err != nil {
		return nil, err
	}
	if err = validateSlot(court, input.StartTime, input.EndTime, existing); err != nil {
		return nil, err
	}

	reservation := &models.Reservation{
		CourtID:   input.CourtID,
		PlayerID:  input.PlayerID,
		Date:      date,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Status:    models.ReservationStatusPending,
	}
	if err = s.reservationRepo.Create(ctx, tx, reservation); err != nil {
		return nil, mapReservationRepoError(err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reservation transaction: %w", err)
	}

	s.logger.Info("reservation created",
		slog.Int("reservation_id", reservation.ID),
		slog.Int("court_id", reservation.CourtID),
		slog.Int("player_id", reservation.PlayerID))
	s.broadcastCourtChange(reservation.CourtID, "RESERVATION_CREATED", reservation)
	return reservation, nil
}

func (s *reservationService) broadcastCourtChange(courtID int, event string, payload interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(live.CourtRoom(courtID), live.Message{
		Type:    event,
		Payload: payload,
	})
}

func (s *reservationService) GetByID(ctx context.Context, id int) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapReservationRepoError(err)
	}
	return reservation, nil
}

func (s *reservationService) ListByPlayer(ctx context.Context, playerID int) (*PlayerReservations, error) {
	reservations, err := s.reservationRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations for player %d: %w", playerID, err)
	}

	today := s.now()
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	split := &PlayerReservations{
		Upcoming: []*models.Reservation{},
		History:  []*models.Reservation{},
	}
	for _, r := range reservations {
		if r.Date.Before(midnight) {
			split.History = append(split.History, r)
		} else {
			split.Upcoming = append(split.Upcoming, r)
		}
	}
	return split, nil
}

func (s *reservationService) Confirm(ctx context.Context, id int) error {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return mapReservationRepoError(err)
	}
	if reservation.Status != models.ReservationStatusPending {
		return fmt.Errorf("%w: only pending reservations can be confirmed", ErrValidationFailed)
	}
	if err = s.reservationRepo.UpdateStatus(ctx, id, models.ReservationStatusConfirmed); err != nil {
		return err
	}
	s.broadcastCourtChange(reservation.CourtID, "RESERVATION_CONFIRMED", reservation)
	return nil
}

func (s *reservationService) Cancel(ctx context.Context, id int, actorID int, actorRole models.UserRole) error {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return mapReservationRepoError(err)
	}
	if actorRole != models.RoleAdmin && reservation.PlayerID != actorID {
		return ErrForbiddenOperation
	}
	if reservation.Status == models.ReservationStatusCanceled {
		return nil
	}

	today := s.now()
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if reservation.Date.Before(midnight) {
		return ErrReservationNotCancelable
	}
	if sameDate(reservation.Date, today) {
		start, err := parseClock(reservation.StartTime)
		if err == nil && start <= today.Hour()*60+today.Minute() {
			return ErrReservationNotCancelable
		}
	}
	if err = s.reservationRepo.UpdateStatus(ctx, id, models.ReservationStatusCanceled); err != nil {
		return err
	}
	s.broadcastCourtChange(reservation.CourtID, "RESERVATION_CANCELED", reservation)
	return nil
}

func mapReservationRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrReservationNotFound):
		return ErrReservationNotFound
	case errors.Is(err, repositories.ErrReservationCourtInvalid):
		return ErrCourtNotFound
	case errors.Is(err, repositories.ErrReservationPlayerInvalid):
		return ErrUserNotFound
	default:
		return err
	}
}

func mapCourtRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrCourtNotFound):
		return ErrCourtNotFound
	default:
		return err
	}
}
