package services

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/asopadel/padel-system/models"
	"github.com/asopadel/padel-system/repositories"
	"github.com/asopadel/padel-system/storage"
)

// matchBlockMinutes is how long a scheduled match is assumed to occupy its
// court when no explicit end time is recorded.
const matchBlockMinutes = 120

type CourtInput struct {
	Name         string  `json:"name"`
	Location     string  `json:"location"`
	PricePerHour float64 `json:"price_per_hour"`
	OpeningTime  string  `json:"opening_time"`
	ClosingTime  string  `json:"closing_time"`
	Description  *string `json:"description"`
}

type CourtService interface {
	Create(ctx context.Context, input CourtInput) (*models.Court, error)
	GetByID(ctx context.Context, id int) (*models.Court, error)
	List(ctx context.Context) ([]*models.Court, error)
	Update(ctx context.Context, id int, input CourtInput) (*models.Court, error)
	SetState(ctx context.Context, id int, state models.CourtState) error
	UploadImage(ctx context.Context, id int, file multipart.File, header *multipart.FileHeader) (*models.Court, error)
	Delete(ctx context.Context, id int) error

	// ResolveStatus derives the occupancy of one court at the given instant.
	ResolveStatus(ctx context.Context, courtID int, at time.Time) (*models.CourtLiveStatus, error)
	// ListStatuses resolves every court concurrently.
	ListStatuses(ctx context.Context, at time.Time) ([]*models.CourtLiveStatus, error)
}

type courtService struct {
	courtRepo       repositories.CourtRepository
	reservationRepo repositories.ReservationRepository
	matchRepo       repositories.MatchRepository
	uploader        storage.FileUploader
	logger          *slog.Logger
}

func NewCourtService(
	courtRepo repositories.CourtRepository,
	reservationRepo repositories.ReservationRepository,
	matchRepo repositories.MatchRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) CourtService {
	return &courtService{
		courtRepo:       courtRepo,
		reservationRepo: reservationRepo,
		matchRepo:       matchRepo,
		uploader:        uploader,
		logger:          logger,
	}
}

func (s *courtService) Create(ctx context.Context, input CourtInput) (*models.Court, error) {
	court, err := courtFromInput(input)
	if err != nil {
		return nil, err
	}
	court.State = models.CourtStateAvailable
	if err = s.courtRepo.Create(ctx, court); err != nil {
		return nil, mapCourtRepoError(err)
	}
	return court, nil
}

func (s *courtService) GetByID(ctx context.Context, id int) (*models.Court, error) {
	court, err := s.courtRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapCourtRepoError(err)
	}
	s.resolveImageURL(court)
	return court, nil
}

func (s *courtService) List(ctx context.Context) ([]*models.Court, error) {
	courts, err := s.courtRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courts: %w", err)
	}
	for _, c := range courts {
		s.resolveImageURL(c)
	}
	return courts, nil
}

func (s *courtService) Update(ctx context.Context, id int, input CourtInput) (*models.Court, error) {
	existing, err := s.courtRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapCourtRepoError(err)
	}
	court, err := courtFromInput(input)
	if err != nil {
		return nil, err
	}
	court.ID = existing.ID
	court.State = existing.State
	if err = s.courtRepo.Update(ctx, court); err != nil {
		return nil, mapCourtRepoError(err)
	}
	return s.GetByID(ctx, id)
}

func (s *courtService) SetState(ctx context.Context, id int, state models.CourtState) error {
	switch state {
	case models.CourtStateAvailable, models.CourtStateReserved, models.CourtStateMaintenance:
	default:
		return fmt.Errorf("%w: unknown court state %q", ErrValidationFailed, state)
	}
	return mapCourtRepoError(s.courtRepo.UpdateState(ctx, id, state))
}

func (s *courtService) UploadImage(ctx context.Context, id int, file multipart.File, header *multipart.FileHeader) (*models.Court, error) {
	court, err := s.courtRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapCourtRepoError(err)
	}
	if s.uploader == nil {
		return nil, fmt.Errorf("image storage is not configured")
	}

	key, err := s.uploader.Upload(ctx, file, header, "courts")
	if err != nil {
		return nil, fmt.Errorf("failed to upload court image: %w", err)
	}
	if err = s.courtRepo.UpdateImageKey(ctx, id, &key); err != nil {
		return nil, mapCourtRepoError(err)
	}
	if court.ImageKey != nil {
		if delErr := s.uploader.Delete(ctx, *court.ImageKey); delErr != nil {
			s.logger.Warn("failed to delete previous court image",
				slog.Int("court_id", id), slog.Any("error", delErr))
		}
	}
	return s.GetByID(ctx, id)
}

func (s *courtService) Delete(ctx context.Context, id int) error {
	return mapCourtRepoError(s.courtRepo.Delete(ctx, id))
}

// ResolveStatus applies the occupancy precedence: maintenance first, then a
// confirmed reservation covering the instant, then a match assumed to run
// for two hours from its start, and finally available.
func (s *courtService) ResolveStatus(ctx context.Context, courtID int, at time.Time) (*models.CourtLiveStatus, error) {
	court, err := s.courtRepo.GetByID(ctx, nil, courtID)
	if err != nil {
		return nil, mapCourtRepoError(err)
	}
	return s.resolveStatusFor(ctx, court, at)
}

func (s *courtService) resolveStatusFor(ctx context.Context, court *models.Court, at time.Time) (*models.CourtLiveStatus, error) {
	if court.State == models.CourtStateMaintenance {
		return &models.CourtLiveStatus{CourtID: court.ID, Status: models.CourtStateMaintenance}, nil
	}

	reservations, err := s.reservationRepo.ListActiveByCourtAndDate(ctx, nil, court.ID, at, nil)
	if err != nil {
		return nil, err
	}
	matches, err := s.matchRepo.ListByCourtAndDate(ctx, court.ID, at.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}

	return deriveLiveStatus(court, reservations, matches, at.Hour()*60+at.Minute()), nil
}

// deriveLiveStatus applies the occupancy precedence over an in-memory
// snapshot: maintenance, confirmed reservation, ongoing match, available.
func deriveLiveStatus(court *models.Court, reservations []*models.Reservation, matches []*models.Match, nowMinutes int) *models.CourtLiveStatus {
	status := &models.CourtLiveStatus{CourtID: court.ID, Status: models.CourtStateAvailable}

	if court.State == models.CourtStateMaintenance {
		status.Status = models.CourtStateMaintenance
		return status
	}

	for _, r := range reservations {
		if r.Status != models.ReservationStatusConfirmed {
			continue
		}
		start, err := parseClock(r.StartTime)
		if err != nil {
			continue
		}
		end, err := parseClock(r.EndTime)
		if err != nil {
			continue
		}
		if start <= nowMinutes && nowMinutes < end {
			status.Status = models.CourtStateReserved
			until := minutesToClock(end)
			status.AvailableAgainAt = &until
			return status
		}
	}

	for _, m := range matches {
		if m.Status == models.MatchStatusCanceled {
			continue
		}
		start, err := parseClock(m.StartTime)
		if err != nil {
			continue
		}
		end := start + matchBlockMinutes
		if start <= nowMinutes && nowMinutes < end {
			status.Status = models.CourtStateReserved
			until := minutesToClock(end)
			status.AvailableAgainAt = &until
			return status
		}
	}

	return status
}

func (s *courtService) ListStatuses(ctx context.Context, at time.Time) ([]*models.CourtLiveStatus, error) {
	courts, err := s.courtRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courts: %w", err)
	}

	statuses := make([]*models.CourtLiveStatus, len(courts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, court := range courts {
		i, court := i, court
		g.Go(func() error {
			st, err := s.resolveStatusFor(gctx, court, at)
			if err != nil {
				return fmt.Errorf("failed to resolve status for court %d: %w", court.ID, err)
			}
			statuses[i] = st
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(statuses, func(i, j int) bool { return statuses[i].CourtID < statuses[j].CourtID })
	return statuses, nil
}

func (s *courtService) resolveImageURL(court *models.Court) {
	if court.ImageKey != nil && s.uploader != nil {
		url := s.uploader.PublicURL(*court.ImageKey)
		court.ImageURL = &url
	}
}

func courtFromInput(input CourtInput) (*models.Court, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: court name is required", ErrValidationFailed)
	}
	opening := input.OpeningTime
	closing := input.ClosingTime
	if opening == "" {
		opening = "08:00"
	}
	if closing == "" {
		closing = "22:00"
	}
	openMin, err := parseClock(opening)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	closeMin, err := parseClock(closing)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if closeMin <= openMin {
		return nil, fmt.Errorf("%w: closing time must be after opening time", ErrValidationFailed)
	}
	return &models.Court{
		Name:         input.Name,
		Location:     input.Location,
		PricePerHour: input.PricePerHour,
		OpeningTime:  opening,
		ClosingTime:  closing,
		Description:  input.Description,
	}, nil
}

func minutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
