package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/asopadel/padel-system/models"
	"github.com/asopadel/padel-system/repositories"
)

type TournamentInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	StartDate   string  `json:"start_date"` // "2006-01-02"
	EndDate     string  `json:"end_date"`
	CategoryID  *int    `json:"category_id"`
	RefereeID   *int    `json:"referee_id"`
	Prizes      *string `json:"prizes"`
}

type TournamentService interface {
	Create(ctx context.Context, input TournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, limit, offset int) ([]*models.Tournament, error)
	Update(ctx context.Context, id int, input TournamentInput) (*models.Tournament, error)
	Delete(ctx context.Context, id int) error

	// EnrollPlayer admits a player, enforcing the role and, when the
	// tournament is category-bound, the category match.
	EnrollPlayer(ctx context.Context, tournamentID, userID int) error
	RemovePlayer(ctx context.Context, tournamentID, userID int) error

	CreateCategory(ctx context.Context, c *models.Category) error
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	categoryRepo   repositories.CategoryRepository
	userRepo       repositories.UserRepository
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	categoryRepo repositories.CategoryRepository,
	userRepo repositories.UserRepository,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		categoryRepo:   categoryRepo,
		userRepo:       userRepo,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, input TournamentInput) (*models.Tournament, error) {
	tournament, err := s.tournamentFromInput(ctx, input)
	if err != nil {
		return nil, err
	}
	if err = s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, mapTournamentRepoError(err)
	}
	return s.GetByID(ctx, tournament.ID)
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}
	if err = s.populateLinks(ctx, tournament); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, limit, offset int) ([]*models.Tournament, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	tournaments, err := s.tournamentRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

func (s *tournamentService) Update(ctx context.Context, id int, input TournamentInput) (*models.Tournament, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, id); err != nil {
		return nil, mapTournamentRepoError(err)
	}
	tournament, err := s.tournamentFromInput(ctx, input)
	if err != nil {
		return nil, err
	}
	tournament.ID = id
	if err = s.tournamentRepo.Update(ctx, tournament); err != nil {
		return nil, mapTournamentRepoError(err)
	}
	return s.GetByID(ctx, id)
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	return mapTournamentRepoError(s.tournamentRepo.Delete(ctx, id))
}

func (s *tournamentService) EnrollPlayer(ctx context.Context, tournamentID, userID int) error {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return mapTournamentRepoError(err)
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return mapUserRepoError(err)
	}
	if user.Role != models.RolePlayer {
		return ErrPlayerRoleRequired
	}
	if tournament.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *tournament.CategoryID)
		if err != nil {
			return mapTournamentRepoError(err)
		}
		if user.PlayerCategory == nil || string(*user.PlayerCategory) != category.Name {
			return ErrCategoryMismatch
		}
	}

	if err = s.tournamentRepo.EnrollPlayer(ctx, tournamentID, userID); err != nil {
		if errors.Is(err, repositories.ErrEnrollmentConflict) {
			return fmt.Errorf("%w: player already enrolled", ErrValidationFailed)
		}
		return mapTournamentRepoError(err)
	}
	s.logger.Info("player enrolled",
		slog.Int("tournament_id", tournamentID), slog.Int("player_id", userID))
	return nil
}

func (s *tournamentService) RemovePlayer(ctx context.Context, tournamentID, userID int) error {
	return mapTournamentRepoError(s.tournamentRepo.RemovePlayer(ctx, tournamentID, userID))
}

func (s *tournamentService) CreateCategory(ctx context.Context, c *models.Category) error {
	if c.Name == "" {
		return fmt.Errorf("%w: category name is required", ErrValidationFailed)
	}
	if err := s.categoryRepo.Create(ctx, c); err != nil {
		if errors.Is(err, repositories.ErrCategoryNameConflict) {
			return fmt.Errorf("%w: category %q already exists", ErrValidationFailed, c.Name)
		}
		return err
	}
	return nil
}

func (s *tournamentService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *tournamentService) tournamentFromInput(ctx context.Context, input TournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	startDate, err := parseDate(input.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	endDate, err := parseDate(input.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if !endDate.After(startDate) {
		return nil, ErrTournamentDatesOrder
	}

	if input.CategoryID != nil {
		if _, err = s.categoryRepo.GetByID(ctx, *input.CategoryID); err != nil {
			return nil, mapTournamentRepoError(err)
		}
	}
	if input.RefereeID != nil {
		referee, err := s.userRepo.GetByID(ctx, *input.RefereeID)
		if err != nil {
			return nil, mapUserRepoError(err)
		}
		if referee.Role != models.RoleReferee {
			return nil, ErrRefereeRoleRequired
		}
	}

	return &models.Tournament{
		Name:        input.Name,
		Description: input.Description,
		StartDate:   startDate,
		EndDate:     endDate,
		CategoryID:  input.CategoryID,
		RefereeID:   input.RefereeID,
		Prizes:      input.Prizes,
	}, nil
}

func (s *tournamentService) populateLinks(ctx context.Context, tournament *models.Tournament) error {
	if tournament.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *tournament.CategoryID)
		if err == nil {
			tournament.Category = category
		} else if !errors.Is(err, repositories.ErrCategoryNotFound) {
			return err
		}
	}
	if tournament.RefereeID != nil {
		referee, err := s.userRepo.GetByID(ctx, *tournament.RefereeID)
		if err == nil {
			referee.PasswordHash = ""
			tournament.Referee = referee
		} else if !errors.Is(err, repositories.ErrUserNotFound) {
			return err
		}
	}
	players, err := s.tournamentRepo.ListPlayers(ctx, tournament.ID)
	if err != nil {
		return fmt.Errorf("failed to list tournament players: %w", err)
	}
	for i := range players {
		players[i].PasswordHash = ""
	}
	tournament.Players = players
	return nil
}
