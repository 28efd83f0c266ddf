package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"

	"github.com/asopadel/padel-system/models"
	"github.com/asopadel/padel-system/repositories"
	"github.com/asopadel/padel-system/storage"
	"github.com/asopadel/padel-system/utils"
)

const minPasswordLength = 8

type RegisterUserInput struct {
	Cedula         string                 `json:"cedula"`
	FirstName      string                 `json:"first_name"`
	LastName       string                 `json:"last_name"`
	Email          string                 `json:"email"`
	Phone          *string                `json:"phone"`
	Role           models.UserRole        `json:"role"`
	PlayerCategory *models.PlayerCategory `json:"player_category"`
	Password       string                 `json:"password"`
}

type UpdateUserInput struct {
	FirstName      string                 `json:"first_name"`
	LastName       string                 `json:"last_name"`
	Email          string                 `json:"email"`
	Phone          *string                `json:"phone"`
	PlayerCategory *models.PlayerCategory `json:"player_category"`
	Active         *bool                  `json:"active"`
}

type UserService interface {
	Register(ctx context.Context, input RegisterUserInput) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]*models.User, error)
	Update(ctx context.Context, id int, input UpdateUserInput) (*models.User, error)
	ChangePassword(ctx context.Context, id int, currentPassword, newPassword string) error
	UploadPhoto(ctx context.Context, id int, file multipart.File, header *multipart.FileHeader) (*models.User, error)
	Delete(ctx context.Context, id int) error
}

type userService struct {
	userRepo repositories.UserRepository
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewUserService(userRepo repositories.UserRepository, uploader storage.FileUploader, logger *slog.Logger) UserService {
	return &userService{userRepo: userRepo, uploader: uploader, logger: logger}
}

func (s *userService) Register(ctx context.Context, input RegisterUserInput) (*models.User, error) {
	if !utils.IsValidCedula(input.Cedula) {
		return nil, ErrCedulaInvalid
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if input.FirstName == "" || input.LastName == "" || input.Email == "" {
		return nil, fmt.Errorf("%w: first name, last name and email are required", ErrValidationFailed)
	}

	role := input.Role
	if role == "" {
		role = models.RolePlayer
	}
	switch role {
	case models.RoleAdmin, models.RoleReferee, models.RolePlayer:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidationFailed, role)
	}
	if input.PlayerCategory != nil {
		if err := validatePlayerCategory(*input.PlayerCategory); err != nil {
			return nil, err
		}
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Cedula:         input.Cedula,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		Phone:          input.Phone,
		Role:           role,
		PlayerCategory: input.PlayerCategory,
		PasswordHash:   hash,
		Active:         true,
	}
	if err = s.userRepo.Create(ctx, user); err != nil {
		return nil, mapUserRepoError(err)
	}

	s.logger.Info("user registered",
		slog.Int("user_id", user.ID), slog.String("role", string(user.Role)))
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapUserRepoError(err)
	}
	s.sanitize(user)
	return user, nil
}

func (s *userService) List(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for _, u := range users {
		s.sanitize(u)
	}
	return users, nil
}

func (s *userService) Update(ctx context.Context, id int, input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapUserRepoError(err)
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.PlayerCategory != nil {
		if err = validatePlayerCategory(*input.PlayerCategory); err != nil {
			return nil, err
		}
		user.PlayerCategory = input.PlayerCategory
	}
	if input.Active != nil {
		user.Active = *input.Active
	}

	if err = s.userRepo.Update(ctx, user); err != nil {
		return nil, mapUserRepoError(err)
	}
	s.sanitize(user)
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, id int, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return mapUserRepoError(err)
	}
	if !utils.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	return mapUserRepoError(s.userRepo.Update(ctx, user))
}

func (s *userService) UploadPhoto(ctx context.Context, id int, file multipart.File, header *multipart.FileHeader) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapUserRepoError(err)
	}
	if s.uploader == nil {
		return nil, fmt.Errorf("image storage is not configured")
	}

	key, err := s.uploader.Upload(ctx, file, header, "users")
	if err != nil {
		return nil, fmt.Errorf("failed to upload user photo: %w", err)
	}
	if err = s.userRepo.UpdatePhotoKey(ctx, id, &key); err != nil {
		return nil, mapUserRepoError(err)
	}
	if user.PhotoKey != nil {
		if delErr := s.uploader.Delete(ctx, *user.PhotoKey); delErr != nil {
			s.logger.Warn("failed to delete previous user photo",
				slog.Int("user_id", id), slog.Any("error", delErr))
		}
	}
	return s.GetByID(ctx, id)
}

func (s *userService) Delete(ctx context.Context, id int) error {
	return mapUserRepoError(s.userRepo.Delete(ctx, id))
}

func (s *userService) sanitize(user *models.User) {
	user.PasswordHash = ""
	if user.PhotoKey != nil && s.uploader != nil {
		url := s.uploader.PublicURL(*user.PhotoKey)
		user.PhotoURL = &url
	}
}

func validatePlayerCategory(c models.PlayerCategory) error {
	switch c {
	case models.CategoryJuvenil, models.CategoryAdulto, models.CategorySenior:
		return nil
	default:
		return fmt.Errorf("%w: unknown player category %q", ErrValidationFailed, c)
	}
}

func mapUserRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrUserCedulaConflict):
		return ErrCedulaConflict
	case errors.Is(err, repositories.ErrUserEmailConflict):
		return ErrEmailConflict
	default:
		return err
	}
}
