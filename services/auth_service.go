package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/asopadel/padel-system/models"
	"github.com/asopadel/padel-system/repositories"
	"github.com/asopadel/padel-system/utils"
)

const tokenTTL = 24 * time.Hour

// Claims is the JWT payload issued on login and consumed by the auth
// middleware.
type Claims struct {
	UserID int             `json:"user_id"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// Login verifies the credentials and issues a signed token together
	// with the authenticated user.
	Login(ctx context.Context, creds models.Credentials) (string, *models.User, error)
	// ParseToken validates a token string and returns its claims.
	ParseToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	logger    *slog.Logger
}

func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, logger *slog.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		logger:    logger,
	}
}

func (s *authService) Login(ctx context.Context, creds models.Credentials) (string, *models.User, error) {
	user, err := s.userRepo.GetByCedula(ctx, creds.Cedula)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up user by cedula: %w", err)
	}
	if !user.Active {
		return "", nil, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(creds.Password, user.PasswordHash) {
		s.logger.Info("failed login attempt", slog.String("cedula", creds.Cedula))
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			Subject:   creds.Cedula,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	user.PasswordHash = ""
	return token, user, nil
}

func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrAuthenticationFailed
	}
	return claims, nil
}
