package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/asopadel/padel-system/models"
	"github.com/asopadel/padel-system/repositories"
)

const (
	leaderboardKeyPrefix = "leaderboard:"
	leaderboardTTL       = 60 * time.Second
	defaultLeaderboard   = 10
	maxLeaderboard       = 100
)

type RankingService interface {
	// Leaderboard returns the top players by rating, served from a short
	// lived Redis cache when one is configured.
	Leaderboard(ctx context.Context, limit int) ([]*models.User, error)
	PlayerStats(ctx context.Context, playerID int) ([]*models.PlayerStat, error)
	// InvalidateLeaderboard drops the cached standings after results change.
	InvalidateLeaderboard(ctx context.Context)
}

type rankingService struct {
	userRepo repositories.UserRepository
	statRepo repositories.StatRepository
	cache    *redis.Client // nil when Redis is not configured
	logger   *slog.Logger
}

func NewRankingService(
	userRepo repositories.UserRepository,
	statRepo repositories.StatRepository,
	cache *redis.Client,
	logger *slog.Logger,
) RankingService {
	return &rankingService{
		userRepo: userRepo,
		statRepo: statRepo,
		cache:    cache,
		logger:   logger,
	}
}

func (s *rankingService) Leaderboard(ctx context.Context, limit int) ([]*models.User, error) {
	if limit <= 0 {
		limit = defaultLeaderboard
	}
	if limit > maxLeaderboard {
		limit = maxLeaderboard
	}

	key := fmt.Sprintf("%s%d", leaderboardKeyPrefix, limit)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key).Result()
		if err == nil {
			var players []*models.User
			if jsonErr := json.Unmarshal([]byte(cached), &players); jsonErr == nil {
				return players, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("leaderboard cache read failed", slog.Any("error", err))
		}
	}

	players, err := s.userRepo.TopByRating(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	for _, p := range players {
		p.PasswordHash = ""
	}

	if s.cache != nil {
		if data, jsonErr := json.Marshal(players); jsonErr == nil {
			if err := s.cache.Set(ctx, key, data, leaderboardTTL).Err(); err != nil {
				s.logger.Warn("leaderboard cache write failed", slog.Any("error", err))
			}
		}
	}
	return players, nil
}

func (s *rankingService) PlayerStats(ctx context.Context, playerID int) ([]*models.PlayerStat, error) {
	if _, err := s.userRepo.GetByID(ctx, playerID); err != nil {
		return nil, mapUserRepoError(err)
	}
	stats, err := s.statRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats for player %d: %w", playerID, err)
	}
	return stats, nil
}

func (s *rankingService) InvalidateLeaderboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	iter := s.cache.Scan(ctx, 0, leaderboardKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn("leaderboard cache invalidation failed",
				slog.String("key", iter.Val()), slog.Any("error", err))
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn("leaderboard cache scan failed", slog.Any("error", err))
	}
}
