package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/asopadel/padel-system/models"
	"github.com/asopadel/padel-system/repositories"
)

const dashboardTopPlayers = 5

type DashboardService interface {
	// Summary assembles the landing-page dashboard, fanning the independent
	// queries out concurrently.
	Summary(ctx context.Context) (*models.DashboardSummary, error)
}

type dashboardService struct {
	userRepo        repositories.UserRepository
	matchRepo       repositories.MatchRepository
	reservationRepo repositories.ReservationRepository
	courtService    CourtService
	rankingService  RankingService
	now             func() time.Time
}

func NewDashboardService(
	userRepo repositories.UserRepository,
	matchRepo repositories.MatchRepository,
	reservationRepo repositories.ReservationRepository,
	courtService CourtService,
	rankingService RankingService,
) DashboardService {
	return &dashboardService{
		userRepo:        userRepo,
		matchRepo:       matchRepo,
		reservationRepo: reservationRepo,
		courtService:    courtService,
		rankingService:  rankingService,
		now:             time.Now,
	}
}

func (s *dashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	summary := &models.DashboardSummary{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.userRepo.CountPlayers(gctx)
		if err != nil {
			return fmt.Errorf("failed to count players: %w", err)
		}
		summary.TotalPlayers = n
		return nil
	})
	g.Go(func() error {
		n, err := s.matchRepo.Count(gctx)
		if err != nil {
			return fmt.Errorf("failed to count matches: %w", err)
		}
		summary.TotalMatches = n
		return nil
	})
	g.Go(func() error {
		n, err := s.reservationRepo.Count(gctx)
		if err != nil {
			return fmt.Errorf("failed to count reservations: %w", err)
		}
		summary.TotalReservations = n
		return nil
	})
	g.Go(func() error {
		players, err := s.rankingService.Leaderboard(gctx, dashboardTopPlayers)
		if err != nil {
			return err
		}
		summary.TopPlayers = make([]models.User, len(players))
		for i, p := range players {
			summary.TopPlayers[i] = *p
		}
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.ListToday(gctx)
		if err != nil {
			return fmt.Errorf("failed to list today's matches: %w", err)
		}
		summary.TodayMatches = make([]models.Match, len(matches))
		for i, m := range matches {
			summary.TodayMatches[i] = *m
		}
		return nil
	})
	g.Go(func() error {
		statuses, err := s.courtService.ListStatuses(gctx, s.now())
		if err != nil {
			return err
		}
		summary.CourtStatuses = make([]models.CourtLiveStatus, len(statuses))
		for i, st := range statuses {
			summary.CourtStatuses[i] = *st
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}
