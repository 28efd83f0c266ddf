package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/asopadel/padel-system/live"
	"github.com/asopadel/padel-system/models"
	"github.com/asopadel/padel-system/ranking"
	"github.com/asopadel/padel-system/repositories"
	"github.com/asopadel/padel-system/scheduling"
)

// maxRefereeResultEdits bounds how many times a referee may correct a
// finalized result. Admins are not limited.
const maxRefereeResultEdits = 2

type CreateMatchInput struct {
	TournamentID int    `json:"tournament_id"`
	CourtID      *int   `json:"court_id"`
	RefereeID    *int   `json:"referee_id"`
	Date         string `json:"date"` // "2006-01-02"
	StartTime    string `json:"start_time"`
	Team1IDs     []int  `json:"team1_ids"`
	Team2IDs     []int  `json:"team2_ids"`
}

type ResultInput struct {
	Score      *string `json:"score"`
	WinnerTeam *int    `json:"winner_team"`
}

type MatchService interface {
	Create(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error)
	ListByPlayer(ctx context.Context, playerID int) ([]*models.Match, error)
	Cancel(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error

	// Finalize is the single command that locks in a result and, as a
	// best-effort side effect, applies statistics and rating updates exactly
	// once per match.
	Finalize(ctx context.Context, matchID int, input ResultInput) (*models.Match, error)

	// EditResult corrects an already finalized result. It never re-applies
	// rating deltas; RecalculateAll reconciles ratings after corrections.
	EditResult(ctx context.Context, matchID int, editorRole models.UserRole, input ResultInput) (*models.Match, error)

	// RecalculateAll rebuilds every rating and statistic from the finalized
	// match history in chronological order. Matches without a resolvable
	// outcome are skipped and do not count toward the returned total.
	RecalculateAll(ctx context.Context) (int, error)

	// GenerateSchedule creates a round-robin slate of 1v1 matches for the
	// tournament's enrolled players, one round per day from the start date.
	GenerateSchedule(ctx context.Context, tournamentID int) ([]*models.Match, error)
}

type matchService struct {
	db             *sql.DB
	matchRepo      repositories.MatchRepository
	userRepo       repositories.UserRepository
	statRepo       repositories.StatRepository
	tournamentRepo repositories.TournamentRepository
	hub            *live.Hub
	logger         *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	userRepo repositories.UserRepository,
	statRepo repositories.StatRepository,
	tournamentRepo repositories.TournamentRepository,
	hub *live.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:             db,
		matchRepo:      matchRepo,
		userRepo:       userRepo,
		statRepo:       statRepo,
		tournamentRepo: tournamentRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *matchService) Create(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	if err := validateRosters(input.Team1IDs, input.Team2IDs); err != nil {
		return nil, err
	}
	date, err := parseDate(input.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if _, err = parseClock(input.StartTime); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if _, err = s.tournamentRepo.GetByID(ctx, input.TournamentID); err != nil {
		return nil, mapTournamentRepoError(err)
	}

	match := &models.Match{
		TournamentID: input.TournamentID,
		CourtID:      input.CourtID,
		RefereeID:    input.RefereeID,
		Date:         date,
		StartTime:    input.StartTime,
		Status:       models.MatchStatusScheduled,
	}
	if err = s.matchRepo.Create(ctx, match, input.Team1IDs, input.Team2IDs); err != nil {
		return nil, mapMatchRepoError(err)
	}
	return s.GetByID(ctx, match.ID)
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapMatchRepoError(err)
	}
	if err = s.populateRosters(ctx, match); err != nil {
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	for _, m := range matches {
		if err = s.populateRosters(ctx, m); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

func (s *matchService) ListByPlayer(ctx context.Context, playerID int) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for player %d: %w", playerID, err)
	}
	return matches, nil
}

func (s *matchService) Cancel(ctx context.Context, id int) error {
	match, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		return mapMatchRepoError(err)
	}
	if match.Status != models.MatchStatusScheduled && match.Status != models.MatchStatusConfirmed {
		return ErrMatchNotCancelable
	}
	return mapMatchRepoError(s.matchRepo.UpdateStatus(ctx, id, models.MatchStatusCanceled))
}

func (s *matchService) Delete(ctx context.Context, id int) error {
	return mapMatchRepoError(s.matchRepo.Delete(ctx, id))
}

func (s *matchService) Finalize(ctx context.Context, matchID int, input ResultInput) (*models.Match, error) {
	if input.WinnerTeam != nil && *input.WinnerTeam != 1 && *input.WinnerTeam != 2 {
		return nil, ErrMatchWinnerInvalid
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin finalize transaction: %w", err)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("finalize rollback failed", slog.Int("match_id", matchID), slog.Any("error", rbErr))
			}
		}
	}()

	match, err := s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
	if err != nil {
		txErr = err
		return nil, mapMatchRepoError(err)
	}
	if err = checkFinalizable(match); err != nil {
		txErr = err
		return nil, err
	}

	match.Score = input.Score
	match.WinnerTeam = input.WinnerTeam
	match.Status = models.MatchStatusFinalized
	if err = s.matchRepo.UpdateResult(ctx, tx, matchID, match.Score, match.Status, match.WinnerTeam, match.ResultEdits); err != nil {
		txErr = err
		return nil, mapMatchRepoError(err)
	}

	// Best-effort post-processing: a bad roster or unresolvable outcome is
	// logged and skipped so the finalize itself still lands.
	if !match.RatingApplied {
		if applyErr := s.applyOutcome(ctx, tx, match); applyErr != nil {
			s.logger.Warn("skipping rating update for finalized match",
				slog.Int("match_id", matchID), slog.Any("error", applyErr))
		} else {
			if err = s.matchRepo.MarkRatingApplied(ctx, tx, matchID); err != nil {
				txErr = err
				return nil, fmt.Errorf("failed to mark match %d as rating-applied: %w", matchID, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		txErr = err
		return nil, fmt.Errorf("failed to commit finalize transaction: %w", err)
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.TournamentRoom(match.TournamentID), live.Message{
			Type:    "MATCH_FINALIZED",
			Payload: match,
		})
	}
	return s.GetByID(ctx, matchID)
}

func (s *matchService) EditResult(ctx context.Context, matchID int, editorRole models.UserRole, input ResultInput) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, mapMatchRepoError(err)
	}
	if match.Status != models.MatchStatusFinalized {
		return nil, ErrMatchNotFinalized
	}
	if editorRole != models.RoleAdmin && match.ResultEdits >= maxRefereeResultEdits {
		return nil, ErrResultEditLimitReached
	}
	if input.WinnerTeam != nil && *input.WinnerTeam != 1 && *input.WinnerTeam != 2 {
		return nil, ErrMatchWinnerInvalid
	}

	if input.Score != nil {
		match.Score = input.Score
	}
	if input.WinnerTeam != nil {
		match.WinnerTeam = input.WinnerTeam
	}
	match.ResultEdits++

	err = s.matchRepo.UpdateResult(ctx, nil, matchID, match.Score, match.Status, match.WinnerTeam, match.ResultEdits)
	if err != nil {
		return nil, mapMatchRepoError(err)
	}
	return s.GetByID(ctx, matchID)
}

// checkFinalizable gates the status transition into finalized: only
// scheduled and confirmed matches may take a result.
func checkFinalizable(match *models.Match) error {
	switch match.Status {
	case models.MatchStatusScheduled, models.MatchStatusConfirmed:
		return nil
	case models.MatchStatusFinalized:
		return ErrMatchAlreadyFinalized
	default:
		return fmt.Errorf("%w: match %d is %s", ErrValidationFailed, match.ID, match.Status)
	}
}

// resolveWinner determines the winning and losing rosters of a match. The
// outcome sources are tried in fixed priority order: the explicit winner-team
// indicator first, then the legacy "2-1" set score for 1v1 rosters.
func resolveWinner(match *models.Match, team1, team2 []models.User) (winners, losers []models.User, err error) {
	if err := validateResolvedRosters(team1, team2); err != nil {
		return nil, nil, err
	}

	if match.WinnerTeam != nil {
		switch *match.WinnerTeam {
		case 1:
			return team1, team2, nil
		case 2:
			return team2, team1, nil
		default:
			return nil, nil, ErrMatchWinnerInvalid
		}
	}

	if match.Score != nil && len(team1) == 1 && len(team2) == 1 {
		sets1, sets2, parseErr := parseSetScore(*match.Score)
		if parseErr != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMatchOutcomeUnresolvable, parseErr)
		}
		switch {
		case sets1 > sets2:
			return team1, team2, nil
		case sets2 > sets1:
			return team2, team1, nil
		default:
			return nil, nil, fmt.Errorf("%w: drawn score %q", ErrMatchOutcomeUnresolvable, *match.Score)
		}
	}

	return nil, nil, ErrMatchOutcomeUnresolvable
}

// applyOutcome updates statistics and ratings for a resolved match. Ratings
// for each side are averaged, a single delta is computed per side, and the
// same delta is applied to every member so intra-team differences persist.
func (s *matchService) applyOutcome(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	team1, team2, err := s.matchRepo.GetRosters(ctx, exec, match.ID)
	if err != nil {
		return err
	}
	winners, losers, err := resolveWinner(match, team1, team2)
	if err != nil {
		return err
	}

	var categoryID *int
	if tournament, tErr := s.tournamentRepo.GetByID(ctx, match.TournamentID); tErr == nil {
		categoryID = tournament.CategoryID
	}

	for _, player := range winners {
		if err = s.recordResult(ctx, exec, player.ID, categoryID, true); err != nil {
			return err
		}
	}
	for _, player := range losers {
		if err = s.recordResult(ctx, exec, player.ID, categoryID, false); err != nil {
			return err
		}
	}

	winnerMean := ranking.TeamAverage(playerRatings(winners))
	loserMean := ranking.TeamAverage(playerRatings(losers))
	pWin := ranking.WinProbability(winnerMean, loserMean)
	winnerDelta := ranking.Delta(ranking.DefaultK, 1, pWin)
	loserDelta := ranking.Delta(ranking.DefaultK, 0, 1-pWin)

	for _, player := range winners {
		newRating := ranking.Clamp(ranking.Effective(player.Rating) + winnerDelta)
		if err = s.userRepo.UpdateRating(ctx, exec, player.ID, newRating); err != nil {
			return err
		}
	}
	for _, player := range losers {
		newRating := ranking.Clamp(ranking.Effective(player.Rating) + loserDelta)
		if err = s.userRepo.UpdateRating(ctx, exec, player.ID, newRating); err != nil {
			return err
		}
	}
	return nil
}

func (s *matchService) recordResult(ctx context.Context, exec repositories.SQLExecutor, playerID int, categoryID *int, won bool) error {
	stat, err := s.statRepo.GetOrCreate(ctx, exec, playerID, categoryID)
	if err != nil {
		return err
	}
	return s.statRepo.AddResult(ctx, exec, stat.ID, won)
}

func (s *matchService) RecalculateAll(ctx context.Context) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin recalculation transaction: %w", err)
	}
	defer tx.Rollback()

	if err = s.statRepo.DeleteAll(ctx, tx); err != nil {
		return 0, err
	}
	if err = s.userRepo.ResetAllRatings(ctx, tx); err != nil {
		return 0, err
	}

	matches, err := s.matchRepo.ListFinalizedChronological(ctx, tx)
	if err != nil {
		return 0, err
	}

	processed, skipped := 0, 0
	for _, match := range matches {
		if err = s.applyOutcome(ctx, tx, match); err != nil {
			// Finalize permits outcome-less matches, so they carry no
			// rating weight here either; anything else aborts the run.
			if outcomeUnusable(err) {
				skipped++
				s.logger.Warn("skipping match without usable outcome",
					slog.Int("match_id", match.ID), slog.Any("error", err))
				continue
			}
			return 0, fmt.Errorf("recalculation failed at match %d: %w", match.ID, err)
		}
		processed++
		if processed%10 == 0 || processed == len(matches) {
			s.logger.Info("recalculation progress",
				slog.Int("processed", processed), slog.Int("total", len(matches)))
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit recalculation transaction: %w", err)
	}
	if skipped > 0 {
		s.logger.Info("recalculation finished with skipped matches",
			slog.Int("processed", processed), slog.Int("skipped", skipped))
	}
	return processed, nil
}

// outcomeUnusable reports whether applying a match outcome failed because
// the match itself cannot contribute to ratings, as opposed to a storage
// error.
func outcomeUnusable(err error) bool {
	return errors.Is(err, ErrMatchOutcomeUnresolvable) ||
		errors.Is(err, ErrMatchRosterSize) ||
		errors.Is(err, ErrMatchRosterOverlap) ||
		errors.Is(err, ErrMatchWinnerInvalid)
}

func (s *matchService) GenerateSchedule(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}
	players, err := s.tournamentRepo.ListPlayers(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for tournament %d: %w", tournamentID, err)
	}

	ids := make([]int, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	pairings, err := scheduling.RoundRobin(ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	matches := make([]*models.Match, 0, len(pairings))
	for _, pairing := range pairings {
		match := &models.Match{
			TournamentID: tournamentID,
			RefereeID:    tournament.RefereeID,
			Date:         tournament.StartDate.AddDate(0, 0, pairing.Round-1),
			StartTime:    "09:00",
			Status:       models.MatchStatusScheduled,
		}
		if err = s.matchRepo.Create(ctx, match, []int{pairing.HomeID}, []int{pairing.AwayID}); err != nil {
			return nil, mapMatchRepoError(err)
		}
		matches = append(matches, match)
	}

	s.logger.Info("tournament schedule generated",
		slog.Int("tournament_id", tournamentID), slog.Int("matches", len(matches)))
	return matches, nil
}

func (s *matchService) populateRosters(ctx context.Context, match *models.Match) error {
	team1, team2, err := s.matchRepo.GetRosters(ctx, nil, match.ID)
	if err != nil {
		return err
	}
	for i := range team1 {
		team1[i].PasswordHash = ""
	}
	for i := range team2 {
		team2[i].PasswordHash = ""
	}
	match.Team1 = team1
	match.Team2 = team2
	return nil
}

func validateRosters(team1IDs, team2IDs []int) error {
	if len(team1IDs) < 1 || len(team1IDs) > 2 || len(team2IDs) < 1 || len(team2IDs) > 2 {
		return ErrMatchRosterSize
	}
	seen := make(map[int]struct{}, len(team1IDs)+len(team2IDs))
	for _, id := range append(append([]int{}, team1IDs...), team2IDs...) {
		if _, dup := seen[id]; dup {
			return ErrMatchRosterOverlap
		}
		seen[id] = struct{}{}
	}
	return nil
}

func validateResolvedRosters(team1, team2 []models.User) error {
	if len(team1) < 1 || len(team1) > 2 || len(team2) < 1 || len(team2) > 2 {
		return ErrMatchRosterSize
	}
	for _, a := range team1 {
		for _, b := range team2 {
			if a.ID == b.ID {
				return ErrMatchRosterOverlap
			}
		}
	}
	return nil
}

func playerRatings(players []models.User) []int {
	ratings := make([]int, len(players))
	for i, p := range players {
		ratings[i] = p.Rating
	}
	return ratings
}

// parseSetScore parses the legacy "2-1" (or "2 - 1") set score format.
func parseSetScore(score string) (int, int, error) {
	parts := strings.Split(strings.ReplaceAll(strings.TrimSpace(score), " ", ""), "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed set score %q", score)
	}
	sets1, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed set score %q", score)
	}
	sets2, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed set score %q", score)
	}
	return sets1, sets2, nil
}

func mapMatchRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrMatchTournamentInvalid):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrMatchCourtInvalid):
		return ErrCourtNotFound
	case errors.Is(err, repositories.ErrMatchPlayerInvalid):
		return ErrUserNotFound
	default:
		return err
	}
}

func mapTournamentRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrCategoryNotFound):
		return ErrCategoryNotFound
	default:
		return err
	}
}
