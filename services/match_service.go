package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/cricket-live/live"
	"github.com/Dosada05/cricket-live/models"
	"github.com/Dosada05/cricket-live/repositories"
	"golang.org/x/sync/errgroup"
)

// Scorer is the part of the live coordinator the match service drives.
type Scorer interface {
	StartInnings(ctx context.Context, matchID int, req live.InningsStart) (*models.Innings, error)
	SubmitBall(ctx context.Context, matchID int, ev models.BallEvent) (*live.BallOutcome, error)
	AbandonMatch(ctx context.Context, matchID int) (*models.Match, error)
	GetSnapshot(ctx context.Context, matchID int) (*models.ScoreSnapshot, error)
}

type CreateMatchInput struct {
	TournamentID    *int               `json:"tournament_id,omitempty" validate:"omitempty,gt=0"`
	HomeTeamID      int                `json:"home_team_id" validate:"required,gt=0"`
	AwayTeamID      int                `json:"away_team_id" validate:"required,gt=0,nefield=HomeTeamID"`
	Venue           string             `json:"venue" validate:"required,max=150"`
	ScheduledAt     time.Time          `json:"scheduled_at" validate:"required"`
	Format          models.MatchFormat `json:"format" validate:"omitempty,oneof=T20 ODI TEST"`
	OversPerInnings int                `json:"overs_per_innings,omitempty" validate:"gte=0"`
	PlayersPerSide  int                `json:"players_per_side,omitempty" validate:"omitempty,min=2,max=11"`
}

type StartInningsInput struct {
	BattingTeamID int `json:"batting_team_id" validate:"required,gt=0"`
	StrikerID     int `json:"striker_id" validate:"required,gt=0"`
	NonStrikerID  int `json:"non_striker_id" validate:"required,gt=0,nefield=StrikerID"`
	BowlerID      int `json:"bowler_id" validate:"required,gt=0"`
}

// MatchDetails is a match with its rosters and every innings played so far.
type MatchDetails struct {
	*models.Match
	Innings []models.Innings `json:"innings"`
}

type MatchService struct {
	matchRepo      repositories.MatchRepository
	teamRepo       repositories.TeamRepository
	tournamentRepo repositories.TournamentRepository
	inningsRepo    repositories.InningsRepository
	scorer         Scorer
	logger         *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	inningsRepo repositories.InningsRepository,
	scorer Scorer,
	logger *slog.Logger,
) *MatchService {
	return &MatchService{
		matchRepo:      matchRepo,
		teamRepo:       teamRepo,
		tournamentRepo: tournamentRepo,
		inningsRepo:    inningsRepo,
		scorer:         scorer,
		logger:         logger,
	}
}

// CreateMatch schedules a fixture. Without an explicit format the tournament's is used.
func (s *MatchService) CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	input.Venue = strings.TrimSpace(input.Venue)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var tournament *models.Tournament
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range []int{input.HomeTeamID, input.AwayTeamID} {
		g.Go(func() error {
			if _, err := s.teamRepo.GetByID(gctx, id); err != nil {
				return fmt.Errorf("team %d: %w", id, handleRepositoryError(err))
			}
			return nil
		})
	}
	if input.TournamentID != nil {
		g.Go(func() error {
			t, err := s.tournamentRepo.GetByID(gctx, *input.TournamentID)
			if err != nil {
				return handleRepositoryError(err)
			}
			tournament = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	format := input.Format
	if tournament != nil {
		if format == "" {
			format = tournament.Format
		} else if format != tournament.Format {
			return nil, fmt.Errorf("%w: %s in a %s tournament", ErrMatchFormatMismatch, format, tournament.Format)
		}
	}
	if format == "" {
		return nil, &InputError{Fields: map[string]string{"Format": "failed on the 'required' rule"}}
	}
	if limit := format.MaxOvers(); limit > 0 && input.OversPerInnings > limit {
		return nil, fmt.Errorf("%w: %d overs in %s", ErrOversExceedFormat, input.OversPerInnings, format)
	}

	players := input.PlayersPerSide
	if players == 0 {
		players = models.DefaultPlayersPerSide
	}
	m := &models.Match{
		TournamentID:    input.TournamentID,
		HomeTeamID:      input.HomeTeamID,
		AwayTeamID:      input.AwayTeamID,
		Venue:           input.Venue,
		ScheduledAt:     input.ScheduledAt,
		Format:          format,
		Status:          models.MatchStatusScheduled,
		OversPerInnings: input.OversPerInnings,
		PlayersPerSide:  players,
	}
	if err := s.matchRepo.Create(ctx, m); err != nil {
		return nil, handleRepositoryError(err)
	}
	s.logger.InfoContext(ctx, "match scheduled", slog.Int("match_id", m.ID), slog.String("format", string(m.Format)))
	return m, nil
}

// GetMatch loads the match, its teams and innings concurrently.
func (s *MatchService) GetMatch(ctx context.Context, id int) (*MatchDetails, error) {
	m, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	details := &MatchDetails{Match: m}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.inningsRepo.ListByMatch(gctx, id)
		details.Innings = list
		return err
	})
	g.Go(func() error {
		t, err := s.teamRepo.GetByID(gctx, m.HomeTeamID)
		m.HomeTeam = t
		return err
	})
	g.Go(func() error {
		t, err := s.teamRepo.GetByID(gctx, m.AwayTeamID)
		m.AwayTeam = t
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, handleRepositoryError(err)
	}
	return details, nil
}

func (s *MatchService) StartInnings(ctx context.Context, matchID int, input StartInningsInput) (*models.Innings, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	inn, err := s.scorer.StartInnings(ctx, matchID, live.InningsStart{
		BattingTeamID: input.BattingTeamID,
		StrikerID:     input.StrikerID,
		NonStrikerID:  input.NonStrikerID,
		BowlerID:      input.BowlerID,
	})
	if err != nil {
		return nil, err
	}
	return inn, nil
}

// SubmitBall hands the delivery to the match's scoring queue.
func (s *MatchService) SubmitBall(ctx context.Context, matchID int, ev models.BallEvent) (*live.BallOutcome, error) {
	if ev.Sequence != 0 || ev.ID != 0 {
		return nil, &InputError{Fields: map[string]string{"sequence": "assigned by the server"}}
	}
	return s.scorer.SubmitBall(ctx, matchID, ev)
}

func (s *MatchService) LiveScore(ctx context.Context, matchID int) (*models.ScoreSnapshot, error) {
	return s.scorer.GetSnapshot(ctx, matchID)
}

func (s *MatchService) AbandonMatch(ctx context.Context, matchID int) (*models.Match, error) {
	m, err := s.scorer.AbandonMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, live.ErrMatchFinished) {
			s.logger.WarnContext(ctx, "abandon requested for finished match", slog.Int("match_id", matchID))
		}
		return nil, err
	}
	return m, nil
}
