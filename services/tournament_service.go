package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/cricket-live/brackets"
	"github.com/Dosada05/cricket-live/live"
	"github.com/Dosada05/cricket-live/models"
	"github.com/Dosada05/cricket-live/repositories"
)

// LiveScoreReader reads current snapshots without touching the scoring queues.
type LiveScoreReader interface {
	Snapshots(ctx context.Context, matchIDs []int) ([]live.LiveScore, error)
}

type CreateTournamentInput struct {
	Name      string             `json:"name" validate:"required,min=3,max=150"`
	Format    models.MatchFormat `json:"format" validate:"required,oneof=T20 ODI TEST"`
	StartDate time.Time          `json:"start_date" validate:"required"`
	EndDate   time.Time          `json:"end_date" validate:"required"`
	Location  *string            `json:"location,omitempty" validate:"omitempty,max=150"`
}

type GenerateFixturesInput struct {
	TeamIDs           []int     `json:"team_ids" validate:"required,min=2,max=32,unique,dive,gt=0"`
	Legs              int       `json:"legs,omitempty" validate:"omitempty,oneof=1 2"`
	Venue             string    `json:"venue" validate:"required,max=150"`
	FirstMatchAt      time.Time `json:"first_match_at" validate:"required"`
	DaysBetweenRounds int       `json:"days_between_rounds,omitempty" validate:"gte=0,lte=30"`
	OversPerInnings   int       `json:"overs_per_innings,omitempty" validate:"gte=0"`
}

type TournamentService struct {
	repo      repositories.TournamentRepository
	matchRepo repositories.MatchRepository
	scores    LiveScoreReader
	logger    *slog.Logger
}

func NewTournamentService(
	repo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	scores LiveScoreReader,
	logger *slog.Logger,
) *TournamentService {
	return &TournamentService{repo: repo, matchRepo: matchRepo, scores: scores, logger: logger}
}

func (s *TournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, fmt.Errorf("%w: start %s, end %s", ErrTournamentInvalidDateRange,
			input.StartDate.Format(time.DateOnly), input.EndDate.Format(time.DateOnly))
	}

	t := &models.Tournament{
		Name:      input.Name,
		Format:    input.Format,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Location:  input.Location,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, handleRepositoryError(err)
	}
	s.logger.InfoContext(ctx, "tournament created", slog.Int("tournament_id", t.ID), slog.String("format", string(t.Format)))
	return t, nil
}

// GetTournamentByID returns the tournament with its fixtures.
func (s *TournamentService) GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	matches, err := s.matchRepo.List(ctx, repositories.ListMatchesFilter{TournamentID: &id})
	if err != nil {
		return nil, err
	}
	t.Matches = matches
	return t, nil
}

func (s *TournamentService) ListTournaments(ctx context.Context, limit, offset int) ([]models.Tournament, error) {
	return s.repo.List(ctx, limit, offset)
}

// LiveScores returns the current snapshot of every LIVE match in the tournament.
func (s *TournamentService) LiveScores(ctx context.Context, id int) ([]live.LiveScore, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, handleRepositoryError(err)
	}

	status := models.MatchStatusLive
	matches, err := s.matchRepo.List(ctx, repositories.ListMatchesFilter{TournamentID: &id, Status: &status})
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	if len(ids) == 0 {
		return []live.LiveScore{}, nil
	}

	scores, err := s.scores.Snapshots(ctx, ids)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to collect live scores", slog.Int("tournament_id", id), slog.Any("error", err))
		return nil, err
	}
	return scores, nil
}

// GenerateFixtures schedules a round robin league between the given teams.
// Rounds are DaysBetweenRounds apart (one day by default) and must fit in the
// tournament's dates. Either every fixture is stored or none.
func (s *TournamentService) GenerateFixtures(ctx context.Context, id int, input GenerateFixturesInput) ([]models.Match, error) {
	input.Venue = strings.TrimSpace(input.Venue)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Legs == 0 {
		input.Legs = 1
	}
	if input.DaysBetweenRounds == 0 {
		input.DaysBetweenRounds = 1
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if limit := t.Format.MaxOvers(); limit > 0 && input.OversPerInnings > limit {
		return nil, fmt.Errorf("%w: %d overs in %s", ErrOversExceedFormat, input.OversPerInnings, t.Format)
	}

	pairings, err := brackets.RoundRobin(input.TeamIDs, input.Legs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	spacing := time.Duration(input.DaysBetweenRounds) * 24 * time.Hour
	lastRound := input.FirstMatchAt.Add(time.Duration(brackets.Rounds(len(input.TeamIDs), input.Legs)-1) * spacing)
	if dayOf(input.FirstMatchAt).Before(dayOf(t.StartDate)) || dayOf(lastRound).After(dayOf(t.EndDate)) {
		return nil, fmt.Errorf("%w: rounds run %s to %s, tournament %s to %s", ErrFixturesOutsideTournament,
			input.FirstMatchAt.Format(time.DateOnly), lastRound.Format(time.DateOnly),
			t.StartDate.Format(time.DateOnly), t.EndDate.Format(time.DateOnly))
	}

	matches := make([]*models.Match, 0, len(pairings))
	for _, p := range pairings {
		matches = append(matches, &models.Match{
			TournamentID:    &t.ID,
			HomeTeamID:      p.HomeTeamID,
			AwayTeamID:      p.AwayTeamID,
			Venue:           input.Venue,
			ScheduledAt:     input.FirstMatchAt.Add(time.Duration(p.Round-1) * spacing),
			Format:          t.Format,
			Status:          models.MatchStatusScheduled,
			OversPerInnings: input.OversPerInnings,
			PlayersPerSide:  models.DefaultPlayersPerSide,
		})
	}
	if err := s.matchRepo.CreateBatch(ctx, matches); err != nil {
		return nil, handleRepositoryError(err)
	}

	out := make([]models.Match, len(matches))
	for i, m := range matches {
		out[i] = *m
	}
	s.logger.InfoContext(ctx, "fixtures generated",
		slog.Int("tournament_id", id),
		slog.Int("teams", len(input.TeamIDs)),
		slog.Int("matches", len(out)),
	)
	return out, nil
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
