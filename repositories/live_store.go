package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/cricket-live/models"
	"golang.org/x/sync/errgroup"
)

// LiveStore backs the live coordinator with the SQL repositories.
type LiveStore struct {
	db      *sql.DB
	matches MatchRepository
	teams   TeamRepository
	innings InningsRepository
	balls   BallRepository
}

func NewLiveStore(db *sql.DB, matches MatchRepository, teams TeamRepository, innings InningsRepository, balls BallRepository) *LiveStore {
	return &LiveStore{db: db, matches: matches, teams: teams, innings: innings, balls: balls}
}

// LoadMatch returns the match with both rosters attached.
func (s *LiveStore) LoadMatch(ctx context.Context, matchID int) (*models.Match, error) {
	m, err := s.matches.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.teams.GetByID(gctx, m.HomeTeamID)
		if err != nil {
			return fmt.Errorf("home team %d: %w", m.HomeTeamID, err)
		}
		m.HomeTeam = t
		return nil
	})
	g.Go(func() error {
		t, err := s.teams.GetByID(gctx, m.AwayTeamID)
		if err != nil {
			return fmt.Errorf("away team %d: %w", m.AwayTeamID, err)
		}
		m.AwayTeam = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *LiveStore) ListInnings(ctx context.Context, matchID int) ([]models.Innings, error) {
	return s.innings.ListByMatch(ctx, matchID)
}

func (s *LiveStore) LoadInnings(ctx context.Context, inningsID int) (*models.InningsRecord, error) {
	inn, err := s.innings.GetByID(ctx, inningsID)
	if err != nil {
		return nil, err
	}
	balls, err := s.balls.ListByInnings(ctx, inningsID)
	if err != nil {
		return nil, err
	}
	return &models.InningsRecord{Innings: *inn, Balls: balls}, nil
}

// CreateInnings inserts the innings and points the match at it in one transaction.
func (s *LiveStore) CreateInnings(ctx context.Context, inn *models.Innings) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.innings.Create(ctx, tx, inn); err != nil {
			return err
		}
		return s.matches.SetCurrentInnings(ctx, tx, inn.MatchID, inn.ID)
	})
}

func (s *LiveStore) AppendBallEvent(ctx context.Context, inningsID int, ev *models.BallEvent) error {
	ev.InningsID = inningsID
	return s.balls.Append(ctx, nil, ev)
}

func (s *LiveStore) PersistInningsSnapshot(ctx context.Context, inn models.Innings, snapshot models.ScoreSnapshot) error {
	return s.innings.UpdateProgress(ctx, nil, inn, &snapshot)
}

func (s *LiveStore) UpdateMatchStatus(ctx context.Context, matchID int, status models.MatchStatus) error {
	return s.matches.UpdateStatus(ctx, nil, matchID, status)
}

func (s *LiveStore) FinishMatch(ctx context.Context, matchID int, status models.MatchStatus, winnerTeamID *int, resultText *string) error {
	return s.matches.SetResult(ctx, nil, matchID, status, winnerTeamID, resultText)
}
