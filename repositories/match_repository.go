package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/cricket-live/models"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	// ErrMatchReferenceInvalid covers unknown teams and unknown tournaments.
	ErrMatchReferenceInvalid = errors.New("match team or tournament reference invalid")
	ErrMatchSameTeams        = errors.New("a team cannot play itself")
)

type ListMatchesFilter struct {
	TournamentID *int
	Status       *models.MatchStatus
}

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	// CreateBatch stores all matches or none.
	CreateBatch(ctx context.Context, matches []*models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	List(ctx context.Context, filter ListMatchesFilter) ([]models.Match, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error
	SetCurrentInnings(ctx context.Context, exec SQLExecutor, id int, inningsID int) error
	SetResult(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus, winnerTeamID *int, resultText *string) error
}

type sqlMatchRepository struct {
	db *sql.DB
}

func NewMatchRepository(db *sql.DB) MatchRepository {
	return &sqlMatchRepository{db: db}
}

const matchColumns = `
	id, tournament_id, home_team_id, away_team_id, venue, scheduled_at, format, status,
	overs_per_innings, players_per_side, current_innings_id, winner_team_id, result_text, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner, m *models.Match) error {
	return row.Scan(
		&m.ID, &m.TournamentID, &m.HomeTeamID, &m.AwayTeamID, &m.Venue, &m.ScheduledAt, &m.Format, &m.Status,
		&m.OversPerInnings, &m.PlayersPerSide, &m.CurrentInningsID, &m.WinnerTeamID, &m.ResultText, &m.CreatedAt,
	)
}

func (r *sqlMatchRepository) Create(ctx context.Context, m *models.Match) error {
	return r.insert(ctx, r.db, m)
}

func (r *sqlMatchRepository) CreateBatch(ctx context.Context, matches []*models.Match) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for i, m := range matches {
			if err := r.insert(ctx, tx, m); err != nil {
				return fmt.Errorf("match %d of %d: %w", i+1, len(matches), err)
			}
		}
		return nil
	})
}

func (r *sqlMatchRepository) insert(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		INSERT INTO matches
			(tournament_id, home_team_id, away_team_id, venue, scheduled_at, format, status, overs_per_innings, players_per_side)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		m.TournamentID,
		m.HomeTeamID,
		m.AwayTeamID,
		m.Venue,
		m.ScheduledAt,
		m.Format,
		m.Status,
		m.OversPerInnings,
		m.PlayersPerSide,
	).Scan(&m.ID, &m.CreatedAt)

	return r.handleMatchError(err)
}

func (r *sqlMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	m := &models.Match{}
	err := scanMatch(executor(r.db, exec).QueryRowContext(ctx, `SELECT`+matchColumns+` FROM matches WHERE id = $1`, id), m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *sqlMatchRepository) List(ctx context.Context, filter ListMatchesFilter) ([]models.Match, error) {
	query := `SELECT` + matchColumns + ` FROM matches WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if filter.TournamentID != nil {
		query += fmt.Sprintf(" AND tournament_id = $%d", argID)
		args = append(args, *filter.TournamentID)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
	}
	query += " ORDER BY scheduled_at ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := scanMatch(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *sqlMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error {
	result, err := executor(r.db, exec).ExecContext(ctx, `UPDATE matches SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status of match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *sqlMatchRepository) SetCurrentInnings(ctx context.Context, exec SQLExecutor, id int, inningsID int) error {
	result, err := executor(r.db, exec).ExecContext(ctx, `UPDATE matches SET current_innings_id = $1 WHERE id = $2`, inningsID, id)
	if err != nil {
		return fmt.Errorf("failed to set current innings of match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *sqlMatchRepository) SetResult(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus, winnerTeamID *int, resultText *string) error {
	query := `
		UPDATE matches
		SET status = $1, winner_team_id = $2, result_text = $3
		WHERE id = $4`

	result, err := executor(r.db, exec).ExecContext(ctx, query, status, winnerTeamID, resultText, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *sqlMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	switch classifyConstraint(err) {
	case constraintForeignKey:
		return ErrMatchReferenceInvalid
	case constraintCheck:
		return ErrMatchSameTeams
	}
	return err
}
