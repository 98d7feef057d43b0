package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/cricket-live/models"
)

var (
	ErrInningsNotFound       = errors.New("innings not found")
	ErrInningsNumberConflict = errors.New("innings with this number already exists for the match")
	// ErrInningsVersionConflict means a newer snapshot has already been stored,
	// i.e. another writer is ahead of this one.
	ErrInningsVersionConflict = errors.New("innings has been updated by another writer")
)

type InningsRepository interface {
	Create(ctx context.Context, exec SQLExecutor, innings *models.Innings) error
	GetByID(ctx context.Context, id int) (*models.Innings, error)
	ListByMatch(ctx context.Context, matchID int) ([]models.Innings, error)
	// UpdateProgress stores counters and the snapshot. Version is the sequence of the
	// last ball the snapshot covers; a stored version above it is a conflict.
	UpdateProgress(ctx context.Context, exec SQLExecutor, innings models.Innings, snapshot *models.ScoreSnapshot) error
}

type sqlInningsRepository struct {
	db *sql.DB
}

func NewInningsRepository(db *sql.DB) InningsRepository {
	return &sqlInningsRepository{db: db}
}

const inningsColumns = `
	id, match_id, number, batting_team_id, bowling_team_id, target, runs, wickets, legal_balls, extras,
	status, ended_reason, opening_striker_id, opening_non_striker_id, opening_bowler_id, version, snapshot, created_at`

func scanInnings(row rowScanner, inn *models.Innings) error {
	var snapshot sql.NullString
	err := row.Scan(
		&inn.ID, &inn.MatchID, &inn.Number, &inn.BattingTeamID, &inn.BowlingTeamID, &inn.Target,
		&inn.Runs, &inn.Wickets, &inn.LegalBalls, &inn.Extras,
		&inn.Status, &inn.EndedReason, &inn.OpeningStrikerID, &inn.OpeningNonStrikerID, &inn.OpeningBowlerID,
		&inn.Version, &snapshot, &inn.CreatedAt,
	)
	if err != nil {
		return err
	}
	if snapshot.Valid && snapshot.String != "" {
		inn.Snapshot = &models.ScoreSnapshot{}
		if err := json.Unmarshal([]byte(snapshot.String), inn.Snapshot); err != nil {
			return fmt.Errorf("failed to decode snapshot of innings %d: %w", inn.ID, err)
		}
	}
	return nil
}

func (r *sqlInningsRepository) Create(ctx context.Context, exec SQLExecutor, inn *models.Innings) error {
	query := `
		INSERT INTO innings
			(match_id, number, batting_team_id, bowling_team_id, target, status,
			 opening_striker_id, opening_non_striker_id, opening_bowler_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		inn.MatchID,
		inn.Number,
		inn.BattingTeamID,
		inn.BowlingTeamID,
		inn.Target,
		inn.Status,
		inn.OpeningStrikerID,
		inn.OpeningNonStrikerID,
		inn.OpeningBowlerID,
	).Scan(&inn.ID, &inn.CreatedAt)
	if err != nil {
		switch classifyConstraint(err) {
		case constraintUnique:
			return ErrInningsNumberConflict
		case constraintForeignKey:
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to create innings: %w", err)
	}
	return nil
}

func (r *sqlInningsRepository) GetByID(ctx context.Context, id int) (*models.Innings, error) {
	inn := &models.Innings{}
	err := scanInnings(r.db.QueryRowContext(ctx, `SELECT`+inningsColumns+` FROM innings WHERE id = $1`, id), inn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInningsNotFound
		}
		return nil, err
	}
	return inn, nil
}

func (r *sqlInningsRepository) ListByMatch(ctx context.Context, matchID int) ([]models.Innings, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT`+inningsColumns+` FROM innings WHERE match_id = $1 ORDER BY number`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list innings of match %d: %w", matchID, err)
	}
	defer rows.Close()

	list := make([]models.Innings, 0)
	for rows.Next() {
		var inn models.Innings
		if err := scanInnings(rows, &inn); err != nil {
			return nil, fmt.Errorf("failed to scan innings: %w", err)
		}
		list = append(list, inn)
	}
	return list, rows.Err()
}

func (r *sqlInningsRepository) UpdateProgress(ctx context.Context, exec SQLExecutor, inn models.Innings, snapshot *models.ScoreSnapshot) error {
	var encoded sql.NullString
	if snapshot != nil {
		raw, err := json.Marshal(snapshot)
		if err != nil {
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}
		encoded = sql.NullString{String: string(raw), Valid: true}
	}

	query := `
		UPDATE innings
		SET runs = $1, wickets = $2, legal_balls = $3, extras = $4, status = $5,
		    ended_reason = $6, snapshot = $7, version = $8
		WHERE id = $9 AND version <= $10`

	ex := executor(r.db, exec)
	result, err := ex.ExecContext(ctx, query,
		inn.Runs, inn.Wickets, inn.LegalBalls, inn.Extras, inn.Status,
		inn.EndedReason, encoded, inn.Version,
		inn.ID, inn.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update innings %d: %w", inn.ID, err)
	}

	affected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	var exists int
	err = ex.QueryRowContext(ctx, `SELECT 1 FROM innings WHERE id = $1`, inn.ID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInningsNotFound
	}
	if err != nil {
		return err
	}
	return ErrInningsVersionConflict
}
