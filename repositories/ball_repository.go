package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/cricket-live/models"
)

// ErrBallSequenceConflict means a ball with the same sequence number is
// already stored for the innings, typically written by another process.
var ErrBallSequenceConflict = errors.New("ball sequence already recorded for innings")

type BallRepository interface {
	Append(ctx context.Context, exec SQLExecutor, ev *models.BallEvent) error
	ListByInnings(ctx context.Context, inningsID int) ([]models.BallEvent, error)
}

type sqlBallRepository struct {
	db *sql.DB
}

func NewBallRepository(db *sql.DB) BallRepository {
	return &sqlBallRepository{db: db}
}

func (r *sqlBallRepository) Append(ctx context.Context, exec SQLExecutor, ev *models.BallEvent) error {
	if ev.OverNumber == nil || ev.BowlerID == nil {
		return fmt.Errorf("ball %d of innings %d has no over or bowler assigned", ev.Sequence, ev.InningsID)
	}

	var location sql.NullString
	if ev.Location != nil {
		raw, err := json.Marshal(ev.Location)
		if err != nil {
			return fmt.Errorf("failed to encode ball location: %w", err)
		}
		location = sql.NullString{String: string(raw), Valid: true}
	}

	query := `
		INSERT INTO ball_events
			(innings_id, sequence, over_number, ball_in_over, runs, is_wicket, wicket_type, is_extra,
			 extra_type, extra_runs, striker_id, non_striker_id, bowler_id, dismissed_player_id,
			 wicket_taker_id, commentary, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		ev.InningsID,
		ev.Sequence,
		*ev.OverNumber,
		ev.BallInOver,
		ev.Runs,
		ev.IsWicket,
		nullString(string(ev.WicketType)),
		ev.IsExtra,
		nullString(string(ev.ExtraType)),
		ev.ExtraRuns,
		ev.StrikerID,
		ev.NonStrikerID,
		*ev.BowlerID,
		ev.DismissedPlayerID,
		ev.WicketTakerID,
		nullString(ev.Commentary),
		location,
	).Scan(&ev.ID, &ev.CreatedAt)
	if err != nil {
		switch classifyConstraint(err) {
		case constraintUnique:
			return ErrBallSequenceConflict
		case constraintForeignKey:
			return ErrInningsNotFound
		}
		return fmt.Errorf("failed to append ball %d to innings %d: %w", ev.Sequence, ev.InningsID, err)
	}
	return nil
}

func (r *sqlBallRepository) ListByInnings(ctx context.Context, inningsID int) ([]models.BallEvent, error) {
	query := `
		SELECT id, innings_id, sequence, over_number, ball_in_over, runs, is_wicket, wicket_type, is_extra,
		       extra_type, extra_runs, striker_id, non_striker_id, bowler_id, dismissed_player_id,
		       wicket_taker_id, commentary, location, created_at
		FROM ball_events
		WHERE innings_id = $1
		ORDER BY sequence`

	rows, err := r.db.QueryContext(ctx, query, inningsID)
	if err != nil {
		return nil, fmt.Errorf("failed to list balls of innings %d: %w", inningsID, err)
	}
	defer rows.Close()

	balls := make([]models.BallEvent, 0)
	for rows.Next() {
		var (
			ev                             models.BallEvent
			overNumber, bowlerID           int
			wicketType, extraType, comment sql.NullString
			location                       sql.NullString
		)
		if err := rows.Scan(
			&ev.ID, &ev.InningsID, &ev.Sequence, &overNumber, &ev.BallInOver, &ev.Runs, &ev.IsWicket, &wicketType,
			&ev.IsExtra, &extraType, &ev.ExtraRuns, &ev.StrikerID, &ev.NonStrikerID, &bowlerID,
			&ev.DismissedPlayerID, &ev.WicketTakerID, &comment, &location, &ev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ball event: %w", err)
		}
		ev.OverNumber = &overNumber
		ev.BowlerID = &bowlerID
		ev.WicketType = models.WicketType(wicketType.String)
		ev.ExtraType = models.ExtraType(extraType.String)
		ev.Commentary = comment.String
		if location.Valid && location.String != "" {
			ev.Location = &models.BallLocation{}
			if err := json.Unmarshal([]byte(location.String), ev.Location); err != nil {
				return nil, fmt.Errorf("failed to decode location of ball %d: %w", ev.ID, err)
			}
		}
		balls = append(balls, ev)
	}
	return balls, rows.Err()
}
