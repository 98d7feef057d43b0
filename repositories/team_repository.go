package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/cricket-live/models"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name already exists")
)

type TeamRepository interface {
	// Create stores the team and its roster in one transaction.
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListPlayers(ctx context.Context, teamID int) ([]models.Player, error)
}

type sqlTeamRepository struct {
	db *sql.DB
}

func NewTeamRepository(db *sql.DB) TeamRepository {
	return &sqlTeamRepository{db: db}
}

func (r *sqlTeamRepository) Create(ctx context.Context, team *models.Team) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO teams (name, short_name) VALUES ($1, $2) RETURNING id, created_at`,
			team.Name, team.ShortName,
		).Scan(&team.ID, &team.CreatedAt)
		if err != nil {
			if classifyConstraint(err) == constraintUnique {
				return ErrTeamNameConflict
			}
			return fmt.Errorf("failed to insert team: %w", err)
		}

		for i := range team.Players {
			p := &team.Players[i]
			p.TeamID = team.ID
			err := tx.QueryRowContext(ctx,
				`INSERT INTO players (team_id, name, role) VALUES ($1, $2, $3) RETURNING id`,
				p.TeamID, p.Name, p.Role,
			).Scan(&p.ID)
			if err != nil {
				return fmt.Errorf("failed to insert player %q: %w", p.Name, err)
			}
		}
		return nil
	})
}

func (r *sqlTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team := &models.Team{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, short_name, created_at FROM teams WHERE id = $1`, id,
	).Scan(&team.ID, &team.Name, &team.ShortName, &team.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	team.Players, err = r.ListPlayers(ctx, id)
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (r *sqlTeamRepository) ListPlayers(ctx context.Context, teamID int) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, team_id, name, role FROM players WHERE team_id = $1 ORDER BY id`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players of team %d: %w", teamID, err)
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.TeamID, &p.Name, &p.Role); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}
