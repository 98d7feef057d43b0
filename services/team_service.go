package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Dosada05/cricket-live/models"
	"github.com/Dosada05/cricket-live/repositories"
)

type CreatePlayerInput struct {
	Name string            `json:"name" validate:"required,min=2,max=100"`
	Role models.PlayerRole `json:"role" validate:"required,oneof=BATTER BOWLER ALL_ROUNDER WICKET_KEEPER"`
}

type CreateTeamInput struct {
	Name      string              `json:"name" validate:"required,min=2,max=100"`
	ShortName *string             `json:"short_name,omitempty" validate:"omitempty,min=2,max=5"`
	Players   []CreatePlayerInput `json:"players" validate:"max=25,dive"`
}

// TeamService управляет командами и их составами.
type TeamService struct {
	repo   repositories.TeamRepository
	logger *slog.Logger
}

func NewTeamService(repo repositories.TeamRepository, logger *slog.Logger) *TeamService {
	return &TeamService{repo: repo, logger: logger}
}

func (s *TeamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	team := &models.Team{Name: input.Name, ShortName: input.ShortName}
	for _, p := range input.Players {
		team.Players = append(team.Players, models.Player{Name: strings.TrimSpace(p.Name), Role: p.Role})
	}
	if err := s.repo.Create(ctx, team); err != nil {
		return nil, handleRepositoryError(err)
	}

	s.logger.InfoContext(ctx, "team created", slog.Int("team_id", team.ID), slog.Int("players", len(team.Players)))
	return team, nil
}

func (s *TeamService) GetTeamByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return team, nil
}
