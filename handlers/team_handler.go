package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Dosada05/cricket-live/models"
	"github.com/Dosada05/cricket-live/services"
)

type TeamService interface {
	CreateTeam(ctx context.Context, input services.CreateTeamInput) (*models.Team, error)
	GetTeamByID(ctx context.Context, id int) (*models.Team, error)
}

type TeamHandler struct {
	responder
	teamService TeamService
}

func NewTeamHandler(ts TeamService, logger *slog.Logger) *TeamHandler {
	return &TeamHandler{
		responder:   responder{logger: logger},
		teamService: ts,
	}
}

// CreateTeam godoc
// @Summary Create a team with its squad
// @Tags teams
// @Accept json
// @Produce json
// @Param input body services.CreateTeamInput true "Team"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Name already taken"
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /teams [post]
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTeamInput
	err := readJSON(w, r, &input)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.CreateTeam(r.Context(), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"team": team,
	}

	err = writeJSON(w, http.StatusCreated, response, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// GetTeamByID godoc
// @Summary Team with its squad
// @Tags teams
// @Produce json
// @Param teamID path int true "Team ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /teams/{teamID} [get]
func (h *TeamHandler) GetTeamByID(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID") // Используем общий хелпер
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.GetTeamByID(r.Context(), teamID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"team": team,
	}

	err = writeJSON(w, http.StatusOK, response, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
