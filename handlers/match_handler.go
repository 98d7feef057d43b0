package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Dosada05/cricket-live/live"
	"github.com/Dosada05/cricket-live/models"
	"github.com/Dosada05/cricket-live/services"
)

// MatchService is what the match endpoints need from the service layer.
type MatchService interface {
	CreateMatch(ctx context.Context, input services.CreateMatchInput) (*models.Match, error)
	GetMatch(ctx context.Context, id int) (*services.MatchDetails, error)
	StartInnings(ctx context.Context, matchID int, input services.StartInningsInput) (*models.Innings, error)
	SubmitBall(ctx context.Context, matchID int, ev models.BallEvent) (*live.BallOutcome, error)
	LiveScore(ctx context.Context, matchID int) (*models.ScoreSnapshot, error)
	AbandonMatch(ctx context.Context, matchID int) (*models.Match, error)
}

type MatchHandler struct {
	responder
	matchService MatchService
}

func NewMatchHandler(ms MatchService, logger *slog.Logger) *MatchHandler {
	return &MatchHandler{
		responder:    responder{logger: logger},
		matchService: ms,
	}
}

// CreateMatch godoc
// @Summary Schedule a match
// @Tags matches
// @Accept json
// @Produce json
// @Param input body services.CreateMatchInput true "Fixture"
// @Success 201 {object} map[string]interface{} "Match scheduled"
// @Failure 400 {object} map[string]string "Malformed body or format mismatch"
// @Failure 404 {object} map[string]string "Team or tournament not found"
// @Failure 422 {object} map[string]interface{} "Field validation failed"
// @Security BearerAuth
// @Router /matches [post]
func (h *MatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var input services.CreateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.CreateMatch(r.Context(), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", "/matches/"+strconv.Itoa(match.ID))
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, headers); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// GetMatch godoc
// @Summary Match with teams and innings
// @Tags matches
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /matches/{matchID} [get]
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	details, err := h.matchService.GetMatch(r.Context(), matchID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": details}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// StartInnings godoc
// @Summary Start the next innings
// @Tags matches
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param input body services.StartInningsInput true "Batting side, openers and opening bowler"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Invalid lineup"
// @Failure 409 {object} map[string]string "Innings in progress or match finished"
// @Security BearerAuth
// @Router /matches/{matchID}/innings [post]
func (h *MatchHandler) StartInnings(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	var input services.StartInningsInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	innings, err := h.matchService.StartInnings(r.Context(), matchID, input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"innings": innings}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// SubmitBall godoc
// @Summary Score one delivery
// @Description The ball is queued behind earlier submissions for the same match.
// @Tags matches
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param input body models.BallEvent true "Delivery"
// @Success 201 {object} map[string]interface{} "Accepted ball, snapshot and commentary"
// @Failure 409 {object} map[string]string "State conflict"
// @Failure 422 {object} map[string]string "Rejected with a reason"
// @Failure 503 {object} map[string]string "Ball could not be stored"
// @Security BearerAuth
// @Router /matches/{matchID}/balls [post]
func (h *MatchHandler) SubmitBall(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	var ev models.BallEvent
	if err := readJSON(w, r, &ev); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.matchService.SubmitBall(r.Context(), matchID, ev)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"ball": outcome}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// LiveScore godoc
// @Summary Current score of the match
// @Tags matches
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "No innings started"
// @Router /matches/{matchID}/live [get]
func (h *MatchHandler) LiveScore(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	snap, err := h.matchService.LiveScore(r.Context(), matchID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"snapshot": snap}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// AbandonMatch godoc
// @Summary Abandon the match
// @Tags matches
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Match already finished"
// @Security BearerAuth
// @Router /matches/{matchID}/abandon [post]
func (h *MatchHandler) AbandonMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.AbandonMatch(r.Context(), matchID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
