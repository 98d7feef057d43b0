package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/cricket-live/live"
	"github.com/Dosada05/cricket-live/scoring"
	"github.com/Dosada05/cricket-live/services"
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // Паника, т.к. это ошибка программиста (передан не указатель)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func getIDFromURL(r *http.Request, param string) (int, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s parameter %q", param, raw)
	}
	return id, nil
}

// responder carries the logger the error helpers write to.
type responder struct {
	logger *slog.Logger
}

func (rs responder) errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	rs.write(w, r, status, jsonResponse{"error": message})
}

func (rs responder) write(w http.ResponseWriter, r *http.Request, status int, body jsonResponse) {
	if err := writeJSON(w, status, body, nil); err != nil {
		rs.logger.ErrorContext(r.Context(), "failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (rs responder) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	rs.logger.ErrorContext(r.Context(), "internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	message := "the server encountered a problem and could not process your request"
	rs.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (rs responder) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	rs.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (rs responder) failedValidationResponse(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	rs.errorResponse(w, r, http.StatusUnprocessableEntity, fields)
}

func (rs responder) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	rs.errorResponse(w, r, http.StatusNotFound, message)
}

func (rs responder) conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	rs.errorResponse(w, r, http.StatusConflict, message)
}

func (rs responder) unavailableResponse(w http.ResponseWriter, r *http.Request, err error) {
	rs.logger.ErrorContext(r.Context(), "storage unavailable", slog.String("path", r.URL.Path), slog.Any("error", err))
	rs.errorResponse(w, r, http.StatusServiceUnavailable, "the ball could not be stored, retry the submission")
}

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя в HTTP-ответы
func (rs responder) mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	var rejection *scoring.ValidationError
	var input *services.InputError

	switch {
	// Отклонённая подача: причина нужна клиенту
	case errors.As(err, &rejection):
		rs.write(w, r, http.StatusUnprocessableEntity, jsonResponse{
			"error":  rejection.Message,
			"reason": rejection.Reason,
		})
	case errors.As(err, &input):
		rs.failedValidationResponse(w, r, input.Fields)

	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrTournamentNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, live.ErrNotFound):
		rs.notFoundResponse(w, r)

	// Конфликты
	case errors.Is(err, services.ErrTeamNameConflict),
		errors.Is(err, services.ErrTournamentNameConflict),
		errors.Is(err, live.ErrInningsInProgress),
		errors.Is(err, live.ErrNoActiveInnings),
		errors.Is(err, live.ErrMatchFinished):
		rs.conflictResponse(w, r, err.Error())
	case errors.Is(err, scoring.ErrStateConflict):
		rs.logger.WarnContext(r.Context(), "state conflict", slog.String("path", r.URL.Path), slog.Any("error", err))
		rs.conflictResponse(w, r, "match state changed, retry the submission")

	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrTournamentInvalidDateRange),
		errors.Is(err, services.ErrMatchSameTeams),
		errors.Is(err, services.ErrMatchFormatMismatch),
		errors.Is(err, services.ErrOversExceedFormat),
		errors.Is(err, services.ErrFixturesOutsideTournament),
		errors.Is(err, live.ErrInvalidLineup):
		rs.badRequestResponse(w, r, err)

	case errors.Is(err, live.ErrPersistenceFailure):
		rs.unavailableResponse(w, r, err)
	case errors.Is(err, live.ErrShuttingDown):
		rs.errorResponse(w, r, http.StatusServiceUnavailable, err.Error())

	default:
		rs.serverErrorResponse(w, r, err)
	}
}
