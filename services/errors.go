package services

import (
	"errors"
	"sort"
	"strings"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed           = errors.New("validation failed")
	ErrTournamentInvalidDateRange = errors.New("tournament end date must not be before start date")
	ErrMatchSameTeams             = errors.New("home and away team must differ")
	ErrMatchFormatMismatch        = errors.New("match format differs from the tournament format")
	ErrOversExceedFormat          = errors.New("overs per innings exceed the format limit")
	ErrFixturesOutsideTournament  = errors.New("fixtures fall outside the tournament dates")

	// Ошибки конфликтов
	ErrTeamNameConflict       = errors.New("team name is already in use")
	ErrTournamentNameConflict = errors.New("tournament name already exists")

	// Ошибки, специфичные для сущностей
	ErrTeamNotFound       = errors.New("team not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
)

// InputError lists the request fields that failed validation.
type InputError struct {
	Fields map[string]string
}

func (e *InputError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *InputError) Unwrap() error { return ErrValidationFailed }
