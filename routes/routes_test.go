package routes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dosada05/cricket-live/handlers"
	"github.com/Dosada05/cricket-live/middleware"
	"github.com/go-chi/chi/v5"
)

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func newTestRouter() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	SetupRoutes(router, Handlers{
		Health:     handlers.NewHealthHandler(okPinger{}, "test", logger),
		Match:      handlers.NewMatchHandler(nil, logger),
		Tournament: handlers.NewTournamentHandler(nil, logger),
		Team:       handlers.NewTeamHandler(nil, logger),
	}, middleware.NewAuthenticator("secret", logger), []string{"https://scores.example.com"}, logger)
	return router
}

func TestRoutes(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name, method, path string
		want               int
	}{
		{"health", http.MethodGet, "/healthcheck", http.StatusOK},
		{"expvar", http.MethodGet, "/debug/vars", http.StatusOK},
		{"swagger spec", http.MethodGet, "/swagger/doc.json", http.StatusOK},
		{"create match needs token", http.MethodPost, "/matches", http.StatusUnauthorized},
		{"submit ball needs token", http.MethodPost, "/matches/1/balls", http.StatusUnauthorized},
		{"create team needs token", http.MethodPost, "/teams", http.StatusUnauthorized},
		{"fixtures need token", http.MethodPost, "/tournaments/1/fixtures", http.StatusUnauthorized},
		{"abandon needs token", http.MethodPost, "/matches/1/abandon", http.StatusUnauthorized},
		{"unknown route", http.MethodGet, "/players", http.StatusNotFound},
		{"wrong method", http.MethodDelete, "/matches/1", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
			}
		})
	}
}

func TestRoutes_CORS(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		origin string
		want   string
	}{
		{"https://scores.example.com", "https://scores.example.com"},
		{"https://evil.example.com", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodOptions, "/matches/1/balls", nil)
		req.Header.Set("Origin", tt.origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %s: allow-origin = %q, want %q", tt.origin, got, tt.want)
		}
	}
}
