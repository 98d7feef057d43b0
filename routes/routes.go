package routes

import (
	"expvar"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/Dosada05/cricket-live/docs" // swagger spec
	"github.com/Dosada05/cricket-live/handlers"
	"github.com/Dosada05/cricket-live/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Health     *handlers.HealthHandler
	Match      *handlers.MatchHandler
	Tournament *handlers.TournamentHandler
	Team       *handlers.TeamHandler
	WebSocket  *handlers.WebSocketHandler
}

func SetupRoutes(router chi.Router, h Handlers, auth *middleware.Authenticator, allowedOrigins []string, logger *slog.Logger) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthcheck", h.Health.Healthcheck)
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Method(http.MethodGet, "/debug/vars", expvar.Handler())

	// Сокет живёт дольше любого таймаута запроса, поэтому вне группы с Timeout.
	router.Get("/ws", h.WebSocket.ServeWs)

	router.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(15 * time.Second))

		// Публичные маршруты для просмотра
		r.Get("/matches/{matchID}", h.Match.GetMatch)
		r.Get("/matches/{matchID}/live", h.Match.LiveScore)
		r.Get("/tournaments", h.Tournament.ListTournaments)
		r.Get("/tournaments/{tournamentID}", h.Tournament.GetTournamentByID)
		r.Get("/tournaments/{tournamentID}/live", h.Tournament.LiveScores)
		r.Get("/teams/{teamID}", h.Team.GetTeamByID)

		// Защищенные маршруты только для скореров и админов
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.RequireRole(middleware.RoleScorer, middleware.RoleAdmin))

			r.Post("/matches", h.Match.CreateMatch)
			r.Post("/matches/{matchID}/innings", h.Match.StartInnings)
			r.Post("/matches/{matchID}/balls", h.Match.SubmitBall)
			r.Post("/matches/{matchID}/abandon", h.Match.AbandonMatch)
			r.Post("/tournaments", h.Tournament.CreateTournament)
			r.Post("/tournaments/{tournamentID}/fixtures", h.Tournament.GenerateFixtures)
			r.Post("/teams", h.Team.CreateTeam)
		})
	})
}
