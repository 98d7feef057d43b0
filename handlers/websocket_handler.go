package handlers

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/Dosada05/cricket-live/live"
	"github.com/Dosada05/cricket-live/middleware"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	responder
	coord    *live.Coordinator
	auth     *middleware.Authenticator
	client   live.ClientConfig
	upgrader websocket.Upgrader
}

// NewWebSocketHandler accepts connections from the given origins; requests without an Origin header are let through.
func NewWebSocketHandler(
	coord *live.Coordinator,
	auth *middleware.Authenticator,
	allowedOrigins []string,
	client live.ClientConfig,
	logger *slog.Logger,
) *WebSocketHandler {
	return &WebSocketHandler{
		responder: responder{logger: logger},
		coord:     coord,
		auth:      auth,
		client:    client,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// ServeWs upgrades /ws. The optional token query parameter identifies a scorer;
// without it the socket can only subscribe and read.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	cfg := h.client
	cfg.Scorer = false

	if raw := r.URL.Query().Get("token"); raw != "" {
		claims, err := h.auth.ParseToken(raw)
		if err != nil {
			h.errorResponse(w, r, http.StatusUnauthorized, middleware.ErrInvalidToken.Error())
			return
		}
		role, err := middleware.RoleFromClaims(claims)
		if err != nil {
			h.errorResponse(w, r, http.StatusUnauthorized, err.Error())
			return
		}
		cfg.Scorer = role.CanScore()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader.Upgrade сам отправляет HTTP ошибку клиенту, так что здесь просто логируем.
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := live.NewClient(conn, h.coord, h.logger, cfg)
	h.logger.InfoContext(r.Context(), "websocket connected",
		slog.String("client_id", client.ID()),
		slog.Bool("scorer", cfg.Scorer),
	)

	go client.WritePump()
	go client.ReadPump()
}
