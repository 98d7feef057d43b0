package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/cricket-live/live"
	"github.com/Dosada05/cricket-live/middleware"
	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/websocket"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, role middleware.Role) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 7,
		"role":    string(role),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return s
}

func newSocketServer(t *testing.T) (*httptest.Server, *live.Hub) {
	t.Helper()
	hub := live.NewHub(discardLogger())
	coord := live.NewCoordinator(nil, hub, nil, discardLogger(), live.Options{})
	h := NewWebSocketHandler(coord, middleware.NewAuthenticator(testSecret, discardLogger()),
		[]string{"https://scores.example.com"}, live.ClientConfig{}, discardLogger())
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWs))
	t.Cleanup(srv.Close)
	return srv, hub
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
}

func readEnvelope(t *testing.T, conn *websocket.Conn) live.Envelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env live.Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return env
}

func TestServeWs_Handshake(t *testing.T) {
	srv, _ := newSocketServer(t)

	tests := []struct {
		name   string
		query  string
		origin string
		want   int
	}{
		{"bad token", "?token=garbage", "", http.StatusUnauthorized},
		{"wrong key", "?token=" + signToken(t, "other-secret", middleware.RoleScorer), "", http.StatusUnauthorized},
		{"foreign origin", "", "https://evil.example.com", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, tt.query), header)
			if err == nil {
				conn.Close()
				t.Fatal("Dial() succeeded, want handshake failure")
			}
			if resp == nil || resp.StatusCode != tt.want {
				t.Fatalf("handshake response = %v, want status %d", resp, tt.want)
			}
		})
	}
}

func TestServeWs_ViewerCannotScore(t *testing.T) {
	srv, hub := newSocketServer(t)

	header := http.Header{"Origin": []string{"https://scores.example.com"}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), header)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(live.Envelope{Type: live.MsgSubscribeTournament, TournamentID: 5}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if env := readEnvelope(t, conn); env.Type != live.MsgSubscribed {
		t.Fatalf("reply type = %s, want %s", env.Type, live.MsgSubscribed)
	}
	if n := hub.RoomSize(live.TournamentRoom(5)); n != 1 {
		t.Errorf("tournament room size = %d, want 1", n)
	}

	if err := conn.WriteJSON(live.Envelope{Type: live.MsgSubmitBall, MatchID: 1, Payload: json.RawMessage(`{"runs":1}`)}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	env := readEnvelope(t, conn)
	var payload live.ErrorPayload
	_ = json.Unmarshal(env.Payload, &payload)
	if env.Type != live.MsgError || payload.Message != "scorer role required" {
		t.Errorf("reply = %s %q, want error about the scorer role", env.Type, payload.Message)
	}
}

func TestServeWs_ScorerToken(t *testing.T) {
	srv, hub := newSocketServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token="+signToken(t, testSecret, middleware.RoleScorer)), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}

	if err := conn.WriteJSON(live.Envelope{Type: live.MsgSubscribeTournament, TournamentID: 2}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	readEnvelope(t, conn)
	conn.Close()

	// Отключение убирает клиента из всех комнат.
	deadline := time.Now().Add(2 * time.Second)
	for hub.RoomSize(live.TournamentRoom(2)) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client still subscribed after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
