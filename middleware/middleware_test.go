package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const secret = "middleware-secret"

func token(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return s
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuthenticateAndRequireRole(t *testing.T) {
	auth := NewAuthenticator(secret, discardLogger())
	var gotUser int
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := auth.Authenticate(RequireRole(RoleScorer, RoleAdmin)(final))

	exp := time.Now().Add(time.Hour).Unix()
	tests := []struct {
		name     string
		header   string
		want     int
		wantUser int
	}{
		{"no header", "", http.StatusUnauthorized, 0},
		{"not bearer", "Basic abc", http.StatusUnauthorized, 0},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized, 0},
		{"wrong key", "Bearer " + token(t, "other", jwt.MapClaims{"user_id": 1, "role": "scorer", "exp": exp}), http.StatusUnauthorized, 0},
		{"expired", "Bearer " + token(t, secret, jwt.MapClaims{"user_id": 1, "role": "scorer", "exp": time.Now().Add(-time.Minute).Unix()}), http.StatusUnauthorized, 0},
		{"viewer", "Bearer " + token(t, secret, jwt.MapClaims{"user_id": 2, "role": "viewer", "exp": exp}), http.StatusForbidden, 0},
		{"unknown role", "Bearer " + token(t, secret, jwt.MapClaims{"user_id": 2, "role": "owner", "exp": exp}), http.StatusForbidden, 0},
		{"scorer", "Bearer " + token(t, secret, jwt.MapClaims{"user_id": 3, "role": "scorer", "exp": exp}), http.StatusNoContent, 3},
		{"admin string id", "Bearer " + token(t, secret, jwt.MapClaims{"user_id": "4", "role": "admin", "exp": exp}), http.StatusNoContent, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser = 0
			req := httptest.NewRequest(http.MethodPost, "/matches", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if gotUser != tt.wantUser {
				t.Errorf("user id = %d, want %d", gotUser, tt.wantUser)
			}
		})
	}
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	auth := NewAuthenticator(secret, discardLogger())
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"role": "admin"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	if _, err := auth.ParseToken(raw); err == nil {
		t.Fatal("ParseToken() accepted an unsigned token")
	}
}

func TestUserIDFromClaims(t *testing.T) {
	tests := []struct {
		name    string
		claims  jwt.MapClaims
		want    int
		wantErr bool
	}{
		{"float", jwt.MapClaims{"user_id": float64(12)}, 12, false},
		{"string", jwt.MapClaims{"user_id": "12"}, 12, false},
		{"fraction", jwt.MapClaims{"user_id": 1.5}, 0, true},
		{"zero", jwt.MapClaims{"user_id": float64(0)}, 0, true},
		{"missing", jwt.MapClaims{}, 0, true},
		{"bool", jwt.MapClaims{"user_id": true}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UserIDFromClaims(tt.claims)
			if (err != nil) != tt.wantErr {
				t.Fatalf("UserIDFromClaims() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("UserIDFromClaims() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/matches/1/live", nil))

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if line["status"] != float64(http.StatusTeapot) || line["bytes"] != float64(len("short and stout")) {
		t.Errorf("logged status/bytes = %v/%v", line["status"], line["bytes"])
	}
	if line["level"] != "WARN" || !strings.HasSuffix(line["path"].(string), "/live") {
		t.Errorf("logged level/path = %v/%v", line["level"], line["path"])
	}
}
