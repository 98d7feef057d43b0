package config

import (
	"log/slog"
	"slices"
	"testing"
)

func setBase(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/cricket")
	t.Setenv("JWT_SECRET_KEY", "secret")
	for _, k := range []string{
		"DATABASE_DRIVER", "SERVER_PORT", "LOG_LEVEL", "AUTO_MIGRATE", "CORS_ALLOWED_ORIGINS",
		"WS_MESSAGES_PER_SECOND", "WS_BURST", "PERSIST_RETRIES",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setBase(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DatabaseDriver != "postgres" || cfg.ServerPort != 8080 || cfg.LogLevel != slog.LevelInfo {
		t.Errorf("driver/port/level = %s/%d/%s", cfg.DatabaseDriver, cfg.ServerPort, cfg.LogLevel)
	}
	if !cfg.AutoMigrate || cfg.WSMessagesPerSecond != 10 || cfg.WSBurst != 20 || cfg.PersistRetries != 2 {
		t.Errorf("migrate/rate/burst/retries = %v/%v/%d/%d", cfg.AutoMigrate, cfg.WSMessagesPerSecond, cfg.WSBurst, cfg.PersistRetries)
	}
	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Errorf("CORSAllowedOrigins = %v, want none", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setBase(t)
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com  https://b.example.com")
	t.Setenv("PERSIST_RETRIES", "0")
	t.Setenv("AUTO_MIGRATE", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DatabaseDriver != "sqlite" || cfg.LogLevel != slog.LevelDebug || cfg.PersistRetries != 0 || cfg.AutoMigrate {
		t.Errorf("cfg = %+v", cfg)
	}
	if !slices.Equal(cfg.CORSAllowedOrigins, []string{"https://a.example.com", "https://b.example.com"}) {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"missing database url", "DATABASE_URL", ""},
		{"missing jwt key", "JWT_SECRET_KEY", ""},
		{"unknown driver", "DATABASE_DRIVER", "mysql"},
		{"port out of range", "SERVER_PORT", "70000"},
		{"port not a number", "SERVER_PORT", "http"},
		{"bad log level", "LOG_LEVEL", "loud"},
		{"wildcard origin", "CORS_ALLOWED_ORIGINS", "https://a.example.com *"},
		{"zero rate", "WS_MESSAGES_PER_SECOND", "0"},
		{"negative burst", "WS_BURST", "-1"},
		{"negative retries", "PERSIST_RETRIES", "-2"},
		{"bad bool", "AUTO_MIGRATE", "sometimes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBase(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q succeeded, want error", tt.key, tt.value)
			}
		})
	}
}
