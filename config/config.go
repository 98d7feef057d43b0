package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseDriver string
	DatabaseURL    string
	AutoMigrate    bool
	JWTSecretKey   string
	ServerPort     int
	LogLevel       slog.Level

	CORSAllowedOrigins []string

	WSMessagesPerSecond float64
	WSBurst             int
	PersistRetries      int

	// Архив карточек иннингов; пустые значения отключают архивирование.
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
	R2Endpoint        string
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Загружаем .env файл, если он есть. Ошибку не считаем фатальной.
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseDriver:    getEnv("DATABASE_DRIVER", "postgres"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecretKey:      os.Getenv("JWT_SECRET_KEY"),
		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		R2Endpoint:        os.Getenv("R2_ENDPOINT"),
	}

	if cfg.DatabaseDriver != "postgres" && cfg.DatabaseDriver != "sqlite" {
		return nil, fmt.Errorf("DATABASE_DRIVER must be postgres or sqlite, got %q", cfg.DatabaseDriver)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	var err error
	if cfg.ServerPort, err = getInt("SERVER_PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}

	if err = cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if cfg.AutoMigrate, err = strconv.ParseBool(getEnv("AUTO_MIGRATE", "true")); err != nil {
		return nil, fmt.Errorf("invalid AUTO_MIGRATE environment variable: %w", err)
	}

	cfg.CORSAllowedOrigins = strings.Fields(os.Getenv("CORS_ALLOWED_ORIGINS"))
	for _, origin := range cfg.CORSAllowedOrigins {
		if origin == "*" {
			return nil, fmt.Errorf("CORS_ALLOWED_ORIGINS must list origins explicitly, '*' is not allowed")
		}
	}

	if cfg.WSMessagesPerSecond, err = strconv.ParseFloat(getEnv("WS_MESSAGES_PER_SECOND", "10"), 64); err != nil || cfg.WSMessagesPerSecond <= 0 {
		return nil, fmt.Errorf("WS_MESSAGES_PER_SECOND must be a positive number")
	}
	if cfg.WSBurst, err = getInt("WS_BURST", 20); err != nil {
		return nil, err
	}
	if cfg.WSBurst <= 0 {
		return nil, fmt.Errorf("WS_BURST must be positive, got %d", cfg.WSBurst)
	}
	if cfg.PersistRetries, err = getInt("PERSIST_RETRIES", 2); err != nil {
		return nil, err
	}
	if cfg.PersistRetries < 0 {
		return nil, fmt.Errorf("PERSIST_RETRIES must not be negative, got %d", cfg.PersistRetries)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}
