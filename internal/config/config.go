// Package config loads and validates the CLI configuration from the
// environment. A .env file in the working directory is read first; real
// environment variables win over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Saved-item backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds all runtime configuration for the jobboard CLI.
type Config struct {
	APIBase       string
	ProxyURL      string
	ShareBaseURL  string
	Debounce      time.Duration
	RateLimit     time.Duration // minimum gap between requests to one host; 0 disables
	SavedBackend  string
	SavedPath     string
	RedisURL      string // optional; enables the result cache
	CacheTTL      time.Duration
	StateFile     string
	WatchSchedule string

	TelegramToken     string
	TelegramChatID    string
	DiscordWebhookURL string

	LogLevel slog.Level
}

// LoadDotEnv reads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("config: loading %s: %w", path, err)
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	debounceMS, err := intEnv("DEBOUNCE_MS", 500, 0)
	if err != nil {
		return nil, err
	}
	rateMS, err := intEnv("RATE_LIMIT_MS", 0, 0)
	if err != nil {
		return nil, err
	}
	ttlSec, err := intEnv("CACHE_TTL_SEC", 60, 1)
	if err != nil {
		return nil, err
	}

	backend := strings.ToLower(getenv("SAVED_BACKEND", BackendFile))
	savedPath := os.Getenv("SAVED_PATH")
	switch backend {
	case BackendFile:
		if savedPath == "" {
			savedPath = "jobboard-saved.json"
		}
	case BackendSQLite:
		if savedPath == "" {
			savedPath = "jobboard.db"
		}
	case BackendRedis:
		if os.Getenv("REDIS_URL") == "" {
			return nil, fmt.Errorf("REDIS_URL is required when SAVED_BACKEND=redis")
		}
	default:
		return nil, fmt.Errorf("SAVED_BACKEND must be one of file, sqlite, redis, got %q", backend)
	}

	level, err := parseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	return &Config{
		APIBase:           strings.TrimRight(getenv("API_BASE", "http://localhost:5000"), "/"),
		ProxyURL:          os.Getenv("PROXY_URL"),
		ShareBaseURL:      getenv("SHARE_BASE_URL", "http://localhost:5173/"),
		Debounce:          time.Duration(debounceMS) * time.Millisecond,
		RateLimit:         time.Duration(rateMS) * time.Millisecond,
		SavedBackend:      backend,
		SavedPath:         savedPath,
		RedisURL:          os.Getenv("REDIS_URL"),
		CacheTTL:          time.Duration(ttlSec) * time.Second,
		StateFile:         getenv("STATE_FILE", ".jobboard-url"),
		WatchSchedule:     getenv("WATCH_SCHEDULE", "@every 1h"),
		TelegramToken:     os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID:    os.Getenv("TELEGRAM_CHAT_ID"),
		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
		LogLevel:          level,
	}, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def, min int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < min {
		if min > 0 {
			return 0, fmt.Errorf("%s must be a positive integer, got %q", key, s)
		}
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, s)
	}
	return v, nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", s)
	}
	return l, nil
}
