package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// State drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config is the client's configuration
type Config struct {
	APIBaseURL   string
	PollInterval time.Duration
	StateDriver  string
	StateDBPath  string
	RedisAddr    string
	RedisPrefix  string
	LowStockRule string
	PageSize     int
	LogLevel     slog.Level
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	config := &Config{
		APIBaseURL:   "http://localhost:8000",
		PollInterval: 10 * time.Second,
		StateDriver:  DriverSQLite,
		StateDBPath:  "data/state.db",
		RedisAddr:    "localhost:6379",
		RedisPrefix:  "warehouse:",
		LowStockRule: "quantity < 10",
		PageSize:     10,
		LogLevel:     slog.LevelInfo,
	}

	if raw := os.Getenv("API_BASE_URL"); raw != "" {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("API_BASE_URL is not an absolute URL: %q", raw)
		}
		config.APIBaseURL = strings.TrimRight(raw, "/")
	}

	if raw := os.Getenv("POLL_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("POLL_INTERVAL is malformed: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("POLL_INTERVAL must be positive, got %s", d)
		}
		config.PollInterval = d
	}

	if raw := os.Getenv("STATE_DRIVER"); raw != "" {
		config.StateDriver = strings.ToLower(raw)
	}
	switch config.StateDriver {
	case DriverSQLite, DriverRedis, DriverMemory:
	default:
		return nil, fmt.Errorf("STATE_DRIVER %q is unknown (want sqlite, redis or memory)", config.StateDriver)
	}

	if raw := os.Getenv("STATE_DB_PATH"); raw != "" {
		config.StateDBPath = raw
	}
	if raw := os.Getenv("REDIS_ADDR"); raw != "" {
		config.RedisAddr = raw
	}
	if raw, ok := os.LookupEnv("REDIS_PREFIX"); ok {
		config.RedisPrefix = raw
	}
	if raw := os.Getenv("LOW_STOCK_RULE"); raw != "" {
		config.LowStockRule = raw
	}

	if raw := os.Getenv("PAGE_SIZE"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("PAGE_SIZE is malformed: %w", err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("PAGE_SIZE must be positive, got %d", n)
		}
		config.PageSize = n
	}

	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if err := config.LogLevel.UnmarshalText([]byte(raw)); err != nil {
			return nil, fmt.Errorf("LOG_LEVEL is malformed: %w", err)
		}
	}

	return config, nil
}
