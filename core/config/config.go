// Package config loads pipeline settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/gaurav-prasanna/pagasapipe/core/pages"
)

// Config holds all pipeline settings, populated from environment variables.
type Config struct {
	AppEnv   string
	LogLevel slog.Level

	// DataDir is the root of the raw, stage and processed tiers.
	DataDir string

	FetchTimeout time.Duration
	FetchRetries int
	RetryDelay   time.Duration
	UserAgent    string

	RunLogPath      string
	MetricsTextfile string

	// Warehouse sink, a SQLite file standing in for the analytics warehouse.
	WarehouseEnabled  bool
	WarehousePath     string
	WarehouseDatabase string
	WarehouseSchema   string

	// URLs overrides page addresses, keyed by page name.
	URLs map[string]string
}

// Load reads an optional .env file, then the environment.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}
	return LoadFromEnv()
}

// LoadFromEnv reads configuration from environment variables, applying defaults where unset.
func LoadFromEnv() (Config, error) {
	appEnv := envOrDefault("APP_ENV", "dev")
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(envOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	dataDir, err := filepath.Abs(envOrDefault("DATA_DIR", "data"))
	if err != nil {
		return Config{}, fmt.Errorf("DATA_DIR: %w", err)
	}

	timeout, err := parsePositiveDuration("FETCH_TIMEOUT", "30s")
	if err != nil {
		return Config{}, err
	}
	retryDelay, err := parsePositiveDuration("FETCH_RETRY_DELAY", "2s")
	if err != nil {
		return Config{}, err
	}

	retriesStr := envOrDefault("FETCH_RETRIES", "1")
	retries, err := strconv.Atoi(retriesStr)
	if err != nil || retries < 0 {
		return Config{}, fmt.Errorf("invalid FETCH_RETRIES %q", retriesStr)
	}

	warehouseEnabled := false
	if v := strings.TrimSpace(os.Getenv("WAREHOUSE_ENABLED")); v != "" {
		warehouseEnabled, err = strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WAREHOUSE_ENABLED %q", v)
		}
	}

	urls := map[string]string{}
	for _, name := range pages.Names {
		if v := strings.TrimSpace(os.Getenv(strings.ToUpper(name) + "_URL")); v != "" {
			urls[name] = v
		}
	}

	return Config{
		AppEnv:            appEnv,
		LogLevel:          level,
		DataDir:           dataDir,
		FetchTimeout:      timeout,
		FetchRetries:      retries,
		RetryDelay:        retryDelay,
		UserAgent:         strings.TrimSpace(os.Getenv("USER_AGENT")),
		RunLogPath:        envOrDefault("RUN_LOG_PATH", filepath.Join(dataDir, "logs", "logs.csv")),
		MetricsTextfile:   strings.TrimSpace(os.Getenv("METRICS_TEXTFILE")),
		WarehouseEnabled:  warehouseEnabled,
		WarehousePath:     envOrDefault("WAREHOUSE_PATH", filepath.Join(dataDir, "warehouse", "pagasa.db")),
		WarehouseDatabase: envOrDefault("WAREHOUSE_DATABASE", "pagasa"),
		WarehouseSchema:   envOrDefault("WAREHOUSE_SCHEMA", "weather"),
		URLs:              urls,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
