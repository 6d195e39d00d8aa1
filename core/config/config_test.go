package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/pagasapipe/core/pages"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	wd, _ := os.Getwd()
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, filepath.Join(wd, "data"), cfg.DataDir)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 1, cfg.FetchRetries)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
	assert.Equal(t, filepath.Join(wd, "data", "logs", "logs.csv"), cfg.RunLogPath)
	assert.False(t, cfg.WarehouseEnabled)
	assert.Equal(t, "pagasa", cfg.WarehouseDatabase)
	assert.Equal(t, "weather", cfg.WarehouseSchema)
	assert.Empty(t, cfg.MetricsTextfile)
	assert.Empty(t, cfg.URLs)
}

func TestLoadFromEnv_CustomEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("APP_ENV", "prod")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATA_DIR", dir)
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("FETCH_RETRIES", "0")
	t.Setenv("WAREHOUSE_ENABLED", "true")
	t.Setenv("METRICS_TEXTFILE", filepath.Join(dir, "pagasapipe.prom"))
	t.Setenv("DAILY_WEATHER_FORECAST_URL", "http://localhost:8080/weather")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.AppEnv)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 0, cfg.FetchRetries)
	assert.True(t, cfg.WarehouseEnabled)
	assert.Equal(t, filepath.Join(dir, "warehouse", "pagasa.db"), cfg.WarehousePath)
	assert.Equal(t, filepath.Join(dir, "pagasapipe.prom"), cfg.MetricsTextfile)
	assert.Equal(t, map[string]string{pages.DailyWeatherForecast: "http://localhost:8080/weather"}, cfg.URLs)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"APP_ENV", "staging"},
		{"LOG_LEVEL", "verbose"},
		{"FETCH_TIMEOUT", "soon"},
		{"FETCH_TIMEOUT", "-1s"},
		{"FETCH_RETRIES", "-1"},
		{"FETCH_RETRY_DELAY", "0s"},
		{"WAREHOUSE_ENABLED", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadFromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=warn\n"), 0o644))
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	os.Unsetenv("LOG_LEVEL")
}

func TestLoad_MissingDotEnvIsIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}
