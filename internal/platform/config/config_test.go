package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stillness/internal/platform/config"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir, viper.New())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, ".stillness", "stillness.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "settings.toml"), cfg.SettingsPath)
	assert.Equal(t, filepath.Join(dir, ".stillness", "stats-cache.json"), cfg.CachePath)
	assert.Equal(t, filepath.Join(dir, "catalog.yaml"), cfg.CatalogPath)
	assert.Equal(t, filepath.Join(dir, "hooks", "hooks.json"), cfg.HooksPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 100*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 10*time.Millisecond, cfg.Epsilon)
	assert.Equal(t, time.Local, cfg.Location)
	assert.Equal(t, filepath.Join(dir, ".stillness", "stillness.log"), cfg.TUILogFile())
}

func TestLoadReadsConfigFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	toml := "[log]\nlevel = \"debug\"\n\n[engine]\ntick_interval = \"250ms\"\n\n[calendar]\ntimezone = \"UTC\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o644))
	t.Setenv("STILLNESS_LOG_LEVEL", "warn")

	cfg, err := config.Load(dir, viper.New())
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, time.UTC, cfg.Location)
}

func TestLoadAppliesDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STILLNESS_LOG_FILE", "")
	require.NoError(t, os.Unsetenv("STILLNESS_LOG_FILE"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STILLNESS_LOG_FILE=/tmp/stillness-test.log\n"), 0o644))

	cfg, err := config.Load(dir, viper.New())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/stillness-test.log", cfg.LogFile)
	assert.Equal(t, "/tmp/stillness-test.log", cfg.TUILogFile())
}

func TestLoadRejectsBadInput(t *testing.T) {
	_, err := config.Load("  ", nil)
	require.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[engine]\ntick_interval = \"0s\"\n"), 0o644))
	_, err = config.Load(dir, viper.New())
	require.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[engine]\nepsilon = \"0s\"\n"), 0o644))
	_, err = config.Load(dir, viper.New())
	require.Error(t, err)
}
