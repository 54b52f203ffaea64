package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"stillness/internal/platform/calendar"
)

const (
	envPrefix  = "STILLNESS"
	configName = "config"
	configType = "toml"

	keyLogLevel     = "log.level"
	keyLogFile      = "log.file"
	keyTickInterval = "engine.tick_interval"
	keyEpsilon      = "engine.epsilon"
	keyTimezone     = "calendar.timezone"
)

type Config struct {
	DataDir      string
	DBPath       string
	SettingsPath string
	CachePath    string
	CatalogPath  string
	HooksPath    string
	LogLevel     string
	LogFile      string
	TickInterval time.Duration
	Epsilon      time.Duration
	Location     *time.Location
}

// Load resolves configuration for dataDir. Values come from, in increasing
// precedence: defaults, <dataDir>/config.toml, <dataDir>/.env and the process
// environment (STILLNESS_LOG_LEVEL and friends).
func Load(dataDir string, v *viper.Viper) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	if v == nil {
		v = viper.New()
	}

	envFile := filepath.Join(dataDir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFile, "")
	v.SetDefault(keyTickInterval, "100ms")
	v.SetDefault(keyEpsilon, "10ms")
	v.SetDefault(keyTimezone, "Local")

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dataDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	tick := v.GetDuration(keyTickInterval)
	if tick <= 0 {
		return Config{}, fmt.Errorf("%s must be positive", keyTickInterval)
	}
	epsilon := v.GetDuration(keyEpsilon)
	if epsilon <= 0 {
		return Config{}, fmt.Errorf("%s must be positive", keyEpsilon)
	}
	loc, err := calendar.LoadLocation(v.GetString(keyTimezone))
	if err != nil {
		return Config{}, err
	}

	stateDir := filepath.Join(dataDir, ".stillness")
	return Config{
		DataDir:      dataDir,
		DBPath:       filepath.Join(stateDir, "stillness.db"),
		SettingsPath: filepath.Join(dataDir, "settings.toml"),
		CachePath:    filepath.Join(stateDir, "stats-cache.json"),
		CatalogPath:  filepath.Join(dataDir, "catalog.yaml"),
		HooksPath:    filepath.Join(dataDir, "hooks", "hooks.json"),
		LogLevel:     v.GetString(keyLogLevel),
		LogFile:      v.GetString(keyLogFile),
		TickInterval: tick,
		Epsilon:      epsilon,
		Location:     loc,
	}, nil
}

// TUILogFile is where the terminal UI logs when no log file is configured,
// since stderr belongs to the alternate screen.
func (c Config) TUILogFile() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, ".stillness", "stillness.log")
}
