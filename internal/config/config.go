package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. POMO_DB_PATH
const EnvPrefix = "POMO"

// Config holds the runtime settings of the CLI. These are process
// settings; timer preferences live in the store's settings table.
type Config struct {
	DataDir       string `mapstructure:"data_dir"`
	DBPath        string `mapstructure:"db_path"`
	LegacyDir     string `mapstructure:"legacy_dir"`
	LogLevel      string `mapstructure:"log_level"`
	RetentionDays int    `mapstructure:"retention_days"`
	Timezone      string `mapstructure:"timezone"`
}

var defaults = map[string]any{
	"data_dir":       "~/.pomo",
	"db_path":        "",
	"legacy_dir":     "",
	"log_level":      "warn",
	"retention_days": 365,
	"timezone":       "",
}

// Load reads configuration from, in increasing priority: defaults, the
// config file, a .env file in the working directory, POMO_* variables.
// Without an explicit file, config.{toml,yaml,json} in the data directory
// is used when present.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		path, err := homedir.Expand(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config path: %w", err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		dataDir, err := homedir.Expand(v.GetString("data_dir"))
		if err != nil {
			return nil, fmt.Errorf("failed to expand data directory: %w", err)
		}
		v.SetConfigName("config")
		v.AddConfigPath(dataDir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolve expands paths, fills derived defaults and validates
func (c *Config) resolve() error {
	var err error
	if c.DataDir, err = homedir.Expand(c.DataDir); err != nil {
		return fmt.Errorf("failed to expand data directory: %w", err)
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "pomo.db")
	} else if c.DBPath != ":memory:" {
		if c.DBPath, err = homedir.Expand(c.DBPath); err != nil {
			return fmt.Errorf("failed to expand db path: %w", err)
		}
	}
	if c.LegacyDir == "" {
		c.LegacyDir = filepath.Join(c.DataDir, "legacy")
	} else if c.LegacyDir, err = homedir.Expand(c.LegacyDir); err != nil {
		return fmt.Errorf("failed to expand legacy directory: %w", err)
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "none":
	default:
		return fmt.Errorf("invalid log level %q (want debug, info, warn, error or none)", c.LogLevel)
	}
	if c.RetentionDays < 0 {
		return fmt.Errorf("retention_days must not be negative, got %d", c.RetentionDays)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the zone calendar fields are computed in. An empty
// Timezone means the system zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
