// Package config loads patientdb settings from defaults, an optional config
// file, PATIENTDB_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. PATIENTDB_DB_PATH
const EnvPrefix = "PATIENTDB"

// Keys
const (
	KeyDBPath           = "db.path"
	KeyLogLevel         = "log.level"
	KeyLogFormat        = "log.format"
	KeyHoverDelay       = "hover.delay"
	KeyQueryReadOnly    = "query.read_only"
	KeyQueryHistorySize = "query.history_size"
)

// Config is the resolved configuration
type Config struct {
	DB    DBConfig    `mapstructure:"db"`
	Log   LogConfig   `mapstructure:"log"`
	Hover HoverConfig `mapstructure:"hover"`
	Query QueryConfig `mapstructure:"query"`
}

type DBConfig struct {
	// Path is the SQLite file. "none" runs without persistent storage.
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type HoverConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

type QueryConfig struct {
	ReadOnly    bool `mapstructure:"read_only"`
	HistorySize int  `mapstructure:"history_size"`
}

// New returns a viper instance with defaults and environment binding set up.
// Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyDBPath, "~/.patientdb/patients.db")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyHoverDelay, "300ms")
	v.SetDefault(KeyQueryReadOnly, false)
	v.SetDefault(KeyQueryHistorySize, 50)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads configFile (when not empty) into v and returns the result
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Hover.Delay <= 0 {
		return errors.New("hover.delay must be positive")
	}
	if c.Query.HistorySize <= 0 {
		return errors.New("query.history_size must be positive")
	}
	return nil
}
