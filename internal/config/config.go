// Package config loads tagjump settings from <profile>/tagjump.toml with
// TAGJUMP_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	FileName  = "tagjump.toml"
	EnvPrefix = "TAGJUMP"
	appDir    = "tagjump"
)

type LogConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level"`
	Format string `mapstructure:"format" toml:"format" json:"format"`
}

type WatchConfig struct {
	Ignore []string `mapstructure:"ignore" toml:"ignore" json:"ignore"`
}

type Config struct {
	Indexer     string      `mapstructure:"indexer" toml:"indexer" json:"indexer"`
	TagFile     string      `mapstructure:"tag_file" toml:"tag_file" json:"tag_file"`
	DebounceMS  int         `mapstructure:"debounce_ms" toml:"debounce_ms" json:"debounce_ms"`
	HistorySize int         `mapstructure:"history_size" toml:"history_size" json:"history_size"`
	Log         LogConfig   `mapstructure:"log" toml:"log" json:"log"`
	Watch       WatchConfig `mapstructure:"watch" toml:"watch" json:"watch"`
}

func Default() *Config {
	return &Config{
		Indexer:     "ctags",
		TagFile:     "tags",
		DebounceMS:  2000,
		HistorySize: 25,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Watch: WatchConfig{
			Ignore: []string{},
		},
	}
}

// DefaultProfileDir is where settings, projects and the tag file live when
// --profile is not given.
func DefaultProfileDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appDir)
	}
	return filepath.Join(".", "."+appDir)
}

func Path(profile string) string {
	return filepath.Join(profile, FileName)
}

// Load reads the profile settings. A missing file yields the defaults,
// still subject to environment overrides.
func Load(profile string) (*Config, error) {
	v := viper.New()
	def := Default()
	v.SetDefault("indexer", def.Indexer)
	v.SetDefault("tag_file", def.TagFile)
	v.SetDefault("debounce_ms", def.DebounceMS)
	v.SetDefault("history_size", def.HistorySize)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("watch.ignore", def.Watch.Ignore)

	v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	v.SetConfigType("toml")
	v.AddConfigPath(profile)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read %s: %w", Path(profile), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the settings as TOML, creating the profile directory.
func (c *Config) Save(profile string) error {
	if err := os.MkdirAll(profile, 0755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(Path(profile), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", Path(profile), err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Indexer) == "":
		return &Error{Field: "indexer", Message: "must not be empty"}
	case strings.TrimSpace(c.TagFile) == "":
		return &Error{Field: "tag_file", Message: "must not be empty"}
	case c.DebounceMS <= 0:
		return &Error{Field: "debounce_ms", Message: "must be positive"}
	case c.HistorySize <= 0:
		return &Error{Field: "history_size", Message: "must be positive"}
	}
	return nil
}

func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// Error reports an invalid setting.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
