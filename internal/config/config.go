package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/nissyi-gh/duedeck/internal/countdown"
	"github.com/nissyi-gh/duedeck/internal/filter"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultStorageKey     = "tasks"
	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "DUEDECK_CONFIG"
)

type Filters struct {
	Status   string `toml:"status"`
	Category string `toml:"category"`
	Priority string `toml:"priority"`
	Date     string `toml:"date"`
}

type Labels struct {
	Completed  string `toml:"completed"`
	Overdue    string `toml:"overdue"`
	NoDeadline string `toml:"no_deadline"`
}

type Config struct {
	DBPath       string  `toml:"db_path"`
	LogPath      string  `toml:"log_path"`
	StorageKey   string  `toml:"storage_key"`
	StrictDates  bool    `toml:"strict_dates"`
	TickInterval string  `toml:"tick_interval"`
	Filters      Filters `toml:"filters"`
	Labels       Labels  `toml:"labels"`
}

// ResolveConfigPath returns $DUEDECK_CONFIG or
// $XDG_CONFIG_HOME/duedeck/config.toml.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DefaultConfigFileName
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "duedeck", DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first
// if the file does not exist.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = DefaultStorageKey
	}
	if _, err := cfg.Tick(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Tick returns the countdown refresh interval.
func (c Config) Tick() (time.Duration, error) {
	if c.TickInterval == "" {
		return time.Second, nil
	}
	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		return 0, fmt.Errorf("tick_interval: %w", err)
	}
	if d < time.Second {
		return 0, fmt.Errorf("tick_interval must be at least 1s, got %s", d)
	}
	return d, nil
}

// Criteria returns the configured initial filter selection.
func (c Config) Criteria() filter.Criteria {
	return filter.Criteria{
		Status:   c.Filters.Status,
		Category: c.Filters.Category,
		Priority: c.Filters.Priority,
		Date:     c.Filters.Date,
	}.Normalize()
}

// CountdownLabels returns the terminal countdown texts, falling back to the
// built-in ones for empty entries.
func (c Config) CountdownLabels() countdown.Labels {
	l := countdown.DefaultLabels()
	if c.Labels.Completed != "" {
		l.Completed = c.Labels.Completed
	}
	if c.Labels.Overdue != "" {
		l.Overdue = c.Labels.Overdue
	}
	if c.Labels.NoDeadline != "" {
		l.NoDeadline = c.Labels.NoDeadline
	}
	return l
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	labels := countdown.DefaultLabels()
	return Config{
		StorageKey:   DefaultStorageKey,
		TickInterval: "1s",
		Filters: Filters{
			Status:   filter.All,
			Category: filter.All,
			Priority: filter.All,
			Date:     filter.All,
		},
		Labels: Labels{
			Completed:  labels.Completed,
			Overdue:    labels.Overdue,
			NoDeadline: labels.NoDeadline,
		},
	}
}
