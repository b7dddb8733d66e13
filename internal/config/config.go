// Package config defines the hockeyxg configuration and its layered loader.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
)

// SeasonPlaceholder is replaced by the season label in InputPattern.
const SeasonPlaceholder = "{season}"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DBPath is the SQLite feature store.
	DBPath string `koanf:"db_path"`

	// InputDir and InputPattern locate a season's play-by-play file. The
	// pattern is a glob containing {season}, e.g. "nhl_pbp{season}.csv*".
	InputDir     string `koanf:"input_dir"`
	InputPattern string `koanf:"input_pattern"`

	// Seasons lists the season labels built when none are given.
	Seasons []string `koanf:"seasons"`

	// Workers bounds concurrent game extraction and player lookups.
	Workers int `koanf:"workers"`

	// TeamAliases rewrites team codes while parsing.
	TeamAliases map[string]string `koanf:"team_aliases"`

	// PlayerAPIURL and PlayerAPITimeout configure the NHL web API client.
	PlayerAPIURL     string        `koanf:"player_api_url"`
	PlayerAPITimeout time.Duration `koanf:"player_api_timeout"`

	// MetricsFile, when set, receives a Prometheus textfile after each run.
	MetricsFile string `koanf:"metrics_file"`
}

// New returns a Config with defaults.
func New() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	var seasons []string
	for y := 2010; y <= 2020; y++ {
		seasons = append(seasons, fmt.Sprintf("%d%d", y, y+1))
	}
	return &Config{
		LogLevel:         "info",
		DBPath:           filepath.Join(home, ".hockeyxg", "hockeyxg.db"),
		InputDir:         filepath.Join("data", "pbp"),
		InputPattern:     "nhl_pbp" + SeasonPlaceholder + ".csv*",
		Seasons:          seasons,
		Workers:          runtime.NumCPU(),
		TeamAliases:      map[string]string{"PHX": "ARI"},
		PlayerAPIURL:     "https://api-web.nhle.com/v1",
		PlayerAPITimeout: 30 * time.Second,
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.DBPath == "":
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	case !strings.Contains(c.InputPattern, SeasonPlaceholder):
		return fmt.Errorf("%w: input_pattern %q must contain %s", ErrInvalidConfig, c.InputPattern, SeasonPlaceholder)
	case c.PlayerAPITimeout <= 0:
		return fmt.Errorf("%w: player_api_timeout must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	for _, s := range c.Seasons {
		if !isSeasonLabel(s) {
			return fmt.Errorf("%w: season %q is not of the form 20152016", ErrInvalidConfig, s)
		}
	}
	return nil
}

func isSeasonLabel(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// InputPath finds the play-by-play file for a season label. When several
// files match, the lexically first is used.
func (c *Config) InputPath(label string) (string, error) {
	pattern := filepath.Join(c.InputDir, strings.ReplaceAll(c.InputPattern, SeasonPlaceholder, label))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no play-by-play file matches %s", pattern)
	}
	sort.Strings(matches)
	return matches[0], nil
}
