package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config stores inspector settings read from .loupe.toml at the
// repository root. All fields are optional.
type Config struct {
	History HistoryConfig `toml:"history"`
}

// HistoryConfig controls default history output.
type HistoryConfig struct {
	Limit      int    `toml:"limit"`
	Oneline    bool   `toml:"oneline"`
	DateFormat string `toml:"date_format"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		History: HistoryConfig{
			Limit:      20,
			DateFormat: "2006-01-02 15:04:05",
		},
	}
}

func (r *Repo) configPath() string {
	return filepath.Join(r.RootDir, ".loupe.toml")
}

// ReadConfig reads .loupe.toml. A missing file returns defaults; a
// malformed file is an error.
func (r *Repo) ReadConfig() (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(r.configPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("read config: unmarshal: %w", err)
	}
	if cfg.History.Limit < 0 {
		cfg.History.Limit = 0
	}
	if cfg.History.DateFormat == "" {
		cfg.History.DateFormat = DefaultConfig().History.DateFormat
	}
	return cfg, nil
}
