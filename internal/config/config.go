package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/suykerbuyk/fitcalc/internal/ledger"
	"github.com/suykerbuyk/fitcalc/internal/session"
)

// AppName names the config and state directories.
const AppName = "fitcalc"

// Config holds all fitcalc configuration.
type Config struct {
	StateDir string `toml:"state_dir"`

	Submit  SubmitConfig  `toml:"submit"`
	Archive ArchiveConfig `toml:"archive"`
	Ledger  LedgerConfig  `toml:"ledger"`
	Runner  RunnerConfig  `toml:"runner"`
}

// SubmitConfig controls posting fit results to a remote endpoint.
type SubmitConfig struct {
	Enabled        bool   `toml:"enabled"`
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxAttempts    int    `toml:"max_attempts"`
}

type ArchiveConfig struct {
	Enabled  bool `toml:"enabled"`
	Compress bool `toml:"compress"`
}

type LedgerConfig struct {
	Enabled bool `toml:"enabled"`
}

type RunnerConfig struct {
	Interpreter    string `toml:"interpreter"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		StateDir: "~/.local/state/fitcalc",
		Submit: SubmitConfig{
			Enabled:        false,
			URL:            "https://api.example.com/save_results",
			TimeoutSeconds: 10,
			MaxAttempts:    5,
		},
		Archive: ArchiveConfig{
			Enabled:  true,
			Compress: true,
		},
		Ledger: LedgerConfig{
			Enabled: true,
		},
		Runner: RunnerConfig{
			Interpreter:    "python3",
			TimeoutSeconds: 30,
		},
	}
}

// Load reads config from the standard path, falling back to defaults.
func Load() (Config, error) {
	cfg := DefaultConfig()

	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	cfg.StateDir = expandHome(cfg.StateDir)

	return cfg, nil
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, AppName, "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", AppName, "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// StatePath returns the session state file.
func (c Config) StatePath() string {
	return filepath.Join(c.StateDir, session.StateFile)
}

// ArchiveDir returns the directory holding archived histories.
func (c Config) ArchiveDir() string {
	return filepath.Join(c.StateDir, "archive")
}

// LedgerPath returns the SQLite ledger file.
func (c Config) LedgerPath() string {
	return filepath.Join(c.StateDir, ledger.FileName)
}
