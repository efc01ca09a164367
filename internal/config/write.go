package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ConfigDir returns the fitcalc config directory path.
// Uses $XDG_CONFIG_HOME/fitcalc if set, otherwise ~/.config/fitcalc.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", AppName)
}

var stateDirLine = regexp.MustCompile(`(?m)^state_dir\s*=.*$`)

// WriteDefault makes config.toml point at stateDir. A missing file is
// created from defaults; an existing file only has its state_dir line
// rewritten (or prepended) so other settings survive.
// Returns the config path and one of "created", "updated", "unchanged".
func WriteDefault(stateDir string) (string, string, error) {
	dir := ConfigDir()
	path := filepath.Join(dir, "config.toml")

	if stateDir == "" {
		stateDir = DefaultConfig().StateDir
	}
	line := fmt.Sprintf("state_dir = %q", CompressHome(stateDir))

	existing, err := os.ReadFile(path)
	if err == nil {
		content := string(existing)
		var updated string
		if stateDirLine.MatchString(content) {
			updated = stateDirLine.ReplaceAllLiteralString(content, line)
		} else {
			updated = line + "\n\n" + content
		}
		if updated == content {
			return path, "unchanged", nil
		}
		if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
			return "", "", fmt.Errorf("update config: %w", err)
		}
		return path, "updated", nil
	}
	if !os.IsNotExist(err) {
		return "", "", fmt.Errorf("read config: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create config dir: %w", err)
	}

	d := DefaultConfig()
	content := fmt.Sprintf(`%s

[submit]
enabled = %t
url = %q
timeout_seconds = %d
max_attempts = %d

[archive]
enabled = %t
compress = %t

[ledger]
enabled = %t

[runner]
interpreter = %q
timeout_seconds = %d
`, line,
		d.Submit.Enabled, d.Submit.URL, d.Submit.TimeoutSeconds, d.Submit.MaxAttempts,
		d.Archive.Enabled, d.Archive.Compress,
		d.Ledger.Enabled,
		d.Runner.Interpreter, d.Runner.TimeoutSeconds)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", "", fmt.Errorf("write config: %w", err)
	}

	return path, "created", nil
}

// CompressHome replaces $HOME prefix with ~/ for portable config values.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+"/") {
		return "~/" + path[len(home)+1:]
	}
	if path == home {
		return "~"
	}
	return path
}
