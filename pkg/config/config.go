// Package config handles loading and saving cnp configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/cnp/config.yaml
//   - State:  ~/.local/state/cnp/ (expansion state cache)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/canopy/pkg/model"
)

// UIConfig holds UI preference settings.
type UIConfig struct {
	ShowDisabledHint bool `yaml:"show_disabled_hint,omitempty"` // Explain greyed-out rows in the footer
	WarnDuplicates   bool `yaml:"warn_duplicates,omitempty"`    // Surface duplicate-id diagnostics in the status bar
}

// Config is the top-level configuration for cnp.
type Config struct {
	// DefaultMode is the selection mode used when none is given on the
	// command line: "cascade" or "top-level".
	DefaultMode string `yaml:"default_mode,omitempty"`

	// StateDir overrides the XDG state directory for expansion persistence.
	StateDir string `yaml:"state_dir,omitempty"`

	UI UIConfig `yaml:"ui,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultMode: string(model.ModeCascade),
		UI: UIConfig{
			ShowDisabledHint: true,
			WarnDuplicates:   true,
		},
	}
}

// ConfigDir returns the XDG config directory for cnp.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "cnp")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cnp")
}

// StateDir returns the XDG state directory for cnp.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "cnp")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "cnp")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if _, err := model.ParseMode(cfg.DefaultMode); err != nil {
		return cfg, fmt.Errorf("config default_mode: %w", err)
	}

	cfg.StateDir = expandHome(cfg.StateDir)

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Mode returns the configured default selection mode.
func (c Config) Mode() model.Mode {
	mode, err := model.ParseMode(c.DefaultMode)
	if err != nil {
		return model.ModeCascade
	}
	return mode
}

// ResolvedStateDir returns the expansion-state directory: the configured
// override when set, the XDG state dir otherwise.
func (c Config) ResolvedStateDir() string {
	if c.StateDir != "" {
		return c.StateDir
	}
	return StateDir()
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
