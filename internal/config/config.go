// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the session token goes to the OS
// keychain (or the XDG state dir where no keychain is available).
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"orbit/cli/internal/xdg"
)

// DefaultBaseURL is the production API origin used when no override is set.
const DefaultBaseURL = "https://orbit.app/api"

// Config holds non-sensitive CLI settings.
type Config struct {
	BaseURL  string `json:"base_url"`
	Language string `json:"language"`
	LogLevel string `json:"log_level"`
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults.
// The ORBIT_API_URL environment variable overrides the configured base URL.
func Load() (Config, error) {
	c, err := load()
	if err != nil {
		return c, err
	}
	if env := strings.TrimSpace(os.Getenv("ORBIT_API_URL")); env != "" {
		c.BaseURL = env
	}
	return c, nil
}

func load() (Config, error) {
	var c Config
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults(), nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, err
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Language == "" {
		c.Language = "en"
	}
	return c, nil
}

func defaults() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		Language: "en",
		LogLevel: "info",
	}
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
