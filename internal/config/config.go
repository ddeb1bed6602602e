package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const configFile = "config.json"

// Config is the reviewer's local configuration.
type Config struct {
	ServerURL string `json:"server_url"`
	Token     string `json:"token,omitempty"`
	Reviewer  string `json:"reviewer,omitempty"`
	// SeenGettingStarted suppresses the first-run dialog once dismissed.
	SeenGettingStarted bool `json:"seen_getting_started,omitempty"`
}

// Dir returns the cadesk configuration directory, creating nothing.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "cadesk"), nil
}

// Load reads the config from disk. A missing file yields a zero config.
func Load(dir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the config to disk.
func Save(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, configFile), data, 0600)
}

// MarkGettingStartedSeen persists the first-run dismissal.
func MarkGettingStartedSeen(dir string) error {
	cfg, err := Load(dir)
	if err != nil {
		return err
	}
	cfg.SeenGettingStarted = true
	return Save(dir, cfg)
}
