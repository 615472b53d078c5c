// Package config handles reading and writing ~/.config/studyhall/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for config.yaml.
type Config struct {
	// APIKey is read from config or the OPENAI_API_KEY environment
	// variable. A key typed into the chat page stays in memory only;
	// Write never persists it.
	APIKey  string `yaml:"api_key,omitempty"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

const configFile = "config.yaml"

// Dir returns ~/.config/studyhall.
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "studyhall"), nil
}

// Load reads config.yaml from dir, applying environment overrides. A missing
// file is not an error: defaults are returned. A .env file in the working
// directory is honored for OPENAI_API_KEY.
func Load(dir string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	data, err := os.ReadFile(filepath.Join(dir, configFile))
	switch {
	case os.IsNotExist(err):
		// fall through to defaults
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	return cfg, nil
}

// Write persists cfg to config.yaml in dir, creating the directory if
// needed. The API key is stripped first so an interactively supplied
// credential never reaches disk.
func Write(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	persisted := *cfg
	persisted.APIKey = ""

	data, err := yaml.Marshal(&persisted)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, configFile), data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
