package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIKey != "" {
		t.Fatalf("expected empty key, got %q", cfg.APIKey)
	}
	if cfg.Model != "gpt-3.5-turbo" {
		t.Fatalf("expected default model, got %q", cfg.Model)
	}
	if cfg.BaseURL != "https://api.openai.com/v1" {
		t.Fatalf("expected default base URL, got %q", cfg.BaseURL)
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	dir := t.TempDir()
	content := "model: gpt-4\nbase_url: https://example.com/v1\n"
	if err := os.WriteFile(filepath.Join(dir, configFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model != "gpt-4" || cfg.BaseURL != "https://example.com/v1" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadEnvOverridesKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIKey != "sk-from-env" {
		t.Fatalf("expected env key, got %q", cfg.APIKey)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, configFile), []byte("model: [unclosed"), 0o644)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestWriteStripsAPIKey(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{APIKey: "sk-secret", Model: "gpt-4", BaseURL: "https://example.com/v1"}

	if err := Write(dir, cfg); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "sk-secret") {
		t.Fatal("the API key must never reach disk")
	}
	if !strings.Contains(string(data), "gpt-4") {
		t.Fatal("other fields should be persisted")
	}

	// The in-memory config keeps its key
	if cfg.APIKey != "sk-secret" {
		t.Fatal("Write must not mutate the caller's config")
	}
}

func TestWriteCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")
	if err := Write(dir, &Config{Model: "m"}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, configFile)); err != nil {
		t.Fatalf("config file should exist: %v", err)
	}
}

func TestWriteThenLoadRoundTrip(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	dir := t.TempDir()
	if err := Write(dir, &Config{Model: "gpt-4", BaseURL: "https://example.com/v1"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model != "gpt-4" || cfg.BaseURL != "https://example.com/v1" {
		t.Fatalf("round trip mismatch: %+v", cfg)
	}
}
