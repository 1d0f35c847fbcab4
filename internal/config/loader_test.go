package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "mcp_config.json"))

	cfg, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DefaultProvider != "gemini" {
		t.Fatalf("expected gemini, got %s", cfg.DefaultProvider)
	}
	if cfg.MaxSteps != 3 {
		t.Fatalf("expected 3, got %d", cfg.MaxSteps)
	}
	if cfg.Memory.Limit != 30 {
		t.Fatalf("expected 30, got %d", cfg.Memory.Limit)
	}
	if _, ok := cfg.Providers["openrouter"]; !ok {
		t.Fatal("expected openrouter provider in defaults")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp_config.json")
	data := `{
		"default_provider": "openrouter",
		"max_steps": 7,
		"providers": {
			"openrouter": {
				"model": "openai/gpt-4o-mini",
				"models": ["openai/gpt-4o-mini"],
				"base_url": "https://openrouter.ai/api/v1",
				"api_key": "embedded-key"
			}
		},
		"mcpServers": {
			"tools": {"url": "http://localhost:3001/sse"}
		}
	}`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader(path).Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DefaultProvider != "openrouter" {
		t.Fatalf("expected openrouter, got %s", cfg.DefaultProvider)
	}
	if cfg.MaxSteps != 7 {
		t.Fatalf("expected 7, got %d", cfg.MaxSteps)
	}
	if cfg.Providers["openrouter"].APIKey != "embedded-key" {
		t.Fatalf("unexpected api key: %s", cfg.Providers["openrouter"].APIKey)
	}
	if cfg.MCPServers["tools"].URL != "http://localhost:3001/sse" {
		t.Fatalf("unexpected mcp server url: %s", cfg.MCPServers["tools"].URL)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Memory.DefaultUserID != "default" {
		t.Fatalf("expected default user id, got %s", cfg.Memory.DefaultUserID)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvMemoryLimit, "5")
	t.Setenv(EnvDefaultUserID, "anon")
	t.Setenv(EnvServerPort, "9001")

	cfg, err := NewLoader(filepath.Join(t.TempDir(), "mcp_config.json")).Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Memory.Limit != 5 {
		t.Fatalf("expected 5, got %d", cfg.Memory.Limit)
	}
	if cfg.Memory.DefaultUserID != "anon" {
		t.Fatalf("expected anon, got %s", cfg.Memory.DefaultUserID)
	}
	if cfg.Server.Port != 9001 {
		t.Fatalf("expected 9001, got %d", cfg.Server.Port)
	}
}

func TestEnvOverridesIgnoreGarbage(t *testing.T) {
	t.Setenv(EnvMemoryLimit, "not-a-number")

	cfg := Defaults()
	ApplyEnv(cfg)

	if cfg.Memory.Limit != 30 {
		t.Fatalf("expected default 30, got %d", cfg.Memory.Limit)
	}
}
