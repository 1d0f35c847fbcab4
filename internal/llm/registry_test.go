package llm

import (
	"errors"
	"testing"

	"mcp-gateway/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		DefaultProvider: "gemini",
		Providers: map[string]config.ProviderConfig{
			"gemini": {
				Model:  "gemini-2.0-flash",
				Models: []string{"gemini-2.0-flash", "gemini-1.5-pro"},
			},
			"openrouter": {
				Model:  "openai/gpt-4o-mini",
				Models: []string{"openai/gpt-4o-mini"},
				APIKey: "embedded-key",
			},
		},
	}
}

func TestDescribe(t *testing.T) {
	r := NewRegistry(testConfig(), true)

	info, err := r.Describe("gemini")
	if err != nil {
		t.Fatal(err)
	}
	if info.DefaultModel != "gemini-2.0-flash" {
		t.Fatalf("unexpected default model: %s", info.DefaultModel)
	}
	if len(info.Models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(info.Models))
	}
}

func TestDescribeUnknownProvider(t *testing.T) {
	r := NewRegistry(testConfig(), true)

	_, err := r.Describe("mystery")
	if !errors.Is(err, ErrProviderNotFound) {
		t.Fatalf("expected ErrProviderNotFound, got %v", err)
	}
}

func TestListIsSortedAndComplete(t *testing.T) {
	r := NewRegistry(testConfig(), true)

	infos := r.List()
	if len(infos) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(infos))
	}
	if infos[0].Name != "gemini" || infos[1].Name != "openrouter" {
		t.Fatalf("expected name order, got %s, %s", infos[0].Name, infos[1].Name)
	}
}

func TestAvailabilityRequiresCredential(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	r := NewRegistry(testConfig(), true)

	gemini, _ := r.Describe("gemini")
	if gemini.Available {
		t.Fatal("gemini has no credential, must not be available")
	}

	openrouter, _ := r.Describe("openrouter")
	if !openrouter.Available {
		t.Fatal("openrouter has an embedded key, must be available")
	}
}

func TestAvailabilityRequiresAgentCapability(t *testing.T) {
	r := NewRegistry(testConfig(), false)

	openrouter, _ := r.Describe("openrouter")
	if openrouter.Available {
		t.Fatal("provider must be unavailable without the agent capability")
	}
}

func TestResolveAPIKeyEnvWins(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "env-key")

	key := ResolveAPIKey("openrouter", config.ProviderConfig{APIKey: "embedded-key"})
	if key != "env-key" {
		t.Fatalf("expected env override, got %s", key)
	}
}

func TestResolveAPIKeyConfigFallback(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	key := ResolveAPIKey("anthropic", config.ProviderConfig{APIKey: "embedded-key"})
	if key != "embedded-key" {
		t.Fatalf("expected embedded key, got %s", key)
	}
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider("mystery", config.ProviderConfig{}, "key")
	if err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestNewProviderVariants(t *testing.T) {
	for _, name := range []string{"gemini", "openrouter", "anthropic"} {
		p, err := NewProvider(name, config.ProviderConfig{Model: "m"}, "key")
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if p.Name() != name {
			t.Fatalf("expected %s, got %s", name, p.Name())
		}
		if p.DefaultModel() != "m" {
			t.Fatalf("%s: unexpected default model %s", name, p.DefaultModel())
		}
	}
}
