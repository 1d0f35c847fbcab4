package llm

import (
	"fmt"

	"mcp-gateway/internal/config"
)

// NewProvider creates an LLM provider from config. The apiKey must already
// be resolved (environment override over config, see ResolveAPIKey).
func NewProvider(name string, cfg config.ProviderConfig, apiKey string) (Provider, error) {
	switch name {
	case "gemini":
		return NewGeminiProvider(CompatConfig{
			APIKey:  apiKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil
	case "openrouter":
		return NewOpenRouterProvider(CompatConfig{
			APIKey:  apiKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil
	case "anthropic":
		return NewAnthropicProvider(AnthropicConfig{
			APIKey: apiKey,
			Model:  cfg.Model,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", name)
	}
}
