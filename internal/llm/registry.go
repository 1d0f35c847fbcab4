package llm

import (
	"fmt"
	"os"
	"sort"

	"mcp-gateway/internal/config"
)

// ErrProviderNotFound reports a lookup for a provider name absent from
// configuration.
var ErrProviderNotFound = fmt.Errorf("provider not found")

// credentialEnvVars maps provider names to the environment variable that
// overrides the config-embedded api key.
var credentialEnvVars = map[string]string{
	"gemini":     "GOOGLE_API_KEY",
	"openrouter": "OPENROUTER_API_KEY",
	"anthropic":  "ANTHROPIC_API_KEY",
}

// ResolveAPIKey returns the credential for a provider: the provider's
// environment variable wins over the api_key embedded in config. Empty
// means no credential is resolvable.
func ResolveAPIKey(name string, cfg config.ProviderConfig) string {
	if env := credentialEnvVars[name]; env != "" {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return cfg.APIKey
}

// ProviderInfo describes one configured provider.
type ProviderInfo struct {
	Name         string   `json:"name"`
	Models       []string `json:"models"`
	DefaultModel string   `json:"default_model"`
	Available    bool     `json:"available"`
}

// Registry exposes the statically configured providers and their
// availability. Availability never performs network calls: a provider is
// available iff a credential resolves and the agent capability loaded.
type Registry struct {
	cfg            *config.Config
	agentAvailable bool
}

// NewRegistry creates a registry over the loaded config. agentAvailable
// reports whether the agent runtime was constructed at process start.
func NewRegistry(cfg *config.Config, agentAvailable bool) *Registry {
	return &Registry{cfg: cfg, agentAvailable: agentAvailable}
}

// List returns all configured providers in name order.
func (r *Registry) List() []ProviderInfo {
	names := make([]string, 0, len(r.cfg.Providers))
	for name := range r.cfg.Providers {
		names = append(names, name)
	}
	sort.Strings(names)

	infos := make([]ProviderInfo, 0, len(names))
	for _, name := range names {
		info, _ := r.Describe(name)
		infos = append(infos, info)
	}
	return infos
}

// Describe returns one provider's models and availability, or
// ErrProviderNotFound for names absent from configuration.
func (r *Registry) Describe(name string) (ProviderInfo, error) {
	pc, ok := r.cfg.Providers[name]
	if !ok {
		return ProviderInfo{}, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
	}
	return ProviderInfo{
		Name:         name,
		Models:       pc.Models,
		DefaultModel: pc.Model,
		Available:    ResolveAPIKey(name, pc) != "" && r.agentAvailable,
	}, nil
}
