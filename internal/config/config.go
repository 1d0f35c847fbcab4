package config

// Config is the top-level service configuration, loaded from mcp_config.json
// with environment overrides applied on top.
type Config struct {
	DefaultProvider string                     `json:"default_provider"`
	MaxSteps        int                        `json:"max_steps"`
	Providers       map[string]ProviderConfig  `json:"providers"`
	MCPServers      map[string]MCPServerConfig `json:"mcpServers,omitempty"`
	Server          ServerConfig               `json:"server"`
	Memory          MemoryConfig               `json:"memory"`
	Generation      GenerationConfig           `json:"generation"`
	PromptsDir      string                     `json:"prompts_dir,omitempty"`
}

// ProviderConfig describes one upstream model vendor.
type ProviderConfig struct {
	Model   string   `json:"model"`
	Models  []string `json:"models,omitempty"`
	BaseURL string   `json:"base_url,omitempty"`
	APIKey  string   `json:"api_key,omitempty"`
}

// MCPServerConfig describes one MCP tool server the agent may connect to.
type MCPServerConfig struct {
	URL      string            `json:"url,omitempty"`
	Headers  map[string]string `json:"headers,omitempty"`
	Disabled bool              `json:"disabled,omitempty"`
}

type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type MemoryConfig struct {
	Limit         int    `json:"limit"`
	DefaultUserID string `json:"default_user_id"`
}

type GenerationConfig struct {
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}
