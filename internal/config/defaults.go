package config

// Defaults returns a Config with sensible default values.
func Defaults() *Config {
	return &Config{
		DefaultProvider: "gemini",
		MaxSteps:        3,
		Providers: map[string]ProviderConfig{
			"gemini": {
				Model: "gemini-2.0-flash",
				Models: []string{
					"gemini-2.0-flash",
					"gemini-1.5-pro",
					"gemini-1.5-flash",
				},
			},
			"openrouter": {
				Model:   "anthropic/claude-3.5-sonnet",
				BaseURL: "https://openrouter.ai/api/v1",
				Models: []string{
					"anthropic/claude-3.5-sonnet",
					"openai/gpt-4o-mini",
					"meta-llama/llama-3.1-70b-instruct",
				},
			},
			"anthropic": {
				Model: "claude-sonnet-4-5-20250514",
				Models: []string{
					"claude-sonnet-4-5-20250514",
					"claude-haiku-4-5-20250514",
				},
			},
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Memory: MemoryConfig{
			Limit:         30,
			DefaultUserID: "default",
		},
		Generation: GenerationConfig{
			Temperature: 0.7,
			MaxTokens:   4000,
		},
		PromptsDir: "prompts",
	}
}
