package config

import (
	"os"
	"strconv"
)

// Environment variables recognized on top of the config file. Each override
// is a pure resolution step so defaulting stays testable in isolation.
const (
	EnvMemoryLimit   = "CONVERSATION_MEMORY_LIMIT"
	EnvDefaultUserID = "DEFAULT_USER_ID"
	EnvServerHost    = "MCP_SERVER_HOST"
	EnvServerPort    = "MCP_SERVER_PORT"
	EnvTemperature   = "DEFAULT_TEMPERATURE"
	EnvMaxTokens     = "MAX_TOKENS"
)

// ApplyEnv overlays environment overrides onto cfg.
func ApplyEnv(cfg *Config) {
	cfg.Memory.Limit = resolveInt(EnvMemoryLimit, cfg.Memory.Limit)
	cfg.Memory.DefaultUserID = resolveString(EnvDefaultUserID, cfg.Memory.DefaultUserID)
	cfg.Server.Host = resolveString(EnvServerHost, cfg.Server.Host)
	cfg.Server.Port = resolveInt(EnvServerPort, cfg.Server.Port)
	cfg.Generation.Temperature = resolveFloat(EnvTemperature, cfg.Generation.Temperature)
	cfg.Generation.MaxTokens = resolveInt(EnvMaxTokens, cfg.Generation.MaxTokens)
}

// resolveString returns the environment value for key, or fallback when unset.
func resolveString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// resolveInt returns the environment value for key parsed as an int, or
// fallback when unset or unparsable.
func resolveInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func resolveFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
