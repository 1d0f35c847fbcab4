package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

const defaultConfigFile = "mcp_config.json"

// Loader manages reading the config file.
type Loader struct {
	mu       sync.RWMutex
	config   *Config
	filePath string
}

// NewLoader creates a loader for the given config file path.
// An empty path falls back to mcp_config.json in the working directory.
func NewLoader(path string) *Loader {
	if path == "" {
		path = defaultConfigFile
	}
	return &Loader{filePath: path}
}

// Load reads the config from disk and applies environment overrides.
// If the file doesn't exist, returns defaults (still env-overridden).
func (l *Loader) Load() (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cfg := Defaults()

	data, err := os.ReadFile(l.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", l.filePath, err)
	}

	ApplyEnv(cfg)

	l.config = cfg
	return cfg, nil
}

// Get returns the currently loaded config (or defaults if not loaded yet).
func (l *Loader) Get() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.config == nil {
		return Defaults()
	}
	return l.config
}

// FilePath returns the config file path.
func (l *Loader) FilePath() string {
	return l.filePath
}
