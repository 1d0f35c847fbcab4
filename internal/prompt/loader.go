package prompt

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultPromptName is the file consulted when a request names no system
// prompt and no prompt file.
const DefaultPromptName = "default"

// Loader reads named system prompts from a directory of .txt files.
type Loader struct {
	dir string
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load returns the trimmed contents of <dir>/<name>.txt. A missing or
// unreadable file is a miss, not an error.
func (l *Loader) Load(name string) (string, bool) {
	if l.dir == "" || name == "" {
		return "", false
	}
	path := filepath.Join(l.dir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Error("failed to read prompt file", "path", path, "err", err)
		}
		return "", false
	}
	log.Debug("loaded prompt from file", "path", path)
	return strings.TrimSpace(string(data)), true
}
