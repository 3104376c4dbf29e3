// Package prefs persists the UI choices that should survive a restart:
// theme, filter text and minimum level. Stored in
// ~/.config/logscope/prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/logscope/internal/config"
	"github.com/five82/logscope/internal/trace"
)

// Prefs holds user preferences.
type Prefs struct {
	Theme  string `toml:"theme"`
	Filter string `toml:"filter,omitempty"`
	Level  string `toml:"level,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/logscope/prefs.toml"
	defaultTheme     = "Dracula"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Default returns the preferences used when nothing is stored.
func Default() Prefs {
	return Prefs{Theme: defaultTheme}
}

// MinLevel parses the stored level. ok is false when none is stored or the
// stored value is not a level.
func (p Prefs) MinLevel() (level trace.Level, ok bool) {
	if strings.TrimSpace(p.Level) == "" {
		return trace.Verbose, false
	}
	level, err := trace.LevelFromString(p.Level)
	if err != nil {
		return trace.Verbose, false
	}
	return level, true
}

// Load reads preferences from path, or the default path when empty. Missing
// or unreadable files yield the defaults; preferences are never fatal.
func Load(path string) (Prefs, error) {
	prefs := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs, nil
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return prefs, nil // Graceful degradation
	}
	if err := toml.Unmarshal(data, &prefs); err != nil {
		return Default(), nil // Graceful degradation
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	if _, ok := prefs.MinLevel(); !ok {
		prefs.Level = ""
	}
	return prefs, nil
}

// Save writes preferences to path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	return config.ExpandPath(path)
}
