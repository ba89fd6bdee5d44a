// Package config persists the folder-monitor settings document as JSON on
// local storage. Loading is infallible from the caller's perspective: a
// missing or corrupt file yields the documented defaults.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/relaydrop/cli/pkg/model"
)

const settingsFileName = "settings.json"

// Store reads and writes the settings document at a fixed location
type Store struct {
	path string
}

// NewStore creates a store rooted at the given directory
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, settingsFileName)}
}

// Path returns the location of the settings file.
func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted settings, or defaults when the file is absent or
// unreadable. It never fails; parse problems are logged and swallowed.
func (s *Store) Load() *model.Settings {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("config: failed to read %s: %v", s.path, err)
		}
		return model.DefaultSettings()
	}

	var settings model.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		log.Printf("config: failed to parse %s: %v", s.path, err)
		return model.DefaultSettings()
	}

	settings.Normalize()
	return &settings
}

// Save writes the settings document atomically (temp file + rename).
// Folder delays are clamped before writing.
func (s *Store) Save(settings *model.Settings) error {
	settings.Normalize()

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace settings: %w", err)
	}
	return nil
}
