// Package config persists the last-used roms path between sessions.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the persisted nextart settings.
type Config struct {
	RomsPath string `json:"roms_path"`
}

// Store loads and saves the persisted config. The UI only depends on this
// interface, so tests run without touching the host config directory.
type Store interface {
	Load() (*Config, error)
	Save(*Config) error
}

// FileStore keeps the config as JSON at a fixed path, conventionally under
// the user config directory.
type FileStore struct {
	path string
}

// DefaultPath returns the platform-conventional config file location.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate the user config directory: %w", err)
	}
	return filepath.Join(configDir, "nextart", "config.json"), nil
}

// NewFileStore returns a store rooted at the default config path.
func NewFileStore() (*FileStore, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return &FileStore{path: path}, nil
}

// NewFileStoreAt returns a store for an explicit config file path.
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the config file location.
func (fs *FileStore) Path() string {
	return fs.path
}

// Load reads the persisted config. A missing file is not an error: both
// return values are nil and the caller proceeds with an empty setup.
func (fs *FileStore) Load() (*Config, error) {
	if fs.path == "" {
		return nil, fmt.Errorf("no config location available")
	}

	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", fs.path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", fs.path, err)
	}
	return &cfg, nil
}

// Save writes the config, creating the config directory if needed.
func (fs *FileStore) Save(cfg *Config) error {
	if fs.path == "" {
		return fmt.Errorf("no config location available")
	}

	if err := os.MkdirAll(filepath.Dir(fs.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(fs.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file '%s': %w", fs.path, err)
	}
	return nil
}
