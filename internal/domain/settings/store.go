// Package settings persists stackcart's configuration and user presets.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/stackcart/stackcart/internal/domain/catalog"
)

// Store handles persistence of settings and user presets to a YAML file.
type Store struct {
	path string
}

// Config is the top-level structure for the YAML file.
type Config struct {
	Settings Settings         `yaml:"settings"`
	Presets  []catalog.Preset `yaml:"presets,omitempty"`
}

// NewStore creates a new settings store.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load reads config from the file. A missing file yields defaults. The
// remote_search flag defaults to true only when the key is absent.
func (s *Store) Load() (Config, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{Settings: DefaultSettings(), Presets: []catalog.Preset{}}, nil
		}
		return Config{}, fmt.Errorf("failed to read settings: %w", err)
	}

	var raw struct {
		Settings struct {
			RemoteSearch *bool `yaml:"remote_search"`
		} `yaml:"settings"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse settings: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse settings: %w", err)
	}

	config.Settings = config.Settings.withDefaults()
	if raw.Settings.RemoteSearch == nil {
		config.Settings.RemoteSearch = true
	}
	if config.Presets == nil {
		config.Presets = []catalog.Preset{}
	}
	return config, nil
}

// Save writes config to the file, creating its directory.
func (s *Store) Save(config Config) error {
	bytes, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}
	return os.WriteFile(s.path, bytes, 0644)
}

// MergePresets appends user presets to c, replacing built-in presets that
// share an id.
func MergePresets(c *catalog.Catalog, presets []catalog.Preset) {
	for _, p := range presets {
		replaced := false
		for i := range c.Presets {
			if c.Presets[i].ID == p.ID {
				c.Presets[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			c.Presets = append(c.Presets, p)
		}
	}
}
