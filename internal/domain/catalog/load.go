package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DecodeError reports a catalog file that could be read but not parsed.
type DecodeError struct {
	Path   string
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid %s in %s: %v", e.Format, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func formatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return ""
	}
}

// LoadFile reads a catalog from a JSON, YAML or TOML file, chosen by extension.
func LoadFile(path string) (*Catalog, error) {
	format := formatFor(path)
	if format == "" {
		return nil, fmt.Errorf("unsupported catalog file extension: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	c, err := Decode(data, format)
	if err != nil {
		return nil, &DecodeError{Path: path, Format: format, Err: err}
	}
	return c, nil
}

// Decode parses catalog bytes in the given format ("json", "yaml" or "toml").
func Decode(data []byte, format string) (*Catalog, error) {
	var c Catalog
	var err error
	switch format {
	case "json":
		err = json.Unmarshal(data, &c)
	case "yaml":
		err = yaml.Unmarshal(data, &c)
	case "toml":
		err = toml.Unmarshal(data, &c)
	default:
		return nil, fmt.Errorf("unknown catalog format: %s", format)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Load returns the catalog at path, or the built-in catalog when path is empty
// or does not exist.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return LoadFile(path)
}
