// Package export renders an aggregated bundle as a shell script, Markdown,
// JSON, YAML or TOML.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stackcart/stackcart/internal/domain/aggregate"
	"github.com/stackcart/stackcart/internal/domain/catalog"
)

// ToolRef identifies a selected tool in structured exports.
type ToolRef struct {
	ID   string `json:"id" yaml:"id" toml:"id"`
	Name string `json:"name" yaml:"name" toml:"name"`
}

// Document is the structured export of a stack.
type Document struct {
	Tools  []ToolRef               `json:"tools" yaml:"tools" toml:"tools"`
	Bundle aggregate.CommandBundle `json:"bundle" yaml:"bundle" toml:"bundle"`
}

// NewDocument aggregates tools into a Document.
func NewDocument(tools []catalog.Tool) Document {
	refs := make([]ToolRef, len(tools))
	for i, t := range tools {
		refs[i] = ToolRef{ID: t.ID, Name: t.Name}
	}
	return Document{Tools: refs, Bundle: aggregate.Aggregate(tools)}
}

// Exporter renders a Document in one format.
type Exporter interface {
	Render(doc Document) ([]byte, error)
	Extension() string
	ContentType() string
}

var exporters = map[string]Exporter{
	"sh":   &ShellExporter{},
	"md":   &MarkdownExporter{},
	"json": &JSONExporter{},
	"yaml": &YAMLExporter{},
	"toml": &TOMLExporter{},
}

var aliases = map[string]string{
	"shell":    "sh",
	"bash":     "sh",
	"markdown": "md",
	"yml":      "yaml",
}

// Formats lists the supported format names.
func Formats() []string {
	names := make([]string, 0, len(exporters))
	for name := range exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// For returns the exporter for a format name or alias.
func For(format string) (Exporter, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if a, ok := aliases[format]; ok {
		format = a
	}
	e, ok := exporters[format]
	if !ok {
		return nil, fmt.Errorf("unsupported export format %q (supported: %s)", format, strings.Join(Formats(), ", "))
	}
	return e, nil
}

// Render aggregates tools and renders them in format.
func Render(tools []catalog.Tool, format string) ([]byte, error) {
	e, err := For(format)
	if err != nil {
		return nil, err
	}
	return e.Render(NewDocument(tools))
}

// WriteFile renders tools to path. An empty format is taken from the file
// extension.
func WriteFile(path string, tools []catalog.Tool, format string) error {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	e, err := For(format)
	if err != nil {
		return err
	}
	data, err := e.Render(NewDocument(tools))
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", format, err)
	}

	mode := os.FileMode(0644)
	if e.Extension() == ".sh" {
		mode = 0755
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create export dir: %w", err)
		}
	}
	return os.WriteFile(path, data, mode)
}
