package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ShellExporter writes a runnable script. Setup steps and docs become
// comments.
type ShellExporter struct{}

func (e *ShellExporter) Extension() string   { return ".sh" }
func (e *ShellExporter) ContentType() string { return "text/x-shellscript; charset=utf-8" }

func (e *ShellExporter) Render(doc Document) ([]byte, error) {
	b := doc.Bundle
	var buf bytes.Buffer
	buf.WriteString("#!/usr/bin/env sh\nset -e\n")

	for _, cmd := range b.Init {
		fmt.Fprintf(&buf, "\n%s\n", cmd)
	}
	if b.Dependencies != "" {
		fmt.Fprintf(&buf, "\n%s\n", b.Dependencies)
	}
	if b.DevDependencies != "" {
		fmt.Fprintf(&buf, "\n%s\n", b.DevDependencies)
	}
	if len(b.Other) > 0 {
		buf.WriteString("\n# Unrecognized install commands\n")
		for _, cmd := range b.Other {
			fmt.Fprintf(&buf, "# %s\n", cmd)
		}
	}
	for _, s := range b.Setup {
		fmt.Fprintf(&buf, "\n# Setup: %s\n", s.Tool)
		for _, step := range s.Steps {
			fmt.Fprintf(&buf, "#   %s\n", step)
		}
	}
	if len(b.Docs) > 0 {
		buf.WriteString("\n# Docs\n")
		for _, d := range b.Docs {
			fmt.Fprintf(&buf, "#   %s: %s\n", d.Name, d.URL)
		}
	}
	return buf.Bytes(), nil
}

// MarkdownExporter writes a README-style checklist.
type MarkdownExporter struct{}

func (e *MarkdownExporter) Extension() string   { return ".md" }
func (e *MarkdownExporter) ContentType() string { return "text/markdown; charset=utf-8" }

func (e *MarkdownExporter) Render(doc Document) ([]byte, error) {
	b := doc.Bundle
	var buf bytes.Buffer
	buf.WriteString("# Stack\n\n")
	for _, t := range doc.Tools {
		fmt.Fprintf(&buf, "- %s\n", t.Name)
	}

	if cmds := b.CommandsText(); cmds != "" {
		fmt.Fprintf(&buf, "\n## Install\n\n```sh\n%s\n```\n", cmds)
	}
	if len(b.Setup) > 0 {
		buf.WriteString("\n## Setup\n")
		for _, s := range b.Setup {
			fmt.Fprintf(&buf, "\n### %s\n\n", s.Tool)
			for i, step := range s.Steps {
				fmt.Fprintf(&buf, "%d. %s\n", i+1, step)
			}
		}
	}
	if len(b.Docs) > 0 {
		buf.WriteString("\n## Docs\n\n")
		for _, d := range b.Docs {
			fmt.Fprintf(&buf, "- [%s](%s)\n", d.Name, d.URL)
		}
	}
	return buf.Bytes(), nil
}

// JSONExporter writes the Document as indented JSON.
type JSONExporter struct{}

func (e *JSONExporter) Extension() string   { return ".json" }
func (e *JSONExporter) ContentType() string { return "application/json" }

func (e *JSONExporter) Render(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// YAMLExporter writes the Document as YAML.
type YAMLExporter struct{}

func (e *YAMLExporter) Extension() string   { return ".yaml" }
func (e *YAMLExporter) ContentType() string { return "application/yaml" }

func (e *YAMLExporter) Render(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TOMLExporter writes the Document as TOML.
type TOMLExporter struct{}

func (e *TOMLExporter) Extension() string   { return ".toml" }
func (e *TOMLExporter) ContentType() string { return "application/toml" }

func (e *TOMLExporter) Render(doc Document) ([]byte, error) {
	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return []byte(strings.TrimLeft(string(data), "\n")), nil
}
