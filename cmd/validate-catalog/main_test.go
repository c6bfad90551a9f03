package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `categories:
  - id: devtools
    name: Dev Tools
tools:
  - id: eslint
    name: ESLint
    category: devtools
    installCommand: npm install -D eslint
    docsUrl: https://eslint.org/docs
presets:
  - id: lint
    name: Lint
    tools: [eslint]
`

const warningYAML = `categories:
  - id: devtools
    name: Dev Tools
tools:
  - id: eslint
    name: ESLint
    category: devtools
    installCommand: npm install -D eslint
    docsUrl: https://eslint.org/docs
presets:
  - id: lint
    name: Lint
    tools: [eslint, prettier]
`

const invalidJSON = `{"tools": [{"id": "Bad Id", "name": "Bad"}]}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun(t *testing.T) {
	tmpDir := t.TempDir()
	validPath := writeFile(t, tmpDir, "valid.yaml", validYAML)
	invalidPath := writeFile(t, tmpDir, "invalid.json", invalidJSON)

	tests := []struct {
		name  string
		paths []string
		want  int
	}{
		{"missing path", []string{"non-existent-path"}, 1},
		{"valid file", []string{validPath}, 0},
		{"invalid file", []string{invalidPath}, 1},
		{"directory with an invalid file", []string{tmpDir}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, tt.want, run(tt.paths, false, false, true, &stdout, &stderr))
		})
	}
}

func TestRunStrict(t *testing.T) {
	path := writeFile(t, t.TempDir(), "warn.yaml", warningYAML)

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{path}, false, false, false, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "WARN:")
	assert.Contains(t, stdout.String(), "Summary: 1 valid, 0 invalid")

	stdout.Reset()
	assert.Equal(t, 1, run([]string{path}, true, false, true, &stdout, &stderr))
}

func TestRunText(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "a.yaml", validYAML)
	writeFile(t, tmpDir, "b.json", invalidJSON)
	writeFile(t, tmpDir, "notes.txt", "ignored")

	var stdout, stderr bytes.Buffer
	run([]string{tmpDir}, false, false, false, &stdout, &stderr)

	out := stdout.String()
	assert.Contains(t, out, "✓ "+filepath.Join(tmpDir, "a.yaml"))
	assert.Contains(t, out, "✗ "+filepath.Join(tmpDir, "b.json"))
	assert.Contains(t, out, "ERROR: tools[0].id")
	assert.NotContains(t, out, "notes.txt")
	assert.Contains(t, out, "Summary: 1 valid, 1 invalid")
}

func TestRunJSON(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "a.yaml", validYAML)
	writeFile(t, tmpDir, "b.json", invalidJSON)

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{tmpDir}, false, true, false, &stdout, &stderr))

	var output struct {
		Results map[string]struct {
			Valid bool `json:"valid"`
		} `json:"results"`
		Summary struct {
			Total   int `json:"total"`
			Valid   int `json:"valid"`
			Invalid int `json:"invalid"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &output))
	assert.Equal(t, 2, output.Summary.Total)
	assert.Equal(t, 1, output.Summary.Valid)
	assert.Equal(t, 1, output.Summary.Invalid)
	assert.True(t, output.Results[filepath.Join(tmpDir, "a.yaml")].Valid)
}

func TestRunDefaults(t *testing.T) {
	t.Run("built-in catalog", func(t *testing.T) {
		t.Setenv("STACKCART_CONFIG_DIR", t.TempDir())

		var stdout, stderr bytes.Buffer
		assert.Equal(t, 0, run(nil, false, false, false, &stdout, &stderr))
		assert.Contains(t, stdout.String(), builtinName)
	})

	t.Run("configured catalog", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("STACKCART_CONFIG_DIR", dir)
		writeFile(t, dir, "settings.yaml", "settings:\n  catalog_file: mine.json\n")
		writeFile(t, dir, "mine.json", invalidJSON)

		var stdout, stderr bytes.Buffer
		assert.Equal(t, 1, run(nil, false, false, false, &stdout, &stderr))
		assert.Contains(t, stdout.String(), filepath.Join(dir, "mine.json"))
	})
}
