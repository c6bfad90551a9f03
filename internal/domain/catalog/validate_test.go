package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMinimalCatalog() *Catalog {
	return &Catalog{
		Categories: []Category{{ID: "utilities", Name: "Utilities", Icon: IconPackage}},
		Tools: []Tool{{
			ID:             "zod",
			Name:           "Zod",
			Description:    "Schema validation",
			Category:       "utilities",
			InstallCommand: "npm install zod",
			DocsURL:        "https://zod.dev",
		}},
		Presets: []Preset{{ID: "basic", Name: "Basic", Tools: []string{"zod"}}},
	}
}

func hasField(errs []ValidationError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestValidate_DefaultCatalog(t *testing.T) {
	result := Validate(Default())
	assert.True(t, result.Valid, "Expected built-in catalog to be valid, got errors: %v", result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidate_MinimalCatalog(t *testing.T) {
	result := Validate(createMinimalCatalog())
	assert.True(t, result.Valid, "Expected valid catalog, got errors: %v", result.Errors)
}

func TestValidate_UnknownCategory(t *testing.T) {
	c := createMinimalCatalog()
	c.Tools[0].Category = "databases"

	result := Validate(c)
	assert.False(t, result.Valid)
	assert.True(t, hasField(result.Errors, "tools[0].category"))
}

func TestValidate_DuplicateToolID(t *testing.T) {
	c := createMinimalCatalog()
	c.Tools = append(c.Tools, c.Tools[0])

	result := Validate(c)
	assert.False(t, result.Valid)
	assert.True(t, hasField(result.Errors, "tools[1].id"))
}

func TestValidate_PresetUnknownToolIsWarning(t *testing.T) {
	c := createMinimalCatalog()
	c.Presets[0].Tools = append(c.Presets[0].Tools, "ghost")

	result := Validate(c)
	assert.True(t, result.Valid)
	assert.True(t, hasField(result.Warnings, "presets[0].tools[1]"))
}

func TestValidate_ToolFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Tool)
		field   string
		warning bool
	}{
		{"invalid id", func(t *Tool) { t.ID = "Zod" }, "tools[0].id", false},
		{"missing name", func(t *Tool) { t.Name = "" }, "tools[0].name", false},
		{"missing install command", func(t *Tool) { t.InstallCommand = "  " }, "tools[0].installCommand", false},
		{"unrecognized install command", func(t *Tool) { t.InstallCommand = "pip install zod" }, "tools[0].installCommand", true},
		{"missing docs url", func(t *Tool) { t.DocsURL = "" }, "tools[0].docsUrl", false},
		{"non-http docs url", func(t *Tool) { t.DocsURL = "zod.dev" }, "tools[0].docsUrl", false},
		{"empty setup step", func(t *Tool) { t.SetupSteps = []string{""} }, "tools[0].setupSteps[0]", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := createMinimalCatalog()
			tt.mutate(&c.Tools[0])

			result := Validate(c)
			if tt.warning {
				assert.True(t, result.Valid)
				assert.True(t, hasField(result.Warnings, tt.field), "Expected warning on %s, got %v", tt.field, result.Warnings)
			} else {
				assert.False(t, result.Valid)
				assert.True(t, hasField(result.Errors, tt.field), "Expected error on %s, got %v", tt.field, result.Errors)
			}
		})
	}
}

func TestValidate_InvalidIcon(t *testing.T) {
	c := createMinimalCatalog()
	c.Categories[0].Icon = "rocket"

	result := Validate(c)
	assert.False(t, result.Valid)
	assert.True(t, hasField(result.Errors, "categories[0].icon"))
}

func TestValidateFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tools: [unterminated"), 0644))

	result, err := ValidateFile(path)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.True(t, hasField(result.Errors, "yaml"))
}

func TestValidateDirectory(t *testing.T) {
	dir := t.TempDir()
	valid := `{"categories":[{"id":"utilities","name":"Utilities"}],
		"tools":[{"id":"zod","name":"Zod","category":"utilities","installCommand":"npm install zod","docsUrl":"https://zod.dev"}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.json"), []byte(valid), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"tools":[{"id":"x"}]}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	results, err := ValidateDirectory(dir)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results["good.json"].Valid)
	assert.False(t, results["bad.json"].Valid)
}
