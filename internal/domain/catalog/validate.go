package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ValidationError represents a single validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult holds the result of validating a catalog.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors,omitempty"`
	Warnings []ValidationError `json:"warnings,omitempty"`
}

// Regular expressions for validation
var (
	idPattern  = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
	urlPattern = regexp.MustCompile(`^https?://\S+$`)
)

// Validate checks a catalog for broken references and malformed entries.
// Preset ids that don't resolve are warnings: applying such a preset drops them.
func Validate(c *Catalog) *ValidationResult {
	result := &ValidationResult{Valid: true}

	categories := validateCategories(c.Categories, result)
	tools := validateTools(c.Tools, categories, result)
	validatePresets(c.Presets, tools, result)

	result.Valid = len(result.Errors) == 0
	return result
}

func validateCategories(categories []Category, result *ValidationResult) map[string]bool {
	seen := make(map[string]bool)
	for i, cat := range categories {
		prefix := fmt.Sprintf("categories[%d]", i)
		if cat.ID == "" {
			result.Errors = append(result.Errors, ValidationError{prefix + ".id", "required"})
			continue
		}
		if !idPattern.MatchString(cat.ID) {
			result.Errors = append(result.Errors, ValidationError{prefix + ".id", "must be lowercase letters, numbers, and hyphens only"})
		}
		if seen[cat.ID] {
			result.Errors = append(result.Errors, ValidationError{prefix + ".id", fmt.Sprintf("duplicate category id: %s", cat.ID)})
		}
		seen[cat.ID] = true

		if cat.Name == "" {
			result.Errors = append(result.Errors, ValidationError{prefix + ".name", "required"})
		}
		if cat.Icon != "" && !ValidIcons[cat.Icon] {
			result.Errors = append(result.Errors, ValidationError{prefix + ".icon", fmt.Sprintf("invalid icon: %s", cat.Icon)})
		}
	}
	return seen
}

func validateTools(tools []Tool, categories map[string]bool, result *ValidationResult) map[string]bool {
	seen := make(map[string]bool)
	for i, tool := range tools {
		prefix := fmt.Sprintf("tools[%d]", i)

		if tool.ID == "" {
			result.Errors = append(result.Errors, ValidationError{prefix + ".id", "required"})
		} else {
			if !idPattern.MatchString(tool.ID) {
				result.Errors = append(result.Errors, ValidationError{prefix + ".id", "must be lowercase letters, numbers, and hyphens only"})
			}
			if seen[tool.ID] {
				result.Errors = append(result.Errors, ValidationError{prefix + ".id", fmt.Sprintf("duplicate tool id: %s", tool.ID)})
			}
			seen[tool.ID] = true
		}

		if tool.Name == "" {
			result.Errors = append(result.Errors, ValidationError{prefix + ".name", "required"})
		}

		switch {
		case tool.Category == "":
			result.Errors = append(result.Errors, ValidationError{prefix + ".category", "required"})
		case !categories[tool.Category]:
			result.Errors = append(result.Errors, ValidationError{prefix + ".category", fmt.Sprintf("unknown category: %s", tool.Category)})
		}

		if strings.TrimSpace(tool.InstallCommand) == "" {
			result.Errors = append(result.Errors, ValidationError{prefix + ".installCommand", "required"})
		} else if !ParseInstallCommand(tool.InstallCommand).Recognized() {
			result.Warnings = append(result.Warnings, ValidationError{prefix + ".installCommand", "unrecognized command shape; it will only appear in docs output"})
		}

		if tool.DocsURL == "" {
			result.Errors = append(result.Errors, ValidationError{prefix + ".docsUrl", "required"})
		} else if !urlPattern.MatchString(tool.DocsURL) {
			result.Errors = append(result.Errors, ValidationError{prefix + ".docsUrl", "must be an http(s) URL"})
		}

		for j, step := range tool.SetupSteps {
			if strings.TrimSpace(step) == "" {
				result.Warnings = append(result.Warnings, ValidationError{fmt.Sprintf("%s.setupSteps[%d]", prefix, j), "empty step"})
			}
		}
	}
	return seen
}

func validatePresets(presets []Preset, tools map[string]bool, result *ValidationResult) {
	seen := make(map[string]bool)
	for i, p := range presets {
		prefix := fmt.Sprintf("presets[%d]", i)
		if p.ID == "" {
			result.Errors = append(result.Errors, ValidationError{prefix + ".id", "required"})
		} else {
			if seen[p.ID] {
				result.Errors = append(result.Errors, ValidationError{prefix + ".id", fmt.Sprintf("duplicate preset id: %s", p.ID)})
			}
			seen[p.ID] = true
		}
		if len(p.Tools) == 0 {
			result.Warnings = append(result.Warnings, ValidationError{prefix + ".tools", "preset has no tools"})
		}
		for j, id := range p.Tools {
			if !tools[id] {
				result.Warnings = append(result.Warnings, ValidationError{fmt.Sprintf("%s.tools[%d]", prefix, j), fmt.Sprintf("unknown tool id %q is dropped when the preset is applied", id)})
			}
		}
	}
}

// ValidateFile loads and validates a catalog file.
func ValidateFile(path string) (*ValidationResult, error) {
	c, err := LoadFile(path)
	if err != nil {
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			return &ValidationResult{
				Valid: false,
				Errors: []ValidationError{{
					Field:   decodeErr.Format,
					Message: decodeErr.Err.Error(),
				}},
			}, nil
		}
		return nil, err
	}
	return Validate(c), nil
}

// ValidateDirectory validates every catalog file in a directory.
func ValidateDirectory(dir string) (map[string]*ValidationResult, error) {
	results := make(map[string]*ValidationResult)

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || formatFor(file.Name()) == "" {
			continue
		}

		path := filepath.Join(dir, file.Name())
		result, err := ValidateFile(path)
		if err != nil {
			results[file.Name()] = &ValidationResult{
				Valid: false,
				Errors: []ValidationError{{
					Field:   "file",
					Message: err.Error(),
				}},
			}
		} else {
			results[file.Name()] = result
		}
	}

	return results, nil
}
