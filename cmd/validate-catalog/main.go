// Command validate-catalog checks catalog files for broken references and
// malformed entries.
//
// Usage:
//
//	validate-catalog [options] [path...]
//
// Paths may be JSON, YAML or TOML files or directories of them. With no
// paths it validates the catalog configured in settings, or the built-in
// catalog when none is set.
//
// Options:
//
//	-strict     Treat warnings as errors
//	-json       Output results as JSON
//	-quiet      Only output errors
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/stackcart/stackcart/internal/app"
	"github.com/stackcart/stackcart/internal/domain/catalog"
	"github.com/stackcart/stackcart/internal/domain/settings"
)

// builtinName labels the compiled-in catalog in output.
const builtinName = "(built-in)"

func main() {
	var strict, asJSON, quiet bool
	fs := flag.NewFlagSet("validate-catalog", flag.ExitOnError)
	fs.BoolVar(&strict, "strict", false, "Treat warnings as errors")
	fs.BoolVar(&asJSON, "json", false, "Output results as JSON")
	fs.BoolVar(&quiet, "quiet", false, "Only output errors")

	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	os.Exit(run(fs.Args(), strict, asJSON, quiet, os.Stdout, os.Stderr))
}

func run(paths []string, strict, asJSON, quiet bool, stdout, stderr io.Writer) int {
	exitCode := 0
	allResults := make(map[string]*catalog.ValidationResult)

	if len(paths) == 0 {
		path, err := configuredCatalog()
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if path == "" {
			allResults[builtinName] = catalog.Validate(catalog.Default())
		} else {
			paths = []string{path}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %s: %v\n", path, err)
			exitCode = 1
			continue
		}

		if info.IsDir() {
			results, err := catalog.ValidateDirectory(path)
			if err != nil {
				fmt.Fprintf(stderr, "Error validating directory %s: %v\n", path, err)
				exitCode = 1
				continue
			}
			for name, result := range results {
				allResults[filepath.Join(path, name)] = result
			}
		} else {
			result, err := catalog.ValidateFile(path)
			if err != nil {
				fmt.Fprintf(stderr, "Error validating file %s: %v\n", path, err)
				exitCode = 1
				continue
			}
			allResults[path] = result
		}
	}

	if asJSON {
		outputJSON(stdout, allResults)
	} else {
		outputText(stdout, allResults, quiet, strict)
	}

	for _, result := range allResults {
		if !result.Valid {
			exitCode = 1
		}
		if strict && len(result.Warnings) > 0 {
			exitCode = 1
		}
	}

	return exitCode
}

// configuredCatalog returns the catalog file named in settings, or "" when
// the built-in catalog is in use.
func configuredCatalog() (string, error) {
	appDir := settings.AppDir()
	config, err := settings.NewStore(filepath.Join(appDir, app.SettingsFile)).Load()
	if err != nil {
		return "", fmt.Errorf("failed to load settings: %w", err)
	}
	path := settings.ResolvePath(appDir, config.Settings.CatalogFile)
	if path == "" {
		return "", nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", nil
	}
	return path, nil
}

func outputJSON(w io.Writer, results map[string]*catalog.ValidationResult) {
	output := struct {
		Results map[string]*catalog.ValidationResult `json:"results"`
		Summary struct {
			Total   int `json:"total"`
			Valid   int `json:"valid"`
			Invalid int `json:"invalid"`
		} `json:"summary"`
	}{
		Results: results,
	}

	for _, r := range results {
		output.Summary.Total++
		if r.Valid {
			output.Summary.Valid++
		} else {
			output.Summary.Invalid++
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(output)
}

func outputText(w io.Writer, results map[string]*catalog.ValidationResult, quiet, strict bool) {
	validCount := 0
	invalidCount := 0

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, path := range names {
		result := results[path]
		if result.Valid && len(result.Warnings) == 0 && quiet {
			validCount++
			continue
		}

		if result.Valid {
			validCount++
			if !quiet {
				fmt.Fprintf(w, "✓ %s\n", path)
			}
		} else {
			invalidCount++
			fmt.Fprintf(w, "✗ %s\n", path)
		}

		for _, err := range result.Errors {
			fmt.Fprintf(w, "  ERROR: %s: %s\n", err.Field, err.Message)
		}

		if !quiet || strict {
			for _, warn := range result.Warnings {
				fmt.Fprintf(w, "  WARN:  %s: %s\n", warn.Field, warn.Message)
			}
		}
	}

	if !quiet {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Summary: %d valid, %d invalid\n", validCount, invalidCount)
	}
}
