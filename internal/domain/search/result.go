// Package search finds tools in the curated catalog and, best-effort, in the
// npm registry.
package search

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/stackcart/stackcart/internal/domain/catalog"
)

// MinQueryLength is the shortest query, in runes, that produces results.
const MinQueryLength = 2

const maxPackageNameLength = 214

// Package names may carry an @scope/ prefix and use URL-safe characters only.
// Upper case is allowed for legacy registry names.
var packageNamePattern = regexp.MustCompile(`^(@[a-z0-9~][a-z0-9._~-]*/)?[A-Za-z0-9~][A-Za-z0-9._~-]*$`)

// ValidPackageName reports whether name is a usable npm package name. Names
// that fail are never turned into install commands.
func ValidPackageName(name string) bool {
	return len(name) <= maxPackageNameLength && packageNamePattern.MatchString(name)
}

// SearchResult is a transient search hit. Local hits carry the catalog id.
type SearchResult struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Version        string `json:"version,omitempty"`
	Downloads      int64  `json:"downloads,omitempty"`
	Category       string `json:"category"`
	InstallCommand string `json:"installCommand"`
	DocsURL        string `json:"docsUrl,omitempty"`
	IsLocal        bool   `json:"isLocal"`
}

// NpmPackageURL is the npm page of a package.
func NpmPackageURL(name string) string {
	return "https://www.npmjs.com/package/" + name
}

// ToTool synthesizes a tool record from the result. The id is the catalog id
// when known and the slugified name otherwise.
func (r SearchResult) ToTool() catalog.Tool {
	id := r.ID
	if id == "" {
		id = catalog.Slugify(r.Name)
	}
	category := r.Category
	if category == "" {
		category = catalog.DefaultCategory
	}
	docs := r.DocsURL
	if docs == "" {
		docs = NpmPackageURL(r.Name)
	}
	install := r.InstallCommand
	if install == "" {
		install = "npm install " + r.Name
	}
	return catalog.Tool{
		ID:             id,
		Name:           r.Name,
		Description:    r.Description,
		Category:       category,
		InstallCommand: install,
		DocsURL:        docs,
	}
}

// ToolFor returns the catalog record behind a local hit, including its setup
// steps, and a synthesized record for anything else.
func ToolFor(r SearchResult, c *catalog.Catalog) catalog.Tool {
	if r.IsLocal && r.ID != "" && c != nil {
		if t, ok := c.Tool(r.ID); ok {
			return t
		}
	}
	return r.ToTool()
}

// FormatDownloads renders a weekly download count as 1.2M, 3.4K or a plain
// number. Zero renders as an empty string.
func FormatDownloads(n int64) string {
	switch {
	case n <= 0:
		return ""
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}
