package search

import (
	"strings"
	"unicode/utf8"

	"github.com/stackcart/stackcart/internal/domain/catalog"
)

// Local matches query case-insensitively against the name, description and
// category of every catalog tool. Results keep catalog order.
func Local(query string, c *catalog.Catalog) []SearchResult {
	results := []SearchResult{}
	if c == nil || utf8.RuneCountInString(query) < MinQueryLength {
		return results
	}

	q := strings.ToLower(query)
	for _, t := range c.Tools {
		if !strings.Contains(strings.ToLower(t.Name), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) &&
			!strings.Contains(strings.ToLower(t.Category), q) {
			continue
		}
		results = append(results, SearchResult{
			ID:             t.ID,
			Name:           t.Name,
			Description:    t.Description,
			Category:       t.Category,
			InstallCommand: t.InstallCommand,
			DocsURL:        t.DocsURL,
			IsLocal:        true,
		})
	}
	return results
}
