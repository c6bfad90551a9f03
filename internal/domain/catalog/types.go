// Package catalog provides the curated tool, category and preset data that
// stacks are built from.
package catalog

import "strings"

// Tool is a single curated catalog entry.
type Tool struct {
	ID             string   `json:"id" yaml:"id" toml:"id"`
	Name           string   `json:"name" yaml:"name" toml:"name"`
	Description    string   `json:"description" yaml:"description" toml:"description"`
	Category       string   `json:"category" yaml:"category" toml:"category"`
	InstallCommand string   `json:"installCommand" yaml:"installCommand" toml:"installCommand"`
	DocsURL        string   `json:"docsUrl" yaml:"docsUrl" toml:"docsUrl"`
	SetupSteps     []string `json:"setupSteps,omitempty" yaml:"setupSteps,omitempty" toml:"setupSteps,omitempty"`
	Icon           string   `json:"icon,omitempty" yaml:"icon,omitempty" toml:"icon,omitempty"`
}

// Category groups tools for browsing.
type Category struct {
	ID          string `json:"id" yaml:"id" toml:"id"`
	Name        string `json:"name" yaml:"name" toml:"name"`
	Description string `json:"description" yaml:"description" toml:"description"`
	Icon        Icon   `json:"icon" yaml:"icon" toml:"icon"`
}

// Preset is a named bundle of tool ids applied in one step.
type Preset struct {
	ID          string   `json:"id" yaml:"id" toml:"id"`
	Name        string   `json:"name" yaml:"name" toml:"name"`
	Description string   `json:"description" yaml:"description" toml:"description"`
	Icon        string   `json:"icon" yaml:"icon" toml:"icon"`
	Tools       []string `json:"tools" yaml:"tools" toml:"tools"`
}

// Catalog is the read-only collection of categories, tools and presets.
type Catalog struct {
	Categories []Category `json:"categories" yaml:"categories" toml:"categories"`
	Tools      []Tool     `json:"tools" yaml:"tools" toml:"tools"`
	Presets    []Preset   `json:"presets" yaml:"presets" toml:"presets"`
}

// DefaultCategory is used for remote packages nothing else matched.
const DefaultCategory = "utilities"

// Tool looks up a tool by id.
func (c *Catalog) Tool(id string) (Tool, bool) {
	for _, t := range c.Tools {
		if t.ID == id {
			return t, true
		}
	}
	return Tool{}, false
}

// Category looks up a category by id.
func (c *Catalog) Category(id string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// Preset looks up a preset by id.
func (c *Catalog) Preset(id string) (Preset, bool) {
	for _, p := range c.Presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// CategoryName returns the display name for a category id, falling back to
// "Utilities" for empty or unknown ids.
func (c *Catalog) CategoryName(id string) string {
	if cat, ok := c.Category(id); ok && id != "" {
		return cat.Name
	}
	return "Utilities"
}

// ToolsInCategory returns the tools of one category in catalog order.
func (c *Catalog) ToolsInCategory(id string) []Tool {
	var out []Tool
	for _, t := range c.Tools {
		if t.Category == id {
			out = append(out, t)
		}
	}
	return out
}

// PresetTools resolves a preset to catalog tools, in catalog order. Ids that
// are not in the catalog are returned separately.
func (c *Catalog) PresetTools(p Preset) (tools []Tool, missing []string) {
	want := make(map[string]bool, len(p.Tools))
	for _, id := range p.Tools {
		want[id] = true
	}
	found := make(map[string]bool, len(p.Tools))
	for _, t := range c.Tools {
		if want[t.ID] {
			tools = append(tools, t)
			found[t.ID] = true
		}
	}
	for _, id := range p.Tools {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return tools, missing
}

// Slugify derives a tool id from a display or package name: lowercase, with
// every character outside [a-z0-9] replaced by a hyphen.
func Slugify(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}
