package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/stackcart/stackcart/internal/cli/client"
	"github.com/stackcart/stackcart/internal/cli/errors"
	"github.com/stackcart/stackcart/internal/domain/catalog"
	"github.com/stackcart/stackcart/internal/domain/search"
)

type OutputFormat string

const (
	FormatText     OutputFormat = "text"
	FormatJSON     OutputFormat = "json"
	FormatRaw      OutputFormat = "raw"
	FormatMarkdown OutputFormat = "markdown"
)

type Formatter struct {
	format OutputFormat
	color  bool
	out    io.Writer
}

func NewFormatter(format OutputFormat, useColor bool) *Formatter {
	return &Formatter{
		format: format,
		color:  useColor,
		out:    os.Stdout,
	}
}

// SetOutput redirects tables and JSON written by the formatter.
func (f *Formatter) SetOutput(w io.Writer) {
	f.out = w
}

func (f *Formatter) FormatResult(result *BundleResult) string {
	if f.format == FormatJSON {
		s, _ := result.JSON()
		return s
	}
	if f.format == FormatMarkdown {
		return result.Markdown()
	}
	if f.format == FormatRaw {
		return result.Raw()
	}

	// Default text format
	if result.Empty() {
		return f.paint(color.YellowString, "Nothing selected yet. Add tools with 'stackcart-cli add <id>'.")
	}
	return result.Text()
}

func (f *Formatter) FormatError(err errors.ClassifiedError) string {
	if f.format == FormatJSON {
		data, _ := json.MarshalIndent(err, "", "  ")
		return string(data)
	}

	var msg string
	if f.color {
		msg = color.RedString("Error [%s]: %s", err.Kind, err.Message)
		if err.Hint != "" {
			msg += "\n" + color.YellowString("Hint: %s", err.Hint)
		}
	} else {
		msg = fmt.Sprintf("Error [%s]: %s", err.Kind, err.Message)
		if err.Hint != "" {
			msg += "\nHint: " + err.Hint
		}
	}
	return msg
}

// FormatTools renders tools as a table; ids in selected are marked.
func (f *Formatter) FormatTools(tools []catalog.Tool, c *catalog.Catalog, selected map[string]bool) string {
	if f.format == FormatJSON {
		return f.json(tools)
	}

	table := tablewriter.NewTable(f.out,
		tablewriter.WithHeader([]string{"", "ID", "Name", "Category", "Install"}),
	)
	for _, t := range tools {
		mark := ""
		if selected[t.ID] {
			mark = "✓"
		}
		category := t.Category
		if c != nil {
			icon := catalog.IconFor(t.Category)
			if cat, ok := c.Category(t.Category); ok && cat.Icon != "" {
				icon = cat.Icon
			}
			category = icon.Glyph() + " " + c.CategoryName(t.Category)
		}
		table.Append([]string{mark, t.ID, t.Name, category, t.InstallCommand})
	}
	table.Render()
	return ""
}

func (f *Formatter) FormatResults(query string, results []client.Result) string {
	if f.format == FormatJSON {
		return f.json(results)
	}
	if len(results) == 0 {
		return f.paint(color.YellowString, fmt.Sprintf("No tools match %q.", query))
	}

	table := tablewriter.NewTable(f.out,
		tablewriter.WithHeader([]string{"", "Name", "Source", "Version", "Downloads", "Description"}),
	)
	for _, r := range results {
		mark := ""
		if r.Selected {
			mark = "✓"
		}
		source := "npm"
		if r.IsLocal {
			source = "catalog"
		}
		downloads := r.DownloadsDisplay
		if downloads == "" {
			downloads = search.FormatDownloads(r.Downloads)
		}
		table.Append([]string{mark, r.Name, source, r.Version, downloads, truncate(r.Description, 60)})
	}
	table.Render()
	return ""
}

func (f *Formatter) FormatPresets(presets []client.Preset) string {
	if f.format == FormatJSON {
		return f.json(presets)
	}

	table := tablewriter.NewTable(f.out,
		tablewriter.WithHeader([]string{"ID", "Name", "Tools", "Description"}),
	)
	for _, p := range presets {
		tools := strings.Join(p.Tools, ", ")
		if len(p.Missing) > 0 {
			tools += f.paint(color.YellowString, fmt.Sprintf(" (unknown: %s)", strings.Join(p.Missing, ", ")))
		}
		table.Append([]string{p.ID, p.Name, tools, p.Description})
	}
	table.Render()
	return ""
}

func (f *Formatter) FormatSessions(sessions []client.SessionInfo, current string) string {
	if f.format == FormatJSON {
		return f.json(sessions)
	}

	table := tablewriter.NewTable(f.out,
		tablewriter.WithHeader([]string{"", "ID", "Tools", "Created", "Last Used"}),
	)
	for _, s := range sessions {
		mark := ""
		if s.ID == current {
			mark = "*"
		}
		table.Append([]string{
			mark, s.ID, strconv.Itoa(s.Tools),
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
			s.LastUsed.Local().Format("2006-01-02 15:04"),
		})
	}
	table.Render()
	return ""
}

// FormatChange describes a selection mutation in one line.
func (f *Formatter) FormatChange(verb string, change *client.StackChange) string {
	if f.format == FormatJSON {
		return f.json(change)
	}
	return fmt.Sprintf("%s %s (%d selected)", f.paint(color.GreenString, verb), change.Tool.Name, len(change.Tools))
}

// JSON renders v indented.
func (f *Formatter) JSON(v interface{}) string {
	return f.json(v)
}

func (f *Formatter) json(v interface{}) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data)
}

func (f *Formatter) paint(fn func(string, ...interface{}) string, s string) string {
	if !f.color {
		return s
	}
	return fn("%s", s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
