package output

import (
	"encoding/json"
	"strings"

	"github.com/stackcart/stackcart/internal/domain/aggregate"
)

// BundleResult renders one section of a command bundle.
type BundleResult struct {
	Bundle  aggregate.CommandBundle
	Section string
}

func NewBundleResult(b aggregate.CommandBundle, section string) *BundleResult {
	return &BundleResult{
		Bundle:  b,
		Section: section,
	}
}

func (r *BundleResult) Empty() bool {
	return r.Bundle.Empty()
}

// Text is the section with its headings.
func (r *BundleResult) Text() string {
	s, err := r.Bundle.Section(r.Section)
	if err != nil {
		return err.Error()
	}
	return s
}

// Raw is the section without headings, ready to paste into a shell.
func (r *BundleResult) Raw() string {
	switch r.Section {
	case "", aggregate.SectionAll, aggregate.SectionCommands:
		return r.Bundle.CommandsText()
	default:
		return r.Text()
	}
}

func (r *BundleResult) JSON() (string, error) {
	data, err := json.MarshalIndent(r.Bundle, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (r *BundleResult) Markdown() string {
	var sb strings.Builder
	if cmds := r.Bundle.CommandsText(); cmds != "" {
		sb.WriteString("## Commands\n\n```sh\n")
		sb.WriteString(cmds)
		sb.WriteString("\n```\n\n")
	}
	if setup := r.Bundle.SetupText(); setup != "" {
		sb.WriteString("## Setup Steps\n\n")
		sb.WriteString(setup)
		sb.WriteString("\n\n")
	}
	if len(r.Bundle.Docs) > 0 {
		sb.WriteString("## Documentation\n\n")
		for _, d := range r.Bundle.Docs {
			sb.WriteString("- [" + d.Name + "](" + d.URL + ")\n")
		}
	}
	return strings.TrimSpace(sb.String())
}
