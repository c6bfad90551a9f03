package aggregate

import (
	"fmt"
	"strings"
)

// Section names accepted by Section.
const (
	SectionAll      = "all"
	SectionCommands = "commands"
	SectionInit     = "init"
	SectionDeps     = "deps"
	SectionDev      = "dev"
	SectionSetup    = "setup"
	SectionDocs     = "docs"
)

// Sections lists the valid section names in display order.
var Sections = []string{SectionAll, SectionCommands, SectionInit, SectionDeps, SectionDev, SectionSetup, SectionDocs}

// InitText returns the init commands, one per line.
func (b CommandBundle) InitText() string {
	return strings.Join(b.Init, "\n")
}

// CommandsText returns every runnable line: init commands, the dependency
// command, the dev dependency command, then unrecognized commands.
func (b CommandBundle) CommandsText() string {
	var lines []string
	lines = append(lines, b.Init...)
	if b.Dependencies != "" {
		lines = append(lines, b.Dependencies)
	}
	if b.DevDependencies != "" {
		lines = append(lines, b.DevDependencies)
	}
	lines = append(lines, b.Other...)
	return strings.Join(lines, "\n")
}

// SetupText renders each section as a "# Name" header, its steps, and a
// blank separator line.
func (b CommandBundle) SetupText() string {
	var lines []string
	for _, s := range b.Setup {
		lines = append(lines, "# "+s.Tool)
		lines = append(lines, s.Steps...)
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// DocsText renders one "Name: url" line per tool.
func (b CommandBundle) DocsText() string {
	lines := make([]string, len(b.Docs))
	for i, d := range b.Docs {
		lines[i] = d.Name + ": " + d.URL
	}
	return strings.Join(lines, "\n")
}

// Text renders the non-empty groups under titled headings.
func (b CommandBundle) Text() string {
	var blocks []string
	add := func(title, body string) {
		body = strings.TrimRight(body, "\n")
		if body == "" {
			return
		}
		blocks = append(blocks, "## "+title+"\n"+body)
	}
	add("Initialize", b.InitText())
	add("Dependencies", b.Dependencies)
	add("Dev Dependencies", b.DevDependencies)
	add("Other Commands", strings.Join(b.Other, "\n"))
	add("Setup Steps", b.SetupText())
	add("Documentation", b.DocsText())
	return strings.Join(blocks, "\n\n")
}

// Section returns the text of one named group.
func (b CommandBundle) Section(name string) (string, error) {
	switch name {
	case SectionAll, "":
		return b.Text(), nil
	case SectionCommands:
		return b.CommandsText(), nil
	case SectionInit:
		return b.InitText(), nil
	case SectionDeps:
		return b.Dependencies, nil
	case SectionDev:
		return b.DevDependencies, nil
	case SectionSetup:
		return b.SetupText(), nil
	case SectionDocs:
		return b.DocsText(), nil
	default:
		return "", fmt.Errorf("unknown section %q (valid: %s)", name, strings.Join(Sections, ", "))
	}
}
