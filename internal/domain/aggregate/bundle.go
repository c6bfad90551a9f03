// Package aggregate derives grouped command, setup and docs text from a
// selection of tools.
package aggregate

import (
	"strings"

	"github.com/stackcart/stackcart/internal/domain/catalog"
)

const (
	installPrefix    = "npm install "
	devInstallPrefix = "npm install -D "
)

// SetupSection is one tool's setup steps.
type SetupSection struct {
	Tool  string   `json:"tool" yaml:"tool" toml:"tool"`
	Steps []string `json:"steps" yaml:"steps" toml:"steps"`
}

// DocLink pairs a tool name with its documentation URL.
type DocLink struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	URL  string `json:"url" yaml:"url" toml:"url"`
}

// CommandBundle is the aggregated output for a selection. Dependencies and
// DevDependencies are single consolidated commands, empty when nothing
// contributes to them. Other holds install commands of no recognized shape.
type CommandBundle struct {
	Init            []string       `json:"init" yaml:"init" toml:"init"`
	Dependencies    string         `json:"dependencies" yaml:"dependencies" toml:"dependencies"`
	DevDependencies string         `json:"devDependencies" yaml:"devDependencies" toml:"devDependencies"`
	Setup           []SetupSection `json:"setup" yaml:"setup" toml:"setup"`
	Docs            []DocLink      `json:"docs" yaml:"docs" toml:"docs"`
	Other           []string       `json:"other,omitempty" yaml:"other,omitempty" toml:"other,omitempty"`
}

// Aggregate maps a selection to its CommandBundle. The result depends only on
// the tools and their order.
func Aggregate(tools []catalog.Tool) CommandBundle {
	b := CommandBundle{
		Init:  []string{},
		Setup: []SetupSection{},
		Docs:  []DocLink{},
	}

	deps := newSpecList()
	dev := newSpecList()

	for _, t := range tools {
		ic := catalog.ParseInstallCommand(t.InstallCommand)
		if ic.Init {
			b.Init = append(b.Init, strings.TrimSpace(t.InstallCommand))
		}
		deps.add(ic.Packages)
		dev.add(ic.DevPackages)
		if !ic.Recognized() && strings.TrimSpace(t.InstallCommand) != "" {
			b.Other = append(b.Other, strings.TrimSpace(t.InstallCommand))
		}

		if len(t.SetupSteps) > 0 {
			steps := make([]string, len(t.SetupSteps))
			copy(steps, t.SetupSteps)
			b.Setup = append(b.Setup, SetupSection{Tool: t.Name, Steps: steps})
		}

		b.Docs = append(b.Docs, DocLink{Name: t.Name, URL: t.DocsURL})
	}

	if len(deps.specs) > 0 {
		b.Dependencies = installPrefix + strings.Join(deps.specs, " ")
	}
	if len(dev.specs) > 0 {
		b.DevDependencies = devInstallPrefix + strings.Join(dev.specs, " ")
	}
	return b
}

// Empty reports whether the bundle was built from an empty selection.
func (b CommandBundle) Empty() bool {
	return len(b.Docs) == 0
}

// specList keeps package specifiers in first-seen order without repeats.
type specList struct {
	specs []string
	seen  map[string]bool
}

func newSpecList() *specList {
	return &specList{seen: make(map[string]bool)}
}

func (l *specList) add(specs []string) {
	for _, s := range specs {
		if l.seen[s] {
			continue
		}
		l.seen[s] = true
		l.specs = append(l.specs, s)
	}
}
