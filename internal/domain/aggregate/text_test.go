package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackcart/stackcart/internal/domain/catalog"
)

func sampleBundle() CommandBundle {
	return Aggregate([]catalog.Tool{
		{ID: "vite", Name: "Vite", InstallCommand: "npm create vite@latest", DocsURL: "https://vite.dev"},
		{ID: "zod", Name: "Zod", InstallCommand: "npm install zod", DocsURL: "https://zod.dev"},
		{ID: "eslint", Name: "ESLint", InstallCommand: "npm install -D eslint", DocsURL: "https://eslint.org", SetupSteps: []string{"Run npm init @eslint/config@latest"}},
		{ID: "ts", Name: "TypeScript", InstallCommand: "npm install -D typescript", DocsURL: "https://ts.dev", SetupSteps: []string{"Run npx tsc --init", "Enable strict mode"}},
	})
}

func TestSetupText(t *testing.T) {
	want := "# ESLint\nRun npm init @eslint/config@latest\n\n# TypeScript\nRun npx tsc --init\nEnable strict mode\n"
	assert.Equal(t, want, sampleBundle().SetupText())
}

func TestDocsText(t *testing.T) {
	want := "Vite: https://vite.dev\nZod: https://zod.dev\nESLint: https://eslint.org\nTypeScript: https://ts.dev"
	assert.Equal(t, want, sampleBundle().DocsText())
}

func TestCommandsText(t *testing.T) {
	want := "npm create vite@latest\nnpm install zod\nnpm install -D eslint typescript"
	assert.Equal(t, want, sampleBundle().CommandsText())
}

func TestText(t *testing.T) {
	text := sampleBundle().Text()

	assert.Contains(t, text, "## Initialize\nnpm create vite@latest")
	assert.Contains(t, text, "## Dependencies\nnpm install zod")
	assert.Contains(t, text, "## Dev Dependencies\nnpm install -D eslint typescript")
	assert.Contains(t, text, "## Setup Steps\n# ESLint")
	assert.Contains(t, text, "## Documentation\nVite: https://vite.dev")
	assert.NotContains(t, text, "Other Commands")
}

func TestSection(t *testing.T) {
	b := sampleBundle()
	tests := []struct {
		name string
		want string
	}{
		{SectionInit, "npm create vite@latest"},
		{SectionDeps, "npm install zod"},
		{SectionDev, "npm install -D eslint typescript"},
		{SectionDocs, b.DocsText()},
		{SectionSetup, b.SetupText()},
		{SectionAll, b.Text()},
		{"", b.Text()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.Section(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := b.Section("bogus")
	assert.Error(t, err)
}
