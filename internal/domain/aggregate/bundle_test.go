package aggregate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackcart/stackcart/internal/domain/catalog"
)

func TestAggregate_DedupJoin(t *testing.T) {
	tools := []catalog.Tool{
		{ID: "a", Name: "A", InstallCommand: "npm install -D eslint"},
		{ID: "b", Name: "B", InstallCommand: "npm install react"},
	}

	b := Aggregate(tools)
	assert.Equal(t, "npm install react", b.Dependencies)
	assert.Equal(t, "npm install -D eslint", b.DevDependencies)
	assert.Empty(t, b.Init)
}

func TestAggregate_Groups(t *testing.T) {
	tools := []catalog.Tool{
		{ID: "nextjs", Name: "Next.js", InstallCommand: "npx create-next-app@latest", DocsURL: "https://nextjs.org/docs"},
		{ID: "react", Name: "React", InstallCommand: "npm install react react-dom", DocsURL: "https://react.dev"},
		{ID: "ts", Name: "TypeScript", InstallCommand: "npm install -D typescript @types/node", DocsURL: "https://ts.dev", SetupSteps: []string{"Run npx tsc --init"}},
		{ID: "husky", Name: "Husky", InstallCommand: "npm install --save-dev husky", DocsURL: "https://husky.dev", SetupSteps: []string{"Run npx husky init"}},
		{ID: "zod", Name: "Zod", InstallCommand: "npm i zod", DocsURL: "https://zod.dev"},
		{ID: "vite", Name: "Vite", InstallCommand: "npm create vite@latest", DocsURL: "https://vite.dev"},
		{ID: "py", Name: "Black", InstallCommand: "pip install black", DocsURL: "https://black.dev"},
	}

	want := CommandBundle{
		Init:            []string{"npx create-next-app@latest", "npm create vite@latest"},
		Dependencies:    "npm install react react-dom zod",
		DevDependencies: "npm install -D typescript @types/node husky",
		Setup: []SetupSection{
			{Tool: "TypeScript", Steps: []string{"Run npx tsc --init"}},
			{Tool: "Husky", Steps: []string{"Run npx husky init"}},
		},
		Docs: []DocLink{
			{"Next.js", "https://nextjs.org/docs"},
			{"React", "https://react.dev"},
			{"TypeScript", "https://ts.dev"},
			{"Husky", "https://husky.dev"},
			{"Zod", "https://zod.dev"},
			{"Vite", "https://vite.dev"},
			{"Black", "https://black.dev"},
		},
		Other: []string{"pip install black"},
	}

	if diff := cmp.Diff(want, Aggregate(tools)); diff != "" {
		t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_GroupsOverlap(t *testing.T) {
	tools := []catalog.Tool{
		{ID: "combo", Name: "Combo", InstallCommand: "npm create vite@latest && npm install -D tailwindcss", DocsURL: "https://x.dev"},
	}

	b := Aggregate(tools)
	assert.Equal(t, []string{"npm create vite@latest && npm install -D tailwindcss"}, b.Init)
	assert.Equal(t, "npm install -D tailwindcss", b.DevDependencies)
	assert.Len(t, b.Docs, 1)
}

func TestAggregate_RepeatedSpecifierEmittedOnce(t *testing.T) {
	tools := []catalog.Tool{
		{ID: "react", Name: "React", InstallCommand: "npm install react react-dom"},
		{ID: "react-only", Name: "React Only", InstallCommand: "npm install react"},
	}

	assert.Equal(t, "npm install react react-dom", Aggregate(tools).Dependencies)
}

func TestAggregate_Empty(t *testing.T) {
	b := Aggregate(nil)
	assert.True(t, b.Empty())
	assert.Equal(t, "", b.Dependencies)
	assert.Equal(t, "", b.Text())
	assert.NotNil(t, b.Init)
	assert.NotNil(t, b.Docs)
}

func TestAggregate_Deterministic(t *testing.T) {
	c := catalog.Default()
	p, ok := c.Preset("saas-starter")
	require.True(t, ok)
	tools, _ := c.PresetTools(p)

	first := Aggregate(tools)
	second := Aggregate(tools)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Aggregate() not deterministic:\n%s", diff)
	}
	assert.Equal(t, first.Text(), second.Text())
}

func TestAggregate_DoesNotAliasSetupSteps(t *testing.T) {
	tools := []catalog.Tool{{ID: "a", Name: "A", InstallCommand: "npm install a", SetupSteps: []string{"one"}}}

	b := Aggregate(tools)
	b.Setup[0].Steps[0] = "changed"

	assert.Equal(t, "one", tools[0].SetupSteps[0])
}
