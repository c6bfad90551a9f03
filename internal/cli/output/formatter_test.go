package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackcart/stackcart/internal/cli/client"
	clierrors "github.com/stackcart/stackcart/internal/cli/errors"
	"github.com/stackcart/stackcart/internal/domain/aggregate"
	"github.com/stackcart/stackcart/internal/domain/catalog"
	"github.com/stackcart/stackcart/internal/domain/search"
)

func sampleBundle(t *testing.T) aggregate.CommandBundle {
	t.Helper()
	c := catalog.Default()
	var tools []catalog.Tool
	for _, id := range []string{"vite", "react", "vitest"} {
		tool, ok := c.Tool(id)
		require.True(t, ok)
		tools = append(tools, tool)
	}
	return aggregate.Aggregate(tools)
}

func TestFormatResultModes(t *testing.T) {
	b := sampleBundle(t)
	result := NewBundleResult(b, "")

	text := NewFormatter(FormatText, false).FormatResult(result)
	assert.Equal(t, b.Text(), text)

	raw := NewFormatter(FormatRaw, false).FormatResult(result)
	assert.Equal(t, b.CommandsText(), raw)
	assert.NotContains(t, raw, "##")

	md := NewFormatter(FormatMarkdown, false).FormatResult(result)
	assert.Contains(t, md, "```sh")
	assert.Contains(t, md, "- [React](")

	js := NewFormatter(FormatJSON, false).FormatResult(result)
	var decoded aggregate.CommandBundle
	require.NoError(t, json.Unmarshal([]byte(js), &decoded))
	assert.Equal(t, b, decoded)

	docs := NewFormatter(FormatRaw, false).FormatResult(NewBundleResult(b, aggregate.SectionDocs))
	assert.Equal(t, b.DocsText(), docs)
}

func TestFormatResultEmpty(t *testing.T) {
	f := NewFormatter(FormatText, false)
	out := f.FormatResult(NewBundleResult(aggregate.Aggregate(nil), ""))
	assert.Contains(t, out, "Nothing selected")
}

func TestFormatError(t *testing.T) {
	err := clierrors.Classify(errors.New("connection refused"))

	plain := NewFormatter(FormatText, false).FormatError(err)
	assert.Contains(t, plain, "Error [offline]")
	assert.Contains(t, plain, "Hint:")

	js := NewFormatter(FormatJSON, false).FormatError(err)
	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(js), &decoded))
	assert.Equal(t, "offline", decoded["kind"])
}

func TestFormatTables(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatText, false)
	f.SetOutput(&buf)

	c := catalog.Default()
	f.FormatTools(c.ToolsInCategory("devtools"), c, map[string]bool{"vitest": true})
	assert.Contains(t, buf.String(), "vitest")
	assert.Contains(t, buf.String(), "✓")
	assert.Contains(t, buf.String(), "Dev Tools")

	buf.Reset()
	f.FormatResults("pad", []client.Result{{SearchResult: search.SearchResult{Name: "left-pad", Downloads: 2500000}}})
	assert.Contains(t, buf.String(), "2.5M")
	assert.Contains(t, buf.String(), "npm")

	buf.Reset()
	f.FormatPresets([]client.Preset{{Preset: catalog.Preset{ID: "mine", Name: "Mine", Tools: []string{"react", "ghost"}}, Missing: []string{"ghost"}}})
	assert.Contains(t, buf.String(), "unknown: ghost")

	assert.Contains(t, f.FormatResults("zzz", nil), `No tools match "zzz"`)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
