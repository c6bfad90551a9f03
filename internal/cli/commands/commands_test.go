package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackcart/stackcart/internal/api"
	"github.com/stackcart/stackcart/internal/app"
	"github.com/stackcart/stackcart/internal/cli/client"
	clierrors "github.com/stackcart/stackcart/internal/cli/errors"
	"github.com/stackcart/stackcart/internal/domain/catalog"
	"github.com/stackcart/stackcart/internal/domain/credentials"
	"github.com/stackcart/stackcart/internal/domain/search"
	"github.com/stackcart/stackcart/internal/domain/settings"
)

type npmStub struct{}

func (npmStub) FetchRemote(ctx context.Context, query string) []search.SearchResult {
	return []search.SearchResult{{Name: "left-pad", Description: "String left pad", Version: "1.3.0", Downloads: 2500000, Category: "utilities"}}
}

type memoryStore map[string]string

func (m memoryStore) GetSecret(id string) (string, error) {
	s, ok := m[id]
	if !ok {
		return "", errors.New("not found")
	}
	return s, nil
}

func (m memoryStore) SetSecret(id, secret string) error {
	m[id] = secret
	return nil
}

func (m memoryStore) RemoveSecret(id string) error {
	delete(m, id)
	return nil
}

func resetFlags() {
	serverURL = client.DefaultServer
	session = "default"
	jsonOutput, rawOutput, markdownOutput = false, false, false
	noColor, directMode = true, false
	timeout = 5000
	categoryFilter = ""
	addNpm = false
	section = ""
	bundleTools = nil
	bundlePreset = ""
	exportFormat = ""
	exportOut = ""
	tokenRegistry = ""
	printOnExit = true
}

func setup(t *testing.T) *httptest.Server {
	t.Helper()
	t.Setenv("STACKCART_CONFIG_DIR", t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	sm := api.NewSessionManager(ctx, catalog.Default(), npmStub{}, 0, nil, nil)
	srv := httptest.NewServer(api.NewControlServer(nil, sm, settings.DefaultSettings()))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})

	origEnv := loadEnv
	loadEnv = func() (*app.Env, error) {
		cfg := settings.DefaultSettings()
		return &app.Env{
			AppDir:  settings.AppDir(),
			Config:  settings.Config{Settings: cfg},
			Catalog: catalog.Default(),
			Remote:  npmStub{},
		}, nil
	}
	t.Cleanup(func() { loadEnv = origEnv })
	return srv
}

func runCLI(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(""))
	full := append([]string{"--server", srv.URL}, args...)
	rootCmd.SetArgs(full)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestStatusCommand(t *testing.T) {
	srv := setup(t)

	out, err := runCLI(t, srv, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:")
	assert.Contains(t, out, "Sessions: 1")

	out, err = runCLI(t, srv, "--json", "status")
	require.NoError(t, err)
	var status client.Status
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.True(t, status.Running)
}

func TestCatalogCommand(t *testing.T) {
	srv := setup(t)

	out, err := runCLI(t, srv, "catalog", "--category", "devtools")
	require.NoError(t, err)
	assert.Contains(t, out, "vitest")
	assert.NotContains(t, out, "zustand")

	_, err = runCLI(t, srv, "catalog", "--category", "nope")
	assert.Error(t, err)

	out, err = runCLI(t, srv, "presets")
	require.NoError(t, err)
	assert.Contains(t, out, "react-spa")
}

func TestCatalogCommandFallsBackToCache(t *testing.T) {
	srv := setup(t)

	_, err := runCLI(t, srv, "catalog")
	require.NoError(t, err)

	srv.Close()
	out, err := runCLI(t, srv, "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "tailwindcss")
}

func TestStackCommands(t *testing.T) {
	srv := setup(t)

	out, err := runCLI(t, srv, "add", "react", "vitest")
	require.NoError(t, err)
	assert.Contains(t, out, "Added React")

	out, err = runCLI(t, srv, "add", "react")
	require.NoError(t, err)
	assert.Contains(t, out, "Already selected")

	_, err = runCLI(t, srv, "add", "--npm", "left-pad")
	require.NoError(t, err)

	out, err = runCLI(t, srv, "--json", "stack")
	require.NoError(t, err)
	var tools []catalog.Tool
	require.NoError(t, json.Unmarshal([]byte(out), &tools))
	require.Len(t, tools, 3)
	assert.Equal(t, []string{"react", "vitest", "left-pad"}, []string{tools[0].ID, tools[1].ID, tools[2].ID})

	out, err = runCLI(t, srv, "remove", "vitest")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed vitest")

	out, err = runCLI(t, srv, "toggle", "react")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed")

	out, err = runCLI(t, srv, "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Stack cleared")

	out, err = runCLI(t, srv, "stack")
	require.NoError(t, err)
	assert.Contains(t, out, "Stack is empty")
}

func TestAddUnknownTool(t *testing.T) {
	srv := setup(t)

	_, err := runCLI(t, srv, "add", "nope")
	require.Error(t, err)
	assert.Equal(t, clierrors.ErrorKindNotFound, clierrors.Classify(err).Kind)
}

func TestDirectModeRejectsMutations(t *testing.T) {
	srv := setup(t)

	_, err := runCLI(t, srv, "--direct", "add", "react")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--direct")
}

func TestPresetCommand(t *testing.T) {
	srv := setup(t)

	out, err := runCLI(t, srv, "preset", "react-spa")
	require.NoError(t, err)
	assert.Contains(t, out, "Applied preset react-spa")

	_, err = runCLI(t, srv, "preset", "nope")
	assert.Error(t, err)
}

func TestCommandsCommand(t *testing.T) {
	srv := setup(t)

	out, err := runCLI(t, srv, "commands")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing selected")

	_, err = runCLI(t, srv, "add", "react", "vitest")
	require.NoError(t, err)

	out, err = runCLI(t, srv, "commands", "--section", "deps")
	require.NoError(t, err)
	assert.Equal(t, "npm install react react-dom", strings.TrimSpace(out))

	out, err = runCLI(t, srv, "--raw", "commands")
	require.NoError(t, err)
	assert.Contains(t, out, "npm install -D vitest")
	assert.NotContains(t, out, "##")

	_, err = runCLI(t, srv, "commands", "--section", "bogus")
	assert.Error(t, err)
}

func TestCommandsCommandLocalTools(t *testing.T) {
	srv := setup(t)

	out, err := runCLI(t, srv, "--direct", "commands", "--tools", "vitest,react", "--section", "docs")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Vitest: "))
	assert.True(t, strings.HasPrefix(lines[1], "React: "))

	_, err = runCLI(t, srv, "--direct", "commands")
	assert.Error(t, err)
}

func TestCopyCommand(t *testing.T) {
	srv := setup(t)

	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { writeClipboard = orig })

	_, err := runCLI(t, srv, "copy")
	assert.Error(t, err, "empty stack has nothing to copy")

	_, err = runCLI(t, srv, "add", "react")
	require.NoError(t, err)

	out, err := runCLI(t, srv, "copy", "--section", "deps")
	require.NoError(t, err)
	assert.Equal(t, "npm install react react-dom", copied)
	assert.Contains(t, out, "Copied deps")
}

func TestExportCommand(t *testing.T) {
	srv := setup(t)
	_, err := runCLI(t, srv, "add", "react")
	require.NoError(t, err)

	out, err := runCLI(t, srv, "export")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "#!"))

	path := filepath.Join(t.TempDir(), "stack.json")
	_, err = runCLI(t, srv, "export", "--format", "json", "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"react"`)

	script := filepath.Join(t.TempDir(), "setup.sh")
	_, err = runCLI(t, srv, "export", "-o", script)
	require.NoError(t, err)
	info, err := os.Stat(script)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0100)

	// Format follows the output extension when --format is omitted.
	doc := filepath.Join(t.TempDir(), "stack.md")
	_, err = runCLI(t, srv, "export", "-o", doc)
	require.NoError(t, err)
	data, err = os.ReadFile(doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "#"))
	assert.False(t, strings.HasPrefix(string(data), "#!"))
}

func TestExportCommandDirect(t *testing.T) {
	srv := setup(t)

	path := filepath.Join(t.TempDir(), "out", "stack.yaml")
	_, err := runCLI(t, srv, "--direct", "export", "--tools", "react,eslint", "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "eslint")

	_, err = runCLI(t, srv, "--direct", "export")
	require.Error(t, err)
}

func TestSearchCommand(t *testing.T) {
	srv := setup(t)

	out, err := runCLI(t, srv, "--json", "search", "react")
	require.NoError(t, err)
	var results []client.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.NotEmpty(t, results)
	assert.True(t, results[0].IsLocal)
	assert.Equal(t, "left-pad", results[len(results)-1].Name)

	out, err = runCLI(t, srv, "--direct", "search", "left")
	require.NoError(t, err)
	assert.Contains(t, out, "left-pad")
}

func TestSessionCommands(t *testing.T) {
	srv := setup(t)

	out, err := runCLI(t, srv, "session", "new")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	_, err = runCLI(t, srv, "--session", id, "add", "zod")
	require.NoError(t, err)

	out, err = runCLI(t, srv, "--json", "session", "list")
	require.NoError(t, err)
	var sessions []client.SessionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &sessions))
	require.Len(t, sessions, 2)

	out, err = runCLI(t, srv, "stack")
	require.NoError(t, err)
	assert.Contains(t, out, "Stack is empty", "default session is untouched")

	_, err = runCLI(t, srv, "session", "delete", id)
	require.NoError(t, err)
	_, err = runCLI(t, srv, "session", "delete", "default")
	assert.Error(t, err)
}

func TestTokenCommands(t *testing.T) {
	srv := setup(t)
	t.Setenv("NPM_TOKEN", "")

	store := memoryStore{}
	orig := newCredentials
	newCredentials = func() *credentials.CredentialManager {
		return credentials.NewCredentialManager(store)
	}
	t.Cleanup(func() { newCredentials = orig })

	out, err := runCLI(t, srv, "token", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "no token")

	out, err = runCLI(t, srv, "token", "set", "npm_abc")
	require.NoError(t, err)
	assert.Contains(t, out, "Token stored")
	assert.Len(t, store, 1)

	out, err = runCLI(t, srv, "token", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "keychain")

	t.Setenv("NPM_TOKEN", "from-env")
	out, err = runCLI(t, srv, "token", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "$NPM_TOKEN")

	_, err = runCLI(t, srv, "token", "delete")
	require.NoError(t, err)
	assert.Empty(t, store)

	_, err = runCLI(t, srv, "token", "set")
	assert.Error(t, err, "empty stdin")
}

func TestKnownCommands(t *testing.T) {
	known := knownCommands()
	for _, name := range []string{"add", "search", "find", "commands", "bundle", "tui", "help"} {
		assert.Contains(t, known, name)
	}
}
