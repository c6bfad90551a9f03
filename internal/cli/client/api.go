package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stackcart/stackcart/internal/domain/aggregate"
	"github.com/stackcart/stackcart/internal/domain/catalog"
	"github.com/stackcart/stackcart/internal/domain/search"
)

// DefaultServer is where the daemon listens unless configured otherwise.
const DefaultServer = "http://localhost:6300"

type ControlClient struct {
	baseURL string
	session string
	client  *http.Client
	timeout time.Duration
}

func NewControlClient(baseURL, session string, timeout time.Duration) *ControlClient {
	if baseURL == "" {
		baseURL = DefaultServer
	}
	if session == "" {
		session = "default"
	}
	return &ControlClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Session returns the session the client operates on.
func (c *ControlClient) Session() string {
	return c.session
}

type Status struct {
	Running       bool   `json:"running"`
	Version       string `json:"version"`
	Uptime        string `json:"uptime"`
	Sessions      int    `json:"sessions"`
	RemoteSearch  bool   `json:"remote_search"`
	RegistryURL   string `json:"registry_url"`
	ControlPort   int    `json:"control_port"`
	CatalogTools  int    `json:"catalog_tools"`
	CatalogGroups int    `json:"catalog_groups"`
	Presets       int    `json:"presets"`
}

func (c *ControlClient) GetStatus() (*Status, error) {
	var status Status
	err := c.get("/api/status", &status)
	return &status, err
}

func (c *ControlClient) GetCatalog() (*catalog.Catalog, error) {
	var cat catalog.Catalog
	err := c.get("/api/catalog", &cat)
	return &cat, err
}

// Preset is a catalog preset with the ids the daemon could not resolve.
type Preset struct {
	catalog.Preset
	Missing []string `json:"missing,omitempty"`
}

func (c *ControlClient) ListPresets() ([]Preset, error) {
	var resp struct {
		Presets []Preset `json:"presets"`
	}
	err := c.get("/api/presets", &resp)
	return resp.Presets, err
}

type SessionInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used"`
	Tools     int       `json:"tools"`
}

func (c *ControlClient) ListSessions() ([]SessionInfo, error) {
	var resp struct {
		Sessions []SessionInfo `json:"sessions"`
	}
	err := c.get("/api/sessions", &resp)
	return resp.Sessions, err
}

func (c *ControlClient) CreateSession() (*SessionInfo, error) {
	var info SessionInfo
	err := c.send("POST", "/api/sessions", nil, &info)
	return &info, err
}

func (c *ControlClient) DeleteSession(id string) error {
	return c.send("DELETE", "/api/sessions?id="+url.QueryEscape(id), nil, nil)
}

// Result is a search hit as listed by the daemon.
type Result struct {
	search.SearchResult
	Selected         bool   `json:"selected"`
	DownloadsDisplay string `json:"downloads_display,omitempty"`
}

type SearchResponse struct {
	Query      string   `json:"query"`
	Results    []Result `json:"results"`
	Superseded bool     `json:"superseded"`
}

func (c *ControlClient) Search(query string) (*SearchResponse, error) {
	var resp SearchResponse
	err := c.get(c.sessionPath("search")+"?q="+url.QueryEscape(query), &resp)
	return &resp, err
}

func (c *ControlClient) GetStack() ([]catalog.Tool, error) {
	var resp struct {
		Tools []catalog.Tool `json:"tools"`
	}
	err := c.get(c.sessionPath("stack"), &resp)
	return resp.Tools, err
}

// StackChange is the daemon's answer to a selection mutation.
type StackChange struct {
	Added    bool           `json:"added"`
	Removed  bool           `json:"removed"`
	Selected bool           `json:"selected"`
	Tool     catalog.Tool   `json:"tool"`
	Tools    []catalog.Tool `json:"tools"`
	Missing  []string       `json:"missing,omitempty"`
}

func (c *ControlClient) AddTool(toolID string) (*StackChange, error) {
	var resp StackChange
	err := c.send("POST", c.sessionPath("stack"), map[string]string{"tool_id": toolID}, &resp)
	return &resp, err
}

// AddResult selects a search hit that is not in the catalog.
func (c *ControlClient) AddResult(r search.SearchResult) (*StackChange, error) {
	var resp StackChange
	err := c.send("POST", c.sessionPath("stack"), map[string]interface{}{"result": r}, &resp)
	return &resp, err
}

func (c *ControlClient) RemoveTool(toolID string) (*StackChange, error) {
	var resp StackChange
	err := c.send("DELETE", c.sessionPath("stack")+"?tool="+url.QueryEscape(toolID), nil, &resp)
	return &resp, err
}

func (c *ControlClient) ToggleTool(toolID string) (*StackChange, error) {
	var resp StackChange
	err := c.send("POST", c.sessionPath("toggle"), map[string]string{"tool_id": toolID}, &resp)
	return &resp, err
}

func (c *ControlClient) ClearStack() error {
	return c.send("POST", c.sessionPath("clear"), nil, nil)
}

func (c *ControlClient) ApplyPreset(presetID string) (*StackChange, error) {
	var resp StackChange
	err := c.send("POST", c.sessionPath("preset"), map[string]string{"preset_id": presetID}, &resp)
	return &resp, err
}

func (c *ControlClient) GetBundle() (*aggregate.CommandBundle, error) {
	var resp struct {
		Bundle aggregate.CommandBundle `json:"bundle"`
	}
	err := c.get(c.sessionPath("bundle"), &resp)
	return &resp.Bundle, err
}

// Export downloads the stack rendered in format.
func (c *ControlClient) Export(format string) ([]byte, error) {
	resp, err := c.do("GET", c.sessionPath("export")+"?format="+url.QueryEscape(format), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (c *ControlClient) sessionPath(action string) string {
	return fmt.Sprintf("/api/sessions/%s/%s", url.PathEscape(c.session), action)
}

func (c *ControlClient) get(path string, v interface{}) error {
	return c.send("GET", path, nil, v)
}

func (c *ControlClient) send(method, path string, body interface{}, v interface{}) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if v != nil && resp.StatusCode != http.StatusNoContent {
		return json.NewDecoder(resp.Body).Decode(v)
	}
	return nil
}

func (c *ControlClient) do(method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{Code: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}
	return resp, nil
}

// StatusError is a non-2xx answer from the daemon.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status code: %d", e.Code)
	}
	return fmt.Sprintf("unexpected status code: %d: %s", e.Code, e.Message)
}
