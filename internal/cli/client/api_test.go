package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControlClientRequests(t *testing.T) {
	var gotMethod, gotPath, gotQuery string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotQuery = r.Method, r.URL.Path, r.URL.RawQuery
		gotBody = nil
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&gotBody)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"added": true, "tools": [{"id": "react", "name": "React"}]}`))
	}))
	defer srv.Close()

	c := NewControlClient(srv.URL+"/", "work", time.Second)
	assert.Equal(t, "work", c.Session())

	change, err := c.AddTool("react")
	require.NoError(t, err)
	assert.True(t, change.Added)
	assert.Equal(t, "POST", gotMethod)
	assert.Equal(t, "/api/sessions/work/stack", gotPath)
	assert.Equal(t, "react", gotBody["tool_id"])

	_, err = c.RemoveTool("react dom")
	require.NoError(t, err)
	assert.Equal(t, "DELETE", gotMethod)
	assert.Equal(t, "tool=react+dom", gotQuery)

	_, err = c.Search("state mgmt")
	require.NoError(t, err)
	assert.Equal(t, "/api/sessions/work/search", gotPath)
	assert.Equal(t, "q=state+mgmt", gotQuery)

	_, err = c.ApplyPreset("react-spa")
	require.NoError(t, err)
	assert.Equal(t, "react-spa", gotBody["preset_id"])
}

func TestControlClientDefaults(t *testing.T) {
	c := NewControlClient("", "", 0)
	assert.Equal(t, DefaultServer, c.baseURL)
	assert.Equal(t, "default", c.Session())
}

func TestControlClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "preset not found: nope", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewControlClient(srv.URL, "", time.Second)
	_, err := c.ApplyPreset("nope")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Equal(t, "preset not found: nope", statusErr.Message)
	assert.Contains(t, err.Error(), "404")
}

func TestControlClientNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewControlClient(srv.URL, "", time.Second)
	assert.NoError(t, c.DeleteSession("abc"))
}

func TestControlClientExport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "format=md", r.URL.RawQuery)
		w.Write([]byte("# Stack\n"))
	}))
	defer srv.Close()

	data, err := NewControlClient(srv.URL, "", time.Second).Export("md")
	require.NoError(t, err)
	assert.Equal(t, "# Stack\n", string(data))
}
