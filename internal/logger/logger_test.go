package logger

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func findEntry(entries []LogEntry, message string) (LogEntry, bool) {
	for _, e := range entries {
		if e.Message == message {
			return e, true
		}
	}
	return LogEntry{}, false
}

func TestL_RecordsIntoRing(t *testing.T) {
	require.NoError(t, ClearLogs())

	L().Named("search").Info("npm search failed", zap.String("query", "react"), zap.Int("status", 500))

	entry, ok := findEntry(GetLogs(), "npm search failed")
	require.True(t, ok)
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "search", entry.Logger)
	assert.Equal(t, "react", entry.Fields["query"])
	assert.NotEmpty(t, entry.Timestamp)
}

func TestL_DebugFollowsLevel(t *testing.T) {
	require.NoError(t, ClearLogs())
	require.NoError(t, SetLevel("info"))

	L().Debug("hidden debug line")
	_, ok := findEntry(GetLogs(), "hidden debug line")
	assert.False(t, ok)

	require.NoError(t, SetLevel("debug"))
	defer SetLevel("info")
	L().Debug("visible debug line")
	_, ok = findEntry(GetLogs(), "visible debug line")
	assert.True(t, ok)

	assert.Error(t, SetLevel("loud"))
}

func TestRedact(t *testing.T) {
	token := "npm_" + strings.Repeat("a1B2", 9)
	assert.Equal(t, "token npm_REDACTED used", Redact("token "+token+" used"))
	assert.Equal(t, "Authorization: Bearer REDACTED", Redact("Authorization: Bearer abc.def-123"))
	assert.Equal(t, "npm_short stays", Redact("npm_short stays"))
}

func TestL_RedactsFieldsAndMessage(t *testing.T) {
	require.NoError(t, ClearLogs())
	token := "npm_" + strings.Repeat("x9", 18)

	L().Warn("using "+token, zap.String("token", token))

	logs := GetLogs()
	require.NotEmpty(t, logs)
	last := logs[len(logs)-1]
	assert.Equal(t, "using npm_REDACTED", last.Message)
	assert.Equal(t, "npm_REDACTED", last.Fields["token"])
}

func TestRingIsBounded(t *testing.T) {
	require.NoError(t, ClearLogs())
	for i := 0; i < maxEntries+50; i++ {
		L().Info("line")
	}
	assert.Len(t, GetLogs(), maxEntries)
}

func TestSubscribe(t *testing.T) {
	ch := Subscribe()
	defer Unsubscribe(ch)

	L().Info("subscribed message")

	select {
	case e := <-ch:
		assert.Equal(t, "subscribed message", e.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber received nothing")
	}
}

func TestInitWritesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	L().Info("persisted line")
	path := GetLogFilePath()
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"persisted line"`)

	L().Info("after close")
	_, ok := findEntry(GetLogs(), "after close")
	assert.True(t, ok)
}
