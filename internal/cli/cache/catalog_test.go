package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackcart/stackcart/internal/domain/catalog"
)

func TestCatalogCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := NewCatalogCache(dir)

	_, _, ok := c.Get()
	assert.False(t, ok)

	cat := catalog.Default()
	require.NoError(t, c.Set(cat))

	got, fetched, ok := c.Get()
	require.True(t, ok)
	assert.Len(t, got.Tools, len(cat.Tools))
	assert.WithinDuration(t, time.Now(), fetched, time.Minute)
}

func TestCatalogCacheCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, catalogFile), []byte("{nope"), 0644))

	_, _, ok := NewCatalogCache(dir).Get()
	assert.False(t, ok)
}
