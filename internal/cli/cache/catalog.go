package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/stackcart/stackcart/internal/domain/catalog"
)

const catalogFile = "catalog.json"

// CatalogCache keeps the last catalog fetched from the daemon so the CLI can
// still list and search while the daemon is down.
type CatalogCache struct {
	dir string
}

func NewCatalogCache(dir string) *CatalogCache {
	return &CatalogCache{dir: dir}
}

type entry struct {
	FetchedAt time.Time        `json:"fetched_at"`
	Catalog   *catalog.Catalog `json:"catalog"`
}

// Get returns the cached catalog and when it was fetched.
func (c *CatalogCache) Get() (*catalog.Catalog, time.Time, bool) {
	data, err := os.ReadFile(filepath.Join(c.dir, catalogFile))
	if err != nil {
		return nil, time.Time{}, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Catalog == nil {
		return nil, time.Time{}, false
	}
	return e.Catalog, e.FetchedAt, true
}

func (c *CatalogCache) Set(cat *catalog.Catalog) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entry{FetchedAt: time.Now(), Catalog: cat}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, catalogFile), data, 0644)
}
