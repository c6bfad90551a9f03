// Package selection holds the user's in-progress stack: an ordered set of
// catalog tools keyed by id.
package selection

import (
	"sync"

	"github.com/stackcart/stackcart/internal/domain/catalog"
)

// Store is an ordered set of tools, unique by id. Every operation is total:
// adding a present id or removing an absent one is a no-op.
type Store struct {
	mu    sync.RWMutex
	tools []catalog.Tool
	index map[string]int
}

// NewStore creates an empty selection.
func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

// Add appends tool unless a member already has its id. It reports whether the
// selection changed.
func (s *Store) Add(tool catalog.Tool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[tool.ID]; ok {
		return false
	}
	s.index[tool.ID] = len(s.tools)
	s.tools = append(s.tools, tool)
	return true
}

// Remove deletes the member with id, keeping the order of the rest.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.tools = append(s.tools[:i], s.tools[i+1:]...)
	s.reindex()
	return true
}

// Toggle removes tool if present and adds it otherwise. It returns true when
// the tool is a member afterwards.
func (s *Store) Toggle(tool catalog.Tool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[tool.ID]; ok {
		s.tools = append(s.tools[:i], s.tools[i+1:]...)
		s.reindex()
		return false
	}
	s.index[tool.ID] = len(s.tools)
	s.tools = append(s.tools, tool)
	return true
}

// Clear empties the selection.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = nil
	s.index = make(map[string]int)
}

// Has reports whether id is selected.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.index[id]
	return ok
}

// ApplyPreset replaces the selection with the catalog tools named by p, in
// catalog order. Preset ids absent from the catalog are dropped and returned.
func (s *Store) ApplyPreset(p catalog.Preset, c *catalog.Catalog) (missing []string) {
	tools, missing := c.PresetTools(p)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = tools
	s.reindex()
	return missing
}

// Tools returns a snapshot of the selection in order.
func (s *Store) Tools() []catalog.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Tool, len(s.tools))
	copy(out, s.tools)
	return out
}

// IDs returns the selected ids in order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, len(s.tools))
	for i, t := range s.tools {
		ids[i] = t.ID
	}
	return ids
}

// Len returns the number of selected tools.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tools)
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.tools))
	for i, t := range s.tools {
		s.index[t.ID] = i
	}
}
