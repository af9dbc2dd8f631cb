// Package history provides a bounded, newest-first store of generated plans.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ternarybob/planr/pkg/plan"
)

// DefaultLimit is the maximum number of retained history items.
const DefaultLimit = 10

// Item is a persisted (goal, plan, timestamp) tuple kept for recall.
type Item struct {
	ID        string     `json:"id"`
	Goal      string     `json:"goal"`
	Plan      *plan.Plan `json:"plan"`
	Timestamp time.Time  `json:"timestamp"`
}

// Store keeps history items in memory, newest first, persisted to a single
// JSON file. All operations are safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	path  string
	limit int
	items []Item
	now   func() time.Time
}

// NewStore creates a store persisting to dir/history.json. An existing file
// is loaded; a corrupt file is treated as empty (history is not
// load-bearing).
func NewStore(dir string, limit int) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	s := &Store{
		path:  filepath.Join(dir, "history.json"),
		limit: limit,
		now:   time.Now,
	}
	s.load()

	return s, nil
}

// load restores items from disk. Read or decode failures leave the store
// empty rather than failing.
func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return
	}

	if len(items) > s.limit {
		items = items[:s.limit]
	}
	s.items = items
}

// Record prepends a new item, trims to the limit and persists. Exactly one
// write happens per successful call.
func (s *Store) Record(goal string, p *plan.Plan) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := Item{
		ID:        uuid.NewString(),
		Goal:      goal,
		Plan:      p,
		Timestamp: s.now().UTC(),
	}

	s.items = append([]Item{item}, s.items...)
	if len(s.items) > s.limit {
		s.items = s.items[:s.limit]
	}

	if err := s.save(); err != nil {
		return Item{}, err
	}
	return item, nil
}

// List returns all items, newest first.
func (s *Store) List() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Item, len(s.items))
	copy(result, s.items)
	return result
}

// Get returns the item with the given id.
func (s *Store) Get(id string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Len returns the number of stored items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Clear removes all items and persists the empty list.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.save()
}

// save persists the current items. Caller must hold the write lock.
func (s *Store) save() error {
	items := s.items
	if items == nil {
		items = []Item{}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
