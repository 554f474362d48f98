// Package cache holds the in-memory working set of events and tasks for
// the month being viewed.
package cache

import (
	"sync"

	"github.com/nhle/monthcal/internal/model"
)

// Collection is an ordered set of records with at most one record per id.
// Order is stable across reads: a replaced record keeps its position and
// a new one is appended.
type Collection[T any] struct {
	mu    sync.RWMutex
	idOf  func(T) string
	items []T
	index map[string]int
}

// NewCollection returns an empty collection keyed by idOf.
func NewCollection[T any](idOf func(T) string) *Collection[T] {
	return &Collection[T]{
		idOf:  idOf,
		index: make(map[string]int),
	}
}

// Load replaces the whole working set. Later duplicates of an id replace
// earlier ones in place.
func (c *Collection[T]) Load(records []T) {
	items := make([]T, 0, len(records))
	index := make(map[string]int, len(records))
	for _, r := range records {
		id := c.idOf(r)
		if i, ok := index[id]; ok {
			items[i] = r
			continue
		}
		index[id] = len(items)
		items = append(items, r)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	c.index = index
}

// Upsert replaces the record with the same id in place, or appends it.
func (c *Collection[T]) Upsert(record T) {
	id := c.idOf(record)

	c.mu.Lock()
	defer c.mu.Unlock()
	if i, ok := c.index[id]; ok {
		c.items[i] = record
		return
	}
	c.index[id] = len(c.items)
	c.items = append(c.items, record)
}

// Remove deletes the record with the given id. It reports whether a record
// was removed; removing an absent id is a no-op.
func (c *Collection[T]) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[id]
	if !ok {
		return false
	}

	items := make([]T, 0, len(c.items)-1)
	items = append(items, c.items[:i]...)
	items = append(items, c.items[i+1:]...)
	c.items = items

	delete(c.index, id)
	for j := i; j < len(c.items); j++ {
		c.index[c.idOf(c.items[j])] = j
	}
	return true
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.items[i], true
}

// All returns a copy of the records in order.
func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Cache is the aggregation working set, one collection per entity kind.
type Cache struct {
	Events *Collection[model.Event]
	Tasks  *Collection[model.Task]
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{
		Events: NewCollection(func(e model.Event) string { return e.ID }),
		Tasks:  NewCollection(func(t model.Task) string { return t.ID }),
	}
}
