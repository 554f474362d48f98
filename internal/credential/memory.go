package credential

import (
	"fmt"
	"sync"

	"github.com/samber/mo"
)

// MemoryStore is a process-local Store, used in tests and by callers
// that do not want credentials persisted.
type MemoryStore struct {
	mu   sync.RWMutex
	pair mo.Option[Pair]
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pair: mo.None[Pair]()}
}

func (s *MemoryStore) Get() mo.Option[Pair] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair
}

func (s *MemoryStore) Set(pair Pair) error {
	if !pair.Valid() {
		return fmt.Errorf("setting credential: incomplete pair")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = mo.Some(pair)
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = mo.None[Pair]()
	return nil
}
