package entries

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is the in-memory Repository used by unit tests and the
// composer's offline mode.
type MemoryRepository struct {
	mu      sync.RWMutex
	store   map[string]*Entry
	authors map[string]Author
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*Entry), authors: make(map[string]Author)}
}

// AddAuthor registers the author projection joined into List results.
func (m *MemoryRepository) AddAuthor(a Author) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authors[a.ID] = a
}

func (m *MemoryRepository) Insert(_ context.Context, e *Entry) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	cp := *e
	m.store[e.ID] = &cp
	return e.ID, nil
}

func (m *MemoryRepository) Delete(_ context.Context, id, authorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.store[id]
	if !ok || e.AuthorID != authorID {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MemoryRepository) List(_ context.Context) ([]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Entry, 0, len(m.store))
	for _, e := range m.store {
		cp := *e
		if a, ok := m.authors[e.AuthorID]; ok {
			ac := a
			cp.Author = &ac
		}
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
