package repository

import (
	"context"
	"sync"

	"github.com/gogotex/docstore/internal/document"
)

// MemoryRepo keeps documents in a map guarded by a RWMutex. Search walks the
// documents in first-insertion order.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]document.Document
	order []string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]document.Document)}
}

// Save upserts d. An empty id is replaced by a generated one; Created is
// stored exactly as the caller supplied it.
func (m *MemoryRepo) Save(_ context.Context, d document.Document) (document.Document, error) {
	d = assignID(d).Clone()
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[d.ID]; !ok {
		m.order = append(m.order, d.ID)
	}
	m.store[d.ID] = d
	return d.Clone(), nil
}

func (m *MemoryRepo) FindByID(_ context.Context, id string) (*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.store[id]
	if !ok {
		return nil, nil
	}
	out := d.Clone()
	return &out, nil
}

func (m *MemoryRepo) Search(_ context.Context, req document.SearchRequest) ([]document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]document.Document, 0, len(m.order))
	for _, id := range m.order {
		d := m.store[id]
		if req.Matches(d) {
			out = append(out, d.Clone())
		}
	}
	return out, nil
}
