package assets

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type memory struct {
	mu      sync.RWMutex
	records map[uuid.UUID]Asset
	order   []uuid.UUID
}

// NewMemoryRepository creates a Repository that keeps records in process.
// It interprets Criteria with the same semantics as the SQL repository.
func NewMemoryRepository() Repository {
	return &memory{
		records: make(map[uuid.UUID]Asset),
	}
}

func (m *memory) Save(_ context.Context, a Asset) (*Asset, error) {
	stored := clone(a)

	m.mu.Lock()
	if _, ok := m.records[a.ID]; !ok {
		m.order = append(m.order, a.ID)
	}
	m.records[a.ID] = stored
	m.mu.Unlock()

	out := clone(stored)
	return &out, nil
}

func (m *memory) Find(_ context.Context, id uuid.UUID) (*Asset, error) {
	m.mu.RLock()
	a, ok := m.records[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	out := clone(a)
	return &out, nil
}

func (m *memory) Search(_ context.Context, c Criteria) ([]Asset, error) {
	match := c.matcher()

	m.mu.RLock()
	results := make([]Asset, 0)
	for _, id := range m.order {
		if a := m.records[id]; match(a) {
			results = append(results, clone(a))
		}
	}
	m.mu.RUnlock()

	c.Sort.Sort(results)
	return results, nil
}

func clone(a Asset) Asset {
	out := a
	if a.Location != nil {
		v := *a.Location
		out.Location = &v
	}
	if a.Size != nil {
		v := *a.Size
		out.Size = &v
	}
	if a.PublishedAt != nil {
		v := *a.PublishedAt
		out.PublishedAt = &v
	}
	return out
}
