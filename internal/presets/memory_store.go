package presets

import (
	"context"
	"sort"
	"sync"

	"github.com/mbd888/numerics/internal/pagination"
)

// MemoryStore is an in-memory preset store for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	presets map[string]*Preset // by ID
	names   map[string]string  // name → ID
}

// NewMemoryStore creates a new in-memory preset store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		presets: make(map[string]*Preset),
		names:   make(map[string]string),
	}
}

func (m *MemoryStore) Create(_ context.Context, p *Preset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.names[p.Name]; exists {
		return ErrNameTaken
	}
	m.presets[p.ID] = p.clone()
	m.names[p.Name] = p.ID
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Preset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.presets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.clone(), nil
}

func (m *MemoryStore) GetByName(_ context.Context, name string) (*Preset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.names[name]
	if !ok {
		return nil, ErrNotFound
	}
	return m.presets[id].clone(), nil
}

func (m *MemoryStore) List(_ context.Context, limit int, after *pagination.Cursor) ([]*Preset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*Preset
	for _, p := range m.presets {
		if before(p, after) {
			result = append(result, p.clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MemoryStore) Update(_ context.Context, p *Preset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.presets[p.ID]
	if !ok {
		return ErrNotFound
	}
	if old.Name != p.Name {
		if _, taken := m.names[p.Name]; taken {
			return ErrNameTaken
		}
		delete(m.names, old.Name)
		m.names[p.Name] = p.ID
	}
	m.presets[p.ID] = p.clone()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.presets[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.names, p.Name)
	delete(m.presets, id)
	return nil
}

var _ Store = (*MemoryStore)(nil)
