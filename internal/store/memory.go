package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/JonMunkholm/timetable/internal/catalog"
)

type memTable struct {
	order []string
	rows  map[string]catalog.Record
}

// Memory is a Store held in process memory. It is the default when no
// database is configured.
type Memory struct {
	mu     sync.RWMutex
	tables map[string]*memTable
}

func NewMemory() *Memory {
	return &Memory{tables: make(map[string]*memTable)}
}

// table returns the table for entity, creating it. Caller holds mu.
func (m *Memory) table(entity string) *memTable {
	t, ok := m.tables[entity]
	if !ok {
		t = &memTable{rows: make(map[string]catalog.Record)}
		m.tables[entity] = t
	}
	return t
}

func (m *Memory) List(_ context.Context, entity string) ([]catalog.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tables[entity]
	if !ok {
		return []catalog.Record{}, nil
	}
	out := make([]catalog.Record, len(t.order))
	for i, k := range t.order {
		out[i] = t.rows[k]
	}
	return out, nil
}

func (m *Memory) Get(_ context.Context, entity, key string) (catalog.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if t, ok := m.tables[entity]; ok {
		if rec, ok := t.rows[key]; ok {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("%s %q: %w", entity, key, ErrNotFound)
}

func (m *Memory) Count(_ context.Context, entity string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if t, ok := m.tables[entity]; ok {
		return len(t.order), nil
	}
	return 0, nil
}

func (m *Memory) Create(_ context.Context, entity string, rec catalog.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.table(entity)
	key := rec.Key()
	if _, exists := t.rows[key]; exists {
		return fmt.Errorf("%s %q: %w", entity, key, ErrDuplicate)
	}
	t.rows[key] = rec
	t.order = append(t.order, key)
	return nil
}

func (m *Memory) Update(_ context.Context, entity, key string, rec catalog.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.table(entity)
	if _, exists := t.rows[key]; !exists {
		return fmt.Errorf("%s %q: %w", entity, key, ErrNotFound)
	}
	t.rows[key] = rec
	return nil
}

func (m *Memory) Delete(_ context.Context, entity, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.table(entity)
	if _, exists := t.rows[key]; !exists {
		return fmt.Errorf("%s %q: %w", entity, key, ErrNotFound)
	}
	delete(t.rows, key)
	t.order = slices.DeleteFunc(t.order, func(k string) bool { return k == key })
	return nil
}

func (m *Memory) InsertNew(_ context.Context, entity string, recs []catalog.Record) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.table(entity)
	inserted := 0
	for _, rec := range recs {
		key := rec.Key()
		if _, exists := t.rows[key]; exists {
			continue
		}
		t.rows[key] = rec
		t.order = append(t.order, key)
		inserted++
	}
	return inserted, nil
}

func (m *Memory) Close() {}
