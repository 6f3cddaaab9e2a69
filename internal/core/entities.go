package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/timetable/internal/catalog"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 500
)

// ListQuery filters and pages an entity list.
type ListQuery struct {
	Search   string
	Page     int // 1-based
	PageSize int
}

func (q ListQuery) normalized() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

// Page is one page of search results.
type Page struct {
	Entity     string           `json:"entity"`
	Records    []catalog.Record `json:"records"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	Total      int              `json:"total"` // matches across all pages
	TotalPages int              `json:"totalPages"`
}

// List returns the records of entity matching q.Search, paged.
// A page past the end is empty.
func (s *Service) List(ctx context.Context, entity string, q ListQuery) (*Page, error) {
	if _, err := s.Definition(entity); err != nil {
		return nil, err
	}
	all, err := s.store.List(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", entity, err)
	}

	q = q.normalized()
	matched := make([]catalog.Record, 0, len(all))
	for _, rec := range all {
		if rec.Matches(q.Search) {
			matched = append(matched, rec)
		}
	}

	page := &Page{
		Entity:     entity,
		Page:       q.Page,
		PageSize:   q.PageSize,
		Total:      len(matched),
		TotalPages: (len(matched) + q.PageSize - 1) / q.PageSize,
		Records:    []catalog.Record{},
	}
	start := (q.Page - 1) * q.PageSize
	if start < len(matched) {
		end := min(start+q.PageSize, len(matched))
		page.Records = matched[start:end]
	}
	return page, nil
}

// All returns every record of entity in stored order.
func (s *Service) All(ctx context.Context, entity string) ([]catalog.Record, error) {
	if _, err := s.Definition(entity); err != nil {
		return nil, err
	}
	return s.store.List(ctx, entity)
}

// Get returns one record by key.
func (s *Service) Get(ctx context.Context, entity, key string) (catalog.Record, error) {
	if _, err := s.Definition(entity); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, entity, key)
}

// writable returns the definition of an entity that accepts changes.
func (s *Service) writable(entity string) (catalog.Definition, error) {
	def, err := s.Definition(entity)
	if err != nil {
		return def, err
	}
	if def.Info.ReadOnly {
		return def, fmt.Errorf("%s: %w", entity, ErrReadOnlyEntity)
	}
	return def, nil
}

// Create decodes and validates payload and stores it as a new record.
func (s *Service) Create(ctx context.Context, entity string, payload []byte) (catalog.Record, error) {
	def, err := s.writable(entity)
	if err != nil {
		return nil, err
	}
	rec, err := def.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if n, ok := rec.(catalog.Numbered); ok && n.Number() == 0 {
		existing, err := s.store.List(ctx, entity)
		if err != nil {
			return nil, err
		}
		rec = n.WithNumber(catalog.LastNumber(existing) + 1)
	}
	if err := s.store.Create(ctx, entity, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update replaces the record stored under key. The payload must keep the key.
func (s *Service) Update(ctx context.Context, entity, key string, payload []byte) (catalog.Record, error) {
	def, err := s.writable(entity)
	if err != nil {
		return nil, err
	}
	rec, err := def.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if rec.Key() != key {
		return nil, fmt.Errorf("%s %q -> %q: %w", entity, key, rec.Key(), ErrKeyChanged)
	}
	if err := s.store.Update(ctx, entity, key, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes one record.
func (s *Service) Delete(ctx context.Context, entity, key string) error {
	if _, err := s.writable(entity); err != nil {
		return err
	}
	return s.store.Delete(ctx, entity, key)
}
