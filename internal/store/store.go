// Package store persists entity records. Records keep their insertion order,
// which is the order lists and exports present them in.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/timetable/internal/catalog"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Store is implemented by Memory and Postgres.
type Store interface {
	// List returns every record of entity in insertion order.
	List(ctx context.Context, entity string) ([]catalog.Record, error)
	Get(ctx context.Context, entity, key string) (catalog.Record, error)
	Count(ctx context.Context, entity string) (int, error)
	// Create fails with ErrDuplicate when the key is taken.
	Create(ctx context.Context, entity string, rec catalog.Record) error
	// Update replaces the record stored under key, keeping its position.
	Update(ctx context.Context, entity, key string, rec catalog.Record) error
	Delete(ctx context.Context, entity, key string) error
	// InsertNew appends the records whose keys are not yet stored and
	// returns how many were added. Repeated keys within recs keep the first.
	InsertNew(ctx context.Context, entity string, recs []catalog.Record) (int, error)
	Close()
}

// Seed inserts data into s, skipping records that already exist.
func Seed(ctx context.Context, s Store, data map[string][]catalog.Record) error {
	for entity, recs := range data {
		if _, err := s.InsertNew(ctx, entity, recs); err != nil {
			return fmt.Errorf("seed %s: %w", entity, err)
		}
	}
	return nil
}
