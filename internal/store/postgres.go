package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/timetable/internal/catalog"
)

// schemaSQL creates the single table that holds every entity as JSONB.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS entity_records (
	seq        BIGSERIAL PRIMARY KEY,
	entity     TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	data       JSONB       NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (entity, key)
)`

// DecodeFunc rebuilds a record from its stored JSON.
type DecodeFunc func(entity string, data []byte) (catalog.Record, error)

// Postgres is a Store backed by PostgreSQL.
type Postgres struct {
	pool   *pgxpool.Pool
	decode DecodeFunc
}

// NewPostgres creates the records table if needed.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool, decode DecodeFunc) (*Postgres, error) {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Postgres{pool: pool, decode: decode}, nil
}

func (p *Postgres) List(ctx context.Context, entity string) ([]catalog.Record, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT data FROM entity_records WHERE entity = $1 ORDER BY seq`, entity)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", entity, err)
	}
	defer rows.Close()

	out := []catalog.Record{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", entity, err)
		}
		rec, err := p.decode(entity, data)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *Postgres) Get(ctx context.Context, entity, key string) (catalog.Record, error) {
	var data []byte
	err := p.pool.QueryRow(ctx,
		`SELECT data FROM entity_records WHERE entity = $1 AND key = $2`, entity, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s %q: %w", entity, key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %q: %w", entity, key, err)
	}
	return p.decode(entity, data)
}

func (p *Postgres) Count(ctx context.Context, entity string) (int, error) {
	var n int
	err := p.pool.QueryRow(ctx,
		`SELECT count(*) FROM entity_records WHERE entity = $1`, entity).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", entity, err)
	}
	return n, nil
}

func (p *Postgres) Create(ctx context.Context, entity string, rec catalog.Record) error {
	inserted, err := p.insert(ctx, p.pool, entity, rec)
	if err != nil {
		return err
	}
	if !inserted {
		return fmt.Errorf("%s %q: %w", entity, rec.Key(), ErrDuplicate)
	}
	return nil
}

func (p *Postgres) Update(ctx context.Context, entity, key string, rec catalog.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", entity, err)
	}
	tag, err := p.pool.Exec(ctx,
		`UPDATE entity_records SET data = $3, updated_at = now() WHERE entity = $1 AND key = $2`,
		entity, key, data)
	if err != nil {
		return fmt.Errorf("update %s %q: %w", entity, key, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %q: %w", entity, key, ErrNotFound)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, entity, key string) error {
	tag, err := p.pool.Exec(ctx,
		`DELETE FROM entity_records WHERE entity = $1 AND key = $2`, entity, key)
	if err != nil {
		return fmt.Errorf("delete %s %q: %w", entity, key, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %q: %w", entity, key, ErrNotFound)
	}
	return nil
}

// InsertNew inserts all records in one transaction.
func (p *Postgres) InsertNew(ctx context.Context, entity string, recs []catalog.Record) (int, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for _, rec := range recs {
		ok, err := p.insert(ctx, tx, entity, rec)
		if err != nil {
			return 0, err
		}
		if ok {
			inserted++
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
}

// insert adds rec unless its key exists and reports whether it was added.
func (p *Postgres) insert(ctx context.Context, db DBTX, entity string, rec catalog.Record) (bool, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", entity, err)
	}
	tag, err := db.Exec(ctx,
		`INSERT INTO entity_records (entity, key, data) VALUES ($1, $2, $3)
		 ON CONFLICT (entity, key) DO NOTHING`,
		entity, rec.Key(), data)
	if err != nil {
		return false, fmt.Errorf("insert %s %q: %w", entity, rec.Key(), err)
	}
	return tag.RowsAffected() == 1, nil
}
