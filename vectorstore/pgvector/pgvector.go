//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

// Package pgvector provides a PostgreSQL-backed vector store using the
// pgvector extension. One store instance is bound to one table, which
// plays the role of a collection; the table and its indexes are created
// on construction if missing.
package pgvector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	pgv "github.com/pgvector/pgvector-go"

	"github.com/coursegraph/vectorize-go/vectorstore"
)

// ErrMissingConnString indicates the store was built without a DSN.
var ErrMissingConnString = errors.New("pgvector: connection string is required")

var _ vectorstore.VectorStore = (*Store)(nil)

// Store is a vector store backed by a PostgreSQL table with a pgvector
// embedding column and a JSONB metadata column.
type Store struct {
	pool *pgxpool.Pool
	opts options
}

// New connects to PostgreSQL and ensures the collection table exists.
func New(ctx context.Context, opts ...Option) (*Store, error) {
	o := options{
		table:     defaultTable,
		dimension: defaultDimension,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.connString == "" {
		return nil, ErrMissingConnString
	}

	pool, err := pgxpool.New(ctx, o.connString)
	if err != nil {
		return nil, fmt.Errorf("pgvector: connecting: %w", err)
	}
	s := &Store{pool: pool, opts: o}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// ensureSchema creates the extension, table, and indexes if missing.
func (s *Store) ensureSchema(ctx context.Context) error {
	statements := []string{
		"CREATE EXTENSION IF NOT EXISTS vector",
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL DEFAULT '',
			embedding vector(%d),
			metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)`, s.opts.table, s.opts.dimension),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_metadata_idx ON %s USING GIN (metadata)",
			s.opts.table, s.opts.table),
	}
	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("pgvector: ensuring schema: %w", err)
		}
	}
	return nil
}

// Upsert inserts or overwrites records by id.
func (s *Store) Upsert(ctx context.Context, records []*vectorstore.Record) error {
	now := time.Now().Unix()
	sql := fmt.Sprintf(`INSERT INTO %s (id, content, embedding, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			metadata = EXCLUDED.metadata,
			updated_at = EXCLUDED.updated_at`, s.opts.table)

	for _, r := range records {
		if r.ID == "" {
			return vectorstore.ErrEmptyRecordID
		}
		if len(r.Embedding) != s.opts.dimension {
			return fmt.Errorf("%w: record %s has %d, table has %d",
				vectorstore.ErrDimensionMismatch, r.ID, len(r.Embedding), s.opts.dimension)
		}
		metadataJSON, err := json.Marshal(r.Metadata)
		if err != nil {
			return fmt.Errorf("pgvector: marshaling metadata for %s: %w", r.ID, err)
		}
		vec := pgv.NewVector(toFloat32(r.Embedding))
		if _, err := s.pool.Exec(ctx, sql, r.ID, r.Content, vec, metadataJSON, now); err != nil {
			return fmt.Errorf("pgvector: upserting %s: %w", r.ID, err)
		}
	}
	return nil
}

// Query returns up to limit records ranked by descending cosine
// similarity to the vector, optionally restricted by a metadata filter.
func (s *Store) Query(
	ctx context.Context,
	vector []float64,
	limit int,
	filter map[string]any,
) ([]*vectorstore.ScoredRecord, error) {
	limit = normalizeLimit(limit)
	args := []any{pgv.NewVector(toFloat32(vector))}
	where := "1=1"
	if len(filter) > 0 {
		filterJSON, err := json.Marshal(filter)
		if err != nil {
			return nil, fmt.Errorf("pgvector: marshaling filter: %w", err)
		}
		args = append(args, filterJSON)
		where = "metadata @> $2::jsonb"
	}

	sql := fmt.Sprintf(`SELECT id, content, embedding, metadata,
			1 - (embedding <=> $1) AS score
		FROM %s
		WHERE %s
		ORDER BY embedding <=> $1
		LIMIT %d`, s.opts.table, where, limit)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("pgvector: querying: %w", err)
	}
	defer rows.Close()

	var hits []*vectorstore.ScoredRecord
	for rows.Next() {
		var (
			record       vectorstore.Record
			embedding    pgv.Vector
			metadataJSON []byte
			score        float64
		)
		if err := rows.Scan(&record.ID, &record.Content, &embedding, &metadataJSON, &score); err != nil {
			return nil, fmt.Errorf("pgvector: scanning row: %w", err)
		}
		record.Embedding = toFloat64(embedding.Slice())
		if err := json.Unmarshal(metadataJSON, &record.Metadata); err != nil {
			return nil, fmt.Errorf("pgvector: unmarshaling metadata: %w", err)
		}
		hits = append(hits, &vectorstore.ScoredRecord{Record: &record, Score: score})
	}
	return hits, rows.Err()
}

// Get returns the records whose metadata contains every filter entry.
func (s *Store) Get(ctx context.Context, filter map[string]any) ([]*vectorstore.Record, error) {
	filterJSON, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("pgvector: marshaling filter: %w", err)
	}
	sql := fmt.Sprintf(`SELECT id, content, embedding, metadata
		FROM %s
		WHERE metadata @> $1::jsonb
		ORDER BY id`, s.opts.table)

	rows, err := s.pool.Query(ctx, sql, filterJSON)
	if err != nil {
		return nil, fmt.Errorf("pgvector: getting by metadata: %w", err)
	}
	defer rows.Close()

	var out []*vectorstore.Record
	for rows.Next() {
		var (
			record       vectorstore.Record
			embedding    pgv.Vector
			metadataJSON []byte
		)
		if err := rows.Scan(&record.ID, &record.Content, &embedding, &metadataJSON); err != nil {
			return nil, fmt.Errorf("pgvector: scanning row: %w", err)
		}
		record.Embedding = toFloat64(embedding.Slice())
		if err := json.Unmarshal(metadataJSON, &record.Metadata); err != nil {
			return nil, fmt.Errorf("pgvector: unmarshaling metadata: %w", err)
		}
		out = append(out, &record)
	}
	return out, rows.Err()
}

// DeleteByFilter removes records whose metadata contains every filter
// entry. A nil filter empties the table but keeps it.
func (s *Store) DeleteByFilter(ctx context.Context, filter map[string]any) error {
	if len(filter) == 0 {
		sql := fmt.Sprintf("DELETE FROM %s", s.opts.table)
		if _, err := s.pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("pgvector: clearing table: %w", err)
		}
		return nil
	}
	filterJSON, err := json.Marshal(filter)
	if err != nil {
		return fmt.Errorf("pgvector: marshaling filter: %w", err)
	}
	sql := fmt.Sprintf("DELETE FROM %s WHERE metadata @> $1::jsonb", s.opts.table)
	if _, err := s.pool.Exec(ctx, sql, filterJSON); err != nil {
		return fmt.Errorf("pgvector: deleting by metadata: %w", err)
	}
	return nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.opts.table)
	if err := s.pool.QueryRow(ctx, sql).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgvector: counting: %w", err)
	}
	return count, nil
}

// DeleteCollection drops the backing table.
func (s *Store) DeleteCollection(ctx context.Context) error {
	sql := fmt.Sprintf("DROP TABLE IF EXISTS %s", s.opts.table)
	if _, err := s.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("pgvector: dropping table: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// normalizeLimit keeps the interpolated LIMIT clause valid: non-positive
// limits fall back to the default.
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultQueryLimit
	}
	return limit
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
