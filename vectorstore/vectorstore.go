//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

// Package vectorstore defines the contract for storing and querying
// embedded document chunks.
package vectorstore

import (
	"context"
	"errors"
)

// Common vector store errors.
var (
	// ErrEmptyRecordID indicates a record without an identifier.
	ErrEmptyRecordID = errors.New("vectorstore: record id is empty")
	// ErrDimensionMismatch indicates an embedding of unexpected length.
	ErrDimensionMismatch = errors.New("vectorstore: embedding dimension mismatch")
)

// Record is one stored chunk: its id, text, embedding, and metadata.
// Re-upserting an existing id overwrites the stored record.
type Record struct {
	ID        string
	Content   string
	Embedding []float64
	Metadata  map[string]any
}

// ScoredRecord is a query hit with its similarity score. Higher is more
// similar (cosine similarity, 1 - distance).
type ScoredRecord struct {
	Record *Record
	Score  float64
}

// VectorStore stores embedded chunks for one collection. Implementations
// must keep Upsert positionally atomic per record and treat queries as
// read-only.
type VectorStore interface {
	// Upsert inserts or overwrites records by id.
	Upsert(ctx context.Context, records []*Record) error

	// Query returns up to limit records ranked by descending similarity
	// to the vector. A non-nil filter restricts hits to records whose
	// metadata contains every filter entry.
	Query(ctx context.Context, vector []float64, limit int, filter map[string]any) ([]*ScoredRecord, error)

	// Get returns the records whose metadata contains every filter entry.
	Get(ctx context.Context, filter map[string]any) ([]*Record, error)

	// DeleteByFilter removes the records whose metadata contains every
	// filter entry. A nil filter removes all records but keeps the
	// collection.
	DeleteByFilter(ctx context.Context, filter map[string]any) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// DeleteCollection removes the whole collection and its records.
	DeleteCollection(ctx context.Context) error

	// Close releases the store's resources.
	Close() error
}

// MatchesFilter reports whether metadata contains every filter entry.
// An empty filter matches everything.
func MatchesFilter(metadata, filter map[string]any) bool {
	for key, want := range filter {
		got, ok := metadata[key]
		if !ok || got != want {
			return false
		}
	}
	return true
}
