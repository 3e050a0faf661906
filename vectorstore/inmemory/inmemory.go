//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides a process-local vector store. It is intended
// for tests and small single-process workloads.
package inmemory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/coursegraph/vectorize-go/vectorstore"
)

// Store keeps all records in memory, guarded by a read-write mutex.
type Store struct {
	mu      sync.RWMutex
	records map[string]*vectorstore.Record
}

var _ vectorstore.VectorStore = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{records: make(map[string]*vectorstore.Record)}
}

// Upsert inserts or overwrites records by id.
func (s *Store) Upsert(_ context.Context, records []*vectorstore.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		if r.ID == "" {
			return vectorstore.ErrEmptyRecordID
		}
		s.records[r.ID] = cloneRecord(r)
	}
	return nil
}

// Query ranks stored records by cosine similarity to the vector.
func (s *Store) Query(
	_ context.Context,
	vector []float64,
	limit int,
	filter map[string]any,
) ([]*vectorstore.ScoredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]*vectorstore.ScoredRecord, 0, len(s.records))
	for _, r := range s.records {
		if !vectorstore.MatchesFilter(r.Metadata, filter) {
			continue
		}
		hits = append(hits, &vectorstore.ScoredRecord{
			Record: cloneRecord(r),
			Score:  cosineSimilarity(vector, r.Embedding),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Record.ID < hits[j].Record.ID
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Get returns records whose metadata contains every filter entry, in
// stable id order.
func (s *Store) Get(_ context.Context, filter map[string]any) ([]*vectorstore.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*vectorstore.Record
	for _, r := range s.records {
		if vectorstore.MatchesFilter(r.Metadata, filter) {
			out = append(out, cloneRecord(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// DeleteByFilter removes records whose metadata contains every filter
// entry. A nil filter removes everything.
func (s *Store) DeleteByFilter(_ context.Context, filter map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.records {
		if vectorstore.MatchesFilter(r.Metadata, filter) {
			delete(s.records, id)
		}
	}
	return nil
}

// Count returns the number of stored records.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// DeleteCollection drops all records.
func (s *Store) DeleteCollection(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*vectorstore.Record)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

func cloneRecord(r *vectorstore.Record) *vectorstore.Record {
	clone := &vectorstore.Record{
		ID:      r.ID,
		Content: r.Content,
	}
	if r.Embedding != nil {
		clone.Embedding = make([]float64, len(r.Embedding))
		copy(clone.Embedding, r.Embedding)
	}
	if r.Metadata != nil {
		clone.Metadata = make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			clone.Metadata[k] = v
		}
	}
	return clone
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
