//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

package inmemory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coursegraph/vectorize-go/vectorstore"
)

func testRecords() []*vectorstore.Record {
	return []*vectorstore.Record{
		{
			ID:        "doc1_chunk_0",
			Content:   "alpha",
			Embedding: []float64{1, 0},
			Metadata:  map[string]any{"document_id": "doc1", "chunk_index": 0},
		},
		{
			ID:        "doc1_chunk_1",
			Content:   "beta",
			Embedding: []float64{0.9, 0.1},
			Metadata:  map[string]any{"document_id": "doc1", "chunk_index": 1},
		},
		{
			ID:        "doc2_chunk_0",
			Content:   "gamma",
			Embedding: []float64{0, 1},
			Metadata:  map[string]any{"document_id": "doc2", "chunk_index": 0},
		},
	}
}

func TestStore_UpsertAndCount(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Upsert(ctx, testRecords()))
	count, err := s.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	// Re-upserting the same ids overwrites, not duplicates.
	require.NoError(t, s.Upsert(ctx, testRecords()))
	count, err = s.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestStore_UpsertEmptyID(t *testing.T) {
	s := New()
	err := s.Upsert(context.Background(), []*vectorstore.Record{{ID: ""}})
	require.ErrorIs(t, err, vectorstore.ErrEmptyRecordID)
}

func TestStore_QueryRanksBySimilarity(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Upsert(ctx, testRecords()))

	hits, err := s.Query(ctx, []float64{1, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	require.Equal(t, "doc1_chunk_0", hits[0].Record.ID)
	require.Equal(t, "doc1_chunk_1", hits[1].Record.ID)
	require.Greater(t, hits[0].Score, hits[1].Score)
}

func TestStore_QueryWithFilter(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Upsert(ctx, testRecords()))

	hits, err := s.Query(ctx, []float64{1, 0}, 10, map[string]any{"document_id": "doc2"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "doc2_chunk_0", hits[0].Record.ID)
}

func TestStore_GetByMetadata(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Upsert(ctx, testRecords()))

	records, err := s.Get(ctx, map[string]any{"document_id": "doc1"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "doc1_chunk_0", records[0].ID)
	require.Equal(t, "doc1_chunk_1", records[1].ID)

	records, err = s.Get(ctx, map[string]any{"document_id": "missing"})
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestStore_DeleteByFilter(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Upsert(ctx, testRecords()))

	require.NoError(t, s.DeleteByFilter(ctx, map[string]any{"document_id": "doc1"}))
	count, err := s.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	records, err := s.Get(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, "doc2_chunk_0", records[0].ID)

	// Nil filter removes everything.
	require.NoError(t, s.DeleteByFilter(ctx, nil))
	count, err = s.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestStore_DeleteCollection(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Upsert(ctx, testRecords()))
	require.NoError(t, s.DeleteCollection(ctx))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestStore_ClonesOnWriteAndRead(t *testing.T) {
	ctx := context.Background()
	s := New()
	original := &vectorstore.Record{
		ID:        "r1",
		Content:   "text",
		Embedding: []float64{1, 2},
		Metadata:  map[string]any{"k": "v"},
	}
	require.NoError(t, s.Upsert(ctx, []*vectorstore.Record{original}))

	// Mutating the caller's record must not affect the stored copy.
	original.Metadata["k"] = "changed"
	original.Embedding[0] = 99

	got, err := s.Get(ctx, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "v", got[0].Metadata["k"])
	require.Equal(t, []float64{1, 2}, got[0].Embedding)
}

func TestMatchesFilter(t *testing.T) {
	metadata := map[string]any{"a": "1", "b": 2}
	require.True(t, vectorstore.MatchesFilter(metadata, nil))
	require.True(t, vectorstore.MatchesFilter(metadata, map[string]any{"a": "1"}))
	require.True(t, vectorstore.MatchesFilter(metadata, map[string]any{"a": "1", "b": 2}))
	require.False(t, vectorstore.MatchesFilter(metadata, map[string]any{"a": "2"}))
	require.False(t, vectorstore.MatchesFilter(metadata, map[string]any{"c": "x"}))
}
