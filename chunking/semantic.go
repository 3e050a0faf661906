//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

package chunking

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
)

// defaultBreakpointPercentile is the distance percentile above which a
// boundary is placed between consecutive sentences.
const defaultBreakpointPercentile = 90.0

// semanticBufferSize is the number of neighboring sentences mixed into each
// sentence before embedding, smoothing out single-sentence noise.
const semanticBufferSize = 1

// SemanticSplitter breaks text at its largest topic shifts. Each sentence
// is embedded together with its neighbors, cosine distances between
// consecutive embeddings are computed, and boundaries are placed where the
// distance exceeds a percentile threshold over all consecutive distances.
//
// This is the most expensive strategy: it requires one embedding per
// sentence before any chunk is produced.
type SemanticSplitter struct {
	cfg config
}

// NewSemantic creates a semantic splitter. An embedder is required.
func NewSemantic(opts ...Option) (*SemanticSplitter, error) {
	s, err := New(StrategySemantic, opts...)
	if err != nil {
		return nil, err
	}
	return s.(*SemanticSplitter), nil
}

// Split splits text into chunks at semantic breakpoints.
func (s *SemanticSplitter) Split(ctx context.Context, text string) ([]*Chunk, error) {
	if text == "" {
		return nil, nil
	}

	sentences := splitSentences(text)
	if len(sentences) <= 1 {
		return annotate(text, []string{text}, 0), nil
	}

	combined := combineWithNeighbors(sentences, semanticBufferSize)
	vectors, err := s.cfg.embedder.GetEmbeddings(ctx, combined)
	if err != nil {
		return nil, fmt.Errorf("chunking: embedding sentences: %w", err)
	}
	if len(vectors) != len(sentences) {
		return nil, fmt.Errorf("chunking: embedder returned %d vectors for %d sentences",
			len(vectors), len(sentences))
	}

	distances := make([]float64, len(vectors)-1)
	for i := 0; i < len(vectors)-1; i++ {
		distances[i] = 1 - cosineSimilarity(vectors[i], vectors[i+1])
	}
	threshold := percentile(distances, s.cfg.percentile)

	var pieces []string
	groupStart := 0
	for i, d := range distances {
		if d > threshold {
			pieces = append(pieces, strings.Join(sentences[groupStart:i+1], " "))
			groupStart = i + 1
		}
	}
	pieces = append(pieces, strings.Join(sentences[groupStart:], " "))

	// Boundaries only depend on the overlap-free grouping above, so the
	// annotation search needs no backward anchor.
	return annotate(text, pieces, 0), nil
}

// combineWithNeighbors joins each sentence with up to buffer sentences on
// either side, producing the strings actually embedded.
func combineWithNeighbors(sentences []string, buffer int) []string {
	combined := make([]string, len(sentences))
	for i := range sentences {
		lo := i - buffer
		if lo < 0 {
			lo = 0
		}
		hi := i + buffer + 1
		if hi > len(sentences) {
			hi = len(sentences)
		}
		combined[i] = strings.Join(sentences[lo:hi], " ")
	}
	return combined
}

// cosineSimilarity returns the cosine of the angle between two vectors.
// Zero-magnitude vectors yield zero similarity.
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

// percentile computes the p-th percentile of values using linear
// interpolation between closest ranks.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
