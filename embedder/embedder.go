//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

// Package embedder defines the contract for turning text into vectors.
package embedder

import "context"

// Embedder converts text into vector embeddings.
type Embedder interface {
	// GetEmbedding returns the embedding vector for a single text.
	GetEmbedding(ctx context.Context, text string) ([]float64, error)

	// GetEmbeddings returns one embedding per input text, preserving order.
	GetEmbeddings(ctx context.Context, texts []string) ([][]float64, error)

	// GetDimensions returns the dimensionality of the produced vectors.
	GetDimensions() int
}
