//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

package pgvector

const (
	defaultTable      = "vectorize_chunks"
	defaultDimension  = 3072
	defaultQueryLimit = 10
)

// options holds the pgvector store configuration.
type options struct {
	connString string
	table      string
	dimension  int
}

// Option configures the pgvector store.
type Option func(*options)

// WithConnString sets the PostgreSQL connection string.
func WithConnString(connString string) Option {
	return func(o *options) {
		o.connString = connString
	}
}

// WithTable sets the table backing the collection.
func WithTable(table string) Option {
	return func(o *options) {
		o.table = table
	}
}

// WithDimension sets the embedding dimension of the vector column.
func WithDimension(dimension int) Option {
	return func(o *options) {
		o.dimension = dimension
	}
}
