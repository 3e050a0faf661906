//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

// Package ollama provides a local Ollama embedder implementation, the
// usual choice for semantic chunking where every sentence is embedded.
package ollama

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/coursegraph/vectorize-go/embedder"
	"github.com/coursegraph/vectorize-go/log"
)

// Verify that Embedder implements the embedder.Embedder interface.
var _ embedder.Embedder = (*Embedder)(nil)

const (
	// DefaultModel is the default Ollama embedding model.
	DefaultModel = "all-minilm:latest"

	// DefaultDimensions is the embedding dimension of all-minilm.
	DefaultDimensions = 384

	// OllamaHost is the environment variable for the Ollama host.
	OllamaHost = "OLLAMA_HOST"
)

// Embedder embeds text through a local Ollama server's /api/embed
// endpoint.
type Embedder struct {
	model      string
	host       string
	httpClient *http.Client
	options    map[string]any
	truncate   *bool
	dimensions int
	client     *api.Client
}

// Option represents a functional option for configuring the Embedder.
type Option func(*Embedder)

// WithModel sets the embedding model to use.
func WithModel(model string) Option {
	return func(e *Embedder) {
		e.model = model
	}
}

// WithHost sets the Ollama host.
func WithHost(host string) Option {
	return func(e *Embedder) {
		e.host = host
	}
}

// WithTruncate sets the truncate flag for over-length inputs.
func WithTruncate(truncate bool) Option {
	return func(e *Embedder) {
		e.truncate = &truncate
	}
}

// WithOptions sets model options passed through to Ollama.
func WithOptions(options map[string]any) Option {
	return func(e *Embedder) {
		e.options = options
	}
}

// WithDimensions sets the number of dimensions for the embedding.
func WithDimensions(dimensions int) Option {
	return func(e *Embedder) {
		e.dimensions = dimensions
	}
}

// New creates a new Ollama embedder with the given options. The host is
// taken from the OLLAMA_HOST environment variable unless overridden.
func New(opts ...Option) *Embedder {
	defaultPort := "11434"
	e := &Embedder{
		host:       "http://localhost:11434",
		model:      DefaultModel,
		dimensions: DefaultDimensions,
		httpClient: http.DefaultClient,
	}
	if ollamaHost := os.Getenv(OllamaHost); ollamaHost != "" {
		e.host = ollamaHost
	}
	for _, opt := range opts {
		opt(e)
	}

	s := strings.TrimSpace(e.host)
	scheme, hostport, ok := strings.Cut(s, "://")
	switch {
	case !ok:
		scheme, hostport = "http", s
	case scheme == "http":
		defaultPort = "80"
	case scheme == "https":
		defaultPort = "443"
	}

	hostport, path, _ := strings.Cut(hostport, "/")
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		host, port = "127.0.0.1", defaultPort
		if ip := net.ParseIP(strings.Trim(hostport, "[]")); ip != nil {
			host = ip.String()
		} else if hostport != "" {
			host = hostport
		}
	}
	if n, err := strconv.ParseInt(port, 10, 32); err != nil || n > 65535 || n < 0 {
		port = defaultPort
	}

	baseURL := &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, port),
		Path:   path,
	}
	e.host = fmt.Sprintf("%s://%s", scheme, baseURL.Host)
	e.client = api.NewClient(baseURL, e.httpClient)
	return e
}

// GetEmbedding returns the embedding vector for a single text.
func (e *Embedder) GetEmbedding(ctx context.Context, text string) ([]float64, error) {
	vectors, err := e.GetEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// GetEmbeddings returns one embedding per text, preserving input order.
// Ollama's /api/embed accepts the whole batch in one request.
func (e *Embedder) GetEmbeddings(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for i, text := range texts {
		if text == "" {
			return nil, fmt.Errorf("text %d is empty", i)
		}
	}

	req := &api.EmbedRequest{
		Model:   e.model,
		Input:   texts,
		Options: e.options,
	}
	if e.truncate != nil {
		req.Truncate = e.truncate
	}

	response, err := e.client.Embed(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("ollama embed request: %w", err)
	}
	if len(response.Embeddings) != len(texts) {
		log.Warnf("ollama returned %d embeddings for %d inputs", len(response.Embeddings), len(texts))
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(response.Embeddings))
	}

	vectors := make([][]float64, len(response.Embeddings))
	for i, emb := range response.Embeddings {
		vec := make([]float64, len(emb))
		for j, v := range emb {
			vec[j] = float64(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// GetDimensions returns the number of dimensions in the embedding vectors.
func (e *Embedder) GetDimensions() int {
	return e.dimensions
}
