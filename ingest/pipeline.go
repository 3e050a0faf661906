//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

// Package ingest orchestrates the full pipeline from raw file bytes to
// stored vectors: parse, clean, chunk, embed, upsert. Single-file
// failures are captured as results, never as errors, so a batch always
// runs to completion.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/coursegraph/vectorize-go/chunking"
	"github.com/coursegraph/vectorize-go/cleaner"
	"github.com/coursegraph/vectorize-go/document"
	"github.com/coursegraph/vectorize-go/document/reader"
	"github.com/coursegraph/vectorize-go/embedder"
	"github.com/coursegraph/vectorize-go/log"
	"github.com/coursegraph/vectorize-go/preset"
	"github.com/coursegraph/vectorize-go/vectorstore"
)

var (
	// ErrNilEmbedder indicates that the pipeline was built without an
	// embedder.
	ErrNilEmbedder = errors.New("ingest: embedder is required")
	// ErrNilStore indicates that the pipeline was built without a vector
	// store.
	ErrNilStore = errors.New("ingest: vector store is required")
)

// ProgressFunc is invoked after each file in a batch completes.
// Implementations must be fast; the batch blocks on the callback.
type ProgressFunc func(message string, current, total int)

// FileInput is one file handed to the pipeline.
type FileInput struct {
	// Name is the filename, used for format detection, content-type
	// detection and document identity.
	Name string
	// Path is the original location, stored as chunk metadata. Optional.
	Path string
	// Data is the raw file content.
	Data []byte
}

// Pipeline wires an embedder and a vector store into a batch ingestion
// service. It is safe for concurrent use.
type Pipeline struct {
	embedder    embedder.Embedder
	store       vectorstore.VectorStore
	config      Config
	progress    ProgressFunc
	concurrency int

	// docLocks serializes the check-then-upsert window per document ID
	// when files are processed concurrently.
	docLocks sync.Map
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithConfig replaces the default processing configuration.
func WithConfig(c Config) Option {
	return func(p *Pipeline) {
		p.config = c
	}
}

// WithProgress installs a callback reporting per-file batch progress.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// WithConcurrency sets how many files a batch processes in parallel.
// Values below 2 keep processing sequential.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		p.concurrency = n
	}
}

// New builds a pipeline and validates its configuration before any file
// work starts.
func New(e embedder.Embedder, store vectorstore.VectorStore, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		embedder: e,
		store:    store,
		config:   DefaultConfig(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.embedder == nil {
		return nil, ErrNilEmbedder
	}
	if p.store == nil {
		return nil, ErrNilStore
	}
	if err := p.config.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Config returns the pipeline's base configuration.
func (p *Pipeline) Config() Config {
	return p.config
}

// Close releases the underlying vector store.
func (p *Pipeline) Close() error {
	return p.store.Close()
}

// ProcessFile runs one file through the full pipeline. The outcome,
// including any failure, is recorded in the returned result.
func (p *Pipeline) ProcessFile(ctx context.Context, input FileInput) *ProcessingResult {
	result := &ProcessingResult{Filename: input.Name}

	text, err := p.extract(input)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if p.config.CleanText {
		text = cleaner.Clean(text)
	}
	if strings.TrimSpace(text) == "" {
		result.Error = "empty document or failed to extract text"
		return result
	}

	cfg := p.effectiveConfig(input, text)
	result.Preset = cfg.Preset
	result.DocumentID = DocumentID(input.Name, text)

	unlock := p.lockDocument(result.DocumentID)
	defer unlock()

	if p.config.SkipExisting {
		existing, err := p.store.Get(ctx,
			map[string]any{document.MetaDocumentID: result.DocumentID})
		if err != nil {
			result.Error = fmt.Sprintf("existence check failed: %v", err)
			return result
		}
		if len(existing) > 0 {
			log.Debugf("document %s already stored, skipping %s",
				result.DocumentID, input.Name)
			result.Success = true
			result.Error = SkippedExisting
			return result
		}
	}

	chunks, err := p.split(ctx, cfg, text)
	if err != nil {
		result.Error = fmt.Sprintf("chunking failed: %v", err)
		return result
	}
	if len(chunks) == 0 {
		result.Error = "no chunks created"
		return result
	}

	embeddings, err := p.embedChunks(ctx, chunks)
	if err != nil {
		result.Error = fmt.Sprintf("embedding failed: %v", err)
		return result
	}

	records := p.buildRecords(input, result.DocumentID, chunks, embeddings)
	if err := p.store.Upsert(ctx, records); err != nil {
		result.Error = fmt.Sprintf("storage failed: %v", err)
		return result
	}

	result.Success = true
	result.ChunksCreated = len(chunks)
	result.EmbeddingsCreated = len(embeddings)
	log.Infof("processed %s: %d chunks stored as %s",
		input.Name, len(chunks), result.DocumentID)
	return result
}

// Count returns the number of stored chunks.
func (p *Pipeline) Count(ctx context.Context) (int, error) {
	return p.store.Count(ctx)
}

// DeleteDocument removes every stored chunk of one document.
func (p *Pipeline) DeleteDocument(ctx context.Context, documentID string) error {
	unlock := p.lockDocument(documentID)
	defer unlock()
	return p.store.DeleteByFilter(ctx,
		map[string]any{document.MetaDocumentID: documentID})
}

// Clear removes every stored chunk but keeps the collection.
func (p *Pipeline) Clear(ctx context.Context) error {
	return p.store.DeleteByFilter(ctx, nil)
}

// Search embeds the query text and returns the closest stored chunks,
// most similar first.
func (p *Pipeline) Search(ctx context.Context, query string, limit int) ([]*vectorstore.ScoredRecord, error) {
	vector, err := p.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return p.store.Query(ctx, vector, limit, nil)
}

// extract parses the raw bytes into plain text via the reader registered
// for the file's extension.
func (p *Pipeline) extract(input FileInput) (string, error) {
	ext := filepath.Ext(input.Name)
	r, ok := reader.Get(ext)
	if !ok {
		return "", fmt.Errorf("%w: %s", reader.ErrUnsupportedFormat, ext)
	}
	doc, err := r.Parse(input.Data, input.Name)
	if err != nil {
		return "", err
	}
	log.Debugf("parsed %s with %s: %d bytes", input.Name, r.Name(), doc.Size())
	return doc.Content, nil
}

// effectiveConfig resolves the chunking parameters for one file: an
// explicit preset wins, otherwise auto-detection picks one, otherwise
// the base config applies as-is.
func (p *Pipeline) effectiveConfig(input FileInput, text string) Config {
	if p.config.Preset != "" {
		if pc, err := preset.ByName(p.config.Preset); err == nil {
			return p.config.withPreset(pc)
		}
		return p.config
	}
	if p.config.AutoDetectPreset {
		detected := preset.Detect(input.Name, text, input.Path)
		log.Debugf("auto-detected preset %s for %s", detected.Name, input.Name)
		return p.config.withPreset(detected)
	}
	return p.config
}

func (p *Pipeline) split(ctx context.Context, cfg Config, text string) ([]*chunking.Chunk, error) {
	opts := []chunking.Option{
		chunking.WithChunkSize(cfg.ChunkSize),
		chunking.WithChunkOverlap(cfg.ChunkOverlap),
		chunking.WithKeepSeparator(cfg.KeepSeparator),
		chunking.WithEmbedder(p.embedder),
	}
	if len(cfg.Separators) > 0 {
		opts = append(opts, chunking.WithSeparators(cfg.Separators))
	}
	splitter, err := chunking.New(cfg.Strategy, opts...)
	if err != nil {
		return nil, err
	}
	return splitter.Split(ctx, text)
}

// embedChunks embeds chunk texts in batches of at most BatchSize.
func (p *Pipeline) embedChunks(ctx context.Context, chunks []*chunking.Chunk) ([][]float64, error) {
	batchSize := p.config.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultConfig().BatchSize
	}
	embeddings := make([][]float64, 0, len(chunks))
	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Content)
		}
		vectors, err := p.embedder.GetEmbeddings(ctx, texts)
		if err != nil {
			return nil, err
		}
		embeddings = append(embeddings, vectors...)
	}
	return embeddings, nil
}

func (p *Pipeline) buildRecords(input FileInput, documentID string, chunks []*chunking.Chunk, embeddings [][]float64) []*vectorstore.Record {
	records := make([]*vectorstore.Record, 0, len(chunks))
	for i, c := range chunks {
		records = append(records, &vectorstore.Record{
			ID:        ChunkID(documentID, i),
			Content:   c.Content,
			Embedding: embeddings[i],
			Metadata: map[string]any{
				document.MetaDocumentID: documentID,
				document.MetaFileName:   input.Name,
				document.MetaFilePath:   input.Path,
				document.MetaChunkIndex: i,
				document.MetaStartChar:  c.CharStart,
				document.MetaEndChar:    c.CharEnd,
				document.MetaCharCount:  utf8.RuneCountInString(c.Content),
			},
		})
	}
	return records
}

// lockDocument acquires the per-document mutex and returns its unlock.
func (p *Pipeline) lockDocument(documentID string) func() {
	v, _ := p.docLocks.LoadOrStore(documentID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
