//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

// Package chunking provides text splitting strategies with overlap bookkeeping.
//
// All strategies produce the same output shape: an ordered sequence of chunks
// carrying character offsets into the original text, a token estimate, and the
// measured overlap with the preceding chunk. Sizes and overlaps are character
// counts, never token counts.
package chunking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/coursegraph/vectorize-go/embedder"
)

// Chunk is a contiguous span of source text produced by a splitter.
// Chunks are immutable once created; re-splitting regenerates the sequence.
type Chunk struct {
	// Content is the chunk text.
	Content string
	// Index is the 0-based position among chunks from one source text.
	Index int
	// CharStart and CharEnd are byte offsets into the original text.
	CharStart int
	CharEnd   int
	// TokenCount is an approximation (length / 4), for reporting only.
	TokenCount int
	// IsFirst and IsLast are positional flags.
	IsFirst bool
	IsLast  bool
	// OverlapCharCount is the length of the textual overlap with the
	// immediately preceding chunk. Zero for the first chunk.
	OverlapCharCount int
}

// Strategy identifies a text splitting algorithm.
type Strategy int

const (
	// StrategyRecursive splits on an ordered separator list, falling back to
	// finer separators for oversized segments. The recommended default.
	StrategyRecursive Strategy = iota
	// StrategyFixedChar hard-cuts fixed-size windows with backward overlap.
	StrategyFixedChar
	// StrategySentence accumulates whole sentences up to the chunk size.
	StrategySentence
	// StrategyParagraph accumulates blank-line-delimited paragraphs.
	StrategyParagraph
	// StrategySemantic breaks at topic shifts detected via embeddings.
	StrategySemantic
)

// strategyNames maps strategies to their canonical names.
var strategyNames = map[Strategy]string{
	StrategyRecursive: "recursive",
	StrategyFixedChar: "fixed_char",
	StrategySentence:  "sentence",
	StrategyParagraph: "paragraph",
	StrategySemantic:  "semantic",
}

// String returns the canonical name of the strategy.
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// ParseStrategy resolves a strategy name to its Strategy value.
// "fixed" is accepted as an alias for "fixed_char".
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "recursive":
		return StrategyRecursive, nil
	case "fixed_char", "fixed":
		return StrategyFixedChar, nil
	case "sentence":
		return StrategySentence, nil
	case "paragraph":
		return StrategyParagraph, nil
	case "semantic":
		return StrategySemantic, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// DefaultSeparators is the separator list used by the recursive strategy
// when no custom separators are supplied.
var DefaultSeparators = []string{"\n\n", "\n", ". ", ", ", " ", ""}

// Default chunk parameters, matching the "default" preset.
const (
	defaultChunkSize    = 1600
	defaultChunkOverlap = 240
)

// Validation and configuration errors.
var (
	// ErrUnknownStrategy indicates an unrecognized strategy name or value.
	ErrUnknownStrategy = errors.New("chunking: unknown strategy")
	// ErrOverlapTooLarge indicates chunk overlap >= chunk size.
	ErrOverlapTooLarge = errors.New("chunking: chunk overlap must be smaller than chunk size")
	// ErrInvalidChunkSize indicates a non-positive chunk size.
	ErrInvalidChunkSize = errors.New("chunking: chunk size must be positive")
	// ErrNilEmbedder indicates the semantic strategy was requested without an embedder.
	ErrNilEmbedder = errors.New("chunking: semantic strategy requires an embedder")
)

// Splitter splits text into an ordered chunk sequence.
type Splitter interface {
	Split(ctx context.Context, text string) ([]*Chunk, error)
}

// config holds the shared splitter parameters.
type config struct {
	chunkSize     int
	chunkOverlap  int
	separators    []string
	keepSeparator bool
	embedder      embedder.Embedder
	percentile    float64
}

// Option configures a splitter.
type Option func(*config)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *config) {
		c.chunkSize = size
	}
}

// WithChunkOverlap sets the overlap between consecutive chunks in characters.
func WithChunkOverlap(overlap int) Option {
	return func(c *config) {
		c.chunkOverlap = overlap
	}
}

// WithSeparators sets the ordered separator list for the recursive strategy.
func WithSeparators(separators []string) Option {
	return func(c *config) {
		c.separators = separators
	}
}

// WithKeepSeparator keeps separators attached to the start of the segment
// that follows them when splitting recursively.
func WithKeepSeparator(keep bool) Option {
	return func(c *config) {
		c.keepSeparator = keep
	}
}

// WithEmbedder sets the embedder used by the semantic strategy.
func WithEmbedder(e embedder.Embedder) Option {
	return func(c *config) {
		c.embedder = e
	}
}

// WithBreakpointPercentile sets the distance percentile (0-100) at which the
// semantic strategy places chunk boundaries.
func WithBreakpointPercentile(p float64) Option {
	return func(c *config) {
		c.percentile = p
	}
}

// New creates a splitter for the given strategy. It fails fast on invalid
// parameters: chunk overlap must be strictly smaller than chunk size.
func New(strategy Strategy, opts ...Option) (Splitter, error) {
	cfg := config{
		chunkSize:    defaultChunkSize,
		chunkOverlap: defaultChunkOverlap,
		percentile:   defaultBreakpointPercentile,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunkSize, cfg.chunkSize)
	}
	if cfg.chunkOverlap >= cfg.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d, size %d",
			ErrOverlapTooLarge, cfg.chunkOverlap, cfg.chunkSize)
	}
	if len(cfg.separators) == 0 {
		cfg.separators = DefaultSeparators
	}
	switch strategy {
	case StrategyRecursive:
		return &RecursiveSplitter{cfg: cfg}, nil
	case StrategyFixedChar:
		return &FixedSplitter{cfg: cfg}, nil
	case StrategySentence:
		return &SentenceSplitter{cfg: cfg}, nil
	case StrategyParagraph:
		return &ParagraphSplitter{cfg: cfg}, nil
	case StrategySemantic:
		if cfg.embedder == nil {
			return nil, ErrNilEmbedder
		}
		return &SemanticSplitter{cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownStrategy, strategy)
	}
}

// EstimateTokens approximates the token count of text as length / 4.
// It is a reporting aid, never an input to chunking decisions.
func EstimateTokens(text string) int {
	return charLen(text) / 4
}

// charLen measures text length in characters, not bytes.
func charLen(s string) int {
	return utf8.RuneCountInString(s)
}

// annotate converts raw text pieces into chunks with offsets, token
// estimates, and overlap accounting against the original text.
//
// Offsets are reconstructed by searching for each piece starting from the
// previous piece's start plus its length minus the configured overlap, so
// that overlapping repeats are found rather than an earlier unrelated
// occurrence. When the exact text occurs more than once the located offset
// is a valid location of that text, not necessarily the originating one.
func annotate(original string, pieces []string, chunkOverlap int) []*Chunk {
	chunks := make([]*Chunk, 0, len(pieces))
	searchStart := 0
	for i, piece := range pieces {
		start := indexFrom(original, piece, searchStart)
		if start < 0 {
			start = searchStart
			if start > len(original) {
				start = len(original)
			}
		}
		end := start + len(piece)

		overlapCount := 0
		if i > 0 {
			overlapCount = prefixOverlap(pieces[i-1], piece)
		}

		chunks = append(chunks, &Chunk{
			Content:          piece,
			Index:            i,
			CharStart:        start,
			CharEnd:          end,
			TokenCount:       EstimateTokens(piece),
			IsFirst:          i == 0,
			IsLast:           i == len(pieces)-1,
			OverlapCharCount: overlapCount,
		})

		searchStart = end - chunkOverlap
		if searchStart < 0 {
			searchStart = 0
		}
	}
	return chunks
}

// indexFrom locates sub in s at or after the from offset.
func indexFrom(s, sub string, from int) int {
	if from < 0 {
		from = 0
	}
	if from > len(s) {
		return -1
	}
	idx := strings.Index(s[from:], sub)
	if idx < 0 {
		return -1
	}
	return from + idx
}

// prefixOverlap returns the length of the longest prefix of cur that occurs
// anywhere in prev. This measures the textual overlap carried forward from
// the previous chunk.
func prefixOverlap(prev, cur string) int {
	limit := len(cur)
	if len(prev) < limit {
		limit = len(prev)
	}
	overlap := 0
	for j := 1; j <= limit; j++ {
		if !strings.Contains(prev, cur[:j]) {
			break
		}
		overlap = j
	}
	return overlap
}
