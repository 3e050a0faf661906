//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

package chunking

import (
	"context"
	"strings"
)

// FixedSplitter hard-cuts the text into windows of the chunk size, each
// window starting chunk size minus overlap characters after the previous
// one. Word and sentence boundaries are ignored.
type FixedSplitter struct {
	cfg config
}

// NewFixed creates a fixed-size splitter.
func NewFixed(opts ...Option) (*FixedSplitter, error) {
	s, err := New(StrategyFixedChar, opts...)
	if err != nil {
		return nil, err
	}
	return s.(*FixedSplitter), nil
}

// Split splits text into chunks with offset and overlap metadata.
func (s *FixedSplitter) Split(_ context.Context, text string) ([]*Chunk, error) {
	if text == "" {
		return nil, nil
	}

	runes := []rune(text)
	step := s.cfg.chunkSize - s.cfg.chunkOverlap

	var pieces []string
	for start := 0; start < len(runes); start += step {
		end := start + s.cfg.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			pieces = append(pieces, piece)
		}
		if end == len(runes) {
			break
		}
	}
	return annotate(text, pieces, s.cfg.chunkOverlap), nil
}
