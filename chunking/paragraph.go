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

// ParagraphSplitter accumulates blank-line-delimited paragraphs into
// chunks, using the same packing and backward-overlap rule as the sentence
// strategy. Retained paragraphs are rejoined with a blank line.
type ParagraphSplitter struct {
	cfg config
}

// NewParagraph creates a paragraph-based splitter.
func NewParagraph(opts ...Option) (*ParagraphSplitter, error) {
	s, err := New(StrategyParagraph, opts...)
	if err != nil {
		return nil, err
	}
	return s.(*ParagraphSplitter), nil
}

// Split splits text into chunks with offset and overlap metadata.
func (s *ParagraphSplitter) Split(_ context.Context, text string) ([]*Chunk, error) {
	if text == "" {
		return nil, nil
	}

	var paragraphs []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para != "" {
			paragraphs = append(paragraphs, para)
		}
	}

	pieces := accumulateUnits(paragraphs, "\n\n", s.cfg.chunkSize, s.cfg.chunkOverlap)
	return annotate(text, pieces, s.cfg.chunkOverlap), nil
}
