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

// SentenceSplitter accumulates whole sentences into chunks. A chunk is
// closed when adding the next sentence would exceed the chunk size; as many
// trailing whole sentences as fit within the overlap are carried into the
// next chunk.
type SentenceSplitter struct {
	cfg config
}

// NewSentence creates a sentence-based splitter.
func NewSentence(opts ...Option) (*SentenceSplitter, error) {
	s, err := New(StrategySentence, opts...)
	if err != nil {
		return nil, err
	}
	return s.(*SentenceSplitter), nil
}

// Split splits text into chunks with offset and overlap metadata.
func (s *SentenceSplitter) Split(_ context.Context, text string) ([]*Chunk, error) {
	if text == "" {
		return nil, nil
	}
	sentences := splitSentences(text)
	pieces := accumulateUnits(sentences, " ", s.cfg.chunkSize, s.cfg.chunkOverlap)
	return annotate(text, pieces, s.cfg.chunkOverlap), nil
}

// splitSentences splits text after sentence-ending punctuation followed by
// whitespace. The whitespace run is consumed; punctuation stays attached to
// its sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			j := i + 1
			for j < len(text) && isSpaceByte(text[j]) {
				j++
			}
			if j > i+1 {
				sentences = append(sentences, text[start:i+1])
				start = j
				i = j - 1
			}
		}
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// accumulateUnits greedily packs units (sentences or paragraphs) into
// chunks joined by sep. When a chunk closes, trailing units whose combined
// length fits within the overlap seed the next chunk.
func accumulateUnits(units []string, sep string, chunkSize, chunkOverlap int) []string {
	var chunks []string
	var current []string
	currentSize := 0

	for _, unit := range units {
		unitSize := charLen(unit)

		if currentSize+unitSize > chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, sep))

			var carried []string
			carriedSize := 0
			for i := len(current) - 1; i >= 0; i-- {
				size := charLen(current[i])
				if carriedSize+size > chunkOverlap {
					break
				}
				carried = append([]string{current[i]}, carried...)
				carriedSize += size
			}
			current = carried
			currentSize = carriedSize
		}

		current = append(current, unit)
		currentSize += unitSize
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, sep))
	}
	return chunks
}
