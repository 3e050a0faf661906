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

// RecursiveSplitter splits on the first separator present in an ordered
// list, re-splitting oversized segments with the remaining separators. The
// empty-string separator is the character-level fallback that always
// succeeds. Segments are then merged into chunks of at most the chunk size,
// carrying the trailing overlap of each chunk into the next.
type RecursiveSplitter struct {
	cfg config
}

// NewRecursive creates a recursive splitter.
func NewRecursive(opts ...Option) (*RecursiveSplitter, error) {
	s, err := New(StrategyRecursive, opts...)
	if err != nil {
		return nil, err
	}
	return s.(*RecursiveSplitter), nil
}

// Split splits text into chunks with offset and overlap metadata.
func (s *RecursiveSplitter) Split(_ context.Context, text string) ([]*Chunk, error) {
	if text == "" {
		return nil, nil
	}
	pieces := s.splitText(text, s.cfg.separators)
	return annotate(text, pieces, s.cfg.chunkOverlap), nil
}

// splitText recursively splits text and merges the resulting segments.
func (s *RecursiveSplitter) splitText(text string, separators []string) []string {
	// Pick the first separator present in the text. The empty string
	// always matches and terminates the recursion.
	separator := separators[len(separators)-1]
	var nextSeparators []string
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			separator = sep
			nextSeparators = separators[i+1:]
			break
		}
	}

	splits := splitWithSeparator(text, separator, s.cfg.keepSeparator)

	// When separators are kept they stay inside the segments, so the
	// merge step must not re-insert them.
	mergeSeparator := separator
	if s.cfg.keepSeparator {
		mergeSeparator = ""
	}

	var final []string
	var good []string
	for _, piece := range splits {
		if charLen(piece) < s.cfg.chunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			final = append(final, s.mergeSplits(good, mergeSeparator)...)
			good = nil
		}
		if len(nextSeparators) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.splitText(piece, nextSeparators)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.mergeSplits(good, mergeSeparator)...)
	}
	return final
}

// mergeSplits regroups small segments into chunks of at most the chunk
// size, retaining a sliding window of trailing segments whose total length
// stays within the overlap.
func (s *RecursiveSplitter) mergeSplits(splits []string, separator string) []string {
	separatorLen := charLen(separator)

	var docs []string
	var current []string
	total := 0

	joinLen := func(n int) int {
		if n > 0 {
			return separatorLen
		}
		return 0
	}

	for _, piece := range splits {
		pieceLen := charLen(piece)
		if total+pieceLen+joinLen(len(current)) > s.cfg.chunkSize {
			if len(current) > 0 {
				if doc := joinPieces(current, separator); doc != "" {
					docs = append(docs, doc)
				}
				// Drop leading segments until the window fits both the
				// overlap budget and the incoming segment.
				for total > s.cfg.chunkOverlap ||
					(total+pieceLen+joinLen(len(current)) > s.cfg.chunkSize && total > 0) {
					total -= charLen(current[0])
					if len(current) > 1 {
						total -= separatorLen
					}
					current = current[1:]
				}
			}
		}
		current = append(current, piece)
		total += pieceLen
		if len(current) > 1 {
			total += separatorLen
		}
	}
	if doc := joinPieces(current, separator); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

// splitWithSeparator splits text on a literal separator. With keep set the
// separator is prepended to the segment that follows it. Empty segments are
// dropped. The empty separator splits into individual characters.
func splitWithSeparator(text, separator string, keep bool) []string {
	var parts []string
	if separator == "" {
		parts = strings.Split(text, "")
	} else {
		parts = strings.Split(text, separator)
		if keep {
			for i := 1; i < len(parts); i++ {
				parts[i] = separator + parts[i]
			}
		}
	}
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// joinPieces joins segments with the separator and trims the result.
func joinPieces(pieces []string, separator string) string {
	return strings.TrimSpace(strings.Join(pieces, separator))
}
