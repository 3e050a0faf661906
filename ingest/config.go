//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

package ingest

import (
	"fmt"

	"github.com/coursegraph/vectorize-go/chunking"
	"github.com/coursegraph/vectorize-go/preset"
)

// Config controls how files are chunked and stored. The chunking fields
// may be overridden per file by an explicit preset or by auto-detection;
// the processing fields always pass through unchanged.
type Config struct {
	// Chunking parameters, overridable by preset.
	Strategy      chunking.Strategy
	ChunkSize     int
	ChunkOverlap  int
	Separators    []string
	KeepSeparator bool

	// Preset names a catalog preset to apply to every file. When empty
	// and AutoDetectPreset is set, each file gets the preset recommended
	// by content-type detection.
	Preset           string
	AutoDetectPreset bool

	// BatchSize caps how many chunk texts go into one embedding request.
	BatchSize int
	// SkipExisting makes re-ingestion of an already stored document a
	// no-op instead of a duplicate.
	SkipExisting bool
	// CleanText runs extraction-noise cleanup before chunking.
	CleanText bool
}

// DefaultConfig returns the balanced defaults used when no preset is
// chosen: the default preset's chunking parameters, auto-detection on,
// idempotent re-ingestion on.
func DefaultConfig() Config {
	return Config{
		Strategy:         chunking.StrategyRecursive,
		ChunkSize:        1600,
		ChunkOverlap:     240,
		KeepSeparator:    true,
		AutoDetectPreset: true,
		BatchSize:        32,
		SkipExisting:     true,
		CleanText:        true,
	}
}

// Validate fails fast on configurations that cannot be processed. It
// runs once before any file work starts.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: %d", chunking.ErrInvalidChunkSize, c.ChunkSize)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: overlap %d, size %d",
			chunking.ErrOverlapTooLarge, c.ChunkOverlap, c.ChunkSize)
	}
	if c.Preset != "" {
		if _, err := preset.ByName(c.Preset); err != nil {
			return err
		}
	}
	return nil
}

// withPreset returns a copy of the config with the preset's chunking
// parameters overlaid. Processing fields pass through unchanged.
func (c Config) withPreset(p preset.Config) Config {
	out := c
	out.Strategy = p.Strategy
	out.ChunkSize = p.ChunkSize
	out.ChunkOverlap = p.ChunkOverlap
	out.Separators = p.Separators
	out.KeepSeparator = p.KeepSeparator
	out.Preset = p.Name
	out.AutoDetectPreset = false
	return out
}
