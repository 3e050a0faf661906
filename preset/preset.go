//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

// Package preset provides named chunking configurations tuned for
// different content types, plus a heuristic detector that recommends a
// preset from a file's name, path, and content sample.
package preset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coursegraph/vectorize-go/chunking"
)

// ErrPresetNotFound indicates an unrecognized preset name.
var ErrPresetNotFound = errors.New("preset: not found")

// Config is an immutable named chunking configuration.
type Config struct {
	Name        string
	Description string

	// ChunkSize and ChunkOverlap are character counts.
	ChunkSize    int
	ChunkOverlap int
	Strategy     chunking.Strategy

	// RecommendedModel is the embedding model suggested for this preset.
	RecommendedModel string

	// Separators is only meaningful for the recursive strategy.
	Separators    []string
	KeepSeparator bool
}

// ApproxTokens returns the approximate chunk size in tokens.
func (c Config) ApproxTokens() int {
	return c.ChunkSize / 4
}

// ApproxOverlapTokens returns the approximate overlap in tokens.
func (c Config) ApproxOverlapTokens() int {
	return c.ChunkOverlap / 4
}

// Validate reports whether the configuration can be chunked with.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: preset %q", chunking.ErrInvalidChunkSize, c.Name)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: preset %q", chunking.ErrOverlapTooLarge, c.Name)
	}
	return nil
}

const defaultRecommendedModel = "text-embedding-3-large"

// The fixed preset catalog. Sizes reflect the usual guidance: small
// chunks for bullet-point and fact-heavy content, large chunks for dense
// narrative text, 10-20% overlap.
var (
	// Slides targets lecture slides and presentations: bullet points and
	// short lines, roughly one or two slides per chunk.
	Slides = Config{
		Name:             "slides",
		Description:      "Optimized for lecture slides and presentations with bullet points",
		ChunkSize:        600,
		ChunkOverlap:     60,
		Strategy:         chunking.StrategyRecursive,
		RecommendedModel: defaultRecommendedModel,
		Separators:       []string{"\n\n", "\n", "• ", "- ", ". ", " ", ""},
		KeepSeparator:    true,
	}

	// Academic targets papers and dense readings. Semantic chunking pays
	// off on long argumentative text.
	Academic = Config{
		Name:             "academic",
		Description:      "Optimized for academic papers and dense readings",
		ChunkSize:        2000,
		ChunkOverlap:     400,
		Strategy:         chunking.StrategySemantic,
		RecommendedModel: defaultRecommendedModel,
		KeepSeparator:    true,
	}

	// Docs targets technical documentation and handouts.
	Docs = Config{
		Name:             "docs",
		Description:      "Optimized for technical documentation and handouts",
		ChunkSize:        1600,
		ChunkOverlap:     240,
		Strategy:         chunking.StrategyRecursive,
		RecommendedModel: defaultRecommendedModel,
		Separators:       []string{"\n\n", "\n", "```", ". ", " ", ""},
		KeepSeparator:    true,
	}

	// Code targets source files, splitting near function boundaries.
	Code = Config{
		Name:             "code",
		Description:      "Optimized for source code files",
		ChunkSize:        2000,
		ChunkOverlap:     200,
		Strategy:         chunking.StrategyRecursive,
		RecommendedModel: defaultRecommendedModel,
		Separators: []string{
			"\nclass ", "\ndef ", "\n\ndef ", "\n\n", "\n",
			"function ", "const ", "let ", "var ",
			"public ", "private ", "protected ",
			" ", "",
		},
		KeepSeparator: true,
	}

	// Granular targets fact-heavy content such as Q&A and definitions.
	Granular = Config{
		Name:             "granular",
		Description:      "Fine-grained chunks for fact-heavy content",
		ChunkSize:        600,
		ChunkOverlap:     60,
		Strategy:         chunking.StrategySentence,
		RecommendedModel: defaultRecommendedModel,
		KeepSeparator:    true,
	}

	// Default is the balanced preset for general content.
	Default = Config{
		Name:             "default",
		Description:      "Balanced preset for general content",
		ChunkSize:        1600,
		ChunkOverlap:     240,
		Strategy:         chunking.StrategyRecursive,
		RecommendedModel: defaultRecommendedModel,
		KeepSeparator:    true,
	}
)

// catalog lists all presets in a stable order.
var catalog = []Config{Slides, Academic, Docs, Code, Granular, Default}

// ByName looks up a preset case-insensitively. Unknown names are an
// error, not a silent default.
func ByName(name string) (Config, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, c := range catalog {
		if c.Name == lower {
			return c, nil
		}
	}
	return Config{}, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
}

// List returns all presets in catalog order.
func List() []Config {
	out := make([]Config, len(catalog))
	copy(out, catalog)
	return out
}
