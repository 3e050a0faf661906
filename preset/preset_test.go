//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

package preset

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coursegraph/vectorize-go/chunking"
)

func TestByName(t *testing.T) {
	tests := []struct {
		name       string
		lookup     string
		want       string
		wantErr    bool
		wantSize   int
		wantStrat  chunking.Strategy
	}{
		{name: "slides", lookup: "slides", want: "slides", wantSize: 600, wantStrat: chunking.StrategyRecursive},
		{name: "upper case", lookup: "SLIDES", want: "slides", wantSize: 600, wantStrat: chunking.StrategyRecursive},
		{name: "mixed case", lookup: "Academic", want: "academic", wantSize: 2000, wantStrat: chunking.StrategySemantic},
		{name: "docs", lookup: "docs", want: "docs", wantSize: 1600, wantStrat: chunking.StrategyRecursive},
		{name: "code", lookup: "code", want: "code", wantSize: 2000, wantStrat: chunking.StrategyRecursive},
		{name: "granular", lookup: "granular", want: "granular", wantSize: 600, wantStrat: chunking.StrategySentence},
		{name: "default", lookup: "default", want: "default", wantSize: 1600, wantStrat: chunking.StrategyRecursive},
		{name: "padded", lookup: " docs ", want: "docs", wantSize: 1600, wantStrat: chunking.StrategyRecursive},
		{name: "unknown", lookup: "turbo", wantErr: true},
		{name: "empty", lookup: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ByName(tt.lookup)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrPresetNotFound)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got.Name)
			require.Equal(t, tt.wantSize, got.ChunkSize)
			require.Equal(t, tt.wantStrat, got.Strategy)
		})
	}
}

func TestByName_MixedCaseMatchesLower(t *testing.T) {
	upper, err := ByName("SLIDES")
	require.NoError(t, err)
	lower, err := ByName("slides")
	require.NoError(t, err)
	require.Equal(t, lower, upper)
}

func TestList(t *testing.T) {
	presets := List()
	require.Len(t, presets, 6)

	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}
	require.Equal(t, []string{"slides", "academic", "docs", "code", "granular", "default"}, names)
}

func TestConfig_Validate(t *testing.T) {
	for _, p := range List() {
		require.NoError(t, p.Validate(), "preset %s", p.Name)
		require.Less(t, p.ChunkOverlap, p.ChunkSize, "preset %s", p.Name)
	}

	bad := Config{Name: "bad", ChunkSize: 100, ChunkOverlap: 100}
	require.ErrorIs(t, bad.Validate(), chunking.ErrOverlapTooLarge)

	zero := Config{Name: "zero"}
	require.ErrorIs(t, zero.Validate(), chunking.ErrInvalidChunkSize)
}

func TestConfig_ApproxTokens(t *testing.T) {
	require.Equal(t, 150, Slides.ApproxTokens())
	require.Equal(t, 15, Slides.ApproxOverlapTokens())
	require.Equal(t, 500, Academic.ApproxTokens())
	require.Equal(t, 400, Default.ApproxTokens())
}
