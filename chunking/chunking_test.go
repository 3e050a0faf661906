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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Strategy
		wantErr bool
	}{
		{name: "recursive", input: "recursive", want: StrategyRecursive},
		{name: "fixed_char", input: "fixed_char", want: StrategyFixedChar},
		{name: "fixed alias", input: "fixed", want: StrategyFixedChar},
		{name: "sentence", input: "sentence", want: StrategySentence},
		{name: "paragraph", input: "paragraph", want: StrategyParagraph},
		{name: "semantic", input: "semantic", want: StrategySemantic},
		{name: "mixed case", input: "Recursive", want: StrategyRecursive},
		{name: "padded", input: "  sentence ", want: StrategySentence},
		{name: "unknown", input: "bogus", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStrategy(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownStrategy)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNew_Validation(t *testing.T) {
	strategies := []Strategy{
		StrategyRecursive, StrategyFixedChar, StrategySentence, StrategyParagraph, StrategySemantic,
	}
	for _, strategy := range strategies {
		_, err := New(strategy, WithChunkSize(100), WithChunkOverlap(100))
		require.ErrorIs(t, err, ErrOverlapTooLarge, "strategy %v", strategy)

		_, err = New(strategy, WithChunkSize(100), WithChunkOverlap(150))
		require.ErrorIs(t, err, ErrOverlapTooLarge, "strategy %v", strategy)
	}

	_, err := New(StrategyRecursive, WithChunkSize(0))
	require.ErrorIs(t, err, ErrInvalidChunkSize)

	_, err = New(Strategy(99))
	require.ErrorIs(t, err, ErrUnknownStrategy)

	_, err = New(StrategySemantic, WithChunkSize(100), WithChunkOverlap(10))
	require.ErrorIs(t, err, ErrNilEmbedder)
}

func TestSplit_EmptyText(t *testing.T) {
	for _, strategy := range []Strategy{
		StrategyRecursive, StrategyFixedChar, StrategySentence, StrategyParagraph,
	} {
		s, err := New(strategy, WithChunkSize(100), WithChunkOverlap(10))
		require.NoError(t, err)
		chunks, err := s.Split(context.Background(), "")
		require.NoError(t, err)
		require.Empty(t, chunks, "strategy %v", strategy)
	}
}

func TestSentenceSplitter_Scenario(t *testing.T) {
	text := "Sentence one. Sentence two. Sentence three."
	s, err := NewSentence(WithChunkSize(20), WithChunkOverlap(10))
	require.NoError(t, err)

	chunks, err := s.Split(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	require.Equal(t, "Sentence one.", chunks[0].Content)
	require.Equal(t, "Sentence two.", chunks[1].Content)
	require.Equal(t, "Sentence three.", chunks[2].Content)

	for i, c := range chunks {
		require.Equal(t, i, c.Index)
		require.Equal(t, c.Content, text[c.CharStart:c.CharEnd])
		require.True(t, strings.HasSuffix(c.Content, "."), "chunk %d not sentence-aligned", i)
	}
	require.True(t, chunks[0].IsFirst)
	require.False(t, chunks[0].IsLast)
	require.True(t, chunks[2].IsLast)
	require.Zero(t, chunks[0].OverlapCharCount)
}

func TestSentenceSplitter_CarriesOverlapSentences(t *testing.T) {
	// Short sentences so a whole trailing sentence fits in the overlap.
	text := "Aa bb. Cc dd. Ee ff. Gg hh."
	s, err := NewSentence(WithChunkSize(14), WithChunkOverlap(7))
	require.NoError(t, err)

	chunks, err := s.Split(context.Background(), text)
	require.NoError(t, err)
	require.Equal(t, []string{
		"Aa bb. Cc dd.",
		"Cc dd. Ee ff.",
		"Ee ff. Gg hh.",
	}, chunkContents(chunks))

	// Each chunk after the first begins with the previous chunk's final
	// sentence, carried backward as overlap.
	for i := 1; i < len(chunks); i++ {
		require.Positive(t, chunks[i].OverlapCharCount)
		require.LessOrEqual(t, chunks[i].OverlapCharCount, 7)
	}
}

func chunkContents(chunks []*Chunk) []string {
	contents := make([]string, len(chunks))
	for i, c := range chunks {
		contents[i] = c.Content
	}
	return contents
}

func TestFixedSplitter_Windows(t *testing.T) {
	text := "abcdefghijklmnopqrstuvwxy"
	s, err := NewFixed(WithChunkSize(10), WithChunkOverlap(3))
	require.NoError(t, err)

	chunks, err := s.Split(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, chunks, 4)

	require.Equal(t, "abcdefghij", chunks[0].Content)
	require.Equal(t, "hijklmnopq", chunks[1].Content)
	require.Equal(t, "opqrstuvwx", chunks[2].Content)
	require.Equal(t, "vwxy", chunks[3].Content)

	for i, c := range chunks {
		require.Equal(t, c.Content, text[c.CharStart:c.CharEnd], "chunk %d offsets", i)
		require.LessOrEqual(t, len(c.Content), 10)
		if i > 0 {
			require.Equal(t, 3, c.OverlapCharCount)
		}
	}
}

func TestFixedSplitter_Coverage(t *testing.T) {
	text := "abcdefghijklmnopqrstuvwxyz0123456789ABCDEFGHIJ"
	s, err := NewFixed(WithChunkSize(12), WithChunkOverlap(4))
	require.NoError(t, err)

	chunks, err := s.Split(context.Background(), text)
	require.NoError(t, err)

	// Concatenating the non-overlapping portion of each chunk must
	// reconstruct the original text.
	var rebuilt strings.Builder
	prevEnd := 0
	for _, c := range chunks {
		require.LessOrEqual(t, c.CharStart, prevEnd)
		rebuilt.WriteString(c.Content[prevEnd-c.CharStart:])
		prevEnd = c.CharEnd
	}
	require.Equal(t, text, rebuilt.String())
}

func TestParagraphSplitter_Boundaries(t *testing.T) {
	p1 := "One two three four five."
	p2 := "Six seven eight nine ten."
	p3 := "Eleven twelve thirteen fourteen."
	text := p1 + "\n\n" + p2 + "\n\n" + p3

	s, err := NewParagraph(WithChunkSize(60), WithChunkOverlap(30))
	require.NoError(t, err)

	chunks, err := s.Split(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	require.Equal(t, p1+"\n\n"+p2, chunks[0].Content)
	require.Equal(t, p2+"\n\n"+p3, chunks[1].Content)

	// The shared paragraph is counted as overlap.
	require.Equal(t, len(p2), chunks[1].OverlapCharCount)
	require.Equal(t, chunks[1].Content, text[chunks[1].CharStart:chunks[1].CharEnd])
}

func TestRecursiveSplitter_ParagraphBoundaries(t *testing.T) {
	p1 := "One two three four five."
	p2 := "Six seven eight nine ten."
	p3 := "Eleven twelve thirteen fourteen."
	text := p1 + "\n\n" + p2 + "\n\n" + p3

	s, err := NewRecursive(WithChunkSize(60), WithChunkOverlap(0))
	require.NoError(t, err)

	chunks, err := s.Split(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	require.Equal(t, p1+"\n\n"+p2, chunks[0].Content)
	require.Equal(t, p3, chunks[1].Content)
}

func TestRecursiveSplitter_OverlapWindow(t *testing.T) {
	p1 := "One two three four five."
	p2 := "Six seven eight nine ten."
	p3 := "Eleven twelve thirteen fourteen."
	text := p1 + "\n\n" + p2 + "\n\n" + p3

	s, err := NewRecursive(WithChunkSize(60), WithChunkOverlap(30))
	require.NoError(t, err)

	chunks, err := s.Split(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	require.Equal(t, p1+"\n\n"+p2, chunks[0].Content)
	require.Equal(t, p2+"\n\n"+p3, chunks[1].Content)
	require.LessOrEqual(t, chunks[1].OverlapCharCount, 30)
}

func TestRecursiveSplitter_LongWordFallsBackToCharCut(t *testing.T) {
	text := strings.Repeat("x", 50)
	s, err := NewRecursive(WithChunkSize(20), WithChunkOverlap(5))
	require.NoError(t, err)

	chunks, err := s.Split(context.Background(), text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		require.LessOrEqual(t, len(c.Content), 20, "chunk %d", i)
	}
}

func TestRecursiveSplitter_KeepSeparator(t *testing.T) {
	parts := splitWithSeparator("alpha\n\nbeta\n\ngamma", "\n\n", true)
	require.Equal(t, []string{"alpha", "\n\nbeta", "\n\ngamma"}, parts)

	parts = splitWithSeparator("alpha\n\nbeta", "\n\n", false)
	require.Equal(t, []string{"alpha", "beta"}, parts)

	chars := splitWithSeparator("abc", "", false)
	require.Equal(t, []string{"a", "b", "c"}, chars)
}

func TestSplit_Determinism(t *testing.T) {
	text := "First sentence here. Second sentence follows. Third one too.\n\n" +
		"A new paragraph with more words than before. And a closing line."
	for _, strategy := range []Strategy{
		StrategyRecursive, StrategyFixedChar, StrategySentence, StrategyParagraph,
	} {
		s, err := New(strategy, WithChunkSize(40), WithChunkOverlap(10))
		require.NoError(t, err)

		first, err := s.Split(context.Background(), text)
		require.NoError(t, err)
		second, err := s.Split(context.Background(), text)
		require.NoError(t, err)
		require.Equal(t, first, second, "strategy %v", strategy)
	}
}

func TestSplit_OverlapBound(t *testing.T) {
	text := "Alpha beta gamma delta. Epsilon zeta eta theta. Iota kappa lambda mu. " +
		"Nu xi omicron pi. Rho sigma tau upsilon."
	for _, strategy := range []Strategy{
		StrategyRecursive, StrategyFixedChar, StrategySentence, StrategyParagraph,
	} {
		s, err := New(strategy, WithChunkSize(30), WithChunkOverlap(12))
		require.NoError(t, err)

		chunks, err := s.Split(context.Background(), text)
		require.NoError(t, err)
		for i, c := range chunks {
			require.LessOrEqual(t, c.OverlapCharCount, 12,
				"strategy %v chunk %d", strategy, i)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "periods",
			input: "One. Two. Three.",
			want:  []string{"One.", "Two.", "Three."},
		},
		{
			name:  "mixed punctuation",
			input: "Really? Yes! Fine.",
			want:  []string{"Really?", "Yes!", "Fine."},
		},
		{
			name:  "newline separated",
			input: "First.\nSecond.",
			want:  []string{"First.", "Second."},
		},
		{
			name:  "no terminal punctuation",
			input: "Just a fragment",
			want:  []string{"Just a fragment"},
		},
		{
			name:  "abbreviation-free interior dot stays attached",
			input: "Version 2.0 works. Done.",
			want:  []string{"Version 2.0 works.", "Done."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, splitSentences(tt.input))
		})
	}
}

func TestEstimateTokens(t *testing.T) {
	require.Equal(t, 0, EstimateTokens(""))
	require.Equal(t, 0, EstimateTokens("abc"))
	require.Equal(t, 1, EstimateTokens("abcd"))
	require.Equal(t, 25, EstimateTokens(strings.Repeat("a", 100)))
}

func TestPrefixOverlap(t *testing.T) {
	require.Equal(t, 0, prefixOverlap("abc", "xyz"))
	require.Equal(t, 3, prefixOverlap("hello abc", "abcdef"))
	require.Equal(t, 5, prefixOverlap("world", "world"))
}
