//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

package cleaner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClean_Empty(t *testing.T) {
	require.Equal(t, "", Clean(""))
	require.Equal(t, "", Clean("   \n\n  "))
}

func TestClean_BulletArtifacts(t *testing.T) {
	got := Clean(" First point\n Second point")
	require.Equal(t, "• First point\n• Second point", got)
}

func TestClean_SpaceAndStrayArtifacts(t *testing.T) {
	got := Clean("beforeafter")
	require.Equal(t, "before after", got)

	got = Clean("word")
	require.Equal(t, "word", got)
}

func TestClean_DedupesAttributionLines(t *testing.T) {
	text := "CSCI2100 - Dr. Jane Doe\n" +
		"Lecture content here.\n" +
		"CSCI2100 - Dr. Jane Doe\n" +
		"More content.\n" +
		"CSCI2100 - Dr. Jane Doe"
	got := Clean(text)

	require.Equal(t, 1, strings.Count(got, "CSCI2100 - Dr. Jane Doe"))
	require.True(t, strings.HasPrefix(got, "CSCI2100 - Dr. Jane Doe"),
		"first occurrence must survive")
	require.Contains(t, got, "Lecture content here.")
	require.Contains(t, got, "More content.")
}

func TestClean_KeepsDistinctAttributions(t *testing.T) {
	text := "CSCI2100 - Dr. Jane Doe\nbody\nMATH1010 - Prof. John Smith"
	got := Clean(text)
	require.Contains(t, got, "CSCI2100 - Dr. Jane Doe")
	require.Contains(t, got, "MATH1010 - Prof. John Smith")
}

func TestClean_DedupesCopyrightLines(t *testing.T) {
	notice := `©2018 Pearson "Operating Systems" by Stallings`
	text := notice + "\nChapter text.\n" + notice + "\nMore text."
	got := Clean(text)
	require.Equal(t, 1, strings.Count(got, `©2018 Pearson`))
	require.Contains(t, got, "Chapter text.")
	require.Contains(t, got, "More text.")
}

func TestClean_StripsBareNumberLines(t *testing.T) {
	got := Clean("Slide title\n12\nSlide body\n 3 \nEnd")
	require.Equal(t, "Slide title\nSlide body\nEnd", got)

	// Four and more digit numbers are content (years, constants), not
	// page numbers.
	got = Clean("Founded in\n2024\nby someone")
	require.Contains(t, got, "2024")
}

func TestClean_CollapsesWhitespace(t *testing.T) {
	got := Clean("a\n\n\n\n\nb")
	require.Equal(t, "a\n\nb", got)

	got = Clean("a   b\t\tc")
	require.Equal(t, "a b c", got)

	got = Clean("   indented\n\t\talso indented")
	require.Equal(t, "indented\nalso indented", got)
}

func TestClean_RemovesEmptyPairs(t *testing.T) {
	got := Clean("see figure ( ) and table []")
	require.Equal(t, "see figure and table", got)

	// Mid-line pairs must not leave a double space behind.
	got = Clean("see figure ( ) and table [] for details")
	require.Equal(t, "see figure and table for details", got)

	got = Clean("a\n( )\nb")
	require.Equal(t, "a\n\nb", got)
}

func TestClean_ExpandsLigatures(t *testing.T) {
	got := Clean("eﬃcient ﬁle ﬂow oﬀ staﬄ")
	require.Equal(t, "efficient file flow off staffl", got)
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text with nothing to clean",
		" bullet\n\n\n\nCSCI2100 - Dr. Jane Doe\nbody\nCSCI2100 - Dr. Jane Doe\n42\n",
		"a   b\n 1 \n( )\nﬁne",
		"see figure ( ) and table [] for details",
		"x ( ) y [] z ( ) w",
		"©2020 Wiley \"算法\" extra\nmiddle\n©2020 Wiley \"算法\" extra",
		"Slide one\n7\n\n\nSlide two\n8\n\n\nSlide three",
	}
	for _, input := range inputs {
		once := Clean(input)
		require.Equal(t, once, Clean(once), "input %q", input)
	}
}
