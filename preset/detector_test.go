//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

package preset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetect_SlidesByExtensionAndName(t *testing.T) {
	got := Detect("Lecture_03_slides.pptx", "", "")
	require.Equal(t, "slides", got.Name)

	detail := DetectDetail("Lecture_03_slides.pptx", "", "")
	require.Equal(t, "slides", detail.DetectedType)
	// Extension (2.0) and filename pattern (0.5) both fire.
	require.InDelta(t, 2.5, detail.Scores["slides"], 1e-9)
	require.NotEmpty(t, detail.Reasons)
}

func TestDetect_AcademicPaper(t *testing.T) {
	content := "Abstract\n" +
		"This paper presents a longitudinal study of distributed consensus. " +
		"Prior work by Lamport et al. established the foundations, and Ongaro et al. " +
		"refined them for understandability [1]. We extend these results [2] with " +
		"measurements across heterogeneous clusters, following the methodology of Dean et al. [3].\n" +
		"Introduction\n" +
		"Consensus protocols underpin replicated state machines. As argued by Liskov et al. [4], " +
		"practical deployments demand more than safety proofs; they demand operational clarity.\n" +
		"Conclusion\n" +
		"Our measurements corroborate earlier findings by Brewer et al. [5].\n" +
		"References\n" +
		"[1] In Search of an Understandable Consensus Algorithm.\n" +
		"[2] Paxos Made Live.\n" +
		"[3] The Tail at Scale.\n"

	got := Detect("paper_draft.txt", content, "")
	require.Equal(t, "academic", got.Name)
}

func TestDetect_CodeFile(t *testing.T) {
	content := "import os\n\ndef main():\n    pass\n\nclass Runner:\n    pass\n"
	got := Detect("solution_lab2.py", content, "")
	require.Equal(t, "code", got.Name)
}

func TestDetect_PathHints(t *testing.T) {
	detail := DetectDetail("notes.pdf", "", "/course/slides/week3/notes.pdf")
	require.InDelta(t, 1.0, detail.Scores["slides"], 1e-9)
	require.Equal(t, "slides", detail.DetectedType)

	detail = DetectDetail("scan.pdf", "", "/course/readings/scan.pdf")
	require.Equal(t, "academic", detail.DetectedType)
}

func TestDetect_LowConfidenceFallsBackToDefault(t *testing.T) {
	got := Detect("x.unknownext", "", "")
	require.Equal(t, "default", got.Name)

	detail := DetectDetail("x.unknownext", "", "")
	require.Equal(t, "default", detail.DetectedType)
	require.Equal(t, Default, detail.Recommended)
}

func TestDetect_DetailMatchesDetect(t *testing.T) {
	cases := []struct {
		filename string
		content  string
		path     string
	}{
		{"Lecture_03_slides.pptx", "", ""},
		{"paper_draft.txt", "Abstract here. References follow. [1] cited.", ""},
		{"main.go", "package main\n\nfunc main() {}\n", "/repo/code/main.go"},
		{"mystery.bin", "", ""},
		{"README.md", "# Title\n\nExample usage:\n```\nrun it\n```\n", ""},
	}
	for _, tc := range cases {
		require.Equal(t,
			Detect(tc.filename, tc.content, tc.path).Name,
			DetectDetail(tc.filename, tc.content, tc.path).Recommended.Name,
			"file %s", tc.filename)
	}
}

func TestDetect_ShortLinesLeanSlides(t *testing.T) {
	// Bullet-heavy short lines with no extension signal.
	content := strings.Repeat("• Key point here\n", 12)
	got := Detect("handout.pdf", content, "")
	require.Equal(t, "slides", got.Name)
}

func TestDetect_LongLinesLeanAcademic(t *testing.T) {
	line := strings.Repeat("dense argumentative prose without et al markers ", 5)
	content := line + "\n" + line + "\n" + line + "\n"
	detail := DetectDetail("scan.pdf", content, "")
	require.Positive(t, detail.Scores["academic"])
}

func TestDetect_FilenamePatternCountedOncePerType(t *testing.T) {
	// Both "lecture" and "slide" match the slides patterns; only one
	// half-point is awarded.
	detail := DetectDetail("lecture_slide_deck.bin", "", "")
	require.InDelta(t, 0.5, detail.Scores["slides"], 1e-9)
}
