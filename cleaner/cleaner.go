//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

// Package cleaner normalizes extracted document text before chunking.
//
// Clean removes extraction noise (repeated attribution and copyright
// lines, stray page numbers, private-use glyphs, ligatures, excess
// whitespace) while preserving the actual content. It is pure and
// idempotent: cleaning already-clean text is a no-op.
package cleaner

import (
	"regexp"
	"strings"
)

var (
	// Private-use code points left behind by PDF extraction.
	bulletArtifactRE = regexp.MustCompile(`[\x{f06e}\x{f0b7}\x{f0a7}\x{f0d8}]`)
	spaceArtifactRE  = regexp.MustCompile(`[\x{f020}\x{f02b}\x{f0e0}\x{f0c5}]`)
	strayArtifactRE  = regexp.MustCompile(`[\x{f06c}\x{f06d}]`)

	// Course attribution footer, e.g. "CSCI2100 - Dr. Jane Doe".
	attributionRE = regexp.MustCompile(`(?i)^[A-Z]{2,6}\d{4}\s*[-–]\s*(Dr\.|Prof\.|Professor)\s+[\w\s.]+$`)

	// Publisher copyright line, e.g. `©2018 Pearson "Some Title" by Author`.
	copyrightRE = regexp.MustCompile(`(?i)©\d{4}\s+[\w\s&]+["'][\w\s:,]+["'][^\n]*`)

	bareNumberRE      = regexp.MustCompile(`^\d{1,3}$`)
	excessNewlinesRE  = regexp.MustCompile(`\n{3,}`)
	multiSpaceRE      = regexp.MustCompile(`[ \t]{2,}`)
	leadingSpaceRE    = regexp.MustCompile(`(?m)^[ \t]+`)
	emptyParensRE     = regexp.MustCompile(`\(\s*\)`)
	emptyBracketsRE   = regexp.MustCompile(`\[\s*\]`)
	ligatureExpansion = strings.NewReplacer(
		"ﬁ", "fi",
		"ﬂ", "fl",
		"ﬀ", "ff",
		"ﬃ", "ffi",
		"ﬄ", "ffl",
	)
)

// Clean normalizes raw extracted text. The step ordering is significant:
// whitespace collapsing runs last among the structural passes, after line
// deduplication and empty-pair removal, so the gaps those passes leave
// are collapsed in the same run.
func Clean(text string) string {
	if text == "" {
		return text
	}

	text = normalizeArtifacts(text)
	text = dedupeAttributionLines(text)
	text = dedupeCopyrightLines(text)
	text = stripBareNumberLines(text)
	text = emptyParensRE.ReplaceAllString(text, "")
	text = emptyBracketsRE.ReplaceAllString(text, "")
	text = collapseWhitespace(text)
	text = ligatureExpansion.Replace(text)
	return strings.TrimSpace(text)
}

// normalizeArtifacts maps private-use glyphs from PDF extraction to their
// ASCII-adjacent equivalents.
func normalizeArtifacts(text string) string {
	text = bulletArtifactRE.ReplaceAllString(text, "• ")
	text = spaceArtifactRE.ReplaceAllString(text, " ")
	return strayArtifactRE.ReplaceAllString(text, "")
}

// dedupeAttributionLines keeps the first occurrence of each attribution
// footer and drops exact repeats. Near-duplicates are left alone.
func dedupeAttributionLines(text string) string {
	lines := strings.Split(text, "\n")
	seen := make(map[string]bool)
	kept := lines[:0]
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if attributionRE.MatchString(stripped) {
			if seen[stripped] {
				continue
			}
			seen[stripped] = true
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// dedupeCopyrightLines removes repeated copyright notices, keeping the
// first occurrence of each distinct notice.
func dedupeCopyrightLines(text string) string {
	locs := copyrightRE.FindAllStringIndex(text, -1)
	if len(locs) < 2 {
		return text
	}
	seen := make(map[string]bool)
	var b strings.Builder
	prev := 0
	for _, loc := range locs {
		notice := text[loc[0]:loc[1]]
		if seen[notice] {
			b.WriteString(text[prev:loc[0]])
			prev = loc[1]
			continue
		}
		seen[notice] = true
	}
	b.WriteString(text[prev:])
	return b.String()
}

// stripBareNumberLines drops lines holding nothing but a 1-3 digit number,
// the usual shape of slide and page numbers.
func stripBareNumberLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if bareNumberRE.MatchString(strings.TrimSpace(line)) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// collapseWhitespace caps newline runs at two, collapses horizontal
// whitespace runs to a single space, and strips per-line indentation.
func collapseWhitespace(text string) string {
	text = excessNewlinesRE.ReplaceAllString(text, "\n\n")
	text = multiSpaceRE.ReplaceAllString(text, " ")
	return leadingSpaceRE.ReplaceAllString(text, "")
}
