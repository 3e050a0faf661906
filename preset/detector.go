//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

package preset

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Content type labels scored by the detector, in evaluation order.
// Earlier labels win score ties.
var contentTypes = []string{"slides", "academic", "code", "docs", "granular"}

// extensionContentType maps file extensions to a content type. Extensions
// with no clear type (.pdf, .doc, .docx, .txt) are absent: they rely on
// content analysis.
var extensionContentType = map[string]string{
	".ppt":  "slides",
	".pptx": "slides",
	".key":  "slides",
	".odp":  "slides",

	".tex": "academic",
	".bib": "academic",

	".py": "code", ".js": "code", ".ts": "code", ".jsx": "code",
	".tsx": "code", ".java": "code", ".c": "code", ".cpp": "code",
	".h": "code", ".hpp": "code", ".cs": "code", ".go": "code",
	".rs": "code", ".rb": "code", ".php": "code", ".swift": "code",
	".kt": "code", ".scala": "code", ".r": "code", ".sql": "code",
	".sh": "code", ".bash": "code", ".ps1": "code", ".yaml": "code",
	".yml": "code", ".json": "code", ".xml": "code", ".html": "code",
	".css": "code", ".scss": "code", ".ipynb": "code",

	".md":  "docs",
	".rst": "docs",
}

// filenamePatterns suggest a content type from the file name. At most
// one pattern counts per type.
var filenamePatterns = []struct {
	contentType string
	patterns    []*regexp.Regexp
}{
	{"slides", compileAll(
		`lecture`, `slide`, `presentation`, `ppt`, `week\d+`,
		`class\d+`, `session`, `module`,
	)},
	{"academic", compileAll(
		`paper`, `article`, `journal`, `research`, `study`,
		`thesis`, `dissertation`, `chapter`, `reading`,
	)},
	{"code", compileAll(
		`code`, `script`, `program`, `solution`, `lab\d*`,
		`assignment`, `homework`, `hw\d+`, `pa\d+`,
	)},
	{"docs", compileAll(
		`guide`, `manual`, `documentation`, `readme`, `tutorial`,
		`howto`, `reference`, `handbook`,
	)},
}

// pathHints award a full point when the directory path names the kind of
// material it holds.
var pathHints = []struct {
	contentType string
	substrings  []string
}{
	{"slides", []string{"slides", "lecture", "presentations"}},
	{"academic", []string{"readings", "papers", "articles"}},
	{"code", []string{"code", "labs", "assignments", "homework"}},
}

// weightedPattern is a content regex with its score contribution. A
// pattern with n matches contributes weight * min(n, 10) / 10.
type weightedPattern struct {
	re     *regexp.Regexp
	weight float64
}

var contentPatterns = []struct {
	contentType string
	patterns    []weightedPattern
}{
	{"slides", []weightedPattern{
		{regexp.MustCompile(`(?im)^\s*[•\-*]\s`), 0.3},
		{regexp.MustCompile(`(?i)\n\s*[•\-*]\s`), 0.2},
		{regexp.MustCompile(`(?im)^\d+\.\s`), 0.1},
		{regexp.MustCompile(`\n[^\n]{1,50}\n`), 0.15},
	}},
	{"academic", []weightedPattern{
		{regexp.MustCompile(`(?i)\babstract\b`), 0.4},
		{regexp.MustCompile(`(?i)\bintroduction\b`), 0.2},
		{regexp.MustCompile(`(?i)\bconclusion\b`), 0.2},
		{regexp.MustCompile(`(?i)\breferences\b`), 0.3},
		{regexp.MustCompile(`(?i)\bcitation\b`), 0.2},
		{regexp.MustCompile(`(?i)\bet\s+al\.`), 0.3},
		{regexp.MustCompile(`\[\d+\]`), 0.2},
		{regexp.MustCompile(`\n[^\n]{200,}\n`), 0.1},
	}},
	{"code", []weightedPattern{
		{regexp.MustCompile(`(?i)def\s+\w+\s*\(`), 0.4},
		{regexp.MustCompile(`(?i)function\s+\w+\s*\(`), 0.4},
		{regexp.MustCompile(`(?i)class\s+\w+`), 0.3},
		{regexp.MustCompile(`(?i)import\s+`), 0.2},
		{regexp.MustCompile(`(?i)from\s+\w+\s+import`), 0.3},
		{regexp.MustCompile(`(?i)#include`), 0.3},
		{regexp.MustCompile(`(?i)public\s+class`), 0.4},
		{regexp.MustCompile(`\{\s*\n`), 0.1},
		{regexp.MustCompile(`//.*\n`), 0.1},
		{regexp.MustCompile(`#.*\n`), 0.05},
	}},
	{"docs", []weightedPattern{
		{regexp.MustCompile(`(?m)^#\s+`), 0.3},
		{regexp.MustCompile(`(?m)^##\s+`), 0.2},
		{regexp.MustCompile("```"), 0.2},
		{regexp.MustCompile(`(?i)\bexample\b`), 0.1},
		{regexp.MustCompile(`(?i)\bnote:`), 0.15},
		{regexp.MustCompile(`(?i)\bwarning:`), 0.15},
	}},
}

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(p)
	}
	return res
}

// Signal weights and thresholds.
const (
	extensionWeight = 2.0
	filenameWeight  = 0.5
	pathWeight      = 1.0

	shortLineThreshold = 60
	longLineThreshold  = 150
	shortLineWeight    = 0.5
	longLineWeight     = 0.3

	contentSampleChars = 10000
	scoreFloor         = 0.5
)

// Detection is the detailed outcome of a detect call. The detail exists
// for transparency only; Recommended is always what Detect would return.
type Detection struct {
	// Scores holds the accumulated score per content type label.
	Scores map[string]float64
	// Reasons lists the signals that fired, in evaluation order.
	Reasons []string
	// DetectedType is the highest scoring label, or "default" when no
	// score reached the confidence floor.
	DetectedType string
	// Recommended is the preset mapped from DetectedType.
	Recommended Config
}

// Detect recommends a chunking preset for a file. Content and filePath
// may be empty; only the signals available are scored. When no content
// type reaches the confidence floor the default preset is returned.
func Detect(filename, content, filePath string) Config {
	return DetectDetail(filename, content, filePath).Recommended
}

// DetectDetail runs the same scoring as Detect and additionally exposes
// the per-type scores and the list of signals that fired.
func DetectDetail(filename, content, filePath string) *Detection {
	scores := make(map[string]float64, len(contentTypes))
	for _, t := range contentTypes {
		scores[t] = 0
	}
	var reasons []string

	// 1. File extension is the strongest single signal.
	ext := strings.ToLower(filepath.Ext(filename))
	if t, ok := extensionContentType[ext]; ok {
		scores[t] += extensionWeight
		reasons = append(reasons, fmt.Sprintf("extension %q suggests %s", ext, t))
	}

	// 2. Filename patterns, at most one hit per type.
	lowerName := strings.ToLower(filename)
	for _, group := range filenamePatterns {
		for _, re := range group.patterns {
			if re.MatchString(lowerName) {
				scores[group.contentType] += filenameWeight
				reasons = append(reasons, fmt.Sprintf(
					"filename matches %q (%s)", re.String(), group.contentType))
				break
			}
		}
	}

	// 3. Directory path hints.
	if filePath != "" {
		lowerPath := strings.ToLower(filePath)
		for _, hint := range pathHints {
			for _, sub := range hint.substrings {
				if strings.Contains(lowerPath, sub) {
					scores[hint.contentType] += pathWeight
					reasons = append(reasons, fmt.Sprintf(
						"path contains %q (%s)", sub, hint.contentType))
					break
				}
			}
		}
	}

	// 4. Content sampling with diminishing returns per pattern.
	if content != "" {
		sample := sampleRunes(content, contentSampleChars)
		for _, group := range contentPatterns {
			var total float64
			for _, wp := range group.patterns {
				matches := len(wp.re.FindAllStringIndex(sample, -1))
				if matches > 0 {
					if matches > 10 {
						matches = 10
					}
					total += wp.weight * float64(matches) / 10
				}
			}
			if total > 0 {
				scores[group.contentType] += total
				reasons = append(reasons, fmt.Sprintf(
					"content patterns contribute %.2f (%s)", total, group.contentType))
			}
		}

		if avg, ok := averageLineLength(sample); ok {
			reasons = append(reasons, fmt.Sprintf("average line length %.1f chars", avg))
			if avg < shortLineThreshold {
				scores["slides"] += shortLineWeight
			} else if avg > longLineThreshold {
				scores["academic"] += longLineWeight
			}
		}
	}

	// Pick the winner; ties go to the earlier label.
	bestType := contentTypes[0]
	for _, t := range contentTypes[1:] {
		if scores[t] > scores[bestType] {
			bestType = t
		}
	}

	detection := &Detection{
		Scores:       scores,
		Reasons:      reasons,
		DetectedType: bestType,
	}
	if scores[bestType] < scoreFloor {
		detection.DetectedType = Default.Name
		detection.Recommended = Default
		return detection
	}
	detection.Recommended = presetForType(bestType)
	return detection
}

// presetForType maps a content type label to its preset.
func presetForType(contentType string) Config {
	switch contentType {
	case "slides":
		return Slides
	case "academic":
		return Academic
	case "code":
		return Code
	case "docs":
		return Docs
	case "granular":
		return Granular
	default:
		return Default
	}
}

// sampleRunes returns the first n characters of s.
func sampleRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// averageLineLength averages the character length of non-empty lines.
func averageLineLength(sample string) (float64, bool) {
	var total, count int
	for _, line := range strings.Split(sample, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		total += len([]rune(line))
		count++
	}
	if count == 0 {
		return 0, false
	}
	return float64(total) / float64(count), true
}
