//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/coursegraph/vectorize-go/document/reader"
)

// ProcessDirectory finds every supported file under root and runs it
// through the pipeline. Files are processed in lexicographic path order
// so repeated runs over the same tree behave identically. When recursive
// is false only the directory itself is scanned.
func (p *Pipeline) ProcessDirectory(ctx context.Context, root string, recursive bool) (*BatchResult, error) {
	paths, err := findFiles(root, recursive)
	if err != nil {
		return nil, err
	}

	inputs := make([]FileInput, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		inputs = append(inputs, FileInput{
			Name: filepath.Base(path),
			Path: path,
			Data: data,
		})
	}
	return p.ProcessFiles(ctx, inputs), nil
}

// findFiles returns the sorted paths of supported files under root.
func findFiles(root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("opening directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	pattern := "*"
	if recursive {
		pattern = "**/*"
	}
	matches, err := doublestar.Glob(os.DirFS(root), pattern)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	var paths []string
	for _, match := range matches {
		full := filepath.Join(root, filepath.FromSlash(match))
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			continue
		}
		if _, ok := reader.Get(strings.ToLower(filepath.Ext(full))); !ok {
			continue
		}
		paths = append(paths, full)
	}
	sort.Strings(paths)
	return paths, nil
}
