//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

// Package text provides a plain-text document reader implementation.
package text

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/coursegraph/vectorize-go/document"
	"github.com/coursegraph/vectorize-go/document/reader"
)

// supportedExtensions defines the file extensions supported by this reader.
var supportedExtensions = []string{
	".txt", ".text", ".rst", ".log",
	".py", ".js", ".ts", ".go", ".java", ".c", ".cpp", ".h",
	".rb", ".rs", ".sh", ".sql", ".yaml", ".yml", ".json",
	".html", ".css", ".xml", ".ipynb",
}

// utf8BOM is stripped from the start of decoded content when present.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// init registers the text reader with the global registry.
func init() {
	reader.Register(supportedExtensions, New())
}

// Reader reads plain-text documents.
type Reader struct{}

// New creates a new text reader.
func New() *Reader {
	return &Reader{}
}

// Parse decodes the bytes as UTF-8 text.
func (r *Reader) Parse(data []byte, name string) (*document.Document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", reader.ErrCorruptDocument, name)
	}

	now := time.Now().UTC()
	return &document.Document{
		Name:    strings.TrimSuffix(name, filepath.Ext(name)),
		Content: string(data),
		Metadata: map[string]interface{}{
			document.MetaFileName: name,
			document.MetaFileExt:  strings.ToLower(filepath.Ext(name)),
			document.MetaFormat:   "text",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Name returns the name of this reader.
func (r *Reader) Name() string {
	return "TextReader"
}
