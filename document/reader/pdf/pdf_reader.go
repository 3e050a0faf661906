//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

// Package pdf provides a PDF document reader implementation.
package pdf

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/coursegraph/vectorize-go/document"
	"github.com/coursegraph/vectorize-go/document/reader"
)

// supportedExtensions defines the file extensions supported by this reader.
var supportedExtensions = []string{".pdf"}

// init registers the PDF reader with the global registry.
func init() {
	reader.Register(supportedExtensions, New())
}

// Reader reads PDF documents and extracts their plain text.
type Reader struct{}

// New creates a new PDF reader.
func New() *Reader {
	return &Reader{}
}

// Parse extracts text from every page of the PDF.
// Pages are separated by blank lines so that slide decks exported as PDF
// keep one logical unit per page.
func (r *Reader) Parse(data []byte, name string) (*document.Document, error) {
	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", reader.ErrCorruptDocument, name, err)
	}

	totalPages := pdfReader.NumPage()
	var pages []string
	for pageIndex := 1; pageIndex <= totalPages; pageIndex++ {
		page := pdfReader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || text == "" {
			continue
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	now := time.Now().UTC()
	return &document.Document{
		Name:    strings.TrimSuffix(name, filepath.Ext(name)),
		Content: strings.Join(pages, "\n\n"),
		Metadata: map[string]interface{}{
			document.MetaFileName:  name,
			document.MetaFileExt:   strings.ToLower(filepath.Ext(name)),
			document.MetaFormat:    "pdf",
			document.MetaPageCount: totalPages,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Name returns the name of this reader.
func (r *Reader) Name() string {
	return "PDFReader"
}
