//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

// Package reader defines the interface for document readers.
package reader

import (
	"errors"

	"github.com/coursegraph/vectorize-go/document"
)

// Parse errors shared by all readers.
var (
	// ErrUnsupportedFormat indicates that no reader is registered for the
	// file's extension.
	ErrUnsupportedFormat = errors.New("reader: unsupported document format")

	// ErrCorruptDocument indicates that the bytes could not be decoded as
	// the format the reader expects.
	ErrCorruptDocument = errors.New("reader: corrupt or unreadable document")
)

// Reader parses raw file bytes into a plain-text document.
//
// Implementations extract text only; they never chunk. The returned
// document carries format-specific metadata (e.g. page count for PDF).
type Reader interface {
	// Parse decodes the raw bytes and returns a single document whose
	// Content is the extracted plain text. The name parameter identifies
	// the source (e.g. filename) and is stored as the document name.
	Parse(data []byte, name string) (*document.Document, error)

	// Name returns the name of this reader.
	Name() string
}
