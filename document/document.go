//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

// Package document provides the document model shared by parsing, chunking
// and storage.
package document

import "time"

// Metadata keys attached to stored chunks.
const (
	MetaDocumentID = "document_id"
	MetaFileName   = "filename"
	MetaFilePath   = "file_path"
	MetaFileExt    = "file_ext"
	MetaFormat     = "format"
	MetaChunkIndex = "chunk_index"
	MetaStartChar  = "start_char"
	MetaEndChar    = "end_char"
	MetaCharCount  = "char_count"
	MetaPageCount  = "page_count"
)

// Document represents a text document with metadata.
type Document struct {
	// ID is the unique identifier of the document.
	ID string `json:"id,omitempty"`

	// Name is the name or title of the document.
	Name string `json:"name,omitempty"`

	// Content is the text content of the document.
	Content string `json:"content"`

	// Metadata contains additional information about the document.
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// CreatedAt is the creation timestamp of the document.
	CreatedAt time.Time `json:"created_at,omitempty"`

	// UpdatedAt is the last update timestamp of the document.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Size returns the size of the document content in bytes.
func (d *Document) Size() int {
	return len(d.Content)
}
