//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

// Package markdown provides a markdown document reader implementation.
package markdown

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"

	"github.com/coursegraph/vectorize-go/document"
	"github.com/coursegraph/vectorize-go/document/reader"
)

// supportedExtensions defines the file extensions supported by this reader.
var supportedExtensions = []string{".md", ".markdown"}

// init registers the markdown reader with the global registry.
func init() {
	reader.Register(supportedExtensions, New())
}

// Reader reads markdown documents and extracts their plain text.
type Reader struct {
	md goldmark.Markdown
}

// New creates a new markdown reader.
func New() *Reader {
	return &Reader{md: goldmark.New()}
}

// Parse parses the markdown structure and returns the extracted plain text.
// Block boundaries (headings, paragraphs, list items, code fences) become
// blank-line separators so that paragraph-aware chunking keeps working on
// the extracted text.
func (r *Reader) Parse(data []byte, name string) (*document.Document, error) {
	root := r.md.Parser().Parse(gtext.NewReader(data))
	if root == nil {
		return nil, fmt.Errorf("%w: %s", reader.ErrCorruptDocument, name)
	}

	var blocks []string
	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		if block := blockText(child, data); block != "" {
			blocks = append(blocks, block)
		}
	}

	now := time.Now().UTC()
	return &document.Document{
		Name:    strings.TrimSuffix(name, filepath.Ext(name)),
		Content: strings.Join(blocks, "\n\n"),
		Metadata: map[string]interface{}{
			document.MetaFileName: name,
			document.MetaFileExt:  strings.ToLower(filepath.Ext(name)),
			document.MetaFormat:   "markdown",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// blockText extracts the plain text of a single block-level node.
func blockText(n ast.Node, data []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := node.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(data))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteString("\n")
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(data))
			}
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			if node != n && sb.Len() > 0 {
				sb.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// Name returns the name of this reader.
func (r *Reader) Name() string {
	return "MarkdownReader"
}
