//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coursegraph/vectorize-go/document"
	"github.com/coursegraph/vectorize-go/document/reader"
)

func TestParse_ExtractsPlainText(t *testing.T) {
	md := "# Title\n\nFirst paragraph with **bold** and [a link](https://example.com).\n\nSecond paragraph."
	doc, err := New().Parse([]byte(md), "guide.md")
	require.NoError(t, err)
	require.Equal(t, "guide", doc.Name)
	require.Equal(t, "markdown", doc.Metadata[document.MetaFormat])

	require.NotContains(t, doc.Content, "#")
	require.NotContains(t, doc.Content, "**")
	require.NotContains(t, doc.Content, "](")
	require.Contains(t, doc.Content, "Title")
	require.Contains(t, doc.Content, "bold")
	require.Contains(t, doc.Content, "a link")
}

func TestParse_BlocksBecomeParagraphs(t *testing.T) {
	md := "# Heading\n\nParagraph one.\n\nParagraph two."
	doc, err := New().Parse([]byte(md), "doc.md")
	require.NoError(t, err)

	blocks := strings.Split(doc.Content, "\n\n")
	require.Equal(t, []string{"Heading", "Paragraph one.", "Paragraph two."}, blocks)
}

func TestParse_KeepsCodeFenceContent(t *testing.T) {
	md := "Before.\n\n```go\nfunc main() {}\n```\n\nAfter."
	doc, err := New().Parse([]byte(md), "code.md")
	require.NoError(t, err)
	require.Contains(t, doc.Content, "func main() {}")
	require.NotContains(t, doc.Content, "```")
}

func TestParse_ListItemsOnSeparateLines(t *testing.T) {
	md := "- first item\n- second item\n- third item"
	doc, err := New().Parse([]byte(md), "list.md")
	require.NoError(t, err)
	require.Contains(t, doc.Content, "first item\n")
	require.Contains(t, doc.Content, "second item")
}

func TestRegisteredExtensions(t *testing.T) {
	for _, ext := range []string{".md", ".markdown", ".MD"} {
		_, ok := reader.Get(ext)
		require.True(t, ok, ext)
	}
}
