//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

package ingest

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	docIDStemLimit = 32
	docIDHashLen   = 8
)

// DocumentID derives a stable identifier from the filename stem and a
// content digest. The same filename with the same content always maps to
// the same ID, which is what makes SkipExisting idempotent.
func DocumentID(filename, content string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	stem = strings.ReplaceAll(stem, " ", "_")
	if len(stem) > docIDStemLimit {
		stem = stem[:docIDStemLimit]
	}
	sum := md5.Sum([]byte(content))
	return stem + "_" + hex.EncodeToString(sum[:])[:docIDHashLen]
}

// ChunkID names the i-th chunk of a document.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, index)
}
