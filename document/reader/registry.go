//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

package reader

import (
	"sort"
	"strings"
	"sync"
)

// Registry manages registration of document readers by file extension.
type Registry struct {
	mu      sync.RWMutex
	readers map[string]Reader // extension -> reader
}

// globalRegistry is the singleton registry instance.
var globalRegistry = &Registry{
	readers: make(map[string]Reader),
}

// Register registers a reader for specific file extensions.
// Extensions should include the dot prefix (e.g., ".pdf", ".txt").
func Register(extensions []string, r Reader) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()

	for _, ext := range extensions {
		globalRegistry.readers[strings.ToLower(ext)] = r
	}
}

// Get returns the reader registered for the given file extension.
// The extension should include the dot prefix (e.g., ".pdf").
// Returns nil and false if no reader is registered for the extension.
func Get(extension string) (Reader, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	r, ok := globalRegistry.readers[strings.ToLower(extension)]
	return r, ok
}

// SupportedExtensions returns the sorted list of registered extensions.
func SupportedExtensions() []string {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	exts := make([]string, 0, len(globalRegistry.readers))
	for ext := range globalRegistry.readers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
