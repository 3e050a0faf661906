//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

package ingest

// SkippedExisting is the Error value of a successful result for a
// document that was already stored and left untouched.
const SkippedExisting = "Skipped - already exists"

// ProcessingResult records the outcome of a single file. Failures never
// surface as errors from batch processing; they are captured here so one
// bad file cannot abort the rest of a batch.
type ProcessingResult struct {
	Filename          string `json:"filename"`
	Success           bool   `json:"success"`
	ChunksCreated     int    `json:"chunks_created"`
	EmbeddingsCreated int    `json:"embeddings_created"`
	DocumentID        string `json:"document_id,omitempty"`
	Preset            string `json:"preset,omitempty"`
	Error             string `json:"error,omitempty"`
}

// Skipped reports whether the file succeeded without writing anything
// because its document was already stored.
func (r *ProcessingResult) Skipped() bool {
	return r.Success && r.Error == SkippedExisting
}

// BatchResult aggregates the outcomes of a multi-file run.
type BatchResult struct {
	RunID           string              `json:"run_id"`
	TotalFiles      int                 `json:"total_files"`
	Successful      int                 `json:"successful"`
	Failed          int                 `json:"failed"`
	TotalChunks     int                 `json:"total_chunks"`
	TotalEmbeddings int                 `json:"total_embeddings"`
	Results         []*ProcessingResult `json:"results"`
}

func summarize(runID string, results []*ProcessingResult) *BatchResult {
	batch := &BatchResult{
		RunID:      runID,
		TotalFiles: len(results),
		Results:    results,
	}
	for _, r := range results {
		if r.Success {
			batch.Successful++
		} else {
			batch.Failed++
		}
		batch.TotalChunks += r.ChunksCreated
		batch.TotalEmbeddings += r.EmbeddingsCreated
	}
	return batch
}
