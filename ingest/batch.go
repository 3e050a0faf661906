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
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/coursegraph/vectorize-go/log"
)

// ProcessFiles runs every input through the pipeline and aggregates the
// outcomes. A file failure is recorded in its result and processing
// continues with the next file. Cancellation is honored between files;
// a file already in flight always completes.
func (p *Pipeline) ProcessFiles(ctx context.Context, inputs []FileInput) *BatchResult {
	runID := uuid.NewString()
	log.Infof("batch %s: processing %d files", runID, len(inputs))

	var results []*ProcessingResult
	if p.concurrency > 1 {
		results = p.processParallel(ctx, inputs)
	} else {
		results = p.processSequential(ctx, inputs)
	}

	batch := summarize(runID, results)
	log.Infof("batch %s: %d succeeded, %d failed, %d chunks",
		batch.RunID, batch.Successful, batch.Failed, batch.TotalChunks)
	return batch
}

func (p *Pipeline) processSequential(ctx context.Context, inputs []FileInput) []*ProcessingResult {
	results := make([]*ProcessingResult, 0, len(inputs))
	for i, input := range inputs {
		if err := ctx.Err(); err != nil {
			results = append(results, cancelledResult(input, err))
			continue
		}
		r := p.ProcessFile(ctx, input)
		results = append(results, r)
		p.reportProgress(input, r, i+1, len(inputs))
	}
	return results
}

func (p *Pipeline) processParallel(ctx context.Context, inputs []FileInput) []*ProcessingResult {
	pool, err := ants.NewPool(p.concurrency)
	if err != nil {
		log.Warnf("worker pool unavailable (%v), falling back to sequential", err)
		return p.processSequential(ctx, inputs)
	}
	defer pool.Release()

	results := make([]*ProcessingResult, len(inputs))
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)
	for i, input := range inputs {
		if err := ctx.Err(); err != nil {
			results[i] = cancelledResult(input, err)
			continue
		}
		wg.Add(1)
		i, input := i, input
		task := func() {
			defer wg.Done()
			r := p.ProcessFile(ctx, input)
			results[i] = r

			mu.Lock()
			done++
			current := done
			mu.Unlock()
			p.reportProgress(input, r, current, len(inputs))
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			results[i] = &ProcessingResult{
				Filename: input.Name,
				Error:    fmt.Sprintf("submitting to worker pool: %v", err),
			}
		}
	}
	wg.Wait()
	return results
}

func (p *Pipeline) reportProgress(input FileInput, r *ProcessingResult, current, total int) {
	if p.progress == nil {
		return
	}
	status := "failed"
	switch {
	case r.Skipped():
		status = "skipped"
	case r.Success:
		status = "processed"
	}
	p.progress(fmt.Sprintf("%s %s", status, input.Name), current, total)
}

func cancelledResult(input FileInput, err error) *ProcessingResult {
	return &ProcessingResult{
		Filename: input.Name,
		Error:    fmt.Sprintf("batch cancelled: %v", err),
	}
}
