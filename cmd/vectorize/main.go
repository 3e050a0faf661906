//
// Copyright (C) 2025 coursegraph authors. All rights reserved.
//
// vectorize-go is licensed under the Apache License Version 2.0.
//
//

// Command vectorize ingests documents into a vector store and queries
// them. Configuration comes from flags, with credentials read from the
// environment (a .env file is loaded when present).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/coursegraph/vectorize-go/chunking"
	"github.com/coursegraph/vectorize-go/document"
	_ "github.com/coursegraph/vectorize-go/document/reader/markdown"
	_ "github.com/coursegraph/vectorize-go/document/reader/pdf"
	_ "github.com/coursegraph/vectorize-go/document/reader/text"
	"github.com/coursegraph/vectorize-go/embedder"
	"github.com/coursegraph/vectorize-go/embedder/ollama"
	"github.com/coursegraph/vectorize-go/embedder/openai"
	"github.com/coursegraph/vectorize-go/ingest"
	"github.com/coursegraph/vectorize-go/log"
	"github.com/coursegraph/vectorize-go/preset"
	"github.com/coursegraph/vectorize-go/vectorstore"
	"github.com/coursegraph/vectorize-go/vectorstore/inmemory"
	"github.com/coursegraph/vectorize-go/vectorstore/pgvector"
)

// backendFlags selects and configures the embedder and vector store.
type backendFlags struct {
	embedderName string
	model        string
	dimensions   int
	ollamaHost   string

	storeName  string
	pgConnStr  string
	pgTable    string
	logLevel   string
	jsonOutput bool
}

func main() {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	// Ctrl-C cancels between files, never mid-file.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	backend := &backendFlags{}

	root := &cobra.Command{
		Use:           "vectorize",
		Short:         "Chunk, embed and store documents for semantic search",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetLevel(backend.logLevel)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&backend.embedderName, "embedder", "openai", "embedding backend: openai or ollama")
	pf.StringVar(&backend.model, "model", "", "embedding model (backend default when empty)")
	pf.IntVar(&backend.dimensions, "dimensions", 0, "embedding dimensions (backend default when 0)")
	pf.StringVar(&backend.ollamaHost, "ollama-host", "", "ollama host, e.g. http://localhost:11434")
	pf.StringVar(&backend.storeName, "store", "pgvector", "vector store: pgvector or memory")
	pf.StringVar(&backend.pgConnStr, "dsn", os.Getenv("PGVECTOR_DSN"), "postgres connection string")
	pf.StringVar(&backend.pgTable, "table", "vectorize_chunks", "postgres table name")
	pf.StringVar(&backend.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.BoolVar(&backend.jsonOutput, "json", false, "print results as JSON")

	root.AddCommand(
		newIngestCmd(backend),
		newQueryCmd(backend),
		newPresetsCmd(backend),
		newDetectCmd(backend),
		newInfoCmd(backend),
		newClearCmd(backend),
	)
	return root
}

func newIngestCmd(backend *backendFlags) *cobra.Command {
	var (
		cfg          = ingest.DefaultConfig()
		strategyName string
		separators   []string
		noClean      bool
		reingest     bool
		noDetect     bool
		recursive    bool
		concurrency  int
	)

	cmd := &cobra.Command{
		Use:   "ingest <file-or-directory>...",
		Short: "Chunk, embed and store the given files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strategyName != "" {
				strategy, err := chunking.ParseStrategy(strategyName)
				if err != nil {
					return err
				}
				cfg.Strategy = strategy
			}
			if len(separators) > 0 {
				cfg.Separators = separators
			}
			cfg.CleanText = !noClean
			cfg.SkipExisting = !reingest
			cfg.AutoDetectPreset = !noDetect && cfg.Preset == ""

			ctx := cmd.Context()
			pipeline, err := buildPipeline(ctx, backend, cfg, concurrency)
			if err != nil {
				return err
			}
			defer pipeline.Close()

			for _, arg := range args {
				batch, err := runTarget(ctx, pipeline, arg, recursive)
				if err != nil {
					return err
				}
				if err := printBatch(cmd, backend, batch); err != nil {
					return err
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Preset, "preset", "", "chunking preset (slides, academic, docs, code, granular, default)")
	f.StringVar(&strategyName, "strategy", "", "chunking strategy override")
	f.IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "chunk size in characters")
	f.IntVar(&cfg.ChunkOverlap, "chunk-overlap", cfg.ChunkOverlap, "chunk overlap in characters")
	f.StringSliceVar(&separators, "separators", nil, "separator list for recursive splitting")
	f.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "texts per embedding request")
	f.BoolVar(&noClean, "no-clean", false, "skip text cleanup before chunking")
	f.BoolVar(&reingest, "reingest", false, "re-embed documents that are already stored")
	f.BoolVar(&noDetect, "no-detect", false, "disable content-type preset detection")
	f.BoolVarP(&recursive, "recursive", "r", false, "descend into subdirectories")
	f.IntVar(&concurrency, "concurrency", 1, "files processed in parallel")
	return cmd
}

func runTarget(ctx context.Context, pipeline *ingest.Pipeline, target string, recursive bool) (*ingest.BatchResult, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return pipeline.ProcessDirectory(ctx, target, recursive)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return nil, err
	}
	return pipeline.ProcessFiles(ctx, []ingest.FileInput{{
		Name: info.Name(),
		Path: target,
		Data: data,
	}}), nil
}

func newQueryCmd(backend *backendFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Search stored chunks by semantic similarity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pipeline, err := buildPipeline(ctx, backend, ingest.DefaultConfig(), 1)
			if err != nil {
				return err
			}
			defer pipeline.Close()

			hits, err := pipeline.Search(ctx, args[0], limit)
			if err != nil {
				return err
			}
			if backend.jsonOutput {
				return printJSON(cmd, hits)
			}
			if len(hits) == 0 {
				cmd.Println("No results.")
				return nil
			}
			for i, hit := range hits {
				cmd.Printf("%2d. [%.4f] %s (%v)\n", i+1, hit.Score,
					hit.Record.Metadata[document.MetaFileName], hit.Record.ID)
				cmd.Println(indent(truncate(hit.Record.Content, 300)))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "maximum results")
	return cmd
}

func newPresetsCmd(backend *backendFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the chunking presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := preset.List()
			if backend.jsonOutput {
				return printJSON(cmd, presets)
			}
			for _, p := range presets {
				cmd.Printf("%-10s %-10s size=%d overlap=%d (~%d/%d tokens)\n",
					p.Name, p.Strategy, p.ChunkSize, p.ChunkOverlap,
					p.ApproxTokens(), p.ApproxOverlapTokens())
				cmd.Println(indent(p.Description))
			}
			return nil
		},
	}
}

func newDetectCmd(backend *backendFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file>",
		Short: "Show which preset content-type detection picks for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			detail := preset.DetectDetail(filepath.Base(args[0]), string(data), args[0])
			if backend.jsonOutput {
				return printJSON(cmd, detail)
			}
			cmd.Printf("Detected type: %s (preset %s)\n",
				detail.DetectedType, detail.Recommended.Name)

			types := make([]string, 0, len(detail.Scores))
			for t := range detail.Scores {
				types = append(types, t)
			}
			sort.Strings(types)
			for _, t := range types {
				cmd.Printf("  %-10s %.2f\n", t, detail.Scores[t])
				for _, reason := range detail.Reasons[t] {
					cmd.Println("    -", reason)
				}
			}
			return nil
		},
	}
}

func newInfoCmd(backend *backendFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show how many chunks the collection holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pipeline, err := buildPipeline(ctx, backend, ingest.DefaultConfig(), 1)
			if err != nil {
				return err
			}
			defer pipeline.Close()

			count, err := pipeline.Count(ctx)
			if err != nil {
				return err
			}
			if backend.jsonOutput {
				return printJSON(cmd, map[string]any{"chunks": count})
			}
			cmd.Printf("Collection holds %d chunks.\n", count)
			return nil
		},
	}
}

func newClearCmd(backend *backendFlags) *cobra.Command {
	var (
		force      bool
		documentID string
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete stored chunks (everything, or one document)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("refusing to delete without --force")
			}
			ctx := cmd.Context()
			pipeline, err := buildPipeline(ctx, backend, ingest.DefaultConfig(), 1)
			if err != nil {
				return err
			}
			defer pipeline.Close()

			if documentID != "" {
				if err := pipeline.DeleteDocument(ctx, documentID); err != nil {
					return err
				}
				cmd.Printf("Deleted document %s.\n", documentID)
				return nil
			}
			if err := pipeline.Clear(ctx); err != nil {
				return err
			}
			cmd.Println("Collection cleared.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "confirm the deletion")
	cmd.Flags().StringVar(&documentID, "document", "", "delete only this document id")
	return cmd
}

func buildPipeline(ctx context.Context, backend *backendFlags, cfg ingest.Config, concurrency int) (*ingest.Pipeline, error) {
	emb, err := buildEmbedder(backend)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, backend, emb)
	if err != nil {
		return nil, err
	}

	progress := func(message string, current, total int) {
		log.Infof("[%d/%d] %s", current, total, message)
	}
	return ingest.New(emb, store,
		ingest.WithConfig(cfg),
		ingest.WithProgress(progress),
		ingest.WithConcurrency(concurrency),
	)
}

func buildEmbedder(backend *backendFlags) (embedder.Embedder, error) {
	switch backend.embedderName {
	case "openai":
		var opts []openai.Option
		if backend.model != "" {
			opts = append(opts, openai.WithModel(backend.model))
		}
		if backend.dimensions > 0 {
			opts = append(opts, openai.WithDimensions(backend.dimensions))
		}
		return openai.New(opts...), nil
	case "ollama":
		var opts []ollama.Option
		if backend.model != "" {
			opts = append(opts, ollama.WithModel(backend.model))
		}
		if backend.dimensions > 0 {
			opts = append(opts, ollama.WithDimensions(backend.dimensions))
		}
		if backend.ollamaHost != "" {
			opts = append(opts, ollama.WithHost(backend.ollamaHost))
		}
		return ollama.New(opts...), nil
	default:
		return nil, fmt.Errorf("unknown embedder %q (want openai or ollama)", backend.embedderName)
	}
}

func buildStore(ctx context.Context, backend *backendFlags, emb embedder.Embedder) (vectorstore.VectorStore, error) {
	switch backend.storeName {
	case "pgvector":
		return pgvector.New(ctx,
			pgvector.WithConnString(backend.pgConnStr),
			pgvector.WithTable(backend.pgTable),
			pgvector.WithDimension(emb.GetDimensions()),
		)
	case "memory":
		return inmemory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store %q (want pgvector or memory)", backend.storeName)
	}
}

func printBatch(cmd *cobra.Command, backend *backendFlags, batch *ingest.BatchResult) error {
	if backend.jsonOutput {
		return printJSON(cmd, batch)
	}
	cmd.Printf("Batch %s: %d files, %d succeeded, %d failed, %d chunks, %d embeddings\n",
		batch.RunID, batch.TotalFiles, batch.Successful, batch.Failed,
		batch.TotalChunks, batch.TotalEmbeddings)
	for _, r := range batch.Results {
		switch {
		case r.Skipped():
			cmd.Printf("  ~ %s: already stored (%s)\n", r.Filename, r.DocumentID)
		case r.Success:
			cmd.Printf("  + %s: %d chunks (%s)\n", r.Filename, r.ChunksCreated, r.DocumentID)
		default:
			cmd.Printf("  ! %s: %s\n", r.Filename, r.Error)
		}
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(out))
	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func indent(s string) string {
	return "    " + s
}
