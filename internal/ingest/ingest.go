package ingest

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_file_indexer.go -package=mocks tenant-memory/internal/ingest FileIndexer

import (
	"context"
	"fmt"
	"os"

	"tenant-memory/internal/contextutil"
	"tenant-memory/internal/indexer"
	"tenant-memory/internal/memory"
	"tenant-memory/internal/storage"
)

// FileIndexer indexes one uploaded document.
type FileIndexer interface {
	IndexFile(ctx context.Context, in indexer.FileInput) (indexer.Result, error)
}

// Ingester indexes scanned files for one tenant.
type Ingester struct {
	indexer FileIndexer
	// sources is used to skip files that already have vector rows.
	sources storage.VectorStore
	force   bool
}

// NewIngester creates a new Ingester. When force is false, files whose
// document id already has rows are left untouched.
func NewIngester(ix FileIndexer, sources storage.VectorStore, force bool) *Ingester {
	return &Ingester{indexer: ix, sources: sources, force: force}
}

// DocumentID derives a stable document id from a scanned file so repeated
// runs address the same rows.
func DocumentID(prefix string, f ScannedFile) string {
	if prefix == "" {
		return f.RelPath
	}
	return prefix + "/" + f.RelPath
}

// Run indexes files for tenantID and returns aggregate coverage. Per-file
// failures are counted and logged; only context cancellation stops the run.
func (g *Ingester) Run(ctx context.Context, tenantID, prefix string, files []ScannedFile) (indexer.CoverageStats, error) {
	logger := contextutil.LoggerFromContext(ctx)

	var stats indexer.CoverageStats
	var skipped int

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		docID := DocumentID(prefix, f)

		if !g.force && g.sources != nil {
			rows, err := g.sources.ListBySource(ctx, tenantID, memory.SourceFile, docID)
			if err != nil {
				logger.WarnContext(ctx, "failed to check existing rows", "path", f.RelPath, "error", err)
			} else if len(rows) > 0 {
				skipped++
				logger.DebugContext(ctx, "file already indexed", "path", f.RelPath, "chunks", len(rows))
				continue
			}
		}

		content, err := os.ReadFile(f.AbsPath)
		if err != nil {
			stats.Add(indexer.Result{SourceID: docID}, err)
			logger.ErrorContext(ctx, "failed to read file", "path", f.AbsPath, "error", err)
			continue
		}

		meta := memory.Metadata{
			memory.KeyOrigin: memory.String("ingest"),
			"path":           memory.String(f.RelPath),
		}
		if f.Folder != "" {
			meta["folder"] = memory.String(f.Folder)
		}

		res, err := g.indexer.IndexFile(ctx, indexer.FileInput{
			TenantID:   tenantID,
			Filename:   f.RelPath,
			Content:    content,
			DocumentID: docID,
			Metadata:   meta,
		})
		stats.Add(res, err)
		if err != nil {
			logger.ErrorContext(ctx, "failed to index file", "path", f.RelPath, "error", err)
			continue
		}
	}

	logger.InfoContext(ctx, "ingest finished",
		"files", len(files),
		"already_indexed", skipped,
		"docs_processed", stats.DocsProcessed,
		"docs_failed", stats.DocsFailed,
		"chunks_embedded", stats.ChunksEmbedded,
	)

	if stats.DocsFailed > 0 {
		return stats, fmt.Errorf("%d of %d documents failed to index", stats.DocsFailed, stats.DocsProcessed)
	}
	return stats, nil
}
