package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/google/uuid"

	"tenant-memory/internal/contextutil"
	"tenant-memory/internal/llm"
	"tenant-memory/internal/memory"
	"tenant-memory/internal/storage"
	"tenant-memory/internal/vectorstore"
)

// Indexer chunks, embeds and stores memory records and uploaded files as
// vector rows. Chunks are embedded one at a time, in chunk order.
type Indexer struct {
	store    storage.VectorStore
	embedder llm.Embedder
	mirror   vectorstore.Mirror
	markdown *MarkdownExtractor
	maxLen   int
	newID    func() string
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithMirror copies every stored row into m.
func WithMirror(m vectorstore.Mirror) Option {
	return func(ix *Indexer) {
		if m != nil {
			ix.mirror = m
		}
	}
}

// WithMaxLen sets the chunk threshold in runes.
func WithMaxLen(n int) Option {
	return func(ix *Indexer) {
		if n > 0 {
			ix.maxLen = n
		}
	}
}

// New creates a new Indexer.
func New(store storage.VectorStore, embedder llm.Embedder, opts ...Option) *Indexer {
	ix := &Indexer{
		store:    store,
		embedder: embedder,
		mirror:   vectorstore.Nop{},
		markdown: NewMarkdownExtractor(),
		maxLen:   DefaultMaxLen,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// FileInput is an uploaded document to index.
type FileInput struct {
	TenantID   string
	Filename   string
	Content    []byte
	DocumentID string
	Metadata   memory.Metadata
}

// target is one source to split into rows.
type target struct {
	tenantID   string
	domain     memory.Domain
	sourceType memory.SourceType
	sourceID   string
	content    string
	metadata   memory.Metadata
}

// IndexRecord stores the vector rows of a memory record. Records whose type
// has no domain are skipped without error. A failed embedding skips only its
// chunk; a storage failure aborts and is returned. Rows stored before the
// failure are kept.
func (ix *Indexer) IndexRecord(ctx context.Context, rec *memory.Record) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	domain, ok := rec.Type.Domain()
	if !ok {
		logger.DebugContext(ctx, "skipping record with unmapped type", "type", rec.Type, "record_id", rec.ID)
		return Result{SourceID: rec.ID, Skipped: true}, nil
	}

	meta := rec.Metadata.Clone()
	meta[memory.KeyType] = memory.String(string(rec.Type))
	setIfPresent(meta, memory.KeySourceID, rec.SourceID)
	setIfPresent(meta, memory.KeyConversationID, rec.ConversationID)
	setIfPresent(meta, memory.KeyMessageID, rec.MessageID)
	setIfPresent(meta, memory.KeyDocumentID, rec.DocumentID)

	return ix.index(ctx, target{
		tenantID:   rec.TenantID,
		domain:     domain,
		sourceType: memory.SourceMemory,
		sourceID:   rec.ID,
		content:    rec.Content,
		metadata:   meta,
	})
}

// IndexFile stores the vector rows of an uploaded document in the documents
// domain. Markdown files are flattened to plain text first.
func (ix *Indexer) IndexFile(ctx context.Context, in FileInput) (Result, error) {
	sourceID := in.DocumentID
	if sourceID == "" {
		sourceID = ix.newID()
	}

	content := string(in.Content)
	meta := in.Metadata.Clone()
	if IsMarkdown(in.Filename) {
		title, plain := ix.markdown.Extract(in.Content, in.Filename)
		content = plain
		if title != "" {
			meta["title"] = memory.String(title)
		}
	}
	meta[memory.KeyType] = memory.String(string(memory.TypeDocument))
	meta[memory.KeyDocumentID] = memory.String(sourceID)
	setIfPresent(meta, memory.KeyFilename, in.Filename)

	return ix.index(ctx, target{
		tenantID:   in.TenantID,
		domain:     memory.DomainDocuments,
		sourceType: memory.SourceFile,
		sourceID:   sourceID,
		content:    content,
		metadata:   meta,
	})
}

func (ix *Indexer) index(ctx context.Context, t target) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx).With(
		"tenant_id", t.tenantID,
		"domain", t.domain,
		"source_id", t.sourceID,
	)

	res := Result{SourceID: t.sourceID, Domain: t.domain}

	chunked := utf8.RuneCountInString(t.content) > ix.maxLen
	pieces := ChunkText(t.content, ix.maxLen)
	if len(pieces) == 0 {
		logger.WarnContext(ctx, "no content to index")
		return res, nil
	}

	rows := make([]memory.VectorRow, 0, len(pieces))
	for i, piece := range pieces {
		res.ChunksAttempted++

		vec, err := ix.embedder.Embed(ctx, piece)
		if err != nil {
			res.ChunksSkipped++
			logger.WarnContext(ctx, "skipping chunk after embedding failure", "chunk_index", i, "error", err)
			continue
		}

		meta := t.metadata.Clone()
		if chunked {
			meta[memory.KeyChunkIndex] = memory.Number(float64(i))
		}

		row := memory.VectorRow{
			TenantID:   t.tenantID,
			Domain:     t.domain,
			SourceType: t.sourceType,
			SourceID:   t.sourceID,
			ChunkIndex: i,
			Content:    piece,
			Embedding:  vec,
			Metadata:   meta,
		}
		if err := ix.store.Insert(ctx, &row); err != nil {
			ix.mirrorRows(ctx, logger, rows)
			return res, fmt.Errorf("failed to store chunk %d of %s: %w", i, t.sourceID, err)
		}

		res.ChunksIndexed++
		res.RowIDs = append(res.RowIDs, row.ID)
		res.observe(piece)
		rows = append(rows, row)
	}

	ix.mirrorRows(ctx, logger, rows)

	logger.InfoContext(ctx, "indexed source",
		"chunks", res.ChunksIndexed,
		"skipped", res.ChunksSkipped,
	)
	return res, nil
}

// mirrorRows copies rows to the mirror. Mirror failures never fail indexing.
func (ix *Indexer) mirrorRows(ctx context.Context, logger *slog.Logger, rows []memory.VectorRow) {
	if len(rows) == 0 {
		return
	}
	if err := ix.mirror.Upsert(ctx, rows); err != nil {
		logger.WarnContext(ctx, "failed to mirror rows", "count", len(rows), "error", err)
	}
}

func setIfPresent(meta memory.Metadata, key, value string) {
	if value != "" {
		meta[key] = memory.String(value)
	}
}
