package ingest_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/mock/gomock"

	"tenant-memory/internal/indexer"
	"tenant-memory/internal/ingest"
	"tenant-memory/internal/ingest/mocks"
	"tenant-memory/internal/llm"
	"tenant-memory/internal/memory"
	"tenant-memory/internal/storage"
	storagemocks "tenant-memory/internal/storage/mocks"
)

func scanFixture(t *testing.T, files map[string]string) []ingest.ScannedFile {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}
	scanned, err := ingest.NewScanner(root).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	return scanned
}

func TestDocumentID(t *testing.T) {
	f := ingest.ScannedFile{RelPath: "guides/setup.md"}
	if got := ingest.DocumentID("", f); got != "guides/setup.md" {
		t.Errorf("DocumentID() = %q, want guides/setup.md", got)
	}
	if got := ingest.DocumentID("kb", f); got != "kb/guides/setup.md" {
		t.Errorf("DocumentID() = %q, want kb/guides/setup.md", got)
	}
}

func TestIngester_Run(t *testing.T) {
	files := scanFixture(t, map[string]string{
		"a.md":       "# Alpha\n\nalpha body",
		"dir/b.txt":  "bravo",
		"dir/c.md":   "# Charlie",
		"done/d.txt": "delta",
	})

	ctrl := gomock.NewController(t)
	mockIndexer := mocks.NewMockFileIndexer(ctrl)
	mockSources := storagemocks.NewMockVectorStore(ctrl)

	mockSources.EXPECT().
		ListBySource(gomock.Any(), "t1", memory.SourceFile, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ memory.SourceType, id string) ([]memory.VectorRow, error) {
			if id == "kb/done/d.txt" {
				return []memory.VectorRow{{ID: "existing"}}, nil
			}
			return nil, nil
		}).Times(4)

	var indexed []string
	mockIndexer.EXPECT().
		IndexFile(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in indexer.FileInput) (indexer.Result, error) {
			if in.TenantID != "t1" {
				t.Errorf("IndexFile() tenant = %q, want t1", in.TenantID)
			}
			if origin, _ := in.Metadata.GetString(memory.KeyOrigin); origin != "ingest" {
				t.Errorf("IndexFile() origin = %q, want ingest", origin)
			}
			indexed = append(indexed, in.DocumentID)
			return indexer.Result{SourceID: in.DocumentID, ChunksAttempted: 1, ChunksIndexed: 1}, nil
		}).Times(3)

	stats, err := ingest.NewIngester(mockIndexer, mockSources, false).Run(context.Background(), "t1", "kb", files)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{"kb/a.md", "kb/dir/b.txt", "kb/dir/c.md"}
	if len(indexed) != len(want) {
		t.Fatalf("indexed = %v, want %v", indexed, want)
	}
	for i := range want {
		if indexed[i] != want[i] {
			t.Errorf("indexed[%d] = %q, want %q", i, indexed[i], want[i])
		}
	}
	if stats.DocsProcessed != 3 || stats.ChunksEmbedded != 3 || stats.DocsFailed != 0 {
		t.Errorf("stats = %+v, want 3 docs and 3 chunks", stats)
	}
}

func TestIngester_Run_ForceSkipsLookup(t *testing.T) {
	files := scanFixture(t, map[string]string{"a.md": "alpha"})

	ctrl := gomock.NewController(t)
	mockIndexer := mocks.NewMockFileIndexer(ctrl)
	mockSources := storagemocks.NewMockVectorStore(ctrl)

	mockIndexer.EXPECT().
		IndexFile(gomock.Any(), gomock.Any()).
		Return(indexer.Result{ChunksAttempted: 1, ChunksIndexed: 1}, nil)

	if _, err := ingest.NewIngester(mockIndexer, mockSources, true).Run(context.Background(), "t1", "", files); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestIngester_Run_Failures(t *testing.T) {
	files := scanFixture(t, map[string]string{
		"a.md": "alpha",
		"b.md": "bravo",
	})

	ctrl := gomock.NewController(t)
	mockIndexer := mocks.NewMockFileIndexer(ctrl)

	gomock.InOrder(
		mockIndexer.EXPECT().
			IndexFile(gomock.Any(), gomock.Any()).
			Return(indexer.Result{ChunksAttempted: 1}, errors.New("disk full")),
		mockIndexer.EXPECT().
			IndexFile(gomock.Any(), gomock.Any()).
			Return(indexer.Result{ChunksAttempted: 1, ChunksIndexed: 1}, nil),
	)

	stats, err := ingest.NewIngester(mockIndexer, nil, false).Run(context.Background(), "t1", "", files)
	if err == nil {
		t.Fatal("Run() expected error when a document fails")
	}
	if stats.DocsProcessed != 2 || stats.DocsFailed != 1 || stats.ChunksEmbedded != 1 {
		t.Errorf("stats = %+v, want 2 processed, 1 failed, 1 chunk", stats)
	}
}

func TestIngester_Run_LookupErrorStillIndexes(t *testing.T) {
	files := scanFixture(t, map[string]string{"a.md": "alpha"})

	ctrl := gomock.NewController(t)
	mockIndexer := mocks.NewMockFileIndexer(ctrl)
	mockSources := storagemocks.NewMockVectorStore(ctrl)

	mockSources.EXPECT().
		ListBySource(gomock.Any(), "t1", memory.SourceFile, "a.md").
		Return(nil, errors.New("db locked"))
	mockIndexer.EXPECT().
		IndexFile(gomock.Any(), gomock.Any()).
		Return(indexer.Result{ChunksAttempted: 1, ChunksIndexed: 1}, nil)

	if _, err := ingest.NewIngester(mockIndexer, mockSources, false).Run(context.Background(), "t1", "", files); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestIngester_Run_SQLiteRerunIsIdempotent(t *testing.T) {
	db, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("storage.Migrate() error = %v", err)
	}

	vectors := storage.NewVectorRepo(db, 32)
	ix := indexer.New(vectors, llm.NewHashEmbedder(32), indexer.WithMaxLen(100))
	files := scanFixture(t, map[string]string{
		"guide.md":  "# Guide\n\nInstall the agent before enabling sync.",
		"notes.txt": "Quarterly review notes.",
	})

	ctx := context.Background()
	g := ingest.NewIngester(ix, vectors, false)

	first, err := g.Run(ctx, "t1", "", files)
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if first.DocsProcessed != 2 || first.ChunksEmbedded != 2 {
		t.Errorf("first stats = %+v, want 2 docs and 2 chunks", first)
	}

	second, err := g.Run(ctx, "t1", "", files)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if second.DocsProcessed != 0 {
		t.Errorf("second Run() processed %d docs, want 0", second.DocsProcessed)
	}

	rows, err := vectors.Scan(ctx, "t1", memory.DomainDocuments)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("stored %d rows, want 2", len(rows))
	}
	for _, row := range rows {
		if row.SourceType != memory.SourceFile {
			t.Errorf("row %s source type = %q, want file", row.ID, row.SourceType)
		}
	}
}
