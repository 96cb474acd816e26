package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"tenant-memory/internal/memory"
)

func newRow(tenant string, domain memory.Domain, sourceID string, chunk int, content string) *memory.VectorRow {
	return &memory.VectorRow{
		TenantID:   tenant,
		Domain:     domain,
		SourceType: memory.SourceMemory,
		SourceID:   sourceID,
		ChunkIndex: chunk,
		Content:    content,
		Embedding:  []float32{1, 0, 0},
		Metadata:   memory.Metadata{memory.KeyProjectID: memory.String("p1")},
	}
}

func TestVectorRepo_Insert(t *testing.T) {
	for name, db := range testDatabases(t) {
		t.Run(name, func(t *testing.T) {
			repo := NewVectorRepo(db, 3)
			ctx := context.Background()
			tenant := uuid.NewString()

			tests := []struct {
				name    string
				row     *memory.VectorRow
				wantErr error
			}{
				{
					name: "valid row",
					row:  newRow(tenant, memory.DomainDocuments, "src-1", 0, "hello"),
				},
				{
					name:    "empty content",
					row:     newRow(tenant, memory.DomainDocuments, "src-2", 0, "   "),
					wantErr: ErrEmptyContent,
				},
				{
					name: "wrong dimension",
					row: func() *memory.VectorRow {
						r := newRow(tenant, memory.DomainDocuments, "src-3", 0, "x")
						r.Embedding = []float32{1, 2}
						return r
					}(),
					wantErr: ErrDimensionMismatch,
				},
				{
					name:    "duplicate position",
					row:     newRow(tenant, memory.DomainDocuments, "src-1", 0, "again"),
					wantErr: ErrConflict,
				},
				{
					name: "same position from a file upload",
					row: func() *memory.VectorRow {
						r := newRow(tenant, memory.DomainDocuments, "src-1", 0, "uploaded")
						r.SourceType = memory.SourceFile
						return r
					}(),
					wantErr: ErrConflict,
				},
				{
					name: "same position for another tenant",
					row:  newRow(uuid.NewString(), memory.DomainDocuments, "src-1", 0, "hello"),
				},
			}

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					err := repo.Insert(ctx, tt.row)
					if tt.wantErr != nil {
						if !errors.Is(err, tt.wantErr) {
							t.Errorf("Insert() error = %v, want %v", err, tt.wantErr)
						}
						return
					}
					if err != nil {
						t.Fatalf("Insert() unexpected error: %v", err)
					}
					if tt.row.ID == "" {
						t.Error("Insert() did not assign an ID")
					}
					if tt.row.CreatedAt.IsZero() {
						t.Error("Insert() did not assign CreatedAt")
					}
				})
			}
		})
	}
}

func TestVectorRepo_Scan(t *testing.T) {
	for name, db := range testDatabases(t) {
		t.Run(name, func(t *testing.T) {
			repo := NewVectorRepo(db, 0)
			ctx := context.Background()
			tenantA := uuid.NewString()
			tenantB := uuid.NewString()

			rows := []*memory.VectorRow{
				newRow(tenantA, memory.DomainEmails, "e1", 0, "first"),
				newRow(tenantA, memory.DomainEmails, "e2", 0, "second"),
				newRow(tenantA, memory.DomainReviews, "r1", 0, "review"),
				newRow(tenantB, memory.DomainEmails, "e1", 0, "other tenant"),
			}
			for _, r := range rows {
				if err := repo.Insert(ctx, r); err != nil {
					t.Fatalf("Insert() error = %v", err)
				}
			}

			got, err := repo.Scan(ctx, tenantA, memory.DomainEmails)
			if err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("Scan() returned %d rows, want 2", len(got))
			}
			if got[0].Content != "first" || got[1].Content != "second" {
				t.Errorf("Scan() order = [%s %s], want [first second]", got[0].Content, got[1].Content)
			}
			for _, r := range got {
				if r.TenantID != tenantA {
					t.Errorf("Scan() leaked row of tenant %s", r.TenantID)
				}
				if len(r.Embedding) != 3 || r.Embedding[0] != 1 {
					t.Errorf("Scan() embedding = %v, want [1 0 0]", r.Embedding)
				}
				if p, _ := r.Metadata.GetString(memory.KeyProjectID); p != "p1" {
					t.Errorf("Scan() metadata projectId = %q, want p1", p)
				}
			}

			empty, err := repo.Scan(ctx, uuid.NewString(), memory.DomainEmails)
			if err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			if len(empty) != 0 {
				t.Errorf("Scan() for unknown tenant returned %d rows", len(empty))
			}
		})
	}
}

func TestVectorRepo_ScanSkipsCorruptRows(t *testing.T) {
	db := newTestDB(t)
	repo := NewVectorRepo(db, 0)
	ctx := context.Background()

	if err := repo.Insert(ctx, newRow("t1", memory.DomainGeneric, "ok", 0, "good row")); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	now := formatTime(time.Now())
	if _, err := db.Exec(
		"INSERT INTO memory_vectors (id, tenant_id, domain, source_type, source_id, chunk_index, content, embedding, metadata, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		"corrupt", "t1", "generic", "memory", "bad-blob", 0, "x", []byte{1, 2, 3}, "{}", now,
	); err != nil {
		t.Fatalf("raw insert error = %v", err)
	}
	if _, err := db.Exec(
		"INSERT INTO memory_vectors (id, tenant_id, domain, source_type, source_id, chunk_index, content, embedding, metadata, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		"badmeta", "t1", "generic", "memory", "bad-meta", 0, "y", EncodeEmbedding([]float32{0, 1}), "{oops", now,
	); err != nil {
		t.Fatalf("raw insert error = %v", err)
	}

	got, err := repo.Scan(ctx, "t1", memory.DomainGeneric)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Scan() returned %d rows, want 2", len(got))
	}
	for _, r := range got {
		if r.ID == "corrupt" {
			t.Error("Scan() returned row with corrupt embedding")
		}
		if r.ID == "badmeta" && len(r.Metadata) != 0 {
			t.Errorf("Scan() metadata for malformed row = %v, want empty", r.Metadata)
		}
	}
}

func TestVectorRepo_UpdateStatus(t *testing.T) {
	for name, db := range testDatabases(t) {
		t.Run(name, func(t *testing.T) {
			repo := NewVectorRepo(db, 0)
			ctx := context.Background()
			tenant := uuid.NewString()

			for i := 0; i < 3; i++ {
				if err := repo.Insert(ctx, newRow(tenant, memory.DomainDocuments, "doc-1", i, "chunk")); err != nil {
					t.Fatalf("Insert() error = %v", err)
				}
			}
			if err := repo.Insert(ctx, newRow(tenant, memory.DomainDocuments, "doc-2", 0, "other")); err != nil {
				t.Fatalf("Insert() error = %v", err)
			}
			fileRow := newRow(tenant, memory.DomainDocuments, "doc-1", 5, "uploaded")
			fileRow.SourceType = memory.SourceFile
			if err := repo.Insert(ctx, fileRow); err != nil {
				t.Fatalf("Insert() error = %v", err)
			}

			n, err := repo.UpdateStatus(ctx, tenant, memory.SourceMemory, "doc-1", memory.StatusDeleted)
			if err != nil {
				t.Fatalf("UpdateStatus() error = %v", err)
			}
			if n != 3 {
				t.Errorf("UpdateStatus() updated %d rows, want 3", n)
			}

			rows, err := repo.Scan(ctx, tenant, memory.DomainDocuments)
			if err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			for _, r := range rows {
				wantDeleted := r.SourceType == memory.SourceMemory && r.SourceID == "doc-1"
				if got := r.Metadata.Status() == memory.StatusDeleted; got != wantDeleted {
					t.Errorf("row %s/%s/%d deleted = %v, want %v", r.SourceType, r.SourceID, r.ChunkIndex, got, wantDeleted)
				}
				if p, _ := r.Metadata.GetString(memory.KeyProjectID); p != "p1" {
					t.Errorf("UpdateStatus() lost projectId on row %s", r.ID)
				}
			}

			n, err = repo.UpdateStatus(ctx, tenant, memory.SourceMemory, "missing", memory.StatusArchived)
			if err != nil {
				t.Fatalf("UpdateStatus() error = %v", err)
			}
			if n != 0 {
				t.Errorf("UpdateStatus() for missing source updated %d rows", n)
			}
		})
	}
}

func TestVectorRepo_ListBySource(t *testing.T) {
	db := newTestDB(t)
	repo := NewVectorRepo(db, 0)
	ctx := context.Background()

	for _, i := range []int{2, 0, 1} {
		if err := repo.Insert(ctx, newRow("t1", memory.DomainDocuments, "doc", i, "c")); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	rows, err := repo.ListBySource(ctx, "t1", memory.SourceMemory, "doc")
	if err != nil {
		t.Fatalf("ListBySource() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("ListBySource() returned %d rows, want 3", len(rows))
	}
	for i, r := range rows {
		if r.ChunkIndex != i {
			t.Errorf("rows[%d].ChunkIndex = %d", i, r.ChunkIndex)
		}
	}
}
