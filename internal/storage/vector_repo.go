package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks tenant-memory/internal/storage VectorStore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tenant-memory/internal/contextutil"
	"tenant-memory/internal/memory"
)

// VectorStore defines the interface for vector row persistence.
// Filtering and ranking live in the search engine; the store only persists
// and scans.
type VectorStore interface {
	// Insert stores one row. ID and CreatedAt are assigned when empty.
	Insert(ctx context.Context, row *memory.VectorRow) error
	// Scan returns every row for a tenant and domain in insertion order.
	Scan(ctx context.Context, tenantID string, domain memory.Domain) ([]memory.VectorRow, error)
	// UpdateStatus merges {status: status} into the metadata of every row
	// matching (tenantID, sourceType, sourceID) and returns how many rows changed.
	UpdateStatus(ctx context.Context, tenantID string, sourceType memory.SourceType, sourceID string, status memory.Status) (int, error)
	// ListBySource returns the rows of one source ordered by chunk index.
	ListBySource(ctx context.Context, tenantID string, sourceType memory.SourceType, sourceID string) ([]memory.VectorRow, error)
}

// VectorRepo implements VectorStore on a SQL database.
type VectorRepo struct {
	db         *DB
	dimensions int
	now        func() time.Time
}

// NewVectorRepo creates a new VectorRepo. When dimensions is positive every
// inserted embedding must have exactly that length.
func NewVectorRepo(db *DB, dimensions int) *VectorRepo {
	return &VectorRepo{db: db, dimensions: dimensions, now: time.Now}
}

const vectorColumns = "id, tenant_id, domain, source_type, source_id, chunk_index, content, embedding, metadata, created_at"

// Insert stores one row.
func (r *VectorRepo) Insert(ctx context.Context, row *memory.VectorRow) error {
	if strings.TrimSpace(row.Content) == "" {
		return ErrEmptyContent
	}
	if r.dimensions > 0 && len(row.Embedding) != r.dimensions {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(row.Embedding), r.dimensions)
	}
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = r.now().UTC()
	}
	if row.Metadata == nil {
		row.Metadata = memory.Metadata{}
	}

	meta, err := row.Metadata.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	_, err = r.db.ExecContext(ctx, r.db.Rebind(
		"INSERT INTO memory_vectors ("+vectorColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"),
		row.ID, row.TenantID, string(row.Domain), string(row.SourceType), row.SourceID,
		row.ChunkIndex, row.Content, EncodeEmbedding(row.Embedding), string(meta), formatTime(row.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert vector row: %w", classify(err))
	}
	return nil
}

// Scan returns every row for a tenant and domain. Rows whose embedding blob is
// corrupt are skipped and logged; rows with unreadable metadata come back
// with empty metadata.
func (r *VectorRepo) Scan(ctx context.Context, tenantID string, domain memory.Domain) ([]memory.VectorRow, error) {
	return r.query(ctx,
		"SELECT "+vectorColumns+" FROM memory_vectors WHERE tenant_id = ? AND domain = ? ORDER BY seq",
		tenantID, string(domain),
	)
}

// ListBySource returns the rows of one source ordered by chunk index.
func (r *VectorRepo) ListBySource(ctx context.Context, tenantID string, sourceType memory.SourceType, sourceID string) ([]memory.VectorRow, error) {
	return r.query(ctx,
		"SELECT "+vectorColumns+" FROM memory_vectors WHERE tenant_id = ? AND source_type = ? AND source_id = ? ORDER BY chunk_index",
		tenantID, string(sourceType), sourceID,
	)
}

func (r *VectorRepo) query(ctx context.Context, query string, args ...any) ([]memory.VectorRow, error) {
	logger := contextutil.LoggerFromContext(ctx)

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector rows: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []memory.VectorRow
	for rows.Next() {
		var (
			row        memory.VectorRow
			domain     string
			sourceType string
			blob       []byte
			meta       string
			createdAt  string
		)
		if err := rows.Scan(&row.ID, &row.TenantID, &domain, &sourceType, &row.SourceID,
			&row.ChunkIndex, &row.Content, &blob, &meta, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan vector row: %w", err)
		}
		row.Domain = memory.Domain(domain)
		row.SourceType = memory.SourceType(sourceType)

		row.Embedding, err = DecodeEmbedding(blob)
		if err != nil {
			logger.WarnContext(ctx, "skipping vector row with corrupt embedding", "row_id", row.ID, "error", err)
			continue
		}

		var lossy bool
		row.Metadata, lossy = memory.ParseMetadata([]byte(meta))
		if lossy {
			logger.WarnContext(ctx, "vector row metadata partially unreadable", "row_id", row.ID)
		}

		row.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for row %s: %w", row.ID, err)
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return out, nil
}

// UpdateStatus merges the new status into each matching row's metadata,
// preserving its other keys. All rows are updated in one transaction.
func (r *VectorRepo) UpdateStatus(ctx context.Context, tenantID string, sourceType memory.SourceType, sourceID string, status memory.Status) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	type target struct {
		id   string
		meta string
	}
	var targets []target

	rows, err := tx.QueryContext(ctx, r.db.Rebind(
		"SELECT id, metadata FROM memory_vectors WHERE tenant_id = ? AND source_type = ? AND source_id = ?"),
		tenantID, string(sourceType), sourceID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to query vector rows: %w", err)
	}
	for rows.Next() {
		var t target
		if err := rows.Scan(&t.id, &t.meta); err != nil {
			_ = rows.Close()
			return 0, fmt.Errorf("failed to scan vector row: %w", err)
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return 0, fmt.Errorf("row iteration error: %w", err)
	}
	_ = rows.Close()

	update := r.db.Rebind("UPDATE memory_vectors SET metadata = ? WHERE id = ?")
	for _, t := range targets {
		merged, err := mergeStatus(t.meta, status)
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, update, merged, t.id); err != nil {
			return 0, fmt.Errorf("failed to update vector row %s: %w", t.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit status update: %w", err)
	}
	return len(targets), nil
}

func mergeStatus(raw string, status memory.Status) (string, error) {
	meta, _ := memory.ParseMetadata([]byte(raw))
	meta[memory.KeyStatus] = memory.String(string(status))
	out, err := meta.Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	return string(out), nil
}

var _ VectorStore = (*VectorRepo)(nil)
