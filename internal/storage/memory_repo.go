package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_memory_store.go -package=mocks tenant-memory/internal/storage MemoryStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tenant-memory/internal/contextutil"
	"tenant-memory/internal/memory"
)

const (
	// DefaultLocalLimit is the result limit when a local query sets none.
	DefaultLocalLimit = 20
	// MaxLocalLimit caps local query results.
	MaxLocalLimit = 500
)

// LocalQuery selects durable memory records.
type LocalQuery struct {
	TenantID string
	// Text is matched as a case-insensitive substring of the content.
	Text string
	// Types restricts results to these item types when non-empty.
	Types []memory.ItemType
	// ProjectID must equal metadata.projectId when set.
	ProjectID string
	// Statuses restricts results to these statuses; empty means active only.
	Statuses []memory.Status
	Limit    int
}

// MemoryStore defines the interface for durable memory record storage.
type MemoryStore interface {
	// Insert stores a record. ID, Status and CreatedAt are assigned when empty.
	Insert(ctx context.Context, rec *memory.Record) error
	// GetByID gets a record of a tenant. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, tenantID, id string) (*memory.Record, error)
	// UpdateStatus sets the status column and merges it into metadata.
	// Returns ErrNotFound if the record does not exist.
	UpdateStatus(ctx context.Context, tenantID, id string, status memory.Status) error
	// Search returns matching records in insertion order.
	Search(ctx context.Context, q LocalQuery) ([]memory.Record, error)
	// ListByConversation returns the records of one conversation in insertion order.
	ListByConversation(ctx context.Context, tenantID, conversationID string, types []memory.ItemType, limit int) ([]memory.Record, error)
}

// MemoryRepo implements MemoryStore on a SQL database.
type MemoryRepo struct {
	db  *DB
	now func() time.Time
}

// NewMemoryRepo creates a new MemoryRepo.
func NewMemoryRepo(db *DB) *MemoryRepo {
	return &MemoryRepo{db: db, now: time.Now}
}

const recordColumns = "id, tenant_id, type, content, metadata, status, source_id, conversation_id, message_id, document_id, created_at"

// Insert stores a record.
func (r *MemoryRepo) Insert(ctx context.Context, rec *memory.Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now().UTC()
	}
	if rec.Metadata == nil {
		rec.Metadata = memory.Metadata{}
	}
	if rec.Status == "" {
		rec.Status = rec.Metadata.Status()
		if !rec.Status.Valid() {
			rec.Status = memory.StatusActive
		}
	}

	meta, err := rec.Metadata.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	_, err = r.db.ExecContext(ctx, r.db.Rebind(
		"INSERT INTO memory_records ("+recordColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"),
		rec.ID, rec.TenantID, string(rec.Type), rec.Content, string(meta), string(rec.Status),
		rec.SourceID, rec.ConversationID, rec.MessageID, rec.DocumentID, formatTime(rec.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert memory record: %w", classify(err))
	}
	return nil
}

// GetByID gets a record of a tenant. Returns ErrNotFound if not found.
func (r *MemoryRepo) GetByID(ctx context.Context, tenantID, id string) (*memory.Record, error) {
	recs, err := r.query(ctx,
		"SELECT "+recordColumns+" FROM memory_records WHERE tenant_id = ? AND id = ?",
		tenantID, id,
	)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	return &recs[0], nil
}

// UpdateStatus sets the status of a record and merges it into its metadata.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, tenantID, id string, status memory.Status) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var raw string
	err = tx.QueryRowContext(ctx, r.db.Rebind(
		"SELECT metadata FROM memory_records WHERE tenant_id = ? AND id = ?"),
		tenantID, id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query memory record: %w", err)
	}

	merged, err := mergeStatus(raw, status)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, r.db.Rebind(
		"UPDATE memory_records SET metadata = ?, status = ? WHERE tenant_id = ? AND id = ?"),
		merged, string(status), tenantID, id,
	); err != nil {
		return fmt.Errorf("failed to update memory record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status update: %w", err)
	}
	return nil
}

// Search returns records matching q in insertion order.
func (r *MemoryRepo) Search(ctx context.Context, q LocalQuery) ([]memory.Record, error) {
	var (
		where = []string{"tenant_id = ?"}
		args  = []any{q.TenantID}
	)

	if text := strings.TrimSpace(q.Text); text != "" {
		where = append(where, `LOWER(content) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(text))+"%")
	}
	if len(q.Types) > 0 {
		where = append(where, "type IN ("+placeholders(len(q.Types))+")")
		for _, t := range q.Types {
			args = append(args, string(t))
		}
	}
	if q.ProjectID != "" {
		where = append(where, r.jsonField(memory.KeyProjectID)+" = ?")
		args = append(args, q.ProjectID)
	}
	statuses := q.Statuses
	if len(statuses) == 0 {
		statuses = []memory.Status{memory.StatusActive}
	}
	where = append(where, "status IN ("+placeholders(len(statuses))+")")
	for _, s := range statuses {
		args = append(args, string(s))
	}

	args = append(args, clampLimit(q.Limit))
	return r.query(ctx,
		"SELECT "+recordColumns+" FROM memory_records WHERE "+strings.Join(where, " AND ")+" ORDER BY seq LIMIT ?",
		args...,
	)
}

// ListByConversation returns the records of one conversation in insertion order.
func (r *MemoryRepo) ListByConversation(ctx context.Context, tenantID, conversationID string, types []memory.ItemType, limit int) ([]memory.Record, error) {
	query := "SELECT " + recordColumns + " FROM memory_records WHERE tenant_id = ? AND conversation_id = ?"
	args := []any{tenantID, conversationID}
	if len(types) > 0 {
		query += " AND type IN (" + placeholders(len(types)) + ")"
		for _, t := range types {
			args = append(args, string(t))
		}
	}
	query += " ORDER BY seq LIMIT ?"
	args = append(args, clampLimit(limit))
	return r.query(ctx, query, args...)
}

func (r *MemoryRepo) query(ctx context.Context, query string, args ...any) ([]memory.Record, error) {
	logger := contextutil.LoggerFromContext(ctx)

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query memory records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []memory.Record
	for rows.Next() {
		var (
			rec       memory.Record
			typ       string
			meta      string
			status    string
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.TenantID, &typ, &rec.Content, &meta, &status,
			&rec.SourceID, &rec.ConversationID, &rec.MessageID, &rec.DocumentID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan memory record: %w", err)
		}
		rec.Type = memory.ItemType(typ)
		rec.Status = memory.Status(status)

		var lossy bool
		rec.Metadata, lossy = memory.ParseMetadata([]byte(meta))
		if lossy {
			logger.WarnContext(ctx, "memory record metadata partially unreadable", "record_id", rec.ID)
		}

		rec.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for record %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return out, nil
}

// jsonField returns the SQL expression extracting a top-level string field
// from the metadata column.
func (r *MemoryRepo) jsonField(key string) string {
	if r.db.Dialect() == DialectPostgres {
		return "(metadata::jsonb ->> '" + key + "')"
	}
	return "json_extract(metadata, '$." + key + "')"
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLocalLimit
	}
	if limit > MaxLocalLimit {
		return MaxLocalLimit
	}
	return limit
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ MemoryStore = (*MemoryRepo)(nil)
