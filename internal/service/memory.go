package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_indexer.go -package=mocks tenant-memory/internal/service Indexer
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_memory_service.go -package=mocks tenant-memory/internal/service MemoryService

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tenant-memory/internal/contextutil"
	"tenant-memory/internal/indexer"
	"tenant-memory/internal/memory"
	"tenant-memory/internal/search"
	"tenant-memory/internal/storage"
	"tenant-memory/internal/vectorstore"
)

// Indexer turns records and files into vector rows.
// This interface is defined from the service layer's perspective (consumer-first).
type Indexer interface {
	IndexRecord(ctx context.Context, rec *memory.Record) (indexer.Result, error)
	IndexFile(ctx context.Context, in indexer.FileInput) (indexer.Result, error)
}

// WriteRequest is a memory write from an upstream agent.
type WriteRequest struct {
	TenantID       string
	Type           memory.ItemType
	Content        string
	Metadata       memory.Metadata
	SourceID       string
	ConversationID string
	MessageID      string
	DocumentID     string
	// CreatedAt defaults to now.
	CreatedAt time.Time
}

// MemoryService is the write and search surface of the memory store.
type MemoryService interface {
	// WriteMemory applies the lifecycle policy to req and stores and indexes
	// it accordingly. It returns nil when nothing was kept: memory is off or
	// ephemeral, or the type is neither stored nor indexed.
	WriteMemory(ctx context.Context, req WriteRequest) (*memory.Record, error)
	// SetStatus moves a record and all of its vector rows to status. It
	// returns false when no record or row with that id exists.
	SetStatus(ctx context.Context, tenantID, id string, status memory.Status) (bool, error)
	// SearchLocal searches durable records by substring.
	SearchLocal(ctx context.Context, q storage.LocalQuery) ([]memory.Record, error)
	// ConversationMemory lists the records of one conversation.
	ConversationMemory(ctx context.Context, tenantID, conversationID string, types []memory.ItemType, limit int) ([]memory.Record, error)
	// SearchVectors ranks the vector rows of one domain.
	SearchVectors(ctx context.Context, q search.Query) ([]search.Result, error)
	// SearchVectorsMultiDomain ranks the vector rows of several domains.
	SearchVectorsMultiDomain(ctx context.Context, q search.MultiQuery) ([]search.Result, error)
	// IndexFile indexes an uploaded document.
	IndexFile(ctx context.Context, in indexer.FileInput) (indexer.Result, error)
	// HandleBatch runs a list of agent operations in order.
	HandleBatch(ctx context.Context, req BatchRequest) (BatchResponse, error)
}

// memoryService implements MemoryService.
type memoryService struct {
	records storage.MemoryStore
	vectors storage.VectorStore
	indexer Indexer
	engine  search.Engine
	mirror  vectorstore.Mirror
	now     func() time.Time
	newID   func() string
}

// NewMemoryService creates a new MemoryService. A nil mirror disables
// mirroring of status changes.
func NewMemoryService(
	records storage.MemoryStore,
	vectors storage.VectorStore,
	ix Indexer,
	engine search.Engine,
	mirror vectorstore.Mirror,
) MemoryService {
	if mirror == nil {
		mirror = vectorstore.Nop{}
	}
	return &memoryService{
		records: records,
		vectors: vectors,
		indexer: ix,
		engine:  engine,
		mirror:  mirror,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// WriteMemory stores and indexes a record according to the lifecycle policy.
func (s *memoryService) WriteMemory(ctx context.Context, req WriteRequest) (*memory.Record, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := validateWrite(req); err != nil {
		logger.WarnContext(ctx, "invalid memory write", "error", err)
		return nil, err
	}

	if memory.Disabled(req.Metadata) {
		logger.DebugContext(ctx, "memory disabled for write", "tenant_id", req.TenantID, "mode", req.Metadata.MemoryMode())
		return nil, nil
	}

	local := memory.ShouldStoreLocally(req.Type)
	vector := memory.ShouldStoreInVector(req.Type, req.Metadata)
	if !local && !vector {
		logger.DebugContext(ctx, "memory type is neither stored nor indexed", "type", req.Type)
		return nil, nil
	}

	createdAt := req.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	rec := &memory.Record{
		ID:             s.newID(),
		TenantID:       req.TenantID,
		Type:           req.Type,
		Content:        req.Content,
		Metadata:       req.Metadata.Clone(),
		Status:         memory.StatusActive,
		SourceID:       req.SourceID,
		ConversationID: req.ConversationID,
		MessageID:      req.MessageID,
		DocumentID:     req.DocumentID,
		CreatedAt:      createdAt.UTC(),
	}

	if local {
		if err := s.records.Insert(ctx, rec); err != nil {
			logger.ErrorContext(ctx, "failed to store memory record", "tenant_id", rec.TenantID, "error", err)
			return nil, WrapError(err, "failed to store memory record")
		}
	}

	if vector {
		res, err := s.indexer.IndexRecord(ctx, rec)
		if err != nil {
			logger.ErrorContext(ctx, "failed to index memory record",
				"tenant_id", rec.TenantID,
				"record_id", rec.ID,
				"stored_locally", local,
				"chunks_indexed", res.ChunksIndexed,
				"error", err,
			)
			return nil, WrapError(err, "failed to index memory record")
		}
		if res.Partial() {
			logger.WarnContext(ctx, "memory record partially indexed",
				"record_id", rec.ID,
				"chunks_indexed", res.ChunksIndexed,
				"chunks_skipped", res.ChunksSkipped,
			)
		}
	}

	logger.InfoContext(ctx, "memory written",
		"tenant_id", rec.TenantID,
		"record_id", rec.ID,
		"type", rec.Type,
		"stored_locally", local,
		"indexed", vector,
	)
	return rec, nil
}

func validateWrite(req WriteRequest) error {
	switch {
	case req.TenantID == "":
		return &ValidationError{Field: "tenantId", Message: "cannot be empty"}
	case !req.Type.Valid():
		return &ValidationError{Field: "type", Message: fmt.Sprintf("unknown memory type %q", req.Type)}
	case strings.TrimSpace(req.Content) == "":
		return &ValidationError{Field: "content", Message: "cannot be empty"}
	}
	return nil
}

// SetStatus moves a record and its vector rows to status.
func (s *memoryService) SetStatus(ctx context.Context, tenantID, id string, status memory.Status) (bool, error) {
	logger := contextutil.LoggerFromContext(ctx).With("tenant_id", tenantID, "record_id", id, "status", status)

	if tenantID == "" {
		return false, &ValidationError{Field: "tenantId", Message: "cannot be empty"}
	}
	if id == "" {
		return false, &ValidationError{Field: "id", Message: "cannot be empty"}
	}
	if !status.Valid() {
		return false, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
	}

	current, found, err := s.currentStatus(ctx, tenantID, id)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read current status", "error", err)
		return false, err
	}
	if !found {
		logger.InfoContext(ctx, "status update for unknown record")
		return false, nil
	}
	if !memory.CanTransition(current, status) {
		return false, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current, status)
	}

	if err := s.records.UpdateStatus(ctx, tenantID, id, status); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.ErrorContext(ctx, "failed to update memory record status", "error", err)
		return false, WrapError(err, "failed to update memory record status")
	}

	n, err := s.vectors.UpdateStatus(ctx, tenantID, memory.SourceMemory, id, status)
	if err != nil {
		logger.ErrorContext(ctx, "failed to update vector row status", "error", err)
		return false, WrapError(err, "failed to update vector row status")
	}

	if n > 0 {
		if err := s.mirror.SetStatus(ctx, tenantID, memory.SourceMemory, id, status); err != nil {
			logger.WarnContext(ctx, "failed to mirror status change", "error", err)
		}
	}

	logger.InfoContext(ctx, "memory status updated", "vector_rows", n)
	return true, nil
}

// currentStatus reads the status of a record, falling back to its vector
// rows for records that are indexed but not stored locally.
func (s *memoryService) currentStatus(ctx context.Context, tenantID, id string) (memory.Status, bool, error) {
	rec, err := s.records.GetByID(ctx, tenantID, id)
	switch {
	case err == nil:
		return rec.Status, true, nil
	case !errors.Is(err, storage.ErrNotFound):
		return "", false, WrapError(err, "failed to get memory record")
	}

	rows, err := s.vectors.ListBySource(ctx, tenantID, memory.SourceMemory, id)
	if err != nil {
		return "", false, WrapError(err, "failed to list vector rows")
	}
	if len(rows) == 0 {
		return "", false, nil
	}
	return rows[0].Metadata.Status(), true, nil
}

// SearchLocal searches durable records by substring.
func (s *memoryService) SearchLocal(ctx context.Context, q storage.LocalQuery) ([]memory.Record, error) {
	if q.TenantID == "" {
		return nil, &ValidationError{Field: "tenantId", Message: "cannot be empty"}
	}
	recs, err := s.records.Search(ctx, q)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "local memory search failed", "error", err)
		return nil, WrapError(err, "failed to search memory records")
	}
	return recs, nil
}

// ConversationMemory lists the records of one conversation.
func (s *memoryService) ConversationMemory(ctx context.Context, tenantID, conversationID string, types []memory.ItemType, limit int) ([]memory.Record, error) {
	if tenantID == "" {
		return nil, &ValidationError{Field: "tenantId", Message: "cannot be empty"}
	}
	if conversationID == "" {
		return nil, &ValidationError{Field: "conversationId", Message: "cannot be empty"}
	}
	recs, err := s.records.ListByConversation(ctx, tenantID, conversationID, types, limit)
	if err != nil {
		return nil, WrapError(err, "failed to list conversation memory")
	}
	return recs, nil
}

// SearchVectors ranks the vector rows of one domain.
func (s *memoryService) SearchVectors(ctx context.Context, q search.Query) ([]search.Result, error) {
	results, err := s.engine.Search(ctx, q)
	if err != nil {
		return nil, mapSearchError(err)
	}
	return results, nil
}

// SearchVectorsMultiDomain ranks the vector rows of several domains.
func (s *memoryService) SearchVectorsMultiDomain(ctx context.Context, q search.MultiQuery) ([]search.Result, error) {
	results, err := s.engine.SearchMultiDomain(ctx, q)
	if err != nil {
		return nil, mapSearchError(err)
	}
	return results, nil
}

func mapSearchError(err error) error {
	switch {
	case errors.Is(err, search.ErrInvalidQuery):
		return &ValidationError{Field: "query", Message: err.Error()}
	case errors.Is(err, search.ErrEmbedding):
		return fmt.Errorf("%w: %w", ErrExternalService, err)
	}
	return WrapError(err, "vector search failed")
}

// IndexFile indexes an uploaded document.
func (s *memoryService) IndexFile(ctx context.Context, in indexer.FileInput) (indexer.Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	switch {
	case in.TenantID == "":
		return indexer.Result{}, &ValidationError{Field: "tenantId", Message: "cannot be empty"}
	case in.Filename == "":
		return indexer.Result{}, &ValidationError{Field: "filename", Message: "cannot be empty"}
	case strings.TrimSpace(string(in.Content)) == "":
		return indexer.Result{}, &ValidationError{Field: "content", Message: "cannot be empty"}
	}

	res, err := s.indexer.IndexFile(ctx, in)
	if err != nil {
		logger.ErrorContext(ctx, "failed to index file", "filename", in.Filename, "error", err)
		return res, WrapError(err, "failed to index file")
	}
	return res, nil
}
