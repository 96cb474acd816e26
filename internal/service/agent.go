package service

import (
	"context"
	"fmt"
	"time"

	"tenant-memory/internal/contextutil"
	"tenant-memory/internal/memory"
	"tenant-memory/internal/search"
	"tenant-memory/internal/storage"
)

// DefaultChannel is reported when a batch names no channel.
const DefaultChannel = "agent_memory"

// Batch search limits.
const (
	defaultVectorTopK = 10
	maxVectorTopK     = 50
)

// OpKind names a batch operation.
type OpKind string

const (
	OpWrite        OpKind = "write"
	OpUpdateStatus OpKind = "update_status"
	OpSearchLocal  OpKind = "search_local"
	OpSearchVector OpKind = "search_vector"
)

// Operation is one step of a batch. Which fields apply depends on Op.
type Operation struct {
	Op OpKind `json:"op"`

	// write
	Type           memory.ItemType `json:"type,omitempty"`
	Content        string          `json:"content,omitempty"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
	SourceID       string          `json:"sourceId,omitempty"`
	ConversationID string          `json:"conversationId,omitempty"`
	MessageID      string          `json:"messageId,omitempty"`
	DocumentID     string          `json:"documentId,omitempty"`
	CreatedAt      string          `json:"createdAt,omitempty"`

	// update_status
	IDs    []string      `json:"ids,omitempty"`
	Status memory.Status `json:"status,omitempty"`

	// search_local and search_vector
	Query     string        `json:"query,omitempty"`
	ProjectID string        `json:"projectId,omitempty"`
	Limit     int           `json:"limit,omitempty"`
	Domain    memory.Domain `json:"domain,omitempty"`
	TopK      int           `json:"topK,omitempty"`
	MinScore  *float64      `json:"minScore,omitempty"`
	Scope     string        `json:"scope,omitempty"`
	From      string        `json:"from,omitempty"`
	To        string        `json:"to,omitempty"`
}

// BatchRequest is an ordered list of operations for one tenant session.
type BatchRequest struct {
	TenantID   string         `json:"tenantId"`
	SessionID  string         `json:"sessionId"`
	Channel    string         `json:"channel,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Operations []Operation    `json:"operations"`
}

// StatusResult is the outcome of one id of an update_status operation.
type StatusResult struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Item is a record or vector match returned by a search operation.
type Item struct {
	ID             string          `json:"id"`
	Type           memory.ItemType `json:"type,omitempty"`
	Content        string          `json:"content"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
	SourceID       string          `json:"sourceId,omitempty"`
	ConversationID string          `json:"conversationId,omitempty"`
	DocumentID     string          `json:"documentId,omitempty"`
	Domain         memory.Domain   `json:"domain,omitempty"`
	ChunkIndex     *int            `json:"chunkIndex,omitempty"`
	Score          *float64        `json:"score,omitempty"`
	CreatedAt      string          `json:"createdAt"`
}

// OperationResult is the outcome of one operation. OK is false whenever the
// operation failed, so an empty result set is never mistaken for a failure.
type OperationResult struct {
	Op    OpKind `json:"op"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`

	// write
	ID      string          `json:"id,omitempty"`
	Type    memory.ItemType `json:"type,omitempty"`
	Skipped bool            `json:"skipped,omitempty"`

	// update_status
	IDs    []StatusResult `json:"ids,omitempty"`
	Status memory.Status  `json:"status,omitempty"`

	// search_local and search_vector
	Query     string        `json:"query,omitempty"`
	ProjectID string        `json:"projectId,omitempty"`
	Limit     int           `json:"limit,omitempty"`
	Domain    memory.Domain `json:"domain,omitempty"`
	TopK      int           `json:"topK,omitempty"`
	MinScore  *float64      `json:"minScore,omitempty"`
	Items     []Item        `json:"items,omitempty"`
}

// BatchResponse holds one result per operation, in request order.
type BatchResponse struct {
	TenantID   string            `json:"tenantId"`
	SessionID  string            `json:"sessionId"`
	Channel    string            `json:"channel"`
	Operations []OperationResult `json:"operations"`
}

// HandleBatch runs the operations of req in order. A failing operation is
// reported in its result and does not stop the batch.
func (s *memoryService) HandleBatch(ctx context.Context, req BatchRequest) (BatchResponse, error) {
	logger := contextutil.LoggerFromContext(ctx).With("tenant_id", req.TenantID, "session_id", req.SessionID)

	switch {
	case req.TenantID == "":
		return BatchResponse{}, &ValidationError{Field: "tenantId", Message: "cannot be empty"}
	case req.SessionID == "":
		return BatchResponse{}, &ValidationError{Field: "sessionId", Message: "cannot be empty"}
	case len(req.Operations) == 0:
		return BatchResponse{}, &ValidationError{Field: "operations", Message: "at least one operation is required"}
	}

	base := s.decodeMetadata(ctx, req.Metadata)

	results := make([]OperationResult, 0, len(req.Operations))
	for _, op := range req.Operations {
		var res OperationResult
		switch op.Op {
		case OpWrite:
			res = s.batchWrite(ctx, req, base, op)
		case OpUpdateStatus:
			res = s.batchUpdateStatus(ctx, req.TenantID, op)
		case OpSearchLocal:
			res = s.batchSearchLocal(ctx, req.TenantID, op)
		case OpSearchVector:
			res = s.batchSearchVector(ctx, req.TenantID, op)
		default:
			res = OperationResult{Op: op.Op, Error: fmt.Sprintf("unknown operation %q", op.Op)}
		}
		if !res.OK {
			logger.WarnContext(ctx, "batch operation failed", "op", op.Op, "error", res.Error)
		}
		results = append(results, res)
	}

	channel := req.Channel
	if channel == "" {
		channel = DefaultChannel
	}

	logger.InfoContext(ctx, "batch processed", "operations", len(results))
	return BatchResponse{
		TenantID:   req.TenantID,
		SessionID:  req.SessionID,
		Channel:    channel,
		Operations: results,
	}, nil
}

func (s *memoryService) decodeMetadata(ctx context.Context, raw map[string]any) memory.Metadata {
	meta, dropped := memory.FromMap(raw)
	if len(dropped) > 0 {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "dropped unsupported metadata values", "keys", dropped)
	}
	return meta
}

func (s *memoryService) batchWrite(ctx context.Context, req BatchRequest, base memory.Metadata, op Operation) OperationResult {
	res := OperationResult{Op: OpWrite, Type: op.Type}

	meta := base.Clone()
	for k, v := range s.decodeMetadata(ctx, op.Metadata) {
		meta[k] = v
	}

	var createdAt time.Time
	if op.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339Nano, op.CreatedAt)
		if err != nil {
			res.Error = fmt.Sprintf("invalid createdAt %q", op.CreatedAt)
			return res
		}
		createdAt = t
	}

	conversationID := op.ConversationID
	if conversationID == "" {
		conversationID = req.SessionID
	}

	rec, err := s.WriteMemory(ctx, WriteRequest{
		TenantID:       req.TenantID,
		Type:           op.Type,
		Content:        op.Content,
		Metadata:       meta,
		SourceID:       op.SourceID,
		ConversationID: conversationID,
		MessageID:      op.MessageID,
		DocumentID:     op.DocumentID,
		CreatedAt:      createdAt,
	})
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.OK = true
	if rec == nil {
		res.Skipped = true
		return res
	}
	res.ID = rec.ID
	return res
}

func (s *memoryService) batchUpdateStatus(ctx context.Context, tenantID string, op Operation) OperationResult {
	res := OperationResult{Op: OpUpdateStatus, Status: op.Status}
	if len(op.IDs) == 0 {
		res.Error = "ids cannot be empty"
		return res
	}

	res.OK = true
	for _, id := range op.IDs {
		item := StatusResult{ID: id}
		ok, err := s.SetStatus(ctx, tenantID, id, op.Status)
		switch {
		case err != nil:
			item.Error = err.Error()
		case !ok:
			item.Error = "not found"
		default:
			item.OK = true
		}
		if !item.OK {
			res.OK = false
		}
		res.IDs = append(res.IDs, item)
	}
	if !res.OK {
		res.Error = "one or more ids failed"
	}
	return res
}

func (s *memoryService) batchSearchLocal(ctx context.Context, tenantID string, op Operation) OperationResult {
	limit := op.Limit
	if limit <= 0 || limit > storage.MaxLocalLimit {
		limit = storage.DefaultLocalLimit
	}
	res := OperationResult{
		Op:        OpSearchLocal,
		Query:     op.Query,
		Type:      op.Type,
		ProjectID: op.ProjectID,
		Limit:     limit,
	}

	q := storage.LocalQuery{
		TenantID:  tenantID,
		Text:      op.Query,
		ProjectID: op.ProjectID,
		Limit:     limit,
	}
	if op.Type != "" {
		q.Types = []memory.ItemType{op.Type}
	}

	recs, err := s.SearchLocal(ctx, q)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.OK = true
	res.Items = make([]Item, 0, len(recs))
	for _, rec := range recs {
		res.Items = append(res.Items, RecordItem(rec))
	}
	return res
}

func (s *memoryService) batchSearchVector(ctx context.Context, tenantID string, op Operation) OperationResult {
	topK := op.TopK
	if topK <= 0 || topK > maxVectorTopK {
		topK = defaultVectorTopK
	}
	minScore := 0.0
	if op.MinScore != nil && *op.MinScore >= 0 && *op.MinScore <= 1 {
		minScore = *op.MinScore
	}
	res := OperationResult{
		Op:        OpSearchVector,
		Query:     op.Query,
		Domain:    op.Domain,
		ProjectID: op.ProjectID,
		TopK:      topK,
		MinScore:  &minScore,
	}

	results, err := s.SearchVectors(ctx, search.Query{
		TenantID:  tenantID,
		Domain:    op.Domain,
		Text:      op.Query,
		TopK:      topK,
		MinScore:  minScore,
		ProjectID: op.ProjectID,
		Scope:     op.Scope,
		From:      parseBound(op.From),
		To:        parseBound(op.To),
	})
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.OK = true
	res.Items = make([]Item, 0, len(results))
	for _, r := range results {
		res.Items = append(res.Items, VectorItem(r))
	}
	return res
}

// parseBound parses an RFC 3339 time range bound. Invalid values are ignored.
func parseBound(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	return &t
}

// RecordItem converts a durable record into a search item.
func RecordItem(rec memory.Record) Item {
	return Item{
		ID:             rec.ID,
		Type:           rec.Type,
		Content:        rec.Content,
		Metadata:       rec.Metadata.ToMap(),
		SourceID:       rec.SourceID,
		ConversationID: rec.ConversationID,
		DocumentID:     rec.DocumentID,
		CreatedAt:      rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// VectorItem converts a ranked vector row into a search item.
func VectorItem(r search.Result) Item {
	chunk := r.Row.ChunkIndex
	score := r.Score
	return Item{
		ID:         r.Row.ID,
		Content:    r.Row.Content,
		Metadata:   r.Row.Metadata.ToMap(),
		SourceID:   r.Row.SourceID,
		Domain:     r.Row.Domain,
		ChunkIndex: &chunk,
		Score:      &score,
		CreatedAt:  r.Row.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
