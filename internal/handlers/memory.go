package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"tenant-memory/internal/memory"
	"tenant-memory/internal/service"
	"tenant-memory/internal/storage"
)

// ManageHandler handles batch memory operations from agents.
type ManageHandler struct {
	memoryService service.MemoryService
}

// NewManageHandler creates a new ManageHandler.
func NewManageHandler(memoryService service.MemoryService) *ManageHandler {
	return &ManageHandler{memoryService: memoryService}
}

// ServeHTTP runs a batch of memory operations.
func (h *ManageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !requirePost(w, r) {
		return
	}

	var req service.BatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.memoryService.HandleBatch(ctx, req)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to process memory operations")
		return
	}
	writeJSON(ctx, w, resp)
}

// MemorySearchRequest is the payload of a local memory search.
type MemorySearchRequest struct {
	TenantID  string            `json:"tenantId"`
	Query     string            `json:"query"`
	Types     []memory.ItemType `json:"types,omitempty"`
	ProjectID string            `json:"projectId,omitempty"`
	Statuses  []memory.Status   `json:"statuses,omitempty"`
	Limit     int               `json:"limit,omitempty"`
}

// ItemsResponse lists search items.
type ItemsResponse struct {
	Items []service.Item `json:"items"`
}

// MemorySearchHandler handles substring search over durable records.
type MemorySearchHandler struct {
	memoryService service.MemoryService
}

// NewMemorySearchHandler creates a new MemorySearchHandler.
func NewMemorySearchHandler(memoryService service.MemoryService) *MemorySearchHandler {
	return &MemorySearchHandler{memoryService: memoryService}
}

// ServeHTTP searches durable memory records.
func (h *MemorySearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !requirePost(w, r) {
		return
	}

	var req MemorySearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	recs, err := h.memoryService.SearchLocal(ctx, storage.LocalQuery{
		TenantID:  req.TenantID,
		Text:      req.Query,
		Types:     req.Types,
		ProjectID: req.ProjectID,
		Statuses:  req.Statuses,
		Limit:     req.Limit,
	})
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to search memory")
		return
	}

	writeJSON(ctx, w, ItemsResponse{Items: recordItems(recs)})
}

// ConversationHandler lists the memory of one conversation.
type ConversationHandler struct {
	memoryService service.MemoryService
}

// NewConversationHandler creates a new ConversationHandler.
func NewConversationHandler(memoryService service.MemoryService) *ConversationHandler {
	return &ConversationHandler{memoryService: memoryService}
}

// ServeHTTP handles GET /api/v1/memory/conversations/{conversationId}?tenantId=&types=&limit=.
func (h *ConversationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := r.URL.Query()
	var types []memory.ItemType
	if raw := q.Get("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			types = append(types, memory.ItemType(strings.TrimSpace(t)))
		}
	}
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	recs, err := h.memoryService.ConversationMemory(ctx, q.Get("tenantId"), chi.URLParam(r, "conversationId"), types, limit)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list conversation memory")
		return
	}

	writeJSON(ctx, w, ItemsResponse{Items: recordItems(recs)})
}

func recordItems(recs []memory.Record) []service.Item {
	items := make([]service.Item, 0, len(recs))
	for _, rec := range recs {
		items = append(items, service.RecordItem(rec))
	}
	return items
}

// StatusRequest moves records to a new status.
type StatusRequest struct {
	TenantID string        `json:"tenantId"`
	IDs      []string      `json:"ids"`
	Status   memory.Status `json:"status"`
}

// StatusResponse reports the outcome per id.
type StatusResponse struct {
	Status  memory.Status          `json:"status"`
	Results []service.StatusResult `json:"results"`
}

// StatusHandler handles bulk status updates.
type StatusHandler struct {
	memoryService service.MemoryService
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(memoryService service.MemoryService) *StatusHandler {
	return &StatusHandler{memoryService: memoryService}
}

// ServeHTTP updates the status of every listed record. Per-id failures are
// reported in the body; only a malformed request fails the whole call.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !requirePost(w, r) {
		return
	}

	var req StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	switch {
	case req.TenantID == "":
		handleServiceError(ctx, w, &service.ValidationError{Field: "tenantId", Message: "cannot be empty"}, "")
		return
	case len(req.IDs) == 0:
		handleServiceError(ctx, w, &service.ValidationError{Field: "ids", Message: "cannot be empty"}, "")
		return
	case !req.Status.Valid():
		handleServiceError(ctx, w, &service.ValidationError{Field: "status", Message: "unknown status"}, "")
		return
	}

	resp := StatusResponse{Status: req.Status, Results: make([]service.StatusResult, 0, len(req.IDs))}
	for _, id := range req.IDs {
		res := service.StatusResult{ID: id}
		ok, err := h.memoryService.SetStatus(ctx, req.TenantID, id, req.Status)
		switch {
		case err != nil:
			res.Error = err.Error()
		case !ok:
			res.Error = "not found"
		default:
			res.OK = true
		}
		resp.Results = append(resp.Results, res)
	}

	writeJSON(ctx, w, resp)
}
