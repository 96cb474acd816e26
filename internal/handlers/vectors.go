package handlers

import (
	"net/http"
	"time"

	"tenant-memory/internal/memory"
	"tenant-memory/internal/search"
	"tenant-memory/internal/service"
)

// VectorSearchRequest is a single or multi-domain vector search. Domains
// takes precedence over Domain when both are set.
type VectorSearchRequest struct {
	TenantID      string          `json:"tenantId"`
	Query         string          `json:"query"`
	Domain        memory.Domain   `json:"domain,omitempty"`
	Domains       []memory.Domain `json:"domains,omitempty"`
	TopK          int             `json:"topK,omitempty"`
	TopKPerDomain int             `json:"topKPerDomain,omitempty"`
	Limit         int             `json:"limit,omitempty"`
	MinScore      float64         `json:"minScore,omitempty"`
	ProjectID     string          `json:"projectId,omitempty"`
	Scope         string          `json:"scope,omitempty"`
	From          *time.Time      `json:"from,omitempty"`
	To            *time.Time      `json:"to,omitempty"`
}

// VectorSearchResponse lists ranked matches.
type VectorSearchResponse struct {
	Results []service.Item `json:"results"`
}

// VectorSearchHandler handles semantic search over vector rows.
type VectorSearchHandler struct {
	memoryService service.MemoryService
}

// NewVectorSearchHandler creates a new VectorSearchHandler.
func NewVectorSearchHandler(memoryService service.MemoryService) *VectorSearchHandler {
	return &VectorSearchHandler{memoryService: memoryService}
}

// ServeHTTP runs a vector search. A search that could not run answers with an
// error status, never with an empty result list.
func (h *VectorSearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !requirePost(w, r) {
		return
	}

	var req VectorSearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var (
		results []search.Result
		err     error
	)
	if len(req.Domains) > 0 {
		results, err = h.memoryService.SearchVectorsMultiDomain(ctx, search.MultiQuery{
			TenantID:      req.TenantID,
			Domains:       req.Domains,
			Text:          req.Query,
			TopKPerDomain: req.TopKPerDomain,
			Limit:         req.Limit,
			MinScore:      req.MinScore,
			ProjectID:     req.ProjectID,
			Scope:         req.Scope,
			From:          req.From,
			To:            req.To,
		})
	} else {
		results, err = h.memoryService.SearchVectors(ctx, search.Query{
			TenantID:  req.TenantID,
			Domain:    req.Domain,
			Text:      req.Query,
			TopK:      req.TopK,
			MinScore:  req.MinScore,
			ProjectID: req.ProjectID,
			Scope:     req.Scope,
			From:      req.From,
			To:        req.To,
		})
	}
	if err != nil {
		handleServiceError(ctx, w, err, "Vector search failed")
		return
	}

	resp := VectorSearchResponse{Results: make([]service.Item, 0, len(results))}
	for _, res := range results {
		resp.Results = append(resp.Results, service.VectorItem(res))
	}
	writeJSON(ctx, w, resp)
}
