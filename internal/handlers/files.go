package handlers

import (
	"io"
	"net/http"
	"strings"

	"tenant-memory/internal/contextutil"
	"tenant-memory/internal/indexer"
	"tenant-memory/internal/memory"
	"tenant-memory/internal/service"
)

// maxUploadBytes bounds the size of an indexed document.
const maxUploadBytes = 10 << 20

// FileIndexRequest is the JSON form of a document upload.
type FileIndexRequest struct {
	TenantID   string         `json:"tenantId"`
	Filename   string         `json:"filename"`
	Content    string         `json:"content"`
	DocumentID string         `json:"documentId,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// FileIndexResponse represents the response from the file index endpoint.
type FileIndexResponse struct {
	DocumentID    string        `json:"documentId"`
	Domain        memory.Domain `json:"domain"`
	ChunksIndexed int           `json:"chunksIndexed"`
	ChunksSkipped int           `json:"chunksSkipped"`
	Partial       bool          `json:"partial"`
}

// FileIndexHandler handles HTTP requests for indexing uploaded documents.
type FileIndexHandler struct {
	memoryService service.MemoryService
}

// NewFileIndexHandler creates a new FileIndexHandler.
func NewFileIndexHandler(memoryService service.MemoryService) *FileIndexHandler {
	return &FileIndexHandler{memoryService: memoryService}
}

// ServeHTTP indexes a document sent either as JSON or as a multipart form
// with a "file" part and tenantId/documentId fields.
func (h *FileIndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if !requirePost(w, r) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var in indexer.FileInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			logger.WarnContext(ctx, "missing file part", "error", err)
			writeError(w, http.StatusBadRequest, "Missing file")
			return
		}
		defer func() {
			_ = file.Close()
		}()

		content, err := io.ReadAll(file)
		if err != nil {
			logger.WarnContext(ctx, "failed to read upload", "error", err)
			writeError(w, http.StatusBadRequest, "Failed to read file")
			return
		}
		in = indexer.FileInput{
			TenantID:   r.FormValue("tenantId"),
			Filename:   header.Filename,
			Content:    content,
			DocumentID: r.FormValue("documentId"),
		}
	} else {
		var req FileIndexRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		meta, dropped := memory.FromMap(req.Metadata)
		if len(dropped) > 0 {
			logger.WarnContext(ctx, "dropped unsupported metadata values", "keys", dropped)
		}
		in = indexer.FileInput{
			TenantID:   req.TenantID,
			Filename:   req.Filename,
			Content:    []byte(req.Content),
			DocumentID: req.DocumentID,
			Metadata:   meta,
		}
	}

	res, err := h.memoryService.IndexFile(ctx, in)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to index file")
		return
	}

	logger.InfoContext(ctx, "file indexed", "document_id", res.SourceID, "chunks", res.ChunksIndexed)
	writeJSON(ctx, w, FileIndexResponse{
		DocumentID:    res.SourceID,
		Domain:        res.Domain,
		ChunksIndexed: res.ChunksIndexed,
		ChunksSkipped: res.ChunksSkipped,
		Partial:       res.Partial(),
	})
}
