package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"tenant-memory/internal/contextutil"
	"tenant-memory/internal/vectorstore"
)

// Pinger reports whether a database connection is alive.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	db                 Pinger
	mirror             vectorstore.Mirror
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler. A nil mirror is not checked.
func NewHealthHandler(db Pinger, mirror vectorstore.Mirror) *HealthHandler {
	return &HealthHandler{
		db:                 db,
		mirror:             mirror,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy", "degraded", or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is degraded or unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
//
// Returns 200 OK if healthy or degraded, 503 Service Unavailable if the
// database is unreachable. An unreachable mirror only degrades the status
// since searches never read from it.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	status := "healthy"
	httpStatus := http.StatusOK

	if h.checkDatabase(checkCtx, logger) {
		checks["database"] = "ok"
	} else {
		checks["database"] = "error"
		issues = append(issues, "database_unavailable")
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	if h.mirror != nil {
		if h.checkMirror(checkCtx, logger) {
			checks["mirror"] = "ok"
		} else {
			checks["mirror"] = "error"
			issues = append(issues, "mirror_unavailable")
			if status == "healthy" {
				status = "degraded"
			}
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.ErrorContext(ctx, "failed to encode health response", "error", err)
	}
}

func (h *HealthHandler) checkDatabase(ctx context.Context, logger *slog.Logger) bool {
	if err := h.db.PingContext(ctx); err != nil {
		logger.WarnContext(ctx, "database health check failed", "error", err)
		return false
	}
	return true
}

// checkMirror checks if the mirror collection is accessible.
func (h *HealthHandler) checkMirror(ctx context.Context, logger *slog.Logger) bool {
	exists, err := h.mirror.CollectionExists(ctx)
	if err != nil {
		logger.WarnContext(ctx, "mirror health check failed", "error", err)
		return false
	}
	if !exists {
		logger.WarnContext(ctx, "mirror collection does not exist")
		return false
	}
	return true
}
