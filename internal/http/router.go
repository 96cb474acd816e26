package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tenant-memory/internal/handlers"
	"tenant-memory/internal/service"
	"tenant-memory/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	MemoryService service.MemoryService
	DB            handlers.Pinger
	// Mirror is checked by the health endpoint when set.
	Mirror vectorstore.Mirror
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(CORS)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.DB, deps.Mirror))

		r.Route("/v1", func(r chi.Router) {
			r.Method(http.MethodPost, "/memory/manage", handlers.NewManageHandler(deps.MemoryService))
			r.Method(http.MethodPost, "/memory/search", handlers.NewMemorySearchHandler(deps.MemoryService))
			r.Method(http.MethodPost, "/memory/status", handlers.NewStatusHandler(deps.MemoryService))
			r.Method(http.MethodGet, "/memory/conversations/{conversationId}", handlers.NewConversationHandler(deps.MemoryService))
			r.Method(http.MethodPost, "/vectors/search", handlers.NewVectorSearchHandler(deps.MemoryService))
			r.Method(http.MethodPost, "/files/index", handlers.NewFileIndexHandler(deps.MemoryService))
		})
	})

	return r
}
