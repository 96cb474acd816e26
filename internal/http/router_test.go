package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"tenant-memory/internal/memory"
	"tenant-memory/internal/service/mocks"
)

type fakePinger struct {
	err error
}

func (p fakePinger) PingContext(context.Context) error {
	return p.err
}

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockMemoryService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockMemoryService := mocks.NewMockMemoryService(ctrl)

	router := NewRouter(&Deps{
		MemoryService: mockMemoryService,
		DB:            fakePinger{},
	})
	if router == nil {
		t.Fatal("NewRouter() returned nil")
	}
	return router, mockMemoryService
}

func TestRouter_Routes(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{
			name:       "GET /api/health",
			method:     http.MethodGet,
			path:       "/api/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "POST /api/v1/memory/manage exists",
			method:     http.MethodPost,
			path:       "/api/v1/memory/manage",
			wantStatus: http.StatusBadRequest, // Bad request due to empty body, but route exists
		},
		{
			name:       "POST /api/v1/memory/search exists",
			method:     http.MethodPost,
			path:       "/api/v1/memory/search",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "POST /api/v1/memory/status exists",
			method:     http.MethodPost,
			path:       "/api/v1/memory/status",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "POST /api/v1/vectors/search exists",
			method:     http.MethodPost,
			path:       "/api/v1/vectors/search",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "POST /api/v1/files/index exists",
			method:     http.MethodPost,
			path:       "/api/v1/files/index",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "GET /api/v1/memory/manage method not allowed",
			method:     http.MethodGet,
			path:       "/api/v1/memory/manage",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "POST /api/health method not allowed",
			method:     http.MethodPost,
			path:       "/api/health",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/api/v1/unknown",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Router %s %s status = %v, want %v", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouter_ConversationRoute(t *testing.T) {
	router, mockMemoryService := newTestRouter(t)

	mockMemoryService.EXPECT().
		ConversationMemory(gomock.Any(), "t1", "conv-9", []memory.ItemType{memory.TypeConversationMessage}, 5).
		Return([]memory.Record{{ID: "r1", TenantID: "t1", Type: memory.TypeConversationMessage, Content: "hi"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/memory/conversations/conv-9?tenantId=t1&types=conversation_message&limit=5", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Router GET conversation status = %v, want %v", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `"r1"`) {
		t.Errorf("Router GET conversation body = %s, want record r1", w.Body.String())
	}
}

func TestRouter_HealthUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := NewRouter(&Deps{
		MemoryService: mocks.NewMockMemoryService(ctrl),
		DB:            fakePinger{err: context.DeadlineExceeded},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Router GET /api/health status = %v, want %v", w.Code, http.StatusServiceUnavailable)
	}
}

func TestRouter_MiddlewareApplied(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/memory/manage", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// Check CORS headers are present
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("Router should apply CORS middleware")
	}
}
