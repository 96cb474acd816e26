package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_mirror.go -package=mocks tenant-memory/internal/vectorstore Mirror

import (
	"context"

	"tenant-memory/internal/memory"
)

// Mirror receives a copy of every indexed vector row and every status change.
// It is write-only: searches always run against the primary row store.
type Mirror interface {
	// Upsert copies rows into the mirror.
	Upsert(ctx context.Context, rows []memory.VectorRow) error
	// SetStatus records a status change for every mirrored row of a source.
	SetStatus(ctx context.Context, tenantID string, sourceType memory.SourceType, sourceID string, status memory.Status) error
	// CollectionExists reports whether the mirror's collection is reachable.
	CollectionExists(ctx context.Context) (bool, error)
}

// Nop is a Mirror that does nothing. It is used when no mirror is configured.
type Nop struct{}

// Upsert does nothing.
func (Nop) Upsert(context.Context, []memory.VectorRow) error { return nil }

// SetStatus does nothing.
func (Nop) SetStatus(context.Context, string, memory.SourceType, string, memory.Status) error {
	return nil
}

// CollectionExists always reports true.
func (Nop) CollectionExists(context.Context) (bool, error) { return true, nil }

var _ Mirror = Nop{}
