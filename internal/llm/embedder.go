package llm

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks tenant-memory/internal/llm Embedder

import "context"

// Embedder turns text into a fixed-length vector. Implementations must fail
// loudly instead of returning an empty vector.
type Embedder interface {
	// Embed returns the embedding of text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// Dimensions returns the length of every vector Embed produces.
	Dimensions() int
}
