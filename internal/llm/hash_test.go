package llm

import (
	"context"
	"math"
	"testing"
)

func TestHashEmbedder_Embed(t *testing.T) {
	e := NewHashEmbedder(64)
	ctx := context.Background()

	a1, err := e.Embed(ctx, "quarterly revenue report")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	a2, _ := e.Embed(ctx, "quarterly revenue report")
	b, _ := e.Embed(ctx, "lunch menu")

	if len(a1) != 64 || e.Dimensions() != 64 {
		t.Fatalf("Embed() len = %d, Dimensions() = %d, want 64", len(a1), e.Dimensions())
	}

	for i := range a1 {
		if a1[i] != a2[i] {
			t.Fatal("Embed() is not deterministic")
		}
	}

	var norm, dot float64
	for i := range a1 {
		norm += float64(a1[i]) * float64(a1[i])
		dot += float64(a1[i]) * float64(b[i])
	}
	if math.Abs(norm-1) > 1e-5 {
		t.Errorf("Embed() norm^2 = %v, want 1", norm)
	}
	if dot > 0.9 {
		t.Errorf("different texts have similarity %v, want well below 1", dot)
	}
}

func TestHashEmbedder_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewHashEmbedder(8).Embed(ctx, "x"); err == nil {
		t.Error("Embed() expected error for canceled context")
	}
}
