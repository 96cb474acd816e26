package search

import (
	"fmt"
	"math"
)

// Cosine returns the cosine similarity of a and b. It returns 0 when either
// vector has zero norm. Vectors of different lengths come from different
// embedding models and cannot be compared; Cosine panics on them.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("search: cosine of vectors with different dimensions (%d != %d)", len(a), len(b)))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
