package indexer

import (
	"math"
	"sort"
	"unicode/utf8"

	"tenant-memory/internal/memory"
)

// TokensPerRune is an approximation for token counting (4 chars per token).
const TokensPerRune = 4.0

// Result describes what indexing one source produced.
type Result struct {
	SourceID string
	Domain   memory.Domain
	// Skipped is true when the source's type is never indexed.
	Skipped         bool
	ChunksAttempted int
	ChunksIndexed   int
	// ChunksSkipped counts chunks dropped after an embedding failure.
	ChunksSkipped int
	RowIDs        []string

	tokenCounts []int
}

// Partial reports whether some chunks of the source were not indexed.
func (r Result) Partial() bool {
	return r.ChunksSkipped > 0
}

// TokenStats returns token statistics over the indexed chunks.
func (r Result) TokenStats() ChunkTokenStats {
	return computeTokenStats(r.tokenCounts)
}

func (r *Result) observe(chunk string) {
	r.tokenCounts = append(r.tokenCounts, estimateTokens(chunk))
}

// CoverageStats aggregates results of a bulk indexing run.
type CoverageStats struct {
	// DocsProcessed is the total number of documents processed.
	DocsProcessed int `json:"docs_processed"`
	// DocsWith0Chunks is the number of documents that produced 0 chunks.
	DocsWith0Chunks int `json:"docs_with_0_chunks"`
	// DocsFailed is the number of documents whose indexing returned an error.
	DocsFailed      int `json:"docs_failed"`
	ChunksAttempted int `json:"chunks_attempted"`
	ChunksEmbedded  int `json:"chunks_embedded"`
	ChunksSkipped   int `json:"chunks_skipped"`
	// ChunkTokenStats contains statistics about token counts per chunk.
	ChunkTokenStats ChunkTokenStats `json:"chunk_token_stats"`

	tokenCounts []int
}

// Add folds one result into the aggregate. err is the error returned
// alongside res, if any.
func (s *CoverageStats) Add(res Result, err error) {
	s.DocsProcessed++
	if err != nil {
		s.DocsFailed++
	}
	if res.ChunksIndexed == 0 {
		s.DocsWith0Chunks++
	}
	s.ChunksAttempted += res.ChunksAttempted
	s.ChunksEmbedded += res.ChunksIndexed
	s.ChunksSkipped += res.ChunksSkipped
	s.tokenCounts = append(s.tokenCounts, res.tokenCounts...)
	s.ChunkTokenStats = computeTokenStats(s.tokenCounts)
}

// ChunkTokenStats contains statistics about token counts in chunks.
type ChunkTokenStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

func estimateTokens(chunk string) int {
	n := int(math.Round(float64(utf8.RuneCountInString(chunk)) / TokensPerRune))
	if n < 1 {
		return 1
	}
	return n
}

// computeTokenStats computes min, max, mean, and p95 from token counts.
func computeTokenStats(tokenCounts []int) ChunkTokenStats {
	if len(tokenCounts) == 0 {
		return ChunkTokenStats{}
	}

	sorted := make([]int, len(tokenCounts))
	copy(sorted, tokenCounts)
	sort.Ints(sorted)

	sum := 0
	for _, count := range sorted {
		sum += count
	}
	mean := float64(sum) / float64(len(sorted))

	p95Index := int(math.Ceil(float64(len(sorted))*0.95)) - 1
	if p95Index < 0 {
		p95Index = 0
	}

	return ChunkTokenStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100,
		P95:  sorted[p95Index],
	}
}
