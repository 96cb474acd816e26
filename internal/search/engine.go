package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"tenant-memory/internal/contextutil"
	"tenant-memory/internal/llm"
	"tenant-memory/internal/memory"
	"tenant-memory/internal/storage"
)

// DefaultTopK is the number of results returned when a query sets no TopK.
const DefaultTopK = 8

var (
	// ErrEmbedding is returned when the query could not be embedded.
	ErrEmbedding = errors.New("query embedding failed")
	// ErrScan is returned when candidate rows could not be read.
	ErrScan = errors.New("vector scan failed")
	// ErrInvalidQuery is returned for queries missing a tenant, a domain or text.
	ErrInvalidQuery = errors.New("invalid search query")
)

// Query is a single-domain vector search.
type Query struct {
	TenantID string
	Domain   memory.Domain
	Text     string
	// TopK defaults to the engine's default when not positive.
	TopK     int
	MinScore float64
	// ProjectID and Scope must equal the row's metadata values when set.
	ProjectID string
	Scope     string
	// From and To bound the row's createdAt, inclusive.
	From *time.Time
	To   *time.Time
}

// MultiQuery searches several domains with one query embedding.
type MultiQuery struct {
	TenantID      string
	Domains       []memory.Domain
	Text          string
	TopKPerDomain int
	// Limit truncates the merged results. Defaults to the engine's default.
	Limit     int
	MinScore  float64
	ProjectID string
	Scope     string
	From      *time.Time
	To        *time.Time
}

// Result is one ranked vector row.
type Result struct {
	Row   memory.VectorRow
	Score float64
}

// Engine answers nearest-neighbour queries over the vector row store.
type Engine interface {
	// Search ranks the rows of one tenant and domain against q.Text.
	Search(ctx context.Context, q Query) ([]Result, error)
	// SearchMultiDomain runs the search once per domain and merges the results
	// by score. Rows are not deduplicated across domains.
	SearchMultiDomain(ctx context.Context, q MultiQuery) ([]Result, error)
}

// engine implements the Engine interface.
type engine struct {
	store       storage.VectorStore
	embedder    llm.Embedder
	defaultTopK int
	now         func() time.Time
}

// NewEngine creates a new search engine. A non-positive defaultTopK falls
// back to DefaultTopK.
func NewEngine(store storage.VectorStore, embedder llm.Embedder, defaultTopK int) Engine {
	if defaultTopK <= 0 {
		defaultTopK = DefaultTopK
	}
	return &engine{
		store:       store,
		embedder:    embedder,
		defaultTopK: defaultTopK,
		now:         time.Now,
	}
}

// filter holds the row predicates shared by single and multi-domain searches.
type filter struct {
	minScore  float64
	projectID string
	scope     string
	from      *time.Time
	to        *time.Time
	now       time.Time
}

// Search ranks the rows of one tenant and domain against q.Text.
func (e *engine) Search(ctx context.Context, q Query) ([]Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := validate(q.TenantID, q.Text, q.Domain); err != nil {
		return nil, err
	}

	vec, err := e.embed(ctx, q.Text)
	if err != nil {
		return nil, err
	}

	f := filter{
		minScore:  q.MinScore,
		projectID: q.ProjectID,
		scope:     q.Scope,
		from:      q.From,
		to:        q.To,
		now:       e.now(),
	}
	results, err := e.rank(ctx, q.TenantID, q.Domain, vec, f)
	if err != nil {
		return nil, err
	}

	results = truncate(results, e.topK(q.TopK))
	logger.DebugContext(ctx, "vector search completed",
		"tenant_id", q.TenantID,
		"domain", q.Domain,
		"results", len(results),
	)
	return results, nil
}

// SearchMultiDomain embeds the query once, keeps the best TopKPerDomain
// results of each domain and returns the global top Limit.
func (e *engine) SearchMultiDomain(ctx context.Context, q MultiQuery) ([]Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(q.Domains) == 0 {
		return nil, fmt.Errorf("%w: at least one domain is required", ErrInvalidQuery)
	}
	for _, d := range q.Domains {
		if err := validate(q.TenantID, q.Text, d); err != nil {
			return nil, err
		}
	}

	vec, err := e.embed(ctx, q.Text)
	if err != nil {
		return nil, err
	}

	f := filter{
		minScore:  q.MinScore,
		projectID: q.ProjectID,
		scope:     q.Scope,
		from:      q.From,
		to:        q.To,
		now:       e.now(),
	}
	perDomain := e.topK(q.TopKPerDomain)

	var merged []Result
	for _, d := range q.Domains {
		results, err := e.rank(ctx, q.TenantID, d, vec, f)
		if err != nil {
			return nil, err
		}
		merged = append(merged, truncate(results, perDomain)...)
	}

	sortResults(merged)
	merged = truncate(merged, e.topK(q.Limit))

	logger.DebugContext(ctx, "multi-domain vector search completed",
		"tenant_id", q.TenantID,
		"domains", q.Domains,
		"results", len(merged),
	)
	return merged, nil
}

func validate(tenantID, text string, domain memory.Domain) error {
	switch {
	case tenantID == "":
		return fmt.Errorf("%w: tenant id is required", ErrInvalidQuery)
	case text == "":
		return fmt.Errorf("%w: query text is required", ErrInvalidQuery)
	case !domain.Valid():
		return fmt.Errorf("%w: unknown domain %q", ErrInvalidQuery, domain)
	}
	return nil
}

func (e *engine) embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := e.embedder.Embed(ctx, text)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to embed query", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}
	return vec, nil
}

// rank scans one domain, scores every row and returns the rows passing f,
// best first.
func (e *engine) rank(ctx context.Context, tenantID string, domain memory.Domain, vec []float32, f filter) ([]Result, error) {
	rows, err := e.store.Scan(ctx, tenantID, domain)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to scan vector rows",
			"tenant_id", tenantID,
			"domain", domain,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %w", ErrScan, err)
	}

	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		score := Cosine(vec, row.Embedding)
		if !f.match(row, score) {
			continue
		}
		results = append(results, Result{Row: row, Score: score})
	}

	sortResults(results)
	return results, nil
}

// match applies the filters in order: status, expiry, project, scope, time
// range, then score floor.
func (f filter) match(row memory.VectorRow, score float64) bool {
	meta := row.Metadata
	if meta.Status().Hidden() {
		return false
	}
	if meta.Expired(row.CreatedAt, f.now) {
		return false
	}
	if f.projectID != "" {
		if v, _ := meta.GetString(memory.KeyProjectID); v != f.projectID {
			return false
		}
	}
	if f.scope != "" {
		if v, _ := meta.GetString(memory.KeyScope); v != f.scope {
			return false
		}
	}
	if f.from != nil && row.CreatedAt.Before(*f.from) {
		return false
	}
	if f.to != nil && row.CreatedAt.After(*f.to) {
		return false
	}
	return score >= f.minScore
}

// sortResults orders by score descending, then newest first, then id.
func sortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Row.CreatedAt.Equal(b.Row.CreatedAt) {
			return a.Row.CreatedAt.After(b.Row.CreatedAt)
		}
		return a.Row.ID < b.Row.ID
	})
}

func truncate(results []Result, n int) []Result {
	if len(results) > n {
		return results[:n]
	}
	return results
}

func (e *engine) topK(k int) int {
	if k <= 0 {
		return e.defaultTopK
	}
	return k
}
