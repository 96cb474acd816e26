package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"tenant-memory/internal/contextutil"
	"tenant-memory/internal/memory"
)

// Payload field names written for every mirrored row.
const (
	FieldTenantID   = "tenant_id"
	FieldDomain     = "domain"
	FieldSourceType = "source_type"
	FieldSourceID   = "source_id"
	FieldChunkIndex = "chunk_index"
	FieldContent    = "content"
	FieldCreatedAt  = "created_at"
	FieldStatus     = "status"
	FieldMetadata   = "metadata"
)

// QdrantStore mirrors vector rows into one Qdrant collection.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
}

// NewQdrantStore creates a new Qdrant mirror for the given collection.
// urlStr should be in the format "http://host:port" (e.g., "http://localhost:6333").
// The gRPC port (typically 6334) will be derived from the HTTP port.
func NewQdrantStore(urlStr, collection string) (*QdrantStore, error) {
	host, port, err := grpcTarget(urlStr)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantStore{
		client:     client,
		collection: collection,
	}, nil
}

// grpcTarget derives the gRPC host and port from a Qdrant HTTP URL.
func grpcTarget(urlStr string) (string, int, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	port := 6334 // Default gRPC port
	if parsedURL.Port() != "" {
		httpPort, err := strconv.Atoi(parsedURL.Port())
		if err == nil {
			// gRPC port is typically HTTP port + 1
			port = httpPort + 1
		}
	}

	return host, port, nil
}

// Close closes the underlying gRPC connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}

// Upsert copies rows into the collection. Row IDs are UUIDs and are reused as
// point IDs.
func (s *QdrantStore) Upsert(ctx context.Context, rows []memory.VectorRow) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(rows) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(rows))
	for _, row := range rows {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(row.ID),
			Vectors: qdrant.NewVectors(row.Embedding...),
			Payload: rowPayload(row),
		})
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to upsert points", "collection", s.collection, "count", len(rows), "error", err)
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	logger.DebugContext(ctx, "mirrored rows", "collection", s.collection, "count", len(rows))
	return nil
}

// SetStatus overwrites the status payload field of every point of a source.
func (s *QdrantStore) SetStatus(ctx context.Context, tenantID string, sourceType memory.SourceType, sourceID string, status memory.Status) error {
	logger := contextutil.LoggerFromContext(ctx)

	_, err := s.client.SetPayload(ctx, &qdrant.SetPayloadPoints{
		CollectionName: s.collection,
		Payload:        qdrant.NewValueMap(map[string]any{FieldStatus: string(status)}),
		PointsSelector: qdrant.NewPointsSelectorFilter(sourceFilter(tenantID, sourceType, sourceID)),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to set status payload", "collection", s.collection, "source_id", sourceID, "error", err)
		return fmt.Errorf("failed to set status payload: %w", err)
	}
	return nil
}

// CollectionExists checks if the mirror collection exists.
func (s *QdrantStore) CollectionExists(ctx context.Context) (bool, error) {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return false, fmt.Errorf("failed to check collection existence: %w", err)
	}
	return exists, nil
}

// EnsureCollection ensures the collection exists with the specified vector size.
// If the collection exists, validates that the vector size matches.
// If it doesn't exist, creates it along with a keyword index on tenant_id.
func (s *QdrantStore) EnsureCollection(ctx context.Context, vectorSize int) error {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := s.CollectionExists(ctx)
	if err != nil {
		return err
	}

	if !exists {
		logger.InfoContext(ctx, "creating collection", "collection", s.collection, "vector_size", vectorSize)
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(vectorSize),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}

		_, err = s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: s.collection,
			FieldName:      FieldTenantID,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		if err != nil {
			return fmt.Errorf("failed to create tenant index: %w", err)
		}
		return nil
	}

	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to get collection info: %w", err)
	}

	var actualSize uint64
	if config := info.Config; config != nil && config.Params != nil {
		if vectorsConfig := config.Params.GetVectorsConfig(); vectorsConfig != nil {
			if params := vectorsConfig.GetParams(); params != nil {
				actualSize = params.Size
			}
		}
	}
	if actualSize == 0 {
		return fmt.Errorf("could not determine collection vector size")
	}

	if int(actualSize) != vectorSize {
		return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, actualSize)
	}

	logger.InfoContext(ctx, "collection validated", "collection", s.collection, "vector_size", vectorSize)
	return nil
}

func rowPayload(row memory.VectorRow) map[string]*qdrant.Value {
	status := row.Metadata.Status()
	if status == "" {
		status = memory.StatusActive
	}
	return qdrant.NewValueMap(map[string]any{
		FieldTenantID:   row.TenantID,
		FieldDomain:     string(row.Domain),
		FieldSourceType: string(row.SourceType),
		FieldSourceID:   row.SourceID,
		FieldChunkIndex: row.ChunkIndex,
		FieldContent:    row.Content,
		FieldCreatedAt:  row.CreatedAt.UTC().Format(time.RFC3339Nano),
		FieldStatus:     string(status),
		FieldMetadata:   row.Metadata.ToMap(),
	})
}

func sourceFilter(tenantID string, sourceType memory.SourceType, sourceID string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch(FieldTenantID, tenantID),
			qdrant.NewMatch(FieldSourceType, string(sourceType)),
			qdrant.NewMatch(FieldSourceID, sourceID),
		},
	}
}

var _ Mirror = (*QdrantStore)(nil)
