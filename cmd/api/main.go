package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tenant-memory/internal/config"
	"tenant-memory/internal/http"
	"tenant-memory/internal/indexer"
	"tenant-memory/internal/llm"
	"tenant-memory/internal/search"
	"tenant-memory/internal/service"
	"tenant-memory/internal/storage"
	"tenant-memory/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := storage.Open(cfg.DBDriver, cfg.DBPath, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "driver", db.Dialect().String(), "path", cfg.DBPath)

	// Create repository instances
	vectorRepo := storage.NewVectorRepo(db, cfg.EmbeddingDimensions)
	memoryRepo := storage.NewMemoryRepo(db)

	// Create the embedder and validate its vector size (fail-fast)
	var embedder llm.Embedder
	switch cfg.EmbeddingProvider {
	case config.ProviderHash:
		embedder = llm.NewHashEmbedder(cfg.EmbeddingDimensions)
		slog.Warn("Using offline hash embeddings; search quality is lexical only")
	default:
		client := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimensions, cfg.EmbeddingTimeout)
		testEmbeddings, err := client.EmbedTexts(ctx, []string{"test"})
		if err != nil {
			log.Fatalf("Failed to validate embedding client: %v", err)
		}
		if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.EmbeddingDimensions {
			log.Fatalf("Embedding vector size mismatch: expected %d", cfg.EmbeddingDimensions)
		}
		slog.Info("Embedding client validated", "model", cfg.EmbeddingModel, "vector_size", cfg.EmbeddingDimensions)
		embedder = client
	}

	// Query embeddings repeat often; cache them in front of the provider
	queryEmbedder := embedder
	if cfg.EmbeddingCacheEntries > 0 {
		cache, err := llm.NewCachingEmbedder(embedder, int64(cfg.EmbeddingCacheEntries))
		if err != nil {
			log.Fatalf("Failed to create embedding cache: %v", err)
		}
		defer cache.Close()
		queryEmbedder = cache
	}

	// Initialize the optional Qdrant mirror
	var mirror vectorstore.Mirror
	if cfg.MirrorEnabled() {
		qdrantStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantCollection)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
		defer func() {
			_ = qdrantStore.Close()
		}()

		// Ensure collection exists with correct vector size
		if err := qdrantStore.EnsureCollection(ctx, cfg.EmbeddingDimensions); err != nil {
			log.Fatalf("Failed to ensure Qdrant collection: %v", err)
		}
		slog.Info("Qdrant mirror ready", "collection", cfg.QdrantCollection, "vector_size", cfg.EmbeddingDimensions)
		mirror = qdrantStore
	}

	// Create indexing pipeline and search engine
	indexerPipeline := indexer.New(vectorRepo, embedder,
		indexer.WithMirror(mirror),
		indexer.WithMaxLen(cfg.ChunkMaxLen),
	)
	searchEngine := search.NewEngine(vectorRepo, queryEmbedder, cfg.SearchDefaultTop)

	memoryService := service.NewMemoryService(memoryRepo, vectorRepo, indexerPipeline, searchEngine, mirror)
	slog.Info("Memory service initialized", "chunk_max_len", cfg.ChunkMaxLen, "default_top_k", cfg.SearchDefaultTop)

	// Create router with dependencies
	deps := &http.Deps{
		MemoryService: memoryService,
		DB:            db,
		Mirror:        mirror,
	}
	router := http.NewRouter(deps)

	srv := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}()

	// Start API server
	slog.Info("Starting API server", "addr", srv.Addr)
	slog.Debug("Embedding configuration", "provider", cfg.EmbeddingProvider, "base_url", cfg.EmbeddingBaseURL, "model", cfg.EmbeddingModel)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("API server failed to start: %v", err)
	}
}
