package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"tenant-memory/internal/config"
	"tenant-memory/internal/indexer"
	"tenant-memory/internal/ingest"
	"tenant-memory/internal/llm"
	"tenant-memory/internal/storage"
	"tenant-memory/internal/vectorstore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		slog.Error("ingest failed", "error", err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	var (
		dir      string
		tenantID string
		prefix   string
		force    bool
	)

	return &cli.Command{
		Name:  "ingest",
		Usage: "Index a directory of markdown and text documents for one tenant",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"d"},
				Usage:       "Directory to scan for .md, .markdown and .txt files",
				Sources:     cli.EnvVars("INGEST_DIR"),
				Destination: &dir,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "tenant",
				Aliases:     []string{"t"},
				Usage:       "Tenant that owns the indexed documents",
				Sources:     cli.EnvVars("INGEST_TENANT_ID"),
				Destination: &tenantID,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "prefix",
				Usage:       "Prefix for generated document ids",
				Destination: &prefix,
			},
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "Index files even when their document id already has rows",
				Destination: &force,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			configureLogging(cfg)

			db, err := storage.Open(cfg.DBDriver, cfg.DBPath, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() {
				_ = db.Close()
			}()
			if err := storage.Migrate(db); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			vectorRepo := storage.NewVectorRepo(db, cfg.EmbeddingDimensions)

			var embedder llm.Embedder
			if cfg.EmbeddingProvider == config.ProviderHash {
				embedder = llm.NewHashEmbedder(cfg.EmbeddingDimensions)
			} else {
				embedder = llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimensions, cfg.EmbeddingTimeout)
			}

			opts := []indexer.Option{indexer.WithMaxLen(cfg.ChunkMaxLen)}
			if cfg.MirrorEnabled() {
				qdrantStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantCollection)
				if err != nil {
					return fmt.Errorf("failed to create Qdrant client: %w", err)
				}
				defer func() {
					_ = qdrantStore.Close()
				}()
				if err := qdrantStore.EnsureCollection(ctx, cfg.EmbeddingDimensions); err != nil {
					return fmt.Errorf("failed to ensure Qdrant collection: %w", err)
				}
				opts = append(opts, indexer.WithMirror(qdrantStore))
			}

			files, err := ingest.NewScanner(dir).Scan(ctx)
			if err != nil {
				return err
			}
			slog.InfoContext(ctx, "scanned directory", "dir", dir, "files", len(files))

			ix := indexer.New(vectorRepo, embedder, opts...)
			stats, runErr := ingest.NewIngester(ix, vectorRepo, force).Run(ctx, tenantID, prefix, files)

			enc := json.NewEncoder(c.Root().Writer)
			enc.SetIndent("", "  ")
			if err := enc.Encode(stats); err != nil {
				return fmt.Errorf("failed to write stats: %w", err)
			}
			return runErr
		},
	}
}

func configureLogging(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
