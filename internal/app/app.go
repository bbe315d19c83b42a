package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/markdave123-py/bharathi/internal/config"
	"github.com/markdave123-py/bharathi/internal/core"
	db "github.com/markdave123-py/bharathi/internal/core/database"
	"github.com/markdave123-py/bharathi/internal/core/ingestion_engine"
	"github.com/markdave123-py/bharathi/internal/core/llm"
	objectclient "github.com/markdave123-py/bharathi/internal/core/object-client"
	"github.com/markdave123-py/bharathi/internal/services"
)

type App struct {
	Config   *config.Config
	Log      *zap.Logger
	DBClient core.DbClient
	Ingestor *ingestion_engine.DocumentIngestor
	Service  *services.IngestService
	Server   *Server

	closers []io.Closer
}

func NewApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	a := &App{Config: cfg, Log: log}

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	a.DBClient = dbClient
	a.closers = append(a.closers, dbClient)
	log.Info("database initialized and ready")

	// documents in S3/R2 are optional; plain HTTP URLs work without a bucket
	var objects core.ObjectClient
	s3Client, err := objectclient.NewS3Client(appCtx, cfg, log)
	switch {
	case errors.Is(err, objectclient.ErrNotConfigured):
		log.Info("object storage not configured, s3 urls will be fetched over http")
	case err != nil:
		a.Close()
		return nil, err
	default:
		objects = s3Client
		log.Info("object client initialized and ready")
	}

	embedder, err := llm.NewEmbeddingProvider(appCtx, cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("couldn't initialize the embedder, %w", err)
	}
	a.addCloser(embedder)

	llmProvider, err := llm.NewLLMProvider(appCtx, cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("couldn't initialize the llm, %w", err)
	}
	a.addCloser(llmProvider)

	fetcher := ingestion_engine.NewContentFetcher(cfg.FetchTimeout, cfg.MaxDocumentBytes, objects)
	extractor := ingestion_engine.NewDefaultDocumentExtractor(log)

	ingestor, err := ingestion_engine.NewDocumentIngestor(
		dbClient, fetcher, extractor, llmProvider, embedder,
		ingestion_engine.IngestConfigFromEnv(cfg), log)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Ingestor = ingestor
	a.Service = services.NewIngestService(ingestor, log)
	a.Server = NewServer(cfg, a.Service, log)

	log.Info("ingestion pipeline ready",
		zap.String("embed_provider", cfg.EmbedProvider),
		zap.String("llm_provider", cfg.LLMProvider),
		zap.Int("chunk_size", cfg.ChunkSize),
		zap.Int("chunk_overlap", cfg.ChunkOverlap))
	return a, nil
}

func (a *App) addCloser(v any) {
	if c, ok := v.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}
}

// Close releases clients in reverse construction order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.Log.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}
