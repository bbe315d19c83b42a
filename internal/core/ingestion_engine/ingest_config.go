package ingestion_engine

import (
	"time"

	"github.com/markdave123-py/bharathi/internal/config"
)

// IngestConfig tunes the pipeline.
//
// ChunkSize:        maximum fragment length in runes (default 1000).
// ChunkOverlap:     runes shared by consecutive fragments (default 200).
// EmbedDim:         expected vector dimension; 0 accepts whatever the model returns.
// ReplaceExisting:  delete a company's previous rows in the same transaction as the insert.
// *Timeout:         per external call; a hung dependency fails the call.
type IngestConfig struct {
	ChunkSize       int
	ChunkOverlap    int
	EmbedDim        int
	ReplaceExisting bool

	FetchTimeout    time.Duration
	ExtractTimeout  time.Duration
	ClassifyTimeout time.Duration
	EmbedTimeout    time.Duration
	PersistTimeout  time.Duration
	RecordTimeout   time.Duration
}

// DefaultIngestConfig returns the production defaults.
func DefaultIngestConfig() *IngestConfig {
	return &IngestConfig{
		ChunkSize:       DefaultChunkSize,
		ChunkOverlap:    DefaultChunkOverlap,
		FetchTimeout:    60 * time.Second,
		ExtractTimeout:  2 * time.Minute,
		ClassifyTimeout: 90 * time.Second,
		EmbedTimeout:    60 * time.Second,
		PersistTimeout:  30 * time.Second,
		RecordTimeout:   15 * time.Second,
	}
}

// IngestConfigFromEnv maps the loaded environment onto IngestConfig.
func IngestConfigFromEnv(cfg *config.Config) *IngestConfig {
	ic := DefaultIngestConfig()
	ic.ChunkSize = cfg.ChunkSize
	ic.ChunkOverlap = cfg.ChunkOverlap
	ic.EmbedDim = cfg.EmbedDim
	ic.ReplaceExisting = cfg.ReplaceExisting
	if cfg.FetchTimeout > 0 {
		ic.FetchTimeout = cfg.FetchTimeout
	}
	if cfg.ClassifyTimeout > 0 {
		ic.ClassifyTimeout = cfg.ClassifyTimeout
	}
	if cfg.EmbedTimeout > 0 {
		ic.EmbedTimeout = cfg.EmbedTimeout
	}
	if cfg.PersistTimeout > 0 {
		ic.PersistTimeout = cfg.PersistTimeout
	}
	return ic
}
