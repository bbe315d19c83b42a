package ingestion_engine

import "context"

type Ingestor interface {
	Ingest(ctx context.Context, companyID string, opts ...IngestOption) (*IngestReport, error)
}

// IngestOption adjusts a single ingestion call.
type IngestOption func(*ingestOptions)

type ingestOptions struct {
	replace bool
}

// WithReplace overrides IngestConfig.ReplaceExisting for one call.
func WithReplace(replace bool) IngestOption {
	return func(o *ingestOptions) { o.replace = replace }
}
