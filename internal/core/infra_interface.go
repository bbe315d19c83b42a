package core

import (
	"context"

	"github.com/markdave123-py/bharathi/internal/models"
)

// DbClient defines all persistence operations the ingestion pipeline needs.
// It abstracts Postgres/pgvector so higher layers never depend on a specific DB.
type DbClient interface {
	// GetCompanyContext returns (nil, nil) when no record matches.
	GetCompanyContext(ctx context.Context, companyID string) (*models.CompanyRecord, error)

	// InsertCompanyEmbeddings appends rows in a single transaction.
	InsertCompanyEmbeddings(ctx context.Context, rows []models.CompanyEmbedding) error
	// ReplaceCompanyEmbeddings deletes the company's existing rows and inserts rows in one transaction.
	ReplaceCompanyEmbeddings(ctx context.Context, companyID string, rows []models.CompanyEmbedding) error

	Close() error
}

// ObjectClient reads documents kept in S3 or any S3-compatible object storage.
type ObjectClient interface {
	GetFile(ctx context.Context, bucket, key string) ([]byte, error)
}
