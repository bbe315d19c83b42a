package models

import (
	"time"
)

// CompanyRecord is the company profile row the ingestion pipeline reads.
type CompanyRecord struct {
	CompanyID   string `db:"company_id" json:"company_id"`
	CompanyName string `db:"company_name" json:"company_name"`
	Description string `db:"description" json:"description"`
	ContentURL  string `db:"content" json:"content"` // linked source document, may be empty
}

// EmbeddingMetadata is stored as jsonb next to every embedded fragment.
type EmbeddingMetadata struct {
	CompanyName string   `json:"company_name"`
	Category    Category `json:"category"`
	ChunkIndex  int      `json:"chunk_index"`
	TotalChunks int      `json:"total_chunks"`
}

// CompanyEmbedding represents one embedded text fragment of a company profile.
type CompanyEmbedding struct {
	ID        string            `db:"id" json:"id"`
	CompanyID string            `db:"company_id" json:"company_id"`
	Content   string            `db:"content" json:"content"`
	Embedding []float32         `db:"embedding" json:"embedding"` // pgvector column
	Metadata  EmbeddingMetadata `db:"metadata" json:"metadata"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}
