package core

import (
	"context"
)

// ContentFetcher retrieves the raw bytes of a linked document.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// DocumentExtractor defines the interface for extracting text from various document types.
type DocumentExtractor interface {
	// ExtractText returns the plain text of data. sourceURL is used to pick the
	// parsing strategy from its path suffix.
	ExtractText(ctx context.Context, data []byte, sourceURL string) (string, error)
}
