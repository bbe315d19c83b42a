package ingestion_engine

import (
	"bytes"
	"fmt"

	"code.sajari.com/docconv"
)

// OfficeEngine extracts text from word-processor and markup documents.
type OfficeEngine interface {
	DocumentText(data []byte, mimeType string) (string, error)
}

// DocconvOffice implements OfficeEngine using sajari/docconv.
type DocconvOffice struct {
	UseReadability bool
}

func (d DocconvOffice) DocumentText(data []byte, mimeType string) (string, error) {
	res, err := docconv.Convert(bytes.NewReader(data), mimeType, d.UseReadability)
	if err != nil {
		return "", fmt.Errorf("docconv %s: %w", mimeType, err)
	}
	return res.Body, nil
}
