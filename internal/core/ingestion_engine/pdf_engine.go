package ingestion_engine

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFEngine returns the text of each page of a PDF, in page order.
type PDFEngine interface {
	PageTexts(data []byte) ([]string, error)
}

// LedongthucPDF reads PDFs with github.com/ledongthuc/pdf.
type LedongthucPDF struct{}

func (LedongthucPDF) PageTexts(data []byte) (pages []string, err error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty PDF content")
	}
	// the parser panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("parse pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, strings.TrimSpace(text))
	}
	return pages, nil
}
