package ingestion_engine

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"code.sajari.com/docconv"
	"go.uber.org/zap"

	"github.com/markdave123-py/bharathi/internal/core"
)

var _ core.DocumentExtractor = (*DocumentTextExtractor)(nil)

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true,
	".bmp": true, ".tiff": true, ".tif": true,
}

var officeExtensions = map[string]bool{
	".docx": true, ".doc": true, ".odt": true, ".rtf": true, ".pages": true,
	".html": true, ".htm": true, ".xml": true, ".txt": true,
}

// DocumentTextExtractor picks an extraction strategy from the document URL's
// path suffix and falls back from PDF to OCR when the type is unknown.
type DocumentTextExtractor struct {
	pdf    PDFEngine
	ocr    OCREngine
	office OfficeEngine
	log    *zap.Logger
}

func NewDocumentExtractor(pdf PDFEngine, ocr OCREngine, office OfficeEngine, log *zap.Logger) *DocumentTextExtractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &DocumentTextExtractor{pdf: pdf, ocr: ocr, office: office, log: log}
}

// NewDefaultDocumentExtractor wires ledongthuc/pdf, Tesseract and docconv.
func NewDefaultDocumentExtractor(log *zap.Logger) *DocumentTextExtractor {
	return NewDocumentExtractor(LedongthucPDF{}, TesseractOCR{}, DocconvOffice{}, log)
}

// ExtractText returns the document's plain text. A document without any text
// yields "" and no error.
func (e *DocumentTextExtractor) ExtractText(ctx context.Context, data []byte, sourceURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext := urlExtension(sourceURL)

	switch {
	case ext == ".pdf":
		return e.extractPDF(data)
	case imageExtensions[ext]:
		return e.extractImage(data)
	case officeExtensions[ext]:
		text, err := e.office.DocumentText(data, docconv.MimeTypeByExtension("document"+ext))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(text), nil
	default:
		text, pdfErr := e.extractPDF(data)
		if pdfErr == nil {
			return text, nil
		}
		e.log.Debug("pdf parse failed, falling back to ocr",
			zap.String("extension", ext), zap.Error(pdfErr))

		text, ocrErr := e.extractImage(data)
		if ocrErr != nil {
			return "", fmt.Errorf("%w (pdf attempt: %v)", ocrErr, pdfErr)
		}
		return text, nil
	}
}

func (e *DocumentTextExtractor) extractPDF(data []byte) (string, error) {
	pages, err := e.pdf.PageTexts(data)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		if strings.TrimSpace(p) == "" {
			continue
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, "\n"), nil
}

func (e *DocumentTextExtractor) extractImage(data []byte) (string, error) {
	text, err := e.ocr.ImageText(data)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// urlExtension returns the lower-cased extension of the URL path, ignoring
// query and fragment.
func urlExtension(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	} else if i := strings.IndexAny(raw, "?#"); i >= 0 {
		p = raw[:i]
	}
	return strings.ToLower(path.Ext(p))
}
