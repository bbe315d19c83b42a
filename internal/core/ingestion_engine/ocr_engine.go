package ingestion_engine

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// OCREngine recognizes the text in an image.
type OCREngine interface {
	ImageText(data []byte) (string, error)
}

// TesseractOCR runs Tesseract through gosseract. Languages defaults to English.
type TesseractOCR struct {
	Languages []string
}

func (t TesseractOCR) ImageText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image content")
	}
	client := gosseract.NewClient()
	defer client.Close()

	if len(t.Languages) > 0 {
		if err := client.SetLanguage(t.Languages...); err != nil {
			return "", fmt.Errorf("ocr language: %w", err)
		}
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("ocr decode image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	return text, nil
}
