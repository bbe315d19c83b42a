package ingestion_engine

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Kind classifies why an ingestion call failed.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindRetrievalFailure
	KindExtractionFailure
	KindClassificationFailure
	KindClassificationFormat
	KindEmbeddingFailure
	KindPersistenceFailure
	KindEmptyResult
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindRetrievalFailure:
		return "retrieval_failure"
	case KindExtractionFailure:
		return "extraction_failure"
	case KindClassificationFailure:
		return "classification_failure"
	case KindClassificationFormat:
		return "classification_format_error"
	case KindEmbeddingFailure:
		return "embedding_failure"
	case KindPersistenceFailure:
		return "persistence_failure"
	case KindEmptyResult:
		return "empty_result"
	default:
		return "unknown"
	}
}

// Stage names a step of the ingestion state machine.
type Stage string

const (
	StageFetchingRecord       Stage = "fetching_record"
	StageExtractingText       Stage = "extracting_text"
	StageMergingFields        Stage = "merging_fields"
	StageClassifying          Stage = "classifying"
	StageChunkingAndEmbedding Stage = "chunking_and_embedding"
	StagePersistingBatch      Stage = "persisting_batch"
	StageDone                 Stage = "done"
)

// IngestError is the terminal failure of one ingestion call.
type IngestError struct {
	Kind      Kind
	Stage     Stage
	CompanyID string
	Err       error
}

func (e *IngestError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("ingest %s: %s at %s", e.CompanyID, e.Kind, e.Stage)
	}
	return fmt.Sprintf("ingest %s: %s at %s: %v", e.CompanyID, e.Kind, e.Stage, e.Err)
}

func (e *IngestError) Unwrap() error { return e.Err }

// KindOf returns the failure kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var ie *IngestError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err means the company record does not exist.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

var (
	// ErrNothingToEmbed is the cause of every KindEmptyResult failure.
	ErrNothingToEmbed = errors.New("no text chunks produced, nothing to embed")
	// ErrCompanyNotFound is the cause of every KindNotFound failure.
	ErrCompanyNotFound = errors.New("no company found")
)

// rawPrefixLimit bounds the raw LLM output kept on a format error.
const rawPrefixLimit = 500

// ClassificationFormatError reports classifier output that is not the expected JSON object.
type ClassificationFormatError struct {
	ParseError string
	RawPrefix  string
}

func newClassificationFormatError(parseErr error, raw string) *ClassificationFormatError {
	return &ClassificationFormatError{ParseError: parseErr.Error(), RawPrefix: truncateRunes(raw, rawPrefixLimit)}
}

func (e *ClassificationFormatError) Error() string {
	return fmt.Sprintf("classifier returned invalid JSON: %s (raw: %q)", e.ParseError, e.RawPrefix)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
