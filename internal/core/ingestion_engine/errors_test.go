package ingestion_engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestErrorWrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("handler: %w", &IngestError{
		Kind:      KindRetrievalFailure,
		Stage:     StageExtractingText,
		CompanyID: "acme-1",
		Err:       cause,
	})

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindRetrievalFailure, KindOf(err))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, "handler: ingest acme-1: retrieval_failure at extracting_text: connection reset", err.Error())
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("x")))
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestIngestErrorWithoutCause(t *testing.T) {
	err := &IngestError{Kind: KindNotFound, Stage: StageFetchingRecord, CompanyID: "x"}
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "ingest x: not_found at fetching_record", err.Error())
}

func TestClassificationFormatErrorTruncates(t *testing.T) {
	raw := ""
	for i := 0; i < 600; i++ {
		raw += "é"
	}
	fe := newClassificationFormatError(errors.New("invalid character"), raw)
	require.Equal(t, rawPrefixLimit, len([]rune(fe.RawPrefix)))
	assert.Contains(t, fe.Error(), "invalid character")
}
