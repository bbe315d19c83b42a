package ingestion_engine

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/bharathi/internal/models"
)

type fakeLLM struct {
	answer string
	err    error

	calls      int
	lastSystem string
	lastUser   string
}

func (f *fakeLLM) Generate(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.lastSystem, f.lastUser = systemPrompt, userPrompt
	return f.answer, f.err
}

func TestClassifySendsOneRequest(t *testing.T) {
	llm := &fakeLLM{answer: `{"about_company":"Acme is old.","services_or_products":"Widgets."}`}
	c := NewClassifier(llm)

	got, err := c.Classify(context.Background(), "Company: Acme")
	require.NoError(t, err)

	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, "Company: Acme", llm.lastUser)
	assert.Contains(t, llm.lastSystem, `"about_company"`)
	assert.Contains(t, llm.lastSystem, `"services_or_products"`)
	assert.Contains(t, llm.lastSystem, "more relevant single category")
	assert.Equal(t, "Acme is old.", got[models.CategoryAboutCompany])
	assert.Equal(t, "Widgets.", got[models.CategoryServicesOrProducts])
}

func TestClassifyAlwaysReturnsBothCategories(t *testing.T) {
	answers := []string{
		`{}`,
		`{"about_company":"x"}`,
		`{"services_or_products":"y"}`,
		`{"about_company":"x","services_or_products":"y","extra":"z"}`,
		"```json\n{\"about_company\":\"x\"}\n```",
		`{"about_company":null,"services_or_products":["a","b"]}`,
	}
	for _, a := range answers {
		got, err := NewClassifier(&fakeLLM{answer: a}).Classify(context.Background(), "text")
		require.NoError(t, err, a)
		require.Len(t, got, len(models.Categories), a)
		for _, cat := range models.Categories {
			_, ok := got[cat]
			assert.True(t, ok, "missing %s for %s", cat, a)
		}
	}
}

func TestClassifyFormatError(t *testing.T) {
	raw := "Sure! Here is the classification: about_company = Acme"
	_, err := NewClassifier(&fakeLLM{answer: raw}).Classify(context.Background(), "text")
	require.Error(t, err)

	var fe *ClassificationFormatError
	require.ErrorAs(t, err, &fe)

	var parseErr error
	var v map[string]any
	parseErr = json.Unmarshal([]byte(SanitizeResponse(raw)), &v)
	require.Error(t, parseErr)
	assert.Equal(t, parseErr.Error(), fe.ParseError)
	assert.Contains(t, err.Error(), parseErr.Error())
	assert.Equal(t, raw, fe.RawPrefix)
}

func TestClassifyFormatErrorBoundsRawPrefix(t *testing.T) {
	raw := "not json " + strings.Repeat("é", 2000)
	_, err := ParseClassification(raw)

	var fe *ClassificationFormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, rawPrefixLimit, utf8.RuneCountInString(fe.RawPrefix))
	assert.True(t, strings.HasPrefix(raw, fe.RawPrefix))
}

func TestClassifyRejectsNonObjects(t *testing.T) {
	for _, raw := range []string{`["about_company"]`, `"about_company"`, `null`, `42`} {
		_, err := ParseClassification(raw)
		var fe *ClassificationFormatError
		assert.ErrorAs(t, err, &fe, raw)
	}
}

func TestClassifyPropagatesLLMError(t *testing.T) {
	boom := errors.New("upstream 503")
	_, err := NewClassifier(&fakeLLM{err: boom}).Classify(context.Background(), "text")
	require.ErrorIs(t, err, boom)

	var fe *ClassificationFormatError
	assert.False(t, errors.As(err, &fe))
}

func TestParseClassificationInlineFence(t *testing.T) {
	for _, raw := range []string{
		"```json {\"about_company\":\"a\",\"services_or_products\":\"b\"}```",
		"```json{\"about_company\":\"a\",\"services_or_products\":\"b\"}```",
	} {
		got, err := ParseClassification(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, "a", got[models.CategoryAboutCompany])
		assert.Equal(t, "b", got[models.CategoryServicesOrProducts])
	}
}
