package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAILLMGenerate(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "test-model",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"about_company\":\"Acme\"}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2}
		}`)
	}))
	defer srv.Close()

	o, err := NewOpenAILLM("test-key", srv.URL, "test-model", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxTokens, o.maxTokens)

	out, err := o.Generate(context.Background(), "classify company text", "hello acme")
	require.NoError(t, err)

	assert.Equal(t, `{"about_company":"Acme"}`, out)
	assert.True(t, strings.HasSuffix(gotPath, "/chat/completions"), gotPath)
	assert.Contains(t, gotBody, "classify company text")
	assert.Contains(t, gotBody, "hello acme")
	assert.Contains(t, gotBody, "test-model")
}

func TestOpenAILLMServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	o, err := NewOpenAILLM("", srv.URL, "test-model", 128)
	require.NoError(t, err)

	_, err = o.Generate(context.Background(), "sys", "user")
	require.Error(t, err)
}
