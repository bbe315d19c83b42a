package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/markdave123-py/bharathi/internal/core"
)

// OpenAIEmbedder embeds through an OpenAI-compatible embeddings endpoint.
type OpenAIEmbedder struct {
	embedder embeddings.Embedder
}

func NewOpenAIEmbedder(apiKey, baseURL, model string) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		apiKey = "none"
	}
	opts := []openai.Option{openai.WithToken(apiKey), openai.WithEmbeddingModel(model)}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithBatchSize(512))
	if err != nil {
		return nil, err
	}
	return &OpenAIEmbedder{embedder: embedder}, nil
}

func (o *OpenAIEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vecs, err := o.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}
	return vecs, nil
}

var _ core.EmbeddingProvider = (*OpenAIEmbedder)(nil)
