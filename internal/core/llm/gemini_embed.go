package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/markdave123-py/bharathi/internal/core"
)

// geminiBatchLimit is the largest batch BatchEmbedContents accepts.
const geminiBatchLimit = 100

type GeminiEmbedder struct {
	client    *genai.Client
	modelName string
	batchSize int
	embed     func(ctx context.Context, texts []string) ([][]float32, error)
}

func NewGeminiEmbedder(ctx context.Context, apiKey, modelName string) (*GeminiEmbedder, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "gemini-embedding-001"
	}
	g := &GeminiEmbedder{client: cl, modelName: modelName, batchSize: geminiBatchLimit}
	g.embed = g.batchEmbed
	return g, nil
}

func (g *GeminiEmbedder) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// EmbedTexts embeds texts in order. Inputs above the API batch limit are sent
// as consecutive sub-batches.
func (g *GeminiEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	size := g.batchSize
	if size <= 0 {
		size = geminiBatchLimit
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		vecs, err := g.embed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		if len(vecs) != end-start {
			return nil, fmt.Errorf("gemini batch embed: got %d embeddings for %d texts", len(vecs), end-start)
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (g *GeminiEmbedder) batchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	em := g.client.EmbeddingModel(g.modelName)
	em.TaskType = genai.TaskTypeRetrievalDocument

	batch := em.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(t))
	}

	resp, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("gemini batch embed: %w", err)
	}

	out := make([][]float32, 0, len(resp.Embeddings))
	for _, e := range resp.Embeddings {
		out = append(out, e.Values)
	}
	return out, nil
}

var _ core.EmbeddingProvider = (*GeminiEmbedder)(nil)
