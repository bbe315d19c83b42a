package llm

import (
	"context"
	"fmt"

	"github.com/markdave123-py/bharathi/internal/config"
	"github.com/markdave123-py/bharathi/internal/core"
)

// NewEmbeddingProvider picks the embedder named by EMBED_PROVIDER.
func NewEmbeddingProvider(ctx context.Context, cfg *config.Config) (core.EmbeddingProvider, error) {
	switch cfg.EmbedProvider {
	case "", "gemini":
		return NewGeminiEmbedder(ctx, cfg.AIAPIKey, cfg.EmbedModel)
	case "openai":
		return NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIEmbed)
	default:
		return nil, fmt.Errorf("unsupported embed provider: %s", cfg.EmbedProvider)
	}
}

// NewLLMProvider picks the completion backend named by LLM_PROVIDER.
func NewLLMProvider(ctx context.Context, cfg *config.Config) (core.LLMProvider, error) {
	switch cfg.LLMProvider {
	case "", "openai":
		return NewOpenAILLM(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.GenModel, cfg.MaxTokens)
	case "gemini":
		return NewGeminiLLM(ctx, cfg.AIAPIKey, cfg.GenModel, cfg.MaxTokens)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLMProvider)
	}
}
