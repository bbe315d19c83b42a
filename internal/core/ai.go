package core

import "context"

// EmbeddingProvider turns a batch of texts into vectors, one per text, same order.
type EmbeddingProvider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// LLMProvider runs a single completion with a system instruction and a user message.
type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}
