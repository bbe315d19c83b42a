package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/markdave123-py/bharathi/internal/core"
)

// DefaultMaxTokens keeps classifier output from being truncated.
const DefaultMaxTokens = 4096

// OpenAILLM talks to any OpenAI-compatible chat completion endpoint.
type OpenAILLM struct {
	client    llms.Model
	maxTokens int
}

func NewOpenAILLM(apiKey, baseURL, model string, maxTokens int) (*OpenAILLM, error) {
	if apiKey == "" {
		// local OpenAI-compatible servers accept any token
		apiKey = "none"
	}
	opts := []openai.Option{openai.WithToken(apiKey), openai.WithModel(model)}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &OpenAILLM{client: client, maxTokens: maxTokens}, nil
}

// Generate sends [system, user] with temperature 0 and returns choices[0] content.
func (o *OpenAILLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	resp, err := o.client.GenerateContent(ctx, content,
		llms.WithTemperature(0),
		llms.WithMaxTokens(o.maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("openai generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai generate: no choices returned")
	}
	return resp.Choices[0].Content, nil
}

var _ core.LLMProvider = (*OpenAILLM)(nil)
