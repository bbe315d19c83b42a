package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/markdave123-py/bharathi/internal/core"
)

type GeminiLLM struct {
	client    *genai.Client
	modelName string
	maxTokens int32
}

func NewGeminiLLM(ctx context.Context, apiKey, modelName string, maxTokens int) (*GeminiLLM, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &GeminiLLM{client: cl, modelName: modelName, maxTokens: int32(maxTokens)}, nil
}

func (g *GeminiLLM) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Generate runs one deterministic completion (temperature 0).
func (g *GeminiLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m := g.client.GenerativeModel(g.modelName)
	m.SetTemperature(0)
	m.SetMaxOutputTokens(g.maxTokens)
	if systemPrompt != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}

	resp, err := m.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return candidateText(resp)
}

// candidateText joins the text parts of the first candidate. A response
// without any text, such as a blocked prompt, is an error.
func candidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", fmt.Errorf("gemini generate: prompt blocked: %v", resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("gemini generate: no candidates returned")
	}

	c := resp.Candidates[0]
	var b strings.Builder
	if c.Content != nil {
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("gemini generate: empty candidate (finish reason %v)", c.FinishReason)
	}
	return b.String(), nil
}

var _ core.LLMProvider = (*GeminiLLM)(nil)
