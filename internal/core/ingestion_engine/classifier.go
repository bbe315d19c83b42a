package ingestion_engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/markdave123-py/bharathi/internal/core"
	"github.com/markdave123-py/bharathi/internal/models"
)

const classifierSystemPrompt = `You organize information about a company for a customer-facing assistant.

Sort ALL of the text you are given into exactly two categories:

- "about_company": who the company is. History, mission, values, team, locations, contact details, policies, and any other descriptive information about the business itself.
- "services_or_products": what the company offers. Products, services, menus, pricing, plans, features, availability, delivery, and ordering details.

Rules:
- Keep the original wording and facts. Do not invent, summarize away, or add information.
- Assign ambiguous content to the more relevant single category. Never duplicate content across categories.
- If nothing belongs to a category, use an empty string for it.

Respond with ONLY a JSON object with exactly these two keys and string values:
{"about_company": "...", "services_or_products": "..."}
No explanations, no surrounding prose, no Markdown, no code fences.`

// Classifier buckets merged company text into the fixed category set using an LLM.
type Classifier struct {
	llm core.LLMProvider
}

func NewClassifier(llm core.LLMProvider) *Classifier {
	return &Classifier{llm: llm}
}

// Classify sends one completion request and parses its answer. The result
// always holds every category. Malformed output is returned as a
// *ClassificationFormatError and is not retried.
func (c *Classifier) Classify(ctx context.Context, mergedText string) (models.CategorizedText, error) {
	raw, err := c.llm.Generate(ctx, classifierSystemPrompt, mergedText)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	return ParseClassification(raw)
}

// ParseClassification decodes a raw classifier answer into CategorizedText.
func ParseClassification(raw string) (models.CategorizedText, error) {
	body := SanitizeResponse(raw)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return nil, newClassificationFormatError(err, raw)
	}
	if parsed == nil {
		// "null" decodes without error
		return nil, newClassificationFormatError(fmt.Errorf("expected a JSON object, got null"), raw)
	}
	return models.NormalizeCategories(parsed), nil
}
