package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"rideinsight/internal/modules/analytics"
)

// GeminiProvider implements LLMProvider using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.0-flash")
	model.ResponseMIMEType = "application/json"
	// Choosing from a closed menu; keep it deterministic.
	model.SetTemperature(0)

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

func (p *GeminiProvider) ChooseQuery(ctx context.Context, question string, menu []analytics.Query) (*QueryIntent, error) {
	prompt := fmt.Sprintf("%s\n\nUser Question: %s", buildSystemPrompt(menu), question)

	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates from Gemini")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	return parseIntent(text.String(), menu)
}

// parseIntent decodes the model output and drops ids that are not on the menu.
func parseIntent(raw string, menu []analytics.Query) (*QueryIntent, error) {
	cleanJSON := cleanJSONString(raw)

	var result QueryIntent
	if err := json.Unmarshal([]byte(cleanJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleanJSON)
	}
	result.Query = strings.ToLower(strings.TrimSpace(result.Query))
	for _, q := range menu {
		if string(q.ID) == result.Query {
			return &result, nil
		}
	}
	result.Query = ""
	return &result, nil
}

func buildSystemPrompt(menu []analytics.Query) string {
	var b strings.Builder
	for _, q := range menu {
		fmt.Fprintf(&b, "- %s: %s\n", q.ID, q.Title)
	}
	return fmt.Sprintf(`Role: You route questions about a personal ride-hailing trip history to a fixed set of reports.

Reports:
%s
RULES:
1. Pick exactly one report id from the list whose result best answers the question.
2. If no report can answer it, use an empty string for "query".
3. "reply" is one short sentence telling the user which report you chose and why. Never invent numbers.

Output JSON Schema:
{
  "query": "one report id, or empty string",
  "reply": "string (user facing)"
}
`, b.String())
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
