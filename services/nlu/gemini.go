// File: services/nlu/gemini.go
package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"bookwala/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiEngine implements Engine over a single-turn Gemini call per capability.
type GeminiEngine struct {
	model *genai.GenerativeModel
}

func NewGeminiEngine(apiKey string) (*GeminiEngine, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("models/gemini-1.5-pro")
	return &GeminiEngine{model: model}, nil
}

func (g *GeminiEngine) Classify(ctx context.Context, text string, history []models.Turn) (*models.IntentResult, error) {
	prompt := classifyPrompt(text, history)
	raw, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("gemini classify error: %w", err)
	}

	var result models.IntentResult
	if err := json.Unmarshal([]byte(stripFences(raw)), &result); err != nil {
		return nil, fmt.Errorf("classify output was not valid JSON: %w", err)
	}

	if !models.ValidIntent(result.Intent) {
		result.Intent = models.IntentUnknown
	}
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}
	result.Entities = ScrubEntities(text, result.Entities)
	return &result, nil
}

func (g *GeminiEngine) Generate(ctx context.Context, req models.ReplyRequest) (string, error) {
	prompt, err := replyPrompt(req)
	if err != nil {
		return "", err
	}
	reply, err := g.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

func (g *GeminiEngine) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty model response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String(), nil
}

// stripFences removes a ```json ... ``` wrapper when the model adds one.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

// ScrubEntities drops a customer_name the model did not read from the current
// turn. Names are only ever extracted from the message at hand, never
// remembered or invented from history.
func ScrubEntities(text string, entities map[string]string) map[string]string {
	if entities == nil {
		return map[string]string{}
	}
	if name, ok := entities[models.EntityCustomerName]; ok {
		lower := strings.ToLower(text)
		for _, token := range strings.Fields(strings.ToLower(name)) {
			if !strings.Contains(lower, token) {
				delete(entities, models.EntityCustomerName)
				break
			}
		}
		if name == "" {
			delete(entities, models.EntityCustomerName)
		}
	}
	return entities
}
