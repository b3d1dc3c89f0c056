package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/xhad/formbot/internal/types"
)

var _ types.AnswerModel = (*GeminiQA)(nil)

type GeminiQA struct {
	config QAConfig
	client *genai.Client
}

func NewGemini(ctx context.Context, config QAConfig) (*GeminiQA, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	if err := applyDefaults(&config); err != nil {
		return nil, err
	}
	if config.Model == "" {
		config.Model = "gemini-1.5-flash"
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return &GeminiQA{config: config, client: cl}, nil
}

func (g *GeminiQA) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *GeminiQA) Answer(ctx context.Context, question, passage string) (string, error) {
	m := g.client.GenerativeModel(g.config.Model)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(g.config.SystemTemplate)},
	}
	m.SetTemperature(float32(g.config.Temperature))
	m.SetMaxOutputTokens(int32(g.config.MaxTokens))

	resp, err := m.GenerateContent(ctx, genai.Text(userPrompt(g.config, question, passage)))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini generate: no candidates")
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return cleanAnswer(b.String()), nil
}
