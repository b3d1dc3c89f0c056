package llm

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/xhad/formbot/internal/types"
)

var _ types.AnswerModel = (*AnthropicQA)(nil)

type AnthropicQA struct {
	config QAConfig
	client sdk.Client
}

func NewAnthropic(config QAConfig, opts ...option.RequestOption) (*AnthropicQA, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("anthropic: api key is required")
	}
	if err := applyDefaults(&config); err != nil {
		return nil, err
	}
	if config.Model == "" {
		config.Model = "claude-haiku-4-5-20251001"
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(config.BaseURL))
	}
	reqOpts = append(reqOpts, opts...)

	return &AnthropicQA{
		config: config,
		client: sdk.NewClient(reqOpts...),
	}, nil
}

func (a *AnthropicQA) Answer(ctx context.Context, question, passage string) (string, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(a.config.Model),
		MaxTokens: int64(a.config.MaxTokens),
		System: []sdk.TextBlockParam{
			{Text: a.config.SystemTemplate},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(userPrompt(a.config, question, passage))),
		},
		Temperature: sdk.Float(a.config.Temperature),
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic: create message: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return cleanAnswer(b.String()), nil
}
