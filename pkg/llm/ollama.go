package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/xhad/formbot/internal/types"
)

var _ types.AnswerModel = (*LangChainQA)(nil)

// LangChainQA answers questions with any langchaingo model.
type LangChainQA struct {
	config QAConfig
	llm    llms.Model
}

// NewOllama creates a LangChainQA backed by an Ollama server.
func NewOllama(config QAConfig) (*LangChainQA, error) {
	if config.Model == "" {
		config.Model = "mistral" // Default Ollama model
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434" // Default Ollama URL
	}

	llm, err := ollama.New(ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return NewLangChain(config, llm)
}

// NewLangChain wraps an already constructed langchaingo model.
func NewLangChain(config QAConfig, llm llms.Model) (*LangChainQA, error) {
	if err := applyDefaults(&config); err != nil {
		return nil, err
	}
	return &LangChainQA{
		config: config,
		llm:    llm,
	}, nil
}

// Answer returns the model's answer to question given passage.
func (q *LangChainQA) Answer(ctx context.Context, question, passage string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, q.config.SystemTemplate),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt(q.config, question, passage)),
	}

	response, err := q.llm.GenerateContent(ctx, content,
		llms.WithTemperature(q.config.Temperature),
		llms.WithMaxTokens(q.config.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("langchain generate: %w", err)
	}

	if response == nil || len(response.Choices) == 0 || response.Choices[0] == nil {
		return "", fmt.Errorf("langchain generate: no response from LLM")
	}

	return cleanAnswer(response.Choices[0].Content), nil
}
