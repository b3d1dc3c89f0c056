// Package llm provides question-answering models backed by hosted or local
// LLMs. Every provider is prompted to behave like an extractive QA model:
// given a question and a context, return a short best-guess answer.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/xhad/formbot/internal/types"
)

const (
	ProviderOllama    = "ollama"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

const defaultSystemTemplate = "You are a question answering model. Answer the question using the context. " +
	"Reply with the shortest answer that fits, with no explanation and no surrounding quotes. " +
	"If the context does not contain the answer, reply with your most likely short answer."

const defaultContextTemplate = "Context:\n%s\n\nQuestion: %s"

// QAConfig represents the configuration for a question-answering model.
type QAConfig struct {
	Provider        string
	Model           string
	APIKey          string
	BaseURL         string // Ollama server URL, or an API base URL override
	Temperature     float64
	MaxTokens       int
	SystemTemplate  string
	ContextTemplate string
}

// NewWithConfig creates the answer model selected by config.Provider.
func NewWithConfig(ctx context.Context, config QAConfig) (types.AnswerModel, error) {
	if err := applyDefaults(&config); err != nil {
		return nil, err
	}

	switch config.Provider {
	case ProviderOllama:
		return NewOllama(config)
	case ProviderGemini:
		return NewGemini(ctx, config)
	case ProviderAnthropic:
		return NewAnthropic(config)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", config.Provider)
	}
}

func applyDefaults(config *QAConfig) error {
	if config.Provider == "" {
		config.Provider = ProviderOllama
	}
	if config.Temperature <= 0 || config.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0 and 1")
	}
	if config.MaxTokens < 0 {
		return fmt.Errorf("max tokens cannot be negative")
	} else if config.MaxTokens == 0 {
		config.MaxTokens = 256
	}
	if config.SystemTemplate == "" {
		config.SystemTemplate = defaultSystemTemplate
	}
	if config.ContextTemplate == "" {
		config.ContextTemplate = defaultContextTemplate
	}
	return nil
}

func userPrompt(config QAConfig, question, passage string) string {
	return fmt.Sprintf(config.ContextTemplate, passage, question)
}

func cleanAnswer(s string) string {
	s = strings.TrimSpace(s)
	return strings.Trim(s, "\"")
}
