package config

import (
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap/zapcore"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate Server config
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "server.port",
			Message: "port must be between 1 and 65535",
		})
	}

	paths := []struct{ field, path string }{
		{"server.webhook_path", c.Server.WebhookPath},
		{"server.health_path", c.Server.HealthPath},
		{"server.chat_path", c.Server.ChatPath},
	}
	for _, p := range paths {
		if !strings.HasPrefix(p.path, "/") {
			errors = append(errors, ValidationError{
				Field:   p.field,
				Message: fmt.Sprintf("path must start with '/': %q", p.path),
			})
		}
	}

	if c.Server.RequestTimeout <= 0 {
		errors = append(errors, ValidationError{
			Field:   "server.request_timeout",
			Message: "request timeout must be positive",
		})
	}

	// Validate Twilio config
	if c.Twilio.ValidateSignature {
		if c.Twilio.AuthToken == "" {
			errors = append(errors, ValidationError{
				Field:   "twilio.auth_token",
				Message: "auth token is required to validate signatures",
			})
		}
		if u, err := url.Parse(c.Twilio.PublicURL); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "twilio.public_url",
				Message: "public URL is required to validate signatures",
			})
		}
	}

	// Validate Fetcher config
	if c.Fetcher.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "fetcher.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	if c.Fetcher.Timeout <= 0 {
		errors = append(errors, ValidationError{
			Field:   "fetcher.timeout",
			Message: "timeout must be positive",
		})
	}

	// Validate Documents config
	if c.Documents.SavePath == "" {
		errors = append(errors, ValidationError{
			Field:   "documents.save_path",
			Message: "save_path is required",
		})
	}

	if !strings.HasPrefix(c.Documents.Extension, ".") {
		errors = append(errors, ValidationError{
			Field:   "documents.extension",
			Message: fmt.Sprintf("invalid extension format: %s", c.Documents.Extension),
		})
	}

	if strings.TrimSpace(c.Documents.FormMarker) == "" {
		errors = append(errors, ValidationError{
			Field:   "documents.form_marker",
			Message: "form_marker is required",
		})
	}

	// Validate Extractor config
	if strings.TrimSpace(c.Extractor.QuestionSelector) == "" {
		errors = append(errors, ValidationError{
			Field:   "extractor.question_selector",
			Message: "question_selector is required",
		})
	}

	// Validate Selector config
	if c.Selector.KeyQuestions < 0 {
		errors = append(errors, ValidationError{
			Field:   "selector.key_questions",
			Message: "key_questions must not be negative",
		})
	}

	// Validate LLM config
	switch c.LLM.Provider {
	case "ollama":
		if u, err := url.Parse(c.LLM.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "llm.base_url",
				Message: "Ollama base URL is required",
			})
		}
	case "gemini", "anthropic":
		if c.LLM.APIKey == "" {
			errors = append(errors, ValidationError{
				Field:   "llm.api_key",
				Message: fmt.Sprintf("api_key is required for provider %s", c.LLM.Provider),
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "llm.provider",
			Message: fmt.Sprintf("unknown provider: %s", c.LLM.Provider),
		})
	}

	if c.LLM.MaxTokens < 1 || c.LLM.MaxTokens > 4096 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens must be between 1 and 4096",
		})
	}

	if c.LLM.Temperature <= 0 || c.LLM.Temperature > 1 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 1",
		})
	}

	// Validate Log config
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errors = append(errors, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid log level: %s", c.Log.Level),
		})
	}

	if c.Log.Format != "json" && c.Log.Format != "console" {
		errors = append(errors, ValidationError{
			Field:   "log.format",
			Message: "format must be json or console",
		})
	}

	return errors
}
