package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TELEGRAM_TOKEN",
		"LLM_PROVIDER", "OLLAMA_BASE_URL", "LLM_API_KEY", "GEMINI_API_KEY",
		"ANTHROPIC_API_KEY", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)

	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configData := `
server:
  port: 9090
  webhook_path: "/hooks/whatsapp"

twilio:
  account_sid: "AC123"
  auth_token: "secret"

fetcher:
  timeout: 5s
  rate_limit: 1.5

documents:
  save_path: "/tmp/questionnaire.docx"

selector:
  key_questions: 3

llm:
  provider: "anthropic"
  api_key: "sk-test"
  max_tokens: 128
  temperature: 0.5

log:
  level: "debug"
  format: "console"
`
	err := os.WriteFile(configPath, []byte(configData), 0644)
	require.NoError(t, err)

	// Test loading config
	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	// Verify loaded values
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "/hooks/whatsapp", config.Server.WebhookPath)
	assert.Equal(t, "/health", config.Server.HealthPath)
	assert.Equal(t, "AC123", config.Twilio.AccountSID)
	assert.Equal(t, 5*time.Second, config.Fetcher.Timeout)
	assert.Equal(t, 1.5, config.Fetcher.RateLimit)
	assert.Equal(t, "/tmp/questionnaire.docx", config.Documents.SavePath)
	assert.Equal(t, ".docx", config.Documents.Extension)
	assert.Equal(t, 3, config.Selector.KeyQuestions)
	assert.Equal(t, "anthropic", config.LLM.Provider)
	assert.Equal(t, "claude-haiku-4-5-20251001", config.LLM.Model)
	assert.Equal(t, "", config.LLM.BaseURL)
	assert.Equal(t, 0.5, config.LLM.Temperature)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Empty(t, config.Validate())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	clearEnv(t)

	config, err := getDefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "/whatsapp", config.Server.WebhookPath)
	assert.Equal(t, "/ws", config.Server.ChatPath)
	assert.Equal(t, []string{"*"}, config.Server.AllowedOrigins)
	assert.Equal(t, 60*time.Second, config.Server.RequestTimeout)
	assert.Equal(t, 30*time.Second, config.Fetcher.Timeout)
	assert.Equal(t, []string{"api.twilio.com"}, config.Fetcher.AuthHosts)
	assert.Equal(t, "received_questionnaire.docx", config.Documents.SavePath)
	assert.Equal(t, "docs.google.com/forms", config.Documents.FormMarker)
	assert.Equal(t, "div.M7eMe", config.Extractor.QuestionSelector)
	assert.Equal(t, "Unable to extract questions from the form.", config.Extractor.FailureMessage)
	assert.Equal(t, 6, config.Selector.KeyQuestions)
	assert.Equal(t, "ollama", config.LLM.Provider)
	assert.Equal(t, "mistral", config.LLM.Model)
	assert.Equal(t, "http://localhost:11434", config.LLM.BaseURL)
	assert.Empty(t, config.Validate())
}

func TestConfigValidation(t *testing.T) {
	clearEnv(t)

	valid, err := getDefaultConfig()
	require.NoError(t, err)

	tests := []struct {
		name          string
		mutate        func(c *Config)
		errorMessages []string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name: "invalid server and fetcher",
			mutate: func(c *Config) {
				c.Server.Port = 70000
				c.Server.WebhookPath = "whatsapp"
				c.Fetcher.RateLimit = 0
			},
			errorMessages: []string{
				"server.port: port must be between 1 and 65535",
				"server.webhook_path: path must start with '/'",
				"fetcher.rate_limit: rate_limit must be positive",
			},
		},
		{
			name: "signature validation without credentials",
			mutate: func(c *Config) {
				c.Twilio.ValidateSignature = true
			},
			errorMessages: []string{
				"twilio.auth_token: auth token is required",
				"twilio.public_url: public URL is required",
			},
		},
		{
			name: "invalid llm and log",
			mutate: func(c *Config) {
				c.LLM.Provider = "gemini"
				c.LLM.MaxTokens = 5000
				c.LLM.Temperature = 3.0
				c.Log.Format = "xml"
			},
			errorMessages: []string{
				"llm.api_key: api_key is required for provider gemini",
				"llm.max_tokens: max_tokens must be between 1 and 4096",
				"llm.temperature: temperature must be between 0 and 1",
				"log.format: format must be json or console",
			},
		},
		{
			name: "bad documents and selector",
			mutate: func(c *Config) {
				c.Documents.Extension = "docx"
				c.Selector.KeyQuestions = -1
				c.LLM.Provider = "openai"
			},
			errorMessages: []string{
				"documents.extension: invalid extension format: docx",
				"selector.key_questions: key_questions must not be negative",
				"llm.provider: unknown provider: openai",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := *valid
			tt.mutate(&config)

			errors := config.Validate()
			require.Len(t, errors, len(tt.errorMessages))
			for i, msg := range tt.errorMessages {
				assert.Contains(t, errors[i].Error(), msg)
			}
		})
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("TWILIO_AUTH_TOKEN", "env-token")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "gemini-key")

	config := &Config{}
	mergeWithEnv(config)

	assert.Equal(t, 3000, config.Server.Port)
	assert.Equal(t, "env-token", config.Twilio.AuthToken)
	assert.Equal(t, "gemini", config.LLM.Provider)
	assert.Equal(t, "gemini-key", config.LLM.APIKey)
}

func TestInitLogger(t *testing.T) {
	orig := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(orig) })

	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.True(t, zap.L().Core().Enabled(zap.DebugLevel))

	assert.Error(t, InitLogger(LogConfig{Level: "loud", Format: "json"}))
}
