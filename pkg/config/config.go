package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Twilio    TwilioConfig    `yaml:"twilio"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Fetcher   FetcherConfig   `yaml:"fetcher"`
	Documents DocumentsConfig `yaml:"documents"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Selector  SelectorConfig  `yaml:"selector"`
	LLM       LLMConfig       `yaml:"llm"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port           int           `yaml:"port"`
	WebhookPath    string        `yaml:"webhook_path"`
	HealthPath     string        `yaml:"health_path"`
	ChatPath       string        `yaml:"chat_path"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type TwilioConfig struct {
	AccountSID        string `yaml:"account_sid"`
	AuthToken         string `yaml:"auth_token"`
	ValidateSignature bool   `yaml:"validate_signature"`
	// PublicURL is the externally visible base URL Twilio posts to; the
	// signature is computed over it.
	PublicURL string `yaml:"public_url"`
}

type TelegramConfig struct {
	Token       string        `yaml:"token"`
	PollTimeout time.Duration `yaml:"poll_timeout"`
}

type FetcherConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"`
	UserAgent string        `yaml:"user_agent"`
	// AuthHosts receive the Twilio account credentials as basic auth.
	AuthHosts []string `yaml:"auth_hosts"`
}

type DocumentsConfig struct {
	SavePath   string `yaml:"save_path"`
	Extension  string `yaml:"extension"`
	FormMarker string `yaml:"form_marker"`
}

type ExtractorConfig struct {
	QuestionSelector string `yaml:"question_selector"`
	FailureMessage   string `yaml:"failure_message"`
}

type SelectorConfig struct {
	KeyQuestions int `yaml:"key_questions"`
}

type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func LoadConfig(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/formbot/config.yaml"),
			"/etc/formbot/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "config: read %s", path)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, eris.Wrapf(err, "config: parse %s", path)
	}

	// Merge with environment variables
	mergeWithEnv(&config)

	// Apply defaults for unset values
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	mergeWithEnv(config)
	applyDefaults(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.WebhookPath == "" {
		config.Server.WebhookPath = "/whatsapp"
	}
	if config.Server.HealthPath == "" {
		config.Server.HealthPath = "/health"
	}
	if config.Server.ChatPath == "" {
		config.Server.ChatPath = "/ws"
	}
	if len(config.Server.AllowedOrigins) == 0 {
		config.Server.AllowedOrigins = []string{"*"}
	}
	if config.Server.RequestTimeout == 0 {
		config.Server.RequestTimeout = 60 * time.Second
	}

	if config.Telegram.PollTimeout == 0 {
		config.Telegram.PollTimeout = 10 * time.Second
	}

	if config.Fetcher.Timeout == 0 {
		config.Fetcher.Timeout = 30 * time.Second
	}
	if config.Fetcher.RateLimit == 0 {
		config.Fetcher.RateLimit = 2.0
	}
	if config.Fetcher.UserAgent == "" {
		config.Fetcher.UserAgent = "formbot/1.0"
	}
	if len(config.Fetcher.AuthHosts) == 0 {
		config.Fetcher.AuthHosts = []string{"api.twilio.com"}
	}

	if config.Documents.SavePath == "" {
		config.Documents.SavePath = "received_questionnaire.docx"
	}
	if config.Documents.Extension == "" {
		config.Documents.Extension = ".docx"
	}
	if config.Documents.FormMarker == "" {
		config.Documents.FormMarker = "docs.google.com/forms"
	}

	if config.Extractor.QuestionSelector == "" {
		config.Extractor.QuestionSelector = "div.M7eMe"
	}
	if config.Extractor.FailureMessage == "" {
		config.Extractor.FailureMessage = "Unable to extract questions from the form."
	}

	if config.Selector.KeyQuestions == 0 {
		config.Selector.KeyQuestions = 6
	}

	if config.LLM.Provider == "" {
		config.LLM.Provider = "ollama"
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 256
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.1
	}
	if config.LLM.BaseURL == "" && config.LLM.Provider == "ollama" {
		config.LLM.BaseURL = "http://localhost:11434"
	}
	if config.LLM.Model == "" {
		switch config.LLM.Provider {
		case "gemini":
			config.LLM.Model = "gemini-1.5-flash"
		case "anthropic":
			config.LLM.Model = "claude-haiku-4-5-20251001"
		default:
			config.LLM.Model = "mistral"
		}
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "json"
	}
}

func mergeWithEnv(config *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			config.Server.Port = n
		}
	}
	if sid := os.Getenv("TWILIO_ACCOUNT_SID"); sid != "" {
		config.Twilio.AccountSID = sid
	}
	if token := os.Getenv("TWILIO_AUTH_TOKEN"); token != "" {
		config.Twilio.AuthToken = token
	}
	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}
	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = provider
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		config.LLM.APIKey = key
	}
	if config.LLM.APIKey == "" {
		switch config.LLM.Provider {
		case "gemini":
			config.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		case "anthropic":
			config.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Log.Level = level
	}
}
