package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	LLMProvider   string // openai, dashscope, ollama, anthropic
	OpenAIKey     string
	AnthropicKey  string
	DashScopeKey  string
	DashScopeURL  string
	OllamaBaseURL string
	LLMModel      string
	Temperature   float64

	SerperKey      string
	SerperGL       string // country code for search results
	SerperHL       string // interface language
	SerperLocation string

	ListenAddr  string
	CORSOrigins string

	SessionsDB       string // path to sqlite file; empty = in-memory store
	SessionTTLHours  int
	SessionSweepCron string

	MaxHistoryMessages int
	MaxToolIterations  int
}

func Load() *Config {
	_ = godotenv.Load() // ignore error if no .env

	return &Config{
		LLMProvider:   envOr("LLM_PROVIDER", "openai"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:  os.Getenv("ANTHROPIC_API_KEY"),
		DashScopeKey:  os.Getenv("DASHSCOPE_API_KEY"),
		DashScopeURL:  envOr("DASHSCOPE_BASE_URL", "https://dashscope.aliyuncs.com/compatible-mode/v1"),
		OllamaBaseURL: envOr("OLLAMA_BASE_URL", "http://localhost:11434/v1"),
		LLMModel:      os.Getenv("LLM_MODEL"),
		Temperature:   envFloat("LLM_TEMPERATURE", 0.2),

		SerperKey:      os.Getenv("SERPER_API_KEY"),
		SerperGL:       envOr("SERPER_GL", "us"),
		SerperHL:       envOr("SERPER_HL", "en"),
		SerperLocation: envOr("SERPER_LOCATION", "United States"),

		ListenAddr:  envOr("LISTEN_ADDR", ":8000"),
		CORSOrigins: envOr("CORS_ORIGINS", "*"),

		SessionsDB:       os.Getenv("SESSIONS_DB"),
		SessionTTLHours:  envInt("SESSION_TTL_HOURS", 24),
		SessionSweepCron: envOr("SESSION_SWEEP_CRON", "0 * * * *"),

		MaxHistoryMessages: envInt("MAX_HISTORY_MESSAGES", 20),
		MaxToolIterations:  envInt("MAX_TOOL_ITERATIONS", 3),
	}
}

// Validate checks that the configured provider has everything it needs.
// It returns all problems at once so the user can fix them in one pass.
func (c *Config) Validate() []string {
	var errors []string

	switch c.LLMProvider {
	case "openai":
		if c.OpenAIKey == "" {
			errors = append(errors, "OPENAI_API_KEY is not set")
		}
		if c.LLMModel == "" {
			errors = append(errors, "LLM_MODEL is not set (e.g. gpt-4o)")
		}
	case "dashscope":
		if c.DashScopeKey == "" {
			errors = append(errors, "DASHSCOPE_API_KEY is not set")
		}
		if c.DashScopeURL == "" {
			errors = append(errors, "DASHSCOPE_BASE_URL is not set")
		}
		if c.LLMModel == "" {
			errors = append(errors, "LLM_MODEL is not set (e.g. qwen-plus)")
		}
	case "anthropic":
		if c.AnthropicKey == "" {
			errors = append(errors, "ANTHROPIC_API_KEY is not set")
		}
	case "ollama":
		// local, no credentials needed
	default:
		errors = append(errors, "LLM_PROVIDER must be one of: openai, dashscope, ollama, anthropic")
	}

	return errors
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
