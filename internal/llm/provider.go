package llm

import "fmt"

type ProviderConfig struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
}

func NewClient(cfg ProviderConfig) (Client, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, "", cfg.Temperature), nil
	case "dashscope":
		// OpenAI-compatible endpoint, different base URL
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.Temperature), nil
	case "ollama":
		if cfg.Model == "" {
			cfg.Model = "llama3.1"
		}
		return NewOpenAIClient("ollama", cfg.Model, cfg.BaseURL, cfg.Temperature), nil
	case "anthropic":
		return NewAnthropicClient(cfg.APIKey, cfg.Model, cfg.Temperature), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}
