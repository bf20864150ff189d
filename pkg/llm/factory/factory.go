package factory

import (
	"fmt"

	"askq-be/pkg/llm"
	"askq-be/pkg/llm/ollama"
	"askq-be/pkg/llm/openai"
)

type Config struct {
	Provider      string
	Model         string
	APIKey        string
	BaseURL       string
	OllamaBaseURL string
}

func NewLLMProvider(cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "openai", "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("LLM_API_KEY is required for provider openai")
		}
		return openai.NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case "ollama":
		return ollama.NewOllamaProvider(cfg.OllamaBaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
