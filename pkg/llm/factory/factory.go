package factory

import (
	"fmt"
	"time"

	"study-copilot-be/pkg/llm"
	"study-copilot-be/pkg/llm/gemini"
	"study-copilot-be/pkg/llm/ollama"
)

func NewProvider(providerType, modelName, baseURL, geminiAPIKey string, timeout time.Duration) (llm.Provider, error) {
	switch providerType {
	case "gemini":
		if geminiAPIKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		return gemini.NewGeminiProvider(geminiAPIKey, modelName, timeout), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
