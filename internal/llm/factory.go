package llm

import (
	"fmt"
	"strings"
)

// Supported providers.
const (
	ProviderOllama   = "ollama"
	ProviderLMStudio = "lmstudio"
	ProviderOpenAI   = "openai"
)

// NewClient creates an LLM client based on provider configuration.
func NewClient(provider, model, baseURL string) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderOllama:
		return NewOllamaClient(model, baseURL)
	case ProviderLMStudio, "lm-studio":
		return NewLMStudioClient(model, baseURL)
	case ProviderOpenAI:
		return NewOpenAIClient(model, baseURL)
	case "":
		return nil, fmt.Errorf("no LLM provider configured")
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
