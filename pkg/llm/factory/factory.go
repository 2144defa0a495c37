package factory

import (
	"fmt"

	"ai-specdraft-be/pkg/llm"
	"ai-specdraft-be/pkg/llm/huggingface"
	"ai-specdraft-be/pkg/llm/ollama"
)

// NewProvider builds an llm.Provider from configuration values.
func NewProvider(providerType, modelName, ollamaBaseURL, hfAPIKey string) (llm.Provider, error) {
	switch providerType {
	case "ollama":
		if ollamaBaseURL == "" {
			ollamaBaseURL = "http://localhost:11434"
		}
		return ollama.NewProvider(ollamaBaseURL, modelName), nil
	case "huggingface":
		return huggingface.NewProvider(hfAPIKey, "", modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
