// Package llm adapts chat-completion services used for answer synthesis.
package llm

import (
	"context"
	"fmt"

	"github.com/caselaw-ai/legalrag/config"
)

// Provider generates a completion from an assembled prompt.
type Provider interface {
	GenerateCompletion(ctx context.Context, prompt string) (string, error)
	GetProviderType() string
}

// NewProvider builds the configured LLM provider.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return newOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
