// Package embedding adapts external embedding services behind one
// provider interface.
package embedding

import (
	"context"
	"fmt"

	"github.com/caselaw-ai/legalrag/config"
)

// Provider turns text into a vector.
type Provider interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
	GetProviderType() string
}

// NewProvider builds the configured embedding provider.
func NewProvider(cfg config.EmbeddingConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return newOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
