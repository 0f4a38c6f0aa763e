// Package vectordb provides vector store backends behind one provider
// interface. Milvus is the production backend; the in-memory store exists
// for tests and small corpora.
package vectordb

import (
	"context"
	"fmt"

	"github.com/caselaw-ai/legalrag/config"
	"github.com/caselaw-ai/legalrag/schema"
)

// Doc is a stored unit: one chunk with its embedding.
type Doc struct {
	ID         string
	DocumentID string
	Content    string
	Metadata   map[string]any
	Vector     []float32
}

// VectorStoreProvider abstracts the vector store backend.
type VectorStoreProvider interface {
	GetProviderType() string
	AddDocs(ctx context.Context, docs []Doc) error
	SearchDocs(ctx context.Context, vector []float32, opts *schema.SearchOptions) ([]schema.SearchResult, error)
	DeleteDocs(ctx context.Context, ids []string) error
	ListDocs(ctx context.Context, documentID string, limit int) ([]schema.SearchResult, error)
	Close() error
}

// NewProvider builds the configured vector store.
func NewProvider(ctx context.Context, cfg config.VectorDBConfig, dim int) (VectorStoreProvider, error) {
	switch cfg.Provider {
	case "milvus":
		return newMilvusStore(ctx, cfg, dim)
	case "memory", "":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported vectordb provider: %s", cfg.Provider)
	}
}
