package retriever

import (
	"context"

	"github.com/caselaw-ai/legalrag/embedding"
	"github.com/caselaw-ai/legalrag/schema"
	"github.com/caselaw-ai/legalrag/vectordb"
)

// VectorRetriever implements Retriever on an embedding provider plus a
// vector store.
type VectorRetriever struct {
	Embed embedding.Provider
	Store vectordb.VectorStoreProvider
	// Defaults applied when the caller leaves SearchOptions fields unset.
	TopK      int
	Threshold float64
}

func (r *VectorRetriever) Type() string { return "vector" }

func (r *VectorRetriever) Search(ctx context.Context, query string, opts *schema.SearchOptions) ([]schema.SearchResult, error) {
	eff := schema.SearchOptions{TopK: r.TopK, Threshold: r.Threshold}
	if eff.TopK <= 0 {
		eff.TopK = 10
	}
	if opts != nil {
		if opts.TopK > 0 {
			eff.TopK = opts.TopK
		}
		if opts.Threshold > 0 {
			eff.Threshold = opts.Threshold
		}
		eff.Filter = opts.Filter
	}
	v, err := r.Embed.GetEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.Store.SearchDocs(ctx, v, &eff)
}
