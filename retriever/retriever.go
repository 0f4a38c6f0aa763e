// Package retriever defines the search interface between the pipeline and
// the vector store.
package retriever

import (
	"context"

	"github.com/caselaw-ai/legalrag/schema"
)

// Retriever defines a unified search interface across backends.
type Retriever interface {
	Type() string
	Search(ctx context.Context, query string, opts *schema.SearchOptions) ([]schema.SearchResult, error)
}
