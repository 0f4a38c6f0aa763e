package vectordb

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/caselaw-ai/legalrag/schema"
)

// MemoryStore is a process-local vector store using exact cosine search.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]Doc
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]Doc)}
}

func (s *MemoryStore) GetProviderType() string { return "memory" }

func (s *MemoryStore) AddDocs(_ context.Context, docs []Doc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		s.docs[d.ID] = d
	}
	return nil
}

func (s *MemoryStore) SearchDocs(_ context.Context, vector []float32, opts *schema.SearchOptions) ([]schema.SearchResult, error) {
	topK := 10
	threshold := 0.0
	var filter map[string]string
	if opts != nil {
		if opts.TopK > 0 {
			topK = opts.TopK
		}
		threshold = opts.Threshold
		filter = opts.Filter
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]schema.SearchResult, 0, len(s.docs))
	for _, d := range s.docs {
		if !matchesFilter(d.Metadata, filter) {
			continue
		}
		score := cosine(vector, d.Vector)
		if score < threshold {
			continue
		}
		results = append(results, schema.SearchResult{
			ChunkID:  d.ID,
			Text:     d.Content,
			Metadata: d.Metadata,
			Score:    score,
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func (s *MemoryStore) DeleteDocs(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.docs, id)
	}
	return nil
}

func (s *MemoryStore) ListDocs(_ context.Context, documentID string, limit int) ([]schema.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]schema.SearchResult, 0)
	for _, d := range s.docs {
		if documentID != "" && d.DocumentID != documentID {
			continue
		}
		results = append(results, schema.SearchResult{
			ChunkID:  d.ID,
			Text:     d.Content,
			Metadata: d.Metadata,
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].ChunkID < results[j].ChunkID })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *MemoryStore) Close() error { return nil }

func matchesFilter(metadata map[string]any, filter map[string]string) bool {
	for k, want := range filter {
		got, ok := metadata[k].(string)
		if !ok || got != want {
			return false
		}
	}
	return true
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
