package vectordb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caselaw-ai/legalrag/schema"
)

func seedDocs() []Doc {
	return []Doc{
		{ID: "d1:0", DocumentID: "d1", Content: "holding text", Vector: []float32{1, 0, 0},
			Metadata: map[string]any{"case_name": "Alpha v. Beta", "section": "HOLDING"}},
		{ID: "d1:1", DocumentID: "d1", Content: "background text", Vector: []float32{0.9, 0.1, 0},
			Metadata: map[string]any{"case_name": "Alpha v. Beta", "section": "BACKGROUND"}},
		{ID: "d2:0", DocumentID: "d2", Content: "other case", Vector: []float32{0, 1, 0},
			Metadata: map[string]any{"case_name": "Gamma v. Delta", "section": "ANALYSIS"}},
	}
}

func TestMemoryStore_SearchRanking(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.AddDocs(ctx, seedDocs()))

	results, err := s.SearchDocs(ctx, []float32{1, 0, 0}, &schema.SearchOptions{TopK: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "d1:0", results[0].ChunkID)
	assert.Equal(t, "d1:1", results[1].ChunkID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestMemoryStore_Threshold(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.AddDocs(ctx, seedDocs()))

	// cosine((1,0,0),(0.9,0.1,0)) is about 0.994, so the cutoff must sit
	// above it to keep only the exact match
	results, err := s.SearchDocs(ctx, []float32{1, 0, 0}, &schema.SearchOptions{TopK: 10, Threshold: 0.995})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "d1:0", results[0].ChunkID)
}

func TestMemoryStore_MetadataFilter(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.AddDocs(ctx, seedDocs()))

	results, err := s.SearchDocs(ctx, []float32{1, 0, 0}, &schema.SearchOptions{
		TopK:   10,
		Filter: map[string]string{"case_name": "Gamma v. Delta"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "d2:0", results[0].ChunkID)
}

func TestMemoryStore_DeleteAndList(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.AddDocs(ctx, seedDocs()))

	require.NoError(t, s.DeleteDocs(ctx, []string{"d1:1"}))

	all, err := s.ListDocs(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	d1, err := s.ListDocs(ctx, "d1", 0)
	require.NoError(t, err)
	require.Len(t, d1, 1)
	assert.Equal(t, "d1:0", d1[0].ChunkID)
}

func TestMemoryStore_UpsertOverwrites(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.AddDocs(ctx, seedDocs()))
	require.NoError(t, s.AddDocs(ctx, []Doc{
		{ID: "d1:0", DocumentID: "d1", Content: "rewritten", Vector: []float32{1, 0, 0}},
	}))

	all, err := s.ListDocs(ctx, "d1", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "rewritten", all[0].Text)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosine([]float32{1, 2}, []float32{1, 2, 3}))
	assert.Equal(t, 0.0, cosine(nil, nil))
}
