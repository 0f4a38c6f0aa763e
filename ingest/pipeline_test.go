package ingest

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/caselaw-ai/legalrag/config"
	"github.com/caselaw-ai/legalrag/schema"
	"github.com/caselaw-ai/legalrag/vectordb"
)

type stubEmbedder struct {
	calls atomic.Int64
	fail  bool
}

func (s *stubEmbedder) GetProviderType() string { return "stub" }

func (s *stubEmbedder) GetEmbedding(_ context.Context, text string) ([]float32, error) {
	s.calls.Add(1)
	if s.fail {
		return nil, fmt.Errorf("embedding backend down")
	}
	// deterministic toy embedding keyed on length
	return []float32{float32(len(text)), 1, 0}, nil
}

func testPipeline(embed *stubEmbedder) (*Pipeline, *vectordb.MemoryStore) {
	store := vectordb.NewMemoryStore()
	return &Pipeline{
		Embed:   embed,
		Store:   store,
		Chunker: config.ChunkerConfig{MaxChars: 200, OverlapChars: 40},
	}, store
}

func TestIngestDocument(t *testing.T) {
	p, store := testPipeline(&stubEmbedder{})
	rep, err := p.IngestDocument(context.Background(), schema.Document{ID: "op-1", RawText: sampleOpinion})
	if err != nil {
		t.Fatal(err)
	}
	if rep.DocumentID != "op-1" {
		t.Errorf("document id = %q", rep.DocumentID)
	}
	if rep.ChunkCount == 0 {
		t.Fatal("no chunks reported")
	}
	if !strings.HasPrefix(rep.Metadata.CaseName, "SMITH v. JONES") {
		t.Errorf("metadata case name = %q", rep.Metadata.CaseName)
	}

	stored, err := store.ListDocs(context.Background(), "op-1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != rep.ChunkCount {
		t.Errorf("stored %d chunks, report says %d", len(stored), rep.ChunkCount)
	}
	for _, s := range stored {
		if s.Metadata["document_id"] != "op-1" {
			t.Errorf("chunk %s missing document_id metadata", s.ChunkID)
		}
	}
}

func TestIngestDocument_GeneratesID(t *testing.T) {
	p, _ := testPipeline(&stubEmbedder{})
	rep, err := p.IngestDocument(context.Background(), schema.Document{RawText: "Short document."})
	if err != nil {
		t.Fatal(err)
	}
	if rep.DocumentID == "" {
		t.Error("expected a generated document id")
	}
}

func TestIngestDocument_EmbedFailure(t *testing.T) {
	p, store := testPipeline(&stubEmbedder{fail: true})
	_, err := p.IngestDocument(context.Background(), schema.Document{ID: "x", RawText: "Some text."})
	if err == nil {
		t.Fatal("expected error from failed embedding")
	}
	stored, _ := store.ListDocs(context.Background(), "x", 0)
	if len(stored) != 0 {
		t.Errorf("failed ingest must not store chunks, found %d", len(stored))
	}
}

func TestIngestDocuments_Concurrent(t *testing.T) {
	p, store := testPipeline(&stubEmbedder{})
	docs := make([]schema.Document, 5)
	for i := range docs {
		docs[i] = schema.Document{
			ID:      fmt.Sprintf("doc-%d", i),
			RawText: fmt.Sprintf("Document number %d about a contract dispute.", i),
		}
	}
	reports, err := p.IngestDocuments(context.Background(), docs)
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 5 {
		t.Fatalf("got %d reports", len(reports))
	}
	all, _ := store.ListDocs(context.Background(), "", 0)
	if len(all) != 5 {
		t.Errorf("stored %d chunks, want 5", len(all))
	}
}
