package ingest

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/caselaw-ai/legalrag/chunker"
	"github.com/caselaw-ai/legalrag/common/logger"
	"github.com/caselaw-ai/legalrag/config"
	"github.com/caselaw-ai/legalrag/embedding"
	"github.com/caselaw-ai/legalrag/schema"
	"github.com/caselaw-ai/legalrag/section"
	"github.com/caselaw-ai/legalrag/vectordb"
)

// Pipeline runs the full ingestion path: metadata extraction, section
// detection, chunking, embedding, and storage.
type Pipeline struct {
	Embed   embedding.Provider
	Store   vectordb.VectorStoreProvider
	Chunker config.ChunkerConfig
}

// Report summarizes one ingested document.
type Report struct {
	DocumentID string          `json:"document_id"`
	ChunkCount int             `json:"chunk_count"`
	Metadata   schema.Metadata `json:"metadata"`
}

// IngestDocument processes one document end to end. A missing document ID
// gets a generated one.
func (p *Pipeline) IngestDocument(ctx context.Context, doc schema.Document) (*Report, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	meta := ExtractMetadata(doc)
	sections := section.Detect(doc.RawText)
	chunks, err := chunker.Chunk(doc, meta, sections, p.Chunker)
	if err != nil {
		return nil, err
	}

	docs := make([]vectordb.Doc, 0, len(chunks))
	for _, c := range chunks {
		v, err := p.Embed.GetEmbedding(ctx, c.Text)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %s: %w", c.ID, err)
		}
		docs = append(docs, vectordb.Doc{
			ID:         c.ID,
			DocumentID: c.DocumentID,
			Content:    c.Text,
			Metadata:   c.Metadata,
			Vector:     v,
		})
	}
	if err := p.Store.AddDocs(ctx, docs); err != nil {
		return nil, fmt.Errorf("store chunks for %s: %w", doc.ID, err)
	}
	logger.Infof("ingested document %s: %d chunks, case=%q", doc.ID, len(chunks), meta.CaseName)
	return &Report{DocumentID: doc.ID, ChunkCount: len(chunks), Metadata: meta}, nil
}

// IngestDocuments processes documents concurrently. All documents are
// attempted; the first error (if any) is returned alongside the reports
// that succeeded.
func (p *Pipeline) IngestDocuments(ctx context.Context, docs []schema.Document) ([]*Report, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		reports  []*Report
		firstErr error
	)
	for _, d := range docs {
		doc := d
		wg.Add(1)
		go func() {
			defer wg.Done()
			rep, err := p.IngestDocument(ctx, doc)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Errorf("ingest %s failed: %v", doc.ID, err)
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			reports = append(reports, rep)
		}()
	}
	wg.Wait()
	return reports, firstErr
}
