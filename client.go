// Package legalrag assembles the legal document RAG pipeline: structure
// aware chunking, citation-safe compression, vector retrieval, and answer
// synthesis.
package legalrag

import (
	"context"
	"fmt"

	"github.com/caselaw-ai/legalrag/compress"
	"github.com/caselaw-ai/legalrag/config"
	"github.com/caselaw-ai/legalrag/embedding"
	"github.com/caselaw-ai/legalrag/ingest"
	"github.com/caselaw-ai/legalrag/llm"
	"github.com/caselaw-ai/legalrag/orchestrator"
	"github.com/caselaw-ai/legalrag/retriever"
	"github.com/caselaw-ai/legalrag/schema"
	"github.com/caselaw-ai/legalrag/tokens"
	"github.com/caselaw-ai/legalrag/vectordb"
)

const maxListChunkRowCount = 1000

// Client owns the wired pipeline. Construct with NewClient, release with
// Close.
type Client struct {
	config            *config.Config
	embeddingProvider embedding.Provider
	vectordbProvider  vectordb.VectorStoreProvider
	llmProvider       llm.Provider
	counter           tokens.Counter
	pipeline          *ingest.Pipeline
	orch              *orchestrator.Orchestrator
}

// NewClient wires every component from configuration.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{config: cfg, counter: tokens.NewCounter()}

	base, err := embedding.NewProvider(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("create embedding provider: %w", err)
	}
	embeddingProvider := embedding.Provider(embedding.NewCachedProvider(base, 0, 0))
	c.embeddingProvider = embeddingProvider

	llmProvider, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("create llm provider: %w", err)
	}
	c.llmProvider = llmProvider

	dim := cfg.Embedding.Dimensions
	if dim == 0 {
		dim = 1536
	}
	store, err := vectordb.NewProvider(ctx, cfg.VectorDB, dim)
	if err != nil {
		return nil, fmt.Errorf("create vector store provider: %w", err)
	}
	c.vectordbProvider = store

	c.pipeline = &ingest.Pipeline{
		Embed:   embeddingProvider,
		Store:   store,
		Chunker: cfg.Chunker,
	}

	primary := compress.New(cfg.Compression, cfg.HTTP, c.counter)
	c.orch = &orchestrator.Orchestrator{
		Retriever: &retriever.VectorRetriever{
			Embed:     embeddingProvider,
			Store:     store,
			TopK:      cfg.RAG.TopK,
			Threshold: cfg.RAG.Threshold,
		},
		LLM:         llmProvider,
		Compressor:  primary,
		Fallback:    compress.NewFallbackCompressor(c.counter),
		Counter:     c.counter,
		TopK:        cfg.RAG.TopK,
		Threshold:   cfg.RAG.Threshold,
		TargetRatio: cfg.Compression.TargetRatio,
	}
	return c, nil
}

// Query answers a free-form question over the indexed corpus.
func (c *Client) Query(ctx context.Context, question string) (*schema.QueryResponse, error) {
	return c.orch.Query(ctx, question, nil)
}

// AnalyzeCase produces a structured analysis of one case.
func (c *Client) AnalyzeCase(ctx context.Context, caseName string) (*schema.QueryResponse, error) {
	return c.orch.AnalyzeCase(ctx, caseName)
}

// CompareCases produces a comparative analysis of two cases.
func (c *Client) CompareCases(ctx context.Context, case1, case2 string) (*schema.QueryResponse, error) {
	return c.orch.CompareCases(ctx, case1, case2)
}

// FindPrecedents surveys the corpus for precedents on a legal issue.
func (c *Client) FindPrecedents(ctx context.Context, legalIssue string) (*schema.QueryResponse, error) {
	return c.orch.FindPrecedents(ctx, legalIssue)
}

// IngestDocument chunks, embeds, and indexes one document.
func (c *Client) IngestDocument(ctx context.Context, doc schema.Document) (*ingest.Report, error) {
	return c.pipeline.IngestDocument(ctx, doc)
}

// IngestDocuments indexes several documents concurrently.
func (c *Client) IngestDocuments(ctx context.Context, docs []schema.Document) ([]*ingest.Report, error) {
	return c.pipeline.IngestDocuments(ctx, docs)
}

// ListChunks lists indexed chunks, optionally restricted to one document.
func (c *Client) ListChunks(ctx context.Context, documentID string) ([]schema.SearchResult, error) {
	return c.vectordbProvider.ListDocs(ctx, documentID, maxListChunkRowCount)
}

// DeleteChunk removes one chunk from the index.
func (c *Client) DeleteChunk(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("chunk id is required")
	}
	return c.vectordbProvider.DeleteDocs(ctx, []string{id})
}

// SearchChunks exposes raw retrieval without answer synthesis.
func (c *Client) SearchChunks(ctx context.Context, query string, topK int, threshold float64) ([]schema.SearchResult, error) {
	v, err := c.embeddingProvider.GetEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = c.config.RAG.TopK
	}
	return c.vectordbProvider.SearchDocs(ctx, v, &schema.SearchOptions{TopK: topK, Threshold: threshold})
}

// Close releases backend connections.
func (c *Client) Close() error {
	return c.vectordbProvider.Close()
}
