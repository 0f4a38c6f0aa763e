package config

import (
	"github.com/caselaw-ai/legalrag/common/httpx"
	"github.com/caselaw-ai/legalrag/common/logger"
)

// Config is the top-level configuration for the legalrag pipeline.
// Components receive the relevant sub-config as an explicit value; nothing
// reads ambient process state.
type Config struct {
	RAG         RAGConfig         `json:"rag" yaml:"rag"`
	Chunker     ChunkerConfig     `json:"chunker" yaml:"chunker"`
	Compression CompressionConfig `json:"compression" yaml:"compression"`
	LLM         LLMConfig         `json:"llm" yaml:"llm"`
	Embedding   EmbeddingConfig   `json:"embedding" yaml:"embedding"`
	VectorDB    VectorDBConfig    `json:"vectordb" yaml:"vectordb"`
	Log         logger.Config     `json:"log,omitempty" yaml:"log,omitempty"`
	// HTTP holds defaults for outbound calls (delegated compressor).
	HTTP *httpx.ClientConfig `json:"http,omitempty" yaml:"http,omitempty"`
}

// RAGConfig contains retrieval settings.
type RAGConfig struct {
	TopK      int     `json:"top_k,omitempty" yaml:"top_k,omitempty"`
	Threshold float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`
}

// ChunkerConfig configures document segmentation.
type ChunkerConfig struct {
	MaxChars     int `json:"max_chars,omitempty" yaml:"max_chars,omitempty"`
	OverlapChars int `json:"overlap_chars,omitempty" yaml:"overlap_chars,omitempty"`
}

// CompressionConfig configures the compression layer.
// Method selects the primary strategy: "delegated" forwards guarded text to
// an external importance-scoring service, "fallback" uses the built-in
// extractive compressor directly.
type CompressionConfig struct {
	Method      string  `json:"method,omitempty" yaml:"method,omitempty"`
	TargetRatio float64 `json:"target_ratio,omitempty" yaml:"target_ratio,omitempty"`
	// Tolerance allows the delegated compressor to exceed TargetRatio by
	// this much when re-inserting force-preserved legal terms.
	Tolerance float64           `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
	Endpoint  string            `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// LLMConfig defines the generative model used for answer synthesis.
type LLMConfig struct {
	Provider    string  `json:"provider" yaml:"provider"` // openai (or any openai-compatible endpoint)
	APIKey      string  `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL     string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
}

// EmbeddingConfig defines the embedding model.
type EmbeddingConfig struct {
	Provider   string `json:"provider" yaml:"provider"`
	APIKey     string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL    string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model      string `json:"model,omitempty" yaml:"model,omitempty"`
	Dimensions int    `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
}

// VectorDBConfig defines the vector store backend.
type VectorDBConfig struct {
	Provider   string `json:"provider" yaml:"provider"` // milvus, memory
	Host       string `json:"host,omitempty" yaml:"host,omitempty"`
	Port       int    `json:"port,omitempty" yaml:"port,omitempty"`
	Database   string `json:"database,omitempty" yaml:"database,omitempty"`
	Collection string `json:"collection,omitempty" yaml:"collection,omitempty"`
	Username   string `json:"username,omitempty" yaml:"username,omitempty"`
	Password   string `json:"password,omitempty" yaml:"password,omitempty"`
}

// Default returns a configuration with workable defaults for everything
// that has a sensible one. Provider credentials must still be supplied.
func Default() *Config {
	return &Config{
		RAG: RAGConfig{
			TopK:      10,
			Threshold: 0.5,
		},
		Chunker: ChunkerConfig{
			MaxChars:     1000,
			OverlapChars: 200,
		},
		Compression: CompressionConfig{
			Method:      "fallback",
			TargetRatio: 0.5,
			Tolerance:   0.05,
		},
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o",
			Temperature: 0.1,
			MaxTokens:   2000,
		},
		Embedding: EmbeddingConfig{
			Provider: "openai",
			Model:    "text-embedding-3-small",
		},
		VectorDB: VectorDBConfig{
			Provider:   "memory",
			Collection: "legal_documents",
		},
	}
}
