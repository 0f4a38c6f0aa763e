package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidate_Chunker(t *testing.T) {
	cfg := Default()
	cfg.Chunker.MaxChars = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunker.max_chars")

	cfg = Default()
	cfg.Chunker.OverlapChars = cfg.Chunker.MaxChars
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunker.overlap_chars")
}

func TestValidate_Compression(t *testing.T) {
	cfg := Default()
	cfg.Compression.Method = "magic"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compression.method")

	cfg = Default()
	cfg.Compression.TargetRatio = 0
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compression.target_ratio")

	cfg = Default()
	cfg.Compression.TargetRatio = 1.2
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Compression.Method = "delegated"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compression.endpoint")

	cfg.Compression.Endpoint = "http://lingua.internal/prune"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RAG(t *testing.T) {
	cfg := Default()
	cfg.RAG.TopK = 0
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.RAG.Threshold = 1.5
	require.Error(t, cfg.Validate())
}

func TestValidate_VectorDB(t *testing.T) {
	cfg := Default()
	cfg.VectorDB.Provider = "milvus"
	cfg.VectorDB.Host = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vectordb.host")

	cfg.VectorDB.Host = "localhost"
	cfg.VectorDB.Collection = "legal_documents"
	assert.NoError(t, cfg.Validate())

	cfg = Default()
	cfg.VectorDB.Provider = "chalkboard"
	require.Error(t, cfg.Validate())
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Chunker.MaxChars = -1
	cfg.RAG.TopK = 0
	cfg.Compression.TargetRatio = 2

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.True(t, strings.Contains(msg, "chunker.max_chars") &&
		strings.Contains(msg, "rag.top_k") &&
		strings.Contains(msg, "compression.target_ratio"), msg)
}
