package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
rag:
  top_k: 5
  threshold: 0.7
chunker:
  max_chars: 800
compression:
  method: delegated
  target_ratio: 0.4
  endpoint: http://lingua.internal/prune
vectordb:
  provider: memory
  collection: test_docs
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.RAG.TopK)
	assert.Equal(t, 0.7, cfg.RAG.Threshold)
	assert.Equal(t, 800, cfg.Chunker.MaxChars)
	assert.Equal(t, "delegated", cfg.Compression.Method)
	assert.Equal(t, 0.4, cfg.Compression.TargetRatio)
	// untouched fields keep defaults
	assert.Equal(t, 200, cfg.Chunker.OverlapChars)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	_, err := Load(writeConfig(t, "chunker:\n  max_chars: -5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunker.max_chars")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_EnvKeyFillsBlanks(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "sk-test", cfg.Embedding.APIKey)
}

func TestLoad_FileKeyWins(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	cfg, err := Load(writeConfig(t, sampleYAML+"llm:\n  provider: openai\n  model: gpt-4o\n  api_key: sk-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "sk-file", cfg.LLM.APIKey)
}
