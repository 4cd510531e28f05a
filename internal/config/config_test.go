package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
gen_llm:
  key: "Bearer test"
rag:
  chunk_size: 500
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test", cfg.GenLLM.Key)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.GenLLM.Model)
	assert.Equal(t, 0.7, cfg.GenLLM.Temperature)
	assert.Equal(t, 200, cfg.GenLLM.MaxTokens)
	assert.Equal(t, 10, cfg.GenLLM.TimeoutSecs)

	assert.Equal(t, 500, cfg.RAG.ChunkSize)
	assert.Equal(t, 100, cfg.RAG.ChunkOverlap)
	assert.Equal(t, 3, cfg.RAG.TopK)
	assert.Equal(t, 800, cfg.RAG.MaxContextChars)
	assert.Equal(t, "prodesk_knowledge", cfg.RAG.Collection)

	assert.Equal(t, 1000, cfg.Sessions.Capacity)
	assert.Equal(t, "ollama", cfg.EmbedLLM.Provider)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rag: ["), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
