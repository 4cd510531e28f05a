package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKnowledgeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "knowledge.json")
	body := `[
		{"url": "https://prodesk.in/services", "content": "Prodesk offers software services", "source": "/services"},
		{"url": "https://prodesk.in/empty", "content": "   ", "source": "/empty"},
		{"url": "https://prodesk.in/about", "content": "About Prodesk", "source": ""}
	]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	docs, err := LoadKnowledgeFile(path)
	require.NoError(t, err)
	require.Len(t, docs, 2, "blank-content records are dropped")
	assert.Equal(t, "/services", docs[0].Source)
	assert.Equal(t, "Prodesk offers software services", docs[0].Content)
	assert.Equal(t, "https://prodesk.in/about", docs[1].Source, "source falls back to url")
}

func TestLoadKnowledgeFileMissing(t *testing.T) {
	_, err := LoadKnowledgeFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadKnowledgeFileMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "knowledge.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadKnowledgeFile(path)
	assert.Error(t, err)
}

func TestLoadCorpusDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "services.txt"),
		[]byte("Prodesk offers   software\nservices"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "about.md"),
		[]byte("# About\n\nProdesk is a software company.\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.bin"),
		[]byte{0x00, 0x01}, 0o644))

	docs, err := LoadCorpusDir(dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	bySource := map[string]string{}
	for _, d := range docs {
		bySource[d.Source] = d.Content
	}
	assert.Equal(t, "Prodesk offers software services", bySource["/services.txt"],
		"whitespace runs are collapsed")
	assert.Contains(t, bySource["/about.md"], "Prodesk is a software company.")
	assert.NotContains(t, bySource["/about.md"], "#", "markdown syntax is stripped")
}

func TestLoadCorpusDirEmpty(t *testing.T) {
	_, err := LoadCorpusDir(t.TempDir())
	assert.ErrorIs(t, err, ErrNoDocuments)
}
