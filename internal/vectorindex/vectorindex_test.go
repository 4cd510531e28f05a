package vectorindex

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodesk-chatbot/internal/models"
)

// fakeEmbedder returns fixed unit vectors per known text so rankings are
// fully deterministic.
type fakeEmbedder struct {
	vecs map[string][]float32
	fail bool
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	if f.fail {
		return nil, errors.New("embedding provider unreachable")
	}
	if v, ok := f.vecs[text]; ok {
		return v, nil
	}
	return []float32{0, 0, 1}, nil
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{vecs: map[string][]float32{
		"Prodesk builds custom software platforms": {1, 0, 0},
		"Our office hours are nine to five":        {0, 1, 0},
		"what software do you build":               {0.8, 0.6, 0},
	}}
}

func testChunks() []models.Chunk {
	return []models.Chunk{
		{Text: "Prodesk builds custom software platforms", Source: "/services", Index: 0},
		{Text: "Our office hours are nine to five", Source: "/contact", Index: 0},
	}
}

func TestSearchRanksByCosineSimilarity(t *testing.T) {
	ix := Open("", "test_collection", true, newFakeEmbedder())
	require.NoError(t, ix.Build(context.Background(), testChunks()))
	require.True(t, ix.Ready())

	results, err := ix.Search(context.Background(), "what software do you build", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "/services", results[0].Chunk.Source)
	assert.Equal(t, "/contact", results[1].Chunk.Source)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
}

func TestSearchWithoutBuildReportsUnavailable(t *testing.T) {
	ix := Open("", "test_collection", true, newFakeEmbedder())
	assert.False(t, ix.Ready())

	_, err := ix.Search(context.Background(), "anything", 3)
	assert.ErrorIs(t, err, ErrIndexUnavailable)
}

func TestBuildFailsWhenProviderUnreachable(t *testing.T) {
	emb := newFakeEmbedder()
	emb.fail = true
	ix := Open("", "test_collection", true, emb)

	err := ix.Build(context.Background(), testChunks())
	require.Error(t, err)
	assert.False(t, ix.Ready(), "failed build must leave the index absent")
}

func TestQueryTimeProviderOutagePropagates(t *testing.T) {
	emb := newFakeEmbedder()
	ix := Open("", "test_collection", true, emb)
	require.NoError(t, ix.Build(context.Background(), testChunks()))

	emb.fail = true
	_, err := ix.Search(context.Background(), "what software do you build", 2)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrIndexUnavailable)
}

func TestRebuildIsIdempotent(t *testing.T) {
	ix := Open("", "test_collection", true, newFakeEmbedder())
	require.NoError(t, ix.Build(context.Background(), testChunks()))
	first, err := ix.Search(context.Background(), "what software do you build", 2)
	require.NoError(t, err)

	require.NoError(t, ix.Build(context.Background(), testChunks()))
	second, err := ix.Search(context.Background(), "what software do you build", 2)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPersistedIndexIsAdoptedOnReopen(t *testing.T) {
	dir := t.TempDir()
	emb := newFakeEmbedder()

	ix := Open(dir, "test_collection", false, emb)
	require.NoError(t, ix.Build(context.Background(), testChunks()))

	reopened := Open(dir, "test_collection", false, emb)
	require.True(t, reopened.Ready(), "persisted collection should be adopted without a rebuild")

	results, err := reopened.Search(context.Background(), "what software do you build", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "/services", results[0].Chunk.Source)
}

func TestCorruptStoreFallsBackToMemory(t *testing.T) {
	dir := t.TempDir()
	// A regular file where the store directory should be makes the
	// persistent open fail.
	filePath := filepath.Join(dir, "store")
	require.NoError(t, os.WriteFile(filePath, []byte("not a vector store"), 0o644))

	ix := Open(filePath, "test_collection", false, newFakeEmbedder())
	assert.False(t, ix.Ready())

	// The in-memory fallback is still fully usable.
	require.NoError(t, ix.Build(context.Background(), testChunks()))
	assert.True(t, ix.Ready())
}
