package vectorindex

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"prodesk-chatbot/internal/embedding"
	"prodesk-chatbot/internal/models"
)

// ErrIndexUnavailable reports that no built index is present. Callers are
// expected to fail over to the lexical strategy, never to surface this.
var ErrIndexUnavailable = errors.New("vector index unavailable")

// Result pairs a chunk with its cosine similarity to the query.
type Result struct {
	Chunk      models.Chunk
	Similarity float32
}

// Index is an embedding-based similarity index over document chunks,
// backed by a chromem-go store persisted at a configured path. The live
// collection reference is swapped atomically on rebuild so concurrent
// readers never observe a partially built index.
type Index struct {
	mu         sync.RWMutex
	db         *chromem.DB
	collection *chromem.Collection

	name     string
	embedder embedding.Embedder
}

// Open prepares the store at path and adopts a previously persisted
// collection when one is present. A corrupt or unreadable store is not an
// error: the index falls back to a fresh in-memory database and reports
// not-ready until the next Build.
func Open(path, collectionName string, inMemory bool, embedder embedding.Embedder) *Index {
	ix := &Index{name: collectionName, embedder: embedder}

	if inMemory {
		ix.db = chromem.NewDB()
	} else {
		db, err := chromem.NewPersistentDB(path, false)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("vector store unreadable, rebuilding in memory")
			ix.db = chromem.NewDB()
		} else {
			ix.db = db
		}
	}

	if c := ix.db.GetCollection(collectionName, ix.embedText); c != nil && c.Count() > 0 {
		ix.collection = c
		log.Info().Int("chunks", c.Count()).Msg("vector index loaded from store")
	}
	return ix
}

func (ix *Index) embedText(ctx context.Context, text string) ([]float32, error) {
	return ix.embedder.EmbedQuery(ctx, text)
}

// Build embeds every chunk and replaces the collection wholesale. If the
// embedding provider is unreachable the build fails before the previous
// collection is touched and the error is returned; retrieval then detects
// the absent or stale index through Ready.
func (ix *Index) Build(ctx context.Context, chunks []models.Chunk) error {
	docs := make([]chromem.Document, 0, len(chunks))
	for _, ch := range chunks {
		if ch.Text == "" {
			continue
		}
		vec, err := ix.embedder.EmbedQuery(ctx, ch.Text)
		if err != nil {
			return fmt.Errorf("embedding chunk %s-%d: %w", ch.Source, ch.Index, err)
		}
		docs = append(docs, chromem.Document{
			ID:      fmt.Sprintf("%s-%d", ch.Source, ch.Index),
			Content: ch.Text,
			Metadata: map[string]string{
				"source": ch.Source,
				"chunk":  strconv.Itoa(ch.Index),
			},
			Embedding: vec,
		})
	}

	if err := ix.db.DeleteCollection(ix.name); err != nil {
		return fmt.Errorf("dropping collection: %w", err)
	}
	c, err := ix.db.CreateCollection(ix.name, nil, ix.embedText)
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}
	if len(docs) > 0 {
		if err := c.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
			return fmt.Errorf("adding documents: %w", err)
		}
	}

	ix.mu.Lock()
	ix.collection = c
	ix.mu.Unlock()
	log.Info().Int("chunks", len(docs)).Msg("vector index built")
	return nil
}

// Search embeds the query and returns the k nearest chunks by cosine
// similarity, best first. ErrIndexUnavailable when no index is built;
// embedding provider failures propagate wrapped.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]Result, error) {
	ix.mu.RLock()
	c := ix.collection
	ix.mu.RUnlock()
	if c == nil || c.Count() == 0 {
		return nil, ErrIndexUnavailable
	}

	vec, err := ix.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if k <= 0 {
		k = 3
	}
	if n := c.Count(); k > n {
		k = n
	}
	found, err := c.QueryEmbedding(ctx, vec, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying vector store: %w", err)
	}

	results := make([]Result, 0, len(found))
	for _, r := range found {
		idx, _ := strconv.Atoi(r.Metadata["chunk"])
		results = append(results, Result{
			Chunk:      models.Chunk{Text: r.Content, Source: r.Metadata["source"], Index: idx},
			Similarity: r.Similarity,
		})
	}
	return results, nil
}

// Ready reports whether a built index is available for querying.
func (ix *Index) Ready() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.collection != nil && ix.collection.Count() > 0
}
