package lexical

import (
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"prodesk-chatbot/internal/models"
)

const (
	defaultTopK            = 3
	defaultMaxContextChars = 800
)

type entry struct {
	source  string
	content string
	lowered string
}

// Result pairs a corpus entry with its keyword-overlap score.
type Result struct {
	Source  string
	Content string
	Score   int
}

// Index is a keyword-overlap scorer over whole corpus documents. It has
// no external dependencies and never fails, which makes it the always
// available retrieval strategy.
type Index struct {
	mu      sync.RWMutex
	entries []entry

	topK            int
	maxContextChars int
}

func New(topK, maxContextChars int) *Index {
	if topK <= 0 {
		topK = defaultTopK
	}
	if maxContextChars <= 0 {
		maxContextChars = defaultMaxContextChars
	}
	return &Index{topK: topK, maxContextChars: maxContextChars}
}

// Build replaces the index contents with the given corpus. The swap is
// atomic with respect to concurrent Search calls.
func (ix *Index) Build(docs []models.KnowledgeDocument) {
	entries := make([]entry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, entry{
			source:  d.Source,
			content: d.Content,
			lowered: strings.ToLower(d.Content),
		})
	}
	ix.mu.Lock()
	ix.entries = entries
	ix.mu.Unlock()
	log.Debug().Int("entries", len(entries)).Msg("lexical index built")
}

// Search scores every entry by the number of query terms appearing in its
// content. Terms are lowercase whitespace-delimited; a term repeated in
// the query counts once per repetition. Zero-score entries are excluded.
// Ties keep original ingestion order so rankings stay reproducible.
func (ix *Index) Search(query string, k int) []Result {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var scored []Result
	for _, e := range ix.entries {
		score := 0
		for _, t := range terms {
			if strings.Contains(e.lowered, t) {
				score++
			}
		}
		if score > 0 {
			scored = append(scored, Result{Source: e.source, Content: e.content, Score: score})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if k <= 0 {
		k = ix.topK
	}
	if k < len(scored) {
		scored = scored[:k]
	}
	return scored
}

// Context returns the top-k matching contents joined by a blank line and
// hard-truncated to the configured maximum. Truncation happens after
// concatenation and may cut mid-entry; that is an accepted lossy policy.
// An empty or no-match corpus yields an empty string, never an error.
func (ix *Index) Context(query string) string {
	results := ix.Search(query, ix.topK)
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, r.Content)
	}
	ctx := strings.Join(parts, "\n\n")
	if len(ctx) > ix.maxContextChars {
		ctx = ctx[:ix.maxContextChars]
	}
	return ctx
}

// Len reports the number of indexed entries.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}
