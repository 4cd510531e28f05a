package chunker

import (
	"regexp"
	"strings"

	"prodesk-chatbot/internal/models"
)

const (
	defaultMaxSize = 1000
	defaultOverlap = 100
)

// Chunker splits documents into bounded-size chunks. Consecutive chunks
// from the same document share `overlap` trailing/leading characters so
// that context crossing a split boundary stays retrievable.
type Chunker struct {
	maxSize int
	overlap int
}

func New(maxSize, overlap int) *Chunker {
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxSize {
		overlap = maxSize / 2
	}
	return &Chunker{maxSize: maxSize, overlap: overlap}
}

var sentenceRe = regexp.MustCompile(`[^.!?\n]+[.!?\n]+|[^.!?\n]+`)

// Chunk splits a document's content on sentence boundaries, falling back
// to raw character windows for oversized sentences. Output is
// deterministic: the same document and parameters always produce the same
// sequence. Empty content yields no chunks.
func (c *Chunker) Chunk(doc models.KnowledgeDocument) []models.Chunk {
	text := strings.TrimSpace(doc.Content)
	if text == "" {
		return nil
	}
	if len(text) <= c.maxSize {
		return []models.Chunk{{Text: text, Source: doc.Source, Index: 0}}
	}

	// Segments must leave room for the seeded overlap prefix plus a
	// joining space in every chunk after the first.
	budget := c.maxSize - c.overlap - 1
	if budget < 1 {
		budget = 1
	}
	segments := splitSegments(text, budget)

	var pieces []string
	var cur string
	for _, seg := range segments {
		if cur == "" {
			cur = seg
			continue
		}
		if len(cur)+1+len(seg) > c.maxSize {
			pieces = append(pieces, cur)
			cur = tail(cur, c.overlap)
			if cur == "" {
				cur = seg
				continue
			}
		}
		cur += " " + seg
	}
	if cur != "" {
		pieces = append(pieces, cur)
	}

	chunks := make([]models.Chunk, 0, len(pieces))
	for i, p := range pieces {
		chunks = append(chunks, models.Chunk{Text: p, Source: doc.Source, Index: i})
	}
	return chunks
}

// splitSegments breaks text into trimmed sentences, hard-splitting any
// sentence longer than max into raw character windows.
func splitSegments(text string, max int) []string {
	var segments []string
	for _, s := range sentenceRe.FindAllString(text, -1) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		for len(s) > max {
			segments = append(segments, s[:max])
			s = strings.TrimSpace(s[max:])
		}
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func tail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
