package rag

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"prodesk-chatbot/internal/fallback"
	"prodesk-chatbot/internal/llmservice"
	"prodesk-chatbot/internal/models"
	"prodesk-chatbot/internal/session"
	"prodesk-chatbot/internal/vectorindex"
)

// Strategy names the retrieval path that produced a grounding context.
type Strategy string

const (
	StrategyVector  Strategy = "vector"
	StrategyLexical Strategy = "lexical"
	StrategyNone    Strategy = "none"
)

// Retrieval is the outcome of one retrieval attempt. Reason is set when a
// preferred strategy was skipped or failed, making the degradation chain
// explicit instead of hiding it in suppressed errors.
type Retrieval struct {
	Context  string
	Strategy Strategy
	Reason   string
}

// VectorSearcher is the vector retrieval capability. Ready is a static
// health check: strategy selection is not a per-query cost decision.
type VectorSearcher interface {
	Ready() bool
	Search(ctx context.Context, query string, k int) ([]vectorindex.Result, error)
}

// LexicalSearcher is the always-available keyword retrieval capability.
type LexicalSearcher interface {
	Context(query string) string
	Len() int
}

// TurnSink receives appended turns for durable logging. The orchestrator
// treats it as best-effort: sink failures are logged and swallowed.
type TurnSink interface {
	Record(ctx context.Context, sessionID string, turn models.SessionTurn) error
}

const lockStripes = 64

// Orchestrator answers queries by combining retrieval, session history,
// and generation, degrading through vector -> lexical -> canned fallback.
// It never returns an error to the caller: every failure path ends in a
// best-effort textual answer.
type Orchestrator struct {
	vector    VectorSearcher
	lexical   LexicalSearcher
	generator llmservice.Generator
	memory    *session.Memory
	sink      TurnSink

	topK            int
	maxContextChars int

	// Queries for the same session are serialized so concurrent turns
	// cannot interleave in memory; distinct sessions run independently.
	locks [lockStripes]sync.Mutex
}

// Options carries the optional collaborators and tuning knobs.
type Options struct {
	Vector          VectorSearcher
	Sink            TurnSink
	TopK            int
	MaxContextChars int
}

func New(lexical LexicalSearcher, generator llmservice.Generator, memory *session.Memory, opts Options) *Orchestrator {
	if opts.TopK <= 0 {
		opts.TopK = 3
	}
	if opts.MaxContextChars <= 0 {
		opts.MaxContextChars = 800
	}
	return &Orchestrator{
		vector:          opts.Vector,
		lexical:         lexical,
		generator:       generator,
		memory:          memory,
		sink:            opts.Sink,
		topK:            opts.TopK,
		maxContextChars: opts.MaxContextChars,
	}
}

// Answer is the sole externally invoked operation of the core. It always
// returns text, and it always appends the (user, assistant) turn pair to
// the session history, in that order, even when the answer came from the
// fallback responder.
func (o *Orchestrator) Answer(ctx context.Context, query, sessionID string) string {
	lock := o.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	history := o.memory.History(sessionID)
	ret := o.retrieve(ctx, query)
	if ret.Reason != "" {
		log.Warn().
			Str("session_id", sessionID).
			Str("strategy", string(ret.Strategy)).
			Str("reason", ret.Reason).
			Msg("retrieval degraded")
	}

	answer, err := o.generator.Complete(ctx, llmservice.Request{
		System:  models.SystemPrompt,
		Context: ret.Context,
		History: history,
		Query:   query,
	})
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("generation unavailable, answering from fallback")
		answer = fallback.Respond(query)
	}

	now := time.Now()
	o.append(ctx, sessionID, models.SessionTurn{Role: models.RoleUser, Text: query, Timestamp: now})
	o.append(ctx, sessionID, models.SessionTurn{Role: models.RoleAssistant, Text: answer, Timestamp: now})
	return answer
}

// retrieve walks the fallback chain: vector when built and reachable,
// lexical otherwise, empty context as the last resort.
func (o *Orchestrator) retrieve(ctx context.Context, query string) Retrieval {
	reason := ""
	if o.vector != nil && o.vector.Ready() {
		results, err := o.vector.Search(ctx, query, o.topK)
		if err == nil {
			parts := make([]string, 0, len(results))
			for _, r := range results {
				parts = append(parts, r.Chunk.Text)
			}
			return Retrieval{Context: o.truncate(strings.Join(parts, "\n\n")), Strategy: StrategyVector}
		}
		reason = "vector search failed: " + err.Error()
	} else {
		reason = "vector index not ready"
	}

	if o.lexical != nil && o.lexical.Len() > 0 {
		return Retrieval{Context: o.lexical.Context(query), Strategy: StrategyLexical, Reason: reason}
	}
	return Retrieval{Strategy: StrategyNone, Reason: reason + "; lexical index empty"}
}

func (o *Orchestrator) truncate(s string) string {
	if len(s) > o.maxContextChars {
		return s[:o.maxContextChars]
	}
	return s
}

func (o *Orchestrator) append(ctx context.Context, sessionID string, turn models.SessionTurn) {
	o.memory.Append(sessionID, turn)
	if o.sink == nil {
		return
	}
	if err := o.sink.Record(ctx, sessionID, turn); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("conversation store write failed")
	}
}

func (o *Orchestrator) sessionLock(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return &o.locks[h.Sum32()%lockStripes]
}
