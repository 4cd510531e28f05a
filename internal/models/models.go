package models

import "time"

// KnowledgeDocument is a single ingested corpus record. Documents are
// immutable once stored; re-ingestion supersedes them wholesale.
type KnowledgeDocument struct {
	Source    string    `json:"source"`
	URL       string    `json:"url,omitempty"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	FetchedAt time.Time `json:"fetched_at,omitempty"`
}

// Chunk is a bounded slice of a document, the retrieval unit of the
// vector index. Never mutated after creation.
type Chunk struct {
	Text   string
	Source string
	Index  int
}

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// SessionTurn is one entry in a session's conversation history.
type SessionTurn struct {
	Role      Role
	Text      string
	Timestamp time.Time
}
