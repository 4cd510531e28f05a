package session

import (
	"container/list"
	"sync"

	"github.com/rs/zerolog/log"

	"prodesk-chatbot/internal/models"
)

const defaultCapacity = 1000

// Memory holds per-session conversation history in memory. Capacity is
// bounded: when a new session would exceed it, the least recently used
// session is evicted. Turns within a session are kept strictly in append
// order and are never deduplicated; retries may legitimately produce
// near-duplicate turns.
type Memory struct {
	mu       sync.Mutex
	capacity int
	sessions map[string]*list.Element
	order    *list.List // front = most recently used
}

type record struct {
	id    string
	turns []models.SessionTurn
}

func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Memory{
		capacity: capacity,
		sessions: make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Append adds a turn to the session, creating the session on first use.
func (m *Memory) Append(sessionID string, turn models.SessionTurn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.sessions[sessionID]; ok {
		m.order.MoveToFront(el)
		rec := el.Value.(*record)
		rec.turns = append(rec.turns, turn)
		return
	}

	if m.order.Len() >= m.capacity {
		oldest := m.order.Back()
		if oldest != nil {
			rec := m.order.Remove(oldest).(*record)
			delete(m.sessions, rec.id)
			log.Debug().Str("session_id", rec.id).Msg("evicted least recently used session")
		}
	}
	m.sessions[sessionID] = m.order.PushFront(&record{
		id:    sessionID,
		turns: []models.SessionTurn{turn},
	})
}

// History returns the session's turns in append order. An unknown session
// is an empty history, not an error. The returned slice is a copy.
func (m *Memory) History(sessionID string) []models.SessionTurn {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.sessions[sessionID]
	if !ok {
		return nil
	}
	m.order.MoveToFront(el)
	rec := el.Value.(*record)
	out := make([]models.SessionTurn, len(rec.turns))
	copy(out, rec.turns)
	return out
}

// Clear removes the session entirely.
func (m *Memory) Clear(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.sessions[sessionID]; ok {
		m.order.Remove(el)
		delete(m.sessions, sessionID)
	}
}

// Len reports the number of live sessions.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}
