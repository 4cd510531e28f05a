package convstore

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"prodesk-chatbot/internal/config"
	"prodesk-chatbot/internal/models"
)

// ConversationTurn is one durably logged turn of a session. The core
// produces these; the surrounding system reads them. The core never
// depends on this store to answer.
type ConversationTurn struct {
	bun.BaseModel `bun:"table:conversation_turns,alias:ct"`

	ID        int64     `bun:"id,pk,autoincrement"`
	SessionID string    `bun:"session_id,notnull"`
	Role      string    `bun:"role,notnull"`
	Content   string    `bun:"content,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

// Store is a bun-backed conversation log over postgres.
type Store struct {
	db *bun.DB
}

func Connect(cfg *config.DatabaseConfig) (*Store, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(cfg.DSN),
		pgdriver.WithPassword(cfg.Password),
	))
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return &Store{db: db}, nil
}

// Init creates the log table when absent.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().Model((*ConversationTurn)(nil)).IfNotExists().Exec(ctx)
	return err
}

// Record appends one turn to the durable log.
func (s *Store) Record(ctx context.Context, sessionID string, turn models.SessionTurn) error {
	row := &ConversationTurn{
		SessionID: sessionID,
		Role:      string(turn.Role),
		Content:   turn.Text,
		CreatedAt: turn.Timestamp,
	}
	_, err := s.db.NewInsert().Model(row).Exec(ctx)
	return err
}

// History returns a session's logged turns in insertion order.
func (s *Store) History(ctx context.Context, sessionID string) ([]ConversationTurn, error) {
	var turns []ConversationTurn
	err := s.db.NewSelect().
		Model(&turns).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Scan(ctx)
	return turns, err
}

func (s *Store) Close() error {
	return s.db.Close()
}
