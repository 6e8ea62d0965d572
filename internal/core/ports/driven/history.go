package driven

import (
	"context"

	"github.com/custodia-labs/healthrag/internal/core/domain"
)

// HistoryStore persists conversation sessions and their messages.
type HistoryStore interface {
	// SaveSession creates or updates a session.
	SaveSession(ctx context.Context, session domain.Session) error

	// GetSession retrieves a session by ID.
	// Returns domain.ErrNotFound if missing.
	GetSession(ctx context.Context, id string) (*domain.Session, error)

	// ListSessions returns sessions, most recently updated first.
	ListSessions(ctx context.Context) ([]domain.Session, error)

	// DeleteSession removes a session and its messages.
	// Returns domain.ErrNotFound if missing.
	DeleteSession(ctx context.Context, id string) error

	// AppendMessage stores a message at the end of its session.
	AppendMessage(ctx context.Context, msg domain.Message) error

	// Messages returns the messages of a session, oldest first.
	Messages(ctx context.Context, sessionID string) ([]domain.Message, error)
}
