package driving

import (
	"context"

	"github.com/custodia-labs/healthrag/internal/core/domain"
)

// ConversationService answers questions within persisted sessions.
type ConversationService interface {
	// Ask answers a question in a session. An empty sessionID starts a new one.
	// Returns the answer and the session ID it was recorded under.
	Ask(ctx context.Context, sessionID, query string, strategy domain.Strategy) (*domain.FinalAnswer, string, error)

	// Sessions lists stored sessions, most recent first.
	Sessions(ctx context.Context) ([]domain.Session, error)

	// Session returns a session and its messages.
	Session(ctx context.Context, id string) (*domain.Session, []domain.Message, error)

	// DeleteSession removes a session.
	DeleteSession(ctx context.Context, id string) error
}
