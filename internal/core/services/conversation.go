package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/healthrag/internal/core/domain"
	"github.com/custodia-labs/healthrag/internal/core/ports/driven"
	"github.com/custodia-labs/healthrag/internal/core/ports/driving"
	"github.com/custodia-labs/healthrag/internal/logger"
)

// Ensure ConversationService implements the interface.
var _ driving.ConversationService = (*ConversationService)(nil)

// ConversationService answers questions inside persisted sessions.
// Persistence failures are logged and never fail the answer.
type ConversationService struct {
	asker   driving.AskService
	history driven.HistoryStore
	now     func() time.Time
}

// NewConversationService creates a conversation service.
// history may be nil, in which case sessions are not kept.
func NewConversationService(asker driving.AskService, history driven.HistoryStore) *ConversationService {
	return &ConversationService{
		asker:   asker,
		history: history,
		now:     time.Now,
	}
}

// Ask answers query in sessionID, starting a new session when it is empty.
func (s *ConversationService) Ask(
	ctx context.Context, sessionID, query string, strategy domain.Strategy,
) (*domain.FinalAnswer, string, error) {
	isNew := sessionID == ""
	if isNew {
		sessionID = uuid.New().String()
	}

	var turns []domain.Turn
	if !isNew {
		turns = s.loadTurns(ctx, sessionID)
	}
	logger.Debug("Session %s: %d prior turns", sessionID, len(turns))

	answer, err := s.asker.Ask(ctx, domain.AskRequest{
		Query:    query,
		Strategy: strategy,
		Context:  turns,
	})
	if err != nil {
		return nil, sessionID, err
	}

	s.record(ctx, sessionID, query, answer)
	return answer, sessionID, nil
}

// Sessions lists stored sessions, most recent first.
func (s *ConversationService) Sessions(ctx context.Context) ([]domain.Session, error) {
	if s.history == nil {
		return []domain.Session{}, nil
	}
	return s.history.ListSessions(ctx)
}

// Session returns a session and its messages.
func (s *ConversationService) Session(ctx context.Context, id string) (*domain.Session, []domain.Message, error) {
	if s.history == nil {
		return nil, nil, domain.ErrNotFound
	}
	session, err := s.history.GetSession(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.history.Messages(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("load messages: %w", err)
	}
	return session, messages, nil
}

// DeleteSession removes a session.
func (s *ConversationService) DeleteSession(ctx context.Context, id string) error {
	if s.history == nil {
		return domain.ErrNotFound
	}
	return s.history.DeleteSession(ctx, id)
}

// loadTurns reads prior turns; a failure yields an empty history.
func (s *ConversationService) loadTurns(ctx context.Context, sessionID string) []domain.Turn {
	if s.history == nil {
		return nil
	}
	messages, err := s.history.Messages(ctx, sessionID)
	if err != nil {
		logger.Warn("Could not load session %s history: %v", sessionID, err)
		return nil
	}
	turns := make([]domain.Turn, 0, len(messages))
	for _, m := range messages {
		if m.Role.IsValid() {
			turns = append(turns, m.Turn())
		}
	}
	return turns
}

// record persists the exchange, creating the session if needed.
func (s *ConversationService) record(ctx context.Context, sessionID, query string, answer *domain.FinalAnswer) {
	if s.history == nil {
		return
	}

	now := s.now()
	session, err := s.history.GetSession(ctx, sessionID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		session = &domain.Session{ID: sessionID, Title: domain.SessionTitle(query), CreatedAt: now}
	case err != nil:
		logger.Warn("Could not load session %s: %v", sessionID, err)
		return
	}
	session.UpdatedAt = now

	if err := s.history.SaveSession(ctx, *session); err != nil {
		logger.Warn("Could not save session %s: %v", sessionID, err)
		return
	}

	messages := []domain.Message{
		{
			ID:        uuid.New().String(),
			SessionID: sessionID,
			Role:      domain.RoleUser,
			Content:   query,
			CreatedAt: now,
		},
		{
			ID:        uuid.New().String(),
			SessionID: sessionID,
			Role:      domain.RoleAssistant,
			Content:   answer.Text,
			Strategy:  answer.Strategy,
			TermUsed:  answer.TermUsed,
			CreatedAt: now.Add(time.Millisecond),
		},
	}
	for _, m := range messages {
		if err := s.history.AppendMessage(ctx, m); err != nil {
			logger.Warn("Could not save message to session %s: %v", sessionID, err)
			return
		}
	}
}
