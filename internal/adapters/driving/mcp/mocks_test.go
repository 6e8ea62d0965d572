package mcp

import (
	"context"

	"github.com/custodia-labs/healthrag/internal/core/domain"
)

// mockAskService is a mock implementation of driving.AskService.
type mockAskService struct {
	answer *domain.FinalAnswer
	err    error
	last   domain.AskRequest
}

func (m *mockAskService) Ask(_ context.Context, req domain.AskRequest) (*domain.FinalAnswer, error) {
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	if m.answer != nil {
		return m.answer, nil
	}
	strategy := req.Strategy
	if strategy == "" {
		strategy = domain.DefaultStrategy()
	}
	return &domain.FinalAnswer{Text: "answer to " + req.Query, TermUsed: "asthma", Strategy: strategy}, nil
}

func (m *mockAskService) Strategies() []domain.StrategyInfo {
	return domain.StrategyCatalogue()
}

// mockConversationService is a mock implementation of driving.ConversationService.
type mockConversationService struct {
	sessions  []domain.Session
	messages  []domain.Message
	err       error
	sessionID string
	strategy  domain.Strategy
}

func (m *mockConversationService) Ask(
	_ context.Context,
	sessionID, query string,
	strategy domain.Strategy,
) (*domain.FinalAnswer, string, error) {
	if m.err != nil {
		return nil, "", m.err
	}
	m.sessionID = sessionID
	m.strategy = strategy
	if sessionID == "" {
		sessionID = "generated-id"
	}
	return &domain.FinalAnswer{Text: "answer to " + query, TermUsed: "asthma", Strategy: strategy}, sessionID, nil
}

func (m *mockConversationService) Sessions(_ context.Context) ([]domain.Session, error) {
	return m.sessions, m.err
}

func (m *mockConversationService) Session(_ context.Context, id string) (*domain.Session, []domain.Message, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			return &m.sessions[i], m.messages, nil
		}
	}
	return nil, nil, domain.ErrNotFound
}

func (m *mockConversationService) DeleteSession(_ context.Context, _ string) error {
	return m.err
}
