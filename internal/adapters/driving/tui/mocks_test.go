package tui

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/healthrag/internal/core/domain"
)

type mockAskService struct {
	mu       sync.Mutex
	requests []domain.AskRequest
	err      error
}

func (m *mockAskService) Ask(_ context.Context, req domain.AskRequest) (*domain.FinalAnswer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.FinalAnswer{
		Text:     "Asthma narrows the airways.\n\nDisclaimer: consult a clinician.",
		TermUsed: "asthma",
		Strategy: req.Strategy,
	}, nil
}

func (m *mockAskService) Strategies() []domain.StrategyInfo {
	return domain.StrategyCatalogue()
}

type mockConversationService struct {
	mu        sync.Mutex
	asked     []string
	sessions  []domain.Session
	messages  map[string][]domain.Message
	deleted   []string
	askErr    error
	listErr   error
	sessionID string
}

func newMockConversationService() *mockConversationService {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &mockConversationService{
		sessionID: "session-0001",
		sessions: []domain.Session{
			{ID: "s-1", Title: "What is asthma?", UpdatedAt: at},
			{ID: "s-2", Title: "Malaria", UpdatedAt: at},
		},
		messages: map[string][]domain.Message{
			"s-1": {
				{ID: "m-1", SessionID: "s-1", Role: domain.RoleUser, Content: "What is asthma?"},
				{
					ID: "m-2", SessionID: "s-1", Role: domain.RoleAssistant, Content: "A chronic airway disease.",
					Strategy: domain.StrategySequential, TermUsed: "asthma",
				},
			},
		},
	}
}

func (m *mockConversationService) Ask(
	_ context.Context, sessionID, query string, strategy domain.Strategy,
) (*domain.FinalAnswer, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.asked = append(m.asked, sessionID+"|"+query)
	if m.askErr != nil {
		return nil, "", m.askErr
	}
	if sessionID == "" {
		sessionID = m.sessionID
	}
	return &domain.FinalAnswer{Text: "answer to " + query, TermUsed: query, Strategy: strategy}, sessionID, nil
}

func (m *mockConversationService) Sessions(_ context.Context) ([]domain.Session, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.sessions, nil
}

func (m *mockConversationService) Session(_ context.Context, id string) (*domain.Session, []domain.Message, error) {
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			return &m.sessions[i], m.messages[id], nil
		}
	}
	return nil, nil, domain.ErrNotFound
}

func (m *mockConversationService) DeleteSession(_ context.Context, id string) error {
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
			m.deleted = append(m.deleted, id)
			return nil
		}
	}
	return errors.New("not found")
}
