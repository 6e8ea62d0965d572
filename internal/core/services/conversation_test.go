package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/healthrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/healthrag/internal/core/domain"
	"github.com/custodia-labs/healthrag/internal/core/ports/driven"
)

// mockAsker records requests and returns a canned answer.
type mockAsker struct {
	requests []domain.AskRequest
	err      error
}

func (m *mockAsker) Ask(_ context.Context, req domain.AskRequest) (*domain.FinalAnswer, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.FinalAnswer{
		Text:     "answer to " + req.Query,
		TermUsed: "asthma",
		Strategy: domain.StrategyComprehensive,
	}, nil
}

func (m *mockAsker) Strategies() []domain.StrategyInfo { return domain.StrategyCatalogue() }

// failingHistory fails every call.
type failingHistory struct{ driven.HistoryStore }

func (failingHistory) Messages(context.Context, string) ([]domain.Message, error) {
	return nil, errors.New("disk gone")
}

func (failingHistory) GetSession(context.Context, string) (*domain.Session, error) {
	return nil, errors.New("disk gone")
}

func TestConversationService_NewSession(t *testing.T) {
	asker := &mockAsker{}
	store := memory.NewHistoryStore()
	svc := NewConversationService(asker, store)

	answer, sessionID, err := svc.Ask(context.Background(), "", "what is asthma?", "")

	require.NoError(t, err)
	assert.NotEmpty(t, sessionID)
	assert.Equal(t, "answer to what is asthma?", answer.Text)
	assert.Empty(t, asker.requests[0].Context)

	session, messages, err := svc.Session(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, "what is asthma?", session.Title)
	require.Len(t, messages, 2)
	assert.Equal(t, domain.RoleUser, messages[0].Role)
	assert.Equal(t, domain.RoleAssistant, messages[1].Role)
	assert.Equal(t, "asthma", messages[1].TermUsed)
}

func TestConversationService_ContinuesSession(t *testing.T) {
	asker := &mockAsker{}
	svc := NewConversationService(asker, memory.NewHistoryStore())

	_, sessionID, err := svc.Ask(context.Background(), "", "what is asthma?", "")
	require.NoError(t, err)

	_, again, err := svc.Ask(context.Background(), sessionID, "how is it treated?", domain.StrategySequential)
	require.NoError(t, err)
	assert.Equal(t, sessionID, again)

	second := asker.requests[1]
	assert.Equal(t, domain.StrategySequential, second.Strategy)
	require.Len(t, second.Context, 2)
	assert.Equal(t, domain.Turn{Role: domain.RoleUser, Content: "what is asthma?"}, second.Context[0])

	_, messages, err := svc.Session(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Len(t, messages, 4)
}

func TestConversationService_UnknownSessionIDStartsFresh(t *testing.T) {
	asker := &mockAsker{}
	svc := NewConversationService(asker, memory.NewHistoryStore())

	_, sessionID, err := svc.Ask(context.Background(), "client-chosen-id", "what is asthma?", "")

	require.NoError(t, err)
	assert.Equal(t, "client-chosen-id", sessionID)
	sessions, err := svc.Sessions(context.Background())
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestConversationService_AskErrorNotRecorded(t *testing.T) {
	asker := &mockAsker{err: domain.ErrSynthesisUnavailable}
	store := memory.NewHistoryStore()
	svc := NewConversationService(asker, store)

	_, _, err := svc.Ask(context.Background(), "", "q", "")

	assert.True(t, errors.Is(err, domain.ErrSynthesisUnavailable))
	sessions, _ := svc.Sessions(context.Background())
	assert.Empty(t, sessions)
}

func TestConversationService_HistoryFailuresTolerated(t *testing.T) {
	asker := &mockAsker{}
	svc := NewConversationService(asker, failingHistory{})

	answer, _, err := svc.Ask(context.Background(), "existing", "q", "")

	require.NoError(t, err)
	assert.NotNil(t, answer)
	assert.Empty(t, asker.requests[0].Context)
}

func TestConversationService_NilHistory(t *testing.T) {
	svc := NewConversationService(&mockAsker{}, nil)

	_, _, err := svc.Ask(context.Background(), "", "q", "")
	require.NoError(t, err)

	sessions, err := svc.Sessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)

	_, _, err = svc.Session(context.Background(), "x")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(svc.DeleteSession(context.Background(), "x"), domain.ErrNotFound))
}

func TestConversationService_DeleteSession(t *testing.T) {
	svc := NewConversationService(&mockAsker{}, memory.NewHistoryStore())
	_, sessionID, err := svc.Ask(context.Background(), "", "q", "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession(context.Background(), sessionID))

	_, _, err = svc.Session(context.Background(), sessionID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
