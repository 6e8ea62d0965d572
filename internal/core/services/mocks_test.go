package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/healthrag/internal/core/domain"
	"github.com/custodia-labs/healthrag/internal/core/ports/driven"
)

// mockSource is a scripted knowledge source.
type mockSource struct {
	name    domain.SourceName
	outcome domain.SourceOutcome
	err     error
	delay   time.Duration
	hang    bool
	calls   atomic.Int32

	mu    sync.Mutex
	terms []string
}

func newFoundSource(name domain.SourceName, text string) *mockSource {
	return &mockSource{name: name, outcome: domain.Found(name, text)}
}

func newNotFoundSource(name domain.SourceName) *mockSource {
	return &mockSource{name: name, outcome: domain.NotFound(name)}
}

func newFailingSource(name domain.SourceName, err error) *mockSource {
	return &mockSource{name: name, err: err}
}

func newHangingSource(name domain.SourceName) *mockSource {
	return &mockSource{name: name, hang: true}
}

func (m *mockSource) Name() domain.SourceName { return m.name }

func (m *mockSource) Lookup(ctx context.Context, term string) (domain.SourceOutcome, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.terms = append(m.terms, term)
	m.mu.Unlock()

	if m.hang {
		<-ctx.Done()
		return domain.SourceOutcome{}, ctx.Err()
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return domain.SourceOutcome{}, ctx.Err()
		}
	}
	return m.outcome, m.err
}

func (m *mockSource) Calls() int { return int(m.calls.Load()) }

// mockLLMService records chat requests.
type mockLLMService struct {
	response string
	err      error

	mu       sync.Mutex
	calls    int
	messages [][]driven.ChatMessage
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.messages = append(m.messages, messages)
	return m.response, m.err
}

func (m *mockLLMService) ModelName() string { return "mock-model" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

func (m *mockLLMService) lastMessages() []driven.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.messages) == 0 {
		return nil
	}
	return m.messages[len(m.messages)-1]
}

// mockPromptStore serves fixed prompts.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", domain.ErrNotFound
}

func (m *mockPromptStore) Reload() {}

// mockObserver counts observations.
type mockObserver struct {
	mu         sync.Mutex
	runs       []*domain.StrategyRun
	synthErrs  []error
	strategies []domain.Strategy
}

func (m *mockObserver) ObserveRun(run *domain.StrategyRun) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
}

func (m *mockObserver) ObserveSynthesis(strategy domain.Strategy, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strategies = append(m.strategies, strategy)
	m.synthErrs = append(m.synthErrs, err)
}
