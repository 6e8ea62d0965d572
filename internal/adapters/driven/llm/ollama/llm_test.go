package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/healthrag/internal/core/domain"
	"github.com/custodia-labs/healthrag/internal/core/ports/driven"
)

func newTestService(t *testing.T, model string, handler http.HandlerFunc) *LLMService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewLLMService(LLMConfig{BaseURL: server.URL, Model: model})
}

func TestNewLLMService_Defaults(t *testing.T) {
	svc := NewLLMService(LLMConfig{})
	assert.Equal(t, DefaultLLMModel, svc.ModelName())
}

func TestLLMService_Chat(t *testing.T) {
	svc := newTestService(t, "llama3.2", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		require.NotNil(t, req.Options)
		assert.Equal(t, 100, req.Options.NumPredict)
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"hi"},"done":true}`))
	})

	out, err := svc.Chat(context.Background(),
		[]driven.ChatMessage{{Role: driven.ChatRoleUser, Content: "hello"}},
		driven.ChatOptions{MaxTokens: 100})

	require.NoError(t, err)
	assert.Equal(t, "hi", out)
}

func TestLLMService_Chat_NoOptions(t *testing.T) {
	svc := newTestService(t, "llama3.2", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.NotContains(t, raw, "options")
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"text"},"done":true}`))
	})

	out, err := svc.Chat(context.Background(),
		[]driven.ChatMessage{{Role: driven.ChatRoleUser, Content: "p"}},
		driven.ChatOptions{})

	require.NoError(t, err)
	assert.Equal(t, "text", out)
}

func TestLLMService_Ping(t *testing.T) {
	tags := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3.2:latest"},{"name":"mistral:7b"}]}`))
	}

	t.Run("model pulled", func(t *testing.T) {
		assert.NoError(t, newTestService(t, "llama3.2", tags).Ping(context.Background()))
		assert.NoError(t, newTestService(t, "mistral:7b", tags).Ping(context.Background()))
	})

	t.Run("model missing", func(t *testing.T) {
		err := newTestService(t, "phi3", tags).Ping(context.Background())
		assert.True(t, errors.Is(err, domain.ErrLLMUnavailable))
		assert.Contains(t, err.Error(), "ollama pull phi3")
	})
}
