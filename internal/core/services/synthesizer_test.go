package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/healthrag/internal/core/domain"
	"github.com/custodia-labs/healthrag/internal/core/ports/driven"
)

func TestSynthesizer_NilLLM(t *testing.T) {
	s := NewSynthesizer(nil)

	_, err := s.Synthesize(context.Background(), "q", nil, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSynthesisUnavailable))
	assert.True(t, errors.Is(err, domain.ErrLLMUnavailable))
}

func TestSynthesizer_EmptyFragmentsStillCalls(t *testing.T) {
	llm := &mockLLMService{response: "general answer"}
	s := NewSynthesizer(llm)

	answer, err := s.Synthesize(context.Background(), "what is lupus?", []domain.SourceOutcome{
		domain.NotFound(domain.SourceLocal),
		domain.TimedOut(domain.SourceLiterature),
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, llm.calls)
	assert.True(t, strings.HasPrefix(answer.Text, "general answer"))

	msgs := llm.lastMessages()
	assert.Contains(t, msgs[len(msgs)-1].Content, noFragmentsNote)
	assert.Contains(t, msgs[len(msgs)-1].Content, "what is lupus?")
}

func TestSynthesizer_FragmentsWithoutProvenance(t *testing.T) {
	llm := &mockLLMService{response: "answer"}
	s := NewSynthesizer(llm)

	_, err := s.Synthesize(context.Background(), "q", []domain.SourceOutcome{
		domain.Found(domain.SourceLocal, "local body"),
		domain.Failed(domain.SourceLiterature, "503 from upstream"),
		domain.Found(domain.SourceAuthority, "fact sheet text"),
	}, nil)

	require.NoError(t, err)
	content := llm.lastMessages()[1].Content
	assert.Contains(t, content, "local body")
	assert.Contains(t, content, "fact sheet text")
	assert.NotContains(t, content, "503 from upstream")
	assert.NotContains(t, content, string(domain.SourceLocal)+":")
	assert.NotContains(t, content, string(domain.SourceAuthority))
}

func TestSynthesizer_SystemPromptRules(t *testing.T) {
	llm := &mockLLMService{response: "answer"}
	s := NewSynthesizer(llm)

	_, err := s.Synthesize(context.Background(), "q", nil, nil)

	require.NoError(t, err)
	system := llm.lastMessages()[0]
	assert.Equal(t, driven.ChatRoleSystem, system.Role)
	assert.Contains(t, system.Content, "never refuse")
	assert.Contains(t, system.Content, "never cite sources")
	assert.Contains(t, system.Content, "disclaimer")
}

func TestSynthesizer_Disclaimer(t *testing.T) {
	t.Run("appended when missing", func(t *testing.T) {
		s := NewSynthesizer(&mockLLMService{response: "Rest and fluids."})

		answer, err := s.Synthesize(context.Background(), "q", nil, nil)

		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(answer.Text, Disclaimer))
	})

	t.Run("not duplicated", func(t *testing.T) {
		text := "Rest.\n\nThis is not a substitute for professional medical advice."
		s := NewSynthesizer(&mockLLMService{response: text})

		answer, err := s.Synthesize(context.Background(), "q", nil, nil)

		require.NoError(t, err)
		assert.Equal(t, text, answer.Text)
	})
}

func TestSynthesizer_Errors(t *testing.T) {
	t.Run("llm error", func(t *testing.T) {
		s := NewSynthesizer(&mockLLMService{err: errors.New("unreachable")})

		_, err := s.Synthesize(context.Background(), "q", nil, nil)

		assert.True(t, errors.Is(err, domain.ErrSynthesisUnavailable))
		assert.Contains(t, err.Error(), "unreachable")
	})

	t.Run("empty response", func(t *testing.T) {
		s := NewSynthesizer(&mockLLMService{response: "  "})

		_, err := s.Synthesize(context.Background(), "q", nil, nil)

		assert.True(t, errors.Is(err, domain.ErrSynthesisUnavailable))
	})
}

func TestSynthesizer_PromptStore(t *testing.T) {
	llm := &mockLLMService{response: "answer"}
	s := NewSynthesizer(llm)
	s.SetPromptStore(&mockPromptStore{prompts: map[string]string{
		driven.PromptSynthesisSystem:   "custom system",
		driven.PromptSynthesisQuestion: "REF<%s> Q<%s>",
	}})

	_, err := s.Synthesize(context.Background(), "why?", []domain.SourceOutcome{
		domain.Found(domain.SourceLocal, "frag"),
	}, nil)

	require.NoError(t, err)
	msgs := llm.lastMessages()
	assert.Equal(t, "custom system", msgs[0].Content)
	assert.Contains(t, msgs[1].Content, "Q<why?>")
	assert.Contains(t, msgs[1].Content, "frag")
}

func TestFragments(t *testing.T) {
	got := Fragments([]domain.SourceOutcome{
		domain.Found(domain.SourceLocal, " a "),
		domain.NotFound(domain.SourceLiterature),
		domain.Found(domain.SourceAuthority, "b"),
	})

	assert.Equal(t, []string{"a", "b"}, got)
	assert.Empty(t, Fragments(nil))
}
