package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/healthrag/internal/core/domain"
	"github.com/custodia-labs/healthrag/internal/core/ports/driven"
	"github.com/custodia-labs/healthrag/internal/logger"
)

// Disclaimer is appended to every answer that does not already carry it.
const Disclaimer = "Disclaimer: This information is for educational purposes only and is not a " +
	"substitute for professional medical advice, diagnosis, or treatment. Always consult a " +
	"qualified healthcare provider with any questions about a medical condition."

// disclaimerMarker detects a disclaimer the model already wrote.
const disclaimerMarker = "not a substitute for professional medical advice"

// defaultSynthesisSystemPrompt is the fallback when no PromptStore is configured.
const defaultSynthesisSystemPrompt = `You are a careful medical information assistant.

Always answer the user's health question; never refuse.
Use the reference material supplied with the question together with your general medical knowledge.
Structure the answer as clear prose with short headers and bullet lists where they help.
Never mention where the information came from and never cite sources, databases or articles.
End with a short medical disclaimer.`

// defaultSynthesisQuestionPrompt is the fallback when no PromptStore is configured.
const defaultSynthesisQuestionPrompt = `%s

Question: %s`

// noFragmentsNote replaces the reference block when no source found anything.
const noFragmentsNote = "No reference material was retrieved for this question. Answer from general medical knowledge."

// Generation limits for the final answer.
const (
	synthesisMaxTokens   = 2048
	synthesisTemperature = 0.3
)

// Synthesizer reduces source outcomes into one natural-language answer.
type Synthesizer struct {
	llm         driven.LLMService
	promptStore driven.PromptStore
}

// NewSynthesizer creates a synthesizer backed by llm. A nil llm makes every
// synthesis fail with domain.ErrSynthesisUnavailable.
func NewSynthesizer(llm driven.LLMService) *Synthesizer {
	return &Synthesizer{llm: llm}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the synthesizer uses hardcoded default prompts.
func (s *Synthesizer) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Synthesize issues exactly one generation call, even when nothing was found.
func (s *Synthesizer) Synthesize(
	ctx context.Context,
	query string,
	outcomes []domain.SourceOutcome,
	history []domain.Turn,
) (*domain.FinalAnswer, error) {
	logger.Section("Answer Synthesis")

	if s.llm == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSynthesisUnavailable, domain.ErrLLMUnavailable)
	}

	fragments := Fragments(outcomes)
	logger.Debug("Fragments: %d, history turns: %d, model: %s", len(fragments), len(history), s.llm.ModelName())

	messages := s.buildMessages(query, fragments, history)
	text, err := s.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   synthesisMaxTokens,
		Temperature: synthesisTemperature,
	})
	if err != nil {
		logger.Warn("Synthesis failed: %v", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrSynthesisUnavailable, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: model returned an empty answer", domain.ErrSynthesisUnavailable)
	}

	return &domain.FinalAnswer{Text: withDisclaimer(text)}, nil
}

// Fragments extracts the payload of every Found outcome, dropping provenance.
func Fragments(outcomes []domain.SourceOutcome) []string {
	var fragments []string
	for _, o := range outcomes {
		if !o.IsFound() {
			continue
		}
		if text := strings.TrimSpace(o.Text); text != "" {
			fragments = append(fragments, text)
		}
	}
	return fragments
}

func (s *Synthesizer) buildMessages(query string, fragments []string, history []domain.Turn) []driven.ChatMessage {
	messages := make([]driven.ChatMessage, 0, len(history)+2)
	messages = append(messages, driven.ChatMessage{
		Role:    driven.ChatRoleSystem,
		Content: s.loadPrompt(driven.PromptSynthesisSystem, defaultSynthesisSystemPrompt),
	})

	for _, turn := range history {
		role := driven.ChatRoleUser
		if turn.Role == domain.RoleAssistant {
			role = driven.ChatRoleAssistant
		}
		messages = append(messages, driven.ChatMessage{Role: role, Content: turn.Content})
	}

	reference := noFragmentsNote
	if len(fragments) > 0 {
		reference = "Reference material:\n\n" + strings.Join(fragments, "\n\n---\n\n")
	}
	template := s.loadPrompt(driven.PromptSynthesisQuestion, defaultSynthesisQuestionPrompt)
	messages = append(messages, driven.ChatMessage{
		Role:    driven.ChatRoleUser,
		Content: fmt.Sprintf(template, reference, query),
	})

	return messages
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (s *Synthesizer) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil || strings.TrimSpace(prompt) == "" {
		return fallback
	}
	return prompt
}

func withDisclaimer(text string) string {
	if strings.Contains(strings.ToLower(text), disclaimerMarker) {
		return text
	}
	return text + "\n\n" + Disclaimer
}
