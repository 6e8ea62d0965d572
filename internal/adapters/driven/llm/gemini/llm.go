// Package gemini provides an LLM service adapter using the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/healthrag/internal/adapters/driven/llm/transport"
	"github.com/custodia-labs/healthrag/internal/core/ports/driven"
	"github.com/custodia-labs/healthrag/internal/logger"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-1.5-flash"
	DefaultTimeout = 120 * time.Second
)

// Gemini names the assistant role "model".
const roleModel = "model"

// Config holds configuration for the Gemini LLM service.
type Config struct {
	// APIKey is the Google AI Studio API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://generativelanguage.googleapis.com/v1beta).
	BaseURL string

	// Model is the model to use (default: gemini-1.5-flash).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService answers prompts with a Gemini model.
type LLMService struct {
	client *transport.Client
	model  string
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

// NewLLMService creates a new Gemini LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := transport.New("gemini", cfg.BaseURL, cfg.Timeout)
	client.SetHeader("x-goog-api-key", cfg.APIKey)

	return &LLMService{client: client, model: cfg.Model}, nil
}

// Chat conducts a multi-turn conversation. System messages become the system instruction.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	return s.generate(ctx, buildRequest(messages, opts.MaxTokens, opts.Temperature))
}

func buildRequest(messages []driven.ChatMessage, maxTokens int, temperature float64) generateRequest {
	var req generateRequest
	var system []part

	for _, m := range messages {
		switch m.Role {
		case driven.ChatRoleSystem:
			system = append(system, part{Text: m.Content})
		case driven.ChatRoleAssistant:
			req.Contents = append(req.Contents, content{Role: roleModel, Parts: []part{{Text: m.Content}}})
		default:
			req.Contents = append(req.Contents, content{Role: driven.ChatRoleUser, Parts: []part{{Text: m.Content}}})
		}
	}
	if len(system) > 0 {
		req.SystemInstruction = &content{Parts: system}
	}

	if maxTokens > 0 || temperature > 0 {
		cfg := &generationConfig{MaxOutputTokens: maxTokens}
		if temperature > 0 {
			t := temperature
			cfg.Temperature = &t
		}
		req.GenerationConfig = cfg
	}
	return req
}

func (s *LLMService) generate(ctx context.Context, req generateRequest) (string, error) {
	var resp generateResponse
	path := "/models/" + url.PathEscape(s.model) + ":generateContent"
	if err := s.client.PostJSON(ctx, path, req, &resp); err != nil {
		return "", err
	}

	if resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini: prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini: no candidates returned")
	}

	candidate := resp.Candidates[0]
	logger.Debug("gemini: %d prompt tokens, %d candidate tokens, finish=%s",
		resp.UsageMetadata.PromptTokenCount, resp.UsageMetadata.CandidatesTokenCount, candidate.FinishReason)

	var text strings.Builder
	for _, p := range candidate.Content.Parts {
		text.WriteString(p.Text)
	}
	return text.String(), nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks the API key can see the configured model.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.client.Get(ctx, "/models/"+url.PathEscape(s.model), nil)
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
