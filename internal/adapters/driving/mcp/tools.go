package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/healthrag/internal/core/domain"
)

// TurnInput is one prior conversation turn.
type TurnInput struct {
	Role    string `json:"role" jsonschema:"who wrote the turn: user or assistant"`
	Content string `json:"content" jsonschema:"the text of the turn"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Query     string      `json:"query" jsonschema:"the medical question to answer"`
	Strategy  string      `json:"strategy,omitempty" jsonschema:"sequential, iterative or comprehensive (default: configured strategy)"`
	Context   []TurnInput `json:"context,omitempty" jsonschema:"prior turns, oldest first; ignored when session_id is set"`
	SessionID string      `json:"session_id,omitempty" jsonschema:"continue a stored conversation; use 'new' to start one"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string `json:"answer"`
	TermUsed  string `json:"term_used"`
	Strategy  string `json:"strategy"`
	SessionID string `json:"session_id,omitempty"`
}

// StrategiesInput is the (empty) input schema for the strategies tool.
type StrategiesInput struct{}

// StrategiesOutput is the output schema for the strategies tool.
type StrategiesOutput struct {
	Strategies []domain.StrategyInfo `json:"strategies"`
}

// newSessionID asks the conversation service to start a session.
const newSessionID = "new"

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "ask",
		Description: "Answer a medical question from the local corpus, PubMed and the WHO. " +
			"The answer ends with a medical disclaimer.",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "strategies",
		Description: "List the source orchestration strategies accepted by ask",
	}, s.handleStrategies)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	// Empty defers to the orchestrator's configured default.
	var strategy domain.Strategy
	if input.Strategy != "" {
		parsed, err := domain.ParseStrategy(input.Strategy)
		if err != nil {
			return nil, AskOutput{}, err
		}
		strategy = parsed
	}

	if input.SessionID != "" {
		return s.askInSession(ctx, input, strategy)
	}

	turns := make([]domain.Turn, len(input.Context))
	for i, t := range input.Context {
		turns[i] = domain.Turn{Role: domain.Role(t.Role), Content: t.Content}
	}

	answer, err := s.ports.Ask.Ask(ctx, domain.AskRequest{
		Query:    input.Query,
		Strategy: strategy,
		Context:  turns,
	})
	if err != nil {
		return nil, AskOutput{}, err
	}
	return nil, toOutput(answer, ""), nil
}

func (s *Server) askInSession(
	ctx context.Context,
	input AskInput,
	strategy domain.Strategy,
) (*mcp.CallToolResult, AskOutput, error) {
	if s.ports.Conversation == nil {
		return nil, AskOutput{}, ErrConversationsDisabled
	}

	sessionID := input.SessionID
	if sessionID == newSessionID {
		sessionID = ""
	}

	answer, id, err := s.ports.Conversation.Ask(ctx, sessionID, input.Query, strategy)
	if err != nil {
		return nil, AskOutput{}, fmt.Errorf("session %s: %w", input.SessionID, err)
	}
	return nil, toOutput(answer, id), nil
}

func toOutput(answer *domain.FinalAnswer, sessionID string) AskOutput {
	return AskOutput{
		Answer:    answer.Text,
		TermUsed:  answer.TermUsed,
		Strategy:  answer.Strategy.String(),
		SessionID: sessionID,
	}
}

// handleStrategies handles the strategies tool invocation.
func (s *Server) handleStrategies(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ StrategiesInput,
) (*mcp.CallToolResult, StrategiesOutput, error) {
	return nil, StrategiesOutput{Strategies: s.ports.Ask.Strategies()}, nil
}
