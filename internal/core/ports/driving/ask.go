package driving

import (
	"context"

	"github.com/custodia-labs/healthrag/internal/core/domain"
)

// AskService answers a medical question from the configured knowledge sources.
type AskService interface {
	// Ask runs the requested strategy and synthesises an answer.
	// Source failures never surface; only synthesis failure is returned,
	// wrapping domain.ErrSynthesisUnavailable.
	Ask(ctx context.Context, req domain.AskRequest) (*domain.FinalAnswer, error)

	// Strategies lists the available strategies.
	Strategies() []domain.StrategyInfo
}
