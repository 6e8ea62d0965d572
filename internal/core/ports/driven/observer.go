package driven

import "github.com/custodia-labs/healthrag/internal/core/domain"

// RunObserver receives completed orchestration runs.
// Implementations must be safe for concurrent use and must not block.
type RunObserver interface {
	// ObserveRun is called once per run after all sources have answered.
	ObserveRun(run *domain.StrategyRun)

	// ObserveSynthesis is called once per synthesis attempt.
	ObserveSynthesis(strategy domain.Strategy, err error)
}
