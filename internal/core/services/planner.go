package services

import "github.com/custodia-labs/healthrag/internal/core/domain"

// Planner chooses which sources the iterative strategy queries next.
// It must be a pure function of the run so far. Returning nothing ends the run.
type Planner func(run *domain.StrategyRun, available []domain.SourceName) []domain.SourceName

// DefaultPlanner tries the local corpus first, then every remaining source
// once. It stops planning once something is found or everything was tried.
func DefaultPlanner(run *domain.StrategyRun, available []domain.SourceName) []domain.SourceName {
	if run.HasFound() {
		return nil
	}

	for _, name := range available {
		if name == domain.SourceLocal && !run.Attempted(name) {
			return []domain.SourceName{name}
		}
	}

	var next []domain.SourceName
	for _, name := range available {
		if !run.Attempted(name) {
			next = append(next, name)
		}
	}
	return next
}
