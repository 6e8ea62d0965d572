package domain

import (
	"fmt"
	"strings"
)

// MaxPlanIterations caps the iterative planned strategy.
const MaxPlanIterations = 15

// Strategy selects the orchestration algorithm for a request.
type Strategy string

// Available strategies.
const (
	// StrategySequential consults the local corpus, then literature once.
	StrategySequential Strategy = "sequential"

	// StrategyIterative runs a bounded plan, execute, evaluate loop.
	StrategyIterative Strategy = "iterative"

	// StrategyComprehensive queries every source concurrently.
	StrategyComprehensive Strategy = "comprehensive"
)

// Legacy names still accepted from clients.
var strategyAliases = map[string]Strategy{
	"standard": StrategySequential,
	"enhanced": StrategyIterative,
}

// IsValid returns true if the strategy is recognised.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategySequential, StrategyIterative, StrategyComprehensive:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Strategy) String() string {
	return string(s)
}

// Description returns a human-readable description of the strategy.
func (s Strategy) Description() string {
	switch s {
	case StrategySequential:
		return "Sequential (local corpus, then literature)"
	case StrategyIterative:
		return "Iterative (planned lookups, up to 15 steps)"
	case StrategyComprehensive:
		return "Comprehensive (all sources in parallel)"
	default:
		return unknownDescription
	}
}

// DefaultStrategy returns the strategy used when none is requested.
func DefaultStrategy() Strategy {
	return StrategyComprehensive
}

// AllStrategies returns all available strategies.
func AllStrategies() []Strategy {
	return []Strategy{
		StrategySequential,
		StrategyIterative,
		StrategyComprehensive,
	}
}

// ParseStrategy resolves a client supplied name.
// An empty name selects the default; legacy aliases are accepted.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultStrategy(), nil
	}
	if s, ok := strategyAliases[name]; ok {
		return s, nil
	}
	s := Strategy(name)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: unknown strategy %q", ErrInvalidInput, name)
	}
	return s, nil
}

// StrategyInfo describes a strategy for catalogue listings.
type StrategyInfo struct {
	Name        Strategy     `json:"name"`
	Aliases     []string     `json:"aliases,omitempty"`
	Description string       `json:"description"`
	Sources     []SourceName `json:"sources"`
	Speed       string       `json:"speed"`
	Accuracy    string       `json:"accuracy"`
	Default     bool         `json:"default"`
}

// StrategyCatalogue returns the descriptions shown to users.
func StrategyCatalogue() []StrategyInfo {
	return []StrategyInfo{
		{
			Name:        StrategySequential,
			Aliases:     []string{"standard"},
			Description: "Checks the local corpus first and falls back to literature search",
			Sources:     []SourceName{SourceLocal, SourceLiterature},
			Speed:       "fast",
			Accuracy:    "good",
		},
		{
			Name:        StrategyIterative,
			Aliases:     []string{"enhanced"},
			Description: "Plans each lookup from the previous outcome and stops on the first hit",
			Sources:     AllSources(),
			Speed:       "medium",
			Accuracy:    "better",
		},
		{
			Name:        StrategyComprehensive,
			Description: "Queries every source at once and combines all findings",
			Sources:     AllSources(),
			Speed:       "slower",
			Accuracy:    "best",
			Default:     true,
		},
	}
}
