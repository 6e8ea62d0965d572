// Package domain defines the core business entities for healthrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Turn: One prior message of a conversation
//   - SourceOutcome: The classified result of one knowledge source lookup
//   - Strategy: The orchestration algorithm chosen for a request
//   - StrategyRun: The record of outcomes accumulated during one request
//   - FinalAnswer: The synthesised reply returned to the caller
//   - Session: A persisted conversation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
