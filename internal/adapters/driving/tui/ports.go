// Package tui provides an interactive terminal chat for healthrag.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/healthrag/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ask answers questions. Used directly when Conversation is nil.
	Ask driving.AskService

	// Conversation persists sessions. Optional.
	Conversation driving.ConversationService

	// Settings supplies the initial strategy. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Ask == nil {
		return ErrMissingAskService
	}
	return nil
}
