package mcp

import (
	"github.com/custodia-labs/healthrag/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Ask answers questions statelessly.
	Ask driving.AskService

	// Conversation answers within stored sessions. Optional.
	Conversation driving.ConversationService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Ask == nil {
		return ErrMissingAskService
	}
	return nil
}
