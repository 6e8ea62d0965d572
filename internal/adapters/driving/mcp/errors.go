// Package mcp provides an MCP (Model Context Protocol) server adapter for healthrag.
// It lets AI assistants ask medical questions through the orchestrator and
// browse stored conversations.
package mcp

import "errors"

// ErrMissingAskService is returned when the ask service is not provided.
var ErrMissingAskService = errors.New("mcp: ask service is required")

// ErrConversationsDisabled is returned when a session is requested but no
// conversation service is configured.
var ErrConversationsDisabled = errors.New("mcp: conversation history is not enabled")
