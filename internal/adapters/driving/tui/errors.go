package tui

import "errors"

// ErrMissingAskService is returned when the ask service is not provided.
var ErrMissingAskService = errors.New("tui: ask service is required")

// ErrConversationsDisabled is reported when session features are used without history.
var ErrConversationsDisabled = errors.New("tui: conversation history is not configured")
