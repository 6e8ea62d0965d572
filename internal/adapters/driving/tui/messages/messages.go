// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/healthrag/internal/core/domain"
)

// AnswerReceived carries the result of a submitted question back to the model.
type AnswerReceived struct {
	Query     string
	Answer    *domain.FinalAnswer
	SessionID string
	Err       error
}

// SessionsLoaded carries the stored sessions list.
type SessionsLoaded struct {
	Sessions []domain.Session
	Err      error
}

// SessionOpened carries a stored session and its messages.
type SessionOpened struct {
	Session  *domain.Session
	Messages []domain.Message
	Err      error
}

// SessionDeleted reports the removal of a session.
type SessionDeleted struct {
	ID  string
	Err error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the question input and transcript view.
	ViewChat ViewType = iota
	// ViewSessions lists stored conversations.
	ViewSessions
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the view name.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewSessions:
		return "sessions"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}
