// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/healthrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/healthrag/internal/core/domain"
)

// SessionList displays stored conversations in a navigable list.
type SessionList struct {
	sessions []domain.Session
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewSessionList creates a new session list component.
func NewSessionList(s *styles.Styles) *SessionList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &SessionList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the session list.
func (l *SessionList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *SessionList) Update(msg tea.Msg) (*SessionList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the session list.
func (l *SessionList) View() string {
	if len(l.sessions) == 0 {
		return l.styles.Muted.Render("No stored sessions")
	}

	lines := make([]string, 0, len(l.sessions)+2)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("Sessions (%d)", len(l.sessions))), "")

	// One line per session, two reserved for the header
	visible := l.height - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.sessions) {
		end = len(l.sessions)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderSession(i, &l.sessions[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *SessionList) renderSession(index int, session *domain.Session) string {
	title := session.Title
	if title == "" {
		title = "(untitled)"
	}
	maxTitle := l.width - 24
	if maxTitle < 10 {
		maxTitle = 10
	}
	if runes := []rune(title); len(runes) > maxTitle {
		title = string(runes[:maxTitle-3]) + "..."
	}
	updated := session.UpdatedAt.Format("2006-01-02 15:04")

	if index == l.selected {
		return l.styles.Selected.Render(fmt.Sprintf("> %-*s  %s", maxTitle, title, updated))
	}
	return l.styles.Normal.Render(fmt.Sprintf("  %-*s  ", maxTitle, title)) + l.styles.Muted.Render(updated)
}

// SetSessions replaces the listed sessions, keeping the selection in range.
func (l *SessionList) SetSessions(sessions []domain.Session) {
	l.sessions = sessions
	if l.selected >= len(sessions) {
		l.selected = len(sessions) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

// Sessions returns the listed sessions.
func (l *SessionList) Sessions() []domain.Session {
	return l.sessions
}

// Selected returns the index of the selected session.
func (l *SessionList) Selected() int {
	return l.selected
}

// SelectedSession returns the highlighted session, or nil if none.
func (l *SessionList) SelectedSession() *domain.Session {
	if len(l.sessions) == 0 {
		return nil
	}
	return &l.sessions[l.selected]
}

// MoveUp moves selection up.
func (l *SessionList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *SessionList) MoveDown() {
	if l.selected < len(l.sessions)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *SessionList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of sessions.
func (l *SessionList) Count() int {
	return len(l.sessions)
}
