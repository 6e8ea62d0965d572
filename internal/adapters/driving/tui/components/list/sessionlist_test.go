package list

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/healthrag/internal/core/domain"
)

func sampleSessions() []domain.Session {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return []domain.Session{
		{ID: "s-1", Title: "What is asthma?", UpdatedAt: at},
		{ID: "s-2", Title: "Malaria symptoms", UpdatedAt: at},
		{ID: "s-3", UpdatedAt: at},
	}
}

func TestNewSessionList(t *testing.T) {
	l := NewSessionList(nil)

	require.NotNil(t, l)
	assert.NotNil(t, l.styles)
	assert.Equal(t, 0, l.Count())
	assert.Nil(t, l.SelectedSession())
	assert.Nil(t, l.Init())
}

func TestSessionList_Navigation(t *testing.T) {
	l := NewSessionList(nil)
	l.SetSessions(sampleSessions())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, l.Selected())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 2, l.Selected())

	l.MoveDown()
	assert.Equal(t, 2, l.Selected())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, l.Selected())

	l.MoveUp()
	assert.Equal(t, "s-1", l.SelectedSession().ID)
}

func TestSessionList_SetSessions_ClampsSelection(t *testing.T) {
	l := NewSessionList(nil)
	l.SetSessions(sampleSessions())
	l.MoveDown()
	l.MoveDown()

	l.SetSessions(sampleSessions()[:1])
	assert.Equal(t, 0, l.Selected())

	l.SetSessions(nil)
	assert.Equal(t, 0, l.Selected())
	assert.Nil(t, l.SelectedSession())
}

func TestSessionList_View(t *testing.T) {
	l := NewSessionList(nil)
	assert.Contains(t, l.View(), "No stored sessions")

	l.SetSessions(sampleSessions())
	view := l.View()

	assert.Contains(t, view, "Sessions (3)")
	assert.Contains(t, view, "What is asthma?")
	assert.Contains(t, view, "(untitled)")
	assert.Contains(t, view, "2026-03-01 09:30")
}

func TestSessionList_View_ScrollsToSelection(t *testing.T) {
	l := NewSessionList(nil)
	l.SetDimensions(80, 3)
	l.SetSessions(sampleSessions())
	l.MoveDown()
	l.MoveDown()

	view := l.View()

	assert.NotContains(t, view, "What is asthma?")
	assert.Contains(t, view, "(untitled)")
}
