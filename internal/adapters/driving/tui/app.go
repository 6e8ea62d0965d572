package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/healthrag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/healthrag/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/healthrag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/healthrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/healthrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/healthrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/healthrag/internal/core/domain"
)

// chrome is the number of rows used by the header, input and status bar.
const chrome = 6

type entryKind int

const (
	entryUser entryKind = iota
	entryAssistant
	entryError
)

// entry is one rendered block of the transcript.
type entry struct {
	kind entryKind
	text string
	meta string
}

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	input      *input.QuestionInput
	transcript viewport.Model
	sessions   *list.SessionList
	status     *status.Bar
	spinner    spinner.Model

	// strategy is applied to the next question.
	strategy domain.Strategy

	// sessionID is the active stored session, empty for a new one.
	sessionID string

	// turns holds the prior exchange when no conversation service is set.
	turns []domain.Turn

	entries []entry

	// pending is true while a question is being answered.
	pending bool

	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	strategy := domain.DefaultStrategy()
	if ports.Settings != nil {
		if settings, err := ports.Settings.Get(); err == nil && settings.Orchestrator.Strategy.IsValid() {
			strategy = settings.Orchestrator.Strategy
		}
	}

	bar := status.NewBar(s, km)
	bar.SetStrategy(strategy)

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		input:       input.NewQuestionInput(s),
		transcript:  viewport.New(80, 18),
		sessions:    list.NewSessionList(s),
		status:      bar,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		strategy:    strategy,
		currentView: messages.ViewChat,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("healthrag"),
		a.input.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		if keymap.Matches(msg.String(), a.keymap.Quit) {
			return a, tea.Quit
		}
		switch a.currentView {
		case messages.ViewSessions:
			return a.updateSessions(msg)
		case messages.ViewHelp:
			if keymap.Matches(msg.String(), a.keymap.Back) || keymap.Matches(msg.String(), a.keymap.Help) {
				a.showChat()
			}
			return a, nil
		case messages.ViewChat:
		}
		return a.updateChat(msg)

	case spinner.TickMsg:
		if !a.pending {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case messages.AnswerReceived:
		a.handleAnswer(msg)
		return a, nil

	case messages.SessionsLoaded:
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.sessions.SetSessions(msg.Sessions)
		return a, nil

	case messages.SessionOpened:
		a.handleSessionOpened(msg)
		return a, nil

	case messages.SessionDeleted:
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		if msg.ID == a.sessionID {
			a.resetConversation()
		}
		return a, a.loadSessionsCmd()

	case messages.ViewChanged:
		switch msg.View {
		case messages.ViewSessions:
			return a, a.showSessions()
		case messages.ViewHelp:
			a.currentView = messages.ViewHelp
			a.status.SetState(status.StateHelp)
		case messages.ViewChat:
			a.showChat()
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, a.keymap.Send):
		return a, a.submit()

	case keymap.Matches(key, a.keymap.CycleStrategy):
		a.cycleStrategy()
		return a, nil

	case keymap.Matches(key, a.keymap.NewSession):
		if !a.pending {
			a.resetConversation()
		}
		return a, nil

	case keymap.Matches(key, a.keymap.Sessions):
		return a, a.showSessions()

	case keymap.Matches(key, a.keymap.Help):
		a.currentView = messages.ViewHelp
		a.status.SetState(status.StateHelp)
		return a, nil

	case keymap.Matches(key, a.keymap.Back):
		a.input.Reset()
		return a, nil

	case keymap.Matches(key, a.keymap.ScrollUp), keymap.Matches(key, a.keymap.ScrollDown):
		var cmd tea.Cmd
		a.transcript, cmd = a.transcript.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) updateSessions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, a.keymap.Back):
		a.showChat()
		return a, nil

	case keymap.Matches(key, a.keymap.Select):
		selected := a.sessions.SelectedSession()
		if selected == nil {
			return a, nil
		}
		return a, a.openSessionCmd(selected.ID)

	case keymap.Matches(key, a.keymap.Delete):
		selected := a.sessions.SelectedSession()
		if selected == nil {
			return a, nil
		}
		return a, a.deleteSessionCmd(selected.ID)
	}

	var cmd tea.Cmd
	a.sessions, cmd = a.sessions.Update(msg)
	return a, cmd
}

// submit sends the current input as a question.
func (a *App) submit() tea.Cmd {
	query := a.input.Question()
	if query == "" || a.pending {
		return nil
	}

	a.input.Reset()
	a.entries = append(a.entries, entry{kind: entryUser, text: query})
	a.pending = true
	a.err = nil
	a.status.SetState(status.StateThinking)
	a.refreshTranscript()

	return tea.Batch(a.askCmd(query), a.spinner.Tick)
}

func (a *App) askCmd(query string) tea.Cmd {
	ctx := a.ctx
	strategy := a.strategy

	if conv := a.ports.Conversation; conv != nil {
		sessionID := a.sessionID
		return func() tea.Msg {
			answer, id, err := conv.Ask(ctx, sessionID, query, strategy)
			return messages.AnswerReceived{Query: query, Answer: answer, SessionID: id, Err: err}
		}
	}

	ask := a.ports.Ask
	turns := append([]domain.Turn(nil), a.turns...)
	return func() tea.Msg {
		answer, err := ask.Ask(ctx, domain.AskRequest{Query: query, Strategy: strategy, Context: turns})
		return messages.AnswerReceived{Query: query, Answer: answer, Err: err}
	}
}

func (a *App) handleAnswer(msg messages.AnswerReceived) {
	a.pending = false
	if msg.Err != nil {
		a.entries = append(a.entries, entry{kind: entryError, text: msg.Err.Error()})
		a.setError(msg.Err)
		a.refreshTranscript()
		return
	}

	a.status.Clear()
	a.entries = append(a.entries, entry{
		kind: entryAssistant,
		text: msg.Answer.Text,
		meta: answerMeta(msg.Answer.Strategy, msg.Answer.TermUsed),
	})
	if msg.SessionID != "" {
		a.sessionID = msg.SessionID
		a.status.SetSession(msg.SessionID)
	} else {
		a.turns = append(a.turns,
			domain.Turn{Role: domain.RoleUser, Content: msg.Query},
			domain.Turn{Role: domain.RoleAssistant, Content: msg.Answer.Text},
		)
	}
	a.refreshTranscript()
}

func (a *App) handleSessionOpened(msg messages.SessionOpened) {
	if msg.Err != nil {
		a.setError(msg.Err)
		return
	}

	a.entries = a.entries[:0]
	for _, m := range msg.Messages {
		if m.Role == domain.RoleUser {
			a.entries = append(a.entries, entry{kind: entryUser, text: m.Content})
			continue
		}
		a.entries = append(a.entries, entry{
			kind: entryAssistant,
			text: m.Content,
			meta: answerMeta(m.Strategy, m.TermUsed),
		})
	}
	a.turns = nil
	a.sessionID = msg.Session.ID
	a.status.SetSession(msg.Session.ID)
	a.showChat()
	a.refreshTranscript()
}

func answerMeta(strategy domain.Strategy, term string) string {
	if term == "" {
		return fmt.Sprintf("strategy: %s", strategy)
	}
	return fmt.Sprintf("strategy: %s  term: %s", strategy, term)
}

func (a *App) cycleStrategy() {
	all := domain.AllStrategies()
	next := all[0]
	for i, s := range all {
		if s == a.strategy {
			next = all[(i+1)%len(all)]
			break
		}
	}
	a.strategy = next
	a.status.SetStrategy(next)
}

func (a *App) resetConversation() {
	a.sessionID = ""
	a.turns = nil
	a.entries = nil
	a.err = nil
	a.status.SetSession("")
	a.status.Clear()
	a.refreshTranscript()
}

func (a *App) showSessions() tea.Cmd {
	if a.ports.Conversation == nil {
		a.setError(ErrConversationsDisabled)
		return nil
	}
	a.currentView = messages.ViewSessions
	a.status.SetState(status.StateSessions)
	return a.loadSessionsCmd()
}

func (a *App) showChat() {
	a.currentView = messages.ViewChat
	if a.pending {
		a.status.SetState(status.StateThinking)
		return
	}
	if a.err != nil {
		a.status.SetState(status.StateError)
		return
	}
	a.status.Clear()
}

func (a *App) setError(err error) {
	a.err = err
	a.status.SetState(status.StateError)
	a.status.SetMessage(err.Error())
}

func (a *App) loadSessionsCmd() tea.Cmd {
	conv := a.ports.Conversation
	if conv == nil {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg {
		sessions, err := conv.Sessions(ctx)
		return messages.SessionsLoaded{Sessions: sessions, Err: err}
	}
}

func (a *App) openSessionCmd(id string) tea.Cmd {
	conv := a.ports.Conversation
	ctx := a.ctx
	return func() tea.Msg {
		session, msgs, err := conv.Session(ctx, id)
		return messages.SessionOpened{Session: session, Messages: msgs, Err: err}
	}
}

func (a *App) deleteSessionCmd(id string) tea.Cmd {
	conv := a.ports.Conversation
	ctx := a.ctx
	return func() tea.Msg {
		return messages.SessionDeleted{ID: id, Err: conv.DeleteSession(ctx, id)}
	}
}

// SetDimensions resizes every component to the terminal.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height

	body := height - chrome
	if body < 3 {
		body = 3
	}
	a.transcript.Width = width
	a.transcript.Height = body
	a.sessions.SetDimensions(width, body)
	a.input.SetWidth(width)
	a.status.SetWidth(width)
	a.refreshTranscript()
}

func (a *App) refreshTranscript() {
	a.transcript.SetContent(a.renderTranscript())
	a.transcript.GotoBottom()
}

func (a *App) renderTranscript() string {
	if len(a.entries) == 0 {
		return a.styles.Muted.Render("Ask a health question to get started.")
	}

	width := a.transcript.Width - 2
	if width < 20 {
		width = 20
	}
	wrap := lipgloss.NewStyle().Width(width)

	blocks := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		var b strings.Builder
		switch e.kind {
		case entryUser:
			b.WriteString(a.styles.UserLabel.Render("You"))
			b.WriteString("\n")
			b.WriteString(wrap.Render(e.text))
		case entryAssistant:
			b.WriteString(a.styles.AssistantLabel.Render("healthrag"))
			b.WriteString("\n")
			b.WriteString(a.renderAnswer(wrap, e.text))
			if e.meta != "" {
				b.WriteString("\n")
				b.WriteString(a.styles.Muted.Render(e.meta))
			}
		case entryError:
			b.WriteString(a.styles.Error.Render(wrap.Render("Error: " + e.text)))
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// disclaimerPrefix starts the closing disclaimer paragraph of an answer.
const disclaimerPrefix = "Disclaimer:"

// renderAnswer highlights the closing disclaimer paragraph.
func (a *App) renderAnswer(wrap lipgloss.Style, text string) string {
	idx := strings.LastIndex(text, disclaimerPrefix)
	if idx < 0 {
		return wrap.Render(text)
	}
	body := strings.TrimRight(text[:idx], "\n ")
	out := a.styles.Warning.Render(wrap.Render(text[idx:]))
	if body != "" {
		out = wrap.Render(body) + "\n\n" + out
	}
	return out
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	header := a.styles.Title.Render("healthrag") + a.styles.Muted.Render("  multi-source medical assistant")

	var body string
	switch a.currentView {
	case messages.ViewSessions:
		body = a.sessions.View()
	case messages.ViewHelp:
		body = a.helpView()
	case messages.ViewChat:
		body = a.transcript.View()
	}

	footer := a.input.View()
	if a.pending {
		footer = a.spinner.View() + " " + a.styles.Muted.Render("thinking...")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer, a.status.View())
}

func (a *App) helpView() string {
	lines := []string{a.styles.Subtitle.Render("Keys"), ""}
	for _, group := range a.keymap.FullHelp() {
		for _, b := range group {
			h := b.Help()
			lines = append(lines, fmt.Sprintf("  %-8s %s", h.Key, a.styles.Muted.Render(h.Desc)))
		}
		lines = append(lines, "")
	}
	lines = append(lines, a.styles.Subtitle.Render("Strategies"), "")
	for _, info := range domain.StrategyCatalogue() {
		lines = append(lines, fmt.Sprintf("  %-14s %s", info.Name, a.styles.Muted.Render(info.Description)))
	}
	return strings.Join(lines, "\n")
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Strategy returns the strategy applied to the next question.
func (a *App) Strategy() domain.Strategy {
	return a.strategy
}

// SessionID returns the active session, empty for a new one.
func (a *App) SessionID() string {
	return a.sessionID
}

// Pending reports whether a question is being answered.
func (a *App) Pending() bool {
	return a.pending
}

// Err returns the last error.
func (a *App) Err() error {
	return a.err
}

// Transcript returns the rendered conversation.
func (a *App) Transcript() string {
	return a.renderTranscript()
}
