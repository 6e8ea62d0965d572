package domain

import "time"

// Session is a persisted conversation.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is one stored turn of a session.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Strategy  Strategy  `json:"strategy,omitempty"`
	TermUsed  string    `json:"term_used,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Turn converts the message to a conversation turn.
func (m Message) Turn() Turn {
	return Turn{Role: m.Role, Content: m.Content}
}

// SessionTitleLength bounds titles derived from the first question.
const SessionTitleLength = 60

// SessionTitle derives a title from the opening question.
func SessionTitle(query string) string {
	runes := []rune(query)
	if len(runes) <= SessionTitleLength {
		return query
	}
	return string(runes[:SessionTitleLength-3]) + "..."
}
