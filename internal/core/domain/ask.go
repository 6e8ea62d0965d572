package domain

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Turn is one prior message in a conversation, oldest first.
type Turn struct {
	Role    Role   `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content"`
}

// AskRequest is a single question submitted to the orchestrator.
type AskRequest struct {
	// Query is the raw user question.
	Query string `json:"query" validate:"required"`

	// Strategy selects the orchestration algorithm.
	// Empty selects DefaultStrategy.
	Strategy Strategy `json:"strategy,omitempty"`

	// Context holds prior turns, oldest first.
	Context []Turn `json:"context,omitempty" validate:"dive"`
}

// FinalAnswer is the synthesised reply for a query.
type FinalAnswer struct {
	// Text is the answer shown to the user.
	Text string `json:"text"`

	// TermUsed is the search term the sources were queried with.
	TermUsed string `json:"term_used"`

	// Strategy is the algorithm that gathered the fragments.
	Strategy Strategy `json:"strategy"`

	// Run is the diagnostic record of the orchestration.
	Run *StrategyRun `json:"-"`
}
