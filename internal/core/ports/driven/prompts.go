package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptSynthesisSystem instructs the model how to answer medical questions.
	// This prompt has no format placeholders.
	PromptSynthesisSystem = "synthesis_system"

	// PromptSynthesisQuestion wraps the question and gathered fragments.
	// The template expects %s (fragments) then %s (question).
	PromptSynthesisQuestion = "synthesis_question"
)
