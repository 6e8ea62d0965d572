package domain

const unknownDescription = "Unknown"

// SourceName identifies a knowledge source consulted by the orchestrator.
type SourceName string

// Known knowledge sources.
const (
	// SourceLocal is the curated on-disk corpus.
	SourceLocal SourceName = "local"

	// SourceLiterature is the biomedical literature search service.
	SourceLiterature SourceName = "literature"

	// SourceAuthority is the public health authority service.
	SourceAuthority SourceName = "authority"
)

// IsValid returns true if the source name is recognised.
func (n SourceName) IsValid() bool {
	switch n {
	case SourceLocal, SourceLiterature, SourceAuthority:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (n SourceName) String() string {
	return string(n)
}

// Description returns a human-readable description of the source.
func (n SourceName) Description() string {
	switch n {
	case SourceLocal:
		return "Local medical corpus"
	case SourceLiterature:
		return "PubMed literature search"
	case SourceAuthority:
		return "WHO Global Health Observatory"
	default:
		return unknownDescription
	}
}

// AllSources returns every knowledge source in registration order.
func AllSources() []SourceName {
	return []SourceName{
		SourceLocal,
		SourceLiterature,
		SourceAuthority,
	}
}

// OutcomeKind classifies the result of a single source lookup.
type OutcomeKind string

// Outcome kinds.
const (
	// OutcomeFound means the source returned usable text.
	OutcomeFound OutcomeKind = "found"

	// OutcomeNotFound means the source answered but had nothing for the term.
	OutcomeNotFound OutcomeKind = "not_found"

	// OutcomeError means the source failed.
	OutcomeError OutcomeKind = "error"

	// OutcomeTimedOut means the source exceeded its deadline.
	OutcomeTimedOut OutcomeKind = "timed_out"
)

// String returns the string representation.
func (k OutcomeKind) String() string {
	return string(k)
}

// SourceOutcome is the classified result of one adapter invocation.
// It is a value type: once produced it is never modified.
type SourceOutcome struct {
	// Source is the provenance of the outcome.
	Source SourceName `json:"source"`

	// Kind is the classification.
	Kind OutcomeKind `json:"kind"`

	// Text is the payload for Found outcomes.
	Text string `json:"text,omitempty"`

	// Message describes the failure for Error and TimedOut outcomes.
	Message string `json:"message,omitempty"`
}

// Found returns a Found outcome carrying text.
func Found(source SourceName, text string) SourceOutcome {
	return SourceOutcome{Source: source, Kind: OutcomeFound, Text: text}
}

// NotFound returns a NotFound outcome.
func NotFound(source SourceName) SourceOutcome {
	return SourceOutcome{Source: source, Kind: OutcomeNotFound}
}

// Failed returns an Error outcome with a message.
func Failed(source SourceName, message string) SourceOutcome {
	return SourceOutcome{Source: source, Kind: OutcomeError, Message: message}
}

// TimedOut returns a TimedOut outcome.
func TimedOut(source SourceName) SourceOutcome {
	return SourceOutcome{Source: source, Kind: OutcomeTimedOut, Message: "deadline exceeded"}
}

// IsFound returns true if the outcome carries usable text.
func (o SourceOutcome) IsFound() bool {
	return o.Kind == OutcomeFound
}

// IsFailure returns true for Error and TimedOut outcomes.
func (o SourceOutcome) IsFailure() bool {
	return o.Kind == OutcomeError || o.Kind == OutcomeTimedOut
}
