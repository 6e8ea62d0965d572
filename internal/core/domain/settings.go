package domain

import "time"

// AIProvider identifies an AI service provider for answer synthesis.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// OrchestratorSettings holds routing behaviour configuration.
type OrchestratorSettings struct {
	// Strategy is used when a request does not name one.
	Strategy Strategy

	// SourceTimeout bounds every individual source lookup.
	SourceTimeout time.Duration
}

// SourceSettings holds knowledge source configuration.
type SourceSettings struct {
	// CorpusPath is the local numbered-section corpus file.
	CorpusPath string

	// PubMedBaseURL is the NCBI E-utilities endpoint.
	PubMedBaseURL string

	// PubMedEmail identifies the caller to NCBI.
	PubMedEmail string

	// PubMedAPIKey raises the NCBI rate limit when set.
	PubMedAPIKey string

	// WHOBaseURL is the Global Health Observatory OData endpoint.
	WHOBaseURL string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Orchestrator holds routing settings.
	Orchestrator OrchestratorSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Sources holds knowledge source settings.
	Sources SourceSettings
}

// Default source endpoints and limits.
const (
	DefaultSourceTimeout = 15 * time.Second
	MinSourceTimeout     = time.Second
	DefaultPubMedBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	DefaultWHOBaseURL    = "https://ghoapi.azureedge.net/api"
)

// DefaultAppSettings returns settings with sensible defaults.
// The LLM is left unconfigured by default.
// Users must explicitly configure it via settings commands.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Orchestrator: OrchestratorSettings{
			Strategy:      DefaultStrategy(),
			SourceTimeout: DefaultSourceTimeout,
		},
		LLM: LLMSettings{},
		Sources: SourceSettings{
			PubMedBaseURL: DefaultPubMedBaseURL,
			WHOBaseURL:    DefaultWHOBaseURL,
		},
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGemini,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderGemini:    "gemini-1.5-flash",
	}
}
