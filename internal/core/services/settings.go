package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/healthrag/internal/core/domain"
	"github.com/custodia-labs/healthrag/internal/core/ports/driven"
	"github.com/custodia-labs/healthrag/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyStrategy      = "orchestrator.strategy"
	keySourceTimeout = "orchestrator.source_timeout"
	keyLLMProvider   = "llm.provider"
	keyLLMModel      = "llm.model"
	keyLLMBaseURL    = "llm.base_url"
	keyLLMAPIKey     = "llm.api_key"
	keyCorpusPath    = "sources.corpus_path"
	keyPubMedBaseURL = "sources.pubmed_base_url"
	keyPubMedEmail   = "sources.pubmed_email"
	keyPubMedAPIKey  = "sources.pubmed_api_key"
	keyWHOBaseURL    = "sources.who_base_url"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Orchestrator: domain.OrchestratorSettings{
			Strategy:      s.getStrategy(defaults.Orchestrator.Strategy),
			SourceTimeout: s.getSeconds(keySourceTimeout, defaults.Orchestrator.SourceTimeout),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Sources: domain.SourceSettings{
			CorpusPath:    s.configStore.GetString(keyCorpusPath),
			PubMedBaseURL: s.getString(keyPubMedBaseURL, defaults.Sources.PubMedBaseURL),
			PubMedEmail:   s.configStore.GetString(keyPubMedEmail),
			PubMedAPIKey:  s.configStore.GetString(keyPubMedAPIKey),
			WHOBaseURL:    s.getString(keyWHOBaseURL, defaults.Sources.WHOBaseURL),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Timeouts are stored in whole seconds.
	timeout := settings.Orchestrator.SourceTimeout
	if timeout < domain.MinSourceTimeout {
		return fmt.Errorf("%w: source timeout must be at least %s, got %s",
			domain.ErrInvalidInput, domain.MinSourceTimeout, timeout)
	}

	// Save orchestrator settings
	if err := s.configStore.Set(keyStrategy, settings.Orchestrator.Strategy.String()); err != nil {
		return fmt.Errorf("save strategy: %w", err)
	}
	if err := s.configStore.Set(keySourceTimeout, int(timeout.Round(time.Second)/time.Second)); err != nil {
		return fmt.Errorf("save source timeout: %w", err)
	}

	// Save LLM settings
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	// Save source settings
	if err := s.configStore.Set(keyCorpusPath, settings.Sources.CorpusPath); err != nil {
		return fmt.Errorf("save corpus path: %w", err)
	}
	if err := s.configStore.Set(keyPubMedBaseURL, settings.Sources.PubMedBaseURL); err != nil {
		return fmt.Errorf("save pubmed base_url: %w", err)
	}
	if err := s.configStore.Set(keyPubMedEmail, settings.Sources.PubMedEmail); err != nil {
		return fmt.Errorf("save pubmed email: %w", err)
	}
	if settings.Sources.PubMedAPIKey != "" {
		if err := s.configStore.Set(keyPubMedAPIKey, settings.Sources.PubMedAPIKey); err != nil {
			return fmt.Errorf("save pubmed api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyWHOBaseURL, settings.Sources.WHOBaseURL); err != nil {
		return fmt.Errorf("save who base_url: %w", err)
	}

	return nil
}

// SetStrategy updates the default strategy.
func (s *SettingsService) SetStrategy(strategy domain.Strategy) error {
	if !strategy.IsValid() {
		return fmt.Errorf("invalid strategy: %s", strategy)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Orchestrator.Strategy = strategy
	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		defaults := domain.DefaultLLMModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.LLM.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetCorpusPath sets the local corpus file.
func (s *SettingsService) SetCorpusPath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: corpus path is empty", domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Sources.CorpusPath = path
	return s.Save(settings)
}

// Validate checks if current settings can answer questions.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Orchestrator.Strategy.IsValid() {
		return fmt.Errorf("invalid strategy: %s", settings.Orchestrator.Strategy)
	}

	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: run 'healthrag settings llm' to configure a provider", domain.ErrLLMUnavailable)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Second
}

func (s *SettingsService) getStrategy(defaultVal domain.Strategy) domain.Strategy {
	val := s.configStore.GetString(keyStrategy)
	if val == "" {
		return defaultVal
	}
	strategy, err := domain.ParseStrategy(val)
	if err != nil {
		return defaultVal
	}
	return strategy
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
