// Command healthrag answers medical questions from a local corpus, PubMed and
// the WHO Global Health Observatory.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/healthrag/internal/adapters/driven/ai"
	"github.com/custodia-labs/healthrag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/healthrag/internal/adapters/driven/metrics"
	"github.com/custodia-labs/healthrag/internal/adapters/driven/sources/local"
	"github.com/custodia-labs/healthrag/internal/adapters/driven/sources/pubmed"
	"github.com/custodia-labs/healthrag/internal/adapters/driven/sources/who"
	"github.com/custodia-labs/healthrag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/healthrag/internal/adapters/driving/cli"
	"github.com/custodia-labs/healthrag/internal/core/domain"
	"github.com/custodia-labs/healthrag/internal/core/ports/driven"
	"github.com/custodia-labs/healthrag/internal/core/services"
	"github.com/custodia-labs/healthrag/internal/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("open prompts: %w", err)
	}

	cli.SetVersion(version)
	cli.SetSettingsService(settingsService)

	collector := metrics.NewCollector(true)
	cli.SetMetricsHandler(collector.Handler())

	llm, err := ai.CreateLLMService(&settings.LLM)
	switch {
	case err != nil:
		cli.SetAskService(nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err))
	case llm == nil:
		cli.SetAskService(nil, fmt.Errorf("%w: run 'healthrag settings llm' to configure a provider",
			domain.ErrLLMUnavailable))
	default:
		defer llm.Close()

		sources, err := buildSources(ctx, settings)
		if err != nil {
			return err
		}

		synthesizer := services.NewSynthesizer(llm)
		synthesizer.SetPromptStore(prompts)

		orchestrator := services.NewOrchestrator(sources, synthesizer)
		orchestrator.SetSourceTimeout(settings.Orchestrator.SourceTimeout)
		orchestrator.SetDefaultStrategy(settings.Orchestrator.Strategy)
		orchestrator.SetObserver(collector)

		cli.SetAskService(orchestrator, nil)
		cli.SetConversationService(services.NewConversationService(orchestrator, store.HistoryStore()))
	}

	return cli.Root().ExecuteContext(ctx)
}

// buildSources creates the knowledge sources in registration order:
// local corpus, literature, health authority.
func buildSources(ctx context.Context, settings *domain.AppSettings) ([]driven.KnowledgeSource, error) {
	corpus, err := local.NewSource(settings.Sources.CorpusPath)
	if err != nil {
		return nil, fmt.Errorf("local corpus: %w", err)
	}
	go func() {
		if err := corpus.Watch(ctx); err != nil {
			logger.Debug("corpus watcher stopped: %v", err)
		}
	}()

	literature := pubmed.NewSource(pubmed.Config{
		BaseURL: settings.Sources.PubMedBaseURL,
		Email:   settings.Sources.PubMedEmail,
		APIKey:  settings.Sources.PubMedAPIKey,
	})

	authority := who.NewSource(who.Config{
		BaseURL: settings.Sources.WHOBaseURL,
	})

	return []driven.KnowledgeSource{corpus, literature, authority}, nil
}
