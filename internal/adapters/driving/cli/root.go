// Package cli implements the healthrag command line.
package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/healthrag/internal/core/ports/driving"
	"github.com/custodia-labs/healthrag/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

var (
	verbose  bool
	logLevel string
)

// Services wired in by the composition root.
var (
	askService          driving.AskService
	conversationService driving.ConversationService
	settingsService     driving.SettingsService
	metricsHandler      http.Handler

	// askUnavailable explains why askService is nil, e.g. no LLM configured.
	askUnavailable error
)

var rootCmd = &cobra.Command{
	Use:   "healthrag",
	Short: "Answer medical questions from local and public sources",
	Long: `healthrag answers free-text medical questions by consulting a local
curated corpus, PubMed and the WHO Global Health Observatory, then asking
a language model to synthesise one answer with a medical disclaimer.

Get started:
  healthrag settings llm           # choose a language model
  healthrag ask "what causes hypertension?"`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if logLevel != "" {
			level, err := logger.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger.SetLevel(level)
		}
		if verbose {
			logger.SetVerbose(true)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print orchestration details to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log threshold: debug, info, warn or error")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Root returns the root command, for callers that need ExecuteContext.
func Root() *cobra.Command {
	return rootCmd
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetAskService sets the stateless ask service.
// err records why the service is missing when s is nil.
func SetAskService(s driving.AskService, err error) {
	askService = s
	askUnavailable = err
}

// SetConversationService sets the session-aware ask service.
func SetConversationService(s driving.ConversationService) {
	conversationService = s
}

// SetSettingsService sets the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetMetricsHandler sets the handler served at /metrics by 'mcp serve --port'.
func SetMetricsHandler(h http.Handler) {
	metricsHandler = h
}

func requireAsk() error {
	if askService != nil {
		return nil
	}
	if askUnavailable != nil {
		return fmt.Errorf("ask service not configured: %w", askUnavailable)
	}
	return fmt.Errorf("ask service not configured")
}
