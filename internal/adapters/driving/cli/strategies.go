package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/healthrag/internal/core/domain"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List orchestration strategies",
	Args:  cobra.NoArgs,
	RunE:  runStrategies,
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
}

func runStrategies(cmd *cobra.Command, _ []string) error {
	catalogue := domain.StrategyCatalogue()
	if askService != nil {
		catalogue = askService.Strategies()
	}

	current := domain.DefaultStrategy()
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			current = settings.Orchestrator.Strategy
		}
	}

	for _, info := range catalogue {
		marker := " "
		if info.Name == current {
			marker = "*"
		}
		cmd.Printf("%s %-14s %s\n", marker, info.Name, info.Description)

		sources := make([]string, len(info.Sources))
		for i, s := range info.Sources {
			sources[i] = s.String()
		}
		cmd.Printf("    sources: %s  speed: %s  accuracy: %s\n", strings.Join(sources, ", "), info.Speed, info.Accuracy)
		if len(info.Aliases) > 0 {
			cmd.Printf("    also accepted as: %s\n", strings.Join(info.Aliases, ", "))
		}
	}
	cmd.Println()
	cmd.Println("* default. Change it with 'healthrag settings strategy <name>'.")
	return nil
}
