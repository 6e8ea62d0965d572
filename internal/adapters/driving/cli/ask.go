package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/healthrag/internal/core/domain"
)

var (
	askStrategy string
	askSession  string
	askJSON     bool
	askShowRun  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a medical question",
	Long: `Answers a medical question from the local corpus, PubMed and the WHO.

Strategies:
  sequential    - local corpus, then PubMed if nothing was found
  iterative     - planned lookups, stopping at the first hit (max 15 passes)
  comprehensive - all sources in parallel (default)

Use --session new to start a stored conversation and --session <id> to
continue one; earlier turns are passed to the model as context.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askStrategy, "strategy", "s", "", "orchestration strategy (default from settings)")
	askCmd.Flags().StringVar(&askSession, "session", "", "session ID to continue, or 'new'")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	askCmd.Flags().BoolVar(&askShowRun, "show-run", false, "print which sources answered")
	rootCmd.AddCommand(askCmd)
}

// askResult is the JSON form of an answer.
type askResult struct {
	Answer    string                 `json:"answer"`
	TermUsed  string                 `json:"term_used"`
	Strategy  domain.Strategy        `json:"strategy"`
	SessionID string                 `json:"session_id,omitempty"`
	Outcomes  []domain.SourceOutcome `json:"outcomes,omitempty"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))

	var strategy domain.Strategy
	if askStrategy != "" {
		s, err := domain.ParseStrategy(askStrategy)
		if err != nil {
			return err
		}
		strategy = s
	}

	var (
		answer    *domain.FinalAnswer
		sessionID string
		err       error
	)
	if askSession != "" {
		if conversationService == nil {
			return errors.New("conversation service not configured")
		}
		id := askSession
		if id == "new" {
			id = ""
		}
		answer, sessionID, err = conversationService.Ask(cmd.Context(), id, query, strategy)
	} else {
		if err := requireAsk(); err != nil {
			return err
		}
		answer, err = askService.Ask(cmd.Context(), domain.AskRequest{Query: query, Strategy: strategy})
	}
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAskJSON(cmd, answer, sessionID)
	}

	cmd.Println(answer.Text)
	if askShowRun && answer.Run != nil {
		printRun(cmd, answer.Run)
	}
	if sessionID != "" {
		cmd.Println()
		cmd.Printf("Session: %s\n", sessionID)
	}
	return nil
}

func outputAskJSON(cmd *cobra.Command, answer *domain.FinalAnswer, sessionID string) error {
	result := askResult{
		Answer:    answer.Text,
		TermUsed:  answer.TermUsed,
		Strategy:  answer.Strategy,
		SessionID: sessionID,
	}
	if askShowRun && answer.Run != nil {
		result.Outcomes = answer.Run.Outcomes
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printRun(cmd *cobra.Command, run *domain.StrategyRun) {
	cmd.Println()
	cmd.Printf("Term: %s  Strategy: %s  Elapsed: %s\n", run.Term, run.Strategy, run.Elapsed.Round(time.Millisecond))
	if run.Iterations > 0 {
		cmd.Printf("Passes: %d\n", run.Iterations)
	}
	failed := 0
	for i, o := range run.Outcomes {
		line := fmt.Sprintf("  [%d] %-10s %s", i+1, o.Source, o.Kind)
		if o.Message != "" {
			line += " (" + o.Message + ")"
		}
		if o.IsFailure() {
			failed++
		}
		cmd.Println(line)
	}
	if failed > 0 {
		cmd.Printf("Degraded: %d of %d lookups failed\n", failed, len(run.Outcomes))
	}
}
