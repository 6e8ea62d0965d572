package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/healthrag/internal/core/domain"
)

func TestDefaultPlanner(t *testing.T) {
	available := domain.AllSources()

	t.Run("starts with local", func(t *testing.T) {
		run := domain.NewStrategyRun(domain.StrategyIterative, "asthma")

		assert.Equal(t, []domain.SourceName{domain.SourceLocal}, DefaultPlanner(run, available))
	})

	t.Run("broadens to the rest after local misses", func(t *testing.T) {
		run := domain.NewStrategyRun(domain.StrategyIterative, "asthma")
		run.Record(domain.NotFound(domain.SourceLocal))

		assert.Equal(t,
			[]domain.SourceName{domain.SourceLiterature, domain.SourceAuthority},
			DefaultPlanner(run, available))
	})

	t.Run("broadens after local errors", func(t *testing.T) {
		run := domain.NewStrategyRun(domain.StrategyIterative, "asthma")
		run.Record(domain.Failed(domain.SourceLocal, "missing corpus"))

		assert.Len(t, DefaultPlanner(run, available), 2)
	})

	t.Run("stops once found", func(t *testing.T) {
		run := domain.NewStrategyRun(domain.StrategyIterative, "asthma")
		run.Record(domain.Found(domain.SourceLocal, "body"))

		assert.Empty(t, DefaultPlanner(run, available))
	})

	t.Run("stops once everything was tried", func(t *testing.T) {
		run := domain.NewStrategyRun(domain.StrategyIterative, "asthma")
		for _, name := range available {
			run.Record(domain.NotFound(name))
		}

		assert.Empty(t, DefaultPlanner(run, available))
	})

	t.Run("without local source", func(t *testing.T) {
		run := domain.NewStrategyRun(domain.StrategyIterative, "asthma")

		assert.Equal(t,
			[]domain.SourceName{domain.SourceLiterature},
			DefaultPlanner(run, []domain.SourceName{domain.SourceLiterature}))
	})
}
