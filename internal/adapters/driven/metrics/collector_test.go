package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/healthrag/internal/core/domain"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestCollector_ObserveRun(t *testing.T) {
	c := NewCollector(false)

	run := domain.NewStrategyRun(domain.StrategySequential, "asthma")
	run.Record(domain.NotFound(domain.SourceLocal))
	run.Record(domain.Found(domain.SourceLiterature, "abstract"))
	run.Elapsed = 300 * time.Millisecond
	c.ObserveRun(run)

	out := scrape(t, c)
	assert.Contains(t, out, `healthrag_runs_total{strategy="sequential"} 1`)
	assert.Contains(t, out, `healthrag_source_outcomes_total{outcome="not_found",source="local"} 1`)
	assert.Contains(t, out, `healthrag_source_outcomes_total{outcome="found",source="literature"} 1`)
	assert.Contains(t, out, `healthrag_run_duration_seconds_count{strategy="sequential"} 1`)
	assert.NotContains(t, out, `healthrag_runs_without_found_total{strategy="sequential"}`)
	assert.Contains(t, out, "healthrag_iterative_passes_count 0")
}

func TestCollector_ObserveRun_Iterative(t *testing.T) {
	c := NewCollector(false)

	run := domain.NewStrategyRun(domain.StrategyIterative, "gout")
	run.Iterations = domain.MaxPlanIterations
	run.Record(domain.TimedOut(domain.SourceAuthority))
	c.ObserveRun(run)
	c.ObserveRun(nil)

	out := scrape(t, c)
	assert.Contains(t, out, "healthrag_iterative_passes_count 1")
	assert.Contains(t, out, "healthrag_iterative_passes_sum 15")
	assert.Contains(t, out, `healthrag_runs_without_found_total{strategy="iterative"} 1`)
	assert.Contains(t, out, `healthrag_source_outcomes_total{outcome="timed_out",source="authority"} 1`)
}

func TestCollector_ObserveSynthesis(t *testing.T) {
	c := NewCollector(false)

	c.ObserveSynthesis(domain.StrategyComprehensive, nil)
	c.ObserveSynthesis(domain.StrategyComprehensive, nil)
	c.ObserveSynthesis(domain.StrategyComprehensive, errors.New("llm down"))

	out := scrape(t, c)
	assert.Contains(t, out, `healthrag_synthesis_total{status="ok",strategy="comprehensive"} 2`)
	assert.Contains(t, out, `healthrag_synthesis_total{status="error",strategy="comprehensive"} 1`)
}

func TestNewCollector_WithRuntime(t *testing.T) {
	c := NewCollector(true)

	families, err := c.registry.Gather()
	require.NoError(t, err)

	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "go_goroutines")
}

func TestNewCollector_Independent(t *testing.T) {
	a := NewCollector(false)
	b := NewCollector(false)

	a.ObserveSynthesis(domain.StrategySequential, nil)

	assert.NotContains(t, scrape(t, b), `healthrag_synthesis_total{status="ok",strategy="sequential"}`)
}
