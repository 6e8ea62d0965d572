package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/healthrag/internal/core/domain"
	"github.com/custodia-labs/healthrag/internal/core/ports/driven"
	"github.com/custodia-labs/healthrag/internal/core/ports/driving"
	"github.com/custodia-labs/healthrag/internal/logger"
)

// Ensure Orchestrator implements the interface.
var _ driving.AskService = (*Orchestrator)(nil)

// Orchestrator routes a question across knowledge sources and synthesises an answer.
// It holds no per-request state; concurrent calls are independent.
type Orchestrator struct {
	sources         []driven.KnowledgeSource
	byName          map[domain.SourceName]driven.KnowledgeSource
	extractor       *TermExtractor
	synthesizer     *Synthesizer
	planner         Planner
	sourceTimeout   time.Duration
	defaultStrategy domain.Strategy
	observer        driven.RunObserver
	validate        *validator.Validate
}

// NewOrchestrator creates an orchestrator over sources, kept in the given order.
func NewOrchestrator(sources []driven.KnowledgeSource, synthesizer *Synthesizer) *Orchestrator {
	byName := make(map[domain.SourceName]driven.KnowledgeSource, len(sources))
	for _, src := range sources {
		byName[src.Name()] = src
	}

	return &Orchestrator{
		sources:         sources,
		byName:          byName,
		extractor:       NewTermExtractor(),
		synthesizer:     synthesizer,
		planner:         DefaultPlanner,
		sourceTimeout:   domain.DefaultSourceTimeout,
		defaultStrategy: domain.DefaultStrategy(),
		validate:        validator.New(),
	}
}

// SetPlanner replaces the iterative strategy's planner.
func (o *Orchestrator) SetPlanner(p Planner) {
	if p != nil {
		o.planner = p
	}
}

// SetSourceTimeout sets the deadline applied to each source lookup.
func (o *Orchestrator) SetSourceTimeout(d time.Duration) {
	if d > 0 {
		o.sourceTimeout = d
	}
}

// SetDefaultStrategy sets the strategy used when a request names none.
func (o *Orchestrator) SetDefaultStrategy(s domain.Strategy) {
	if s.IsValid() {
		o.defaultStrategy = s
	}
}

// SetObserver sets the run observer used for metrics.
func (o *Orchestrator) SetObserver(obs driven.RunObserver) {
	o.observer = obs
}

// Strategies lists the available strategies.
func (o *Orchestrator) Strategies() []domain.StrategyInfo {
	return domain.StrategyCatalogue()
}

// Ask answers a question. Source failures are absorbed; only invalid input
// and synthesis failure are returned.
func (o *Orchestrator) Ask(ctx context.Context, req domain.AskRequest) (*domain.FinalAnswer, error) {
	logger.Section("Ask")

	req.Query = strings.TrimSpace(req.Query)
	if err := o.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	strategy, err := o.resolveStrategy(req.Strategy)
	if err != nil {
		return nil, err
	}

	term := o.extractor.Extract(req.Query)
	logger.Info("Query: %q, term: %q, strategy: %s", req.Query, term, strategy)

	run := o.Gather(ctx, strategy, term)
	if o.observer != nil {
		o.observer.ObserveRun(run)
	}

	answer, err := o.synthesizer.Synthesize(ctx, req.Query, run.Outcomes, req.Context)
	if o.observer != nil {
		o.observer.ObserveSynthesis(strategy, err)
	}
	if err != nil {
		return nil, err
	}

	answer.TermUsed = term
	answer.Strategy = strategy
	answer.Run = run
	return answer, nil
}

// Gather runs strategy for term and returns the completed run record.
func (o *Orchestrator) Gather(ctx context.Context, strategy domain.Strategy, term string) *domain.StrategyRun {
	run := domain.NewStrategyRun(strategy, term)

	switch strategy {
	case domain.StrategySequential:
		o.sequential(ctx, run)
	case domain.StrategyIterative:
		o.iterative(ctx, run)
	default:
		o.comprehensive(ctx, run)
	}

	run.Finish()
	failed := 0
	for _, o := range run.Outcomes {
		if o.IsFailure() {
			failed++
		}
	}
	logger.Info("Run finished: %d outcomes, %d found, %d failed, %s",
		len(run.Outcomes), len(run.Found()), failed, run.Elapsed)
	return run
}

func (o *Orchestrator) resolveStrategy(s domain.Strategy) (domain.Strategy, error) {
	if s == "" {
		return o.defaultStrategy, nil
	}
	return domain.ParseStrategy(string(s))
}

// sequential consults the local corpus, then literature once if needed.
func (o *Orchestrator) sequential(ctx context.Context, run *domain.StrategyRun) {
	if local, ok := o.byName[domain.SourceLocal]; ok {
		outcome := o.lookup(ctx, local, run.Term)
		run.Record(outcome)
		if outcome.IsFound() {
			logger.Debug("Local corpus answered, skipping literature")
			return
		}
	}

	if lit, ok := o.byName[domain.SourceLiterature]; ok {
		run.Record(o.lookup(ctx, lit, run.Term))
	}
}

// iterative runs plan, execute, evaluate until something is found, the
// planner has nothing left, or the iteration cap is reached.
func (o *Orchestrator) iterative(ctx context.Context, run *domain.StrategyRun) {
	available := o.names()

	for run.Iterations < domain.MaxPlanIterations {
		if ctx.Err() != nil {
			logger.Warn("Iterative run cancelled: %v", ctx.Err())
			return
		}

		plan := o.planner(run, available)
		if len(plan) == 0 {
			logger.Debug("Planner returned no sources, stopping")
			return
		}

		run.Iterations++
		logger.Debug("Iteration %d: %v", run.Iterations, plan)

		for _, name := range plan {
			src, ok := o.byName[name]
			if !ok {
				run.Record(domain.Failed(name, "source not registered"))
				continue
			}
			run.Record(o.lookup(ctx, src, run.Term))
		}

		if run.HasFound() {
			return
		}
		if last, ok := run.Last(); ok {
			logger.Debug("Iteration %d unresolved, last outcome %s from %s", run.Iterations, last.Kind, last.Source)
		}
	}

	logger.Warn("Iterative run reached the %d iteration cap", domain.MaxPlanIterations)
}

// comprehensive queries every source concurrently and waits for all of them.
func (o *Orchestrator) comprehensive(ctx context.Context, run *domain.StrategyRun) {
	outcomes := make([]domain.SourceOutcome, len(o.sources))

	var wg sync.WaitGroup
	for i, src := range o.sources {
		wg.Add(1)
		go func(i int, src driven.KnowledgeSource) {
			defer wg.Done()
			outcomes[i] = o.lookup(ctx, src, run.Term)
		}(i, src)
	}
	wg.Wait()

	for _, outcome := range outcomes {
		run.Record(outcome)
	}
}

// lookup queries one source under its own deadline and classifies the result.
func (o *Orchestrator) lookup(ctx context.Context, src driven.KnowledgeSource, term string) domain.SourceOutcome {
	ctx, cancel := context.WithTimeout(ctx, o.sourceTimeout)
	defer cancel()

	start := time.Now()
	done := make(chan lookupResult, 1)
	go func() {
		outcome, err := src.Lookup(ctx, term)
		done <- lookupResult{outcome: outcome, err: err}
	}()

	var res lookupResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res = lookupResult{err: ctx.Err()}
	}

	classified := Classify(src.Name(), res.outcome, res.err)
	logger.Debug("Source %s: %s in %s", src.Name(), classified.Kind, time.Since(start))
	return classified
}

// lookupResult carries an adapter's return values across goroutines.
type lookupResult struct {
	outcome domain.SourceOutcome
	err     error
}

func (o *Orchestrator) names() []domain.SourceName {
	names := make([]domain.SourceName, len(o.sources))
	for i, src := range o.sources {
		names[i] = src.Name()
	}
	return names
}
