package domain

import "time"

// StrategyRun is the state shared by one orchestration run.
// It is local to a single request and never persisted.
type StrategyRun struct {
	// Strategy is the algorithm that produced the run.
	Strategy Strategy `json:"strategy"`

	// Term is the search term every source was queried with.
	Term string `json:"term"`

	// Outcomes is the ordered list of classified lookups.
	Outcomes []SourceOutcome `json:"outcomes"`

	// Iterations counts plan passes for the iterative strategy.
	Iterations int `json:"iterations,omitempty"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the wall time spent querying sources.
	Elapsed time.Duration `json:"elapsed"`
}

// NewStrategyRun starts an empty run.
func NewStrategyRun(strategy Strategy, term string) *StrategyRun {
	return &StrategyRun{
		Strategy:  strategy,
		Term:      term,
		StartedAt: time.Now(),
	}
}

// Record appends an outcome.
func (r *StrategyRun) Record(o SourceOutcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Found returns the Found outcomes in recording order.
func (r *StrategyRun) Found() []SourceOutcome {
	var found []SourceOutcome
	for _, o := range r.Outcomes {
		if o.IsFound() {
			found = append(found, o)
		}
	}
	return found
}

// HasFound returns true if any source produced text.
func (r *StrategyRun) HasFound() bool {
	for _, o := range r.Outcomes {
		if o.IsFound() {
			return true
		}
	}
	return false
}

// Attempted returns true if the source has been queried in this run.
func (r *StrategyRun) Attempted(source SourceName) bool {
	return r.CallCount(source) > 0
}

// CallCount returns how many times the source was queried.
func (r *StrategyRun) CallCount(source SourceName) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Source == source {
			n++
		}
	}
	return n
}

// Last returns the most recent outcome.
func (r *StrategyRun) Last() (SourceOutcome, bool) {
	if len(r.Outcomes) == 0 {
		return SourceOutcome{}, false
	}
	return r.Outcomes[len(r.Outcomes)-1], true
}

// Finish stamps the elapsed time.
func (r *StrategyRun) Finish() {
	r.Elapsed = time.Since(r.StartedAt)
}
