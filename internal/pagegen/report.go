package pagegen

import (
	"time"

	"git.home.luguber.info/inful/pagegen/internal/metrics"
)

// Report summarizes one generation pass.
type Report struct {
	RunID       string
	StartedAt   time.Time
	Duration    time.Duration
	Rules       []RuleReport
	Diagnostics []Diagnostic
}

// RuleReport holds per-rule counts.
type RuleReport struct {
	Index    int
	DataFile string
	Parents  int
	Children int
	// SkippedRecords counts records without a display name.
	SkippedRecords int
	// Skipped is set when the rule produced no pages because of a
	// configuration problem.
	Skipped bool
}

// Diagnostic is a non-fatal, human-readable problem found during a pass.
type Diagnostic struct {
	Rule    int
	Message string
	Err     error
}

func (d Diagnostic) String() string { return d.Message }

// Pages returns the number of descriptors emitted in the pass.
func (r *Report) Pages() int {
	total := 0
	for _, rr := range r.Rules {
		total += rr.Parents + rr.Children
	}
	return total
}

// SkippedRules returns the number of rules skipped for configuration problems.
func (r *Report) SkippedRules() int {
	n := 0
	for _, rr := range r.Rules {
		if rr.Skipped {
			n++
		}
	}
	return n
}

// Outcome classifies a completed pass.
func (r *Report) Outcome() metrics.PassOutcome {
	if len(r.Diagnostics) > 0 {
		return metrics.OutcomeWarning
	}
	return metrics.OutcomeSuccess
}
