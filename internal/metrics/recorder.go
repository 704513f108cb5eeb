package metrics

import "time"

// PassOutcome enumerates final states of a generation pass.
type PassOutcome string

const (
	OutcomeSuccess  PassOutcome = "success"
	OutcomeWarning  PassOutcome = "warning" // at least one rule skipped
	OutcomeFailed   PassOutcome = "failed"
	OutcomeCanceled PassOutcome = "canceled"
)

// SkipReason enumerates why a rule produced no pages.
type SkipReason string

const (
	SkipInvalidRule     SkipReason = "invalid_rule"
	SkipMissingTemplate SkipReason = "missing_template"
)

// Recorder defines observability hooks for generation passes.
type Recorder interface {
	IncPagesEmitted(level string)
	IncRuleSkipped(reason SkipReason)
	ObservePassDuration(d time.Duration)
	IncPassOutcome(outcome PassOutcome)
	ObserveSinkWrite(written bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncPagesEmitted(string)            {}
func (NoopRecorder) IncRuleSkipped(SkipReason)         {}
func (NoopRecorder) ObservePassDuration(time.Duration) {}
func (NoopRecorder) IncPassOutcome(PassOutcome)        {}
func (NoopRecorder) ObserveSinkWrite(bool)             {}
