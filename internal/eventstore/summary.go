package eventstore

import (
	"context"
	"time"
)

// RunSummary is a read model of one generation pass rebuilt from its events.
type RunSummary struct {
	RunID       string
	StartedAt   time.Time
	CompletedAt time.Time
	Rules       int
	Pages       []PageEmitted
	Skipped     []RuleSkipped
	Outcome     string
	Error       string
	Duration    time.Duration
	// Unwritten counts pages the sink found unchanged on disk.
	Unwritten int
}

// Completed reports whether the pass-completed event was recorded.
func (s *RunSummary) Completed() bool { return !s.CompletedAt.IsZero() }

// Summarize folds the events of runID into a RunSummary. An unknown run
// yields a summary with no pages and no outcome.
func Summarize(ctx context.Context, store Store, runID string) (*RunSummary, error) {
	events, err := store.ByRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	summary := &RunSummary{RunID: runID}
	for _, e := range events {
		if err := summary.apply(e); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

func (s *RunSummary) apply(e Event) error {
	switch e.Type {
	case TypePassStarted:
		p, err := Decode[PassStarted](e)
		if err != nil {
			return err
		}
		s.StartedAt = e.Timestamp
		s.Rules = p.Rules
	case TypePageEmitted:
		p, err := Decode[PageEmitted](e)
		if err != nil {
			return err
		}
		s.Pages = append(s.Pages, p)
		if !p.Written {
			s.Unwritten++
		}
	case TypeRuleSkipped:
		p, err := Decode[RuleSkipped](e)
		if err != nil {
			return err
		}
		s.Skipped = append(s.Skipped, p)
	case TypePassCompleted:
		p, err := Decode[PassCompleted](e)
		if err != nil {
			return err
		}
		s.CompletedAt = e.Timestamp
		s.Outcome = p.Outcome
		s.Error = p.Error
		s.Duration = time.Duration(p.DurationMS * float64(time.Millisecond))
	}
	return nil
}
