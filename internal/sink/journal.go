package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.home.luguber.info/inful/pagegen/internal/eventstore"
	"git.home.luguber.info/inful/pagegen/internal/metrics"
	"git.home.luguber.info/inful/pagegen/internal/pagegen"
)

// Writer is implemented by sinks that can tell whether an emission changed
// anything.
type Writer interface {
	Write(ctx context.Context, page pagegen.PageDescriptor) (bool, error)
}

// JournalSink forwards descriptors to another sink and appends one journal
// event per emission, under a fixed run ID.
type JournalSink struct {
	next  pagegen.PageSink
	store eventstore.Store
	runID string
}

// NewJournalSink wraps next.
func NewJournalSink(next pagegen.PageSink, store eventstore.Store, runID string) *JournalSink {
	return &JournalSink{next: next, store: store, runID: runID}
}

// RunID returns the run ID the journal entries are recorded under.
func (j *JournalSink) RunID() string { return j.runID }

// Begin records the start of a pass over the given number of rules.
func (j *JournalSink) Begin(ctx context.Context, rules int) error {
	return j.append(ctx, eventstore.TypePassStarted, eventstore.PassStarted{Rules: rules})
}

// Emit implements pagegen.PageSink.
func (j *JournalSink) Emit(ctx context.Context, page pagegen.PageDescriptor) error {
	written := true
	if w, ok := j.next.(Writer); ok {
		var err error
		if written, err = w.Write(ctx, page); err != nil {
			return err
		}
	} else if err := j.next.Emit(ctx, page); err != nil {
		return err
	}
	return j.append(ctx, eventstore.TypePageEmitted, eventstore.PageEmitted{
		Rule:     page.Rule,
		Level:    string(page.Level),
		Path:     page.Path,
		Template: page.Template,
		URL:      page.URL(),
		Written:  written,
	})
}

// Finish records the diagnostics and outcome of a pass. passErr is the error
// returned by Generate, if any.
func (j *JournalSink) Finish(ctx context.Context, report *pagegen.Report, passErr error) error {
	if report == nil {
		report = &pagegen.Report{}
	}
	for _, d := range report.Diagnostics {
		if err := j.append(ctx, eventstore.TypeRuleSkipped, eventstore.RuleSkipped{Rule: d.Rule, Message: d.Message}); err != nil {
			return err
		}
	}
	done := eventstore.PassCompleted{
		Pages:      report.Pages(),
		Skipped:    report.SkippedRules(),
		Outcome:    string(report.Outcome()),
		DurationMS: float64(report.Duration) / float64(time.Millisecond),
	}
	switch {
	case errors.Is(passErr, context.Canceled), errors.Is(passErr, context.DeadlineExceeded):
		done.Outcome = string(metrics.OutcomeCanceled)
		done.Error = passErr.Error()
	case passErr != nil:
		done.Outcome = string(metrics.OutcomeFailed)
		done.Error = passErr.Error()
	}
	return j.append(ctx, eventstore.TypePassCompleted, done)
}

func (j *JournalSink) append(ctx context.Context, eventType string, payload any) error {
	e, err := eventstore.NewEvent(j.runID, eventType, payload)
	if err != nil {
		return err
	}
	if err := j.store.Append(ctx, e); err != nil {
		return fmt.Errorf("journal %s: %w", eventType, err)
	}
	return nil
}
