package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/pagegen/internal/eventstore"
	"git.home.luguber.info/inful/pagegen/internal/logfields"
	"git.home.luguber.info/inful/pagegen/internal/metrics"
	"git.home.luguber.info/inful/pagegen/internal/pagegen"
	"git.home.luguber.info/inful/pagegen/internal/sink"
)

// passOptions configures one file-writing generation pass.
type passOptions struct {
	configPath  string
	destination string
	journal     string
	recorder    metrics.Recorder
	logger      *slog.Logger
	out         io.Writer
}

// writePass loads a fresh site snapshot and writes its pages to disk,
// recording the pass in the journal when one is configured.
func writePass(ctx context.Context, o passOptions) (*pagegen.Report, error) {
	s, err := loadSite(o.configPath, o.logger)
	if err != nil {
		return nil, err
	}

	dest := o.destination
	if dest == "" {
		dest = s.cfg.DestinationPath()
	}
	recorder := o.recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	runID := uuid.NewString()
	var out pagegen.PageSink = sink.NewFileSink(dest, sink.WithLogger(o.logger), sink.WithRecorder(recorder))

	journalPath := o.journal
	if journalPath == "" {
		journalPath = s.cfg.JournalPath()
	}
	var journal *sink.JournalSink
	if journalPath != "" {
		store, err := openJournal(journalPath)
		if err != nil {
			return nil, err
		}
		defer func() { _ = store.Close() }()
		journal = sink.NewJournalSink(out, store, runID)
		if err := journal.Begin(ctx, len(s.cfg.PageGenerator)); err != nil {
			return nil, err
		}
		out = journal
	}

	report, passErr := s.generate(ctx, out,
		pagegen.WithLogger(o.logger),
		pagegen.WithRecorder(recorder),
		pagegen.WithRunID(func() string { return runID }))

	if journal != nil {
		// The outcome is recorded even when ctx was canceled mid-pass.
		if err := journal.Finish(context.WithoutCancel(ctx), report, passErr); err != nil {
			o.logger.Warn("Failed to record pass outcome", logfields.RunID(journal.RunID()), logfields.Error(err))
		}
	}
	if passErr != nil {
		return report, passErr
	}

	_, _ = fmt.Fprintf(o.out, "Generated %d pages into %s (%d rules skipped, run %s)\n",
		report.Pages(), dest, report.SkippedRules(), report.RunID)
	return report, nil
}

func openJournal(path string) (*eventstore.SQLiteStore, error) {
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}
	return eventstore.NewSQLiteStore(path)
}
