package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/pagegen/internal/config"
	"git.home.luguber.info/inful/pagegen/internal/eventstore"
	ferrors "git.home.luguber.info/inful/pagegen/internal/foundation/errors"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Journal string `help:"Journal database (default: journal from the configuration)"`
	RunID   string `name:"run" help:"Run ID to show (default: the most recent run)"`
}

func (h *HistoryCmd) Run(global *Global, root *CLI) error {
	ctx := context.Background()

	path := h.Journal
	if path == "" {
		cfg, err := config.Load(root.Config)
		if err != nil {
			return err
		}
		path = cfg.JournalPath()
	}
	if path == "" {
		return ferrors.ConfigError("no journal configured (set journal or pass --journal)").Fatal().Build()
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return ferrors.NewError(ferrors.CategoryJournal, "journal not found").
			Fatal().WithContext("path", path).Build()
	}

	store, err := eventstore.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runID := h.RunID
	if runID == "" {
		if runID, err = store.LatestRun(ctx); err != nil {
			return err
		}
		if runID == "" {
			_, _ = fmt.Fprintln(global.out(), "No runs recorded")
			return nil
		}
	}

	summary, err := eventstore.Summarize(ctx, store, runID)
	if err != nil {
		return err
	}
	return writeSummary(global.out(), summary)
}

func writeSummary(w io.Writer, s *eventstore.RunSummary) error {
	outcome := s.Outcome
	if !s.Completed() {
		outcome = "incomplete"
	}
	_, _ = fmt.Fprintf(w, "Run %s\n", s.RunID)
	if !s.StartedAt.IsZero() {
		_, _ = fmt.Fprintf(w, "Started:  %s\n", s.StartedAt.Format(time.RFC3339))
	}
	_, _ = fmt.Fprintf(w, "Outcome:  %s\n", outcome)
	if s.Completed() {
		_, _ = fmt.Fprintf(w, "Duration: %s\n", s.Duration)
	}
	if s.Error != "" {
		_, _ = fmt.Fprintf(w, "Error:    %s\n", s.Error)
	}
	_, _ = fmt.Fprintf(w, "Pages:    %d (%d unchanged)\n", len(s.Pages), s.Unwritten)

	if len(s.Pages) > 0 {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "\nPATH\tTEMPLATE\tWRITTEN\t")
		for _, p := range s.Pages {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%t\t\n", p.Path, p.Template, p.Written)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	for _, sk := range s.Skipped {
		_, _ = fmt.Fprintf(w, "skipped rule %d: %s\n", sk.Rule, sk.Message)
	}
	return nil
}
