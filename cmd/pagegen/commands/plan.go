package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"git.home.luguber.info/inful/pagegen/internal/layouts"
	"git.home.luguber.info/inful/pagegen/internal/pagegen"
	"git.home.luguber.info/inful/pagegen/internal/sink"
)

// PlanCmd implements the 'plan' command.
type PlanCmd struct {
	Format string `short:"f" enum:"text,json" default:"text" help:"Output format (text, json)"`
}

// planEntry is one emission of a dry run.
type planEntry struct {
	Rule     int    `json:"rule"`
	Level    string `json:"level"`
	Path     string `json:"path"`
	Template string `json:"template"`
	// LayoutFile is the layouts directory file providing Template.
	LayoutFile string `json:"layout_file,omitempty"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	// Overwritten is set when a later emission targets the same path.
	Overwritten bool `json:"overwritten,omitempty"`
}

type planOutput struct {
	RunID string      `json:"run_id"`
	Pages []planEntry `json:"pages"`
	// Files counts distinct output paths after later emissions replace
	// earlier ones.
	Files       int      `json:"files"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

func (p *PlanCmd) Run(global *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s, err := loadSite(root.Config, global.logger())
	if err != nil {
		return err
	}
	mem := sink.NewMemorySink()
	report, err := s.generate(ctx, mem, pagegen.WithLogger(global.logger()))
	if err != nil {
		return err
	}

	plan := buildPlan(report, mem, s.layouts)
	if p.Format == "json" {
		enc := json.NewEncoder(global.out())
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}
	return writePlanText(global.out(), plan)
}

func buildPlan(report *pagegen.Report, mem *sink.MemorySink, set *layouts.Set) planOutput {
	emitted := mem.Emitted()
	last := make(map[string]int, len(emitted))
	for i, page := range emitted {
		last[page.Path] = i
	}

	plan := planOutput{
		RunID: report.RunID,
		Pages: make([]planEntry, len(emitted)),
		Files: len(mem.Final()),
	}
	for i, page := range emitted {
		layoutFile, _ := set.Path(page.Template)
		plan.Pages[i] = planEntry{
			Rule:        page.Rule,
			Level:       string(page.Level),
			Path:        page.Path,
			Template:    page.Template,
			LayoutFile:  layoutFile,
			Title:       page.Title,
			URL:         page.URL(),
			Overwritten: last[page.Path] != i,
		}
	}
	for _, d := range report.Diagnostics {
		plan.Diagnostics = append(plan.Diagnostics, d.Message)
	}
	return plan
}

func writePlanText(w io.Writer, plan planOutput) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PATH\tTEMPLATE\tURL\t")
	for _, e := range plan.Pages {
		note := ""
		if e.Overwritten {
			note = "(overwritten)"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Path, e.Template, e.URL, note)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, d := range plan.Diagnostics {
		_, _ = fmt.Fprintf(w, "skipped: %s\n", d)
	}
	_, err := fmt.Fprintf(w, "%d pages (%d files), %d skipped rules\n", len(plan.Pages), plan.Files, len(plan.Diagnostics))
	return err
}
