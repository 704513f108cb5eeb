package pagegen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/google/uuid"

	ferrors "git.home.luguber.info/inful/pagegen/internal/foundation/errors"
	"git.home.luguber.info/inful/pagegen/internal/logfields"
	"git.home.luguber.info/inful/pagegen/internal/metrics"
	"git.home.luguber.info/inful/pagegen/internal/slug"
)

// Generator runs generation passes against injected collaborators. It holds
// no state between passes and defines no locking: callers that share one
// Generator across goroutines must serialize Generate calls.
type Generator struct {
	source    RecordSource
	templates TemplateResolver
	sink      PageSink
	logger    *slog.Logger
	recorder  metrics.Recorder
	ext       string
	newRunID  func() string
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithOutputExt sets the page file extension (without the dot).
func WithOutputExt(ext string) Option {
	return func(g *Generator) {
		if ext != "" {
			g.ext = ext
		}
	}
}

// WithRunID overrides run ID generation.
func WithRunID(fn func() string) Option {
	return func(g *Generator) {
		if fn != nil {
			g.newRunID = fn
		}
	}
}

// New creates a Generator.
func New(source RecordSource, templates TemplateResolver, sink PageSink, opts ...Option) *Generator {
	g := &Generator{
		source:    source,
		templates: templates,
		sink:      sink,
		logger:    slog.Default(),
		recorder:  metrics.NoopRecorder{},
		ext:       DefaultOutputExt,
		newRunID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs one pass over rules in the order given. Later rules may write
// to the same directories as earlier ones; their descriptors reach the sink
// later and therefore win.
//
// Rules with configuration problems are skipped and reported in the returned
// Report's diagnostics. A failure of the record source or the sink, or a
// canceled context, aborts the pass; the partial report is returned together
// with the error.
func (g *Generator) Generate(ctx context.Context, rules []Rule) (*Report, error) {
	report := &Report{RunID: g.newRunID(), StartedAt: time.Now()}
	logger := g.logger.With(logfields.RunID(report.RunID))
	logger.Debug("Starting generation pass", logfields.Count(len(rules)))

	err := g.run(ctx, logger, rules, report)
	report.Duration = time.Since(report.StartedAt)
	g.recorder.ObservePassDuration(report.Duration)

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		g.recorder.IncPassOutcome(metrics.OutcomeCanceled)
		logger.Warn("Generation pass canceled", logfields.Count(report.Pages()))
		return report, err
	case err != nil:
		g.recorder.IncPassOutcome(metrics.OutcomeFailed)
		logger.Error("Generation pass failed", logfields.Error(err))
		return report, err
	}

	g.recorder.IncPassOutcome(report.Outcome())
	logger.Info("Generation pass complete",
		slog.Int("pages", report.Pages()),
		slog.Int("skipped_rules", report.SkippedRules()),
		logfields.DurationMS(float64(report.Duration.Microseconds())/1000))
	return report, nil
}

func (g *Generator) run(ctx context.Context, logger *slog.Logger, rules []Rule, report *Report) error {
	for i, rule := range rules {
		rr := RuleReport{Index: i, DataFile: rule.DataFile}
		err := g.generateRule(ctx, logger.With(logfields.Rule(i), logfields.DataFile(rule.DataFile)), i, rule, &rr, report)
		report.Rules = append(report.Rules, rr)
		if err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) generateRule(ctx context.Context, logger *slog.Logger, index int, rule Rule, rr *RuleReport, report *Report) error {
	ruleCtx := ferrors.ErrorContext{"rule": index, "data_file": rule.DataFile}
	resolved, err := rule.Resolve()
	if err != nil {
		rr.Skipped = true
		g.recorder.IncRuleSkipped(metrics.SkipInvalidRule)
		cerr := ferrors.ConfigError("invalid generation rule").
			WithCause(err).
			WithContextMap(ruleCtx).
			Build()
		report.Diagnostics = append(report.Diagnostics, Diagnostic{
			Rule:    index,
			Message: fmt.Sprintf("%s: %v", ruleLabel(index, rule.DataFile), err),
			Err:     cerr,
		})
		logger.Error("Invalid generation rule, skipping", logfields.Error(err))
		return nil
	}

	if !g.templates.Has(resolved.ParentTemplate) || !g.templates.Has(resolved.ChildTemplate) {
		rr.Skipped = true
		g.recorder.IncRuleSkipped(metrics.SkipMissingTemplate)
		msg := fmt.Sprintf("Templates: %s and/or %s not found", resolved.ParentTemplate, resolved.ChildTemplate)
		cerr := ferrors.ConfigError("templates not found").
			WithContextMap(ruleCtx).
			WithContext("parent_template", resolved.ParentTemplate).
			WithContext("child_template", resolved.ChildTemplate).
			Build()
		report.Diagnostics = append(report.Diagnostics, Diagnostic{
			Rule:    index,
			Message: ruleLabel(index, resolved.DataFile) + ": " + msg,
			Err:     cerr,
		})
		logger.Error(msg,
			slog.String("parent_template", resolved.ParentTemplate),
			slog.String("child_template", resolved.ChildTemplate))
		return nil
	}

	value, err := g.source.Lookup(resolved.DataFile)
	if err != nil {
		return ferrors.DataError("load records").
			WithCause(err).
			WithContextMap(ruleCtx).
			Build()
	}
	categories, ok := asList(value)
	if !ok {
		logger.Debug("No records for rule")
		return nil
	}

	for _, item := range categories {
		category, ok := asRecord(item)
		if !ok {
			logger.Debug("Skipping non-record entry", slog.String("type", fmt.Sprintf("%T", item)))
			continue
		}
		if err := g.generateCategory(ctx, logger, index, resolved, category, rr); err != nil {
			return err
		}
	}
	return nil
}

// ruleLabel identifies a rule in diagnostics: its position and data file.
func ruleLabel(index int, dataFile string) string {
	return fmt.Sprintf("rule %d (%s)", index, dataFile)
}

// child is a sub-category record with its computed slug.
type child struct {
	record Record
	name   any
	token  string
}

func (g *Generator) generateCategory(ctx context.Context, logger *slog.Logger, index int, rule ResolvedRule, category Record, rr *RuleReport) error {
	name, ok := category[rule.ParentKey]
	if !ok || name == nil {
		rr.SkippedRecords++
		logger.Warn("Category has no display name, skipping", slog.String("field", rule.ParentKey))
		return nil
	}
	parentToken := g.token(logger, name)
	subDir := rule.OutDir + "/" + parentToken

	children := g.collectChildren(logger, rule, category, rr)

	data := mergeRecord(name, category, rule.OutDir, parentToken)
	// Templates of category pages link to sub-category pages through the
	// collection field, so its items carry the same slug fields as the child
	// pages they describe.
	if linked, ok := linkedCollection(category[rule.CollectionField], parentToken, children); ok {
		data[rule.CollectionField] = linked
	}

	parent := g.descriptor(index, LevelParent, subDir, rule.ParentTemplate, name, data)
	if err := g.emit(ctx, parent); err != nil {
		return err
	}
	rr.Parents++

	for _, c := range children {
		if c.record == nil {
			continue
		}
		page := g.descriptor(index, LevelChild, subDir+"/"+c.token, rule.ChildTemplate, c.name,
			mergeRecord(c.name, c.record, parentToken, c.token))
		if err := g.emit(ctx, page); err != nil {
			return err
		}
		rr.Children++
	}
	return nil
}

// collectChildren reads the category's sub-records in source order. Entries
// that are not records, or records without a display name, keep a nil record
// so they are not emitted.
func (g *Generator) collectChildren(logger *slog.Logger, rule ResolvedRule, category Record, rr *RuleReport) []child {
	items, ok := asList(category[rule.CollectionField])
	if !ok {
		return nil
	}
	children := make([]child, len(items))
	for i, item := range items {
		rec, ok := asRecord(item)
		if !ok {
			continue
		}
		name, ok := rec[rule.NameField]
		if !ok || name == nil {
			rr.SkippedRecords++
			logger.Warn("Sub-category has no display name, skipping", slog.String("field", rule.NameField))
			continue
		}
		children[i] = child{record: rec, name: name, token: g.token(logger, name)}
	}
	return children
}

func (g *Generator) emit(ctx context.Context, page PageDescriptor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := g.sink.Emit(ctx, page); err != nil {
		return ferrors.OutputError("emit page").
			WithCause(err).
			WithContext("path", page.Path).
			Build()
	}
	g.recorder.IncPagesEmitted(string(page.Level))
	return nil
}

func (g *Generator) descriptor(index int, level Level, dir, template string, name any, data Record) PageDescriptor {
	return PageDescriptor{
		Dir:      dir,
		Path:     dir + "/index." + g.ext,
		Template: template,
		Title:    displayText(name),
		Level:    level,
		Rule:     index,
		Data:     data,
	}
}

// token normalizes a display name. Values the normalizer does not accept
// (booleans, fractional numbers, ...) are normalized from their text form.
func (g *Generator) token(logger *slog.Logger, name any) string {
	token, err := slug.Value(name)
	if err == nil {
		return token
	}
	logger.Debug("Normalizing display name from its text form", slog.String("type", fmt.Sprintf("%T", name)))
	return slug.String(displayText(name))
}

// mergeRecord builds a new map: the display name as title, overridden by the
// record's own fields, overridden by the two slug fields.
func mergeRecord(name any, rec Record, parentSlug, childSlug string) Record {
	out := make(Record, len(rec)+3)
	out[FieldTitle] = name
	maps.Copy(out, rec)
	out[FieldParentSlug] = parentSlug
	out[FieldChildSlug] = childSlug
	return out
}

func linkedCollection(raw any, parentToken string, children []child) ([]any, bool) {
	items, ok := asList(raw)
	if !ok {
		return nil, false
	}
	out := make([]any, len(items))
	for i, item := range items {
		if i >= len(children) || children[i].record == nil {
			out[i] = item
			continue
		}
		linked := make(Record, len(children[i].record)+2)
		maps.Copy(linked, children[i].record)
		linked[FieldParentSlug] = parentToken
		linked[FieldChildSlug] = children[i].token
		out[i] = linked
	}
	return out, true
}
