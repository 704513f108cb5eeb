package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pagegen/internal/config"
	"git.home.luguber.info/inful/pagegen/internal/datasource"
	ferrors "git.home.luguber.info/inful/pagegen/internal/foundation/errors"
	"git.home.luguber.info/inful/pagegen/internal/layouts"
	"git.home.luguber.info/inful/pagegen/internal/logfields"
	"git.home.luguber.info/inful/pagegen/internal/pagegen"
)

// Global is passed to every command's Run method.
type Global struct {
	Logger *slog.Logger
	// Stdout receives command output meant for the user.
	Stdout io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: _config.yml, _config.yaml or _config.toml in the working directory)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Generate category pages from data files"`
	Plan     PlanCmd     `cmd:"" help:"List the pages a generation pass would write, without writing them"`
	Watch    WatchCmd    `cmd:"" help:"Regenerate pages when data, layouts or configuration change"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
	History  HistoryCmd  `cmd:"" help:"Show what a recorded generation pass did"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// site is an immutable snapshot of everything a generation pass reads.
type site struct {
	cfg     *config.Config
	data    *datasource.Store
	layouts *layouts.Set
}

// loadSite loads the configuration, the data directory and the layouts. Rule
// problems are logged here; the generator reports them again per pass.
func loadSite(configPath string, logger *slog.Logger) (*site, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	for _, problem := range config.RuleProblems(cfg) {
		logger.Warn("Malformed generation rule", logfields.Error(problem))
	}

	data, err := datasource.Load(cfg.DataPath(), logger)
	if err != nil {
		return nil, ferrors.DataError("load data directory").
			WithCause(err).WithContext("dir", cfg.DataPath()).Build()
	}
	set, err := layouts.Load(cfg.LayoutsPath())
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryTemplate, "load layouts").
			Fatal().WithContext("dir", cfg.LayoutsPath()).Build()
	}
	logger.Debug("Site loaded",
		slog.String("config", cfg.Path()),
		slog.String("data_dir", data.Root()),
		slog.Int("data_files", len(data.Keys())),
		slog.String("layouts_dir", set.Dir()),
		slog.Int("layouts", len(set.Names())),
		slog.Int("rules", len(cfg.PageGenerator)))
	return &site{cfg: cfg, data: data, layouts: set}, nil
}

// generate runs one pass of s into sink.
func (s *site) generate(ctx context.Context, sink pagegen.PageSink, opts ...pagegen.Option) (*pagegen.Report, error) {
	opts = append([]pagegen.Option{pagegen.WithOutputExt(s.cfg.OutputExt)}, opts...)
	return pagegen.New(s.data, s.layouts, sink, opts...).Generate(ctx, s.cfg.PageGenerator)
}
