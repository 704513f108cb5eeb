// Package watch reruns generation passes when site inputs change and,
// optionally, on a fixed interval. Passes never overlap.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/pagegen/internal/logfields"
)

// Pass triggers.
const (
	ReasonInitial  = "initial"
	ReasonChange   = "change"
	ReasonSchedule = "schedule"
)

// PassFunc runs one generation pass. reason is one of the Reason constants.
type PassFunc func(ctx context.Context, reason string) error

// Runner drives passes from file system events and a schedule.
type Runner struct {
	pass     PassFunc
	paths    []string
	ignore   []string
	debounce time.Duration
	interval time.Duration
	logger   *slog.Logger

	// passMu serializes passes.
	passMu sync.Mutex
}

// Option configures a Runner.
type Option func(*Runner)

// WithPaths adds files or directories to watch. Directories are watched
// recursively; missing paths are skipped.
func WithPaths(paths ...string) Option {
	return func(r *Runner) { r.paths = append(r.paths, paths...) }
}

// WithIgnore excludes paths (and everything below them) from triggering
// passes. The output directory belongs here when it lives inside the site.
func WithIgnore(paths ...string) Option {
	return func(r *Runner) { r.ignore = append(r.ignore, paths...) }
}

// WithDebounce sets the quiet period after the last change before a pass.
func WithDebounce(d time.Duration) Option {
	return func(r *Runner) { r.debounce = d }
}

// WithInterval enables periodic passes.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) { r.interval = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Runner.
func New(pass PassFunc, opts ...Option) *Runner {
	r := &Runner{pass: pass, debounce: 500 * time.Millisecond, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run performs an initial pass, then watches until ctx is canceled. Pass
// failures are logged and do not stop the runner. Run returns nil on
// cancellation.
func (r *Runner) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	files := map[string]bool{}
	for _, p := range r.paths {
		if err := r.add(watcher, p, files); err != nil {
			return err
		}
	}

	if r.interval > 0 {
		scheduler, err := r.schedule(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				r.logger.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	r.Trigger(ctx, ReasonInitial)
	r.logger.Info("Watching for changes",
		logfields.Count(len(watcher.WatchList())),
		slog.Duration("debounce", r.debounce),
		slog.Duration("interval", r.interval))

	return r.loop(ctx, watcher, files)
}

// Trigger runs a pass now, waiting for any running pass to finish first.
func (r *Runner) Trigger(ctx context.Context, reason string) {
	r.passMu.Lock()
	defer r.passMu.Unlock()
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := r.pass(ctx, reason); err != nil && !errors.Is(err, context.Canceled) {
		r.logger.Error("Generation pass failed", slog.String("reason", reason), logfields.Error(err))
		return
	}
	r.logger.Debug("Generation pass finished", slog.String("reason", reason),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
}

func (r *Runner) schedule(ctx context.Context) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(func() { r.Trigger(ctx, ReasonSchedule) }),
		gocron.WithName("periodic-generation"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create periodic generation job: %w", err)
	}
	s.Start()
	return s, nil
}

func (r *Runner) loop(ctx context.Context, watcher *fsnotify.Watcher, files map[string]bool) error {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
		// Wait for a pass already started by the timer.
		r.passMu.Lock()
		defer r.passMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !r.relevant(event, files) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := r.add(watcher, event.Name, files); err != nil {
						r.logger.Warn("Cannot watch new directory", logfields.Dir(event.Name), logfields.Error(err))
					}
				}
			}
			r.logger.Debug("Change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(r.debounce, func() { r.Trigger(ctx, ReasonChange) })
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Error("File watcher error", logfields.Error(err))
		}
	}
}

// add watches p. Files are watched through their directory and filtered by
// name.
func (r *Runner) add(watcher *fsnotify.Watcher, p string, files map[string]bool) error {
	info, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		r.logger.Debug("Watch path does not exist", logfields.Path(p))
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", p, err)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", p, err)
	}
	if !info.IsDir() {
		files[abs] = true
		return watcher.Add(filepath.Dir(abs))
	}
	return filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != abs && (strings.HasPrefix(d.Name(), ".") || r.ignored(path)) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func (r *Runner) relevant(event fsnotify.Event, files map[string]bool) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	if files[name] {
		return true
	}
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") || r.ignored(name) {
		return false
	}
	// Siblings of a file watched through its directory.
	return !r.onlyFileWatch(filepath.Dir(name), files)
}

// onlyFileWatch reports whether dir is watched solely on behalf of individual
// files rather than as a watched directory tree.
func (r *Runner) onlyFileWatch(dir string, files map[string]bool) bool {
	for _, p := range r.paths {
		abs, err := filepath.Abs(p)
		if err != nil || files[abs] {
			continue
		}
		if dir == abs || strings.HasPrefix(dir, abs+string(filepath.Separator)) {
			return false
		}
	}
	for f := range files {
		if filepath.Dir(f) == dir {
			return true
		}
	}
	return false
}

func (r *Runner) ignored(path string) bool {
	for _, ig := range r.ignore {
		abs, err := filepath.Abs(ig)
		if err != nil {
			continue
		}
		if path == abs || strings.HasPrefix(path, abs+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
