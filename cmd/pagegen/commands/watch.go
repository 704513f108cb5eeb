package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/pagegen/internal/config"
	"git.home.luguber.info/inful/pagegen/internal/metrics"
	"git.home.luguber.info/inful/pagegen/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Every       time.Duration `help:"Also regenerate on this interval (overrides watch.every)"`
	Debounce    time.Duration `help:"Quiet period after a change before regenerating (overrides watch.debounce)"`
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address (e.g. :9464)"`
	Destination string        `short:"d" help:"Output directory (overrides destination from the configuration)"`
}

func (w *WatchCmd) Run(global *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	logger := global.logger()

	// Watched paths come from the configuration at startup. Each pass reloads
	// everything, so only directory moves need a restart.
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	debounce, every, err := w.timings(cfg)
	if err != nil {
		return err
	}
	dest := w.Destination
	if dest == "" {
		dest = cfg.DestinationPath()
	}

	reg := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)
	if w.MetricsAddr != "" {
		stop, err := serveMetrics(ctx, w.MetricsAddr, reg)
		if err != nil {
			return err
		}
		defer stop()
		logger.Info("Serving metrics", "addr", w.MetricsAddr)
	}

	runner := watch.New(
		func(ctx context.Context, reason string) error {
			logger.Info("Regenerating", "reason", reason)
			_, err := writePass(ctx, passOptions{
				configPath:  cfg.Path(),
				destination: dest,
				recorder:    recorder,
				logger:      logger,
				out:         global.out(),
			})
			return err
		},
		watch.WithPaths(cfg.Path(), cfg.DataPath(), cfg.LayoutsPath()),
		watch.WithIgnore(dest),
		watch.WithDebounce(debounce),
		watch.WithInterval(every),
		watch.WithLogger(logger),
	)
	return runner.Run(ctx)
}

func (w *WatchCmd) timings(cfg *config.Config) (debounce, every time.Duration, err error) {
	debounce = w.Debounce
	if debounce == 0 {
		if debounce, err = cfg.Watch.DebounceDuration(); err != nil {
			return 0, 0, err
		}
	}
	every = w.Every
	if every == 0 {
		if every, err = cfg.Watch.Interval(); err != nil {
			return 0, 0, err
		}
	}
	if debounce < 0 || every < 0 {
		return 0, 0, errors.New("durations cannot be negative")
	}
	return debounce, every, nil
}

// serveMetrics starts the metrics endpoint and returns a function that shuts
// it down.
func serveMetrics(ctx context.Context, addr string, reg *prom.Registry) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = srv.Serve(ln) }()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}, nil
}
