package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/pagegen/internal/metrics"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Destination string `short:"d" help:"Output directory (overrides destination from the configuration)"`
	MetricsFile string `name:"metrics-file" help:"Write pass metrics to this file in Prometheus textfile format"`
	Journal     string `help:"Record the pass in this journal database (overrides journal from the configuration)"`
}

func (g *GenerateCmd) Run(global *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var reg *prom.Registry
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if g.MetricsFile != "" {
		reg = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
	}

	_, err := writePass(ctx, passOptions{
		configPath:  root.Config,
		destination: g.Destination,
		journal:     g.Journal,
		recorder:    recorder,
		logger:      global.logger(),
		out:         global.out(),
	})

	if reg != nil {
		if err := ensureParentDir(g.MetricsFile); err != nil {
			global.logger().Warn("Cannot write metrics file", "error", err)
		} else if err := metrics.WriteTextfile(g.MetricsFile, reg); err != nil {
			global.logger().Warn("Cannot write metrics file", "error", err)
		}
	}
	return err
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o750)
}
