package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "pagegen"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	pagesEmitted *prom.CounterVec
	rulesSkipped *prom.CounterVec
	passDuration prom.Histogram
	passOutcome  *prom.CounterVec
	sinkWrites   *prom.CounterVec
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil registry gets a fresh private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		pagesEmitted: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_emitted_total",
			Help:      "Page descriptors emitted to the sink, by hierarchy level",
		}, []string{"level"}),
		rulesSkipped: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "rules_skipped_total",
			Help:      "Generation rules skipped, by reason",
		}, []string{"reason"}),
		passDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Duration of a complete generation pass",
			Buckets:   prom.DefBuckets,
		}),
		passOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pass_outcomes_total",
			Help:      "Generation passes by final status",
		}, []string{"outcome"}),
		sinkWrites: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "sink_writes_total",
			Help:      "Page files handled by the file sink, by result (written or unchanged)",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.pagesEmitted, pr.rulesSkipped, pr.passDuration, pr.passOutcome, pr.sinkWrites)
	return pr
}

func (p *PrometheusRecorder) IncPagesEmitted(level string) {
	if p == nil {
		return
	}
	p.pagesEmitted.WithLabelValues(level).Inc()
}

func (p *PrometheusRecorder) IncRuleSkipped(reason SkipReason) {
	if p == nil {
		return
	}
	p.rulesSkipped.WithLabelValues(string(reason)).Inc()
}

func (p *PrometheusRecorder) ObservePassDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.passDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPassOutcome(outcome PassOutcome) {
	if p == nil {
		return
	}
	p.passOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveSinkWrite(written bool) {
	if p == nil {
		return
	}
	res := "unchanged"
	if written {
		res = "written"
	}
	p.sinkWrites.WithLabelValues(res).Inc()
}
