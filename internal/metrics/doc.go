// Package metrics provides observability hooks for generation passes.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics never require nil checks at call sites:
//
//	gen := pagegen.New(source, layouts, sink, pagegen.WithRecorder(metrics.NoopRecorder{}))
//
// PrometheusRecorder registers real collectors on a registry. The CLI exposes
// that registry either through HTTPHandler (watch mode) or by writing a
// node-exporter textfile after a one-shot pass (WriteTextfile).
package metrics
