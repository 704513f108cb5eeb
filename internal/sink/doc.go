// Package sink provides the page sinks a generation pass emits into.
//
// MemorySink keeps every descriptor in memory and is used for dry runs and
// tests. FileSink writes each page as a front matter document under a site
// destination directory. JournalSink decorates another sink and records each
// emission in the generation journal.
package sink
