// Package eventstore records what each generation pass did: one row per
// emitted page, skipped rule and pass boundary, grouped by run ID.
package eventstore

import "context"

// Store persists and retrieves journal events.
type Store interface {
	// Append adds an event to the journal.
	Append(ctx context.Context, e Event) error

	// ByRun returns the events of one run in insertion order.
	ByRun(ctx context.Context, runID string) ([]Event, error)

	// LatestRun returns the run ID of the most recently appended event, or ""
	// for an empty journal.
	LatestRun(ctx context.Context) (string, error)

	// Close releases the underlying database.
	Close() error
}
