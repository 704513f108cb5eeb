package sink

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagegen/internal/eventstore"
	"git.home.luguber.info/inful/pagegen/internal/pagegen"
)

func newJournal(t *testing.T) *eventstore.SQLiteStore {
	t.Helper()
	store, err := eventstore.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestJournalSink_RecordsPass(t *testing.T) {
	store := newJournal(t)
	mem := NewMemorySink()
	j := NewJournalSink(mem, store, "run-1")
	ctx := t.Context()
	assert.Equal(t, "run-1", j.RunID())

	require.NoError(t, j.Begin(ctx, 2))
	p := pagegen.PageDescriptor{
		Path: "areas/x/index.html", Template: "region", Level: pagegen.LevelParent,
		Data: pagegen.Record{"parentSlug": "areas", "childSlug": "x"},
	}
	require.NoError(t, j.Emit(ctx, p))
	report := &pagegen.Report{
		Rules:       []pagegen.RuleReport{{Parents: 1}, {Skipped: true, Index: 1}},
		Diagnostics: []pagegen.Diagnostic{{Rule: 1, Message: "Templates: a and/or b not found"}},
	}
	require.NoError(t, j.Finish(ctx, report, nil))

	assert.Len(t, mem.Emitted(), 1)
	s, err := eventstore.Summarize(ctx, store, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Rules)
	require.Len(t, s.Pages, 1)
	assert.Equal(t, "areas/x/", s.Pages[0].URL)
	assert.Equal(t, "parent", s.Pages[0].Level)
	assert.True(t, s.Pages[0].Written)
	require.Len(t, s.Skipped, 1)
	assert.Equal(t, "warning", s.Outcome)
}

func TestJournalSink_UsesWriterResult(t *testing.T) {
	store := newJournal(t)
	j := NewJournalSink(NewFileSink(t.TempDir()), store, "r")
	ctx := t.Context()
	p := pagegen.PageDescriptor{Path: "a/index.html", Template: "t"}

	require.NoError(t, j.Emit(ctx, p))
	require.NoError(t, j.Emit(ctx, p))

	s, err := eventstore.Summarize(ctx, store, "r")
	require.NoError(t, err)
	require.Len(t, s.Pages, 2)
	assert.True(t, s.Pages[0].Written)
	assert.False(t, s.Pages[1].Written)
	assert.Equal(t, 1, s.Unwritten)
}

type failSink struct{}

func (failSink) Emit(context.Context, pagegen.PageDescriptor) error { return errors.New("boom") }

func TestJournalSink_DoesNotRecordFailedEmit(t *testing.T) {
	store := newJournal(t)
	j := NewJournalSink(failSink{}, store, "r")
	require.Error(t, j.Emit(t.Context(), pagegen.PageDescriptor{Path: "a/index.html"}))

	events, err := store.ByRun(t.Context(), "r")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestJournalSink_FinishWithError(t *testing.T) {
	store := newJournal(t)
	j := NewJournalSink(NewMemorySink(), store, "r")
	ctx := t.Context()

	require.NoError(t, j.Finish(ctx, nil, errors.New("disk full")))
	require.NoError(t, j.Finish(ctx, nil, context.Canceled))

	events, err := store.ByRun(ctx, "r")
	require.NoError(t, err)
	require.Len(t, events, 2)
	first, err := eventstore.Decode[eventstore.PassCompleted](events[0])
	require.NoError(t, err)
	assert.Equal(t, "failed", first.Outcome)
	assert.Equal(t, "disk full", first.Error)
	second, err := eventstore.Decode[eventstore.PassCompleted](events[1])
	require.NoError(t, err)
	assert.Equal(t, "canceled", second.Outcome)
}
