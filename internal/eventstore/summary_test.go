package eventstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	store := newMemoryStore(t)
	ctx := t.Context()

	for _, e := range []Event{
		mustEvent(t, "run", TypePassStarted, PassStarted{Rules: 2}),
		mustEvent(t, "run", TypePageEmitted, PageEmitted{Rule: 0, Level: "parent", Path: "a/x/index.html", Written: true}),
		mustEvent(t, "run", TypePageEmitted, PageEmitted{Rule: 0, Level: "child", Path: "a/x/y/index.html"}),
		mustEvent(t, "run", TypeRuleSkipped, RuleSkipped{Rule: 1, Message: "Templates: p and/or c not found"}),
		mustEvent(t, "run", TypePassCompleted, PassCompleted{Pages: 2, Skipped: 1, Outcome: "warning", DurationMS: 12.5}),
		mustEvent(t, "other", TypePageEmitted, PageEmitted{Path: "b/index.html"}),
	} {
		require.NoError(t, store.Append(ctx, e))
	}

	s, err := Summarize(ctx, store, "run")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Rules)
	require.Len(t, s.Pages, 2)
	assert.Equal(t, "a/x/y/index.html", s.Pages[1].Path)
	assert.Equal(t, 1, s.Unwritten)
	require.Len(t, s.Skipped, 1)
	assert.Contains(t, s.Skipped[0].Message, "p and/or c")
	assert.Equal(t, "warning", s.Outcome)
	assert.Equal(t, 12500*time.Microsecond, s.Duration)
	assert.True(t, s.Completed())
	assert.False(t, s.StartedAt.IsZero())
}

func TestSummarize_UnknownRun(t *testing.T) {
	s, err := Summarize(t.Context(), newMemoryStore(t), "missing")
	require.NoError(t, err)
	assert.Empty(t, s.Pages)
	assert.False(t, s.Completed())
}

func TestSummarize_CorruptPayload(t *testing.T) {
	store := newMemoryStore(t)
	require.NoError(t, store.Append(t.Context(), Event{RunID: "r", Type: TypePageEmitted, Payload: []byte("not json")}))

	_, err := Summarize(t.Context(), store, "r")
	require.Error(t, err)
}
