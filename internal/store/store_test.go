package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanolab/patternshop/internal/order"
	"github.com/kanolab/patternshop/internal/testutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory(
		WithIDGenerator(testutil.SequentialTokens("ev")),
		WithNow(testutil.TickingTime(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleEvent(token, step string) Event {
	return Event{
		SessionToken: token,
		CategoryID:   "c1",
		Step:         step,
		Type:         EventStepView,
		Variant:      order.VariantDP,
		State: order.SelectionState{
			Variant:      order.VariantDP,
			ProductID:    "p2",
			ProductPrice: 2880,
			ShippingID:   "express",
			Options:      []string{"insurance"},
		},
		TotalYen: 3330,
	}
}

func TestAppend_AssignsIdentitySeqAndTime(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.Append(ctx, sampleEvent("sess-a", "shipping"))
	require.NoError(t, err)
	second, err := s.Append(ctx, sampleEvent("sess-a", "confirm"))
	require.NoError(t, err)

	assert.Equal(t, "ev-1", first.ID)
	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, "ev-2", second.ID)
	assert.Equal(t, int64(2), second.Seq)
	assert.True(t, second.CreatedAt.After(first.CreatedAt))
}

func TestReadSession_RoundTripsStateAndOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Append(ctx, sampleEvent("sess-a", "products"))
	require.NoError(t, err)
	_, err = s.Append(ctx, sampleEvent("sess-b", "products"))
	require.NoError(t, err)
	_, err = s.Append(ctx, sampleEvent("sess-a", "shipping"))
	require.NoError(t, err)

	events, err := s.ReadSession(ctx, "sess-a")
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "products", events[0].Step)
	assert.Equal(t, "shipping", events[1].Step)
	assert.Less(t, events[0].Seq, events[1].Seq)

	// Stored state survives intact, including the option set.
	assert.Equal(t, sampleEvent("", "").State, events[0].State)
	assert.Equal(t, 3330, events[0].TotalYen)
}

func TestReadSession_UnknownTokenIsEmptyNotNil(t *testing.T) {
	s := openTestStore(t)

	events, err := s.ReadSession(context.Background(), "ghost")
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestSessions_Summaries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Append(ctx, sampleEvent("sess-a", "products"))
	require.NoError(t, err)
	_, err = s.Append(ctx, sampleEvent("sess-a", "shipping"))
	require.NoError(t, err)
	_, err = s.Append(ctx, sampleEvent("sess-b", "products"))
	require.NoError(t, err)

	sums, err := s.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sums, 2)

	// Most recent activity first.
	assert.Equal(t, "sess-b", sums[0].Token)
	assert.Equal(t, 1, sums[0].Events)
	assert.Equal(t, "sess-a", sums[1].Token)
	assert.Equal(t, 2, sums[1].Events)
	assert.True(t, sums[1].LastSeen.After(sums[1].FirstSeen))
}

func TestOpen_ResumesSequenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "funnel.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	ev, err := s.Append(ctx, sampleEvent("sess-a", "products"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), ev.Seq)
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	ev, err = reopened.Append(ctx, sampleEvent("sess-a", "shipping"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), ev.Seq, "sequence must resume, never restart")
}

func TestClock(t *testing.T) {
	c := NewClockAt(5)
	assert.Equal(t, int64(5), c.Current())
	assert.Equal(t, int64(6), c.Next())
	assert.Equal(t, int64(7), c.Next())
	assert.Equal(t, int64(7), c.Current())
}
