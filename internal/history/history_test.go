package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/musicsite/internal/state"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time {
		ms++
		return time.UnixMilli(ms)
	}
}

func TestLog_PushDedupesAndMovesToFront(t *testing.T) {
	ctx := context.Background()
	l := New(state.NewMock(), WithClock(fixedClock(1000)))

	require.NoError(t, l.Push(ctx, "A", "http://x/a.mp3"))
	require.NoError(t, l.Push(ctx, "B", "http://x/b.mp3"))
	require.NoError(t, l.Push(ctx, "A again", "http://x/a.mp3"))

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "A again", entries[0].Title)
	assert.Equal(t, int64(1003), entries[0].Timestamp)
	assert.Equal(t, "http://x/b.mp3", entries[1].URL)
}

func TestLog_Bounded(t *testing.T) {
	ctx := context.Background()
	l := New(state.NewMock())

	for i := range 60 {
		require.NoError(t, l.Push(ctx, fmt.Sprint(i), fmt.Sprintf("http://x/%d", i)))
	}

	assert.Equal(t, DefaultMax, l.Len())
	assert.Equal(t, "59", l.Entries()[0].Title)
	assert.Equal(t, "10", l.Entries()[DefaultMax-1].Title)
}

func TestLog_SavesLocalStorageFormat(t *testing.T) {
	ctx := context.Background()
	store := state.NewMock()
	l := New(store, WithClock(func() time.Time { return time.UnixMilli(42) }))

	require.NoError(t, l.Push(ctx, "Song", "/music/song.mp3"))

	assert.JSONEq(t, `[{"title":"Song","url":"/music/song.mp3","t":42}]`, store.Value(state.KeyHistory))
}

func TestLog_LoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := state.NewMock()
	first := New(store)
	require.NoError(t, first.Push(ctx, "A", "u1"))
	require.NoError(t, first.Push(ctx, "B", "u2"))

	second := New(store)
	require.NoError(t, second.Load(ctx))

	assert.Equal(t, first.Entries(), second.Entries())
}

func TestLog_LoadCorruptIsEmpty(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{not json", "null", `{"title":"x"}`, `[{"title":"no url"}]`} {
		store := state.NewMock()
		_ = store.Set(ctx, state.KeyHistory, raw)
		l := New(store)

		require.NoError(t, l.Load(ctx), "raw %q", raw)
		assert.Zero(t, l.Len(), "raw %q", raw)
	}
}

func TestLog_LoadTruncates(t *testing.T) {
	ctx := context.Background()
	store := state.NewMock()
	_ = store.Set(ctx, state.KeyHistory, `[{"url":"a"},{"url":"b"},{"url":"c"}]`)
	l := New(store, WithMax(2))

	require.NoError(t, l.Load(ctx))

	assert.Equal(t, 2, l.Len())
}

func TestLog_Clear(t *testing.T) {
	ctx := context.Background()
	store := state.NewMock()
	l := New(store)
	_ = l.Push(ctx, "A", "u1")

	require.NoError(t, l.Clear(ctx))

	assert.Zero(t, l.Len())
	assert.Equal(t, "[]", store.Value(state.KeyHistory))
}

func TestLog_Find(t *testing.T) {
	ctx := context.Background()
	l := New(state.NewMock())
	_ = l.Push(ctx, "A", "u1")

	e, ok := l.Find("u1")
	assert.True(t, ok)
	assert.Equal(t, "A", e.Title)

	_, ok = l.Find("nope")
	assert.False(t, ok)
}

func TestLog_StoreErrors(t *testing.T) {
	ctx := context.Background()
	store := state.NewMock()
	boom := errors.New("disk full")
	store.SetError(boom)
	l := New(store)

	assert.ErrorIs(t, l.Load(ctx), boom)
	assert.ErrorIs(t, l.Push(ctx, "A", "u1"), boom)
	// The in-memory list still records the play.
	assert.Equal(t, 1, l.Len())
}

func TestLog_PushIgnoresEmptyURL(t *testing.T) {
	l := New(state.NewMock())

	require.NoError(t, l.Push(context.Background(), "nothing", ""))

	assert.Zero(t, l.Len())
}
