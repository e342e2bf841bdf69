//go:build linux

package mpris

import (
	"strings"
	"testing"

	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/musicsite/internal/player"
	"github.com/llehouerou/musicsite/internal/playback"
)

func newTestAdapter(t *testing.T) (*playerAdapter, playback.Service) {
	t.Helper()
	svc := playback.New(player.NewMock())
	t.Cleanup(func() { _ = svc.Close() })
	return &playerAdapter{service: svc, webRoot: t.TempDir()}, svc
}

func TestPlayerAdapter_EmptyPlaylist(t *testing.T) {
	p, _ := newTestAdapter(t)

	status, err := p.PlaybackStatus()
	require.NoError(t, err)
	assert.Equal(t, types.PlaybackStatusStopped, status)

	meta, err := p.Metadata()
	require.NoError(t, err)
	assert.Empty(t, meta.Title)

	canNext, _ := p.CanGoNext()
	canPlay, _ := p.CanPlay()
	assert.False(t, canNext)
	assert.False(t, canPlay)

	require.ErrorIs(t, p.Play(), playback.ErrNoTrack)
}

func TestPlayerAdapter_Transport(t *testing.T) {
	p, svc := newTestAdapter(t)
	svc.AddURLs("https://x.test/a.mp3", "https://x.test/b.mp3")

	status, _ := p.PlaybackStatus()
	assert.Equal(t, types.PlaybackStatusPlaying, status)

	require.NoError(t, p.PlayPause())
	status, _ = p.PlaybackStatus()
	assert.Equal(t, types.PlaybackStatusPaused, status)

	require.NoError(t, p.Play())
	require.NoError(t, p.Next())
	assert.Equal(t, 1, svc.Snapshot().CurrentIndex)

	require.NoError(t, p.Previous())
	assert.Equal(t, 0, svc.Snapshot().CurrentIndex)

	require.NoError(t, p.Stop())
	status, _ = p.PlaybackStatus()
	assert.Equal(t, types.PlaybackStatusPaused, status)
}

func TestPlayerAdapter_Metadata(t *testing.T) {
	p, svc := newTestAdapter(t)
	svc.AddURLs("https://x.test/song.mp3")
	svc.SetDuration(90)
	svc.LoadLyricsText("[ar:Band]\n[al:Record]\n[00:01]hello\n")

	meta, err := p.Metadata()
	require.NoError(t, err)

	assert.Equal(t, "song.mp3", meta.Title)
	assert.Equal(t, types.Microseconds(90_000_000), meta.Length)
	assert.Equal(t, []string{"Band"}, meta.Artist)
	assert.Equal(t, "Record", meta.Album)
	assert.True(t, strings.HasPrefix(string(meta.TrackId), "/org/mpris/MediaPlayer2/Track/"))
}

func TestPlayerAdapter_Modes(t *testing.T) {
	p, svc := newTestAdapter(t)

	require.NoError(t, p.SetLoopStatus(types.LoopStatusPlaylist))
	loop, _ := p.LoopStatus()
	assert.Equal(t, types.LoopStatusTrack, loop)
	assert.True(t, svc.Snapshot().Loop)

	require.NoError(t, p.SetLoopStatus(types.LoopStatusNone))
	loop, _ = p.LoopStatus()
	assert.Equal(t, types.LoopStatusNone, loop)

	require.NoError(t, p.SetShuffle(true))
	shuffle, _ := p.Shuffle()
	assert.True(t, shuffle)
}

func TestPlayerAdapter_Volume(t *testing.T) {
	p, _ := newTestAdapter(t)

	require.NoError(t, p.SetVolume(0.25))
	v, err := p.Volume()
	require.NoError(t, err)
	assert.InDelta(t, 0.25, v, 1e-9)

	require.NoError(t, p.SetVolume(3))
	v, _ = p.Volume()
	assert.InDelta(t, 1.0, v, 1e-9)
}

func TestFormatTrackID_Stable(t *testing.T) {
	assert.Equal(t, formatTrackID("abc"), formatTrackID("abc"))
	assert.NotEqual(t, formatTrackID("abc"), formatTrackID("abd"))
}
