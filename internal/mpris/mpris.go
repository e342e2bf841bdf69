//go:build linux

// Package mpris exposes the player on the D-Bus session bus so desktop
// media keys and applets can drive it.
package mpris

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"go.uber.org/zap"

	"github.com/llehouerou/musicsite/internal/playback"
)

// busName is appended to org.mpris.MediaPlayer2.
const busName = "musicsite"

// setTimeout bounds volume writes coming from the bus.
const setTimeout = 5 * time.Second

// Adapter connects the playback service to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
	log    *zap.Logger
}

// New creates and starts a new MPRIS adapter. webRoot is searched for
// cover art next to tracks served from it.
func New(service playback.Service, webRoot string, log *zap.Logger) (*Adapter, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Adapter{log: log}
	a.server = server.NewServer(busName, &rootAdapter{}, &playerAdapter{service: service, webRoot: webRoot})

	// Start the server in background
	go func() {
		if err := a.server.Listen(); err != nil {
			a.log.Warn("mpris listen", zap.Error(err))
		}
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // the page lives in a browser tab
}

func (r *rootAdapter) Quit() error {
	return nil // the server manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "musicsite", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/ogg", "audio/wav", "audio/flac"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter and optional interfaces.
type playerAdapter struct {
	service playback.Service
	webRoot string
}

func (p *playerAdapter) Next() error {
	p.service.Next()
	return nil
}

func (p *playerAdapter) Previous() error {
	p.service.Prev()
	return nil
}

func (p *playerAdapter) Pause() error {
	p.service.Pause()
	return nil
}

func (p *playerAdapter) PlayPause() error {
	return p.service.Toggle()
}

// Stop pauses: the page keeps its source so playback can resume.
func (p *playerAdapter) Stop() error {
	p.service.Pause()
	return nil
}

func (p *playerAdapter) Play() error {
	return p.service.Play()
}

// Seek is accepted and ignored; the page owns the playhead.
func (p *playerAdapter) Seek(types.Microseconds) error {
	return nil
}

func (p *playerAdapter) SetPosition(string, types.Microseconds) error {
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(uri string) error {
	p.service.AddURLs(uri)
	return nil
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.service.Snapshot().State {
	case playback.StatePlaying:
		return types.PlaybackStatusPlaying, nil
	case playback.StatePaused:
		return types.PlaybackStatusPaused, nil
	case playback.StateStopped:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	snap := p.service.Snapshot()
	track := snap.Current
	if track == nil {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(track.ID)),
		Length:  types.Microseconds(snap.Duration * 1e6),
		Title:   track.Title,
	}
	if snap.Lyrics.Artist != "" {
		meta.Artist = []string{snap.Lyrics.Artist}
	}
	meta.Album = snap.Lyrics.Album

	if artPath := FindAlbumArt(p.webRoot, track.URL); artPath != "" {
		meta.ArtUrl = "file://" + artPath
	}

	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	snap := p.service.Snapshot()
	if snap.Muted {
		return 0, nil
	}
	return snap.Volume, nil
}

func (p *playerAdapter) SetVolume(level float64) error {
	ctx, cancel := context.WithTimeout(context.Background(), setTimeout)
	defer cancel()
	return p.service.SetVolume(ctx, level)
}

func (p *playerAdapter) Position() (int64, error) {
	return int64(p.service.Snapshot().Position * 1e6), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return len(p.service.Snapshot().Tracks) > 0, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return len(p.service.Snapshot().Tracks) > 0, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return len(p.service.Snapshot().Tracks) > 0, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
// The player only loops the current track.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	if p.service.Snapshot().Loop {
		return types.LoopStatusTrack, nil
	}
	return types.LoopStatusNone, nil
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
// Playlist looping maps to track looping.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	p.service.SetLoop(status != types.LoopStatusNone)
	return nil
}

// Shuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) Shuffle() (bool, error) {
	return p.service.Snapshot().Shuffle, nil
}

// SetShuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) SetShuffle(shuffle bool) error {
	p.service.SetShuffle(shuffle)
	return nil
}

func formatTrackID(id string) string {
	h := fnv.New64a()
	h.Write([]byte(id))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
