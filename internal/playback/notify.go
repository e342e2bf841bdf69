package playback

import (
	"net/url"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/llehouerou/musicsite/internal/errmsg"
	"github.com/llehouerou/musicsite/internal/importer"
)

func (s *serviceImpl) emitStateChangeLocked(prev State) {
	cur := s.stateLocked()
	if cur == prev {
		return
	}
	e := StateChange{Previous: prev, Current: cur}
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendState(e)
	}
}

func (s *serviceImpl) emitTrackChangeLocked(e TrackChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendTrack(e)
	}
}

func (s *serviceImpl) emitQueueChangeLocked() {
	e := QueueChange{Tracks: s.tracksLocked(), Index: s.playlist.CurrentIndex()}
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendQueue(e)
	}
}

func (s *serviceImpl) emitModeChangeLocked() {
	e := ModeChange{Shuffle: s.shuffle, Loop: s.loop}
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendMode(e)
	}
}

func (s *serviceImpl) emitLyricsChangeLocked() {
	e := LyricsChange{Source: s.lyricsSource, Lines: len(s.loader.Timeline().Lines)}
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendLyrics(e)
	}
}

func (s *serviceImpl) emitPositionChangeLocked(e PositionChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendPosition(e)
	}
}

// notifyChangedLocked raises the coalesced signal for changes without a
// dedicated event (volume, equalizer, history).
func (s *serviceImpl) notifyChangedLocked() {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.markChanged()
	}
}

// noticeLocked logs a failed operation and forwards it to subscribers.
func (s *serviceImpl) noticeLocked(op errmsg.Op, context string, err error) {
	msg := errmsg.FormatWith(op, context, err)
	s.log.Warn(msg, zap.String("op", string(op)), zap.Error(err))
	n := Notice{Op: op, Message: msg}
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendNotice(n)
	}
}

func clampVolume(level float64) float64 {
	if level != level {
		return 0
	}
	return min(max(level, 0), 1)
}

func unescapePath(p string) string {
	u, err := url.PathUnescape(strings.TrimPrefix(p, "/"))
	if err != nil {
		return ""
	}
	return u
}

// splitTitle derives a lookup artist and title from a track title. File
// names lose their audio extension and "Artist - Title" is split in two.
func splitTitle(title string) (artist, name string) {
	name = strings.TrimSpace(title)
	if importer.IsAudio(name, "") {
		name = strings.TrimSuffix(name, path.Ext(name))
	}
	if a, t, ok := strings.Cut(name, " - "); ok {
		a, t = strings.TrimSpace(a), strings.TrimSpace(t)
		if a != "" && t != "" {
			return a, t
		}
	}
	return "", name
}

