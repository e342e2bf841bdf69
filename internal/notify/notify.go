// Package notify shows playback events as desktop notifications.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/llehouerou/musicsite/internal/playback"
)

// Urgency represents notification priority levels per freedesktop spec.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

const (
	appName = "musicsite"

	nowPlayingTimeout int32 = 5000
	noticeTimeout     int32 = -1
)

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // Summary text (required)
	Body       string  // Body text (optional, supports basic markup)
	Icon       string  // Path to image file or icon name (optional)
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification, >0 = replace existing
	Urgency    Urgency // Low, Normal, Critical
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are disabled or unavailable.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
}

// discard is used when no notification daemon is reachable.
type discard struct{}

func (discard) Notify(Notification) (uint32, error) { return 0, nil }

func (discard) Close(uint32) error { return nil }

// Relay forwards track changes and notices from the coordinator to a
// Notifier. Successive tracks reuse one notification.
type Relay struct {
	notifier Notifier
	icon     func(trackURL string) string
	log      *zap.Logger

	playingID uint32
}

// NewRelay creates a Relay. icon maps a track URL to an image path and may
// be nil.
func NewRelay(n Notifier, icon func(trackURL string) string, log *zap.Logger) *Relay {
	if icon == nil {
		icon = func(string) string { return "" }
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Relay{notifier: n, icon: icon, log: log}
}

// Run consumes sub until ctx is done or the coordinator closes.
func (r *Relay) Run(ctx context.Context, sub *playback.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case e := <-sub.TrackChanged:
			if e.Current != nil {
				r.nowPlaying(*e.Current)
			}
		case n := <-sub.Notices:
			r.notice(n)
		}
	}
}

func (r *Relay) nowPlaying(t playback.Track) {
	id, err := r.notifier.Notify(Notification{
		Title:      t.Title,
		Body:       "Now playing",
		Icon:       r.icon(t.URL),
		Timeout:    nowPlayingTimeout,
		ReplacesID: r.playingID,
		Urgency:    UrgencyLow,
	})
	if err != nil {
		r.log.Debug("notify now playing", zap.Error(err))
		return
	}
	r.playingID = id
}

func (r *Relay) notice(n playback.Notice) {
	_, err := r.notifier.Notify(Notification{
		Title:   appName,
		Body:    n.Message,
		Timeout: noticeTimeout,
		Urgency: UrgencyNormal,
	})
	if err != nil {
		r.log.Debug("notify notice", zap.String("op", string(n.Op)), zap.Error(err))
	}
}
