package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
//
// Changed carries a single coalesced signal for subscribers that only
// re-render from a fresh Snapshot.
type Subscription struct {
	StateChanged    <-chan StateChange
	TrackChanged    <-chan TrackChange
	PositionChanged <-chan PositionChange
	QueueChanged    <-chan QueueChange
	ModeChanged     <-chan ModeChange
	LyricsChanged   <-chan LyricsChange
	Notices         <-chan Notice
	Changed         <-chan struct{}
	Done            <-chan struct{}

	// Internal write channels
	stateCh    chan StateChange
	trackCh    chan TrackChange
	positionCh chan PositionChange
	queueCh    chan QueueChange
	modeCh     chan ModeChange
	lyricsCh   chan LyricsChange
	noticeCh   chan Notice
	changedCh  chan struct{}
	doneCh     chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:    make(chan StateChange, eventBufferSize),
		trackCh:    make(chan TrackChange, eventBufferSize),
		positionCh: make(chan PositionChange, eventBufferSize),
		queueCh:    make(chan QueueChange, eventBufferSize),
		modeCh:     make(chan ModeChange, eventBufferSize),
		lyricsCh:   make(chan LyricsChange, eventBufferSize),
		noticeCh:   make(chan Notice, eventBufferSize),
		changedCh:  make(chan struct{}, 1),
		doneCh:     make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.TrackChanged = s.trackCh
	s.PositionChanged = s.positionCh
	s.QueueChanged = s.queueCh
	s.ModeChanged = s.modeCh
	s.LyricsChanged = s.lyricsCh
	s.Notices = s.noticeCh
	s.Changed = s.changedCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendState sends a state change event (non-blocking).
func (s *Subscription) sendState(e StateChange) {
	select {
	case s.stateCh <- e:
	default:
		// Drop if buffer full
	}
	s.markChanged()
}

// sendTrack sends a track change event (non-blocking).
func (s *Subscription) sendTrack(e TrackChange) {
	select {
	case s.trackCh <- e:
	default:
	}
	s.markChanged()
}

// sendPosition sends a position change event (non-blocking).
func (s *Subscription) sendPosition(e PositionChange) {
	select {
	case s.positionCh <- e:
	default:
	}
}

// sendQueue sends a queue change event (non-blocking).
func (s *Subscription) sendQueue(e QueueChange) {
	select {
	case s.queueCh <- e:
	default:
	}
	s.markChanged()
}

// sendMode sends a mode change event (non-blocking).
func (s *Subscription) sendMode(e ModeChange) {
	select {
	case s.modeCh <- e:
	default:
	}
	s.markChanged()
}

// sendLyrics sends a lyrics change event (non-blocking).
func (s *Subscription) sendLyrics(e LyricsChange) {
	select {
	case s.lyricsCh <- e:
	default:
	}
	s.markChanged()
}

// sendNotice sends a notice (non-blocking).
func (s *Subscription) sendNotice(n Notice) {
	select {
	case s.noticeCh <- n:
	default:
	}
}

// markChanged raises the coalesced change signal. A pending signal
// already covers this change.
func (s *Subscription) markChanged() {
	select {
	case s.changedCh <- struct{}{}:
	default:
	}
}
