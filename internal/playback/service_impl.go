// internal/playback/service_impl.go
package playback

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/musicsite/internal/blob"
	"github.com/llehouerou/musicsite/internal/eq"
	"github.com/llehouerou/musicsite/internal/errmsg"
	"github.com/llehouerou/musicsite/internal/history"
	"github.com/llehouerou/musicsite/internal/importer"
	"github.com/llehouerou/musicsite/internal/lyrics"
	"github.com/llehouerou/musicsite/internal/player"
	"github.com/llehouerou/musicsite/internal/playlist"
	"github.com/llehouerou/musicsite/internal/state"
)

// discoverTimeout bounds one run of the lyrics discovery chain.
const discoverTimeout = 20 * time.Second

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	mu sync.Mutex

	media    Media
	playlist *playlist.Playlist
	loader   lyrics.Loader
	history  *history.Log
	store    state.Interface
	eq       eq.Settings

	source    *lyrics.Source
	fetcher   lyrics.Fetcher
	blobs     *blob.Registry
	mediaRoot string
	log       *zap.Logger

	shuffle bool
	loop    bool
	volume  float64
	muted   bool

	lyricsSource    string
	activeLine      int
	discoverPending bool
	localPaths      map[string]string // track ID -> path under the media root

	subs   []*Subscription
	subsMu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// Option configures the service.
type Option func(*serviceImpl)

// WithPlaylist replaces the default empty playlist.
func WithPlaylist(p *playlist.Playlist) Option {
	return func(s *serviceImpl) { s.playlist = p }
}

// WithHistory records every started track in h.
func WithHistory(h *history.Log) Option {
	return func(s *serviceImpl) { s.history = h }
}

// WithStore persists the volume level in st.
func WithStore(st state.Interface) Option {
	return func(s *serviceImpl) { s.store = st }
}

// WithLyricsSource enables lyrics discovery for started tracks.
func WithLyricsSource(src *lyrics.Source) Option {
	return func(s *serviceImpl) { s.source = src }
}

// WithFetcher sets the fetcher used by LoadLyricsURL.
func WithFetcher(f lyrics.Fetcher) Option {
	return func(s *serviceImpl) { s.fetcher = f }
}

// WithBlobs stores imported files in r. Directory imports are resolved
// under mediaRoot.
func WithBlobs(r *blob.Registry, mediaRoot string) Option {
	return func(s *serviceImpl) {
		s.blobs = r
		s.mediaRoot = mediaRoot
	}
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *serviceImpl) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a new playback service driving media.
func New(media Media, opts ...Option) Service {
	ctx, cancel := context.WithCancel(context.Background())
	s := &serviceImpl{
		media:      media,
		volume:     1,
		activeLine: -1,
		localPaths: make(map[string]string),
		log:        zap.NewNop(),
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.playlist == nil {
		s.playlist = playlist.New()
	}
	if s.fetcher == nil {
		s.fetcher = lyrics.NewHTTPFetcher(0)
	}
	return s
}

// Load restores the persisted history and volume.
func (s *serviceImpl) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.history != nil {
		if err := s.history.Load(ctx); err != nil {
			s.noticeLocked(errmsg.OpHistoryLoad, "", err)
			errs = append(errs, err)
		}
	}
	if s.store != nil {
		v, err := state.GetVolume(ctx, s.store)
		if err != nil {
			errs = append(errs, err)
		}
		s.volume, s.muted = v.Volume, v.Muted
	}
	s.media.SetVolume(s.volume)
	s.media.SetMuted(s.muted)
	s.applyEQLocked()
	return errors.Join(errs...)
}

func (s *serviceImpl) playerStateToState(ps player.State) State {
	switch ps {
	case player.Playing:
		return StatePlaying
	case player.Paused:
		return StatePaused
	case player.Stopped:
		return StateStopped
	default:
		return StateStopped
	}
}

func (s *serviceImpl) stateLocked() State {
	return s.playerStateToState(s.media.State())
}

func (s *serviceImpl) currentTrackLocked() *Track {
	t, ok := s.playlist.Current()
	if !ok {
		return nil
	}
	tr := trackFrom(t)
	return &tr
}

func (s *serviceImpl) tracksLocked() []Track {
	tracks := s.playlist.Tracks()
	result := make([]Track, len(tracks))
	for i, t := range tracks {
		result[i] = trackFrom(t)
	}
	return result
}

// AddFiles imports local files. Non-audio items are skipped silently and
// failing items are reported as notices; the tracks that made it are
// returned. When nothing was selected the first track starts playing.
func (s *serviceImpl) AddFiles(ctx context.Context, items []importer.Item) ([]Track, error) {
	if s.blobs == nil {
		return nil, ErrNoBlobs
	}

	var (
		tracks []playlist.Track
		paths  []string
		errs   []error
	)
	for _, it := range importer.Filter(items) {
		t, err := s.importItem(ctx, it)
		if err != nil {
			op := errmsg.OpImportFile
			if it.Path != "" {
				op = errmsg.OpImportDir
			}
			s.mu.Lock()
			s.noticeLocked(op, it.Name, err)
			s.mu.Unlock()
			errs = append(errs, err)
			continue
		}
		tracks = append(tracks, t)
		paths = append(paths, it.Path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		for _, t := range tracks {
			_ = t.Handle.Release()
		}
		return nil, ErrClosed
	}
	added := s.playlist.Add(tracks...)
	for i, t := range added {
		if paths[i] != "" {
			s.localPaths[t.ID] = paths[i]
		}
	}
	s.afterAddLocked()

	result := make([]Track, len(added))
	for i, t := range added {
		result[i] = trackFrom(t)
	}
	return result, errors.Join(errs...)
}

// importItem registers one item with the object store. Runs without the lock.
func (s *serviceImpl) importItem(ctx context.Context, it importer.Item) (playlist.Track, error) {
	contentType := it.MIME
	if contentType == "" {
		contentType = importer.MIMEFor(it.Name)
	}

	title := it.Name
	var body io.ReadSeekCloser
	if it.Open != nil {
		rc, err := it.Open()
		if err != nil {
			return playlist.Track{}, err
		}
		defer rc.Close()
		title = importer.TitleFor(it.Name, rc)
		if _, err := rc.Seek(0, io.SeekStart); err != nil {
			return playlist.Track{}, err
		}
		body = rc
	}

	var (
		h   *blob.Handle
		err error
	)
	switch {
	case it.Path != "":
		h, err = s.blobs.Alias(s.mediaRoot, it.Path, contentType)
	case body != nil:
		h, err = s.blobs.Upload(ctx, it.Name, contentType, it.Size, body)
	default:
		err = errors.New("no content")
	}
	if err != nil {
		return playlist.Track{}, err
	}

	return playlist.Track{
		Title:     title,
		SourceURL: h.URL(),
		Origin:    playlist.OriginFile,
		SizeBytes: it.Size,
		Handle:    h,
	}, nil
}

// AddDir imports the audio files directly inside dir, relative to the
// media root.
func (s *serviceImpl) AddDir(ctx context.Context, dir string) ([]Track, error) {
	if s.blobs == nil || s.mediaRoot == "" {
		return nil, ErrNoBlobs
	}
	items, err := importer.ScanDir(s.mediaRoot, dir)
	if err != nil {
		s.mu.Lock()
		s.noticeLocked(errmsg.OpImportDir, dir, err)
		s.mu.Unlock()
		return nil, err
	}
	return s.AddFiles(ctx, items)
}

// AddURLs appends remote tracks titled after their last path segment.
// Blank entries are skipped.
func (s *serviceImpl) AddURLs(urls ...string) []Track {
	tracks := make([]playlist.Track, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		tracks = append(tracks, playlist.Track{
			Title:     importer.TitleFromURL(u),
			SourceURL: u,
			Origin:    playlist.OriginURL,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || len(tracks) == 0 {
		return nil
	}
	added := s.playlist.Add(tracks...)
	s.afterAddLocked()

	result := make([]Track, len(added))
	for i, t := range added {
		result[i] = trackFrom(t)
	}
	return result
}

func (s *serviceImpl) afterAddLocked() {
	s.emitQueueChangeLocked()
	if s.playlist.CurrentIndex() == playlist.NoSelection && !s.playlist.IsEmpty() {
		s.playIndexLocked(0)
	}
}

// Remove deletes the track at index. Removing the playing track restarts
// playback on the track that takes its place, or stops when none is left.
func (s *serviceImpl) Remove(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.playlist.RemoveAt(index)
	if !r.OK {
		return false
	}
	delete(s.localPaths, r.Track.ID)
	if r.ReleaseErr != nil {
		s.noticeLocked(errmsg.OpPlaylistRemove, r.Track.Title, r.ReleaseErr)
	}
	s.emitQueueChangeLocked()

	switch {
	case r.Restart:
		s.playIndexLocked(s.playlist.CurrentIndex())
	case r.Stopped:
		s.stopLocked()
	}
	return true
}

// Move relocates a track; the selection follows the same logical track.
func (s *serviceImpl) Move(from, to int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playlist.Move(from, to) {
		return false
	}
	s.emitQueueChangeLocked()
	return true
}

// Clear empties the playlist, releasing every local file once.
func (s *serviceImpl) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.playlist.Clear()
	clear(s.localPaths)
	if err != nil {
		s.noticeLocked(errmsg.OpPlaylistClear, "", err)
	}
	s.emitQueueChangeLocked()
	s.stopLocked()
	return err
}

func (s *serviceImpl) stopLocked() {
	prev := s.stateLocked()
	s.media.Stop()
	s.resetLyricsLocked()
	s.discoverPending = false
	s.emitStateChangeLocked(prev)
}

// PlayIndex starts playback of the track at index.
func (s *serviceImpl) PlayIndex(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playIndexLocked(index)
}

// playIndexLocked selects index, loads it into the media surface, clears
// the lyrics (dropping loads in flight) and records the play in history.
// Lyrics discovery starts once the page reports the duration.
func (s *serviceImpl) playIndexLocked(index int) bool {
	if s.closed {
		return false
	}
	prevIndex := s.playlist.CurrentIndex()
	prevTrack := s.currentTrackLocked()
	prevState := s.stateLocked()

	if !s.playlist.Select(index) {
		return false
	}
	t, _ := s.playlist.Current()

	if err := s.media.SetSource(t.SourceURL); err != nil {
		s.noticeLocked(errmsg.OpPlaybackStart, t.Title, err)
		return false
	}
	s.media.SetLoop(s.loop)
	if err := s.media.Play(); err != nil {
		s.noticeLocked(errmsg.OpPlaybackStart, t.Title, err)
	}

	s.resetLyricsLocked()
	s.discoverPending = s.source != nil

	if s.history != nil {
		if err := s.history.Push(s.ctx, t.Title, t.SourceURL); err != nil {
			s.noticeLocked(errmsg.OpHistorySave, "", err)
		}
	}

	cur := trackFrom(t)
	s.log.Debug("playing track",
		zap.Int("index", index),
		zap.String("title", t.Title),
		zap.String("url", t.SourceURL))
	s.emitTrackChangeLocked(TrackChange{
		Previous:      prevTrack,
		Current:       &cur,
		PreviousIndex: prevIndex,
		Index:         index,
	})
	s.emitStateChangeLocked(prevState)
	return true
}

// Play resumes playback, or starts the selected track when the surface
// has nothing loaded.
func (s *serviceImpl) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playLocked()
}

func (s *serviceImpl) playLocked() error {
	if s.closed {
		return ErrClosed
	}
	cur := s.playlist.CurrentIndex()
	if cur == playlist.NoSelection {
		return ErrNoTrack
	}
	prev := s.stateLocked()
	if prev == StateStopped {
		s.playIndexLocked(cur)
		return nil
	}
	if err := s.media.Play(); err != nil {
		return err
	}
	s.emitStateChangeLocked(prev)
	return nil
}

// Pause pauses playback.
func (s *serviceImpl) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauseLocked()
}

func (s *serviceImpl) pauseLocked() {
	prev := s.stateLocked()
	s.media.Pause()
	s.emitStateChangeLocked(prev)
}

// Toggle switches between playing and paused.
func (s *serviceImpl) Toggle() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stateLocked() == StatePlaying {
		s.pauseLocked()
		return nil
	}
	return s.playLocked()
}

// Next advances forward, or to a random track when shuffle is on.
func (s *serviceImpl) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advanceLocked(playlist.Forward)
}

// Prev steps backward, or to a random track when shuffle is on.
func (s *serviceImpl) Prev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advanceLocked(playlist.Backward)
}

func (s *serviceImpl) advanceLocked(dir playlist.Direction) bool {
	if s.closed {
		return false
	}
	idx, ok := s.playlist.Advance(dir, s.shuffle)
	if !ok {
		return false
	}
	return s.playIndexLocked(idx)
}

// Ended handles the end of the current track: the surface repeats it
// itself in loop mode, otherwise playback advances.
func (s *serviceImpl) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loop {
		return false
	}
	return s.advanceLocked(playlist.Forward)
}

// UpdatePosition records the playback position and resolves the active
// lyric line. Subscribers are notified only when the line changes.
func (s *serviceImpl) UpdatePosition(pos float64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.media.Report(pos, s.media.Duration())
	idx, ok := lyrics.ActiveLine(s.loader.Timeline(), pos)
	line := -1
	if ok {
		line = idx
	}
	if line != s.activeLine {
		s.activeLine = line
		s.emitPositionChangeLocked(PositionChange{Position: pos, Line: line})
	}
	return idx, ok
}

// SetDuration records the duration of the loaded source. The first report
// for a started track triggers lyrics discovery.
func (s *serviceImpl) SetDuration(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.media.Report(s.media.Position(), seconds)
	if !s.discoverPending {
		return
	}
	t, ok := s.playlist.Current()
	if !ok {
		return
	}
	s.discoverPending = false
	s.discoverLocked(t)
}

// SetShuffle enables or disables shuffle.
func (s *serviceImpl) SetShuffle(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shuffle == enabled {
		return
	}
	s.shuffle = enabled
	s.emitModeChangeLocked()
}

// SetLoop enables or disables repeating the current track.
func (s *serviceImpl) SetLoop(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loop == enabled {
		return
	}
	s.loop = enabled
	s.media.SetLoop(enabled)
	s.emitModeChangeLocked()
}

// SetVolume sets and persists the volume level.
func (s *serviceImpl) SetVolume(ctx context.Context, level float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.media.SetVolume(level)
	s.volume = clampVolume(level)
	s.notifyChangedLocked()
	return s.saveVolumeLocked(ctx)
}

// SetMuted mutes or unmutes, keeping the level.
func (s *serviceImpl) SetMuted(ctx context.Context, muted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.media.SetMuted(muted)
	s.muted = muted
	s.notifyChangedLocked()
	return s.saveVolumeLocked(ctx)
}

func (s *serviceImpl) saveVolumeLocked(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	err := state.SaveVolume(ctx, s.store, state.VolumeState{Volume: s.volume, Muted: s.muted})
	if err != nil {
		s.noticeLocked(errmsg.OpVolumeSave, "", err)
	}
	return err
}

// LoadLyricsText replaces the timeline with parsed text.
func (s *serviceImpl) LoadLyricsText(text string) LyricsInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	gen := s.loader.Begin()
	tl := lyrics.Parse(text)
	s.commitLyricsLocked(gen, tl, SourceManual)
	return lyricsInfo(tl, SourceManual)
}

// LoadLyricsURL fetches and loads a timeline. The fetch runs without the
// lock; a track switch or a newer load while it runs makes it ErrStale.
func (s *serviceImpl) LoadLyricsURL(ctx context.Context, url string) (LyricsInfo, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return LyricsInfo{}, ErrClosed
	}
	gen := s.loader.Begin()
	s.mu.Unlock()

	raw, err := s.fetcher.Fetch(ctx, url)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if s.loader.IsCurrent(gen) {
			s.noticeLocked(errmsg.OpLyricsFetch, url, err)
		}
		return LyricsInfo{}, err
	}
	tl := lyrics.Parse(raw)
	if !s.commitLyricsLocked(gen, tl, SourceManual) {
		return LyricsInfo{}, ErrStale
	}
	return lyricsInfo(tl, SourceManual), nil
}

// ClearLyrics drops the timeline and any load in flight.
func (s *serviceImpl) ClearLyrics() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLyricsLocked()
	s.emitLyricsChangeLocked()
}

// ActiveLyric resolves the line active at pos without recording it.
func (s *serviceImpl) ActiveLyric(pos float64) (lyrics.Line, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tl := s.loader.Timeline()
	idx, ok := lyrics.ActiveLine(tl, pos)
	if !ok {
		return lyrics.Line{}, -1, false
	}
	return tl.Lines[idx], idx, true
}

// LyricsFileChanged re-runs discovery when rel, a path relative to the web
// or media root, is the sibling lyrics file of the current track.
func (s *serviceImpl) LyricsFileChanged(rel string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.source == nil {
		return false
	}
	t, ok := s.playlist.Current()
	if !ok || !s.isSiblingLocked(t, rel) {
		return false
	}
	s.discoverPending = false
	s.discoverLocked(t)
	return true
}

func (s *serviceImpl) isSiblingLocked(t playlist.Track, rel string) bool {
	rel = strings.TrimPrefix(rel, "/")
	if local, ok := s.localPaths[t.ID]; ok && lyrics.SiblingPath(local) == rel {
		return true
	}
	sibling, ok := lyrics.SiblingURL(t.SourceURL)
	if !ok || !strings.HasPrefix(sibling, "/") {
		return false
	}
	return strings.TrimPrefix(sibling, "/") == rel || unescapePath(sibling) == rel
}

// discoverLocked runs the lyrics chain for t in the background. Only a
// result for the latest generation is committed.
func (s *serviceImpl) discoverLocked(t playlist.Track) {
	if s.source == nil {
		return
	}
	gen := s.loader.Begin()
	req := lyrics.Request{
		URL:       t.SourceURL,
		LocalPath: s.localPaths[t.ID],
		Duration:  time.Duration(s.media.Duration() * float64(time.Second)),
	}
	req.Artist, req.Title = splitTitle(t.Title)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(s.ctx, discoverTimeout)
		defer cancel()
		res := s.source.Fetch(ctx, req)
		s.finishDiscovery(gen, t.Title, res)
	}()
}

func (s *serviceImpl) finishDiscovery(gen uint64, title string, res lyrics.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.loader.IsCurrent(gen) {
		return
	}
	if res.Err != nil {
		s.noticeLocked(errmsg.OpLyricsDiscover, title, res.Err)
	}
	if !res.Found() {
		return
	}
	s.commitLyricsLocked(gen, res.Timeline, res.Source)
	s.log.Debug("lyrics found", zap.String("title", title), zap.String("source", res.Source))
}

func (s *serviceImpl) commitLyricsLocked(gen uint64, tl lyrics.Timeline, source string) bool {
	if !s.loader.Commit(gen, tl) {
		return false
	}
	s.lyricsSource = source
	s.activeLine = -1
	s.emitLyricsChangeLocked()
	return true
}

func (s *serviceImpl) resetLyricsLocked() {
	s.loader.Invalidate()
	s.lyricsSource = ""
	s.activeLine = -1
}

// History returns the play log, newest first.
func (s *serviceImpl) History() []history.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historyLocked()
}

func (s *serviceImpl) historyLocked() []history.Entry {
	if s.history == nil {
		return []history.Entry{}
	}
	return s.history.Entries()
}

// ReplayHistory plays a history entry, inserting it at the front of the
// playlist when it is no longer there.
func (s *serviceImpl) ReplayHistory(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.history == nil || s.closed {
		return false
	}
	e, ok := s.history.Find(url)
	if !ok {
		return false
	}
	idx := s.playlist.FindByURL(url)
	if idx < 0 {
		s.playlist.Prepend(playlist.Track{
			Title:     e.Title,
			SourceURL: e.URL,
			Origin:    playlist.OriginURL,
		})
		idx = 0
		s.emitQueueChangeLocked()
	}
	return s.playIndexLocked(idx)
}

// ClearHistory empties the play log.
func (s *serviceImpl) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.history == nil {
		return nil
	}
	if err := s.history.Clear(ctx); err != nil {
		s.noticeLocked(errmsg.OpHistorySave, "", err)
		return err
	}
	s.notifyChangedLocked()
	return nil
}

// EQ returns the equalizer gains.
func (s *serviceImpl) EQ() eq.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eq
}

// SetEQGain sets one band. Out-of-range bands are a no-op.
func (s *serviceImpl) SetEQGain(band int, db float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.eq.SetGain(band, db) {
		return false
	}
	s.applyEQLocked()
	s.notifyChangedLocked()
	return true
}

// ResetEQ flattens every band.
func (s *serviceImpl) ResetEQ() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eq.Reset()
	s.applyEQLocked()
	s.notifyChangedLocked()
}

func (s *serviceImpl) applyEQLocked() {
	if g, ok := s.media.(eq.Graph); ok {
		s.eq.Apply(g)
	}
}

// View materializes a filtered, sorted view of the playlist.
func (s *serviceImpl) View(filter string, policy playlist.SortPolicy) ViewResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked(filter, policy)
}

func (s *serviceImpl) viewLocked(filter string, policy playlist.SortPolicy) ViewResult {
	v := s.playlist.View(filter, policy)
	return ViewResult{
		Policy:          v.Policy(),
		Filter:          filter,
		Indices:         v.Indices(),
		ReorderEligible: v.ReorderEligible,
	}
}

// Snapshot returns a copy of the whole coordinator state.
func (s *serviceImpl) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.viewLocked("", playlist.SortAddedAsc)
	return Snapshot{
		Tracks:          s.tracksLocked(),
		View:            view.Indices,
		ReorderEligible: view.ReorderEligible,
		CurrentIndex:    s.playlist.CurrentIndex(),
		Current:         s.currentTrackLocked(),
		State:           s.stateLocked(),
		Shuffle:         s.shuffle,
		Loop:            s.loop,
		Volume:          s.volume,
		Muted:           s.muted,
		Position:        s.media.Position(),
		Duration:        s.media.Duration(),
		Lyrics:          lyricsInfo(s.loader.Timeline(), s.lyricsSource),
		ActiveLine:      s.activeLine,
		History:         s.historyLocked(),
		EQ:              s.eq,
	}
}

// Subscribe creates a new event subscription.
func (s *serviceImpl) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	if s.closed {
		sub.close()
		return sub
	}
	s.subs = append(s.subs, sub)
	return sub
}

// Close stops discovery, releases every local file and ends all
// subscriptions. Calling Close again is a no-op.
func (s *serviceImpl) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	err := s.playlist.Clear()
	clear(s.localPaths)
	s.media.Stop()
	s.loader.Invalidate()
	s.subsMu.Lock()
	s.closed = true
	s.subsMu.Unlock()
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()

	return err
}
