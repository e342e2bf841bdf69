package lyrics

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/llehouerou/musicsite/internal/lrclib"
)

// Where a timeline was found.
const (
	FromSibling  = "sibling"
	FromLocal    = "local"
	FromCache    = "cache"
	FromAPI      = "api"
	FromNotFound = "not_found"
)

// blobPrefix marks object URLs for uploaded content, which has no siblings.
const blobPrefix = "/blobs/"

// SiblingURL returns the URL of the .lrc file next to an audio URL: the
// extension of the last path segment is replaced (or, without one, .lrc
// is appended) and the query and fragment are dropped. Only http(s) URLs
// and absolute paths qualify.
func SiblingURL(audioURL string) (string, bool) {
	u, err := url.Parse(audioURL)
	if err != nil || u.Path == "" {
		return "", false
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return "", false
		}
	case "":
		if u.Host != "" || !strings.HasPrefix(u.Path, "/") {
			return "", false
		}
	default:
		return "", false
	}

	sibling := url.URL{
		Scheme: u.Scheme,
		User:   u.User,
		Host:   u.Host,
		Path:   SiblingPath(u.Path),
	}
	return sibling.String(), true
}

// SiblingPath returns the .lrc path next to a slash-separated audio path.
func SiblingPath(audioPath string) string {
	ext := path.Ext(audioPath)
	return audioPath[:len(audioPath)-len(ext)] + ".lrc"
}

// Request describes the track lyrics are wanted for.
type Request struct {
	URL       string // source URL of the playing track
	LocalPath string // path under the media root, for directory imports
	Title     string
	Artist    string
	Duration  time.Duration
}

// Result is the outcome of a lookup.
type Result struct {
	Timeline Timeline
	Source   string
	Err      error
}

// Found reports whether the lookup produced any lines.
func (r Result) Found() bool {
	return !r.Timeline.IsEmpty()
}

// Source finds lyrics for a track: a sibling .lrc first, then lrclib.net
// when a client is configured, with API results cached on disk.
type Source struct {
	fetcher   Fetcher
	webRoot   string
	mediaRoot string
	client    *lrclib.Client
	cacheDir  string
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithWebRoot reads sibling files for absolute-path URLs from dir instead
// of fetching them.
func WithWebRoot(dir string) SourceOption {
	return func(s *Source) { s.webRoot = dir }
}

// WithMediaRoot enables sibling lookup for directory imports.
func WithMediaRoot(dir string) SourceOption {
	return func(s *Source) { s.mediaRoot = dir }
}

// WithLRCLib enables the lrclib.net fallback.
func WithLRCLib(c *lrclib.Client) SourceOption {
	return func(s *Source) { s.client = c }
}

// WithCacheDir overrides the lrclib cache directory.
func WithCacheDir(dir string) SourceOption {
	return func(s *Source) { s.cacheDir = dir }
}

// NewSource creates a lyrics source using fetcher for remote files.
func NewSource(fetcher Fetcher, opts ...SourceOption) *Source {
	s := &Source{
		fetcher:  fetcher,
		cacheDir: filepath.Join(xdg.CacheHome, "musicsite", "lyrics"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch retrieves lyrics for a track using the priority order:
// 1. .lrc next to a directory-imported file
// 2. .lrc next to the track URL
// 3. Cached lrclib result
// 4. lrclib API (and cache the result)
func (s *Source) Fetch(ctx context.Context, req Request) Result {
	if req.LocalPath != "" && s.mediaRoot != "" {
		if tl, err := readInRoot(s.mediaRoot, SiblingPath(req.LocalPath)); err == nil && !tl.IsEmpty() {
			return Result{Timeline: tl, Source: FromLocal}
		}
	}

	var siblingErr error
	if sibling, ok := SiblingURL(req.URL); ok && !strings.HasPrefix(req.URL, blobPrefix) {
		tl, err := s.fetchSibling(ctx, sibling)
		if err == nil && !tl.IsEmpty() {
			return Result{Timeline: tl, Source: FromSibling}
		}
		if err != nil && !errors.Is(err, ErrNotFound) {
			siblingErr = err
		}
	}

	if s.client == nil || req.Title == "" {
		return Result{Source: FromNotFound, Err: siblingErr}
	}

	cachePath := s.cachePath(req.Artist, req.Title)
	if tl, err := readFile(cachePath); err == nil && !tl.IsEmpty() {
		return Result{Timeline: tl, Source: FromCache}
	}

	res := s.fetchFromAPI(ctx, req)
	if res.Err == nil && siblingErr != nil && !res.Found() {
		res.Err = siblingErr
	}
	return res
}

func (s *Source) fetchSibling(ctx context.Context, sibling string) (Timeline, error) {
	if strings.HasPrefix(sibling, "/") {
		if s.webRoot != "" {
			name, err := url.PathUnescape(strings.TrimPrefix(sibling, "/"))
			if err != nil {
				return Timeline{}, ErrNotFound
			}
			tl, err := readInRoot(s.webRoot, name)
			if errors.Is(err, fs.ErrNotExist) {
				return Timeline{}, ErrNotFound
			}
			return tl, err
		}
		return Timeline{}, ErrNotFound
	}
	if s.fetcher == nil {
		return Timeline{}, ErrNotFound
	}
	raw, err := s.fetcher.Fetch(ctx, sibling)
	if err != nil {
		return Timeline{}, err
	}
	return Parse(raw), nil
}

// fetchFromAPI fetches lyrics from the lrclib API.
func (s *Source) fetchFromAPI(ctx context.Context, req Request) Result {
	var result *lrclib.LyricsResult
	var err error
	if req.Artist != "" {
		result, err = s.client.Get(ctx, req.Artist, req.Title, req.Duration)
	} else {
		result, err = s.searchSynced(ctx, req.Title)
	}
	if err != nil {
		// ErrNotFound is not a real error, just means no lyrics available
		if errors.Is(err, lrclib.ErrNotFound) {
			return Result{Source: FromNotFound}
		}
		return Result{Source: FromNotFound, Err: err}
	}

	tl := timelineFromResult(result)
	if tl.IsEmpty() {
		return Result{Source: FromNotFound}
	}

	if result.HasSyncedLyrics() {
		_ = s.saveToCache(req.Artist, req.Title, result.SyncedLyrics)
	}

	return Result{Timeline: tl, Source: FromAPI}
}

// searchSynced returns the first search hit that carries synced lyrics.
func (s *Source) searchSynced(ctx context.Context, title string) (*lrclib.LyricsResult, error) {
	results, err := s.client.Search(ctx, title)
	if err != nil {
		return nil, err
	}
	for i := range results {
		if results[i].HasSyncedLyrics() {
			return &results[i], nil
		}
	}
	return nil, lrclib.ErrNotFound
}

// timelineFromResult parses an API result. Plain lyrics have no timing
// and produce no timeline.
func timelineFromResult(result *lrclib.LyricsResult) Timeline {
	if !result.HasSyncedLyrics() {
		return Timeline{}
	}
	tl := Parse(result.SyncedLyrics)

	// Fill in metadata if missing
	if tl.Artist == "" {
		tl.Artist = result.ArtistName
	}
	if tl.Title == "" {
		tl.Title = result.TrackName
	}
	if tl.Album == "" {
		tl.Album = result.AlbumName
	}
	return tl
}

func readInRoot(root, name string) (Timeline, error) {
	f, err := os.OpenInRoot(root, filepath.FromSlash(name))
	if err != nil {
		return Timeline{}, err
	}
	defer f.Close()
	return ParseReader(f)
}

func readFile(name string) (Timeline, error) {
	if name == "" {
		return Timeline{}, fs.ErrNotExist
	}
	f, err := os.Open(name)
	if err != nil {
		return Timeline{}, err
	}
	defer f.Close()
	return ParseReader(f)
}

// cachePath returns the cache file path for a track.
func (s *Source) cachePath(artist, title string) string {
	if s.cacheDir == "" {
		return ""
	}
	if artist == "" {
		artist = "_unknown"
	}
	return filepath.Join(s.cacheDir, sanitizeFilename(artist), sanitizeFilename(title)+".lrc")
}

// saveToCache saves LRC content to the cache directory.
func (s *Source) saveToCache(artist, title, content string) error {
	p := s.cachePath(artist, title)
	if p == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, []byte(content), 0o600)
}

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// sanitizeFilename removes or replaces characters that are problematic in filenames.
func sanitizeFilename(name string) string {
	name = invalidFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, " .")
	if len(name) > 100 {
		name = name[:100]
	}
	if name == "" {
		name = "_"
	}
	return name
}
