package playlist

// Origin tells where a track's audio comes from.
type Origin int

const (
	OriginURL  Origin = iota // remote URL typed in by the user
	OriginFile               // locally imported file behind an object URL
)

// String returns the origin name used on the wire.
func (o Origin) String() string {
	switch o {
	case OriginURL:
		return "url"
	case OriginFile:
		return "file"
	default:
		return "unknown"
	}
}

// Handle is the temporary resource backing a locally imported track.
// Release is called exactly once, when the track leaves the playlist.
type Handle interface {
	Release() error
}

// Track is a single playable item.
type Track struct {
	ID        string // assigned by the playlist on insertion
	Title     string
	SourceURL string // object URL for local files, remote URL otherwise
	Origin    Origin
	SizeBytes int64  // 0 when unknown
	Handle    Handle // nil for URL tracks
}

// IsLocal reports whether the track owns a releasable handle.
func (t Track) IsLocal() bool {
	return t.Origin == OriginFile
}
