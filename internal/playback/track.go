package playback

import (
	"github.com/llehouerou/musicsite/internal/importer"
	"github.com/llehouerou/musicsite/internal/playlist"
)

// Track represents a track in the playlist.
// This is a copy of the data, not a reference to playlist.Track.
type Track struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Origin    string `json:"origin"`
	Size      int64  `json:"size,omitempty"`
	SizeLabel string `json:"sizeLabel,omitempty"`
}

func trackFrom(t playlist.Track) Track {
	out := Track{
		ID:     t.ID,
		Title:  t.Title,
		URL:    t.SourceURL,
		Origin: t.Origin.String(),
		Size:   t.SizeBytes,
	}
	if t.SizeBytes > 0 {
		out.SizeLabel = importer.SizeLabel(t.SizeBytes)
	}
	return out
}

