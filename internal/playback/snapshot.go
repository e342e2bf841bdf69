package playback

import (
	"github.com/llehouerou/musicsite/internal/eq"
	"github.com/llehouerou/musicsite/internal/history"
	"github.com/llehouerou/musicsite/internal/lyrics"
	"github.com/llehouerou/musicsite/internal/playlist"
)

// SourceManual marks a timeline loaded from user-provided text or URL.
const SourceManual = "manual"

// LyricLine is a timeline line on the wire.
type LyricLine struct {
	Time float64 `json:"time"`
	Text string  `json:"text"`
}

// LyricsInfo describes the loaded timeline.
type LyricsInfo struct {
	Source   string      `json:"source,omitempty"`
	Title    string      `json:"title,omitempty"`
	Artist   string      `json:"artist,omitempty"`
	Album    string      `json:"album,omitempty"`
	Status   string      `json:"status"`
	Degraded int         `json:"degraded,omitempty"`
	Lines    []LyricLine `json:"lines"`
}

func lyricsInfo(tl lyrics.Timeline, source string) LyricsInfo {
	lines := make([]LyricLine, len(tl.Lines))
	for i, l := range tl.Lines {
		lines[i] = LyricLine{Time: l.Time, Text: l.Text}
	}
	if len(lines) == 0 {
		source = ""
	}
	return LyricsInfo{
		Source:   source,
		Title:    tl.Title,
		Artist:   tl.Artist,
		Album:    tl.Album,
		Status:   tl.Status.String(),
		Degraded: tl.Degraded,
		Lines:    lines,
	}
}

// ViewResult is a materialized playlist view.
type ViewResult struct {
	Policy          playlist.SortPolicy `json:"policy"`
	Filter          string              `json:"filter"`
	Indices         []int               `json:"indices"`
	ReorderEligible bool                `json:"reorderEligible"`
}

// Snapshot is the full coordinator state a page renders from.
type Snapshot struct {
	Tracks          []Track         `json:"tracks"`
	View            []int           `json:"view"`
	ReorderEligible bool            `json:"reorderEligible"`
	CurrentIndex    int             `json:"currentIndex"`
	Current         *Track          `json:"current,omitempty"`
	State           State           `json:"state"`
	Shuffle         bool            `json:"shuffle"`
	Loop            bool            `json:"loop"`
	Volume          float64         `json:"volume"`
	Muted           bool            `json:"muted"`
	Position        float64         `json:"position"`
	Duration        float64         `json:"duration"`
	Lyrics          LyricsInfo      `json:"lyrics"`
	ActiveLine      int             `json:"activeLine"`
	History         []history.Entry `json:"history"`
	EQ              eq.Settings     `json:"eq"`
}
