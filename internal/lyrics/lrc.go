// Package lyrics parses timestamped lyrics and matches them to a playback
// position.
package lyrics

import (
	"bufio"
	"cmp"
	"io"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Status tells whether a timeline was parsed cleanly.
type Status int

const (
	StatusOK       Status = iota
	StatusDegraded        // some timestamp components fell back to zero
)

// String returns the status name.
func (s Status) String() string {
	if s == StatusDegraded {
		return "degraded"
	}
	return "ok"
}

// Line is a single timestamped lyric line.
type Line struct {
	Time float64 // seconds from track start
	Text string  // empty for an instrumental gap
}

// Timeline is a sorted sequence of lyric lines with optional metadata.
type Timeline struct {
	Lines  []Line
	Title  string
	Artist string
	Album  string

	Status   Status
	Degraded int // number of timestamps with malformed components
}

// IsEmpty reports whether the timeline has no lines.
func (t Timeline) IsEmpty() bool {
	return len(t.Lines) == 0
}

// Parse parses LRC text. It never fails: lines without a leading
// timestamp are dropped and malformed timestamp components count as zero.
func Parse(raw string) Timeline {
	tl, _ := ParseReader(strings.NewReader(raw))
	return tl
}

// ParseReader parses LRC text from r. Only read errors are returned; the
// lines read before the error are kept.
func ParseReader(r io.Reader) (Timeline, error) {
	var tl Timeline
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		parseLine(strings.TrimSuffix(scanner.Text(), "\r"), &tl)
	}

	slices.SortStableFunc(tl.Lines, func(a, b Line) int {
		return cmp.Compare(a.Time, b.Time)
	})
	if tl.Degraded > 0 {
		tl.Status = StatusDegraded
	}
	return tl, scanner.Err()
}

// parseLine tokenizes one line: a run of leading bracketed tags, then text.
func parseLine(line string, tl *Timeline) {
	var stamps []float64
	rest := line

	for {
		rest = strings.TrimLeft(rest, " \t")
		if !strings.HasPrefix(rest, "[") {
			break
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			break
		}
		body := rest[1:end]
		key, value, isTag := strings.Cut(body, ":")
		if !isTag {
			// "[Chorus]" and the like belong to the text.
			break
		}
		if isAlpha(key) {
			tl.setMeta(key, value)
		} else {
			ts, ok := parseTimestamp(key, value)
			if !ok {
				tl.Degraded++
			}
			stamps = append(stamps, ts)
		}
		rest = rest[end+1:]
	}

	if len(stamps) == 0 {
		return
	}
	text := strings.TrimSpace(rest)
	for _, ts := range stamps {
		tl.Lines = append(tl.Lines, Line{Time: ts, Text: text})
	}
}

func (tl *Timeline) setMeta(key, value string) {
	value = strings.TrimSpace(value)
	switch strings.ToLower(key) {
	case "ti":
		tl.Title = value
	case "ar":
		tl.Artist = value
	case "al":
		tl.Album = value
	}
}

// maxMinutes keeps mins*60+59 within int.
const maxMinutes = (math.MaxInt - 59) / 60

// parseTimestamp turns "MM" and "SS[.fff]" into seconds. Components that
// are not numeric or out of range count as zero and ok is false.
func parseTimestamp(minutes, rest string) (seconds float64, ok bool) {
	ok = true

	mins, err := strconv.Atoi(strings.TrimSpace(minutes))
	if err != nil || mins < 0 || mins > maxMinutes {
		mins, ok = 0, false
	}

	secPart, fracPart, hasFrac := strings.Cut(rest, ".")
	if !hasFrac {
		// [mm:ss:xx] is a common variant
		secPart, fracPart, hasFrac = strings.Cut(rest, ":")
	}

	secs, err := strconv.Atoi(strings.TrimSpace(secPart))
	if err != nil || secs < 0 || secs >= 60 {
		secs, ok = 0, false
	}

	var millis int
	if hasFrac {
		var fracOK bool
		millis, fracOK = parseFraction(fracPart)
		ok = ok && fracOK
	}

	return float64(mins*60+secs) + float64(millis)/1000, ok
}

// parseFraction right-pads 1-3 digits to milliseconds; extra digits are
// truncated.
func parseFraction(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	if len(s) > 3 {
		s = s[:3]
	}
	s += strings.Repeat("0", 3-len(s))
	ms, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return ms, true
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// ActiveLine returns the index of the line being sung at pos: the last
// line whose time is at or before pos. It returns false for an empty
// timeline or a position before the first line. Each call searches the
// whole timeline, so seeks in either direction are handled.
func ActiveLine(tl Timeline, pos float64) (int, bool) {
	lines := tl.Lines
	if len(lines) == 0 || pos != pos { // NaN
		return -1, false
	}
	i := sort.Search(len(lines), func(i int) bool {
		return lines[i].Time > pos
	})
	if i == 0 {
		return -1, false
	}
	return i - 1, true
}

// LineAt returns the index of the active line at pos, or -1.
func (t Timeline) LineAt(pos float64) int {
	idx, _ := ActiveLine(t, pos)
	return idx
}
