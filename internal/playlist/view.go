package playlist

import (
	"iter"
	"slices"
	"strings"

	"golang.org/x/text/collate"
)

// SortPolicy orders a View.
type SortPolicy string

const (
	SortAddedAsc  SortPolicy = "added-asc"
	SortAddedDesc SortPolicy = "added-desc"
	SortTitleAsc  SortPolicy = "title-asc"
	SortTitleDesc SortPolicy = "title-desc"
)

// ParseSortPolicy maps a policy name to a SortPolicy, falling back to
// SortAddedAsc for anything unknown.
func ParseSortPolicy(s string) SortPolicy {
	switch p := SortPolicy(strings.TrimSpace(s)); p {
	case SortAddedAsc, SortAddedDesc, SortTitleAsc, SortTitleDesc:
		return p
	default:
		return SortAddedAsc
	}
}

// View is a filtered and sorted projection of the playlist order. It
// yields indices into the playlist, never track copies, and is computed
// each time it is iterated.
type View struct {
	p      *Playlist
	filter string
	policy SortPolicy

	// ReorderEligible is true when the view shows the logical order
	// unchanged, which is the only case where Move makes sense to offer.
	ReorderEligible bool
}

// View returns a projection filtered by a case-insensitive title
// substring and ordered by policy.
func (p *Playlist) View(filter string, policy SortPolicy) View {
	filter = strings.ToLower(strings.TrimSpace(filter))
	policy = ParseSortPolicy(string(policy))
	return View{
		p:               p,
		filter:          filter,
		policy:          policy,
		ReorderEligible: filter == "" && policy == SortAddedAsc,
	}
}

// Policy returns the effective sort policy.
func (v View) Policy() SortPolicy {
	return v.policy
}

// All yields (position in view, index in playlist) pairs.
func (v View) All() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for pos, idx := range v.Indices() {
			if !yield(pos, idx) {
				return
			}
		}
	}
}

// Indices materializes the view.
func (v View) Indices() []int {
	if v.p == nil {
		return nil
	}
	tracks := v.p.tracks

	indices := make([]int, 0, len(tracks))
	for i, t := range tracks {
		if v.filter == "" || strings.Contains(strings.ToLower(t.Title), v.filter) {
			indices = append(indices, i)
		}
	}

	switch v.policy {
	case SortAddedDesc:
		slices.Reverse(indices)
	case SortTitleAsc, SortTitleDesc:
		c := collate.New(v.p.collator)
		desc := v.policy == SortTitleDesc
		slices.SortStableFunc(indices, func(a, b int) int {
			if desc {
				a, b = b, a
			}
			return c.CompareString(tracks[a].Title, tracks[b].Title)
		})
	case SortAddedAsc:
		// already in logical order
	}
	return indices
}

// Len returns the number of tracks in the view.
func (v View) Len() int {
	return len(v.Indices())
}
