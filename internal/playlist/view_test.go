package playlist

import (
	"slices"
	"testing"

	"golang.org/x/text/language"
)

func newTitled(titles ...string) *Playlist {
	p := New()
	for _, title := range titles {
		p.Add(Track{Title: title})
	}
	return p
}

func TestView_Policies(t *testing.T) {
	tests := []struct {
		policy SortPolicy
		want   []int
	}{
		{SortAddedAsc, []int{0, 1, 2}},
		{SortAddedDesc, []int{2, 1, 0}},
		{SortTitleAsc, []int{1, 0, 2}},
		{SortTitleDesc, []int{2, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			p := newTitled("b", "a", "c")

			got := p.View("", tt.policy).Indices()

			if !slices.Equal(got, tt.want) {
				t.Errorf("Indices() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestView_Filter(t *testing.T) {
	p := newTitled("Blue Song.mp3", "red.flac", "BLUEGRASS.ogg", "green.wav")

	got := p.View("  blue ", SortAddedAsc).Indices()

	if !slices.Equal(got, []int{0, 2}) {
		t.Errorf("Indices() = %v, want [0 2]", got)
	}
}

func TestView_FilterThenSort(t *testing.T) {
	p := newTitled("zeta live", "alpha", "beta live", "live gamma")

	got := p.View("LIVE", SortTitleAsc).Indices()

	if !slices.Equal(got, []int{2, 3, 0}) {
		t.Errorf("Indices() = %v, want [2 3 0]", got)
	}
}

func TestView_LocaleAwareTitles(t *testing.T) {
	p := New(WithCollation(language.French))
	for _, title := range []string{"éclair", "Zèbre", "eau", "apple"} {
		p.Add(Track{Title: title})
	}

	got := p.View("", SortTitleAsc).Indices()

	// Byte order would put "Zèbre" first and "éclair" last.
	if !slices.Equal(got, []int{3, 2, 0, 1}) {
		t.Errorf("Indices() = %v, want [3 2 0 1]", got)
	}
}

func TestView_TitleTiesAreStable(t *testing.T) {
	p := newTitled("same", "other", "same", "same")

	asc := p.View("", SortTitleAsc).Indices()
	desc := p.View("", SortTitleDesc).Indices()

	if !slices.Equal(asc, []int{1, 0, 2, 3}) {
		t.Errorf("asc = %v, want [1 0 2 3]", asc)
	}
	if !slices.Equal(desc, []int{0, 2, 3, 1}) {
		t.Errorf("desc = %v, want [0 2 3 1]", desc)
	}
}

func TestView_ReorderEligible(t *testing.T) {
	p := newTitled("a", "b")

	tests := []struct {
		filter string
		policy SortPolicy
		want   bool
	}{
		{"", SortAddedAsc, true},
		{"   ", SortAddedAsc, true},
		{"", "bogus", true},
		{"a", SortAddedAsc, false},
		{"", SortAddedDesc, false},
		{"", SortTitleAsc, false},
	}
	for _, tt := range tests {
		if got := p.View(tt.filter, tt.policy).ReorderEligible; got != tt.want {
			t.Errorf("View(%q, %q).ReorderEligible = %v, want %v", tt.filter, tt.policy, got, tt.want)
		}
	}
}

func TestView_IsLazyAndRestartable(t *testing.T) {
	p := newTitled("a", "b")
	v := p.View("", SortAddedAsc)

	p.Add(Track{Title: "c"})

	var first, second []int
	for _, idx := range v.All() {
		first = append(first, idx)
	}
	for _, idx := range v.All() {
		second = append(second, idx)
	}
	if !slices.Equal(first, []int{0, 1, 2}) || !slices.Equal(first, second) {
		t.Errorf("iterations = %v, %v; want [0 1 2] twice", first, second)
	}
}

func TestView_AllStopsEarly(t *testing.T) {
	p := newTitled("a", "b", "c")

	var seen []int
	for pos, idx := range p.View("", SortAddedDesc).All() {
		seen = append(seen, idx)
		if pos == 1 {
			break
		}
	}
	if !slices.Equal(seen, []int{2, 1}) {
		t.Errorf("seen = %v, want [2 1]", seen)
	}
}

func TestParseSortPolicy(t *testing.T) {
	if got := ParseSortPolicy("title-desc"); got != SortTitleDesc {
		t.Errorf("ParseSortPolicy(title-desc) = %q", got)
	}
	if got := ParseSortPolicy(""); got != SortAddedAsc {
		t.Errorf("ParseSortPolicy(\"\") = %q, want added-asc", got)
	}
}
