package dedupe

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/vmunix/iptvarr/internal/catalog"
)

func item(url, title string) *catalog.Item {
	return &catalog.Item{URL: url, Type: catalog.TypeMovie, Title: title, RawTitle: title}
}

func TestDeduplicate_SameTitleKeepsBest(t *testing.T) {
	plain := item("http://a/1", "Inception")
	plain.Quality = "1080p"
	uhd := item("http://b/1", "Inception")
	uhd.Quality = "4K"

	// 4K wins regardless of insertion order.
	for _, in := range [][]*catalog.Item{{plain, uhd}, {uhd, plain}} {
		got := Deduplicate(in, false)
		if len(got) != 1 {
			t.Fatalf("len = %d, want 1", len(got))
		}
		if got[0].Quality != "4K" {
			t.Errorf("kept %q version, want 4K", got[0].Quality)
		}
	}
}

func TestDeduplicate_CoverBeatsQuality(t *testing.T) {
	uhd := item("http://a/1", "Dune")
	uhd.Quality = "4K"
	withArt := item("http://b/1", "Dune")
	withArt.Quality = "720p"
	withArt.CoverURL = "http://cdn/dune.jpg"

	got := Deduplicate([]*catalog.Item{uhd, withArt}, false)
	if len(got) != 1 || got[0].CoverURL == "" {
		t.Errorf("cover art should win the first tie-break, got %+v", got[0])
	}
}

func TestDeduplicate_SeriesBeatsEpisode(t *testing.T) {
	ep := item("http://a/ep", "Breaking Bad")
	ep.Type = catalog.TypeEpisode
	ep.SeriesID = "42"
	show := item("http://a/show", "Breaking Bad")
	show.Type = catalog.TypeSeries
	show.SeriesID = "42"

	got := Deduplicate([]*catalog.Item{ep, show}, true)
	if len(got) != 1 || got[0].Type != catalog.TypeSeries {
		t.Errorf("show-level record should win, got %+v", got[0])
	}
}

func TestDeduplicate_SeriesIDGroupsDifferentTitles(t *testing.T) {
	a := item("http://a/1", "Doctor Who")
	a.Type = catalog.TypeSeries
	a.SeriesID = "7"
	b := item("http://b/1", "Doctor Who 2005")
	b.Type = catalog.TypeSeries
	b.SeriesID = "7"

	got := Deduplicate([]*catalog.Item{a, b}, true)
	if len(got) != 1 {
		t.Errorf("provider series id should be authoritative, got %d items", len(got))
	}
}

func TestDeduplicate_GenericTitlesSurvive(t *testing.T) {
	a := item("http://a/1", "Unknown Title")
	b := item("http://b/9", "Unknown Title")
	b.RawTitle = ""
	a.RawTitle = ""

	got := Deduplicate([]*catalog.Item{a, b}, false)
	if len(got) != 2 {
		t.Errorf("distinct unidentified items collapsed: len = %d, want 2", len(got))
	}
}

func TestDeduplicate_FirstSeenWinsTies(t *testing.T) {
	first := item("http://a/1", "Heat")
	second := item("http://b/1", "Heat")

	got := Deduplicate([]*catalog.Item{first, second}, false)
	if len(got) != 1 || got[0].URL != "http://a/1" {
		t.Errorf("tie should keep first-seen, got %+v", got[0])
	}
}

func TestDeduplicate_OrderPreserving(t *testing.T) {
	in := []*catalog.Item{
		item("http://a/1", "Zeta"),
		item("http://a/2", "Alpha"),
		item("http://a/3", "Zeta"),
		item("http://a/4", "Mid"),
	}
	got := Deduplicate(in, false)
	want := []string{"Zeta", "Alpha", "Mid"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("position %d = %q, want %q", i, got[i].Title, title)
		}
	}
}

func TestDeduplicate_PermutationDeterminism(t *testing.T) {
	build := func() []*catalog.Item {
		plain := item("http://a/1", "Inception")
		uhd := item("http://b/1", "Inception")
		uhd.Quality = "4K"
		other := item("http://c/1", "Tenet")
		gen1 := item("http://d/1", "Unknown Title")
		gen1.RawTitle = ""
		gen2 := item("http://e/1", "Unknown Title")
		gen2.RawTitle = ""
		return []*catalog.Item{plain, uhd, other, gen1, gen2}
	}

	canonical := func(items []*catalog.Item) []string {
		var urls []string
		for _, i := range items {
			urls = append(urls, i.URL)
		}
		sort.Strings(urls)
		return urls
	}

	want := canonical(Deduplicate(build(), false))
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		in := build()
		rng.Shuffle(len(in), func(i, j int) { in[i], in[j] = in[j], in[i] })
		got := canonical(Deduplicate(in, false))
		if len(got) != len(want) {
			t.Fatalf("trial %d: set size %d, want %d", trial, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("trial %d: set = %v, want %v", trial, got, want)
			}
		}
	}
}

func TestIsGenericTitle(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"Unknown Title", true},
		{"unknown channel", true},
		{"Movie", true},
		{"Series", true},
		{"", true},
		{"  ", true},
		{"The Movie", false},
		{"Inception", false},
	}
	for _, tt := range tests {
		if got := IsGenericTitle(tt.title); got != tt.want {
			t.Errorf("IsGenericTitle(%q) = %v, want %v", tt.title, got, tt.want)
		}
	}
}
