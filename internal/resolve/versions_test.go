package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/iptvarr/internal/catalog"
)

func TestResolver_Versions_Movie(t *testing.T) {
	r, store, src := setupResolver(t)

	fr := addItem(t, store, movie(src.ID, "http://s/fr", "Inception.2010.1080p.FRENCH"))
	uhd := addItem(t, store, movie(src.ID, "http://s/4k", "Inception (2010) 4K"))
	addItem(t, store, movie(src.ID, "http://s/other", "Tenet (2020) 1080p"))

	got := r.Versions(fr)
	require.Len(t, got, 2)
	urls := []string{got[0].URL, got[1].URL}
	assert.Contains(t, urls, fr.URL)
	assert.Contains(t, urls, uhd.URL)
}

func TestResolver_Versions_EpisodeScopedToSeasonEpisode(t *testing.T) {
	r, store, src := setupResolver(t)

	ep5 := addItem(t, store, episode(src.ID, "http://s/e5", "Breaking Bad S01E05", "42", 1, 5))
	addItem(t, store, episode(src.ID, "http://s/e5-fr", "Breaking Bad S01E05 FRENCH", "42", 1, 5))
	addItem(t, store, episode(src.ID, "http://s/e6", "Breaking Bad S01E06", "42", 1, 6))

	got := r.Versions(ep5)
	require.Len(t, got, 2)
	for _, v := range got {
		assert.Equal(t, 5, v.Episode)
	}
}

func TestResolver_BestVersion_Ranking(t *testing.T) {
	r, _, src := setupResolver(t)

	en1080 := movie(src.ID, "http://s/en", "Heat 1995 1080p EN")
	fr4k := movie(src.ID, "http://s/fr4k", "Heat 1995 4K FRENCH")
	fr720 := movie(src.ID, "http://s/fr720", "Heat 1995 720p FRENCH")

	tests := []struct {
		name  string
		prefs Preferences
		want  string
	}{
		{"language beats quality", Preferences{Language: "French", Resolution: "1080p"}, "http://s/fr4k"},
		{"resolution within language", Preferences{Language: "French", Resolution: "720p"}, "http://s/fr720"},
		{"quality score breaks ties", Preferences{Language: "English"}, "http://s/en"},
		{"no preferences falls back to score", Preferences{}, "http://s/fr4k"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best := r.BestVersion([]*catalog.Item{en1080, fr4k, fr720}, tt.prefs)
			require.NotNil(t, best)
			assert.Equal(t, tt.want, best.URL)
		})
	}
}

func TestResolver_BestVersion_Empty(t *testing.T) {
	r, _, _ := setupResolver(t)
	assert.Nil(t, r.BestVersion(nil, Preferences{Language: "English"}))
}

func TestResolver_BestVersion_TieKeepsFirst(t *testing.T) {
	r, _, src := setupResolver(t)

	a := movie(src.ID, "http://s/a", "Heat 1995 1080p")
	b := movie(src.ID, "http://s/b", "Heat 1995 1080p")

	best := r.BestVersion([]*catalog.Item{a, b}, Preferences{})
	require.NotNil(t, best)
	assert.Equal(t, a.URL, best.URL)
}
