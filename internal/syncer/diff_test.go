package syncer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/iptvarr/internal/catalog"
)

func draft(url, title string) *catalog.Item {
	i := &catalog.Item{URL: url, Type: catalog.TypeMovie, Title: title, RawTitle: title}
	i.ContentHash = i.ComputeHash()
	return i
}

func ref(id int64, url, hash string) catalog.ItemRef {
	return catalog.ItemRef{ID: id, URL: url, ContentHash: hash}
}

func TestComputeDiff(t *testing.T) {
	unchanged := draft("http://s/a", "Alpha")
	changed := draft("http://s/b", "Beta Reworked")

	snapshot := []catalog.ItemRef{
		ref(1, "http://s/a", unchanged.ContentHash),
		ref(2, "http://s/b", "0000000000000000"), // hash moved
		ref(3, "http://s/gone", "1111111111111111"),
	}
	fresh := []*catalog.Item{
		unchanged,
		changed,
		draft("http://s/new", "Gamma"),
	}

	d := computeDiff(snapshot, fresh)

	require.Len(t, d.inserts, 1)
	assert.Equal(t, "http://s/new", d.inserts[0].URL)

	require.Len(t, d.updates, 1)
	assert.Equal(t, int64(2), d.updates[0].ID)
	assert.Equal(t, changed.ContentHash, d.updates[0].ContentHash)

	require.Len(t, d.deletes, 1)
	assert.Equal(t, "http://s/gone", d.deletes[0])

	assert.Equal(t, 1, d.unchanged)
}

func TestComputeDiff_EmptySnapshot(t *testing.T) {
	fresh := []*catalog.Item{draft("http://s/a", "Alpha"), draft("http://s/b", "Beta")}

	d := computeDiff(nil, fresh)
	assert.Len(t, d.inserts, 2)
	assert.Empty(t, d.updates)
	assert.Empty(t, d.deletes)
}

func TestComputeDiff_EmptyFetch(t *testing.T) {
	// A provider that suddenly returns nothing orphans its whole catalog.
	snapshot := []catalog.ItemRef{ref(1, "http://s/a", "aa"), ref(2, "http://s/b", "bb")}

	d := computeDiff(snapshot, nil)
	assert.Empty(t, d.inserts)
	assert.Empty(t, d.updates)
	assert.Len(t, d.deletes, 2)
}

func TestComputeDiff_DuplicateURLKeepsFirst(t *testing.T) {
	first := draft("http://s/a", "Alpha")
	second := draft("http://s/a", "Alpha Again")

	d := computeDiff(nil, []*catalog.Item{first, second})
	require.Len(t, d.inserts, 1)
	assert.Equal(t, "Alpha", d.inserts[0].Title)
}

func TestComputeDiff_Conservation(t *testing.T) {
	// Every draft is classified exactly once; every orphan is deleted.
	var snapshot []catalog.ItemRef
	var fresh []*catalog.Item
	for i := 0; i < 100; i++ {
		url := fmt.Sprintf("http://s/%d", i)
		item := draft(url, fmt.Sprintf("Title %d", i))
		switch {
		case i < 40: // unchanged
			snapshot = append(snapshot, ref(int64(i), url, item.ContentHash))
			fresh = append(fresh, item)
		case i < 60: // changed
			snapshot = append(snapshot, ref(int64(i), url, "stale"))
			fresh = append(fresh, item)
		case i < 80: // orphaned
			snapshot = append(snapshot, ref(int64(i), url, item.ContentHash))
		default: // new
			fresh = append(fresh, item)
		}
	}

	d := computeDiff(snapshot, fresh)
	assert.Equal(t, 40, d.unchanged)
	assert.Len(t, d.updates, 20)
	assert.Len(t, d.deletes, 20)
	assert.Len(t, d.inserts, 20)
	assert.Equal(t, len(fresh), d.unchanged+len(d.updates)+len(d.inserts))
}
