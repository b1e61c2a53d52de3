package syncer

import "github.com/vmunix/iptvarr/internal/catalog"

// diff is the outcome of comparing a fresh provider catalog against the
// persisted snapshot. Every fresh draft lands in exactly one of
// inserts, updates, or unchanged; every snapshot url not seen in the
// fresh set lands in deletes.
type diff struct {
	inserts   []*catalog.Item
	updates   []catalog.ItemUpdate
	deletes   []string // urls
	unchanged int
}

// computeDiff matches drafts against the snapshot by url and classifies
// them by content hash. Pure; the store is not touched.
func computeDiff(snapshot []catalog.ItemRef, drafts []*catalog.Item) diff {
	prev := make(map[string]catalog.ItemRef, len(snapshot))
	for _, ref := range snapshot {
		prev[ref.URL] = ref
	}

	var d diff
	seen := make(map[string]bool, len(drafts))
	for _, draft := range drafts {
		if seen[draft.URL] {
			continue
		}
		seen[draft.URL] = true

		ref, exists := prev[draft.URL]
		if !exists {
			d.inserts = append(d.inserts, draft)
			continue
		}
		if ref.ContentHash == draft.ContentHash {
			d.unchanged++
			continue
		}
		d.updates = append(d.updates, catalog.ItemUpdate{
			ID:          ref.ID,
			Title:       draft.Title,
			Group:       draft.Group,
			CoverURL:    draft.CoverURL,
			RawTitle:    draft.RawTitle,
			Quality:     draft.Quality,
			ContentHash: draft.ContentHash,
		})
	}

	for _, ref := range snapshot {
		if !seen[ref.URL] {
			d.deletes = append(d.deletes, ref.URL)
		}
	}
	return d
}
