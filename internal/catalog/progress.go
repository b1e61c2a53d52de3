package catalog

import (
	"fmt"
	"time"
)

// UpsertProgress records a playback checkpoint for an item url.
// One row per url; later checkpoints replace earlier ones.
func (s *Store) UpsertProgress(p *Progress) error {
	if p.PlayedAt.IsZero() {
		p.PlayedAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO progress (url, position_ms, duration_ms, played_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			position_ms = excluded.position_ms,
			duration_ms = excluded.duration_ms,
			played_at   = excluded.played_at`,
		p.URL, p.PositionMS, p.DurationMS, p.PlayedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", mapSQLiteError(err))
	}
	return nil
}

// GetProgress retrieves the playback position for an item url.
// Returns ErrNotFound if the url was never played.
func (s *Store) GetProgress(url string) (*Progress, error) {
	p := &Progress{}
	err := s.db.QueryRow(`
		SELECT url, position_ms, duration_ms, played_at
		FROM progress WHERE url = ?`, url,
	).Scan(&p.URL, &p.PositionMS, &p.DurationMS, &p.PlayedAt)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", mapSQLiteError(err))
	}
	return p, nil
}

// ListContinueWatching returns in-progress items, most recently played
// first. Finished playbacks (>= 95% watched) are excluded.
func (s *Store) ListContinueWatching(limit int) ([]*Progress, error) {
	query := `
		SELECT url, position_ms, duration_ms, played_at
		FROM progress
		WHERE position_ms > 0 AND position_ms * 100 < duration_ms * 95
		ORDER BY played_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list continue watching: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Progress
	for rows.Next() {
		p := &Progress{}
		if err := rows.Scan(&p.URL, &p.PositionMS, &p.DurationMS, &p.PlayedAt); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress: %w", err)
	}
	return results, nil
}

// DeleteProgress removes the playback record for an item url. Idempotent.
func (s *Store) DeleteProgress(url string) error {
	_, err := s.db.Exec("DELETE FROM progress WHERE url = ?", url)
	if err != nil {
		return fmt.Errorf("delete progress: %w", mapSQLiteError(err))
	}
	return nil
}
