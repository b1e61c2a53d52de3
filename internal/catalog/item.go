package catalog

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// mapSQLiteError converts SQLite errors to custom error types.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	// modernc.org/sqlite wraps errors; check error message for constraint violations
	errStr := err.Error()
	if strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "PRIMARY KEY constraint failed") {
		return ErrDuplicate
	}
	if strings.Contains(errStr, "FOREIGN KEY constraint failed") ||
		strings.Contains(errStr, "CHECK constraint failed") {
		return ErrConstraint
	}
	return err
}

const itemColumns = "id, source_id, url, type, title, raw_title, group_name, cover_url, quality, series_id, season, episode, content_hash, favorite, added_at"

func scanItem(row interface{ Scan(...any) error }) (*Item, error) {
	i := &Item{}
	err := row.Scan(&i.ID, &i.SourceID, &i.URL, &i.Type, &i.Title, &i.RawTitle,
		&i.Group, &i.CoverURL, &i.Quality, &i.SeriesID, &i.Season, &i.Episode,
		&i.ContentHash, &i.Favorite, &i.AddedAt)
	if err != nil {
		return nil, err
	}
	return i, nil
}

func addItem(q querier, i *Item) error {
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO items (source_id, url, type, title, raw_title, group_name, cover_url, quality, series_id, season, episode, content_hash, favorite, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		i.SourceID, i.URL, i.Type, i.Title, i.RawTitle, i.Group, i.CoverURL,
		i.Quality, i.SeriesID, i.Season, i.Episode, i.ContentHash, i.Favorite, now,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	i.ID = id
	i.AddedAt = now
	return nil
}

// AddItem inserts a new catalog item.
// Sets ID and AddedAt on the struct.
func (s *Store) AddItem(i *Item) error { return addItem(s.db, i) }

// AddItem inserts a new catalog item within a transaction.
func (t *Tx) AddItem(i *Item) error { return addItem(t.tx, i) }

func getItem(q querier, id int64) (*Item, error) {
	i, err := scanItem(q.QueryRow("SELECT "+itemColumns+" FROM items WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, mapSQLiteError(err))
	}
	return i, nil
}

// GetItem retrieves an item by ID.
// Returns ErrNotFound if the item does not exist.
func (s *Store) GetItem(id int64) (*Item, error) { return getItem(s.db, id) }

// GetItem retrieves an item by ID within a transaction.
func (t *Tx) GetItem(id int64) (*Item, error) { return getItem(t.tx, id) }

// GetItemByURL retrieves an item by its stream url.
// Returns ErrNotFound if no item carries the url.
func (s *Store) GetItemByURL(url string) (*Item, error) {
	i, err := scanItem(s.db.QueryRow("SELECT "+itemColumns+" FROM items WHERE url = ?", url))
	if err != nil {
		return nil, fmt.Errorf("get item by url: %w", mapSQLiteError(err))
	}
	return i, nil
}

func listItems(q querier, f ItemFilter) ([]*Item, int, error) {
	var conditions []string
	var args []any

	if f.SourceID != nil {
		conditions = append(conditions, "source_id = ?")
		args = append(args, *f.SourceID)
	}
	if f.Type != nil {
		conditions = append(conditions, "type = ?")
		args = append(args, *f.Type)
	}
	if f.SeriesID != nil {
		conditions = append(conditions, "series_id = ?")
		args = append(args, *f.SeriesID)
	}
	if f.Title != nil {
		conditions = append(conditions, "title = ?")
		args = append(args, *f.Title)
	}
	if f.TitlePrefix != nil {
		conditions = append(conditions, "title LIKE ? || '%'")
		args = append(args, *f.TitlePrefix)
	}
	if f.Group != nil {
		conditions = append(conditions, "group_name = ?")
		args = append(args, *f.Group)
	}
	if f.Season != nil {
		conditions = append(conditions, "season = ?")
		args = append(args, *f.Season)
	}
	if f.Episode != nil {
		conditions = append(conditions, "episode = ?")
		args = append(args, *f.Episode)
	}
	if f.Favorite != nil {
		conditions = append(conditions, "favorite = ?")
		args = append(args, *f.Favorite)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := q.QueryRow("SELECT COUNT(*) FROM items "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	query := "SELECT " + itemColumns + " FROM items " + whereClause + " ORDER BY id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan item: %w", err)
		}
		results = append(results, i)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate items: %w", err)
	}

	return results, total, nil
}

// ListItems returns items matching the filter with pagination.
// Returns (results, totalCount, error).
func (s *Store) ListItems(f ItemFilter) ([]*Item, int, error) { return listItems(s.db, f) }

// ListItems returns items matching the filter within a transaction.
func (t *Tx) ListItems(f ItemFilter) ([]*Item, int, error) { return listItems(t.tx, f) }

// SearchItems returns items whose normalized title contains the query,
// case-insensitively.
func (s *Store) SearchItems(query string, limit int) ([]*Item, error) {
	q := "SELECT " + itemColumns + " FROM items WHERE title LIKE '%' || ? || '%' ORDER BY title"
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.Query(q, query)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		results = append(results, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return results, nil
}

// SnapshotItems returns a lightweight url/hash projection of all items for
// one source, for sync diffing. Full rows are never materialized; catalogs
// can reach tens of thousands of items.
func (s *Store) SnapshotItems(sourceID int64) ([]ItemRef, error) {
	rows, err := s.db.Query("SELECT id, url, content_hash FROM items WHERE source_id = ?", sourceID)
	if err != nil {
		return nil, fmt.Errorf("snapshot items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var refs []ItemRef
	for rows.Next() {
		var ref ItemRef
		if err := rows.Scan(&ref.ID, &ref.URL, &ref.ContentHash); err != nil {
			return nil, fmt.Errorf("scan item ref: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item refs: %w", err)
	}
	return refs, nil
}

// BulkInsertItems inserts items in a single transaction, skipping rows that
// collide on (source_id, url). Returns the count of newly inserted items.
func (s *Store) BulkInsertItems(items []*Item) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO items (source_id, url, type, title, raw_title, group_name, cover_url, quality, series_id, season, episode, content_hash, favorite, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now()
	inserted := 0
	for _, i := range items {
		result, err := stmt.Exec(i.SourceID, i.URL, i.Type, i.Title, i.RawTitle,
			i.Group, i.CoverURL, i.Quality, i.SeriesID, i.Season, i.Episode,
			i.ContentHash, i.Favorite, now)
		if err != nil {
			return inserted, fmt.Errorf("insert item %q: %w", i.URL, mapSQLiteError(err))
		}
		if rows, _ := result.RowsAffected(); rows > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return inserted, nil
}

// ItemUpdate carries the fields sync is allowed to mutate post-insert.
type ItemUpdate struct {
	ID          int64
	Title       string
	Group       string
	CoverURL    string
	RawTitle    string
	Quality     string
	ContentHash string
}

// ApplyItemUpdates mutates refreshed metadata in one transaction. Blank
// incoming values never overwrite populated columns, and raw title and
// quality are only filled when previously empty.
func (s *Store) ApplyItemUpdates(updates []ItemUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		UPDATE items SET
			title        = CASE WHEN ?1 != '' THEN ?1 ELSE title END,
			group_name   = CASE WHEN ?2 != '' THEN ?2 ELSE group_name END,
			cover_url    = CASE WHEN ?3 != '' THEN ?3 ELSE cover_url END,
			raw_title    = CASE WHEN raw_title = '' THEN ?4 ELSE raw_title END,
			quality      = CASE WHEN quality = '' THEN ?5 ELSE quality END,
			content_hash = ?6
		WHERE id = ?7`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, u := range updates {
		if _, err := stmt.Exec(u.Title, u.Group, u.CoverURL, u.RawTitle, u.Quality, u.ContentHash, u.ID); err != nil {
			return fmt.Errorf("update item %d: %w", u.ID, mapSQLiteError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// DeleteItemsByURLs removes the given urls for one source in a single
// predicate delete. Idempotent.
func (s *Store) DeleteItemsByURLs(sourceID int64, urls []string) error {
	if len(urls) == 0 {
		return nil
	}

	placeholders := make([]string, len(urls))
	args := make([]any, 0, len(urls)+1)
	args = append(args, sourceID)
	for i, u := range urls {
		placeholders[i] = "?"
		args = append(args, u)
	}

	_, err := s.db.Exec(fmt.Sprintf(
		"DELETE FROM items WHERE source_id = ? AND url IN (%s)",
		strings.Join(placeholders, ",")), args...)
	if err != nil {
		return fmt.Errorf("delete items: %w", mapSQLiteError(err))
	}
	return nil
}

// SetFavorite toggles the favorite flag for an item url.
// Returns ErrNotFound if no item carries the url.
func (s *Store) SetFavorite(url string, favorite bool) error {
	result, err := s.db.Exec("UPDATE items SET favorite = ? WHERE url = ?", favorite, url)
	if err != nil {
		return fmt.Errorf("set favorite: %w", mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("set favorite: %w", ErrNotFound)
	}
	return nil
}

// CountItems returns the number of items, optionally scoped to a source.
func (s *Store) CountItems(sourceID *int64) (int, error) {
	var count int
	var err error
	if sourceID != nil {
		err = s.db.QueryRow("SELECT COUNT(*) FROM items WHERE source_id = ?", *sourceID).Scan(&count)
	} else {
		err = s.db.QueryRow("SELECT COUNT(*) FROM items").Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}
