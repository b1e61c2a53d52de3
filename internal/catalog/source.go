package catalog

import (
	"errors"
	"fmt"
	"time"
)

func addSource(q querier, src *Source) error {
	result, err := q.Exec(`
		INSERT INTO sources (name, base_url, username, password, last_synced_at)
		VALUES (?, ?, ?, ?, ?)`,
		src.Name, src.BaseURL, src.Username, src.Password, src.LastSyncedAt,
	)
	if err != nil {
		return fmt.Errorf("insert source: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	src.ID = id
	return nil
}

// AddSource inserts a new provider source.
// Sets ID on the struct. Returns ErrDuplicate when the name is taken.
func (s *Store) AddSource(src *Source) error { return addSource(s.db, src) }

// AddSource inserts a new provider source within a transaction.
func (t *Tx) AddSource(src *Source) error { return addSource(t.tx, src) }

const sourceColumns = "id, name, base_url, username, password, last_synced_at"

func scanSource(row interface{ Scan(...any) error }) (*Source, error) {
	src := &Source{}
	err := row.Scan(&src.ID, &src.Name, &src.BaseURL, &src.Username, &src.Password, &src.LastSyncedAt)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// GetSource retrieves a source by ID.
// Returns ErrNotFound if the source does not exist.
func (s *Store) GetSource(id int64) (*Source, error) {
	src, err := scanSource(s.db.QueryRow("SELECT "+sourceColumns+" FROM sources WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get source %d: %w", id, mapSQLiteError(err))
	}
	return src, nil
}

// GetSourceByName retrieves a source by its unique name.
// Returns ErrNotFound if the source does not exist.
func (s *Store) GetSourceByName(name string) (*Source, error) {
	src, err := scanSource(s.db.QueryRow("SELECT "+sourceColumns+" FROM sources WHERE name = ?", name))
	if err != nil {
		return nil, fmt.Errorf("get source %q: %w", name, mapSQLiteError(err))
	}
	return src, nil
}

// ListSources returns all configured sources ordered by name.
func (s *Store) ListSources() ([]*Source, error) {
	rows, err := s.db.Query("SELECT " + sourceColumns + " FROM sources ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		results = append(results, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sources: %w", err)
	}
	return results, nil
}

// UpsertSource finds a source by name and updates its connection fields, or
// creates it. Keeps last_synced_at across config reloads.
func (s *Store) UpsertSource(src *Source) error {
	existing, err := s.GetSourceByName(src.Name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return s.AddSource(src)
		}
		return err
	}
	src.ID = existing.ID
	src.LastSyncedAt = existing.LastSyncedAt
	_, err = s.db.Exec(`
		UPDATE sources SET base_url = ?, username = ?, password = ? WHERE id = ?`,
		src.BaseURL, src.Username, src.Password, src.ID,
	)
	if err != nil {
		return fmt.Errorf("update source %d: %w", src.ID, mapSQLiteError(err))
	}
	return nil
}

// MarkSourceSynced records a successful sync completion time. Only called
// after all sync batches have been applied.
func (s *Store) MarkSourceSynced(id int64, at time.Time) error {
	result, err := s.db.Exec("UPDATE sources SET last_synced_at = ? WHERE id = ?", at, id)
	if err != nil {
		return fmt.Errorf("mark source synced: %w", mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("mark source synced %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteSource removes a source and all of its items. Idempotent.
// Items are deleted explicitly rather than via cascade so the behavior does
// not depend on the connection's foreign_keys pragma.
func (s *Store) DeleteSource(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM items WHERE source_id = ?", id); err != nil {
		return fmt.Errorf("delete source items: %w", mapSQLiteError(err))
	}
	if _, err := tx.Exec("DELETE FROM sources WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete source %d: %w", id, mapSQLiteError(err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
