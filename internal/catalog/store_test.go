package catalog

import (
	"errors"
	"testing"
	"time"
)

func TestStore_AddSource(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	src := &Source{Name: "main", BaseURL: "http://x.example.com", Username: "u", Password: "p"}
	if err := store.AddSource(src); err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	if src.ID == 0 {
		t.Error("ID should be set after AddSource")
	}

	dup := &Source{Name: "main", BaseURL: "http://y.example.com"}
	err := store.AddSource(dup)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate name error = %v, want ErrDuplicate", err)
	}
}

func TestStore_GetSourceByName(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	src := testSource(t, store)

	got, err := store.GetSourceByName(src.Name)
	if err != nil {
		t.Fatalf("GetSourceByName: %v", err)
	}
	if got.ID != src.ID || got.BaseURL != src.BaseURL {
		t.Errorf("got %+v, want %+v", got, src)
	}

	_, err = store.GetSourceByName("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing source error = %v, want ErrNotFound", err)
	}
}

func TestStore_UpsertSource(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	src := &Source{Name: "main", BaseURL: "http://old.example.com"}
	if err := store.UpsertSource(src); err != nil {
		t.Fatalf("UpsertSource insert: %v", err)
	}
	firstID := src.ID

	synced := time.Now().Add(-time.Hour)
	if err := store.MarkSourceSynced(firstID, synced); err != nil {
		t.Fatalf("MarkSourceSynced: %v", err)
	}

	// Re-upsert with a new URL keeps identity and sync state.
	again := &Source{Name: "main", BaseURL: "http://new.example.com"}
	if err := store.UpsertSource(again); err != nil {
		t.Fatalf("UpsertSource update: %v", err)
	}
	if again.ID != firstID {
		t.Errorf("ID changed on upsert: %d != %d", again.ID, firstID)
	}
	if again.LastSyncedAt == nil {
		t.Error("LastSyncedAt lost on upsert")
	}

	got, err := store.GetSource(firstID)
	if err != nil {
		t.Fatalf("GetSource: %v", err)
	}
	if got.BaseURL != "http://new.example.com" {
		t.Errorf("BaseURL = %q, want updated value", got.BaseURL)
	}
}

func TestStore_DeleteSource_Cascades(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	src := testSource(t, store)

	if err := store.AddItem(testItem(src.ID, "http://s/1", "Movie One")); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if err := store.DeleteSource(src.ID); err != nil {
		t.Fatalf("DeleteSource: %v", err)
	}

	count, err := store.CountItems(nil)
	if err != nil {
		t.Fatalf("CountItems: %v", err)
	}
	if count != 0 {
		t.Errorf("items after source delete = %d, want 0", count)
	}
}

func TestStore_MarkSourceSynced_NotFound(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	err := store.MarkSourceSynced(999, time.Now())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
