package core

import (
	"errors"
	"testing"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store := newTestSQLiteStore(t)

	if err := store.Save(KeyAccessToken, "abc123"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	value, err := store.Load(KeyAccessToken)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if value != "abc123" {
		t.Fatalf("expected abc123, got %q", value)
	}
}

func TestSQLiteStore_OverwriteExistingKey(t *testing.T) {
	store := newTestSQLiteStore(t)

	if err := store.Save(KeyAccessToken, "first"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Save(KeyAccessToken, "second"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	value, err := store.Load(KeyAccessToken)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if value != "second" {
		t.Fatalf("expected second, got %q", value)
	}
}

func TestSQLiteStore_LoadAbsentKey(t *testing.T) {
	store := newTestSQLiteStore(t)

	if _, err := store.Load(KeyRefreshToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_DeleteIsIdempotent(t *testing.T) {
	store := newTestSQLiteStore(t)

	if err := store.Save(KeyAccessToken, "abc"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Delete(KeyAccessToken); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := store.Delete(KeyAccessToken); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
	if _, err := store.Load(KeyAccessToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
