package storage

import (
	"path/filepath"
	"testing"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, found, err := store.Get("missing"); err != nil || found {
				t.Fatalf("missing key: found=%v err=%v", found, err)
			}

			if err := store.Set("k", []byte("v1")); err != nil {
				t.Fatalf("set: %v", err)
			}
			got, found, err := store.Get("k")
			if err != nil || !found || string(got) != "v1" {
				t.Fatalf("get = %q found=%v err=%v", got, found, err)
			}

			// upsert
			if err := store.Set("k", []byte("v2")); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, _, _ = store.Get("k")
			if string(got) != "v2" {
				t.Fatalf("after overwrite = %q", got)
			}

			if err := store.Delete("k"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, found, _ := store.Get("k"); found {
				t.Fatalf("key survived delete")
			}
			if err := store.Delete("k"); err != nil {
				t.Fatalf("deleting a missing key should not fail: %v", err)
			}
		})
	}
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	m := NewMemory()
	if err := m.Set("k", []byte("abc")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, _, _ := m.Get("k")
	got[0] = 'x'
	again, _, _ := m.Get("k")
	if string(again) != "abc" {
		t.Fatalf("stored value mutated through a returned slice")
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set("k", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = OpenSQLite(path) // migrations must be a no-op second time
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, found, err := s.Get("k")
	if err != nil || !found || string(got) != "v" {
		t.Fatalf("value lost across reopen: %q found=%v err=%v", got, found, err)
	}
}
