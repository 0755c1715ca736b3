package storage

import (
	"os"
	"testing"
)

func TestDefaultPreferences(t *testing.T) {
	prefs := DefaultPreferences()
	if prefs.HashSizeMB != 64 {
		t.Errorf("expected default hash size 64 MB, got %d", prefs.HashSizeMB)
	}
}

func TestPersistentStoreRoundTrip(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "searchcore-storage-test-*")
	if err != nil {
		t.Fatalf("MkdirTemp failed: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	t.Setenv("XDG_DATA_HOME", tmpDir)

	store, err := NewPersistentStore()
	if err != nil {
		t.Fatalf("NewPersistentStore failed: %v", err)
	}
	defer store.Close()

	t.Run("preferences round-trip", func(t *testing.T) {
		prefs := DefaultPreferences()
		prefs.HashSizeMB = 256
		if err := store.SavePreferences(prefs); err != nil {
			t.Fatalf("SavePreferences failed: %v", err)
		}

		loaded, err := store.LoadPreferences()
		if err != nil {
			t.Fatalf("LoadPreferences failed: %v", err)
		}
		if loaded.HashSizeMB != 256 {
			t.Errorf("expected hash size 256, got %d", loaded.HashSizeMB)
		}
	})

	t.Run("tt snapshot round-trip", func(t *testing.T) {
		want := []byte{1, 2, 3, 4, 5}
		if err := store.SaveTTSnapshot(want); err != nil {
			t.Fatalf("SaveTTSnapshot failed: %v", err)
		}

		got, found, err := store.LoadTTSnapshot()
		if err != nil {
			t.Fatalf("LoadTTSnapshot failed: %v", err)
		}
		if !found {
			t.Fatal("expected snapshot to be found")
		}
		if len(got) != len(want) {
			t.Fatalf("expected %d bytes, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("byte %d: expected %d, got %d", i, want[i], got[i])
			}
		}
	})
}

func TestLoadTTSnapshotMissing(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "searchcore-storage-test-*")
	if err != nil {
		t.Fatalf("MkdirTemp failed: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	t.Setenv("XDG_DATA_HOME", tmpDir)

	store, err := NewPersistentStore()
	if err != nil {
		t.Fatalf("NewPersistentStore failed: %v", err)
	}
	defer store.Close()

	_, found, err := store.LoadTTSnapshot()
	if err != nil {
		t.Fatalf("LoadTTSnapshot failed: %v", err)
	}
	if found {
		t.Error("expected no snapshot before any save")
	}
}

func TestDataPaths(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "searchcore-storage-test-*")
	if err != nil {
		t.Fatalf("MkdirTemp failed: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	t.Setenv("XDG_DATA_HOME", tmpDir)

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("data directory was not created: %s", dataDir)
	}
}
