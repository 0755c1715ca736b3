package storage

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyTTSnapshot  = "tt_snapshot"
)

// SearchPreferences stores tuning knobs carried between process runs, so a
// long-lived UCI session doesn't lose its operator's chosen hash size.
type SearchPreferences struct {
	HashSizeMB int       `json:"hash_size_mb"`
	LastUsed   time.Time `json:"last_used"`
}

// DefaultPreferences returns the preferences used before any have been saved.
func DefaultPreferences() *SearchPreferences {
	return &SearchPreferences{
		HashSizeMB: 64,
		LastUsed:   time.Now(),
	}
}

// PersistentStore wraps BadgerDB for warm-starting a transposition table
// from its last snapshot and remembering search tuning preferences across
// restarts. An engine works identically without one attached.
type PersistentStore struct {
	db *badger.DB
}

// NewPersistentStore opens (creating if necessary) the on-disk database.
func NewPersistentStore() (*PersistentStore, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = nil // Disable badger's own logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &PersistentStore{db: db}, nil
}

// Close closes the database.
func (s *PersistentStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences saves search tuning preferences.
func (s *PersistentStore) SavePreferences(prefs *SearchPreferences) error {
	prefs.LastUsed = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences loads search tuning preferences, returning defaults if
// none were ever saved.
func (s *PersistentStore) LoadPreferences() (*SearchPreferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if err == badger.ErrKeyNotFound {
			return nil // Use defaults
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})

	return prefs, err
}

// SaveTTSnapshot persists a serialized transposition-table snapshot. The
// caller owns the encoding (internal/engine encodes its own []TTEntry) —
// this store only keeps the bytes.
func (s *PersistentStore) SaveTTSnapshot(data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyTTSnapshot), data)
	})
}

// LoadTTSnapshot returns the most recently saved snapshot. found is false
// if nothing has ever been saved.
func (s *PersistentStore) LoadTTSnapshot() (data []byte, found bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyTTSnapshot))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		found = true
		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...)
			return nil
		})
	})

	return data, found, err
}
