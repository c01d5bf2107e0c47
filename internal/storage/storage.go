package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/dgraph-io/badger/v4"
)

const keyGamePrefix = "game/"

var ErrNotFound = errors.New("saved game not found")

// SavedGame is the stored record: a game snapshot plus when it was saved.
type SavedGame struct {
	SavedAt  time.Time          `json:"saved_at"`
	Snapshot model.GameSnapshot `json:"snapshot"`
}

// Store wraps BadgerDB for saved games
type Store struct {
	db *badger.DB
}

// Open opens the store in dir, or in memory when dir is empty.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(id string) []byte {
	return []byte(keyGamePrefix + id)
}

// Save stores snap under its game ID, replacing any earlier save.
func (s *Store) Save(snap model.GameSnapshot) error {
	data, err := json.Marshal(SavedGame{SavedAt: time.Now(), Snapshot: snap})
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gameKey(snap.ID), data)
	})
}

// Load returns the saved snapshot for id. The snapshot is not validated
// here; model.RestoreGame does that.
func (s *Store) Load(id string) (model.GameSnapshot, error) {
	var saved SavedGame

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &saved)
		})
	})

	return saved.Snapshot, err
}

// List returns the IDs of all saved games, sorted.
func (s *Store) List() ([]string, error) {
	ids := []string{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyGamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, key[len(keyGamePrefix):])
		}
		return nil
	})

	sort.Strings(ids)
	return ids, err
}

func (s *Store) Delete(id string) error {
	if _, err := s.Load(id); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(gameKey(id))
	})
}
