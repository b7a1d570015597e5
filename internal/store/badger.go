package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"movie-recommender/internal/logging"
)

const (
	metaPrefix = "snapshot:meta:"
	dataPrefix = "snapshot:data:"
)

type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(dbPath string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = logging.BadgerLogger()

	return open(opts)
}

// NewInMemoryBadgerStore opens a store that lives only as long as the process.
func NewInMemoryBadgerStore() (*BadgerStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	return open(opts)
}

func open(opts badger.Options) (*BadgerStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) PutSnapshot(ctx context.Context, snap *Snapshot) error {
	if snap.Source == "" {
		return fmt.Errorf("snapshot source must not be empty")
	}

	meta := *snap
	meta.Size = len(snap.Data)
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(dataPrefix+snap.Source), snap.Data); err != nil {
			return err
		}
		return txn.Set([]byte(metaPrefix+snap.Source), data)
	})
}

func (s *BadgerStore) GetSnapshot(ctx context.Context, source string) (*Snapshot, error) {
	var snap Snapshot

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(metaPrefix + source))
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		}); err != nil {
			return err
		}

		item, err = txn.Get([]byte(dataPrefix + source))
		if err != nil {
			return err
		}
		snap.Data, err = item.ValueCopy(nil)
		return err
	})

	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve snapshot: %w", err)
	}

	return &snap, nil
}

func (s *BadgerStore) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	var snaps []Snapshot
	prefix := []byte(metaPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var snap Snapshot
				if err := json.Unmarshal(val, &snap); err != nil {
					return err
				}
				snaps = append(snaps, snap)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	// Sort by fetch time descending
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].FetchedAt.After(snaps[j].FetchedAt)
	})

	return snaps, nil
}

func (s *BadgerStore) DeleteSnapshot(ctx context.Context, source string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, key := range []string{metaPrefix + source, dataPrefix + source} {
			if err := txn.Delete([]byte(key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("failed to delete %s: %w", strings.TrimSuffix(key, source), err)
			}
		}
		return nil
	})
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
