// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package persistence stores named grid snapshots in an embedded BadgerDB.
//
// BadgerDB gives low-latency local storage without an external service.
// Keys are "snapshot/<name>", values are the JSON-encoded grid. Listing
// scans the prefix; the reported size is the stored blob size.
//
// License: BadgerDB is Apache 2.0 licensed (github.com/dgraph-io/badger).
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/jinterlante1206/AleutianGrid/services/sheet/datatypes"
)

// ErrNotFound marks a snapshot name with no stored grid. Callers surface it
// as a distinct not-found status; it is recoverable, not an IO failure.
var ErrNotFound = errors.New("snapshot not found")

const keyPrefix = "snapshot/"

// Config holds configuration for the snapshot store.
type Config struct {
	// Path is the directory for BadgerDB files. Ignored when InMemory is true.
	Path string
	// InMemory disables disk persistence. Useful for testing.
	InMemory bool
	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool
	// GCInterval is how often to run value log garbage collection.
	// Zero disables the GC loop.
	GCInterval time.Duration
}

// DefaultConfig returns production defaults for a given data directory.
func DefaultConfig(path string) Config {
	return Config{
		Path:       path,
		SyncWrites: true,
		GCInterval: 5 * time.Minute,
	}
}

// InMemoryConfig returns a configuration for tests: no disk I/O, no GC.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// SnapshotInfo describes one saved snapshot without its cell data.
type SnapshotInfo struct {
	Name         string    `json:"name"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	LastModified time.Time `json:"last_modified"`
	SizeBytes    int64     `json:"size_bytes"`
}

// Store is the snapshot store. Safe for concurrent use; BadgerDB handles its
// own locking.
type Store struct {
	db  *badger.DB
	cfg Config
}

// Open creates the data directory if needed and opens the database.
func Open(cfg Config) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("path is required for a persistent snapshot store")
		}
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create snapshot directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	opts = opts.WithNumVersionsToKeep(1)
	opts = opts.WithLogger(nil) // badger's own logging is noise here

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open snapshot database: %w", err)
	}
	return &Store{db: db, cfg: cfg}, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a grid under name, overwriting any previous snapshot. A failed
// save leaves both the database entry and the in-memory grid untouched.
func (s *Store) Save(name string, g *datatypes.Grid) error {
	blob, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode snapshot %q: %w", name, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+name), blob)
	})
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", name, err)
	}
	return nil
}

// Load returns the grid stored under name, or ErrNotFound.
func (s *Store) Load(name string) (*datatypes.Grid, error) {
	var g datatypes.Grid
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &g)
		})
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load snapshot %q: %w", name, err)
	}
	if g.Cells == nil {
		g.Cells = make(map[string]datatypes.CellRecord)
	}
	return &g, nil
}

// List returns info for every saved snapshot.
func (s *Store) List() ([]SnapshotInfo, error) {
	infos := []SnapshotInfo{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			name := string(item.Key()[len(prefix):])
			var meta struct {
				Metadata datatypes.GridMetadata `json:"metadata"`
			}
			size := int64(0)
			err := item.Value(func(val []byte) error {
				size = int64(len(val))
				return json.Unmarshal(val, &meta)
			})
			if err != nil {
				slog.Warn("skipping unreadable snapshot", "name", name, "error", err)
				continue
			}
			infos = append(infos, SnapshotInfo{
				Name:         name,
				Title:        meta.Metadata.Title,
				CreatedAt:    meta.Metadata.CreatedAt,
				LastModified: meta.Metadata.LastModified,
				SizeBytes:    size,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return infos, nil
}

// Delete removes the snapshot stored under name, or returns ErrNotFound.
func (s *Store) Delete(name string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		key := []byte(keyPrefix + name)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete snapshot %q: %w", name, err)
	}
	return nil
}

// RunGC runs value log garbage collection until ctx is done. No-op when the
// store is in memory or GC is disabled.
func (s *Store) RunGC(ctx context.Context) {
	if s.cfg.InMemory || s.cfg.GCInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.GCInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Badger asks callers to loop until GC reports nothing to do.
			for {
				if err := s.db.RunValueLogGC(0.5); err != nil {
					break
				}
			}
		}
	}
}
