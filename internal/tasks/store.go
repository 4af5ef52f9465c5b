// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/codelabel/isccd/internal/metrics"
)

// ErrTaskNotFound is returned when no task record exists for an ID.
var ErrTaskNotFound = errors.New("task not found")

// Key prefix for BadgerDB storage
const taskKeyPrefix = "task:"

// Store persists task records across restarts.
type Store interface {
	Put(ctx context.Context, task *Task) error
	Get(ctx context.Context, id string) (*Task, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	Close() error
}

// BadgerStore implements Store using BadgerDB for durable storage.
// Finished task records are written with a TTL so old results age out
// without a cleanup routine.
type BadgerStore struct {
	db        *badger.DB
	resultTTL time.Duration
}

// OpenBadgerStore opens (or creates) a Badger-backed task store at path.
// resultTTL controls how long finished records are retained; zero
// disables expiry.
func OpenBadgerStore(path string, resultTTL time.Duration) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open task store: %w", err)
	}
	return &BadgerStore{db: db, resultTTL: resultTTL}, nil
}

// NewBadgerStore wraps an already-open Badger database.
func NewBadgerStore(db *badger.DB, resultTTL time.Duration) *BadgerStore {
	return &BadgerStore{db: db, resultTTL: resultTTL}
}

// Put stores or replaces a task record. Finished tasks carry the
// configured TTL so Badger expires them on its own.
func (s *BadgerStore) Put(ctx context.Context, task *Task) error {
	start := time.Now()

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		key := []byte(taskKeyPrefix + task.ID)
		if task.Finished() && s.resultTTL > 0 {
			entry := badger.NewEntry(key, data).WithTTL(s.resultTTL)
			return txn.SetEntry(entry)
		}
		return txn.Set(key, data)
	})

	metrics.RecordStoreOperation("put", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("put task: %w", err)
	}
	return nil
}

// Get retrieves a task record by ID.
func (s *BadgerStore) Get(ctx context.Context, id string) (*Task, error) {
	start := time.Now()

	var task Task
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(taskKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrTaskNotFound
		}
		if err != nil {
			return fmt.Errorf("get task: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &task)
		})
	})

	if errors.Is(err, ErrTaskNotFound) {
		metrics.RecordStoreOperation("get", time.Since(start), nil)
		return nil, err
	}
	metrics.RecordStoreOperation("get", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete removes a task record by ID. Deleting an absent record is not
// an error.
func (s *BadgerStore) Delete(ctx context.Context, id string) error {
	start := time.Now()

	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(taskKeyPrefix + id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete task: %w", err)
		}
		return nil
	})

	metrics.RecordStoreOperation("delete", time.Since(start), err)
	return err
}

// Count returns the number of task records in the store.
func (s *BadgerStore) Count(ctx context.Context) (int, error) {
	start := time.Now()

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(taskKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})

	metrics.RecordStoreOperation("list", time.Since(start), err)
	return count, err
}

// Close closes the underlying Badger database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
