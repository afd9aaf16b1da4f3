// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

// Package badger is a file-backed store using badger db as a backend.
package badger

import (
	"errors"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/camstream/mqttc/store"
)

// defaultPath is the default directory for the badger db files.
const defaultPath = ".mqttc.badger"

// Options contains configuration settings for the badger instance.
type Options struct {
	Path string `yaml:"path" json:"path"`
}

// Store is a durable store backed by a badger database.
type Store struct {
	db *badgerdb.DB
}

// New opens a badger store.
func New(config *Options) (*Store, error) {
	if config == nil {
		config = new(Options)
	}
	if config.Path == "" {
		config.Path = defaultPath
	}

	db, err := badgerdb.Open(badgerdb.DefaultOptions(config.Path).WithLogger(nil))
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Set persists a value under prefix/key.
func (s *Store) Set(prefix, key string, value []byte) error {
	if s.db == nil {
		return store.ErrNotOpen
	}

	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(prefix+"/"+key), value)
	})
}

// Get returns the value stored under prefix/key.
func (s *Store) Get(prefix, key string) (value []byte, ok bool, err error) {
	if s.db == nil {
		return nil, false, store.ErrNotOpen
	}

	err = s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(prefix + "/" + key))
		if err != nil {
			return err
		}

		value, err = item.ValueCopy(nil)
		ok = err == nil
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, false, nil
	}

	return value, ok, err
}

// Del removes the value stored under prefix/key.
func (s *Store) Del(prefix, key string) error {
	if s.db == nil {
		return store.ErrNotOpen
	}

	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete([]byte(prefix + "/" + key))
	})
}

// Scan returns all pairs under a prefix using a prefix iterator.
func (s *Store) Scan(prefix string) (map[string][]byte, error) {
	if s.db == nil {
		return nil, store.ErrNotOpen
	}

	out := make(map[string][]byte)
	p := []byte(prefix + "/")
	err := s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = p
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			item := it.Item()
			v, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			out[string(item.Key()[len(p):])] = v
		}
		return nil
	})

	return out, err
}

// Close closes the badger instance.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}

	err := s.db.Close()
	s.db = nil
	return err
}

var _ store.Store = (*Store)(nil)
