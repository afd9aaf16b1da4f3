// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

// Package pebble is a file-backed store using the pebble LSM key-value store
// as a backend.
package pebble

import (
	"errors"

	pebbledb "github.com/cockroachdb/pebble"

	"github.com/camstream/mqttc/store"
)

// defaultPath is the default directory for the pebble db files.
const defaultPath = ".mqttc.pebble"

// Options contains configuration settings for the pebble instance.
type Options struct {
	Options *pebbledb.Options
	Path    string `yaml:"path" json:"path"`
}

// Store is a durable store backed by a pebble database.
type Store struct {
	db *pebbledb.DB
}

// New opens a pebble store.
func New(config *Options) (*Store, error) {
	if config == nil {
		config = new(Options)
	}
	if config.Path == "" {
		config.Path = defaultPath
	}
	if config.Options == nil {
		config.Options = &pebbledb.Options{}
	}

	db, err := pebbledb.Open(config.Path, config.Options)
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

	return s.db.Set([]byte(prefix+"/"+key), value, pebbledb.Sync)
}

// Get returns the value stored under prefix/key.
func (s *Store) Get(prefix, key string) ([]byte, bool, error) {
	if s.db == nil {
		return nil, false, store.ErrNotOpen
	}

	v, closer, err := s.db.Get([]byte(prefix + "/" + key))
	if errors.Is(err, pebbledb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	out := append([]byte{}, v...)
	if err := closer.Close(); err != nil {
		return nil, false, err
	}

	return out, true, nil
}

// Del removes the value stored under prefix/key.
func (s *Store) Del(prefix, key string) error {
	if s.db == nil {
		return store.ErrNotOpen
	}

	return s.db.Delete([]byte(prefix+"/"+key), pebbledb.Sync)
}

// Scan returns all pairs under a prefix using a bounded iterator.
func (s *Store) Scan(prefix string) (map[string][]byte, error) {
	if s.db == nil {
		return nil, store.ErrNotOpen
	}

	p := []byte(prefix + "/")
	upper := []byte(prefix + "0") // '0' is the byte after '/'
	iter, err := s.db.NewIter(&pebbledb.IterOptions{LowerBound: p, UpperBound: upper})
	if err != nil {
		return nil, err
	}

	out := make(map[string][]byte)
	for iter.First(); iter.Valid(); iter.Next() {
		out[string(iter.Key()[len(p):])] = append([]byte{}, iter.Value()...)
	}

	return out, iter.Close()
}

// Close closes the pebble instance.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}

	err := s.db.Close()
	s.db = nil
	return err
}

var _ store.Store = (*Store)(nil)
