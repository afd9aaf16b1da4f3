// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

// Package bolt is a file-backed store using boltdb as a backend.
package bolt

import (
	"bytes"
	"time"

	"go.etcd.io/bbolt"

	"github.com/camstream/mqttc/store"
)

const (
	// defaultPath is the default file path for the boltdb file.
	defaultPath = ".mqttc.bolt"

	// defaultTimeout is the default time to hold a connection to the file.
	defaultTimeout = 250 * time.Millisecond

	defaultBucket = "mqttc"
)

// Options contains configuration settings for the bolt instance.
type Options struct {
	Options *bbolt.Options
	Bucket  string `yaml:"bucket" json:"bucket"`
	Path    string `yaml:"path" json:"path"`
}

// Store is a durable store backed by a boltdb file.
type Store struct {
	config *Options
	db     *bbolt.DB
}

// New opens a boltdb file store.
func New(config *Options) (*Store, error) {
	if config == nil {
		config = new(Options)
	}
	if config.Options == nil {
		config.Options = &bbolt.Options{Timeout: defaultTimeout}
	}
	if config.Path == "" {
		config.Path = defaultPath
	}
	if config.Bucket == "" {
		config.Bucket = defaultBucket
	}

	db, err := bbolt.Open(config.Path, 0600, config.Options)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(config.Bucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{config: config, db: db}, nil
}

// Set persists a value under prefix/key.
func (s *Store) Set(prefix, key string, value []byte) error {
	if s.db == nil {
		return store.ErrNotOpen
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(s.config.Bucket)).Put([]byte(prefix+"/"+key), value)
	})
}

// Get returns the value stored under prefix/key.
func (s *Store) Get(prefix, key string) (value []byte, ok bool, err error) {
	if s.db == nil {
		return nil, false, store.ErrNotOpen
	}

	err = s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(s.config.Bucket)).Get([]byte(prefix + "/" + key)); v != nil {
			value = append([]byte{}, v...)
			ok = true
		}
		return nil
	})

	return value, ok, err
}

// Del removes the value stored under prefix/key.
func (s *Store) Del(prefix, key string) error {
	if s.db == nil {
		return store.ErrNotOpen
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(s.config.Bucket)).Delete([]byte(prefix + "/" + key))
	})
}

// Scan returns all pairs under a prefix using a cursor seek.
func (s *Store) Scan(prefix string) (map[string][]byte, error) {
	if s.db == nil {
		return nil, store.ErrNotOpen
	}

	out := make(map[string][]byte)
	p := []byte(prefix + "/")
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(s.config.Bucket)).Cursor()
		for k, v := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, v = c.Next() {
			out[string(bytes.TrimPrefix(k, p))] = append([]byte{}, v...)
		}
		return nil
	})

	return out, err
}

// Close closes the boltdb instance.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}

	err := s.db.Close()
	s.db = nil
	return err
}

var _ store.Store = (*Store)(nil)
