// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

// Package memory is a map-backed store used as the default backend and as a
// stand-in for the durable backends in tests.
package memory

import (
	"strings"

	"github.com/camstream/mqttc/store"
)

// Store is a volatile in-memory key-value store.
type Store struct {
	data map[string][]byte
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Set persists a value under prefix/key.
func (s *Store) Set(prefix, key string, value []byte) error {
	s.data[prefix+"/"+key] = append([]byte{}, value...)
	return nil
}

// Get returns the value stored under prefix/key.
func (s *Store) Get(prefix, key string) ([]byte, bool, error) {
	v, ok := s.data[prefix+"/"+key]
	return v, ok, nil
}

// Del removes the value stored under prefix/key.
func (s *Store) Del(prefix, key string) error {
	delete(s.data, prefix+"/"+key)
	return nil
}

// Scan returns all pairs under a prefix, keyed by the remainder of the key.
func (s *Store) Scan(prefix string) (map[string][]byte, error) {
	out := make(map[string][]byte)
	for k, v := range s.data {
		if strings.HasPrefix(k, prefix+"/") {
			out[strings.TrimPrefix(k, prefix+"/")] = v
		}
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

// Len returns the number of stored values.
func (s *Store) Len() int {
	return len(s.data)
}

var _ store.Store = (*Store)(nil)
