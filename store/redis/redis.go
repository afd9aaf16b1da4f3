// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

// Package redis is a store using redis as a backend, with one hash per client
// identity prefix.
package redis

import (
	"context"

	redisdb "github.com/go-redis/redis/v8"

	"github.com/camstream/mqttc/store"
)

// defaultAddr is the default address of the redis service.
const defaultAddr = "localhost:6379"

// defaultHPrefix is a prefix to differentiate the hash keys from other data
// sharing the redis instance.
const defaultHPrefix = "mqttc:"

// Options contains configuration settings for the redis instance.
type Options struct {
	Options *redisdb.Options
	HPrefix string `yaml:"h_prefix" json:"h_prefix"`
}

// Store is a durable store backed by a redis service.
type Store struct {
	config *Options
	db     *redisdb.Client
	ctx    context.Context
}

// New connects to a redis service.
func New(config *Options) (*Store, error) {
	if config == nil {
		config = new(Options)
	}
	if config.Options == nil {
		config.Options = &redisdb.Options{Addr: defaultAddr}
	}
	if config.HPrefix == "" {
		config.HPrefix = defaultHPrefix
	}

	ctx := context.Background()
	db := redisdb.NewClient(config.Options)
	if err := db.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Store{config: config, db: db, ctx: ctx}, nil
}

// hKey returns the hash key of an identity prefix.
func (s *Store) hKey(prefix string) string {
	return s.config.HPrefix + prefix
}

// Set persists a value as a field of the identity hash.
func (s *Store) Set(prefix, key string, value []byte) error {
	if s.db == nil {
		return store.ErrNotOpen
	}

	return s.db.HSet(s.ctx, s.hKey(prefix), key, value).Err()
}

// Get returns the value stored under prefix/key.
func (s *Store) Get(prefix, key string) ([]byte, bool, error) {
	if s.db == nil {
		return nil, false, store.ErrNotOpen
	}

	v, err := s.db.HGet(s.ctx, s.hKey(prefix), key).Bytes()
	if err == redisdb.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return v, true, nil
}

// Del removes the value stored under prefix/key.
func (s *Store) Del(prefix, key string) error {
	if s.db == nil {
		return store.ErrNotOpen
	}

	return s.db.HDel(s.ctx, s.hKey(prefix), key).Err()
}

// Scan returns the full contents of the identity hash.
func (s *Store) Scan(prefix string) (map[string][]byte, error) {
	if s.db == nil {
		return nil, store.ErrNotOpen
	}

	all, err := s.db.HGetAll(s.ctx, s.hKey(prefix)).Result()
	if err != nil {
		return nil, err
	}

	out := make(map[string][]byte, len(all))
	for k, v := range all {
		out[k] = []byte(v)
	}

	return out, nil
}

// Close disconnects from the redis service.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}

	err := s.db.Close()
	s.db = nil
	return err
}

var _ store.Store = (*Store)(nil)
