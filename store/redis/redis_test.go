// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	redisdb "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	mr := miniredis.RunT(t)
	s, err := New(&Options{Options: &redisdb.Options{Addr: mr.Addr()}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestStore(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Set("h:1883/c1", "sent/1", []byte("a")))
	require.NoError(t, s.Set("h:1883/c1", "recv/2", []byte("b")))
	require.NoError(t, s.Set("h:1883/c2", "sent/1", []byte("other")))

	v, ok, err := s.Get("h:1883/c1", "sent/1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("a"), v)

	_, ok, err = s.Get("h:1883/c1", "sent/9")
	require.NoError(t, err)
	require.False(t, ok)

	all, err := s.Scan("h:1883/c1")
	require.NoError(t, err)
	require.Equal(t, map[string][]byte{"sent/1": []byte("a"), "recv/2": []byte("b")}, all)

	require.NoError(t, s.Del("h:1883/c1", "sent/1"))
	all, err = s.Scan("h:1883/c1")
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestStoreIdentityIsolation(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Set("h:1883/c1", "sent/1", []byte("a")))
	require.NoError(t, s.Set("h:1884/c1", "sent/1", []byte("b")))

	all, err := s.Scan("h:1883/c1")
	require.NoError(t, err)
	require.Equal(t, map[string][]byte{"sent/1": []byte("a")}, all)
}
