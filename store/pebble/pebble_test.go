// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package pebble

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	s, err := New(&Options{Path: t.TempDir()})
	require.NoError(t, err)
	defer s.Close()

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
