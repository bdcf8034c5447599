// Copyright (C) 2025, Lux Industries, Inc.
// See the file LICENSE for licensing terms.

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLRUCache(t *testing.T) {
	require := require.New(t)

	cache := NewLRUCache[string, int](2)
	fetchCount := 0
	fetch := func(key string) (int, error) {
		fetchCount++
		return len(key), nil
	}

	value, err := cache.Get("gateway", fetch)
	require.NoError(err)
	require.Equal(7, value)
	require.Equal(1, fetchCount)

	// Cached
	value, err = cache.Get("gateway", fetch)
	require.NoError(err)
	require.Equal(7, value)
	require.Equal(1, fetchCount)

	// Filling past capacity evicts the least recently used key
	_, err = cache.Get("gas", fetch)
	require.NoError(err)
	_, err = cache.Get("relayer", fetch)
	require.NoError(err)
	require.Equal(2, cache.Len())

	_, err = cache.Get("gateway", fetch)
	require.NoError(err)
	require.Equal(4, fetchCount)
}

func TestLRUCacheDoesNotCacheErrors(t *testing.T) {
	require := require.New(t)

	cache := NewLRUCache[string, int](2)
	errFetch := errors.New("unreachable")

	_, err := cache.Get("gateway", func(string) (int, error) {
		return 0, errFetch
	})
	require.ErrorIs(err, errFetch)
	require.Zero(cache.Len())

	value, err := cache.Get("gateway", func(string) (int, error) {
		return 1, nil
	})
	require.NoError(err)
	require.Equal(1, value)
}
