// Copyright (c) 2025 The RealmGov developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realmgov/registry/cache"
)

func TestLRUGetOrLoad(t *testing.T) {
	c, err := cache.NewLRU(8)
	require.NoError(t, err)

	loads := 0
	loader := func(key interface{}) (interface{}, error) {
		loads++
		return key.(int) * 10, nil
	}

	v, err := c.GetOrLoad(1, loader)
	assert.NoError(t, err)
	assert.Equal(t, 10, v)
	assert.Equal(t, 1, loads)

	// second lookup served from cache
	v, err = c.GetOrLoad(1, loader)
	assert.NoError(t, err)
	assert.Equal(t, 10, v)
	assert.Equal(t, 1, loads)

	_, hit, miss := c.Stats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)
}

func TestLRUGetOrLoadError(t *testing.T) {
	c, err := cache.NewLRU(8)
	require.NoError(t, err)

	loadErr := errors.New("load failed")
	_, err = c.GetOrLoad(1, func(interface{}) (interface{}, error) {
		return nil, loadErr
	})
	assert.Equal(t, loadErr, err)

	// a failed load must not populate the cache
	assert.False(t, c.Contains(1))
}

func TestLRUEvicts(t *testing.T) {
	c, err := cache.NewLRU(2)
	require.NoError(t, err)

	c.Add(1, "a")
	c.Add(2, "b")
	c.Add(3, "c")

	assert.False(t, c.Contains(1))
	assert.True(t, c.Contains(2))
	assert.True(t, c.Contains(3))
}
