// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemLevelDB(t *testing.T) {
	db, err := NewMemLevelDB()
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Put([]byte("key"), []byte("value")))

	v, err := db.Get([]byte("key"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("value"), v)

	has, err := db.Has([]byte("key"))
	assert.NoError(t, err)
	assert.True(t, has)

	_, err = db.Get([]byte("missing"))
	assert.True(t, db.IsNotFound(err))

	assert.NoError(t, db.Delete([]byte("key")))
	has, err = db.Has([]byte("key"))
	assert.NoError(t, err)
	assert.False(t, has)
}

func TestBatchWrite(t *testing.T) {
	db, err := NewMemLevelDB()
	require.NoError(t, err)
	defer db.Close()

	batch := db.NewBatch()
	assert.NoError(t, batch.Put([]byte("a"), []byte("1")))
	assert.NoError(t, batch.Put([]byte("b"), []byte("2")))
	assert.NoError(t, batch.Delete([]byte("a")))
	assert.Equal(t, 3, batch.Len())
	require.NoError(t, batch.Write())

	_, err = db.Get([]byte("a"))
	assert.True(t, db.IsNotFound(err))
	v, err := db.Get([]byte("b"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("2"), v)
}

func TestIterator(t *testing.T) {
	db, err := NewMemLevelDB()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("k1"), []byte("v1")))
	require.NoError(t, db.Put([]byte("k2"), []byte("v2")))
	require.NoError(t, db.Put([]byte("x1"), []byte("v3")))

	it := db.NewIterator(Range{Start: []byte("k"), Limit: []byte("l")})
	defer it.Release()
	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	assert.NoError(t, it.Error())
	assert.Equal(t, []string{"k1", "k2"}, keys)
}
