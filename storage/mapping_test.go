// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/kv"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/state"
)

type record struct {
	Count  uint32
	Amount *big.Int
}

func newTestContext(t *testing.T) *Context {
	db, err := kv.NewMemLevelDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(avn.BytesToAddress([]byte("module")), state.New(db))
}

func TestMapping(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[avn.Address, record](ctx, avn.BytesToBytes32([]byte("records")))
	key := avn.BytesToAddress([]byte("k1"))

	has, err := m.Has(key)
	assert.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, m.Set(key, record{Count: 3, Amount: big.NewInt(7)}))
	got, err := m.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, uint32(3), got.Count)
	assert.Equal(t, big.NewInt(7), got.Amount)

	has, err = m.Has(key)
	assert.NoError(t, err)
	assert.True(t, has)

	m.Delete(key)
	has, err = m.Has(key)
	assert.NoError(t, err)
	assert.False(t, has)
}

func TestMappingPointerValue(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[avn.Address, *record](ctx, avn.BytesToBytes32([]byte("records")))
	key := avn.BytesToAddress([]byte("k1"))

	require.NoError(t, m.Set(key, &record{Count: 9, Amount: big.NewInt(1)}))
	got, err := m.Get(key)
	assert.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint32(9), got.Count)
}

func TestMappingKeysAreIndependent(t *testing.T) {
	ctx := newTestContext(t)
	a := NewMapping[avn.Address, uint32](ctx, avn.BytesToBytes32([]byte("a")))
	b := NewMapping[avn.Address, uint32](ctx, avn.BytesToBytes32([]byte("b")))
	key := avn.BytesToAddress([]byte("k1"))

	require.NoError(t, a.Set(key, 1))
	require.NoError(t, b.Set(key, 2))

	av, err := a.Get(key)
	assert.NoError(t, err)
	bv, err := b.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, uint32(1), av)
	assert.Equal(t, uint32(2), bv)
}

func TestRaw(t *testing.T) {
	ctx := newTestContext(t)
	r := NewRaw[record](ctx, avn.BytesToBytes32([]byte("singleton")))

	has, err := r.Has()
	assert.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, r.Set(record{Count: 5, Amount: big.NewInt(11)}))
	got, err := r.Get()
	assert.NoError(t, err)
	assert.Equal(t, uint32(5), got.Count)

	r.Delete()
	has, err = r.Has()
	assert.NoError(t, err)
	assert.False(t, has)
}

func TestUint256(t *testing.T) {
	ctx := newTestContext(t)
	u := NewUint256(ctx, avn.BytesToBytes32([]byte("counter")))

	v, err := u.Get()
	assert.NoError(t, err)
	assert.Zero(t, new(big.Int).Cmp(v))

	u.Set(big.NewInt(10))
	assert.NoError(t, u.Add(big.NewInt(5)))
	assert.NoError(t, u.Sub(big.NewInt(3)))
	v, err = u.Get()
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(12), v)
}
