// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package growth

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/kv"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/state"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/storage"
)

func addr(name string) avn.Address {
	return avn.BytesToAddress([]byte(name))
}

func newTestStorage(t *testing.T) *Storage {
	db, err := kv.NewMemLevelDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStorage(storage.NewContext(addr("module"), state.New(db)))
}

func TestFoldAccumulates(t *testing.T) {
	info := NewInfo()
	info.Fold(big.NewInt(100), big.NewInt(10), 60, []CollatorScore{
		{Collator: addr("c1"), Points: 40},
		{Collator: addr("c2"), Points: 20},
	})
	info.Fold(big.NewInt(200), big.NewInt(20), 30, []CollatorScore{
		{Collator: addr("c1"), Points: 30},
	})

	assert.Equal(t, uint32(2), info.Accumulations)
	assert.Equal(t, big.NewInt(300), info.TotalStakeAccumulated)
	assert.Equal(t, big.NewInt(30), info.TotalStakerReward)
	assert.Equal(t, uint32(90), info.TotalPoints)
	require.Len(t, info.CollatorScores, 2)
	assert.Equal(t, uint32(70), info.CollatorScores[0].Points)
	assert.Equal(t, big.NewInt(150), info.AverageStaked())
}

func TestIsZero(t *testing.T) {
	info := NewInfo()
	assert.True(t, info.IsZero())

	info.Fold(big.NewInt(0), big.NewInt(0), 0, nil)
	assert.True(t, info.IsZero())

	info.Fold(big.NewInt(100), big.NewInt(5), 20, nil)
	assert.False(t, info.IsZero())
}

func TestStorageRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	// absent periods read as empty accumulations
	info, err := s.Get(1)
	require.NoError(t, err)
	assert.True(t, info.IsZero())

	info.Fold(big.NewInt(100), big.NewInt(10), 20, []CollatorScore{{Collator: addr("c1"), Points: 20}})
	require.NoError(t, s.Set(1, info))

	got, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), got.Accumulations)
	assert.Equal(t, big.NewInt(100), got.TotalStakeAccumulated)
	require.Len(t, got.CollatorScores, 1)
}

func TestPeriodWatermarks(t *testing.T) {
	s := newTestStorage(t)

	_, has, err := s.LastTriggered()
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, s.SetLastTriggered(4))
	last, has, err := s.LastTriggered()
	require.NoError(t, err)
	assert.True(t, has)
	assert.Equal(t, uint32(4), last)

	processed, err := s.IsProcessed(4)
	require.NoError(t, err)
	assert.False(t, processed)
	require.NoError(t, s.MarkProcessed(4))
	processed, err = s.IsProcessed(4)
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestTxCorrelation(t *testing.T) {
	s := newTestStorage(t)

	_, ok, err := s.PeriodForTx(9)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetPeriodForTx(9, 2))
	period, ok, err := s.PeriodForTx(9)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint32(2), period)

	s.DeletePeriodForTx(9)
	_, ok, err = s.PeriodForTx(9)
	require.NoError(t, err)
	assert.False(t, ok)
}
