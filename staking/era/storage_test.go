// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package era

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/kv"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/stake"
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

func TestEraClock(t *testing.T) {
	info := Info{Current: 3, First: 100, Length: 30}
	assert.False(t, info.ShouldUpdate(129))
	assert.True(t, info.ShouldUpdate(130))

	info.Update(130)
	assert.Equal(t, uint32(4), info.Current)
	assert.Equal(t, uint32(130), info.First)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	collator := addr("collator")

	got, err := s.GetSnapshot(7, collator)
	assert.NoError(t, err)
	assert.Nil(t, got)

	snap := Snapshot{
		Bond:        big.NewInt(100),
		Nominations: stake.List{stake.NewBond(addr("backer"), big.NewInt(40))},
		Total:       big.NewInt(140),
	}
	require.NoError(t, s.SetSnapshot(7, collator, snap))

	got, err = s.GetSnapshot(7, collator)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(140), got.Total)

	// a different era does not see it
	other, err := s.GetSnapshot(8, collator)
	assert.NoError(t, err)
	assert.Nil(t, other)

	s.DeleteSnapshot(7, collator)
	got, err = s.GetSnapshot(7, collator)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestAwardPoints(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.AwardPoints(1, addr("c1"), 20))
	require.NoError(t, s.AwardPoints(1, addr("c2"), 20))
	require.NoError(t, s.AwardPoints(1, addr("c1"), 20))

	total, err := s.Points(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(60), total)

	list, err := s.Awarded(1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, uint32(40), list[0].Points)
	assert.Equal(t, addr("c1"), list[0].Collator)
}

func TestTakeFirstAwardedDrains(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.AwardPoints(1, addr("c1"), 20))
	require.NoError(t, s.AwardPoints(1, addr("c2"), 40))

	first, err := s.TakeFirstAwarded(1)
	require.NoError(t, err)
	assert.Equal(t, addr("c1"), first.Collator)

	second, err := s.TakeFirstAwarded(1)
	require.NoError(t, err)
	assert.Equal(t, addr("c2"), second.Collator)

	done, err := s.TakeFirstAwarded(1)
	require.NoError(t, err)
	assert.Nil(t, done)
}

func TestStaked(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.SetStaked(2, big.NewInt(500)))

	staked, err := s.TakeStaked(2)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(500), staked)

	staked, err = s.Staked(2)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int), staked)
}

func TestSelected(t *testing.T) {
	s := newTestStorage(t)
	selected, err := s.Selected()
	require.NoError(t, err)
	assert.Empty(t, selected)

	require.NoError(t, s.SetSelected([]avn.Address{addr("c1"), addr("c2")}))
	selected, err = s.Selected()
	require.NoError(t, err)
	assert.Equal(t, []avn.Address{addr("c1"), addr("c2")}, selected)
}
