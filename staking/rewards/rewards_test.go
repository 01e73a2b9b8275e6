// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/kv"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/era"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/stake"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/state"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/storage"
)

func addr(name string) avn.Address {
	return avn.BytesToAddress([]byte(name))
}

func TestSplitProportional(t *testing.T) {
	// era reward 50, collator earned 20 of 100 points, one backer holds
	// half the counted stake
	snap := &era.Snapshot{
		Bond:        big.NewInt(100),
		Nominations: stake.List{stake.NewBond(addr("backer"), big.NewInt(100))},
		Total:       big.NewInt(200),
	}
	payments := Split(snap, addr("collator"), 20, 100, big.NewInt(50))

	require.Len(t, payments, 2)
	assert.Equal(t, addr("collator"), payments[0].To)
	assert.Equal(t, big.NewInt(5), payments[0].Amount)
	assert.Equal(t, addr("backer"), payments[1].To)
	assert.Equal(t, big.NewInt(5), payments[1].Amount)
}

func TestSplitSoloCollator(t *testing.T) {
	snap := &era.Snapshot{
		Bond:  big.NewInt(300),
		Total: big.NewInt(300),
	}
	payments := Split(snap, addr("collator"), 40, 40, big.NewInt(90))

	require.Len(t, payments, 1)
	assert.Equal(t, big.NewInt(90), payments[0].Amount)
}

func TestSplitUnevenBackers(t *testing.T) {
	snap := &era.Snapshot{
		Bond: big.NewInt(100),
		Nominations: stake.List{
			stake.NewBond(addr("b1"), big.NewInt(60)),
			stake.NewBond(addr("b2"), big.NewInt(40)),
		},
		Total: big.NewInt(200),
	}
	payments := Split(snap, addr("collator"), 50, 100, big.NewInt(1000))

	// collator share is 500, split 100:60:40
	require.Len(t, payments, 3)
	assert.Equal(t, big.NewInt(250), payments[0].Amount)
	assert.Equal(t, big.NewInt(150), payments[1].Amount)
	assert.Equal(t, big.NewInt(100), payments[2].Amount)
}

func TestDelayedPayoutStorage(t *testing.T) {
	db, err := kv.NewMemLevelDB()
	require.NoError(t, err)
	defer db.Close()
	s := NewStorage(storage.NewContext(addr("module"), state.New(db)))

	payout, err := s.DelayedPayout(3)
	assert.NoError(t, err)
	assert.Nil(t, payout)

	require.NoError(t, s.SetDelayedPayout(3, DelayedPayout{TotalStakingReward: big.NewInt(500)}))
	payout, err = s.DelayedPayout(3)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(500), payout.TotalStakingReward)

	s.DeleteDelayedPayout(3)
	payout, err = s.DelayedPayout(3)
	assert.NoError(t, err)
	assert.Nil(t, payout)
}

func TestLockedAccounting(t *testing.T) {
	db, err := kv.NewMemLevelDB()
	require.NoError(t, err)
	defer db.Close()
	s := NewStorage(storage.NewContext(addr("module"), state.New(db)))

	require.NoError(t, s.Lock(big.NewInt(100)))
	require.NoError(t, s.Unlock(big.NewInt(30)))
	locked, err := s.Locked()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(70), locked)

	// unlocking more than locked clamps to zero
	require.NoError(t, s.Unlock(big.NewInt(1000)))
	locked, err = s.Locked()
	require.NoError(t, err)
	assert.Zero(t, new(big.Int).Cmp(locked))
}
