// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/nominators"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/reverts"
)

func (e *testEnv) addNominator(name string, candidate avn.Address, amount int64) avn.Address {
	account := avn.BytesToAddress([]byte(name))
	e.fund(account, amount)
	require.NoError(e.t, e.staker.Nominate(account, candidate, big.NewInt(amount)))
	return account
}

func TestNominate(t *testing.T) {
	env := newTestEnv(t)
	c1 := env.addCandidate("c1", 10_000)

	n1 := env.addNominator("n1", c1, 5_000)
	assert.Equal(t, big.NewInt(0), env.balance(n1))

	backer, err := env.staker.GetNominator(n1)
	require.NoError(t, err)
	require.NotNil(t, backer)
	assert.Equal(t, big.NewInt(5_000), backer.Total)

	meta, err := env.staker.GetCandidate(c1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(15_000), meta.TotalCounted)
	assert.Equal(t, uint32(1), meta.NominationCount)

	env.fund(n1, 1_000)
	err = env.staker.Nominate(n1, c1, big.NewInt(1_000))
	assert.Equal(t, reverts.ErrAlreadyNominatedCandidate, err)

	missing := avn.BytesToAddress([]byte("missing"))
	err = env.staker.Nominate(n1, missing, big.NewInt(1_000))
	assert.Equal(t, reverts.ErrCandidateDNE, err)

	// a new backer must clear the net total floor
	small := avn.BytesToAddress([]byte("small"))
	env.fund(small, 5)
	err = env.staker.Nominate(small, c1, big.NewInt(5))
	assert.Equal(t, reverts.ErrNominatorBondBelowMin, err)

	// candidates cannot also nominate
	env.fund(c1, 1_000)
	err = env.staker.Nominate(c1, c1, big.NewInt(1_000))
	assert.Equal(t, reverts.ErrCandidateExists, err)
}

func TestBondExtra(t *testing.T) {
	env := newTestEnv(t)
	c1 := env.addCandidate("c1", 10_000)
	n1 := env.addNominator("n1", c1, 5_000)

	env.fund(n1, 2_000)
	require.NoError(t, env.staker.BondExtra(n1, c1, big.NewInt(2_000)))

	backer, err := env.staker.GetNominator(n1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(7_000), backer.AmountOf(c1))

	meta, err := env.staker.GetCandidate(c1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(17_000), meta.TotalCounted)

	// a pending revoke freezes the position
	require.NoError(t, env.staker.ScheduleRevokeNomination(n1, c1))
	env.fund(n1, 1_000)
	err = env.staker.BondExtra(n1, c1, big.NewInt(1_000))
	assert.Equal(t, reverts.ErrPendingNominationRevoke, err)
}

func TestBondExtraAll(t *testing.T) {
	env := newTestEnv(t)
	c1 := env.addCandidate("c1", 10_000)
	c2 := env.addCandidate("c2", 10_000)
	n1 := env.addNominator("n1", c1, 5_000)
	env.fund(n1, 5_000)
	require.NoError(t, env.staker.Nominate(n1, c2, big.NewInt(5_000)))

	env.fund(n1, 101)
	require.NoError(t, env.staker.BondExtraAll(n1, big.NewInt(101)))

	backer, err := env.staker.GetNominator(n1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10_101), backer.Total)
	assert.Equal(t, big.NewInt(0), env.balance(n1))

	// one position got the remainder on top of its even share
	first := backer.AmountOf(c1)
	second := backer.AmountOf(c2)
	sum := new(big.Int).Add(first, second)
	assert.Equal(t, big.NewInt(10_101), sum)
	diff := new(big.Int).Sub(first, second)
	assert.Equal(t, big.NewInt(1), diff.Abs(diff))
}

func TestRevokeNominationLifecycle(t *testing.T) {
	env := newTestEnv(t)
	c1 := env.addCandidate("c1", 10_000)
	n1 := env.addNominator("n1", c1, 5_000)

	require.NoError(t, env.staker.ScheduleRevokeNomination(n1, c1))

	requests, err := env.staker.ScheduledRequests(c1)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, nominators.ActionRevoke, requests[0].Action)
	assert.Equal(t, big.NewInt(5_000), requests[0].Amount)
	assert.Equal(t, uint32(3), requests[0].WhenExecutable)

	err = env.staker.ExecuteNominationRequest(n1, c1)
	assert.Equal(t, reverts.ErrPendingNominationRequestNotDueYet, err)

	env.advanceToEra(3)
	require.NoError(t, env.staker.ExecuteNominationRequest(n1, c1))
	assert.Equal(t, big.NewInt(5_000), env.balance(n1))

	// last position closed, the backer record is gone
	backer, err := env.staker.GetNominator(n1)
	require.NoError(t, err)
	assert.Nil(t, backer)

	meta, err := env.staker.GetCandidate(c1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10_000), meta.TotalCounted)
	assert.Equal(t, uint32(0), meta.NominationCount)
	assert.True(t, env.hasEvent("NominationRevoked"))
	assert.True(t, env.hasEvent("NominatorLeft"))
}

func TestScheduleNominationDecrease(t *testing.T) {
	env := newTestEnv(t)
	c1 := env.addCandidate("c1", 10_000)
	n1 := env.addNominator("n1", c1, 5_000)

	// cannot decrease by the full position
	err := env.staker.ScheduleNominationDecrease(n1, c1, big.NewInt(5_000))
	assert.Equal(t, reverts.ErrNominationBelowMin, err)

	// cannot fall below the backer net total floor
	err = env.staker.ScheduleNominationDecrease(n1, c1, big.NewInt(4_995))
	assert.Equal(t, reverts.ErrNominatorBondBelowMin, err)

	require.NoError(t, env.staker.ScheduleNominationDecrease(n1, c1, big.NewInt(2_000)))

	backer, err := env.staker.GetNominator(n1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2_000), backer.LessTotal)
	assert.Equal(t, big.NewInt(3_000), backer.NetTotal())

	env.advanceToEra(3)
	require.NoError(t, env.staker.ExecuteNominationRequest(n1, c1))
	assert.Equal(t, big.NewInt(2_000), env.balance(n1))

	backer, err = env.staker.GetNominator(n1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(3_000), backer.AmountOf(c1))
	assert.Equal(t, big.NewInt(0), backer.LessTotal)

	meta, err := env.staker.GetCandidate(c1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(13_000), meta.TotalCounted)
}

func TestCancelNominationRequest(t *testing.T) {
	env := newTestEnv(t)
	c1 := env.addCandidate("c1", 10_000)
	n1 := env.addNominator("n1", c1, 5_000)

	require.NoError(t, env.staker.ScheduleNominationDecrease(n1, c1, big.NewInt(2_000)))
	require.NoError(t, env.staker.CancelNominationRequest(n1, c1))

	backer, err := env.staker.GetNominator(n1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(0), backer.LessTotal)

	requests, err := env.staker.ScheduledRequests(c1)
	require.NoError(t, err)
	assert.Empty(t, requests)

	err = env.staker.CancelNominationRequest(n1, c1)
	assert.Equal(t, reverts.ErrPendingNominationRequestDNE, err)
}

func TestScheduleNominatorUnbondLevels(t *testing.T) {
	env := newTestEnv(t)
	c1 := env.addCandidate("c1", 10_000)
	c2 := env.addCandidate("c2", 10_000)
	n1 := env.addNominator("n1", c1, 5_000)
	env.fund(n1, 7_000)
	require.NoError(t, env.staker.Nominate(n1, c2, big.NewInt(7_000)))

	require.NoError(t, env.staker.ScheduleNominatorUnbond(n1, big.NewInt(4_000)))

	// positions are levelled toward the post-withdrawal average of 4000:
	// the larger position gives up 3000, the smaller 1000
	reqC2, err := env.staker.ScheduledRequests(c2)
	require.NoError(t, err)
	require.Len(t, reqC2, 1)
	assert.Equal(t, nominators.ActionDecrease, reqC2[0].Action)
	assert.Equal(t, big.NewInt(3_000), reqC2[0].Amount)

	reqC1, err := env.staker.ScheduledRequests(c1)
	require.NoError(t, err)
	require.Len(t, reqC1, 1)
	assert.Equal(t, big.NewInt(1_000), reqC1[0].Amount)

	env.advanceToEra(3)
	require.NoError(t, env.staker.ExecuteAllNominationRequests(n1))
	assert.Equal(t, big.NewInt(4_000), env.balance(n1))

	backer, err := env.staker.GetNominator(n1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(4_000), backer.AmountOf(c1))
	assert.Equal(t, big.NewInt(4_000), backer.AmountOf(c2))

	// more than the bonded total cannot be withdrawn
	err = env.staker.ScheduleNominatorUnbond(n1, big.NewInt(9_000))
	assert.Equal(t, reverts.ErrNominatorBondBelowMin, err)
}

func TestLeaveNominators(t *testing.T) {
	env := newTestEnv(t)
	c1 := env.addCandidate("c1", 10_000)
	c2 := env.addCandidate("c2", 10_000)
	n1 := env.addNominator("n1", c1, 5_000)
	env.fund(n1, 6_000)
	require.NoError(t, env.staker.Nominate(n1, c2, big.NewInt(6_000)))

	assert.Equal(t, reverts.ErrNominatorNotLeaving, env.staker.CancelLeaveNominators(n1))

	require.NoError(t, env.staker.ScheduleLeaveNominators(n1))
	assert.Equal(t, reverts.ErrNominatorAlreadyLeaving, env.staker.ScheduleLeaveNominators(n1))

	backer, err := env.staker.GetNominator(n1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(11_000), backer.LessTotal)

	require.NoError(t, env.staker.CancelLeaveNominators(n1))
	backer, err = env.staker.GetNominator(n1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(0), backer.LessTotal)

	require.NoError(t, env.staker.ScheduleLeaveNominators(n1))
	assert.Equal(t, reverts.ErrNominatorCannotLeaveYet, env.staker.ExecuteLeaveNominators(n1))

	env.advanceToEra(3)
	require.NoError(t, env.staker.ExecuteLeaveNominators(n1))
	assert.Equal(t, big.NewInt(11_000), env.balance(n1))

	backer, err = env.staker.GetNominator(n1)
	require.NoError(t, err)
	assert.Nil(t, backer)
}

func TestNominateRollsBackOnInsufficientBalance(t *testing.T) {
	env := newTestEnv(t)
	c1 := env.addCandidate("c1", 10_000)

	n1 := avn.BytesToAddress([]byte("n1"))
	env.fund(n1, 50)
	err := env.staker.Nominate(n1, c1, big.NewInt(100))
	assert.Equal(t, reverts.ErrInsufficientBalance, err)

	// the failed call left nothing behind
	assert.Equal(t, big.NewInt(50), env.balance(n1))
	backer, err := env.staker.GetNominator(n1)
	require.NoError(t, err)
	assert.Nil(t, backer)

	top, err := env.staker.candidates.GetTop(c1)
	require.NoError(t, err)
	assert.Empty(t, top.Bonds)

	meta, err := env.staker.GetCandidate(c1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10_000), meta.TotalCounted)
	assert.Equal(t, uint32(0), meta.NominationCount)

	pool, err := env.staker.candidates.GetPool()
	require.NoError(t, err)
	require.Len(t, pool, 1)
	assert.Equal(t, meta.TotalCounted, pool[0].Amount)
}

func TestScheduleLeaveNominatorsRollsBackOnPendingRequest(t *testing.T) {
	env := newTestEnv(t)
	c1 := env.addCandidate("c1", 10_000)
	c2 := env.addCandidate("c2", 10_000)
	n1 := env.addNominator("n1", c1, 5_000)
	env.fund(n1, 6_000)
	require.NoError(t, env.staker.Nominate(n1, c2, big.NewInt(6_000)))
	require.NoError(t, env.staker.ScheduleNominationDecrease(n1, c2, big.NewInt(1_000)))

	// the second position carries a pending decrease, the whole call fails
	err := env.staker.ScheduleLeaveNominators(n1)
	assert.Equal(t, reverts.ErrPendingNominationRequestAlreadyExist, err)

	// the revoke scheduled against the first position was rolled back
	requests, err := env.staker.ScheduledRequests(c1)
	require.NoError(t, err)
	assert.Empty(t, requests)

	backer, err := env.staker.GetNominator(n1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1_000), backer.LessTotal)

	reqC2, err := env.staker.ScheduledRequests(c2)
	require.NoError(t, err)
	require.Len(t, reqC2, 1)
	assert.Equal(t, nominators.ActionDecrease, reqC2[0].Action)
}

func TestNominationKickCancelsPendingRequest(t *testing.T) {
	env := newTestEnv(t)
	c1 := env.addCandidate("c1", 10_000)
	c2 := env.addCandidate("c2", 10_000)

	victim := avn.BytesToAddress([]byte("victim"))
	env.fund(victim, 600)
	require.NoError(t, env.staker.Nominate(victim, c1, big.NewInt(100)))
	require.NoError(t, env.staker.Nominate(victim, c2, big.NewInt(500)))

	for i := 0; i < MaxTopNominationsPerCandidate; i++ {
		env.addNominator(fmt.Sprintf("top-%d", i), c1, 2_000)
	}
	for i := 0; i < MaxBottomNominationsPerCandidate-1; i++ {
		env.addNominator(fmt.Sprintf("bottom-%d", i), c1, 200)
	}
	require.NoError(t, env.staker.ScheduleNominationDecrease(victim, c1, big.NewInt(50)))

	// the newcomer outbids the lowest bottom position, the victim is
	// evicted with its pending request
	newcomer := avn.BytesToAddress([]byte("newcomer"))
	env.fund(newcomer, 150)
	require.NoError(t, env.staker.Nominate(newcomer, c1, big.NewInt(150)))
	assert.True(t, env.hasEvent("NominationKicked"))

	// the evicted stake is back in full, the request is gone
	assert.Equal(t, big.NewInt(100), env.balance(victim))
	backer, err := env.staker.GetNominator(victim)
	require.NoError(t, err)
	require.NotNil(t, backer)
	require.Len(t, backer.Nominations, 1)
	assert.Equal(t, big.NewInt(500), backer.AmountOf(c2))
	assert.Equal(t, big.NewInt(500), backer.Total)
	assert.Equal(t, big.NewInt(0), backer.LessTotal)

	req, err := env.staker.nominators.RequestFor(c1, victim)
	require.NoError(t, err)
	assert.Nil(t, req)

	meta, err := env.staker.GetCandidate(c1)
	require.NoError(t, err)
	assert.Equal(t, uint32(60), meta.NominationCount)
	assert.Equal(t, big.NewInt(30_000), meta.TotalCounted)
}
