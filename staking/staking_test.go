// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/bridge"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/kv"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/reverts"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/state"
)

var (
	moduleAddr = avn.BytesToAddress([]byte("staking-module"))
	potAddr    = avn.BytesToAddress([]byte("reward-pot"))
)

type offenceRecorder struct {
	reported [][]avn.Address
}

func (o *offenceRecorder) ReportOffence(offenders []avn.Address) {
	o.reported = append(o.reported, offenders)
}

type testEnv struct {
	t        *testing.T
	staker   *Staker
	st       *state.State
	events   *Recorder
	pub      *bridge.MockPublisher
	offences *offenceRecorder
	block    uint32
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := kv.NewMemLevelDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		t:        t,
		st:       state.New(db),
		events:   &Recorder{},
		pub:      bridge.NewMockPublisher(),
		offences: &offenceRecorder{},
	}
	env.staker = New(moduleAddr, potAddr, env.st, Config{
		Publisher: env.pub,
		Offences:  env.offences,
		Events:    env.events,
	})
	env.nextBlock()
	return env
}

func (e *testEnv) nextBlock() {
	e.block++
	require.NoError(e.t, e.staker.OnInitialize(e.block))
}

// advanceToEra drives the block clock forward one era boundary at a time
// until the target era is reached.
func (e *testEnv) advanceToEra(target uint32) {
	for {
		info, err := e.staker.Era()
		require.NoError(e.t, err)
		if info.Current >= target {
			return
		}
		e.block = info.First + info.Length
		require.NoError(e.t, e.staker.OnInitialize(e.block))
	}
}

func (e *testEnv) fund(account avn.Address, amount int64) {
	balance, err := e.st.GetBalance(account)
	require.NoError(e.t, err)
	e.st.SetBalance(account, new(big.Int).Add(balance, big.NewInt(amount)))
}

func (e *testEnv) balance(account avn.Address) *big.Int {
	balance, err := e.st.GetBalance(account)
	require.NoError(e.t, err)
	return balance
}

func (e *testEnv) addCandidateAccount(name string, funds int64) avn.Address {
	account := avn.BytesToAddress([]byte(name))
	e.fund(account, funds)
	return account
}

func (e *testEnv) addCandidate(name string, bond int64) avn.Address {
	account := avn.BytesToAddress([]byte(name))
	e.fund(account, bond)
	require.NoError(e.t, e.staker.JoinCandidates(account, big.NewInt(bond)))
	return account
}

// keyedAccount is a candidate with a signing key, for flows that verify
// signatures against the account address.
type keyedAccount struct {
	key  *ecdsa.PrivateKey
	addr avn.Address
}

func (e *testEnv) addKeyedCandidate(bond int64) keyedAccount {
	key, err := crypto.GenerateKey()
	require.NoError(e.t, err)
	account := avn.Address(crypto.PubkeyToAddress(key.PublicKey))
	e.fund(account, bond)
	require.NoError(e.t, e.staker.JoinCandidates(account, big.NewInt(bond)))
	return keyedAccount{key: key, addr: account}
}

// approveGrowth signs the period's publish payload with the voter's key
// and casts the approving vote.
func (e *testEnv) approveGrowth(period uint32, voter keyedAccount) error {
	hash, err := e.staker.GrowthConfirmationHash(period)
	require.NoError(e.t, err)
	signature, err := crypto.Sign(hash.Bytes(), voter.key)
	require.NoError(e.t, err)
	return e.staker.ApproveGrowth(period, voter.addr, signature)
}

func (e *testEnv) hasEvent(name string) bool {
	for _, ev := range e.events.Events {
		if ev.Name() == name {
			return true
		}
	}
	return false
}

func TestJoinCandidates(t *testing.T) {
	env := newTestEnv(t)

	c1 := env.addCandidate("c1", 10_000)
	assert.Equal(t, big.NewInt(0), env.balance(c1))
	assert.Equal(t, big.NewInt(10_000), env.balance(moduleAddr))

	meta, err := env.staker.GetCandidate(c1)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, big.NewInt(10_000), meta.Bond)
	assert.Equal(t, big.NewInt(10_000), meta.TotalCounted)
	assert.True(t, meta.IsActive())
	assert.True(t, env.hasEvent("CandidateJoined"))

	env.fund(c1, 10_000)
	assert.Equal(t, reverts.ErrCandidateExists, env.staker.JoinCandidates(c1, big.NewInt(10_000)))

	weak := avn.BytesToAddress([]byte("weak"))
	env.fund(weak, 5_000)
	assert.Equal(t, reverts.ErrCandidateBondBelowMin, env.staker.JoinCandidates(weak, big.NewInt(5_000)))

	broke := avn.BytesToAddress([]byte("broke"))
	assert.Equal(t, reverts.ErrInsufficientBalance, env.staker.JoinCandidates(broke, big.NewInt(10_000)))
}

func TestCandidateBondExtra(t *testing.T) {
	env := newTestEnv(t)
	c1 := env.addCandidate("c1", 10_000)

	env.fund(c1, 2_000)
	require.NoError(t, env.staker.CandidateBondExtra(c1, big.NewInt(2_000)))

	meta, err := env.staker.GetCandidate(c1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(12_000), meta.Bond)
	assert.Equal(t, big.NewInt(12_000), meta.TotalCounted)

	missing := avn.BytesToAddress([]byte("missing"))
	assert.Equal(t, reverts.ErrCandidateDNE, env.staker.CandidateBondExtra(missing, big.NewInt(1)))
}

func TestCandidateBondLessLifecycle(t *testing.T) {
	env := newTestEnv(t)
	c1 := env.addCandidate("c1", 12_000)

	// would drop below the self-bond floor
	err := env.staker.ScheduleCandidateBondLess(c1, big.NewInt(3_000))
	assert.Equal(t, reverts.ErrCandidateBondBelowMin, err)

	require.NoError(t, env.staker.ScheduleCandidateBondLess(c1, big.NewInt(2_000)))
	err = env.staker.ScheduleCandidateBondLess(c1, big.NewInt(1_000))
	assert.Equal(t, reverts.ErrPendingCandidateRequestAlreadyExist, err)

	err = env.staker.ExecuteCandidateBondLess(c1)
	assert.Equal(t, reverts.ErrPendingCandidateRequestNotDueYet, err)

	env.advanceToEra(3)
	require.NoError(t, env.staker.ExecuteCandidateBondLess(c1))
	assert.Equal(t, big.NewInt(2_000), env.balance(c1))

	meta, err := env.staker.GetCandidate(c1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10_000), meta.Bond)
	assert.Nil(t, meta.Request)

	err = env.staker.ExecuteCandidateBondLess(c1)
	assert.Equal(t, reverts.ErrPendingCandidateRequestDNE, err)
}

func TestCancelCandidateBondLess(t *testing.T) {
	env := newTestEnv(t)
	c1 := env.addCandidate("c1", 12_000)

	assert.Equal(t, reverts.ErrPendingCandidateRequestDNE, env.staker.CancelCandidateBondLess(c1))
	require.NoError(t, env.staker.ScheduleCandidateBondLess(c1, big.NewInt(2_000)))
	require.NoError(t, env.staker.CancelCandidateBondLess(c1))

	meta, err := env.staker.GetCandidate(c1)
	require.NoError(t, err)
	assert.Nil(t, meta.Request)
}

func TestGoOfflineAndOnline(t *testing.T) {
	env := newTestEnv(t)
	c1 := env.addCandidate("c1", 10_000)

	assert.Equal(t, reverts.ErrAlreadyActive, env.staker.GoOnline(c1))
	require.NoError(t, env.staker.GoOffline(c1))
	assert.Equal(t, reverts.ErrAlreadyOffline, env.staker.GoOffline(c1))

	meta, err := env.staker.GetCandidate(c1)
	require.NoError(t, err)
	assert.False(t, meta.IsActive())

	require.NoError(t, env.staker.GoOnline(c1))
	meta, err = env.staker.GetCandidate(c1)
	require.NoError(t, err)
	assert.True(t, meta.IsActive())
}

func TestLeaveCandidates(t *testing.T) {
	env := newTestEnv(t)
	c1 := env.addCandidate("c1", 10_000)

	n1 := avn.BytesToAddress([]byte("n1"))
	env.fund(n1, 5_000)
	require.NoError(t, env.staker.Nominate(n1, c1, big.NewInt(5_000)))

	assert.Equal(t, reverts.ErrCandidateNotLeaving, env.staker.ExecuteLeaveCandidates(c1))
	require.NoError(t, env.staker.ScheduleLeaveCandidates(c1))
	assert.Equal(t, reverts.ErrCandidateAlreadyLeaving, env.staker.ScheduleLeaveCandidates(c1))
	assert.Equal(t, reverts.ErrCannotGoOnlineIfLeaving, env.staker.GoOnline(c1))

	require.NoError(t, env.staker.CancelLeaveCandidates(c1))
	require.NoError(t, env.staker.ScheduleLeaveCandidates(c1))

	assert.Equal(t, reverts.ErrCandidateCannotLeaveYet, env.staker.ExecuteLeaveCandidates(c1))

	env.advanceToEra(3)
	require.NoError(t, env.staker.ExecuteLeaveCandidates(c1))

	// every locked amount is back with its owner
	assert.Equal(t, big.NewInt(10_000), env.balance(c1))
	assert.Equal(t, big.NewInt(5_000), env.balance(n1))
	assert.Equal(t, big.NewInt(0), env.balance(moduleAddr))

	meta, err := env.staker.GetCandidate(c1)
	require.NoError(t, err)
	assert.Nil(t, meta)
	backer, err := env.staker.GetNominator(n1)
	require.NoError(t, err)
	assert.Nil(t, backer)
	assert.True(t, env.hasEvent("CandidateLeft"))
	assert.True(t, env.hasEvent("NominatorLeft"))
}
