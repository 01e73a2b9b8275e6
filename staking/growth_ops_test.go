// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/growth"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/reverts"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/vote"
)

// runGrowthPeriod drives enough paid eras to close the first growth
// period and open voting on it. Four collators are selected, c1 authors
// every block. The collators carry signing keys so they can confirm
// approvals.
func runGrowthPeriod(t *testing.T, env *testEnv) (c1, c2, c3, c4 keyedAccount) {
	c1 = env.addKeyedCandidate(10_000)
	c2 = env.addKeyedCandidate(10_000)
	c3 = env.addKeyedCandidate(10_000)
	c4 = env.addKeyedCandidate(10_000)

	for era := uint32(2); era <= 33; era++ {
		env.advanceToEra(era)
		require.NoError(t, env.staker.NoteAuthor(c1.addr))
		env.fund(potAddr, 1_000)
	}
	// era 34 arms payout era 32, which closes period 1 (eras 2 through 31)
	env.advanceToEra(34)
	return
}

func TestGrowthAccumulation(t *testing.T) {
	env := newTestEnv(t)
	c1, _, _, _ := runGrowthPeriod(t, env)

	info, err := env.staker.GrowthInfo(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(30), info.Accumulations)
	// the first armed payout drains two eras of pot funding, every later
	// one exactly one era's worth
	assert.Equal(t, big.NewInt(31_000), info.TotalStakerReward)
	assert.Equal(t, big.NewInt(40_000), info.AverageStaked())
	assert.Equal(t, uint32(30*AuthorPoints), info.TotalPoints)
	require.Len(t, info.CollatorScores, 1)
	assert.Equal(t, c1.addr, info.CollatorScores[0].Collator)

	period, err := env.staker.growth.Period()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), period.Index)
	assert.Equal(t, uint32(32), period.StartEraIndex)
}

func TestGrowthVotingApproval(t *testing.T) {
	env := newTestEnv(t)
	c1, c2, c3, c4 := runGrowthPeriod(t, env)

	session, err := env.staker.VotingSession(1)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, uint32(3), session.Threshold)
	assert.True(t, env.hasEvent("VotingSessionOpened"))

	err = env.staker.ApproveGrowth(42, c1.addr, []byte{1})
	assert.Equal(t, reverts.ErrVotingSessionNotFound, err)

	// a confirmation must recover the voter's own address
	err = env.staker.ApproveGrowth(1, c1.addr, []byte{1})
	assert.Equal(t, reverts.ErrInvalidConfirmationSignature, err)
	hash, err := env.staker.GrowthConfirmationHash(1)
	require.NoError(t, err)
	signedByC2, err := crypto.Sign(hash.Bytes(), c2.key)
	require.NoError(t, err)
	err = env.staker.ApproveGrowth(1, c1.addr, signedByC2)
	assert.Equal(t, reverts.ErrInvalidConfirmationSignature, err)
	session, err = env.staker.VotingSession(1)
	require.NoError(t, err)
	assert.Empty(t, session.Ayes)

	require.NoError(t, env.approveGrowth(1, c1))
	err = env.approveGrowth(1, c1)
	assert.Equal(t, reverts.ErrDuplicateVote, err)

	require.NoError(t, env.staker.RejectGrowth(1, c3.addr))
	require.NoError(t, env.approveGrowth(1, c2))

	// third aye reaches quorum, the period is published
	require.NoError(t, env.approveGrowth(1, c4))

	session, err = env.staker.VotingSession(1)
	require.NoError(t, err)
	assert.Nil(t, session)

	status, err := env.staker.votes.Status(1)
	require.NoError(t, err)
	assert.Equal(t, vote.StatusTriggered, status)

	require.Len(t, env.pub.Calls, 1)
	call := env.pub.Calls[0]
	assert.Equal(t, "triggerGrowth", call.Method)
	require.Len(t, call.Params, 3)
	assert.Equal(t, "uint256", call.Params[0].TypeTag)

	info, err := env.staker.GrowthInfo(1)
	require.NoError(t, err)
	require.NotNil(t, info.TxID)
	assert.Equal(t, uint32(1), *info.TxID)

	// the dissenting minority is reported
	require.Len(t, env.offences.reported, 1)
	assert.Equal(t, []avn.Address{c3.addr}, env.offences.reported[0])
	assert.True(t, env.hasEvent("GrowthPublished"))

	// nothing is awaiting a publish retry
	awaiting, err := env.staker.growth.AwaitingPublish()
	require.NoError(t, err)
	assert.Empty(t, awaiting)
}

func TestGrowthVotingRejection(t *testing.T) {
	env := newTestEnv(t)
	c1, c2, c3, c4 := runGrowthPeriod(t, env)

	info := growth.NewInfo()
	info.Fold(big.NewInt(1_000), big.NewInt(10), 20, nil)
	require.NoError(t, env.staker.growth.Set(9, info))
	require.NoError(t, env.staker.triggerGrowth(9))

	require.NoError(t, env.approveGrowth(9, c4))
	require.NoError(t, env.staker.RejectGrowth(9, c1.addr))
	require.NoError(t, env.staker.RejectGrowth(9, c2.addr))
	require.NoError(t, env.staker.RejectGrowth(9, c3.addr))

	status, err := env.staker.votes.Status(9)
	require.NoError(t, err)
	assert.Equal(t, vote.StatusRejected, status)

	// the approving minority is reported
	require.Len(t, env.offences.reported, 1)
	assert.Equal(t, []avn.Address{c4.addr}, env.offences.reported[0])
	assert.True(t, env.hasEvent("GrowthRejected"))
	assert.Empty(t, env.pub.Calls)
}

func TestGrowthSkippedWhenEmpty(t *testing.T) {
	env := newTestEnv(t)
	env.addCandidate("c1", 10_000)
	env.advanceToEra(2)

	require.NoError(t, env.staker.triggerGrowth(5))

	status, err := env.staker.votes.Status(5)
	require.NoError(t, err)
	assert.Equal(t, vote.StatusSkipped, status)

	session, err := env.staker.VotingSession(5)
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.True(t, env.hasEvent("GrowthSkipped"))
}

func TestGrowthPublishFailure(t *testing.T) {
	env := newTestEnv(t)
	c1, c2, c3, _ := runGrowthPeriod(t, env)

	info := growth.NewInfo()
	info.Fold(big.NewInt(1_000), big.NewInt(10), 20, nil)
	require.NoError(t, env.staker.growth.Set(9, info))
	require.NoError(t, env.staker.triggerGrowth(9))

	env.pub.FailNext()
	require.NoError(t, env.approveGrowth(9, c1))
	require.NoError(t, env.approveGrowth(9, c2))
	err := env.approveGrowth(9, c3)
	assert.Equal(t, reverts.ErrErrorPublishingGrowth, err)

	// the concluded vote survives the failed publish and the period is
	// queued for a re-attempt
	status, statusErr := env.staker.votes.Status(9)
	require.NoError(t, statusErr)
	assert.Equal(t, vote.StatusApproved, status)
	awaiting, err := env.staker.growth.AwaitingPublish()
	require.NoError(t, err)
	assert.Equal(t, []uint32{9}, awaiting)
}

func TestRetryGrowthPublish(t *testing.T) {
	env := newTestEnv(t)
	c1, c2, c3, _ := runGrowthPeriod(t, env)

	info := growth.NewInfo()
	info.Fold(big.NewInt(1_000), big.NewInt(10), 20, nil)
	require.NoError(t, env.staker.growth.Set(9, info))
	require.NoError(t, env.staker.triggerGrowth(9))

	env.pub.FailNext()
	require.NoError(t, env.approveGrowth(9, c1))
	require.NoError(t, env.approveGrowth(9, c2))
	err := env.approveGrowth(9, c3)
	require.Equal(t, reverts.ErrErrorPublishingGrowth, err)

	// only an approved-but-unpublished period can be retried
	err = env.staker.RetryGrowthPublish(7)
	assert.Equal(t, reverts.ErrGrowthDataNotFound, err)

	require.NoError(t, env.staker.RetryGrowthPublish(9))

	status, err := env.staker.votes.Status(9)
	require.NoError(t, err)
	assert.Equal(t, vote.StatusTriggered, status)
	published, err := env.staker.GrowthInfo(9)
	require.NoError(t, err)
	require.NotNil(t, published.TxID)
	awaiting, err := env.staker.growth.AwaitingPublish()
	require.NoError(t, err)
	assert.Empty(t, awaiting)

	// a second retry finds the period no longer approved
	err = env.staker.RetryGrowthPublish(9)
	assert.Equal(t, reverts.ErrGrowthDataNotFound, err)
}

func TestGrowthPublishRetriedAtClosing(t *testing.T) {
	env := newTestEnv(t)
	c1, c2, c3, _ := runGrowthPeriod(t, env)

	info := growth.NewInfo()
	info.Fold(big.NewInt(1_000), big.NewInt(10), 20, nil)
	require.NoError(t, env.staker.growth.Set(9, info))
	require.NoError(t, env.staker.triggerGrowth(9))

	env.pub.FailNext()
	require.NoError(t, env.approveGrowth(9, c1))
	require.NoError(t, env.approveGrowth(9, c2))
	err := env.approveGrowth(9, c3)
	require.Equal(t, reverts.ErrErrorPublishingGrowth, err)

	// the next period closing re-attempts the publish
	for era := uint32(35); era <= 63; era++ {
		env.advanceToEra(era)
		require.NoError(t, env.staker.NoteAuthor(c1.addr))
		env.fund(potAddr, 1_000)
	}
	env.advanceToEra(64)

	status, err := env.staker.votes.Status(9)
	require.NoError(t, err)
	assert.Equal(t, vote.StatusTriggered, status)
	awaiting, err := env.staker.growth.AwaitingPublish()
	require.NoError(t, err)
	assert.Empty(t, awaiting)
}

func TestProcessResult(t *testing.T) {
	env := newTestEnv(t)
	c1, c2, c3, c4 := runGrowthPeriod(t, env)

	require.NoError(t, env.approveGrowth(1, c1))
	require.NoError(t, env.approveGrowth(1, c2))
	require.NoError(t, env.approveGrowth(1, c3))
	_ = c4

	err := env.staker.ProcessResult(99, true)
	assert.Equal(t, reverts.ErrGrowthDataNotFound, err)

	require.NoError(t, env.staker.ProcessResult(1, true))
	info, err := env.staker.GrowthInfo(1)
	require.NoError(t, err)
	require.NotNil(t, info.Triggered)
	assert.True(t, *info.Triggered)

	// the correlation is consumed
	err = env.staker.ProcessResult(1, true)
	assert.Equal(t, reverts.ErrGrowthDataNotFound, err)
}

func TestOnGrowthLifted(t *testing.T) {
	env := newTestEnv(t)
	c1, _, _, _ := runGrowthPeriod(t, env)

	before := env.balance(c1.addr)
	require.NoError(t, env.staker.OnGrowthLifted(1, big.NewInt(6_000)))

	// c1 earned every point of the period and receives the full amount
	gained := new(big.Int).Sub(env.balance(c1.addr), before)
	assert.Equal(t, big.NewInt(6_000), gained)
	assert.True(t, env.hasEvent("CollatorsPaidFromGrowth"))

	err := env.staker.OnGrowthLifted(1, big.NewInt(6_000))
	assert.Equal(t, reverts.ErrGrowthAlreadyProcessed, err)
}

func TestGrowthDisabled(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.staker.SetGrowthEnabled(false))

	c1 := env.addCandidate("c1", 10_000)
	env.advanceToEra(2)
	require.NoError(t, env.staker.NoteAuthor(c1))
	env.fund(potAddr, 1_000)
	env.advanceToEra(4)

	// rewards are still paid but nothing accumulates
	assert.True(t, env.hasEvent("Rewarded"))
	info, err := env.staker.GrowthInfo(1)
	require.NoError(t, err)
	assert.True(t, info.IsZero())
}
