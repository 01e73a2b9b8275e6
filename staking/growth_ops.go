// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/bridge"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/growth"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/reverts"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/vote"
)

// publishGrowthMethod is the external chain function receiving approved
// growth periods.
const publishGrowthMethod = "triggerGrowth"

// accumulateGrowth folds one paid era into the open growth period,
// closing the period first when its window has elapsed.
func (s *Staker) accumulateGrowth(payoutEra uint32, staked, reward *big.Int, points uint32) error {
	enabled, err := s.params.GrowthEnabled()
	if err != nil {
		return err
	}
	if !enabled {
		return nil
	}
	period, err := s.growth.Period()
	if err != nil {
		return err
	}
	if period.Index == 0 {
		// first paid era opens the first period
		period = growth.PeriodInfo{StartEraIndex: payoutEra, Index: 1}
	} else if payoutEra-period.StartEraIndex >= ErasPerGrowthPeriod {
		if err := s.triggerOutstandingGrowths(period.Index); err != nil {
			return err
		}
		period = growth.PeriodInfo{StartEraIndex: payoutEra, Index: period.Index + 1}
	}
	if err := s.growth.SetPeriod(period); err != nil {
		return err
	}

	info, err := s.growth.Get(period.Index)
	if err != nil {
		return err
	}
	awarded, err := s.eras.Awarded(payoutEra)
	if err != nil {
		return err
	}
	scores := make([]growth.CollatorScore, 0, len(awarded))
	for _, a := range awarded {
		scores = append(scores, growth.CollatorScore{Collator: a.Collator, Points: a.Points})
	}
	info.Fold(staked, reward, points, scores)
	return s.growth.Set(period.Index, info)
}

// triggerOutstandingGrowths opens voting for every closed period that has
// not been triggered yet, bounded so a long stall cannot flood one block.
// Approved periods whose earlier publish failed are re-attempted first.
func (s *Staker) triggerOutstandingGrowths(closedThrough uint32) error {
	awaiting, err := s.growth.AwaitingPublish()
	if err != nil {
		return err
	}
	for _, period := range awaiting {
		period := period
		if err := s.atomic(func() error { return s.publishGrowth(period) }); err != nil {
			logger.Warn("growth publish retry failed", "period", period, "err", err)
		}
	}
	last, _, err := s.growth.LastTriggered()
	if err != nil {
		return err
	}
	triggered := uint32(0)
	for period := last + 1; period <= closedThrough; period++ {
		if triggered >= growth.MaxPeriodsPerClosing {
			logger.Warn("growth trigger backlog bounded", "pending", closedThrough-period+1)
			break
		}
		period := period
		if err := s.atomic(func() error { return s.triggerGrowth(period) }); err != nil {
			// the watermark stays put, the period is retried at the next closing
			logger.Warn("failed to trigger growth period", "period", period, "err", err)
			break
		}
		if err := s.growth.SetLastTriggered(period); err != nil {
			return err
		}
		triggered++
	}
	return nil
}

// triggerGrowth hands one closed period to voting, or marks it skipped
// when it accumulated nothing.
func (s *Staker) triggerGrowth(period uint32) error {
	info, err := s.growth.Get(period)
	if err != nil {
		return err
	}
	if info.IsZero() {
		if err := s.votes.SetStatus(period, vote.StatusSkipped); err != nil {
			return err
		}
		s.events.Record(GrowthSkipped{Period: period})
		return nil
	}
	voters, err := s.eras.Selected()
	if err != nil {
		return err
	}
	session := vote.NewSession(voters, s.block, VotingPeriod)
	if err := s.votes.Set(period, session); err != nil {
		return err
	}
	if err := s.votes.SetStatus(period, vote.StatusPending); err != nil {
		return err
	}
	s.events.Record(VotingSessionOpened{Period: period})
	return nil
}

// GrowthConfirmationHash is the message an approving voter must sign:
// the publish payload the external chain will receive for the period.
func (s *Staker) GrowthConfirmationHash(period uint32) (avn.Bytes32, error) {
	info, err := s.growth.Get(period)
	if err != nil {
		return avn.Bytes32{}, err
	}
	payload, err := rlp.EncodeToBytes([]interface{}{
		[]byte(publishGrowthMethod),
		info.TotalStakerReward,
		info.AverageStaked(),
		period,
	})
	if err != nil {
		return avn.Bytes32{}, errors.Wrap(err, "failed to encode growth confirmation")
	}
	return avn.Blake2b(payload), nil
}

// ApproveGrowth casts an approving vote carrying the voter's signature
// over the period's publish payload, ending the session when quorum is
// reached. The vote outcome is settled before publishing, so a publish
// failure does not undo the concluded session.
func (s *Staker) ApproveGrowth(period uint32, voter avn.Address, signature []byte) error {
	publish := false
	if err := s.atomic(func() error {
		session, err := s.votes.Get(period)
		if err != nil {
			return err
		}
		if session == nil {
			return reverts.ErrVotingSessionNotFound
		}
		hash, err := s.GrowthConfirmationHash(period)
		if err != nil {
			return err
		}
		if err := vote.VerifyConfirmation(voter, hash, signature); err != nil {
			return err
		}
		if err := session.RecordAye(voter, signature, s.block); err != nil {
			return err
		}
		if err := s.votes.Set(period, session); err != nil {
			return err
		}
		metricVotes().Add(1)
		s.events.Record(VoteCast{Period: period, Voter: voter, Approve: true})
		if session.HasOutcome(s.block) {
			publish, err = s.endVoting(period, session)
			return err
		}
		return nil
	}); err != nil {
		return err
	}
	if !publish {
		return nil
	}
	return s.atomic(func() error { return s.publishGrowth(period) })
}

// RejectGrowth casts a rejecting vote, ending the session when quorum is
// reached.
func (s *Staker) RejectGrowth(period uint32, voter avn.Address) error {
	publish := false
	if err := s.atomic(func() error {
		session, err := s.votes.Get(period)
		if err != nil {
			return err
		}
		if session == nil {
			return reverts.ErrVotingSessionNotFound
		}
		if err := session.RecordNay(voter, s.block); err != nil {
			return err
		}
		if err := s.votes.Set(period, session); err != nil {
			return err
		}
		metricVotes().Add(1)
		s.events.Record(VoteCast{Period: period, Voter: voter, Approve: false})
		if session.HasOutcome(s.block) {
			publish, err = s.endVoting(period, session)
			return err
		}
		return nil
	}); err != nil {
		return err
	}
	if !publish {
		return nil
	}
	return s.atomic(func() error { return s.publishGrowth(period) })
}

// EndVoting finalizes a session whose deadline has passed without
// quorum. A session still open is left for a later attempt.
func (s *Staker) EndVoting(period uint32) error {
	publish := false
	if err := s.atomic(func() error {
		session, err := s.votes.Get(period)
		if err != nil {
			return err
		}
		if session == nil {
			return reverts.ErrVotingSessionNotFound
		}
		if !session.HasOutcome(s.block) {
			logger.Debug("voting session still open", "period", period)
			return nil
		}
		publish, err = s.endVoting(period, session)
		return err
	}); err != nil {
		return err
	}
	if !publish {
		return nil
	}
	return s.atomic(func() error { return s.publishGrowth(period) })
}

// RetryGrowthPublish re-attempts the bridge publish of an approved
// period whose earlier publish failed.
func (s *Staker) RetryGrowthPublish(period uint32) error {
	return s.atomic(func() error {
		status, err := s.votes.Status(period)
		if err != nil {
			return err
		}
		if status != vote.StatusApproved {
			return reverts.ErrGrowthDataNotFound
		}
		return s.publishGrowth(period)
	})
}

// endVoting concludes the session and reports whether the period is due
// for publishing. A rejected period is recorded with its approvers
// reported as the incorrect minority.
func (s *Staker) endVoting(period uint32, session *vote.Session) (bool, error) {
	s.votes.Delete(period)
	if session.IsApproved() {
		if err := s.votes.SetStatus(period, vote.StatusApproved); err != nil {
			return false, err
		}
		if err := s.growth.AddAwaitingPublish(period); err != nil {
			return false, err
		}
		if len(session.Nays) > 0 {
			s.offences.ReportOffence(session.Nays)
		}
		return true, nil
	}
	if err := s.votes.SetStatus(period, vote.StatusRejected); err != nil {
		return false, err
	}
	offenders := session.AyeVoters()
	if len(offenders) > 0 {
		s.offences.ReportOffence(offenders)
	}
	s.events.Record(GrowthRejected{Period: period, Offenders: offenders})
	return false, nil
}

// publishGrowth sends the period's totals to the external chain and
// records the returned transaction id for result correlation.
func (s *Staker) publishGrowth(period uint32) error {
	info, err := s.growth.Get(period)
	if err != nil {
		return err
	}
	var periodBytes [4]byte
	binary.BigEndian.PutUint32(periodBytes[:], period)
	params := []bridge.Param{
		{TypeTag: "uint256", Value: info.TotalStakerReward.Bytes()},
		{TypeTag: "uint256", Value: info.AverageStaked().Bytes()},
		{TypeTag: "uint32", Value: periodBytes[:]},
	}
	txID, err := s.publisher.Publish(publishGrowthMethod, params, s.addr)
	if err != nil {
		logger.Warn("failed to publish growth", "period", period, "err", err)
		return reverts.ErrErrorPublishingGrowth
	}
	info.TxID = &txID
	if err := s.growth.Set(period, info); err != nil {
		return err
	}
	if err := s.growth.SetPeriodForTx(txID, period); err != nil {
		return err
	}
	if err := s.votes.SetStatus(period, vote.StatusTriggered); err != nil {
		return err
	}
	if err := s.growth.RemoveAwaitingPublish(period); err != nil {
		return err
	}
	metricPublishes().Add(1)
	s.events.Record(GrowthPublished{Period: period, TxID: txID})
	return nil
}

// ProcessResult correlates a bridge confirmation back to its growth
// period and records the outcome.
func (s *Staker) ProcessResult(txID uint32, succeeded bool) error {
	return s.atomic(func() error { return s.doProcessResult(txID, succeeded) })
}

func (s *Staker) doProcessResult(txID uint32, succeeded bool) error {
	period, ok, err := s.growth.PeriodForTx(txID)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrGrowthDataNotFound
	}
	info, err := s.growth.Get(period)
	if err != nil {
		return err
	}
	outcome := succeeded
	info.Triggered = &outcome
	if err := s.growth.Set(period, info); err != nil {
		return err
	}
	s.growth.DeletePeriodForTx(txID)
	if !succeeded {
		logger.Warn("growth publish rejected by external chain", "period", period, "tx", txID)
	}
	return nil
}

// OnGrowthLifted distributes an amount lifted on the external chain to
// the period's collators, by recorded score or evenly when score data is
// missing. Remainders go to the dust handler.
func (s *Staker) OnGrowthLifted(period uint32, amount *big.Int) error {
	return s.atomic(func() error { return s.doOnGrowthLifted(period, amount) })
}

func (s *Staker) doOnGrowthLifted(period uint32, amount *big.Int) error {
	processed, err := s.growth.IsProcessed(period)
	if err != nil {
		return err
	}
	if processed {
		return reverts.ErrGrowthAlreadyProcessed
	}
	info, err := s.growth.Get(period)
	if err != nil {
		return err
	}

	distributed := new(big.Int)
	if len(info.CollatorScores) > 0 && info.TotalPoints > 0 {
		totalPoints := new(big.Int).SetUint64(uint64(info.TotalPoints))
		for _, score := range info.CollatorScores {
			share := avn.PerbillFromRational(
				new(big.Int).SetUint64(uint64(score.Points)), totalPoints,
			).Mul(amount)
			if err := s.deposit(score.Collator, share); err != nil {
				return err
			}
			distributed.Add(distributed, share)
			s.events.Record(Rewarded{Account: score.Collator, Amount: share})
		}
	} else {
		selected, err := s.eras.Selected()
		if err != nil {
			return err
		}
		if len(selected) == 0 {
			return reverts.ErrGrowthDataNotFound
		}
		share := new(big.Int).Quo(amount, big.NewInt(int64(len(selected))))
		for _, collator := range selected {
			if err := s.deposit(collator, share); err != nil {
				return err
			}
			distributed.Add(distributed, share)
			s.events.Record(Rewarded{Account: collator, Amount: share})
		}
	}
	if dust := new(big.Int).Sub(amount, distributed); dust.Sign() > 0 {
		s.dust.HandleDust(dust)
	}
	if err := s.growth.MarkProcessed(period); err != nil {
		return err
	}
	s.events.Record(CollatorsPaidFromGrowth{Period: period, Amount: new(big.Int).Set(amount)})
	return nil
}
