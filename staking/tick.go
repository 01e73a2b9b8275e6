// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/era"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/nominators"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/reverts"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/rewards"
)

// OnInitialize runs the block-boundary housekeeping. It must be called
// once per block, before any user request of that block: era transition
// and snapshotting first, then one collator payout, so every request in
// the block sees a consistent era context.
func (s *Staker) OnInitialize(block uint32) error {
	s.block = block
	return s.atomic(func() error { return s.doOnInitialize(block) })
}

func (s *Staker) doOnInitialize(block uint32) error {
	info, err := s.eras.GetEra()
	if err != nil {
		return err
	}
	if info.Length == 0 {
		// genesis: open era 1
		info = era.Info{Current: 1, First: block, Length: DefaultEraLength}
		if err := s.eras.SetEra(info); err != nil {
			return err
		}
		if _, err := s.selectTopCandidates(info.Current); err != nil {
			return err
		}
	} else if info.ShouldUpdate(block) {
		if info, err = s.rollEra(info, block); err != nil {
			return err
		}
	}

	return s.handleDelayedPayouts(info.Current)
}

// StartNewEra forces the era to roll over at the current block without
// waiting for the era length to elapse. Admin entry point.
func (s *Staker) StartNewEra() error {
	return s.atomic(func() error {
		info, err := s.eras.GetEra()
		if err != nil {
			return err
		}
		if info.Length == 0 {
			return reverts.ErrAdminSettingsValueIsNotValid
		}
		_, err = s.rollEra(info, s.block)
		return err
	})
}

// rollEra opens the next era at block: payouts for the era whose delay
// elapsed are armed, then the new selection is snapshotted.
func (s *Staker) rollEra(info era.Info, block uint32) (era.Info, error) {
	info.Update(block)
	if err := s.eras.SetEra(info); err != nil {
		return info, err
	}
	if err := s.prepareStakingPayouts(info.Current); err != nil {
		return info, err
	}
	staked, err := s.selectTopCandidates(info.Current)
	if err != nil {
		return info, err
	}
	selected, err := s.eras.Selected()
	if err != nil {
		return info, err
	}
	logger.Info("new era", "era", info.Current, "block", block, "selected", len(selected))
	metricEras().Add(1)
	s.events.Record(NewEra{
		StartingBlock: block,
		Era:           info.Current,
		Selected:      uint32(len(selected)),
		TotalStaked:   staked,
	})
	return info, nil
}

// NoteAuthor credits the block author with its era points.
func (s *Staker) NoteAuthor(author avn.Address) error {
	return s.atomic(func() error {
		now, err := s.currentEra()
		if err != nil {
			return err
		}
		return s.eras.AwardPoints(now, author, AuthorPoints)
	})
}

// selectTopCandidates snapshots the strongest candidates for newEra and
// returns the total stake backing the selection.
func (s *Staker) selectTopCandidates(newEra uint32) (*big.Int, error) {
	pool, err := s.pool()
	if err != nil {
		return nil, err
	}
	min, err := s.params.MinCollatorStake()
	if err != nil {
		return nil, err
	}
	limit, err := s.params.TotalSelected()
	if err != nil {
		return nil, err
	}

	var selected []avn.Address
	for _, entry := range pool.SortedByAmount() {
		if entry.Amount.Cmp(min) < 0 {
			continue
		}
		selected = append(selected, entry.Owner)
		if uint32(len(selected)) >= limit {
			break
		}
	}
	if len(selected) == 0 {
		// nothing selectable, reuse the previous era's selection so the
		// chain keeps producing
		return s.reusePreviousSelection(newEra)
	}

	totalStaked := new(big.Int)
	for _, collator := range selected {
		snap, err := s.snapshotCandidate(collator)
		if err != nil {
			return nil, err
		}
		if err := s.eras.SetSnapshot(newEra, collator, *snap); err != nil {
			return nil, err
		}
		totalStaked.Add(totalStaked, snap.Total)
	}
	if err := s.eras.SetSelected(selected); err != nil {
		return nil, err
	}
	if err := s.eras.SetStaked(newEra, totalStaked); err != nil {
		return nil, err
	}
	return totalStaked, nil
}

// snapshotCandidate fixes the candidate's rewardable backing: a backer
// with a pending revoke earns nothing here, a pending decrease is
// applied early.
func (s *Staker) snapshotCandidate(collator avn.Address) (*era.Snapshot, error) {
	meta, err := s.candidates.Get(collator)
	if err != nil {
		return nil, err
	}
	top, err := s.candidates.GetTop(collator)
	if err != nil {
		return nil, err
	}
	total := new(big.Int).Set(meta.TotalCounted)
	var rewardable = top.Bonds.Clone()
	kept := rewardable[:0]
	for _, bond := range rewardable {
		req, err := s.nominators.RequestFor(collator, bond.Owner)
		if err != nil {
			return nil, err
		}
		if req == nil {
			kept = append(kept, bond)
			continue
		}
		switch req.Action {
		case nominators.ActionRevoke:
			total.Sub(total, bond.Amount)
		case nominators.ActionDecrease:
			reduced := new(big.Int).Sub(bond.Amount, req.Amount)
			if reduced.Sign() > 0 {
				bond.Amount = reduced
				kept = append(kept, bond)
			}
			total.Sub(total, req.Amount)
		}
	}
	return &era.Snapshot{
		Bond:        new(big.Int).Set(meta.Bond),
		Nominations: kept,
		Total:       total,
	}, nil
}

// reusePreviousSelection carries the prior era's selection and snapshots
// forward verbatim.
func (s *Staker) reusePreviousSelection(newEra uint32) (*big.Int, error) {
	selected, err := s.eras.Selected()
	if err != nil {
		return nil, err
	}
	for _, collator := range selected {
		snap, err := s.eras.GetSnapshot(newEra-1, collator)
		if err != nil {
			return nil, err
		}
		if snap == nil {
			continue
		}
		if err := s.eras.SetSnapshot(newEra, collator, *snap); err != nil {
			return nil, err
		}
	}
	staked, err := s.eras.Staked(newEra - 1)
	if err != nil {
		return nil, err
	}
	if err := s.eras.SetStaked(newEra, staked); err != nil {
		return nil, err
	}
	logger.Warn("empty candidate selection, reusing previous era", "era", newEra)
	return staked, nil
}

// prepareStakingPayouts arms the delayed payout for the era whose
// payment delay just elapsed and folds that era into the growth period.
func (s *Staker) prepareStakingPayouts(now uint32) error {
	if now <= RewardPaymentDelay {
		return nil
	}
	payoutEra := now - RewardPaymentDelay
	points, err := s.eras.Points(payoutEra)
	if err != nil {
		return err
	}
	if points == 0 {
		return nil
	}
	staked, err := s.eras.TakeStaked(payoutEra)
	if err != nil {
		return err
	}
	totalReward, err := s.computeTotalRewardToPay()
	if err != nil {
		return err
	}
	if err := s.rewards.Lock(totalReward); err != nil {
		return err
	}
	if err := s.rewards.SetDelayedPayout(payoutEra, rewards.DelayedPayout{
		TotalStakingReward: totalReward,
	}); err != nil {
		return err
	}
	return s.accumulateGrowth(payoutEra, staked, totalReward, points)
}

// computeTotalRewardToPay reads the pot once, net of rewards already
// armed but not yet paid. The result is fixed for the whole payout.
func (s *Staker) computeTotalRewardToPay() (*big.Int, error) {
	balance, err := s.state.GetBalance(s.pot)
	if err != nil {
		return nil, err
	}
	locked, err := s.rewards.Locked()
	if err != nil {
		return nil, err
	}
	available := new(big.Int).Sub(balance, locked)
	if available.Sign() < 0 {
		logger.Warn("reward pot below locked payouts", "balance", balance, "locked", locked)
		s.events.Record(NotEnoughFundsForEraPayment{Pot: balance})
		return new(big.Int), nil
	}
	return available, nil
}

// handleDelayedPayouts pays one collator's full snapshot per block while
// an armed payout remains.
func (s *Staker) handleDelayedPayouts(now uint32) error {
	if now < RewardPaymentDelay {
		return nil
	}
	payoutEra := now - RewardPaymentDelay
	payout, err := s.rewards.DelayedPayout(payoutEra)
	if err != nil {
		return err
	}
	if payout == nil {
		return nil
	}
	return s.payOneCollatorReward(payoutEra, payout)
}

func (s *Staker) payOneCollatorReward(payoutEra uint32, payout *rewards.DelayedPayout) error {
	awarded, err := s.eras.TakeFirstAwarded(payoutEra)
	if err != nil {
		return err
	}
	if awarded == nil {
		// every collator paid, tear down the era's bookkeeping
		s.rewards.DeleteDelayedPayout(payoutEra)
		s.eras.DeletePoints(payoutEra)
		return nil
	}
	snap, err := s.eras.GetSnapshot(payoutEra, awarded.Collator)
	if err != nil {
		return err
	}
	if snap == nil {
		logger.Warn("no snapshot for awarded collator", "era", payoutEra, "collator", awarded.Collator)
		return nil
	}
	totalPoints, err := s.eras.Points(payoutEra)
	if err != nil {
		return err
	}
	for _, payment := range rewards.Split(snap, awarded.Collator, awarded.Points, totalPoints, payout.TotalStakingReward) {
		if payment.Amount.Sign() <= 0 {
			continue
		}
		paid, err := s.payFromPot(payment.To, payment.Amount)
		if err != nil {
			return err
		}
		if !paid {
			// non-fatal, the remaining payees still get paid
			logger.Warn("failed to pay staking reward", "to", payment.To, "amount", payment.Amount)
			s.events.Record(ErrorPayingStakingReward{To: payment.To, Amount: payment.Amount})
			continue
		}
		if err := s.rewards.Unlock(payment.Amount); err != nil {
			return err
		}
		s.events.Record(Rewarded{Account: payment.To, Amount: payment.Amount})
	}
	metricCollatorsPaid().Add(1)
	s.eras.DeleteSnapshot(payoutEra, awarded.Collator)
	return nil
}
