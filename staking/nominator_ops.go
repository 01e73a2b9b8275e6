// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"sort"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/nominators"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/reverts"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/stake"
)

// Nominate places a new position of amount behind candidate, creating
// the backer record when this is the account's first nomination.
func (s *Staker) Nominate(nominator, candidate avn.Address, amount *big.Int) error {
	return s.atomic(func() error { return s.doNominate(nominator, candidate, amount) })
}

func (s *Staker) doNominate(nominator, candidate avn.Address, amount *big.Int) error {
	meta, err := s.candidates.Get(candidate)
	if err != nil {
		return err
	}
	if meta == nil {
		return reverts.ErrCandidateDNE
	}
	if amount.Cmp(MinNominationPerCollator) < 0 {
		return reverts.ErrNominationBelowMin
	}
	n, err := s.nominators.Get(nominator)
	if err != nil {
		return err
	}
	if n == nil {
		if has, err := s.candidates.Has(nominator); err != nil {
			return err
		} else if has {
			return reverts.ErrCandidateExists
		}
		min, err := s.params.MinTotalNominatorStake()
		if err != nil {
			return err
		}
		if amount.Cmp(min) < 0 {
			return reverts.ErrNominatorBondBelowMin
		}
		n = nominators.NewNominator(candidate, amount)
	} else {
		if len(n.Nominations) >= MaxNominationsPerNominator {
			return reverts.ErrExceedMaxNominationsPerNominator
		}
		if !n.AddNomination(candidate, amount) {
			return reverts.ErrAlreadyNominatedCandidate
		}
	}

	added, kicked, err := s.ledger.AddNomination(candidate, meta, stake.NewBond(nominator, amount))
	if err != nil {
		return err
	}
	if err := s.withdraw(nominator, amount); err != nil {
		return err
	}
	if kicked != nil {
		if err := s.handleKick(candidate, kicked); err != nil {
			return err
		}
	}
	if err := s.candidates.Set(candidate, meta); err != nil {
		return err
	}
	if err := s.nominators.Set(nominator, n); err != nil {
		return err
	}
	s.events.Record(Nominated{
		Nominator: nominator,
		Candidate: candidate,
		Amount:    new(big.Int).Set(amount),
		InTop:     added.ToTop,
	})
	return nil
}

// handleKick closes a bottom position that was evicted to make room:
// the stake is returned, any pending request against it is cancelled and
// the backer record is trimmed.
func (s *Staker) handleKick(candidate avn.Address, kicked *stake.Bond) error {
	if err := s.refund(kicked.Owner, kicked.Amount); err != nil {
		return err
	}
	n, err := s.nominators.Get(kicked.Owner)
	if err != nil {
		return err
	}
	if n == nil {
		return nil
	}
	n.RmNomination(candidate)
	if req, err := s.nominators.RequestFor(candidate, kicked.Owner); err != nil {
		return err
	} else if req != nil {
		if _, err := s.nominators.RemoveRequest(candidate, kicked.Owner); err != nil {
			return err
		}
		n.LessTotal = new(big.Int).Sub(n.LessTotal, req.Amount)
	}
	s.events.Record(NominationKicked{
		Nominator: kicked.Owner,
		Candidate: candidate,
		Unstaked:  new(big.Int).Set(kicked.Amount),
	})
	if len(n.Nominations) == 0 {
		s.nominators.Delete(kicked.Owner)
		s.events.Record(NominatorLeft{Nominator: kicked.Owner, Unstaked: kicked.Amount})
		return nil
	}
	return s.nominators.Set(kicked.Owner, n)
}

// BondExtra immediately locks more stake behind an existing position.
func (s *Staker) BondExtra(nominator, candidate avn.Address, more *big.Int) error {
	return s.atomic(func() error { return s.doBondExtra(nominator, candidate, more) })
}

func (s *Staker) doBondExtra(nominator, candidate avn.Address, more *big.Int) error {
	n, err := s.nominators.Get(nominator)
	if err != nil {
		return err
	}
	if n == nil {
		return reverts.ErrNominatorDNE
	}
	if more.Sign() <= 0 {
		return reverts.ErrNominationBelowMin
	}
	return s.bondExtra(nominator, candidate, n, more)
}

func (s *Staker) bondExtra(nominator, candidate avn.Address, n *nominators.Nominator, more *big.Int) error {
	bond := n.AmountOf(candidate)
	if bond == nil {
		return reverts.ErrNominationDNE
	}
	if req, err := s.nominators.RequestFor(candidate, nominator); err != nil {
		return err
	} else if req != nil && req.Action == nominators.ActionRevoke {
		return reverts.ErrPendingNominationRevoke
	}
	meta, err := s.candidates.Get(candidate)
	if err != nil {
		return err
	}
	if meta == nil {
		return reverts.ErrCandidateDNE
	}
	if err := s.withdraw(nominator, more); err != nil {
		return err
	}
	inTop, err := s.ledger.IncreaseNomination(candidate, meta, nominator, bond, more)
	if err != nil {
		return err
	}
	n.IncreaseNomination(candidate, more)
	if err := s.candidates.Set(candidate, meta); err != nil {
		return err
	}
	if err := s.nominators.Set(nominator, n); err != nil {
		return err
	}
	s.events.Record(NominationIncreased{
		Nominator: nominator,
		Candidate: candidate,
		Amount:    new(big.Int).Set(more),
		InTop:     inTop,
	})
	return nil
}

// BondExtraAll splits extra evenly over every existing position, the
// remainder going to the position indexed by the current block number.
func (s *Staker) BondExtraAll(nominator avn.Address, extra *big.Int) error {
	return s.atomic(func() error { return s.doBondExtraAll(nominator, extra) })
}

func (s *Staker) doBondExtraAll(nominator avn.Address, extra *big.Int) error {
	n, err := s.nominators.Get(nominator)
	if err != nil {
		return err
	}
	if n == nil {
		return reverts.ErrNominatorDNE
	}
	count := int64(len(n.Nominations))
	if count == 0 {
		return reverts.ErrNominationDNE
	}
	share, dust := new(big.Int).QuoRem(extra, big.NewInt(count), new(big.Int))
	if share.Sign() <= 0 {
		return reverts.ErrNominationBelowMin
	}
	dustIndex := int64(s.block) % count
	targets := make([]avn.Address, 0, count)
	for _, bond := range n.Nominations {
		targets = append(targets, bond.Owner)
	}
	for i, candidate := range targets {
		amount := new(big.Int).Set(share)
		if int64(i) == dustIndex {
			amount.Add(amount, dust)
		}
		if err := s.bondExtra(nominator, candidate, n, amount); err != nil {
			return err
		}
	}
	return nil
}

// SplitAndNominate divides amount over the target candidates, remainder
// to the target indexed by the current block number, topping up existing
// positions and opening new ones.
func (s *Staker) SplitAndNominate(nominator avn.Address, targets []avn.Address, amount *big.Int) error {
	return s.atomic(func() error { return s.doSplitAndNominate(nominator, targets, amount) })
}

func (s *Staker) doSplitAndNominate(nominator avn.Address, targets []avn.Address, amount *big.Int) error {
	count := int64(len(targets))
	if count == 0 {
		return reverts.ErrCandidateDNE
	}
	share, dust := new(big.Int).QuoRem(amount, big.NewInt(count), new(big.Int))
	if share.Cmp(MinNominationPerCollator) < 0 {
		return reverts.ErrNominationBelowMin
	}
	dustIndex := int64(s.block) % count
	for i, candidate := range targets {
		part := new(big.Int).Set(share)
		if int64(i) == dustIndex {
			part.Add(part, dust)
		}
		n, err := s.nominators.Get(nominator)
		if err != nil {
			return err
		}
		if n != nil && n.AmountOf(candidate) != nil {
			if err := s.bondExtra(nominator, candidate, n, part); err != nil {
				return err
			}
			continue
		}
		if err := s.doNominate(nominator, candidate, part); err != nil {
			return err
		}
	}
	return nil
}

// ScheduleRevokeNomination schedules closing the position behind
// candidate after the configured delay.
func (s *Staker) ScheduleRevokeNomination(nominator, candidate avn.Address) error {
	return s.atomic(func() error {
		n, err := s.nominators.Get(nominator)
		if err != nil {
			return err
		}
		if n == nil {
			return reverts.ErrNominatorDNE
		}
		return s.scheduleRevoke(nominator, candidate, n)
	})
}

func (s *Staker) scheduleRevoke(nominator, candidate avn.Address, n *nominators.Nominator) error {
	bond := n.AmountOf(candidate)
	if bond == nil {
		return reverts.ErrNominationDNE
	}
	now, err := s.currentEra()
	if err != nil {
		return err
	}
	delay, err := s.params.Delay()
	if err != nil {
		return err
	}
	when := now + delay
	if err := s.nominators.AddRequest(candidate, nominators.ScheduledRequest{
		Nominator:      nominator,
		WhenExecutable: when,
		Action:         nominators.ActionRevoke,
		Amount:         bond,
	}); err != nil {
		return err
	}
	n.LessTotal = new(big.Int).Add(n.LessTotal, bond)
	if err := s.nominators.Set(nominator, n); err != nil {
		return err
	}
	s.events.Record(NominationRevokeScheduled{
		Nominator:  nominator,
		Candidate:  candidate,
		Amount:     bond,
		ExecuteEra: when,
	})
	return nil
}

// ScheduleNominationDecrease schedules lowering the position behind
// candidate by less after the configured delay. The remaining net total
// and the remaining average per position must both stay above their
// floors.
func (s *Staker) ScheduleNominationDecrease(nominator, candidate avn.Address, less *big.Int) error {
	return s.atomic(func() error { return s.doScheduleNominationDecrease(nominator, candidate, less) })
}

func (s *Staker) doScheduleNominationDecrease(nominator, candidate avn.Address, less *big.Int) error {
	n, err := s.nominators.Get(nominator)
	if err != nil {
		return err
	}
	if n == nil {
		return reverts.ErrNominatorDNE
	}
	bond := n.AmountOf(candidate)
	if bond == nil {
		return reverts.ErrNominationDNE
	}
	if bond.Cmp(less) <= 0 {
		return reverts.ErrNominationBelowMin
	}
	remainingNet := new(big.Int).Sub(n.NetTotal(), less)
	min, err := s.params.MinTotalNominatorStake()
	if err != nil {
		return err
	}
	if remainingNet.Cmp(min) < 0 {
		return reverts.ErrNominatorBondBelowMin
	}
	count := int64(len(n.Nominations))
	average := new(big.Int).Quo(remainingNet, big.NewInt(count))
	if average.Cmp(MinNominationPerCollator) < 0 {
		return reverts.ErrNominationBelowMin
	}
	now, err := s.currentEra()
	if err != nil {
		return err
	}
	delay, err := s.params.Delay()
	if err != nil {
		return err
	}
	when := now + delay
	if err := s.nominators.AddRequest(candidate, nominators.ScheduledRequest{
		Nominator:      nominator,
		WhenExecutable: when,
		Action:         nominators.ActionDecrease,
		Amount:         new(big.Int).Set(less),
	}); err != nil {
		return err
	}
	n.LessTotal = new(big.Int).Add(n.LessTotal, less)
	if err := s.nominators.Set(nominator, n); err != nil {
		return err
	}
	s.events.Record(NominationDecreaseScheduled{
		Nominator:  nominator,
		Candidate:  candidate,
		Amount:     new(big.Int).Set(less),
		ExecuteEra: when,
	})
	return nil
}

// ScheduleNominatorUnbond withdraws amount spread over the positions,
// decreasing the largest ones so the remaining stake is level, and
// schedules the per-candidate decreases.
func (s *Staker) ScheduleNominatorUnbond(nominator avn.Address, amount *big.Int) error {
	return s.atomic(func() error { return s.doScheduleNominatorUnbond(nominator, amount) })
}

func (s *Staker) doScheduleNominatorUnbond(nominator avn.Address, amount *big.Int) error {
	n, err := s.nominators.Get(nominator)
	if err != nil {
		return err
	}
	if n == nil {
		return reverts.ErrNominatorDNE
	}
	remainingNet := new(big.Int).Sub(n.NetTotal(), amount)
	min, err := s.params.MinTotalNominatorStake()
	if err != nil {
		return err
	}
	if remainingNet.Cmp(min) < 0 {
		return reverts.ErrNominatorBondBelowMin
	}
	withdrawals, err := identifyCollatorsToWithdrawFrom(n, amount)
	if err != nil {
		return err
	}
	for _, w := range withdrawals {
		if err := s.doScheduleNominationDecrease(nominator, w.Owner, w.Amount); err != nil {
			return err
		}
		// re-read, the decrease persisted the record
		if n, err = s.nominators.Get(nominator); err != nil {
			return err
		}
	}
	return nil
}

// identifyCollatorsToWithdrawFrom levels the positions: every position
// above the post-withdrawal average gives up its excess, largest first,
// until the requested amount is covered.
func identifyCollatorsToWithdrawFrom(n *nominators.Nominator, amount *big.Int) (stake.List, error) {
	net := n.NetTotal()
	if net.Cmp(amount) < 0 {
		return nil, reverts.ErrFailedToWithdrawFullAmount
	}
	count := int64(len(n.Nominations))
	target := new(big.Int).Quo(new(big.Int).Sub(net, amount), big.NewInt(count))

	var plan stake.List
	remaining := new(big.Int).Set(amount)
	ordered := n.Nominations.Clone()
	sort.SliceStable(ordered, func(i, j int) bool {
		cmp := ordered[i].Amount.Cmp(ordered[j].Amount)
		if cmp != 0 {
			return cmp > 0
		}
		return ordered[i].Owner.Compare(ordered[j].Owner) < 0
	})
	for _, bond := range ordered {
		if remaining.Sign() == 0 {
			break
		}
		excess := new(big.Int).Sub(bond.Amount, target)
		if excess.Sign() <= 0 {
			continue
		}
		if excess.Cmp(remaining) > 0 {
			excess = new(big.Int).Set(remaining)
		}
		if bond.Amount.Cmp(excess) <= 0 {
			// a position cannot be fully closed by a decrease
			excess = new(big.Int).Sub(bond.Amount, MinNominationPerCollator)
			if excess.Sign() <= 0 {
				continue
			}
			if excess.Cmp(remaining) > 0 {
				excess = new(big.Int).Set(remaining)
			}
		}
		plan = append(plan, stake.NewBond(bond.Owner, excess))
		remaining.Sub(remaining, excess)
	}
	if remaining.Sign() != 0 {
		return nil, reverts.ErrFailedToWithdrawFullAmount
	}
	return plan, nil
}

// CancelNominationRequest discards the pending request against candidate.
func (s *Staker) CancelNominationRequest(nominator, candidate avn.Address) error {
	return s.atomic(func() error { return s.doCancelNominationRequest(nominator, candidate) })
}

func (s *Staker) doCancelNominationRequest(nominator, candidate avn.Address) error {
	n, err := s.nominators.Get(nominator)
	if err != nil {
		return err
	}
	if n == nil {
		return reverts.ErrNominatorDNE
	}
	removed, err := s.nominators.RemoveRequest(candidate, nominator)
	if err != nil {
		return err
	}
	n.LessTotal = new(big.Int).Sub(n.LessTotal, removed.Amount)
	if err := s.nominators.Set(nominator, n); err != nil {
		return err
	}
	s.events.Record(NominationRequestCancelled{Nominator: nominator, Candidate: candidate})
	return nil
}

// ExecuteNominationRequest applies the due request against candidate.
func (s *Staker) ExecuteNominationRequest(nominator, candidate avn.Address) error {
	return s.atomic(func() error { return s.doExecuteNominationRequest(nominator, candidate) })
}

func (s *Staker) doExecuteNominationRequest(nominator, candidate avn.Address) error {
	n, err := s.nominators.Get(nominator)
	if err != nil {
		return err
	}
	if n == nil {
		return reverts.ErrNominatorDNE
	}
	req, err := s.nominators.RequestFor(candidate, nominator)
	if err != nil {
		return err
	}
	if req == nil {
		return reverts.ErrPendingNominationRequestDNE
	}
	now, err := s.currentEra()
	if err != nil {
		return err
	}
	if !req.DueNow(now) {
		return reverts.ErrPendingNominationRequestNotDueYet
	}
	_, err = s.executeRequest(nominator, candidate, n, req)
	return err
}

// ExecuteAllNominationRequests applies every due request the backer has
// outstanding, across all candidates.
func (s *Staker) ExecuteAllNominationRequests(nominator avn.Address) error {
	return s.atomic(func() error { return s.doExecuteAllNominationRequests(nominator) })
}

func (s *Staker) doExecuteAllNominationRequests(nominator avn.Address) error {
	n, err := s.nominators.Get(nominator)
	if err != nil {
		return err
	}
	if n == nil {
		return reverts.ErrNominatorDNE
	}
	now, err := s.currentEra()
	if err != nil {
		return err
	}
	for _, bond := range n.Nominations.Clone() {
		req, err := s.nominators.RequestFor(bond.Owner, nominator)
		if err != nil {
			return err
		}
		if req == nil || !req.DueNow(now) {
			continue
		}
		gone, err := s.executeRequest(nominator, bond.Owner, n, req)
		if err != nil {
			return err
		}
		if gone {
			return nil
		}
		if n, err = s.nominators.Get(nominator); err != nil {
			return err
		}
	}
	return nil
}

// executeRequest applies one due request. It reports whether the backer
// record was deleted because its last position closed.
func (s *Staker) executeRequest(nominator, candidate avn.Address, n *nominators.Nominator, req *nominators.ScheduledRequest) (bool, error) {
	meta, err := s.candidates.Get(candidate)
	if err != nil {
		return false, err
	}
	if meta == nil {
		return false, reverts.ErrCandidateDNE
	}
	if _, err := s.nominators.RemoveRequest(candidate, nominator); err != nil {
		return false, err
	}
	n.LessTotal = new(big.Int).Sub(n.LessTotal, req.Amount)

	switch req.Action {
	case nominators.ActionRevoke:
		amount := n.AmountOf(candidate)
		if amount == nil {
			return false, reverts.ErrNominationDNE
		}
		if err := s.ledger.RemoveNomination(candidate, meta, nominator, amount); err != nil {
			return false, err
		}
		if err := s.refund(nominator, amount); err != nil {
			return false, err
		}
		n.RmNomination(candidate)
		if err := s.candidates.Set(candidate, meta); err != nil {
			return false, err
		}
		s.events.Record(NominationRevoked{
			Nominator: nominator,
			Candidate: candidate,
			Amount:    amount,
		})
		if len(n.Nominations) == 0 {
			s.nominators.Delete(nominator)
			s.events.Record(NominatorLeft{Nominator: nominator, Unstaked: amount})
			return true, nil
		}
		return false, s.nominators.Set(nominator, n)

	case nominators.ActionDecrease:
		bond := n.AmountOf(candidate)
		if bond == nil {
			return false, reverts.ErrNominationDNE
		}
		inTop, err := s.ledger.DecreaseNomination(candidate, meta, nominator, bond, req.Amount)
		if err != nil {
			return false, err
		}
		if err := s.refund(nominator, req.Amount); err != nil {
			return false, err
		}
		n.DecreaseNomination(candidate, req.Amount)
		if err := s.candidates.Set(candidate, meta); err != nil {
			return false, err
		}
		s.events.Record(NominationDecreased{
			Nominator: nominator,
			Candidate: candidate,
			Amount:    new(big.Int).Set(req.Amount),
			InTop:     inTop,
		})
		return false, s.nominators.Set(nominator, n)
	}
	return false, reverts.ErrPendingNominationRequestDNE
}

// ScheduleLeaveNominators schedules a full exit: one revoke per position.
// A position with a pending non-revoke request fails the whole call, no
// revoke is left behind.
func (s *Staker) ScheduleLeaveNominators(nominator avn.Address) error {
	return s.atomic(func() error { return s.doScheduleLeaveNominators(nominator) })
}

func (s *Staker) doScheduleLeaveNominators(nominator avn.Address) error {
	n, err := s.nominators.Get(nominator)
	if err != nil {
		return err
	}
	if n == nil {
		return reverts.ErrNominatorDNE
	}
	scheduled := false
	for _, bond := range n.Nominations.Clone() {
		req, err := s.nominators.RequestFor(bond.Owner, nominator)
		if err != nil {
			return err
		}
		if req != nil {
			if req.Action == nominators.ActionRevoke {
				continue
			}
			return reverts.ErrPendingNominationRequestAlreadyExist
		}
		if err := s.scheduleRevoke(nominator, bond.Owner, n); err != nil {
			return err
		}
		scheduled = true
		if n, err = s.nominators.Get(nominator); err != nil {
			return err
		}
	}
	if !scheduled {
		return reverts.ErrNominatorAlreadyLeaving
	}
	return nil
}

// CancelLeaveNominators discards the scheduled full exit.
func (s *Staker) CancelLeaveNominators(nominator avn.Address) error {
	return s.atomic(func() error { return s.doCancelLeaveNominators(nominator) })
}

func (s *Staker) doCancelLeaveNominators(nominator avn.Address) error {
	n, err := s.nominators.Get(nominator)
	if err != nil {
		return err
	}
	if n == nil {
		return reverts.ErrNominatorDNE
	}
	cancelled := false
	for _, bond := range n.Nominations {
		req, err := s.nominators.RequestFor(bond.Owner, nominator)
		if err != nil {
			return err
		}
		if req == nil || req.Action != nominators.ActionRevoke {
			continue
		}
		if _, err := s.nominators.RemoveRequest(bond.Owner, nominator); err != nil {
			return err
		}
		n.LessTotal = new(big.Int).Sub(n.LessTotal, req.Amount)
		cancelled = true
	}
	if !cancelled {
		return reverts.ErrNominatorNotLeaving
	}
	return s.nominators.Set(nominator, n)
}

// ExecuteLeaveNominators completes a due full exit, revoking every
// position.
func (s *Staker) ExecuteLeaveNominators(nominator avn.Address) error {
	return s.atomic(func() error { return s.doExecuteLeaveNominators(nominator) })
}

func (s *Staker) doExecuteLeaveNominators(nominator avn.Address) error {
	n, err := s.nominators.Get(nominator)
	if err != nil {
		return err
	}
	if n == nil {
		return reverts.ErrNominatorDNE
	}
	now, err := s.currentEra()
	if err != nil {
		return err
	}
	for _, bond := range n.Nominations {
		req, err := s.nominators.RequestFor(bond.Owner, nominator)
		if err != nil {
			return err
		}
		if req == nil || req.Action != nominators.ActionRevoke {
			return reverts.ErrNominatorNotLeaving
		}
		if !req.DueNow(now) {
			return reverts.ErrNominatorCannotLeaveYet
		}
	}
	for _, bond := range n.Nominations.Clone() {
		req, err := s.nominators.RequestFor(bond.Owner, nominator)
		if err != nil {
			return err
		}
		gone, err := s.executeRequest(nominator, bond.Owner, n, req)
		if err != nil {
			return err
		}
		if gone {
			return nil
		}
		if n, err = s.nominators.Get(nominator); err != nil {
			return err
		}
	}
	return nil
}
