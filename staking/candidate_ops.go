// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/candidates"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/reverts"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/stakeset"
)

func (s *Staker) pool() (*stakeset.OrderedStakeSet, error) {
	entries, err := s.candidates.GetPool()
	if err != nil {
		return nil, err
	}
	return &stakeset.OrderedStakeSet{Entries: entries, Capacity: MaxCandidates}, nil
}

func (s *Staker) savePool(pool *stakeset.OrderedStakeSet) error {
	return s.candidates.SetPool(pool.Entries)
}

func (s *Staker) currentEra() (uint32, error) {
	info, err := s.eras.GetEra()
	if err != nil {
		return 0, err
	}
	return info.Current, nil
}

// JoinCandidates registers account as a collator candidate, locking bond
// as its self-stake.
func (s *Staker) JoinCandidates(account avn.Address, bond *big.Int) error {
	return s.atomic(func() error { return s.doJoinCandidates(account, bond) })
}

func (s *Staker) doJoinCandidates(account avn.Address, bond *big.Int) error {
	hasKeys, err := s.keys.HasSessionKeys(account)
	if err != nil {
		return err
	}
	if !hasKeys {
		return reverts.ErrCandidateSessionKeysNotFound
	}
	if has, err := s.candidates.Has(account); err != nil {
		return err
	} else if has {
		return reverts.ErrCandidateExists
	}
	if has, err := s.nominators.Has(account); err != nil {
		return err
	} else if has {
		return reverts.ErrNominatorExists
	}
	min, err := s.params.MinCollatorStake()
	if err != nil {
		return err
	}
	if bond.Cmp(min) < 0 {
		return reverts.ErrCandidateBondBelowMin
	}
	pool, err := s.pool()
	if err != nil {
		return err
	}
	if !pool.TryInsert(account, bond) {
		return reverts.ErrCandidateLimitReached
	}
	if err := s.withdraw(account, bond); err != nil {
		return err
	}
	if err := s.candidates.Set(account, candidates.NewCandidate(bond)); err != nil {
		return err
	}
	if err := s.savePool(pool); err != nil {
		return err
	}
	s.events.Record(CandidateJoined{
		Account:     account,
		Bond:        new(big.Int).Set(bond),
		TotalBonded: pool.Entries.Total(),
	})
	return nil
}

// CandidateBondExtra immediately locks more self-stake for candidate.
func (s *Staker) CandidateBondExtra(candidate avn.Address, more *big.Int) error {
	return s.atomic(func() error { return s.doCandidateBondExtra(candidate, more) })
}

func (s *Staker) doCandidateBondExtra(candidate avn.Address, more *big.Int) error {
	meta, err := s.candidates.Get(candidate)
	if err != nil {
		return err
	}
	if meta == nil {
		return reverts.ErrCandidateDNE
	}
	if more.Sign() <= 0 {
		return reverts.ErrCandidateBondBelowMin
	}
	if err := s.withdraw(candidate, more); err != nil {
		return err
	}
	meta.Bond = new(big.Int).Add(meta.Bond, more)
	meta.TotalCounted = new(big.Int).Add(meta.TotalCounted, more)
	if meta.IsActive() {
		if err := s.candidates.UpdateActive(candidate, meta.TotalCounted); err != nil {
			return err
		}
	}
	if err := s.candidates.Set(candidate, meta); err != nil {
		return err
	}
	s.events.Record(CandidateBondedMore{
		Candidate: candidate,
		Amount:    new(big.Int).Set(more),
		NewBond:   new(big.Int).Set(meta.Bond),
	})
	return nil
}

// ScheduleCandidateBondLess schedules a self-stake decrease, executable
// after the configured delay.
func (s *Staker) ScheduleCandidateBondLess(candidate avn.Address, less *big.Int) error {
	return s.atomic(func() error { return s.doScheduleCandidateBondLess(candidate, less) })
}

func (s *Staker) doScheduleCandidateBondLess(candidate avn.Address, less *big.Int) error {
	meta, err := s.candidates.Get(candidate)
	if err != nil {
		return err
	}
	if meta == nil {
		return reverts.ErrCandidateDNE
	}
	if meta.Request != nil {
		return reverts.ErrPendingCandidateRequestAlreadyExist
	}
	min, err := s.params.MinCollatorStake()
	if err != nil {
		return err
	}
	if new(big.Int).Sub(meta.Bond, less).Cmp(min) < 0 {
		return reverts.ErrCandidateBondBelowMin
	}
	now, err := s.currentEra()
	if err != nil {
		return err
	}
	delay, err := s.params.Delay()
	if err != nil {
		return err
	}
	meta.Request = &candidates.BondLessRequest{
		Amount:         new(big.Int).Set(less),
		WhenExecutable: now + delay,
	}
	if err := s.candidates.Set(candidate, meta); err != nil {
		return err
	}
	s.events.Record(CandidateBondLessScheduled{
		Candidate:  candidate,
		Amount:     new(big.Int).Set(less),
		ExecuteEra: meta.Request.WhenExecutable,
	})
	return nil
}

// ExecuteCandidateBondLess applies a due self-stake decrease and unlocks
// the funds.
func (s *Staker) ExecuteCandidateBondLess(candidate avn.Address) error {
	return s.atomic(func() error { return s.doExecuteCandidateBondLess(candidate) })
}

func (s *Staker) doExecuteCandidateBondLess(candidate avn.Address) error {
	meta, err := s.candidates.Get(candidate)
	if err != nil {
		return err
	}
	if meta == nil {
		return reverts.ErrCandidateDNE
	}
	if meta.Request == nil {
		return reverts.ErrPendingCandidateRequestDNE
	}
	now, err := s.currentEra()
	if err != nil {
		return err
	}
	if meta.Request.WhenExecutable > now {
		return reverts.ErrPendingCandidateRequestNotDueYet
	}
	less := meta.Request.Amount
	if err := s.refund(candidate, less); err != nil {
		return err
	}
	meta.Bond = new(big.Int).Sub(meta.Bond, less)
	meta.TotalCounted = new(big.Int).Sub(meta.TotalCounted, less)
	meta.Request = nil
	if meta.IsActive() {
		if err := s.candidates.UpdateActive(candidate, meta.TotalCounted); err != nil {
			return err
		}
	}
	if err := s.candidates.Set(candidate, meta); err != nil {
		return err
	}
	s.events.Record(CandidateBondedLess{
		Candidate: candidate,
		Amount:    new(big.Int).Set(less),
		NewBond:   new(big.Int).Set(meta.Bond),
	})
	return nil
}

// CancelCandidateBondLess discards a pending self-stake decrease.
func (s *Staker) CancelCandidateBondLess(candidate avn.Address) error {
	return s.atomic(func() error { return s.doCancelCandidateBondLess(candidate) })
}

func (s *Staker) doCancelCandidateBondLess(candidate avn.Address) error {
	meta, err := s.candidates.Get(candidate)
	if err != nil {
		return err
	}
	if meta == nil {
		return reverts.ErrCandidateDNE
	}
	if meta.Request == nil {
		return reverts.ErrPendingCandidateRequestDNE
	}
	meta.Request = nil
	return s.candidates.Set(candidate, meta)
}

// GoOffline takes an active candidate out of the selectable pool without
// unbonding anything.
func (s *Staker) GoOffline(candidate avn.Address) error {
	return s.atomic(func() error { return s.doGoOffline(candidate) })
}

func (s *Staker) doGoOffline(candidate avn.Address) error {
	meta, err := s.candidates.Get(candidate)
	if err != nil {
		return err
	}
	if meta == nil {
		return reverts.ErrCandidateDNE
	}
	if !meta.IsActive() {
		return reverts.ErrAlreadyOffline
	}
	meta.Status = candidates.StatusIdle
	pool, err := s.pool()
	if err != nil {
		return err
	}
	pool.Remove(candidate)
	if err := s.savePool(pool); err != nil {
		return err
	}
	if err := s.candidates.Set(candidate, meta); err != nil {
		return err
	}
	s.events.Record(CandidateWentOffline{Candidate: candidate})
	return nil
}

// GoOnline returns an idle candidate to the selectable pool.
func (s *Staker) GoOnline(candidate avn.Address) error {
	return s.atomic(func() error { return s.doGoOnline(candidate) })
}

func (s *Staker) doGoOnline(candidate avn.Address) error {
	meta, err := s.candidates.Get(candidate)
	if err != nil {
		return err
	}
	if meta == nil {
		return reverts.ErrCandidateDNE
	}
	if meta.IsActive() {
		return reverts.ErrAlreadyActive
	}
	if meta.IsLeaving() {
		return reverts.ErrCannotGoOnlineIfLeaving
	}
	pool, err := s.pool()
	if err != nil {
		return err
	}
	if !pool.TryInsert(candidate, meta.TotalCounted) {
		return reverts.ErrCandidateLimitReached
	}
	meta.Status = candidates.StatusActive
	if err := s.savePool(pool); err != nil {
		return err
	}
	if err := s.candidates.Set(candidate, meta); err != nil {
		return err
	}
	s.events.Record(CandidateBackOnline{Candidate: candidate})
	return nil
}

// ScheduleLeaveCandidates marks candidate for departure after the delay.
// It leaves the selectable pool immediately.
func (s *Staker) ScheduleLeaveCandidates(candidate avn.Address) error {
	return s.atomic(func() error { return s.doScheduleLeaveCandidates(candidate) })
}

func (s *Staker) doScheduleLeaveCandidates(candidate avn.Address) error {
	meta, err := s.candidates.Get(candidate)
	if err != nil {
		return err
	}
	if meta == nil {
		return reverts.ErrCandidateDNE
	}
	if meta.IsLeaving() {
		return reverts.ErrCandidateAlreadyLeaving
	}
	now, err := s.currentEra()
	if err != nil {
		return err
	}
	delay, err := s.params.Delay()
	if err != nil {
		return err
	}
	meta.Status = candidates.StatusLeaving
	meta.LeavingEra = now + delay
	pool, err := s.pool()
	if err != nil {
		return err
	}
	pool.Remove(candidate)
	if err := s.savePool(pool); err != nil {
		return err
	}
	if err := s.candidates.Set(candidate, meta); err != nil {
		return err
	}
	s.events.Record(CandidateLeaveScheduled{Candidate: candidate, ExitEra: meta.LeavingEra})
	return nil
}

// CancelLeaveCandidates aborts a scheduled departure and rejoins the pool.
func (s *Staker) CancelLeaveCandidates(candidate avn.Address) error {
	return s.atomic(func() error { return s.doCancelLeaveCandidates(candidate) })
}

func (s *Staker) doCancelLeaveCandidates(candidate avn.Address) error {
	meta, err := s.candidates.Get(candidate)
	if err != nil {
		return err
	}
	if meta == nil {
		return reverts.ErrCandidateDNE
	}
	if !meta.IsLeaving() {
		return reverts.ErrCandidateNotLeaving
	}
	pool, err := s.pool()
	if err != nil {
		return err
	}
	if !pool.TryInsert(candidate, meta.TotalCounted) {
		return reverts.ErrCandidateLimitReached
	}
	meta.Status = candidates.StatusActive
	meta.LeavingEra = 0
	if err := s.savePool(pool); err != nil {
		return err
	}
	if err := s.candidates.Set(candidate, meta); err != nil {
		return err
	}
	s.events.Record(CandidateLeaveCancelled{Candidate: candidate})
	return nil
}

// ExecuteLeaveCandidates completes a due departure: the self-bond and
// every nomination are unlocked, backer records are trimmed, and the
// candidate's ledger is torn down.
func (s *Staker) ExecuteLeaveCandidates(candidate avn.Address) error {
	return s.atomic(func() error { return s.doExecuteLeaveCandidates(candidate) })
}

func (s *Staker) doExecuteLeaveCandidates(candidate avn.Address) error {
	meta, err := s.candidates.Get(candidate)
	if err != nil {
		return err
	}
	if meta == nil {
		return reverts.ErrCandidateDNE
	}
	if !meta.IsLeaving() {
		return reverts.ErrCandidateNotLeaving
	}
	now, err := s.currentEra()
	if err != nil {
		return err
	}
	if !meta.CanLeave(now) {
		return reverts.ErrCandidateCannotLeaveYet
	}

	top, err := s.candidates.GetTop(candidate)
	if err != nil {
		return err
	}
	bottom, err := s.candidates.GetBottom(candidate)
	if err != nil {
		return err
	}
	for _, bond := range append(top.Bonds.Clone(), bottom.Bonds...) {
		if err := s.returnNomination(candidate, bond.Owner, bond.Amount); err != nil {
			return err
		}
	}
	s.nominators.DeleteRequests(candidate)

	if err := s.refund(candidate, meta.Bond); err != nil {
		return err
	}
	unlocked := new(big.Int).Add(meta.Bond, new(big.Int).Add(top.Total, bottom.Total))
	s.candidates.Delete(candidate)
	s.events.Record(CandidateLeft{Candidate: candidate, Unlocked: unlocked})
	return nil
}

// returnNomination unlocks one backer position during a candidate's exit,
// removing the backer record entirely when it was the last position.
func (s *Staker) returnNomination(candidate, nominator avn.Address, amount *big.Int) error {
	if err := s.refund(nominator, amount); err != nil {
		return err
	}
	n, err := s.nominators.Get(nominator)
	if err != nil {
		return err
	}
	if n == nil {
		return nil
	}
	if _, ok := n.RmNomination(candidate); !ok {
		return nil
	}
	if req, err := s.nominators.RequestFor(candidate, nominator); err != nil {
		return err
	} else if req != nil {
		if _, err := s.nominators.RemoveRequest(candidate, nominator); err != nil {
			return err
		}
		n.LessTotal = new(big.Int).Sub(n.LessTotal, req.Amount)
	}
	if len(n.Nominations) == 0 {
		s.nominators.Delete(nominator)
		s.events.Record(NominatorLeft{Nominator: nominator, Unstaked: amount})
		return nil
	}
	return s.nominators.Set(nominator, n)
}
