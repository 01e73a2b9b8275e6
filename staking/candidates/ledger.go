// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package candidates

import (
	"math/big"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/reverts"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/stake"
)

// Ledger maintains the top/bottom nomination split for every candidate.
// Top entries count towards the candidate's selection weight, bottom
// entries are tracked but uncounted. Every top amount >= every bottom
// amount while both lists are non-empty.
type Ledger struct {
	storage   *Storage
	maxTop    uint32
	maxBottom uint32
}

func NewLedger(storage *Storage, maxTop, maxBottom uint32) *Ledger {
	return &Ledger{storage: storage, maxTop: maxTop, maxBottom: maxBottom}
}

// Added reports where a new nomination landed.
type Added struct {
	ToTop    bool
	NewTotal *big.Int // counted total after insertion, set when ToTop
}

// AddNomination places a new bond into the candidate's ledger.
// The returned kicked bond, if any, is a bottom position that was fully
// closed to make room; its stake must be returned by the caller, along
// with cancelling any request scheduled against it.
// The caller must ensure no nomination exists for this candidate in the
// nominator's state before the call.
func (l *Ledger) AddNomination(candidate avn.Address, meta *Candidate, nomination stake.Bond) (Added, *stake.Bond, error) {
	if meta.TopCapacity == stake.CapacityFull {
		// top is full, insert into top iff the lowest top < amount
		if meta.LowestTopAmount.Cmp(nomination.Amount) < 0 {
			// bumps the lowest top into the bottom inside this call
			kicked, err := l.addTopNomination(candidate, meta, nomination)
			if err != nil {
				return Added{}, nil, err
			}
			return Added{ToTop: true, NewTotal: new(big.Int).Set(meta.TotalCounted)}, kicked, nil
		}
		// if bottom is full, only insert if greater than the lowest
		// bottom, which will be bumped out
		if meta.BottomCapacity == stake.CapacityFull &&
			nomination.Amount.Cmp(meta.LowestBottomAmount) <= 0 {
			return Added{}, nil, reverts.ErrCannotNominateLessThanLowestBottom
		}
		kicked, err := l.addBottomNomination(false, candidate, meta, nomination)
		if err != nil {
			return Added{}, nil, err
		}
		return Added{ToTop: false}, kicked, nil
	}
	// top is either empty or partially full
	kicked, err := l.addTopNomination(candidate, meta, nomination)
	if err != nil {
		return Added{}, nil, err
	}
	return Added{ToTop: true, NewTotal: new(big.Int).Set(meta.TotalCounted)}, kicked, nil
}

// addTopNomination inserts into the top list, demoting the current lowest
// top entry into the bottom when the top is full.
// Only call if the lowest top nomination is less than the amount or the top is not full.
func (l *Ledger) addTopNomination(candidate avn.Address, meta *Candidate, nomination stake.Bond) (*stake.Bond, error) {
	top, err := l.storage.GetTop(candidate)
	if err != nil {
		return nil, err
	}
	var kicked *stake.Bond
	if len(top.Bonds) >= int(l.maxTop) {
		// demote the lowest top entry
		demoted := top.Bonds[len(top.Bonds)-1]
		top.Bonds = top.Bonds.RemoveAt(len(top.Bonds) - 1)
		top.Total = new(big.Int).Sub(top.Total, demoted.Amount)
		if kicked, err = l.addBottomNomination(true, candidate, meta, demoted); err != nil {
			return nil, err
		}
	}
	top.Bonds = top.Bonds.InsertSorted(nomination)
	top.Total = new(big.Int).Add(top.Total, nomination.Amount)
	if err := l.resetTopData(candidate, meta, &top); err != nil {
		return nil, err
	}
	if kicked == nil {
		// only count the nomination if no bottom entry was kicked
		meta.NominationCount++
	}
	return kicked, l.storage.SetTop(candidate, top)
}

// addBottomNomination inserts into the bottom list, fully evicting the
// lowest bottom entry when the bottom is full. The caller must have
// ensured the evicted amount is below the inserted one; on equal amounts
// the resident entry is still kicked, first come first served.
func (l *Ledger) addBottomNomination(bumpedFromTop bool, candidate avn.Address, meta *Candidate, nomination stake.Bond) (*stake.Bond, error) {
	bottom, err := l.storage.GetBottom(candidate)
	if err != nil {
		return nil, err
	}
	var kicked *stake.Bond
	increaseCount := !bumpedFromTop
	if len(bottom.Bonds) >= int(l.maxBottom) {
		lowest := bottom.Bonds[len(bottom.Bonds)-1]
		bottom.Bonds = bottom.Bonds.RemoveAt(len(bottom.Bonds) - 1)
		bottom.Total = new(big.Int).Sub(bottom.Total, lowest.Amount)
		kicked = &lowest
		increaseCount = false
	}
	if increaseCount {
		meta.NominationCount++
	}
	bottom.Bonds = bottom.Bonds.InsertSorted(nomination)
	bottom.Total = new(big.Int).Add(bottom.Total, nomination.Amount)
	l.resetBottomData(meta, &bottom)
	return kicked, l.storage.SetBottom(candidate, bottom)
}

// RemoveNomination deletes the nominator's position from whichever list
// holds it, promoting the highest bottom entry when a top slot opens.
func (l *Ledger) RemoveNomination(candidate avn.Address, meta *Candidate, nominator avn.Address, amount *big.Int) error {
	amountGeqLowestTop := amount.Cmp(meta.LowestTopAmount) >= 0
	topNotFull := meta.TopCapacity != stake.CapacityFull
	lowestTopEqHighestBottom := meta.LowestTopAmount.Cmp(meta.HighestBottomAmount) == 0

	if topNotFull || (amountGeqLowestTop && !lowestTopEqHighestBottom) {
		return l.rmTopNomination(candidate, meta, nominator)
	}
	if amountGeqLowestTop && lowestTopEqHighestBottom {
		// could be in either list when amounts collide, try top first
		if err := l.rmTopNomination(candidate, meta, nominator); err != reverts.ErrNominationDNE {
			return err
		}
		return l.rmBottomNomination(candidate, meta, nominator)
	}
	return l.rmBottomNomination(candidate, meta, nominator)
}

func (l *Ledger) rmTopNomination(candidate avn.Address, meta *Candidate, nominator avn.Address) error {
	top, err := l.storage.GetTop(candidate)
	if err != nil {
		return err
	}
	bonds, removed, found := top.Bonds.Remove(nominator)
	if !found {
		return reverts.ErrNominationDNE
	}
	top.Bonds = bonds
	top.Total = new(big.Int).Sub(top.Total, removed.Amount)

	if meta.BottomCapacity != stake.CapacityEmpty {
		// promote the highest bottom entry into the freed top slot
		bottom, err := l.storage.GetBottom(candidate)
		if err != nil {
			return err
		}
		promoted := bottom.Bonds[0]
		bottom.Bonds = bottom.Bonds.RemoveAt(0)
		bottom.Total = new(big.Int).Sub(bottom.Total, promoted.Amount)
		l.resetBottomData(meta, &bottom)
		if err := l.storage.SetBottom(candidate, bottom); err != nil {
			return err
		}
		top.Bonds = top.Bonds.InsertSorted(promoted)
		top.Total = new(big.Int).Add(top.Total, promoted.Amount)
	}
	if err := l.resetTopData(candidate, meta, &top); err != nil {
		return err
	}
	meta.NominationCount--
	return l.storage.SetTop(candidate, top)
}

func (l *Ledger) rmBottomNomination(candidate avn.Address, meta *Candidate, nominator avn.Address) error {
	bottom, err := l.storage.GetBottom(candidate)
	if err != nil {
		return err
	}
	bonds, removed, found := bottom.Bonds.Remove(nominator)
	if !found {
		return reverts.ErrNominationDNE
	}
	bottom.Bonds = bonds
	bottom.Total = new(big.Int).Sub(bottom.Total, removed.Amount)
	l.resetBottomData(meta, &bottom)
	meta.NominationCount--
	return l.storage.SetBottom(candidate, bottom)
}

// IncreaseNomination raises an existing position by more, promoting it
// from bottom to top when the new amount outranks the lowest top entry.
// It reports whether the position ends up counted in the top.
func (l *Ledger) IncreaseNomination(candidate avn.Address, meta *Candidate, nominator avn.Address, bond, more *big.Int) (bool, error) {
	lowestTopEqHighestBottom := meta.LowestTopAmount.Cmp(meta.HighestBottomAmount) == 0
	bondGeqLowestTop := bond.Cmp(meta.LowestTopAmount) >= 0

	if bondGeqLowestTop && !lowestTopEqHighestBottom {
		// definitely in top
		return l.increaseTopNomination(candidate, meta, nominator, more)
	}
	if bondGeqLowestTop && lowestTopEqHighestBottom {
		inTop, err := l.increaseTopNomination(candidate, meta, nominator, more)
		if err != reverts.ErrNominationDNE {
			return inTop, err
		}
	}
	return l.increaseBottomNomination(candidate, meta, nominator, bond, more)
}

func (l *Ledger) increaseTopNomination(candidate avn.Address, meta *Candidate, nominator avn.Address, more *big.Int) (bool, error) {
	top, err := l.storage.GetTop(candidate)
	if err != nil {
		return false, err
	}
	i := top.Bonds.IndexOf(nominator)
	if i < 0 {
		return false, reverts.ErrNominationDNE
	}
	grown := stake.NewBond(nominator, new(big.Int).Add(top.Bonds[i].Amount, more))
	top.Bonds = top.Bonds.RemoveAt(i).InsertSorted(grown)
	top.Total = new(big.Int).Add(top.Total, more)
	if err := l.resetTopData(candidate, meta, &top); err != nil {
		return false, err
	}
	return true, l.storage.SetTop(candidate, top)
}

func (l *Ledger) increaseBottomNomination(candidate avn.Address, meta *Candidate, nominator avn.Address, bond, more *big.Int) (bool, error) {
	bottom, err := l.storage.GetBottom(candidate)
	if err != nil {
		return false, err
	}
	i := bottom.Bonds.IndexOf(nominator)
	if i < 0 {
		return false, reverts.ErrNominationDNE
	}
	newAmount := new(big.Int).Add(bond, more)
	if newAmount.Cmp(meta.LowestTopAmount) > 0 {
		// bump it from bottom into top
		bottom.Bonds = bottom.Bonds.RemoveAt(i)
		bottom.Total = new(big.Int).Sub(bottom.Total, bond)

		top, err := l.storage.GetTop(candidate)
		if err != nil {
			return false, err
		}
		if len(top.Bonds) >= int(l.maxTop) {
			// demote the lowest top entry back into bottom
			demoted := top.Bonds[len(top.Bonds)-1]
			top.Bonds = top.Bonds.RemoveAt(len(top.Bonds) - 1)
			top.Total = new(big.Int).Sub(top.Total, demoted.Amount)
			bottom.Bonds = bottom.Bonds.InsertSorted(demoted)
			bottom.Total = new(big.Int).Add(bottom.Total, demoted.Amount)
		}
		top.Bonds = top.Bonds.InsertSorted(stake.NewBond(nominator, newAmount))
		top.Total = new(big.Int).Add(top.Total, newAmount)
		if err := l.resetTopData(candidate, meta, &top); err != nil {
			return false, err
		}
		if err := l.storage.SetTop(candidate, top); err != nil {
			return false, err
		}
		l.resetBottomData(meta, &bottom)
		return true, l.storage.SetBottom(candidate, bottom)
	}
	// stays in bottom
	grown := stake.NewBond(nominator, newAmount)
	bottom.Bonds = bottom.Bonds.RemoveAt(i).InsertSorted(grown)
	bottom.Total = new(big.Int).Add(bottom.Total, more)
	l.resetBottomData(meta, &bottom)
	return false, l.storage.SetBottom(candidate, bottom)
}

// DecreaseNomination lowers an existing position by less, demoting it
// from top to bottom when it falls under the highest bottom entry.
// It reports whether the position ends up counted in the top.
func (l *Ledger) DecreaseNomination(candidate avn.Address, meta *Candidate, nominator avn.Address, bond, less *big.Int) (bool, error) {
	lowestTopEqHighestBottom := meta.LowestTopAmount.Cmp(meta.HighestBottomAmount) == 0
	bondGeqLowestTop := bond.Cmp(meta.LowestTopAmount) >= 0

	if bondGeqLowestTop && !lowestTopEqHighestBottom {
		// definitely in top
		return l.decreaseTopNomination(candidate, meta, nominator, bond, less)
	}
	if bondGeqLowestTop && lowestTopEqHighestBottom {
		inTop, err := l.decreaseTopNomination(candidate, meta, nominator, bond, less)
		if err != reverts.ErrNominationDNE {
			return inTop, err
		}
	}
	return l.decreaseBottomNomination(candidate, meta, nominator, less)
}

func (l *Ledger) decreaseTopNomination(candidate avn.Address, meta *Candidate, nominator avn.Address, bond, less *big.Int) (bool, error) {
	newAmount := new(big.Int).Sub(bond, less)
	demotes := newAmount.Cmp(meta.HighestBottomAmount) < 0 &&
		meta.TopCapacity == stake.CapacityFull &&
		meta.BottomCapacity != stake.CapacityEmpty

	top, err := l.storage.GetTop(candidate)
	if err != nil {
		return false, err
	}
	i := top.Bonds.IndexOf(nominator)
	if i < 0 {
		return false, reverts.ErrNominationDNE
	}
	var inTopAfter bool
	if demotes {
		// swap with the highest bottom entry
		old := top.Bonds[i]
		top.Bonds = top.Bonds.RemoveAt(i)
		top.Total = new(big.Int).Sub(top.Total, old.Amount)

		bottom, err := l.storage.GetBottom(candidate)
		if err != nil {
			return false, err
		}
		promoted := bottom.Bonds[0]
		bottom.Bonds = bottom.Bonds.RemoveAt(0)
		bottom.Total = new(big.Int).Sub(bottom.Total, promoted.Amount)
		top.Bonds = top.Bonds.InsertSorted(promoted)
		top.Total = new(big.Int).Add(top.Total, promoted.Amount)
		bottom.Bonds = bottom.Bonds.InsertSorted(stake.NewBond(nominator, newAmount))
		bottom.Total = new(big.Int).Add(bottom.Total, newAmount)
		l.resetBottomData(meta, &bottom)
		if err := l.storage.SetBottom(candidate, bottom); err != nil {
			return false, err
		}
	} else {
		shrunk := stake.NewBond(nominator, newAmount)
		top.Bonds = top.Bonds.RemoveAt(i).InsertSorted(shrunk)
		top.Total = new(big.Int).Sub(top.Total, less)
		inTopAfter = true
	}
	if err := l.resetTopData(candidate, meta, &top); err != nil {
		return false, err
	}
	return inTopAfter, l.storage.SetTop(candidate, top)
}

func (l *Ledger) decreaseBottomNomination(candidate avn.Address, meta *Candidate, nominator avn.Address, less *big.Int) (bool, error) {
	bottom, err := l.storage.GetBottom(candidate)
	if err != nil {
		return false, err
	}
	i := bottom.Bonds.IndexOf(nominator)
	if i < 0 {
		return false, reverts.ErrNominationDNE
	}
	shrunk := stake.NewBond(nominator, new(big.Int).Sub(bottom.Bonds[i].Amount, less))
	bottom.Bonds = bottom.Bonds.RemoveAt(i).InsertSorted(shrunk)
	bottom.Total = new(big.Int).Sub(bottom.Total, less)
	l.resetBottomData(meta, &bottom)
	return false, l.storage.SetBottom(candidate, bottom)
}

// resetTopData refreshes the counted metadata after a top list change and
// propagates the new counted total into the candidate pool when active.
func (l *Ledger) resetTopData(candidate avn.Address, meta *Candidate, top *Nominations) error {
	meta.LowestTopAmount = top.Bonds.Lowest()
	meta.TopCapacity = top.Capacity(l.maxTop)
	oldTotal := meta.TotalCounted
	meta.TotalCounted = new(big.Int).Add(meta.Bond, top.Total)
	if oldTotal.Cmp(meta.TotalCounted) != 0 && meta.IsActive() {
		return l.storage.UpdateActive(candidate, meta.TotalCounted)
	}
	return nil
}

func (l *Ledger) resetBottomData(meta *Candidate, bottom *Nominations) {
	meta.LowestBottomAmount = bottom.Bonds.Lowest()
	meta.HighestBottomAmount = bottom.Bonds.Highest()
	meta.BottomCapacity = bottom.Capacity(l.maxBottom)
}
