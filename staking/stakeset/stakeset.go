// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stakeset holds the global candidate pool, a capacity bounded
// set of bonds kept in insertion order.
package stakeset

import (
	"math/big"
	"sort"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/stake"
)

// OrderedStakeSet is an insertion ordered set of bonds with a fixed capacity.
// Insertion into a full set is rejected outright, there is no eviction.
type OrderedStakeSet struct {
	Entries  stake.List
	Capacity uint32
}

func New(capacity uint32) *OrderedStakeSet {
	return &OrderedStakeSet{Capacity: capacity}
}

// Contains returns whether owner has an entry.
func (s *OrderedStakeSet) Contains(owner avn.Address) bool {
	return s.Entries.IndexOf(owner) >= 0
}

// AmountOf returns owner's bonded amount, nil if absent.
func (s *OrderedStakeSet) AmountOf(owner avn.Address) *big.Int {
	i := s.Entries.IndexOf(owner)
	if i < 0 {
		return nil
	}
	return new(big.Int).Set(s.Entries[i].Amount)
}

// TryInsert appends a new entry. It returns false when the set is at
// capacity. Inserting an existing owner updates its amount instead.
func (s *OrderedStakeSet) TryInsert(owner avn.Address, amount *big.Int) bool {
	if i := s.Entries.IndexOf(owner); i >= 0 {
		s.Entries[i].Amount = new(big.Int).Set(amount)
		return true
	}
	if len(s.Entries) >= int(s.Capacity) {
		return false
	}
	s.Entries = append(s.Entries, stake.NewBond(owner, amount))
	return true
}

// Remove removes owner's entry. It is idempotent and reports whether
// an entry was present.
func (s *OrderedStakeSet) Remove(owner avn.Address) bool {
	var removed bool
	s.Entries, _, removed = s.Entries.Remove(owner)
	return removed
}

// Len returns the number of entries.
func (s *OrderedStakeSet) Len() int {
	return len(s.Entries)
}

// SortedByAmount returns the entries ordered by amount descending,
// ties broken by account ascending. The set itself is left untouched.
func (s *OrderedStakeSet) SortedByAmount() stake.List {
	sorted := s.Entries.Clone()
	sort.SliceStable(sorted, func(i, j int) bool {
		cmp := sorted[i].Amount.Cmp(sorted[j].Amount)
		if cmp != 0 {
			return cmp > 0
		}
		return sorted[i].Owner.Compare(sorted[j].Owner) < 0
	})
	return sorted
}
