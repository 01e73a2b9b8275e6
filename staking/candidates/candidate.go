// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package candidates keeps collator candidate records and the per-candidate
// top/bottom nomination ledger.
package candidates

import (
	"math/big"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/stake"
)

type Status = uint8

const (
	StatusActive  = Status(iota) // in the pool, eligible for selection
	StatusIdle                   // voluntarily offline
	StatusLeaving                // scheduled to depart at LeavingEra
)

// BondLessRequest is a pending self-bond decrease.
type BondLessRequest struct {
	Amount         *big.Int
	WhenExecutable uint32
}

// Candidate is the per-collator metadata record.
type Candidate struct {
	Bond                *big.Int
	NominationCount     uint32
	TotalCounted        *big.Int // bond + sum of top nominations
	LowestTopAmount     *big.Int
	HighestBottomAmount *big.Int
	LowestBottomAmount  *big.Int
	TopCapacity         stake.CapacityStatus
	BottomCapacity      stake.CapacityStatus
	Request             *BondLessRequest `rlp:"nil"`
	Status              Status
	LeavingEra          uint32
}

// NewCandidate returns a fresh active candidate with the given self-bond.
func NewCandidate(bond *big.Int) *Candidate {
	return &Candidate{
		Bond:                new(big.Int).Set(bond),
		TotalCounted:        new(big.Int).Set(bond),
		LowestTopAmount:     new(big.Int),
		HighestBottomAmount: new(big.Int),
		LowestBottomAmount:  new(big.Int),
		Status:              StatusActive,
	}
}

func (c *Candidate) IsActive() bool {
	return c.Status == StatusActive
}

func (c *Candidate) IsLeaving() bool {
	return c.Status == StatusLeaving
}

// CanLeave reports whether a scheduled leave is executable at era now.
func (c *Candidate) CanLeave(now uint32) bool {
	return c.IsLeaving() && c.LeavingEra <= now
}

// Nominations is a bounded bond list with its running total, one per
// candidate for each of the top and bottom lists.
type Nominations struct {
	Bonds stake.List
	Total *big.Int
}

func NewNominations() Nominations {
	return Nominations{Total: new(big.Int)}
}

// Insert adds a bond keeping greatest-to-least order.
func (n *Nominations) Insert(bond stake.Bond) {
	n.Bonds = n.Bonds.InsertSorted(bond)
	n.Total = new(big.Int).Add(n.Total, bond.Amount)
}

// Capacity returns the list's capacity status against the given bound.
func (n *Nominations) Capacity(bound uint32) stake.CapacityStatus {
	return stake.CapacityOf(len(n.Bonds), bound)
}
