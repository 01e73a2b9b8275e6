// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package nominators keeps backer records and their scheduled
// bond-change requests.
package nominators

import (
	"math/big"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/stake"
)

// Nominator is the per-backer record: its positions in nomination order,
// the bonded total and the total already committed to pending decreases
// and revokes.
type Nominator struct {
	Nominations stake.List
	Total       *big.Int
	LessTotal   *big.Int
}

// NewNominator returns a backer with one initial position.
func NewNominator(candidate avn.Address, amount *big.Int) *Nominator {
	return &Nominator{
		Nominations: stake.List{stake.NewBond(candidate, amount)},
		Total:       new(big.Int).Set(amount),
		LessTotal:   new(big.Int),
	}
}

// NetTotal is the bonded total minus everything pending exit.
func (n *Nominator) NetTotal() *big.Int {
	return new(big.Int).Sub(n.Total, n.LessTotal)
}

// AmountOf returns the position amount for candidate, nil if absent.
func (n *Nominator) AmountOf(candidate avn.Address) *big.Int {
	i := n.Nominations.IndexOf(candidate)
	if i < 0 {
		return nil
	}
	return new(big.Int).Set(n.Nominations[i].Amount)
}

// AddNomination appends a position. It returns false when the candidate
// is already nominated.
func (n *Nominator) AddNomination(candidate avn.Address, amount *big.Int) bool {
	if n.Nominations.IndexOf(candidate) >= 0 {
		return false
	}
	n.Nominations = append(n.Nominations, stake.NewBond(candidate, amount))
	n.Total = new(big.Int).Add(n.Total, amount)
	return true
}

// RmNomination removes the position for candidate, returning the amount
// that was bonded to it.
func (n *Nominator) RmNomination(candidate avn.Address) (*big.Int, bool) {
	bonds, removed, found := n.Nominations.Remove(candidate)
	if !found {
		return nil, false
	}
	n.Nominations = bonds
	n.Total = new(big.Int).Sub(n.Total, removed.Amount)
	return removed.Amount, true
}

// IncreaseNomination raises the position for candidate by more.
func (n *Nominator) IncreaseNomination(candidate avn.Address, more *big.Int) bool {
	i := n.Nominations.IndexOf(candidate)
	if i < 0 {
		return false
	}
	n.Nominations[i].Amount = new(big.Int).Add(n.Nominations[i].Amount, more)
	n.Total = new(big.Int).Add(n.Total, more)
	return true
}

// DecreaseNomination lowers the position for candidate by less.
func (n *Nominator) DecreaseNomination(candidate avn.Address, less *big.Int) bool {
	i := n.Nominations.IndexOf(candidate)
	if i < 0 {
		return false
	}
	n.Nominations[i].Amount = new(big.Int).Sub(n.Nominations[i].Amount, less)
	n.Total = new(big.Int).Sub(n.Total, less)
	return true
}
