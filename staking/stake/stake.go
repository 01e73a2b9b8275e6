// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"math/big"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
)

// Bond is one (owner, amount) stake position.
type Bond struct {
	Owner  avn.Address
	Amount *big.Int
}

func NewBond(owner avn.Address, amount *big.Int) Bond {
	return Bond{Owner: owner, Amount: new(big.Int).Set(amount)}
}

// CapacityStatus describes how full a bounded list is.
type CapacityStatus = uint8

const (
	CapacityEmpty = CapacityStatus(iota)
	CapacityPartial
	CapacityFull
)

// CapacityOf returns the capacity status of a list of n entries with the given bound.
func CapacityOf(n int, bound uint32) CapacityStatus {
	switch {
	case n == 0:
		return CapacityEmpty
	case n >= int(bound):
		return CapacityFull
	default:
		return CapacityPartial
	}
}
