// Copyright (c) 2026 The AvN Project developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package avn

import "math/big"

// PerbillAccuracy is the denominator of a Perbill, one billion parts.
const PerbillAccuracy = 1_000_000_000

// Perbill is a fixed point fraction with parts-per-billion accuracy, used
// wherever a stake proportion has to be applied to a token amount.
type Perbill uint32

var accuracy = big.NewInt(PerbillAccuracy)

// NewPerbill clamps parts to the accuracy and returns the fraction.
func NewPerbill(parts uint64) Perbill {
	if parts > PerbillAccuracy {
		parts = PerbillAccuracy
	}
	return Perbill(parts)
}

// PerbillFromRational approximates num/den, rounding down. A zero or
// negative denominator yields zero.
func PerbillFromRational(num, den *big.Int) Perbill {
	if den.Sign() <= 0 || num.Sign() <= 0 {
		return 0
	}
	if num.Cmp(den) >= 0 {
		return PerbillAccuracy
	}
	parts := new(big.Int).Mul(num, accuracy)
	parts.Quo(parts, den)
	return Perbill(parts.Uint64())
}

// Parts returns the raw parts-per-billion value.
func (p Perbill) Parts() uint32 {
	return uint32(p)
}

// IsZero returns whether the fraction is zero.
func (p Perbill) IsZero() bool {
	return p == 0
}

// Mul applies the fraction to amount, rounding down.
func (p Perbill) Mul(amount *big.Int) *big.Int {
	out := new(big.Int).Mul(amount, big.NewInt(int64(p)))
	return out.Quo(out, accuracy)
}
