// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rewards keeps the delayed payout records and computes the
// proportional reward split for one collator's snapshot.
package rewards

import (
	"math/big"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/era"
)

// DelayedPayout is the pool-funded reward armed for one era, fixed when
// the payment delay elapses and drained as collators are paid.
type DelayedPayout struct {
	TotalStakingReward *big.Int
}

// Payment is one computed transfer.
type Payment struct {
	To     avn.Address
	Amount *big.Int
}

// Split computes the payments for one collator's snapshot: the collator
// share of the era reward is points/totalPoints, and within that share
// the collator and each rewardable backer are paid proportionally to
// their bonded amounts, at parts-per-billion precision.
func Split(snap *era.Snapshot, collator avn.Address, points, totalPoints uint32, totalReward *big.Int) []Payment {
	pctDue := avn.PerbillFromRational(
		new(big.Int).SetUint64(uint64(points)),
		new(big.Int).SetUint64(uint64(totalPoints)),
	)
	collatorTotal := pctDue.Mul(totalReward)

	payments := make([]Payment, 0, len(snap.Nominations)+1)
	collatorPct := avn.PerbillFromRational(snap.Bond, snap.Total)
	payments = append(payments, Payment{To: collator, Amount: collatorPct.Mul(collatorTotal)})
	for _, n := range snap.Nominations {
		pct := avn.PerbillFromRational(n.Amount, snap.Total)
		payments = append(payments, Payment{To: n.Owner, Amount: pct.Mul(collatorTotal)})
	}
	return payments
}
