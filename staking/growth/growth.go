// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package growth aggregates paid-out eras into multi-era growth periods
// whose totals are published to the external chain once approved.
package growth

import (
	"math/big"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
)

// MaxPeriodsPerClosing bounds how many outstanding periods one closing
// tick will trigger, so a long stall cannot produce an unbounded batch.
const MaxPeriodsPerClosing = 10

// CollatorScore pairs a collator with its accumulated points inside one
// growth period.
type CollatorScore struct {
	Collator avn.Address
	Points   uint32
}

// Info is one growth period's accumulation. Totals are summed era by
// era, so processing order inside the period does not affect the result.
type Info struct {
	Accumulations         uint32
	TotalStakeAccumulated *big.Int
	TotalStakerReward     *big.Int
	TotalPoints           uint32
	CollatorScores        []CollatorScore
	TxID                  *uint32 `rlp:"nil"`
	Triggered             *bool   `rlp:"nil"`
}

// PeriodInfo locates the open accumulation window.
type PeriodInfo struct {
	StartEraIndex uint32
	Index         uint32
}

// NewInfo returns an empty accumulation.
func NewInfo() Info {
	return Info{
		TotalStakeAccumulated: new(big.Int),
		TotalStakerReward:     new(big.Int),
	}
}

// Fold adds one era's totals into the period.
func (g *Info) Fold(staked, reward *big.Int, points uint32, scores []CollatorScore) {
	g.Accumulations++
	g.TotalStakeAccumulated = new(big.Int).Add(g.TotalStakeAccumulated, staked)
	g.TotalStakerReward = new(big.Int).Add(g.TotalStakerReward, reward)
	g.TotalPoints += points
	for _, score := range scores {
		found := false
		for i := range g.CollatorScores {
			if g.CollatorScores[i].Collator == score.Collator {
				g.CollatorScores[i].Points += score.Points
				found = true
				break
			}
		}
		if !found {
			g.CollatorScores = append(g.CollatorScores, score)
		}
	}
}

// IsZero reports whether the period accumulated nothing worth publishing.
func (g *Info) IsZero() bool {
	return g.Accumulations == 0 ||
		g.TotalStakeAccumulated.Sign() == 0 ||
		g.TotalStakerReward.Sign() == 0
}

// AverageStaked is the stake averaged over the accumulated eras.
func (g *Info) AverageStaked() *big.Int {
	if g.Accumulations == 0 {
		return new(big.Int)
	}
	return new(big.Int).Quo(g.TotalStakeAccumulated, new(big.Int).SetUint64(uint64(g.Accumulations)))
}
