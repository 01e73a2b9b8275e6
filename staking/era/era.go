// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package era keeps the era clock, the per-era collator snapshots and the
// per-era authoring points.
package era

import (
	"math/big"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/stake"
)

// Info is the era clock: the current index, the block the era started at
// and the era length in blocks.
type Info struct {
	Current uint32
	First   uint32
	Length  uint32
}

// ShouldUpdate reports whether the era boundary has been crossed at block now.
func (i *Info) ShouldUpdate(now uint32) bool {
	return now-i.First >= i.Length
}

// Update advances to the next era starting at block now.
func (i *Info) Update(now uint32) {
	i.Current++
	i.First = now
}

// Snapshot fixes a selected collator's counted backing at era start.
// Immutable once written, except that backers with pending exits have
// their contribution reduced before it is written.
type Snapshot struct {
	Bond        *big.Int
	Nominations stake.List
	Total       *big.Int
}

// CollatorPoints pairs a collator with the points it earned in one era.
type CollatorPoints struct {
	Collator avn.Address
	Points   uint32
}
