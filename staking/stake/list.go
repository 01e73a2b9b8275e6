// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"math/big"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
)

// List is a bond list kept sorted greatest to least by amount.
// Entries of equal amount keep their insertion order, so earlier
// bonds rank ahead of later ones.
type List []Bond

// InsertSorted inserts bond behind all entries with amount >= bond.Amount.
func (l List) InsertSorted(bond Bond) List {
	at := len(l)
	for i, entry := range l {
		if entry.Amount.Cmp(bond.Amount) < 0 {
			at = i
			break
		}
	}
	l = append(l, Bond{})
	copy(l[at+1:], l[at:])
	l[at] = bond
	return l
}

// IndexOf returns the position of owner's bond, or -1.
func (l List) IndexOf(owner avn.Address) int {
	for i, entry := range l {
		if entry.Owner == owner {
			return i
		}
	}
	return -1
}

// RemoveAt removes the entry at index i.
func (l List) RemoveAt(i int) List {
	copy(l[i:], l[i+1:])
	return l[:len(l)-1]
}

// Remove removes owner's bond if present, returning the removed bond.
func (l List) Remove(owner avn.Address) (List, *Bond, bool) {
	i := l.IndexOf(owner)
	if i < 0 {
		return l, nil, false
	}
	removed := l[i]
	return l.RemoveAt(i), &removed, true
}

// Total sums all amounts.
func (l List) Total() *big.Int {
	total := new(big.Int)
	for _, entry := range l {
		total.Add(total, entry.Amount)
	}
	return total
}

// Highest returns the greatest amount, zero for an empty list.
func (l List) Highest() *big.Int {
	if len(l) == 0 {
		return new(big.Int)
	}
	return new(big.Int).Set(l[0].Amount)
}

// Lowest returns the least amount, zero for an empty list.
func (l List) Lowest() *big.Int {
	if len(l) == 0 {
		return new(big.Int)
	}
	return new(big.Int).Set(l[len(l)-1].Amount)
}

// Clone deep-copies the list.
func (l List) Clone() List {
	out := make(List, len(l))
	for i, entry := range l {
		out[i] = Bond{Owner: entry.Owner, Amount: new(big.Int).Set(entry.Amount)}
	}
	return out
}
