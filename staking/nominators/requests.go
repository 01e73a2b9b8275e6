// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nominators

import (
	"math/big"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
)

type Action = uint8

const (
	ActionRevoke = Action(iota) // close the position entirely
	ActionDecrease
)

// ScheduledRequest is one pending bond-change intent, executable once the
// era clock reaches WhenExecutable. At most one request exists per
// (candidate, nominator) pair.
type ScheduledRequest struct {
	Nominator      avn.Address
	WhenExecutable uint32
	Action         Action
	Amount         *big.Int
}

// DueNow reports whether the request is executable at era now.
func (r *ScheduledRequest) DueNow(now uint32) bool {
	return r.WhenExecutable <= now
}
