// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/metrics"
)

var (
	metricEras          = metrics.LazyLoadCounter("staking_era_count")
	metricCollatorsPaid = metrics.LazyLoadCounter("staking_collator_payout_count")
	metricVotes         = metrics.LazyLoadCounter("staking_growth_vote_count")
	metricPublishes     = metrics.LazyLoadCounter("staking_growth_publish_count")
)
