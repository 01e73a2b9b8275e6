// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
)

// Event is an observable state transition. Events are informational,
// they never influence execution.
type Event interface {
	Name() string
}

// EventSink receives every emitted event.
type EventSink interface {
	Record(Event)
}

// Recorder is an in-memory sink, used in tests.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Record(e Event) {
	r.Events = append(r.Events, e)
}

type CandidateJoined struct {
	Account     avn.Address
	Bond        *big.Int
	TotalBonded *big.Int
}

func (CandidateJoined) Name() string { return "CandidateJoined" }

type CandidateBondedMore struct {
	Candidate avn.Address
	Amount    *big.Int
	NewBond   *big.Int
}

func (CandidateBondedMore) Name() string { return "CandidateBondedMore" }

type CandidateBondLessScheduled struct {
	Candidate  avn.Address
	Amount     *big.Int
	ExecuteEra uint32
}

func (CandidateBondLessScheduled) Name() string { return "CandidateBondLessScheduled" }

type CandidateBondedLess struct {
	Candidate avn.Address
	Amount    *big.Int
	NewBond   *big.Int
}

func (CandidateBondedLess) Name() string { return "CandidateBondedLess" }

type CandidateWentOffline struct {
	Candidate avn.Address
}

func (CandidateWentOffline) Name() string { return "CandidateWentOffline" }

type CandidateBackOnline struct {
	Candidate avn.Address
}

func (CandidateBackOnline) Name() string { return "CandidateBackOnline" }

type CandidateLeaveScheduled struct {
	Candidate avn.Address
	ExitEra   uint32
}

func (CandidateLeaveScheduled) Name() string { return "CandidateLeaveScheduled" }

type CandidateLeaveCancelled struct {
	Candidate avn.Address
}

func (CandidateLeaveCancelled) Name() string { return "CandidateLeaveCancelled" }

type CandidateLeft struct {
	Candidate avn.Address
	Unlocked  *big.Int
}

func (CandidateLeft) Name() string { return "CandidateLeft" }

type Nominated struct {
	Nominator avn.Address
	Candidate avn.Address
	Amount    *big.Int
	InTop     bool
}

func (Nominated) Name() string { return "Nominated" }

type NominationIncreased struct {
	Nominator avn.Address
	Candidate avn.Address
	Amount    *big.Int
	InTop     bool
}

func (NominationIncreased) Name() string { return "NominationIncreased" }

type NominationDecreaseScheduled struct {
	Nominator  avn.Address
	Candidate  avn.Address
	Amount     *big.Int
	ExecuteEra uint32
}

func (NominationDecreaseScheduled) Name() string { return "NominationDecreaseScheduled" }

type NominationDecreased struct {
	Nominator avn.Address
	Candidate avn.Address
	Amount    *big.Int
	InTop     bool
}

func (NominationDecreased) Name() string { return "NominationDecreased" }

type NominationRevokeScheduled struct {
	Nominator  avn.Address
	Candidate  avn.Address
	Amount     *big.Int
	ExecuteEra uint32
}

func (NominationRevokeScheduled) Name() string { return "NominationRevokeScheduled" }

type NominationRevoked struct {
	Nominator avn.Address
	Candidate avn.Address
	Amount    *big.Int
}

func (NominationRevoked) Name() string { return "NominationRevoked" }

type NominationRequestCancelled struct {
	Nominator avn.Address
	Candidate avn.Address
}

func (NominationRequestCancelled) Name() string { return "NominationRequestCancelled" }

type NominationKicked struct {
	Nominator avn.Address
	Candidate avn.Address
	Unstaked  *big.Int
}

func (NominationKicked) Name() string { return "NominationKicked" }

type NominatorLeft struct {
	Nominator avn.Address
	Unstaked  *big.Int
}

func (NominatorLeft) Name() string { return "NominatorLeft" }

type NewEra struct {
	StartingBlock uint32
	Era           uint32
	Selected      uint32
	TotalStaked   *big.Int
}

func (NewEra) Name() string { return "NewEra" }

type Rewarded struct {
	Account avn.Address
	Amount  *big.Int
}

func (Rewarded) Name() string { return "Rewarded" }

type NotEnoughFundsForEraPayment struct {
	Pot *big.Int
}

func (NotEnoughFundsForEraPayment) Name() string { return "NotEnoughFundsForEraPayment" }

type ErrorPayingStakingReward struct {
	To     avn.Address
	Amount *big.Int
}

func (ErrorPayingStakingReward) Name() string { return "ErrorPayingStakingReward" }

type VotingSessionOpened struct {
	Period uint32
}

func (VotingSessionOpened) Name() string { return "VotingSessionOpened" }

type VoteCast struct {
	Period  uint32
	Voter   avn.Address
	Approve bool
}

func (VoteCast) Name() string { return "VoteCast" }

type GrowthPublished struct {
	Period uint32
	TxID   uint32
}

func (GrowthPublished) Name() string { return "GrowthPublished" }

type GrowthSkipped struct {
	Period uint32
}

func (GrowthSkipped) Name() string { return "GrowthSkipped" }

type GrowthRejected struct {
	Period    uint32
	Offenders []avn.Address
}

func (GrowthRejected) Name() string { return "GrowthRejected" }

type CollatorsPaidFromGrowth struct {
	Period uint32
	Amount *big.Int
}

func (CollatorsPaidFromGrowth) Name() string { return "CollatorsPaidFromGrowth" }

type EraLengthSet struct {
	Length uint32
}

func (EraLengthSet) Name() string { return "EraLengthSet" }
