// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vote implements the quorum voting session that decides whether
// a closed growth period may be published externally.
package vote

import (
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/reverts"
)

// Status tracks a growth period through its voting lifecycle.
type Status uint8

const (
	StatusPending Status = iota
	StatusApproved
	StatusRejected
	StatusTriggered
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	case StatusTriggered:
		return "triggered"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Confirmation is an approving vote with the voter's corroborating
// signature over the period's publish payload.
type Confirmation struct {
	Voter     avn.Address
	Signature []byte
}

// Session is one open voting session over a growth period.
type Session struct {
	Threshold         uint32
	Voters            []avn.Address
	Ayes              []Confirmation
	Nays              []avn.Address
	EndOfVotingPeriod uint32
	CreatedAtBlock    uint32
}

// Quorum is the number of same-direction votes that concludes a session.
// Small voter sets require unanimity.
func Quorum(voterCount uint32) uint32 {
	if voterCount < 3 {
		return voterCount
	}
	return voterCount*2/3 + 1
}

// NewSession opens a session for the given voter set.
func NewSession(voters []avn.Address, createdAt, votingPeriod uint32) *Session {
	return &Session{
		Threshold:         Quorum(uint32(len(voters))),
		Voters:            append([]avn.Address(nil), voters...),
		EndOfVotingPeriod: createdAt + votingPeriod,
		CreatedAtBlock:    createdAt,
	}
}

func (s *Session) isVoter(voter avn.Address) bool {
	for _, v := range s.Voters {
		if v == voter {
			return true
		}
	}
	return false
}

// HasVoted reports whether the voter already cast a vote in this session.
func (s *Session) HasVoted(voter avn.Address) bool {
	for _, aye := range s.Ayes {
		if aye.Voter == voter {
			return true
		}
	}
	for _, nay := range s.Nays {
		if nay == voter {
			return true
		}
	}
	return false
}

// VerifyConfirmation checks that signature recovers the voter's address
// over hash. A confirmation that fails to recover, or recovers someone
// else, is rejected before the vote is recorded.
func VerifyConfirmation(voter avn.Address, hash avn.Bytes32, signature []byte) error {
	pub, err := crypto.SigToPub(hash.Bytes(), signature)
	if err != nil {
		return reverts.ErrInvalidConfirmationSignature
	}
	if avn.Address(crypto.PubkeyToAddress(*pub)) != voter {
		return reverts.ErrInvalidConfirmationSignature
	}
	return nil
}

// RecordAye registers an approving vote with its confirmation signature.
func (s *Session) RecordAye(voter avn.Address, signature []byte, now uint32) error {
	if err := s.checkVote(voter, now); err != nil {
		return err
	}
	s.Ayes = append(s.Ayes, Confirmation{Voter: voter, Signature: signature})
	return nil
}

// RecordNay registers a rejecting vote.
func (s *Session) RecordNay(voter avn.Address, now uint32) error {
	if err := s.checkVote(voter, now); err != nil {
		return err
	}
	s.Nays = append(s.Nays, voter)
	return nil
}

func (s *Session) checkVote(voter avn.Address, now uint32) error {
	if !s.isVoter(voter) {
		return reverts.ErrNotAVoter
	}
	if s.HasVoted(voter) {
		return reverts.ErrDuplicateVote
	}
	if s.HasOutcome(now) {
		return reverts.ErrVotingSessionEnded
	}
	return nil
}

// HasOutcome reports whether the session is concluded, either by quorum
// or by its deadline passing.
func (s *Session) HasOutcome(now uint32) bool {
	if uint32(len(s.Ayes)) >= s.Threshold || uint32(len(s.Nays)) >= s.Threshold {
		return true
	}
	return now >= s.EndOfVotingPeriod
}

// IsApproved reports whether the ayes reached quorum.
func (s *Session) IsApproved() bool {
	return uint32(len(s.Ayes)) >= s.Threshold
}

// AyeVoters lists the approving accounts.
func (s *Session) AyeVoters() []avn.Address {
	voters := make([]avn.Address, 0, len(s.Ayes))
	for _, aye := range s.Ayes {
		voters = append(voters, aye.Voter)
	}
	return voters
}
