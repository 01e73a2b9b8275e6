// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/proxy"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/reverts"
)

// Command is one staking action that can be authorized by proof instead
// of submitted directly. The set of commands is closed: Context and
// Params feed the signature payload, apply runs the action as the
// proven signer.
type Command interface {
	Context() []byte
	Params() []interface{}
	apply(s *Staker, signer avn.Address) error
}

// Dispatch authorizes and runs cmd on behalf of proof.Signer. The sender
// must be the signer itself or the relayer named in the proof; either
// way the signature must cover the command and the signer's current
// nonce, which is consumed on success. A failed command rolls the nonce
// increment back with everything else.
func (s *Staker) Dispatch(sender avn.Address, proof *proxy.Proof, cmd Command) error {
	return s.atomic(func() error {
		if sender != proof.Signer && sender != proof.Relayer {
			return reverts.ErrSenderIsNotSigner
		}
		if err := s.registry.Authorize(proof, cmd.Context(), cmd.Params()...); err != nil {
			if err == reverts.ErrUnauthorizedProxyTransaction && sender == proof.Signer {
				return reverts.ErrUnauthorizedSignedTransaction
			}
			return err
		}
		return cmd.apply(s, proof.Signer)
	})
}

// CmdNominate divides Amount over the target candidates.
type CmdNominate struct {
	Targets []avn.Address
	Amount  *big.Int
}

func (CmdNominate) Context() []byte { return []byte("authorization for nominate operation") }

func (c CmdNominate) Params() []interface{} { return []interface{}{c.Targets, c.Amount} }

func (c CmdNominate) apply(s *Staker, signer avn.Address) error {
	return s.SplitAndNominate(signer, c.Targets, c.Amount)
}

// CmdBondExtra spreads Extra over the signer's existing positions.
type CmdBondExtra struct {
	Extra *big.Int
}

func (CmdBondExtra) Context() []byte { return []byte("authorization for bond extra operation") }

func (c CmdBondExtra) Params() []interface{} { return []interface{}{c.Extra} }

func (c CmdBondExtra) apply(s *Staker, signer avn.Address) error {
	return s.BondExtraAll(signer, c.Extra)
}

// CmdCandidateBondExtra raises the signer's self-bond.
type CmdCandidateBondExtra struct {
	Extra *big.Int
}

func (CmdCandidateBondExtra) Context() []byte {
	return []byte("authorization for candidate bond extra operation")
}

func (c CmdCandidateBondExtra) Params() []interface{} { return []interface{}{c.Extra} }

func (c CmdCandidateBondExtra) apply(s *Staker, signer avn.Address) error {
	return s.CandidateBondExtra(signer, c.Extra)
}

// CmdScheduleCandidateUnbond schedules a self-bond decrease.
type CmdScheduleCandidateUnbond struct {
	Less *big.Int
}

func (CmdScheduleCandidateUnbond) Context() []byte {
	return []byte("authorization for schedule candidate unbond operation")
}

func (c CmdScheduleCandidateUnbond) Params() []interface{} { return []interface{}{c.Less} }

func (c CmdScheduleCandidateUnbond) apply(s *Staker, signer avn.Address) error {
	return s.ScheduleCandidateBondLess(signer, c.Less)
}

// CmdExecuteCandidateUnbond executes a due self-bond decrease; anyone
// may sign for any candidate.
type CmdExecuteCandidateUnbond struct {
	Candidate avn.Address
}

func (CmdExecuteCandidateUnbond) Context() []byte {
	return []byte("authorization for execute candidate unbond operation")
}

func (c CmdExecuteCandidateUnbond) Params() []interface{} { return []interface{}{c.Candidate} }

func (c CmdExecuteCandidateUnbond) apply(s *Staker, _ avn.Address) error {
	return s.ExecuteCandidateBondLess(c.Candidate)
}

// CmdScheduleRevokeNomination schedules closing one position.
type CmdScheduleRevokeNomination struct {
	Candidate avn.Address
}

func (CmdScheduleRevokeNomination) Context() []byte {
	return []byte("authorization for schedule revoke nomination operation")
}

func (c CmdScheduleRevokeNomination) Params() []interface{} { return []interface{}{c.Candidate} }

func (c CmdScheduleRevokeNomination) apply(s *Staker, signer avn.Address) error {
	return s.ScheduleRevokeNomination(signer, c.Candidate)
}

// CmdScheduleNominatorUnbond withdraws Less spread over the signer's
// positions.
type CmdScheduleNominatorUnbond struct {
	Less *big.Int
}

func (CmdScheduleNominatorUnbond) Context() []byte {
	return []byte("authorization for schedule nominator unbond operation")
}

func (c CmdScheduleNominatorUnbond) Params() []interface{} { return []interface{}{c.Less} }

func (c CmdScheduleNominatorUnbond) apply(s *Staker, signer avn.Address) error {
	return s.ScheduleNominatorUnbond(signer, c.Less)
}

// CmdExecuteNominationRequests executes every due request of Nominator;
// anyone may sign.
type CmdExecuteNominationRequests struct {
	Nominator avn.Address
}

func (CmdExecuteNominationRequests) Context() []byte {
	return []byte("authorization for execute nomination requests operation")
}

func (c CmdExecuteNominationRequests) Params() []interface{} { return []interface{}{c.Nominator} }

func (c CmdExecuteNominationRequests) apply(s *Staker, _ avn.Address) error {
	return s.ExecuteAllNominationRequests(c.Nominator)
}

// CmdCancelNominationRequest discards the signer's pending request.
type CmdCancelNominationRequest struct {
	Candidate avn.Address
}

func (CmdCancelNominationRequest) Context() []byte {
	return []byte("authorization for cancel nomination request operation")
}

func (c CmdCancelNominationRequest) Params() []interface{} { return []interface{}{c.Candidate} }

func (c CmdCancelNominationRequest) apply(s *Staker, signer avn.Address) error {
	return s.CancelNominationRequest(signer, c.Candidate)
}

// CmdScheduleLeaveNominators schedules the signer's full exit.
type CmdScheduleLeaveNominators struct{}

func (CmdScheduleLeaveNominators) Context() []byte {
	return []byte("authorization for schedule leave nominators operation")
}

func (CmdScheduleLeaveNominators) Params() []interface{} { return nil }

func (c CmdScheduleLeaveNominators) apply(s *Staker, signer avn.Address) error {
	return s.ScheduleLeaveNominators(signer)
}

// CmdExecuteLeaveNominators completes Nominator's due full exit; anyone
// may sign.
type CmdExecuteLeaveNominators struct {
	Nominator avn.Address
}

func (CmdExecuteLeaveNominators) Context() []byte {
	return []byte("authorization for execute leave nominators operation")
}

func (c CmdExecuteLeaveNominators) Params() []interface{} { return []interface{}{c.Nominator} }

func (c CmdExecuteLeaveNominators) apply(s *Staker, _ avn.Address) error {
	return s.ExecuteLeaveNominators(c.Nominator)
}
