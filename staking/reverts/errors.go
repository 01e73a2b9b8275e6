// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

// The staking error catalog. Every dispatch rejects with one of these.
var (
	// not-found
	ErrCandidateDNE       = New("candidate does not exist")
	ErrNominatorDNE       = New("nominator does not exist")
	ErrNominationDNE      = New("nomination does not exist")
	ErrGrowthDataNotFound = New("growth data not found")

	// precondition / state
	ErrCandidateExists         = New("candidate already exists")
	ErrNominatorExists         = New("nominator already exists")
	ErrAlreadyOffline          = New("candidate already offline")
	ErrAlreadyActive           = New("candidate already active")
	ErrCandidateAlreadyLeaving = New("candidate already leaving")
	ErrCandidateNotLeaving     = New("candidate not leaving")
	ErrCandidateCannotLeaveYet = New("candidate cannot leave yet")
	ErrCannotGoOnlineIfLeaving = New("cannot go online if leaving")
	ErrNominatorAlreadyLeaving = New("nominator already leaving")
	ErrNominatorNotLeaving     = New("nominator not leaving")
	ErrNominatorCannotLeaveYet = New("nominator cannot leave yet")
	ErrStakingNotAllowed       = New("staking not allowed")

	// bound violation
	ErrCandidateBondBelowMin              = New("candidate bond below minimum")
	ErrNominatorBondBelowMin              = New("nominator bond below minimum")
	ErrNominationBelowMin                 = New("nomination below minimum")
	ErrInsufficientBalance                = New("insufficient balance")
	ErrCandidateLimitReached              = New("candidate limit reached")
	ErrExceedMaxNominationsPerNominator   = New("exceeds max nominations per nominator")
	ErrCannotNominateLessThanLowestBottom = New("cannot nominate less than or equal to lowest bottom when full")

	// conflict
	ErrAlreadyNominatedCandidate            = New("candidate already nominated")
	ErrPendingCandidateRequestAlreadyExist  = New("pending candidate request already exists")
	ErrPendingCandidateRequestDNE           = New("pending candidate request does not exist")
	ErrPendingCandidateRequestNotDueYet     = New("pending candidate request not due yet")
	ErrPendingNominationRequestAlreadyExist = New("pending nomination request already exists")
	ErrPendingNominationRequestDNE          = New("pending nomination request does not exist")
	ErrPendingNominationRequestNotDueYet    = New("pending nomination request not due yet")
	ErrPendingNominationRevoke              = New("pending nomination revoke")
	ErrGrowthAlreadyProcessed               = New("growth period already processed")
	ErrNoWritingSameValue                   = New("no writing same value")

	// configuration
	ErrCannotSetBelowMin                   = New("cannot set below minimum")
	ErrEraLengthMustBeAtLeastTotalSelected = New("era length must be at least total selected collators")
	ErrAdminSettingsValueIsNotValid        = New("admin settings value is not valid")

	// authorization
	ErrSenderIsNotSigner             = New("sender is not signer")
	ErrUnauthorizedProxyTransaction  = New("unauthorized proxy transaction")
	ErrUnauthorizedSignedTransaction = New("unauthorized signed transaction")
	ErrCandidateSessionKeysNotFound  = New("candidate session keys not found")

	// voting
	ErrVotingSessionNotFound        = New("voting session not found")
	ErrDuplicateVote                = New("voter already voted in this session")
	ErrVotingSessionEnded           = New("voting session has ended")
	ErrNotAVoter                    = New("account is not an eligible voter")
	ErrInvalidConfirmationSignature = New("invalid vote confirmation signature")

	// payouts / growth
	ErrFailedToWithdrawFullAmount = New("failed to withdraw full amount")
	ErrErrorPayingCollator        = New("error paying collator")
	ErrErrorPublishingGrowth      = New("error publishing growth")
)
