// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements delegated proof of stake: collator
// candidates bond their own funds, nominators back them, an era clock
// snapshots the strongest candidates and pays pool-funded rewards with
// a delay, and paid eras accumulate into growth periods that are
// published to the external chain after a quorum vote.
package staking

import (
	"math/big"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/bridge"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/log"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/proxy"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/candidates"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/era"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/growth"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/nominators"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/reverts"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/rewards"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/vote"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/state"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/storage"
)

var logger = log.WithContext("pkg", "staking")

const (
	// MaxTopNominationsPerCandidate bounds the counted nomination list.
	MaxTopNominationsPerCandidate = 10
	// MaxBottomNominationsPerCandidate bounds the uncounted overflow list.
	MaxBottomNominationsPerCandidate = 50
	// MaxNominationsPerNominator bounds one backer's positions.
	MaxNominationsPerNominator = 10
	// MaxCandidates bounds the global candidate pool.
	MaxCandidates = 100
	// RewardPaymentDelay is the number of eras between an era ending and
	// its rewards being armed for payment.
	RewardPaymentDelay = 2
	// ErasPerGrowthPeriod is the accumulation window of one growth period.
	ErasPerGrowthPeriod = 30
	// VotingPeriod is the growth voting deadline in blocks.
	VotingPeriod = 100
	// AuthorPoints is awarded to a collator per authored block.
	AuthorPoints = 20
)

// MinNominationPerCollator is the smallest amount one position may hold.
var MinNominationPerCollator = big.NewInt(1)

// SessionKeyChecker tells whether an account registered session keys,
// consulted at candidate join time.
type SessionKeyChecker interface {
	HasSessionKeys(account avn.Address) (bool, error)
}

// OffenceReporter receives the voters who voted against a growth
// session's outcome.
type OffenceReporter interface {
	ReportOffence(offenders []avn.Address)
}

// DustHandler receives remainders too small to split among payees.
type DustHandler interface {
	HandleDust(amount *big.Int)
}

// Staker is the staking system facade. All entry points mutate the
// shared state sequentially, one inbound call or block tick at a time.
// Each entry point runs inside a state checkpoint, so a failed call
// leaves no writes behind.
type Staker struct {
	state *state.State
	addr  avn.Address
	pot   avn.Address
	block uint32

	candidates *candidates.Storage
	ledger     *candidates.Ledger
	nominators *nominators.Storage
	eras       *era.Storage
	rewards    *rewards.Storage
	growth     *growth.Storage
	votes      *vote.Storage
	params     *Params
	registry   *proxy.Registry

	publisher bridge.Publisher
	keys      SessionKeyChecker
	offences  OffenceReporter
	dust      DustHandler
	events    EventSink
}

// Config carries the external collaborators. Nil fields fall back to
// inert implementations.
type Config struct {
	Publisher   bridge.Publisher
	SessionKeys SessionKeyChecker
	Offences    OffenceReporter
	Dust        DustHandler
	Events      EventSink
}

// New binds a staker to its module account and reward pot over st.
func New(addr, pot avn.Address, st *state.State, config Config) *Staker {
	sctx := storage.NewContext(addr, st)
	cs := candidates.NewStorage(sctx)
	s := &Staker{
		state:      st,
		addr:       addr,
		pot:        pot,
		candidates: cs,
		ledger:     candidates.NewLedger(cs, MaxTopNominationsPerCandidate, MaxBottomNominationsPerCandidate),
		nominators: nominators.NewStorage(sctx),
		eras:       era.NewStorage(sctx),
		rewards:    rewards.NewStorage(sctx),
		growth:     growth.NewStorage(sctx),
		votes:      vote.NewStorage(sctx),
		params:     NewParams(sctx),
		registry:   proxy.NewRegistry(sctx),
		publisher:  config.Publisher,
		keys:       config.SessionKeys,
		offences:   config.Offences,
		dust:       config.Dust,
		events:     config.Events,
	}
	if s.publisher == nil {
		s.publisher = bridge.NewMockPublisher()
	}
	if s.keys == nil {
		s.keys = acceptAllKeys{}
	}
	if s.offences == nil {
		s.offences = noopOffences{}
	}
	if s.dust == nil {
		s.dust = burnDust{}
	}
	if s.events == nil {
		s.events = noopSink{}
	}
	return s
}

// Address returns the module account holding bonded funds.
func (s *Staker) Address() avn.Address {
	return s.addr
}

// Pot returns the reward pot account.
func (s *Staker) Pot() avn.Address {
	return s.pot
}

// Params returns the admin-settable configuration.
func (s *Staker) Params() *Params {
	return s.params
}

// Nonce returns the proxy nonce expected from signer's next signed call.
func (s *Staker) Nonce(signer avn.Address) (uint64, error) {
	return s.registry.Nonce(signer)
}

// atomic runs fn inside a state checkpoint. When fn fails every write it
// made is rolled back, so a revert error leaves state untouched.
func (s *Staker) atomic(fn func() error) error {
	checkpoint := s.state.NewCheckpoint()
	if err := fn(); err != nil {
		s.state.RevertTo(checkpoint)
		return err
	}
	return nil
}

// Era returns the current era clock.
func (s *Staker) Era() (era.Info, error) {
	return s.eras.GetEra()
}

// GetCandidate returns the candidate record, nil if absent.
func (s *Staker) GetCandidate(account avn.Address) (*candidates.Candidate, error) {
	return s.candidates.Get(account)
}

// GetNominator returns the backer record, nil if absent.
func (s *Staker) GetNominator(account avn.Address) (*nominators.Nominator, error) {
	return s.nominators.Get(account)
}

// ScheduledRequests returns the pending bond-change queue for candidate.
func (s *Staker) ScheduledRequests(candidate avn.Address) ([]nominators.ScheduledRequest, error) {
	return s.nominators.Requests(candidate)
}

// Snapshot returns the collator's era snapshot, nil if absent.
func (s *Staker) Snapshot(eraIndex uint32, collator avn.Address) (*era.Snapshot, error) {
	return s.eras.GetSnapshot(eraIndex, collator)
}

// SelectedCandidates returns the collators selected for the current era.
func (s *Staker) SelectedCandidates() ([]avn.Address, error) {
	return s.eras.Selected()
}

// GrowthInfo returns a period's accumulation.
func (s *Staker) GrowthInfo(period uint32) (growth.Info, error) {
	return s.growth.Get(period)
}

// VotingSession returns the period's session, nil when none is open.
func (s *Staker) VotingSession(period uint32) (*vote.Session, error) {
	return s.votes.Get(period)
}

// withdraw moves amount from an external account into the module account.
func (s *Staker) withdraw(from avn.Address, amount *big.Int) error {
	balance, err := s.state.GetBalance(from)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return reverts.ErrInsufficientBalance
	}
	s.state.SetBalance(from, new(big.Int).Sub(balance, amount))
	return s.deposit(s.addr, amount)
}

// refund moves amount from the module account back to an external account.
func (s *Staker) refund(to avn.Address, amount *big.Int) error {
	balance, err := s.state.GetBalance(s.addr)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return reverts.ErrInsufficientBalance
	}
	s.state.SetBalance(s.addr, new(big.Int).Sub(balance, amount))
	return s.deposit(to, amount)
}

func (s *Staker) deposit(to avn.Address, amount *big.Int) error {
	balance, err := s.state.GetBalance(to)
	if err != nil {
		return err
	}
	s.state.SetBalance(to, new(big.Int).Add(balance, amount))
	return nil
}

// payFromPot transfers amount out of the reward pot, reporting whether
// the transfer happened.
func (s *Staker) payFromPot(to avn.Address, amount *big.Int) (bool, error) {
	if amount.Sign() <= 0 {
		return false, nil
	}
	balance, err := s.state.GetBalance(s.pot)
	if err != nil {
		return false, err
	}
	if balance.Cmp(amount) < 0 {
		return false, nil
	}
	s.state.SetBalance(s.pot, new(big.Int).Sub(balance, amount))
	if err := s.deposit(to, amount); err != nil {
		return false, err
	}
	return true, nil
}

type acceptAllKeys struct{}

func (acceptAllKeys) HasSessionKeys(avn.Address) (bool, error) { return true, nil }

type noopOffences struct{}

func (noopOffences) ReportOffence([]avn.Address) {}

type burnDust struct{}

func (burnDust) HandleDust(*big.Int) {}

type noopSink struct{}

func (noopSink) Record(Event) {}
