// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nominators

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/reverts"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/storage"
)

var (
	slotNominators = avn.BytesToBytes32([]byte("nominator-state"))
	slotRequests   = avn.BytesToBytes32([]byte("nomination-requests"))
)

type Storage struct {
	nominators *storage.Mapping[avn.Address, *Nominator]
	requests   *storage.Mapping[avn.Address, []ScheduledRequest]
}

func NewStorage(sctx *storage.Context) *Storage {
	return &Storage{
		nominators: storage.NewMapping[avn.Address, *Nominator](sctx, slotNominators),
		requests:   storage.NewMapping[avn.Address, []ScheduledRequest](sctx, slotRequests),
	}
}

// Get returns the nominator record, nil if absent.
func (s *Storage) Get(nominator avn.Address) (*Nominator, error) {
	has, err := s.nominators.Has(nominator)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check nominator")
	}
	if !has {
		return nil, nil
	}
	n, err := s.nominators.Get(nominator)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get nominator")
	}
	if n.LessTotal == nil {
		n.LessTotal = new(big.Int)
	}
	return n, nil
}

func (s *Storage) Set(nominator avn.Address, entry *Nominator) error {
	if err := s.nominators.Set(nominator, entry); err != nil {
		return errors.Wrap(err, "failed to set nominator")
	}
	return nil
}

func (s *Storage) Delete(nominator avn.Address) {
	s.nominators.Delete(nominator)
}

func (s *Storage) Has(nominator avn.Address) (bool, error) {
	return s.nominators.Has(nominator)
}

// Requests returns the scheduled request queue for a candidate.
func (s *Storage) Requests(candidate avn.Address) ([]ScheduledRequest, error) {
	reqs, err := s.requests.Get(candidate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get scheduled requests")
	}
	return reqs, nil
}

func (s *Storage) SetRequests(candidate avn.Address, reqs []ScheduledRequest) error {
	if len(reqs) == 0 {
		s.requests.Delete(candidate)
		return nil
	}
	if err := s.requests.Set(candidate, reqs); err != nil {
		return errors.Wrap(err, "failed to set scheduled requests")
	}
	return nil
}

func (s *Storage) DeleteRequests(candidate avn.Address) {
	s.requests.Delete(candidate)
}

// RequestFor returns the pending request of nominator against candidate,
// nil if none exists.
func (s *Storage) RequestFor(candidate, nominator avn.Address) (*ScheduledRequest, error) {
	reqs, err := s.Requests(candidate)
	if err != nil {
		return nil, err
	}
	for i := range reqs {
		if reqs[i].Nominator == nominator {
			return &reqs[i], nil
		}
	}
	return nil, nil
}

// AddRequest appends a request, enforcing at most one outstanding request
// per (candidate, nominator) pair.
func (s *Storage) AddRequest(candidate avn.Address, req ScheduledRequest) error {
	reqs, err := s.Requests(candidate)
	if err != nil {
		return err
	}
	for i := range reqs {
		if reqs[i].Nominator == req.Nominator {
			return reverts.ErrPendingNominationRequestAlreadyExist
		}
	}
	return s.SetRequests(candidate, append(reqs, req))
}

// RemoveRequest removes and returns nominator's pending request.
func (s *Storage) RemoveRequest(candidate, nominator avn.Address) (*ScheduledRequest, error) {
	reqs, err := s.Requests(candidate)
	if err != nil {
		return nil, err
	}
	for i := range reqs {
		if reqs[i].Nominator == nominator {
			removed := reqs[i]
			reqs = append(reqs[:i], reqs[i+1:]...)
			if err := s.SetRequests(candidate, reqs); err != nil {
				return nil, err
			}
			return &removed, nil
		}
	}
	return nil, reverts.ErrPendingNominationRequestDNE
}
