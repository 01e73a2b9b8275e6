// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package candidates

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/stake"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/storage"
)

var (
	slotCandidates = avn.BytesToBytes32([]byte("candidate-info"))
	slotTop        = avn.BytesToBytes32([]byte("top-nominations"))
	slotBottom     = avn.BytesToBytes32([]byte("bottom-nominations"))
	slotPool       = avn.BytesToBytes32([]byte("candidate-pool"))
)

type Storage struct {
	candidates *storage.Mapping[avn.Address, *Candidate]
	top        *storage.Mapping[avn.Address, Nominations]
	bottom     *storage.Mapping[avn.Address, Nominations]
	pool       *storage.Raw[stake.List]
}

func NewStorage(sctx *storage.Context) *Storage {
	return &Storage{
		candidates: storage.NewMapping[avn.Address, *Candidate](sctx, slotCandidates),
		top:        storage.NewMapping[avn.Address, Nominations](sctx, slotTop),
		bottom:     storage.NewMapping[avn.Address, Nominations](sctx, slotBottom),
		pool:       storage.NewRaw[stake.List](sctx, slotPool),
	}
}

// Get returns the candidate record, nil if absent.
func (s *Storage) Get(candidate avn.Address) (*Candidate, error) {
	has, err := s.candidates.Has(candidate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check candidate")
	}
	if !has {
		return nil, nil
	}
	c, err := s.candidates.Get(candidate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get candidate")
	}
	return c, nil
}

func (s *Storage) Set(candidate avn.Address, entry *Candidate) error {
	if err := s.candidates.Set(candidate, entry); err != nil {
		return errors.Wrap(err, "failed to set candidate")
	}
	return nil
}

func (s *Storage) Delete(candidate avn.Address) {
	s.candidates.Delete(candidate)
	s.top.Delete(candidate)
	s.bottom.Delete(candidate)
}

func (s *Storage) Has(candidate avn.Address) (bool, error) {
	return s.candidates.Has(candidate)
}

func (s *Storage) GetTop(candidate avn.Address) (Nominations, error) {
	return s.getNominations(s.top, candidate)
}

func (s *Storage) SetTop(candidate avn.Address, n Nominations) error {
	if err := s.top.Set(candidate, n); err != nil {
		return errors.Wrap(err, "failed to set top nominations")
	}
	return nil
}

func (s *Storage) GetBottom(candidate avn.Address) (Nominations, error) {
	return s.getNominations(s.bottom, candidate)
}

func (s *Storage) SetBottom(candidate avn.Address, n Nominations) error {
	if err := s.bottom.Set(candidate, n); err != nil {
		return errors.Wrap(err, "failed to set bottom nominations")
	}
	return nil
}

func (s *Storage) getNominations(m *storage.Mapping[avn.Address, Nominations], candidate avn.Address) (Nominations, error) {
	n, err := m.Get(candidate)
	if err != nil {
		return Nominations{}, errors.Wrap(err, "failed to get nominations")
	}
	if n.Total == nil {
		n.Total = new(big.Int)
	}
	return n, nil
}

// GetPool returns the global candidate pool entries.
func (s *Storage) GetPool() (stake.List, error) {
	pool, err := s.pool.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get candidate pool")
	}
	return pool, nil
}

func (s *Storage) SetPool(pool stake.List) error {
	if err := s.pool.Set(pool); err != nil {
		return errors.Wrap(err, "failed to set candidate pool")
	}
	return nil
}

// UpdateActive replaces the pool amount recorded for an active candidate.
func (s *Storage) UpdateActive(candidate avn.Address, total *big.Int) error {
	pool, err := s.GetPool()
	if err != nil {
		return err
	}
	if i := pool.IndexOf(candidate); i >= 0 {
		pool[i].Amount = new(big.Int).Set(total)
	}
	return s.SetPool(pool)
}
