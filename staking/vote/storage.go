// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vote

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/storage"
)

var (
	slotSessions = avn.BytesToBytes32([]byte("voting-session"))
	slotStatus   = avn.BytesToBytes32([]byte("voting-status"))
)

type periodKey uint32

func (k periodKey) Bytes() []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(k))
	return b[:]
}

// Storage persists voting sessions and period statuses keyed by growth
// period index.
type Storage struct {
	sessions *storage.Mapping[periodKey, *Session]
	status   *storage.Mapping[periodKey, uint8]
}

func NewStorage(context *storage.Context) *Storage {
	return &Storage{
		sessions: storage.NewMapping[periodKey, *Session](context, slotSessions),
		status:   storage.NewMapping[periodKey, uint8](context, slotStatus),
	}
}

// Get returns the session for the period, or nil when none exists.
func (s *Storage) Get(period uint32) (*Session, error) {
	has, err := s.sessions.Has(periodKey(period))
	if err != nil {
		return nil, errors.Wrap(err, "failed to check voting session")
	}
	if !has {
		return nil, nil
	}
	session, err := s.sessions.Get(periodKey(period))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get voting session")
	}
	return session, nil
}

func (s *Storage) Set(period uint32, session *Session) error {
	if err := s.sessions.Set(periodKey(period), session); err != nil {
		return errors.Wrap(err, "failed to set voting session")
	}
	return nil
}

func (s *Storage) Delete(period uint32) {
	s.sessions.Delete(periodKey(period))
}

// Status returns the period's lifecycle status, pending when unset.
func (s *Storage) Status(period uint32) (Status, error) {
	has, err := s.status.Has(periodKey(period))
	if err != nil {
		return StatusPending, errors.Wrap(err, "failed to check voting status")
	}
	if !has {
		return StatusPending, nil
	}
	raw, err := s.status.Get(periodKey(period))
	if err != nil {
		return StatusPending, errors.Wrap(err, "failed to get voting status")
	}
	return Status(raw), nil
}

func (s *Storage) SetStatus(period uint32, status Status) error {
	if err := s.status.Set(periodKey(period), uint8(status)); err != nil {
		return errors.Wrap(err, "failed to set voting status")
	}
	return nil
}
