// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/storage"
)

var (
	slotDelayedPayouts = avn.BytesToBytes32([]byte("delayed-payouts"))
	slotLockedPayout   = avn.BytesToBytes32([]byte("locked-era-payout"))
)

type Storage struct {
	payouts *storage.Mapping[avn.Bytes32, DelayedPayout]
	locked  *storage.Uint256
}

func NewStorage(sctx *storage.Context) *Storage {
	return &Storage{
		payouts: storage.NewMapping[avn.Bytes32, DelayedPayout](sctx, slotDelayedPayouts),
		locked:  storage.NewUint256(sctx, slotLockedPayout),
	}
}

func eraKey(era uint32) avn.Bytes32 {
	var key avn.Bytes32
	binary.BigEndian.PutUint32(key[:], era)
	return key
}

// DelayedPayout returns the armed payout for era, nil if none.
func (s *Storage) DelayedPayout(era uint32) (*DelayedPayout, error) {
	key := eraKey(era)
	has, err := s.payouts.Has(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check delayed payout")
	}
	if !has {
		return nil, nil
	}
	payout, err := s.payouts.Get(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get delayed payout")
	}
	return &payout, nil
}

func (s *Storage) SetDelayedPayout(era uint32, payout DelayedPayout) error {
	if err := s.payouts.Set(eraKey(era), payout); err != nil {
		return errors.Wrap(err, "failed to set delayed payout")
	}
	return nil
}

func (s *Storage) DeleteDelayedPayout(era uint32) {
	s.payouts.Delete(eraKey(era))
}

// Locked returns the sum of armed but not yet disbursed payouts.
func (s *Storage) Locked() (*big.Int, error) {
	locked, err := s.locked.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get locked era payout")
	}
	return locked, nil
}

// Lock increases the locked amount when a payout is armed.
func (s *Storage) Lock(amount *big.Int) error {
	if err := s.locked.Add(amount); err != nil {
		return errors.Wrap(err, "failed to lock era payout")
	}
	return nil
}

// Unlock decreases the locked amount as payees are paid. It never goes
// below zero.
func (s *Storage) Unlock(amount *big.Int) error {
	locked, err := s.Locked()
	if err != nil {
		return err
	}
	if locked.Cmp(amount) < 0 {
		amount = locked
	}
	if err := s.locked.Sub(amount); err != nil {
		return errors.Wrap(err, "failed to unlock era payout")
	}
	return nil
}
