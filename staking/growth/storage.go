// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package growth

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/storage"
)

var (
	slotGrowth        = avn.BytesToBytes32([]byte("growth-info"))
	slotGrowthPeriod  = avn.BytesToBytes32([]byte("growth-period"))
	slotLastTriggered = avn.BytesToBytes32([]byte("growth-last-triggered"))
	slotProcessed     = avn.BytesToBytes32([]byte("growth-processed"))
	slotPublished     = avn.BytesToBytes32([]byte("growth-published-tx"))
	slotAwaiting      = avn.BytesToBytes32([]byte("growth-awaiting-publish"))
)

type periodKey uint32

func (k periodKey) Bytes() []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(k))
	return b[:]
}

// Storage persists growth periods, their lifecycle watermarks and the
// correlation between publish transactions and periods.
type Storage struct {
	growth        *storage.Mapping[periodKey, Info]
	period        *storage.Raw[PeriodInfo]
	lastTriggered *storage.Raw[uint32]
	processed     *storage.Mapping[periodKey, bool]
	published     *storage.Mapping[periodKey, uint32]
	awaiting      *storage.Raw[[]uint32]
}

func NewStorage(context *storage.Context) *Storage {
	return &Storage{
		growth:        storage.NewMapping[periodKey, Info](context, slotGrowth),
		period:        storage.NewRaw[PeriodInfo](context, slotGrowthPeriod),
		lastTriggered: storage.NewRaw[uint32](context, slotLastTriggered),
		processed:     storage.NewMapping[periodKey, bool](context, slotProcessed),
		published:     storage.NewMapping[periodKey, uint32](context, slotPublished),
		awaiting:      storage.NewRaw[[]uint32](context, slotAwaiting),
	}
}

// Period returns the open accumulation window.
func (s *Storage) Period() (PeriodInfo, error) {
	info, err := s.period.Get()
	if err != nil {
		return PeriodInfo{}, errors.Wrap(err, "failed to get growth period")
	}
	return info, nil
}

func (s *Storage) SetPeriod(info PeriodInfo) error {
	if err := s.period.Set(info); err != nil {
		return errors.Wrap(err, "failed to set growth period")
	}
	return nil
}

// Get returns the accumulation for a period, normalized so the big.Int
// totals are always non-nil.
func (s *Storage) Get(period uint32) (Info, error) {
	has, err := s.growth.Has(periodKey(period))
	if err != nil {
		return Info{}, errors.Wrap(err, "failed to check growth info")
	}
	if !has {
		return NewInfo(), nil
	}
	info, err := s.growth.Get(periodKey(period))
	if err != nil {
		return Info{}, errors.Wrap(err, "failed to get growth info")
	}
	if info.TotalStakeAccumulated == nil {
		info.TotalStakeAccumulated = NewInfo().TotalStakeAccumulated
	}
	if info.TotalStakerReward == nil {
		info.TotalStakerReward = NewInfo().TotalStakerReward
	}
	return info, nil
}

func (s *Storage) Set(period uint32, info Info) error {
	if err := s.growth.Set(periodKey(period), info); err != nil {
		return errors.Wrap(err, "failed to set growth info")
	}
	return nil
}

// LastTriggered is the highest period index already handed to voting,
// or false when no period has been triggered yet.
func (s *Storage) LastTriggered() (uint32, bool, error) {
	has, err := s.lastTriggered.Has()
	if err != nil {
		return 0, false, errors.Wrap(err, "failed to check last triggered growth")
	}
	if !has {
		return 0, false, nil
	}
	period, err := s.lastTriggered.Get()
	if err != nil {
		return 0, false, errors.Wrap(err, "failed to get last triggered growth")
	}
	return period, true, nil
}

func (s *Storage) SetLastTriggered(period uint32) error {
	if err := s.lastTriggered.Set(period); err != nil {
		return errors.Wrap(err, "failed to set last triggered growth")
	}
	return nil
}

// AwaitingPublish lists approved periods whose bridge publish has not
// succeeded yet, oldest first.
func (s *Storage) AwaitingPublish() ([]uint32, error) {
	has, err := s.awaiting.Has()
	if err != nil {
		return nil, errors.Wrap(err, "failed to check growths awaiting publish")
	}
	if !has {
		return nil, nil
	}
	periods, err := s.awaiting.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get growths awaiting publish")
	}
	return periods, nil
}

func (s *Storage) AddAwaitingPublish(period uint32) error {
	periods, err := s.AwaitingPublish()
	if err != nil {
		return err
	}
	for _, p := range periods {
		if p == period {
			return nil
		}
	}
	if err := s.awaiting.Set(append(periods, period)); err != nil {
		return errors.Wrap(err, "failed to set growths awaiting publish")
	}
	return nil
}

func (s *Storage) RemoveAwaitingPublish(period uint32) error {
	periods, err := s.AwaitingPublish()
	if err != nil {
		return err
	}
	kept := periods[:0]
	for _, p := range periods {
		if p != period {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(periods) {
		return nil
	}
	if len(kept) == 0 {
		s.awaiting.Delete()
		return nil
	}
	if err := s.awaiting.Set(kept); err != nil {
		return errors.Wrap(err, "failed to set growths awaiting publish")
	}
	return nil
}

// IsProcessed reports whether a period's collator payout already ran.
func (s *Storage) IsProcessed(period uint32) (bool, error) {
	has, err := s.processed.Has(periodKey(period))
	if err != nil {
		return false, errors.Wrap(err, "failed to check processed growth")
	}
	return has, nil
}

func (s *Storage) MarkProcessed(period uint32) error {
	if err := s.processed.Set(periodKey(period), true); err != nil {
		return errors.Wrap(err, "failed to mark growth processed")
	}
	return nil
}

// PeriodForTx resolves a publish transaction id back to its period.
func (s *Storage) PeriodForTx(txID uint32) (uint32, bool, error) {
	has, err := s.published.Has(periodKey(txID))
	if err != nil {
		return 0, false, errors.Wrap(err, "failed to check published growth")
	}
	if !has {
		return 0, false, nil
	}
	period, err := s.published.Get(periodKey(txID))
	if err != nil {
		return 0, false, errors.Wrap(err, "failed to get published growth")
	}
	return period, true, nil
}

func (s *Storage) SetPeriodForTx(txID, period uint32) error {
	if err := s.published.Set(periodKey(txID), period); err != nil {
		return errors.Wrap(err, "failed to set published growth")
	}
	return nil
}

func (s *Storage) DeletePeriodForTx(txID uint32) {
	s.published.Delete(periodKey(txID))
}
