// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package era

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/storage"
)

var (
	slotEra      = avn.BytesToBytes32([]byte("era-info"))
	slotAtStake  = avn.BytesToBytes32([]byte("at-stake"))
	slotPoints   = avn.BytesToBytes32([]byte("era-points"))
	slotAwarded  = avn.BytesToBytes32([]byte("awarded-points"))
	slotStaked   = avn.BytesToBytes32([]byte("era-staked"))
	slotSelected = avn.BytesToBytes32([]byte("selected-candidates"))
)

func eraKey(era uint32) avn.Bytes32 {
	var key avn.Bytes32
	binary.BigEndian.PutUint32(key[:], era)
	return key
}

func snapshotKey(era uint32, collator avn.Address) avn.Bytes32 {
	var key avn.Bytes32
	binary.BigEndian.PutUint32(key[:], era)
	copy(key[4:], collator[:])
	return key
}

type Storage struct {
	era      *storage.Raw[Info]
	atStake  *storage.Mapping[avn.Bytes32, Snapshot]
	points   *storage.Mapping[avn.Bytes32, uint32]
	awarded  *storage.Mapping[avn.Bytes32, []CollatorPoints]
	staked   *storage.Mapping[avn.Bytes32, *big.Int]
	selected *storage.Raw[[]avn.Address]
}

func NewStorage(sctx *storage.Context) *Storage {
	return &Storage{
		era:      storage.NewRaw[Info](sctx, slotEra),
		atStake:  storage.NewMapping[avn.Bytes32, Snapshot](sctx, slotAtStake),
		points:   storage.NewMapping[avn.Bytes32, uint32](sctx, slotPoints),
		awarded:  storage.NewMapping[avn.Bytes32, []CollatorPoints](sctx, slotAwarded),
		staked:   storage.NewMapping[avn.Bytes32, *big.Int](sctx, slotStaked),
		selected: storage.NewRaw[[]avn.Address](sctx, slotSelected),
	}
}

func (s *Storage) GetEra() (Info, error) {
	info, err := s.era.Get()
	if err != nil {
		return Info{}, errors.Wrap(err, "failed to get era info")
	}
	return info, nil
}

func (s *Storage) SetEra(info Info) error {
	if err := s.era.Set(info); err != nil {
		return errors.Wrap(err, "failed to set era info")
	}
	return nil
}

// GetSnapshot returns the collator's snapshot for era, nil if absent.
func (s *Storage) GetSnapshot(era uint32, collator avn.Address) (*Snapshot, error) {
	key := snapshotKey(era, collator)
	has, err := s.atStake.Has(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check snapshot")
	}
	if !has {
		return nil, nil
	}
	snap, err := s.atStake.Get(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get snapshot")
	}
	return &snap, nil
}

func (s *Storage) SetSnapshot(era uint32, collator avn.Address, snap Snapshot) error {
	if err := s.atStake.Set(snapshotKey(era, collator), snap); err != nil {
		return errors.Wrap(err, "failed to set snapshot")
	}
	return nil
}

func (s *Storage) DeleteSnapshot(era uint32, collator avn.Address) {
	s.atStake.Delete(snapshotKey(era, collator))
}

// Points returns the total points recorded for era.
func (s *Storage) Points(era uint32) (uint32, error) {
	pts, err := s.points.Get(eraKey(era))
	if err != nil {
		return 0, errors.Wrap(err, "failed to get era points")
	}
	return pts, nil
}

func (s *Storage) SetPoints(era uint32, pts uint32) error {
	if err := s.points.Set(eraKey(era), pts); err != nil {
		return errors.Wrap(err, "failed to set era points")
	}
	return nil
}

func (s *Storage) DeletePoints(era uint32) {
	s.points.Delete(eraKey(era))
}

// Awarded returns the per-collator points list for era.
func (s *Storage) Awarded(era uint32) ([]CollatorPoints, error) {
	list, err := s.awarded.Get(eraKey(era))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get awarded points")
	}
	return list, nil
}

func (s *Storage) SetAwarded(era uint32, list []CollatorPoints) error {
	if len(list) == 0 {
		s.awarded.Delete(eraKey(era))
		return nil
	}
	if err := s.awarded.Set(eraKey(era), list); err != nil {
		return errors.Wrap(err, "failed to set awarded points")
	}
	return nil
}

// AwardPoints adds pts to the collator's score for era and to the era total.
func (s *Storage) AwardPoints(era uint32, collator avn.Address, pts uint32) error {
	list, err := s.Awarded(era)
	if err != nil {
		return err
	}
	found := false
	for i := range list {
		if list[i].Collator == collator {
			list[i].Points += pts
			found = true
			break
		}
	}
	if !found {
		list = append(list, CollatorPoints{Collator: collator, Points: pts})
	}
	if err := s.SetAwarded(era, list); err != nil {
		return err
	}
	total, err := s.Points(era)
	if err != nil {
		return err
	}
	return s.SetPoints(era, total+pts)
}

// TakeFirstAwarded pops the first collator points entry for era,
// nil once the era is drained.
func (s *Storage) TakeFirstAwarded(era uint32) (*CollatorPoints, error) {
	list, err := s.Awarded(era)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	first := list[0]
	if err := s.SetAwarded(era, list[1:]); err != nil {
		return nil, err
	}
	return &first, nil
}

// Staked returns the total stake recorded for era.
func (s *Storage) Staked(era uint32) (*big.Int, error) {
	staked, err := s.staked.Get(eraKey(era))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get era staked")
	}
	if staked == nil {
		return new(big.Int), nil
	}
	return staked, nil
}

func (s *Storage) SetStaked(era uint32, staked *big.Int) error {
	if err := s.staked.Set(eraKey(era), staked); err != nil {
		return errors.Wrap(err, "failed to set era staked")
	}
	return nil
}

// TakeStaked removes and returns the total stake recorded for era.
func (s *Storage) TakeStaked(era uint32) (*big.Int, error) {
	staked, err := s.Staked(era)
	if err != nil {
		return nil, err
	}
	s.staked.Delete(eraKey(era))
	return staked, nil
}

// Selected returns the currently selected collator set.
func (s *Storage) Selected() ([]avn.Address, error) {
	selected, err := s.selected.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get selected candidates")
	}
	return selected, nil
}

func (s *Storage) SetSelected(selected []avn.Address) error {
	if err := s.selected.Set(selected); err != nil {
		return errors.Wrap(err, "failed to set selected candidates")
	}
	return nil
}
