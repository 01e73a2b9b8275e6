// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/reverts"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/storage"
)

// Defaults apply until an admin overrides the setting.
var (
	DefaultDelay                  = uint32(2)
	DefaultTotalSelected          = uint32(10)
	DefaultEraLength              = uint32(30)
	DefaultMinCollatorStake       = big.NewInt(10_000)
	DefaultMinTotalNominatorStake = big.NewInt(10)
)

// MinTotalSelected is the floor for the selected collator set size.
const MinTotalSelected = uint32(5)

var (
	slotDelay             = avn.BytesToBytes32([]byte("param-delay"))
	slotMinCollatorStake  = avn.BytesToBytes32([]byte("param-min-collator-stake"))
	slotMinNominatorStake = avn.BytesToBytes32([]byte("param-min-total-nominator-stake"))
	slotTotalSelected     = avn.BytesToBytes32([]byte("param-total-selected"))
	slotGrowthEnabled     = avn.BytesToBytes32([]byte("param-growth-enabled"))
)

// Params is the admin-settable configuration. A zero stored value means
// unset and is read as the default.
type Params struct {
	delay                  *storage.Uint64
	minCollatorStake       *storage.Uint256
	minTotalNominatorStake *storage.Uint256
	totalSelected          *storage.Uint64
	growthEnabled          *storage.Raw[bool]
}

func NewParams(sctx *storage.Context) *Params {
	return &Params{
		delay:                  storage.NewUint64(sctx, slotDelay),
		minCollatorStake:       storage.NewUint256(sctx, slotMinCollatorStake),
		minTotalNominatorStake: storage.NewUint256(sctx, slotMinNominatorStake),
		totalSelected:          storage.NewUint64(sctx, slotTotalSelected),
		growthEnabled:          storage.NewRaw[bool](sctx, slotGrowthEnabled),
	}
}

// Delay is the number of eras between scheduling and executing a request.
func (p *Params) Delay() (uint32, error) {
	v, err := p.delay.Get()
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return DefaultDelay, nil
	}
	return uint32(v), nil
}

// MinCollatorStake is the self-bond floor for candidates.
func (p *Params) MinCollatorStake() (*big.Int, error) {
	v, err := p.minCollatorStake.Get()
	if err != nil {
		return nil, err
	}
	if v.Sign() == 0 {
		return new(big.Int).Set(DefaultMinCollatorStake), nil
	}
	return v, nil
}

// MinTotalNominatorStake is the floor for a backer's net bonded total.
func (p *Params) MinTotalNominatorStake() (*big.Int, error) {
	v, err := p.minTotalNominatorStake.Get()
	if err != nil {
		return nil, err
	}
	if v.Sign() == 0 {
		return new(big.Int).Set(DefaultMinTotalNominatorStake), nil
	}
	return v, nil
}

// TotalSelected is the size of the selected collator set.
func (p *Params) TotalSelected() (uint32, error) {
	v, err := p.totalSelected.Get()
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return DefaultTotalSelected, nil
	}
	return uint32(v), nil
}

// GrowthEnabled reports whether paid eras accumulate into growth periods.
func (p *Params) GrowthEnabled() (bool, error) {
	has, err := p.growthEnabled.Has()
	if err != nil {
		return false, err
	}
	if !has {
		return true, nil
	}
	return p.growthEnabled.Get()
}

// SetDelay updates the request execution delay.
func (s *Staker) SetDelay(delay uint32) error {
	return s.atomic(func() error { return s.doSetDelay(delay) })
}

func (s *Staker) doSetDelay(delay uint32) error {
	if delay == 0 {
		return reverts.ErrAdminSettingsValueIsNotValid
	}
	current, err := s.params.Delay()
	if err != nil {
		return err
	}
	if current == delay {
		return reverts.ErrNoWritingSameValue
	}
	s.params.delay.Set(uint64(delay))
	return nil
}

// SetMinCollatorStake updates the candidate self-bond floor.
func (s *Staker) SetMinCollatorStake(amount *big.Int) error {
	return s.atomic(func() error { return s.doSetMinCollatorStake(amount) })
}

func (s *Staker) doSetMinCollatorStake(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return reverts.ErrAdminSettingsValueIsNotValid
	}
	current, err := s.params.MinCollatorStake()
	if err != nil {
		return err
	}
	if current.Cmp(amount) == 0 {
		return reverts.ErrNoWritingSameValue
	}
	s.params.minCollatorStake.Set(amount)
	return nil
}

// SetMinTotalNominatorStake updates the backer net total floor.
func (s *Staker) SetMinTotalNominatorStake(amount *big.Int) error {
	return s.atomic(func() error { return s.doSetMinTotalNominatorStake(amount) })
}

func (s *Staker) doSetMinTotalNominatorStake(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 || amount.Cmp(MinNominationPerCollator) < 0 {
		return reverts.ErrAdminSettingsValueIsNotValid
	}
	current, err := s.params.MinTotalNominatorStake()
	if err != nil {
		return err
	}
	if current.Cmp(amount) == 0 {
		return reverts.ErrNoWritingSameValue
	}
	s.params.minTotalNominatorStake.Set(amount)
	return nil
}

// SetTotalSelected updates the selected set size. The era length must
// still cover paying every selected collator one per block.
func (s *Staker) SetTotalSelected(count uint32) error {
	return s.atomic(func() error { return s.doSetTotalSelected(count) })
}

func (s *Staker) doSetTotalSelected(count uint32) error {
	if count < MinTotalSelected {
		return reverts.ErrCannotSetBelowMin
	}
	current, err := s.params.TotalSelected()
	if err != nil {
		return err
	}
	if current == count {
		return reverts.ErrNoWritingSameValue
	}
	info, err := s.eras.GetEra()
	if err != nil {
		return err
	}
	length := info.Length
	if length == 0 {
		length = DefaultEraLength
	}
	if length < count {
		return reverts.ErrEraLengthMustBeAtLeastTotalSelected
	}
	s.params.totalSelected.Set(uint64(count))
	return nil
}

// SetEraLength updates the era length in blocks.
func (s *Staker) SetEraLength(length uint32) error {
	return s.atomic(func() error { return s.doSetEraLength(length) })
}

func (s *Staker) doSetEraLength(length uint32) error {
	if length == 0 {
		return reverts.ErrAdminSettingsValueIsNotValid
	}
	selected, err := s.params.TotalSelected()
	if err != nil {
		return err
	}
	if length < selected {
		return reverts.ErrEraLengthMustBeAtLeastTotalSelected
	}
	info, err := s.eras.GetEra()
	if err != nil {
		return err
	}
	if info.Length == length {
		return reverts.ErrNoWritingSameValue
	}
	info.Length = length
	if err := s.eras.SetEra(info); err != nil {
		return err
	}
	s.events.Record(EraLengthSet{Length: length})
	return nil
}

// SetGrowthEnabled toggles growth accumulation.
func (s *Staker) SetGrowthEnabled(enabled bool) error {
	return s.atomic(func() error { return s.doSetGrowthEnabled(enabled) })
}

func (s *Staker) doSetGrowthEnabled(enabled bool) error {
	current, err := s.params.GrowthEnabled()
	if err != nil {
		return err
	}
	if current == enabled {
		return reverts.ErrNoWritingSameValue
	}
	return s.params.growthEnabled.Set(enabled)
}
