// Copyright (c) 2026 The AvN Project developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/kv"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/stackedmap"
)

var (
	balanceStorePrefix = []byte("b")
	storageStorePrefix = []byte("s")
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

type (
	balanceKey avn.Address
	storageKey struct {
		addr avn.Address
		key  avn.Bytes32
	}
)

// State manages account balances and per-account storage on top of a kv store,
// with checkpoint/revert semantics backed by a stacked map.
type State struct {
	store kv.GetPutter
	sm    *stackedmap.StackedMap
}

// New create state object.
func New(store kv.GetPutter) *State {
	state := &State{store: store}
	state.sm = stackedmap.New(func(key any) (any, bool, error) {
		return state.storeGetter(key)
	})
	// base level, so puts are always legal
	state.sm.Push()
	return state
}

func (s *State) storeGetter(key any) (value any, exist bool, err error) {
	switch k := key.(type) {
	case balanceKey:
		data, err := s.store.Get(append(balanceStorePrefix, k[:]...))
		if err != nil {
			if s.store.IsNotFound(err) {
				return &big.Int{}, true, nil
			}
			return nil, false, err
		}
		var balance big.Int
		if err := rlp.DecodeBytes(data, &balance); err != nil {
			return nil, false, err
		}
		return &balance, true, nil
	case storageKey:
		data, err := s.store.Get(storageStoreKey(k))
		if err != nil {
			if s.store.IsNotFound(err) {
				return rlp.RawValue(nil), true, nil
			}
			return nil, false, err
		}
		return rlp.RawValue(data), true, nil
	}
	panic(fmt.Sprintf("unexpected state key type %T", key))
}

func storageStoreKey(k storageKey) []byte {
	key := make([]byte, 0, len(storageStorePrefix)+len(k.addr)+len(k.key))
	key = append(key, storageStorePrefix...)
	key = append(key, k.addr[:]...)
	return append(key, k.key[:]...)
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr avn.Address) (*big.Int, error) {
	v, _, err := s.sm.Get(balanceKey(addr))
	if err != nil {
		return nil, &Error{err}
	}
	return new(big.Int).Set(v.(*big.Int)), nil
}

// SetBalance set balance for the given address.
func (s *State) SetBalance(addr avn.Address, balance *big.Int) {
	s.sm.Put(balanceKey(addr), new(big.Int).Set(balance))
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr avn.Address, key avn.Bytes32) (avn.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return avn.Bytes32{}, err
	}
	if len(raw) == 0 {
		return avn.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return avn.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return avn.Blake2b(raw), nil
	}
	return avn.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr avn.Address, key, value avn.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr avn.Address, key avn.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr avn.Address, key avn.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr avn.Address, key avn.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr avn.Address, key avn.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return &Error{err}
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Commit flushes accumulated changes into the backing store and resets
// the journal. Changes are written in a single batch.
func (s *State) Commit() error {
	batch := s.store.NewBatch()

	// latest value wins, so collapse the journal first
	pending := make(map[any]any)
	s.sm.Journal(func(key, value any) bool {
		pending[key] = value
		return true
	})

	for key, value := range pending {
		switch k := key.(type) {
		case balanceKey:
			balance := value.(*big.Int)
			if balance.Sign() == 0 {
				if err := batch.Delete(append(balanceStorePrefix, k[:]...)); err != nil {
					return &Error{err}
				}
				continue
			}
			data, err := rlp.EncodeToBytes(balance)
			if err != nil {
				return &Error{err}
			}
			if err := batch.Put(append(balanceStorePrefix, k[:]...), data); err != nil {
				return &Error{err}
			}
		case storageKey:
			raw := value.(rlp.RawValue)
			if len(raw) == 0 {
				if err := batch.Delete(storageStoreKey(k)); err != nil {
					return &Error{err}
				}
				continue
			}
			if err := batch.Put(storageStoreKey(k), raw); err != nil {
				return &Error{err}
			}
		}
	}

	if err := batch.Write(); err != nil {
		return &Error{err}
	}

	s.sm.PopTo(0)
	s.sm.Push()
	return nil
}
