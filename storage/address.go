// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
)

// Address is a wrapper for storage and retrieval of an address, bound to a fixed slot.
type Address struct {
	context *Context
	pos     avn.Bytes32
}

func NewAddress(context *Context, pos avn.Bytes32) *Address {
	return &Address{context: context, pos: pos}
}

func (a *Address) Get() (avn.Address, error) {
	storage, err := a.context.state.GetStorage(a.context.address, a.pos)
	if err != nil {
		return avn.Address{}, err
	}
	return avn.BytesToAddress(storage.Bytes()), nil
}

func (a *Address) Set(addr *avn.Address) {
	var storage avn.Bytes32
	if addr != nil {
		storage = avn.BytesToBytes32(addr.Bytes())
	}
	a.context.state.SetStorage(a.context.address, a.pos, storage)
}
