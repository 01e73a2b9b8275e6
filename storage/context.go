// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/state"
)

// Context binds typed storage accessors to the state slice owned by one
// module address.
type Context struct {
	address avn.Address
	state   *state.State
}

func NewContext(address avn.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() avn.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}
