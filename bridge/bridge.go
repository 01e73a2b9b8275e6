// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package bridge is the boundary to the external chain. Publishing is
// synchronous up to transaction submission; confirmation arrives later
// as a Result that callers correlate by transaction id.
package bridge

import (
	"github.com/pkg/errors"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
)

// Param is one typed argument of a publish call, already encoded for the
// external chain.
type Param struct {
	TypeTag string
	Value   []byte
}

// Publisher submits a function call to the external chain and returns an
// opaque transaction id for later correlation.
type Publisher interface {
	Publish(method string, params []Param, caller avn.Address) (uint32, error)
}

// Result reports the eventual outcome of a published transaction.
type Result struct {
	TxID      uint32
	Caller    avn.Address
	Succeeded bool
}

// Call is one recorded publish, kept by the mock for assertions.
type Call struct {
	Method string
	Params []Param
	Caller avn.Address
}

// MockPublisher is an in-memory Publisher handing out sequential
// transaction ids. Used in tests and local runs without a bridge.
type MockPublisher struct {
	nextTxID uint32
	Calls    []Call
	failNext bool
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{nextTxID: 1}
}

// FailNext makes the next Publish return an error.
func (m *MockPublisher) FailNext() {
	m.failNext = true
}

func (m *MockPublisher) Publish(method string, params []Param, caller avn.Address) (uint32, error) {
	if m.failNext {
		m.failNext = false
		return 0, errPublishFailed
	}
	m.Calls = append(m.Calls, Call{Method: method, Params: params, Caller: caller})
	txID := m.nextTxID
	m.nextTxID++
	return txID, nil
}

var errPublishFailed = errors.New("bridge: publish failed")
