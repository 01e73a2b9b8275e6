// Copyright (c) 2026 The AvN Project developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package proxy authorizes meta-transactions: actions signed off-chain
// by one account and submitted on its behalf by a relayer. A proof binds
// signer, relayer, the action's parameters and the signer's nonce, so a
// captured payload cannot be replayed or redirected.
package proxy

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/avn"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/staking/reverts"
	"github.com/AventusProtocolFoundation/avn-parachain-sub000/storage"
)

var slotNonces = avn.BytesToBytes32([]byte("proxy-nonces"))

// Proof accompanies every signed_* call.
type Proof struct {
	Signer    avn.Address
	Relayer   avn.Address
	Signature []byte
}

// Registry verifies proofs and tracks per-signer nonces.
type Registry struct {
	nonces *storage.Mapping[avn.Address, uint64]
}

func NewRegistry(context *storage.Context) *Registry {
	return &Registry{
		nonces: storage.NewMapping[avn.Address, uint64](context, slotNonces),
	}
}

// Nonce returns the signer's next expected nonce.
func (r *Registry) Nonce(signer avn.Address) (uint64, error) {
	nonce, err := r.nonces.Get(signer)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get proxy nonce")
	}
	return nonce, nil
}

// SignaturePayload builds the canonical byte payload a signer commits to:
// the action's domain context, the relayer allowed to submit it, the
// action parameters in order, and the signer's nonce.
func SignaturePayload(context []byte, relayer avn.Address, nonce uint64, params ...interface{}) ([]byte, error) {
	fields := make([]interface{}, 0, len(params)+3)
	fields = append(fields, context, relayer)
	fields = append(fields, params...)
	fields = append(fields, nonce)
	encoded, err := rlp.EncodeToBytes(fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode proxy payload")
	}
	return encoded, nil
}

// Verify checks the proof's signature over the payload for the signer's
// current nonce. It does not consume the nonce.
func (r *Registry) Verify(proof *Proof, context []byte, params ...interface{}) error {
	nonce, err := r.Nonce(proof.Signer)
	if err != nil {
		return err
	}
	payload, err := SignaturePayload(context, proof.Relayer, nonce, params...)
	if err != nil {
		return err
	}
	hash := avn.Blake2b(payload)
	pub, err := crypto.SigToPub(hash.Bytes(), proof.Signature)
	if err != nil {
		return reverts.ErrUnauthorizedProxyTransaction
	}
	if avn.Address(crypto.PubkeyToAddress(*pub)) != proof.Signer {
		return reverts.ErrUnauthorizedProxyTransaction
	}
	return nil
}

// Authorize verifies the proof and consumes the signer's nonce. The
// signed action must run in the same state transaction so a failed
// action rolls the increment back with everything else.
func (r *Registry) Authorize(proof *Proof, context []byte, params ...interface{}) error {
	if err := r.Verify(proof, context, params...); err != nil {
		return err
	}
	nonce, err := r.Nonce(proof.Signer)
	if err != nil {
		return err
	}
	if err := r.nonces.Set(proof.Signer, nonce+1); err != nil {
		return errors.Wrap(err, "failed to set proxy nonce")
	}
	return nil
}

// Sign produces a proof for the payload under the signer's key. Used by
// clients and tests to build signed_* calls.
func Sign(key *ecdsa.PrivateKey, relayer avn.Address, nonce uint64, context []byte, params ...interface{}) (*Proof, error) {
	payload, err := SignaturePayload(context, relayer, nonce, params...)
	if err != nil {
		return nil, err
	}
	hash := avn.Blake2b(payload)
	sig, err := crypto.Sign(hash.Bytes(), key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign proxy payload")
	}
	return &Proof{
		Signer:    avn.Address(crypto.PubkeyToAddress(key.PublicKey)),
		Relayer:   relayer,
		Signature: sig,
	}, nil
}
