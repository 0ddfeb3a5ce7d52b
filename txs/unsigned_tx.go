// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import (
	"errors"

	"github.com/luxfi/ids"

	"github.com/luxfi/meritvm/crypto"
)

var (
	ErrNilTx             = errors.New("tx is nil")
	ErrBadSender         = errors.New("malformed sender public key")
	ErrBadSignature      = errors.New("invalid transaction signature")
	ErrZeroAmount        = errors.New("transaction amount must be positive")
	ErrSelfTransfer      = errors.New("sender and recipient are the same account")
	ErrInsufficientFunds = errors.New("sender balance is insufficient")
	ErrBadNonce          = errors.New("transaction nonce is not the sender's next nonce")
	ErrInsufficientStake = errors.New("stake is below the minimum validator stake")
	ErrAlreadyValidator  = errors.New("sender is already a registered validator")
)

// UnsignedTx is an unsigned transaction.
type UnsignedTx interface {
	// Sender returns the address derived from the sender's public key.
	Sender() (ids.ShortID, error)

	// SenderKey returns the sender's serialized public key.
	SenderKey() []byte

	// GetNonce returns the transaction's sequence number.
	GetNonce() uint64

	// Bytes returns the canonical byte encoding that the sender signed.
	Bytes() []byte
	SetBytes(unsignedBytes []byte)

	// SyntacticVerify attempts to verify this transaction without any
	// provided state.
	SyntacticVerify() error

	// Visit calls [visitor] with this transaction's concrete type.
	Visit(visitor Visitor) error
}

// BaseTx contains the fields common to every transaction type.
type BaseTx struct {
	// SenderPubKey identifies and authenticates the sender.
	SenderPubKey []byte `serialize:"true" json:"senderPublicKey"`

	// Nonce must be exactly the sender's ledger nonce + 1. Strictly
	// sequential nonces prevent replay and gaps.
	Nonce uint64 `serialize:"true" json:"nonce"`

	// Timestamp is the sender-claimed creation time in Unix seconds. It is
	// signed but not validated against a clock; it exists for audit trails.
	Timestamp int64 `serialize:"true" json:"timestamp"`

	// true iff this transaction has already passed syntactic verification
	SyntacticallyVerified bool `json:"-"`

	unsignedBytes []byte
}

func (tx *BaseTx) Sender() (ids.ShortID, error) {
	addr, err := crypto.AddressOf(tx.SenderPubKey)
	if err != nil {
		return ids.ShortID{}, ErrBadSender
	}
	return addr, nil
}

func (tx *BaseTx) SenderKey() []byte {
	return tx.SenderPubKey
}

func (tx *BaseTx) GetNonce() uint64 {
	return tx.Nonce
}

func (tx *BaseTx) Bytes() []byte {
	return tx.unsignedBytes
}

func (tx *BaseTx) SetBytes(unsignedBytes []byte) {
	tx.unsignedBytes = unsignedBytes
}

// SyntacticVerify checks the fields shared by all transaction types.
func (tx *BaseTx) SyntacticVerify() error {
	switch {
	case tx == nil:
		return ErrNilTx
	case len(tx.SenderPubKey) != crypto.PublicKeyLen:
		return ErrBadSender
	default:
		return nil
	}
}
