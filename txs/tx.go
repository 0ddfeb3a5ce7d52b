// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import (
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/meritvm/crypto"
)

// Tx is a signed transaction.
type Tx struct {
	// The body of this transaction
	Unsigned UnsignedTx `serialize:"true" json:"unsignedTx"`

	// Signature over the canonical bytes of [Unsigned] by the sender's key.
	Signature []byte `serialize:"true" json:"signature"`

	TxID  ids.ID `json:"id"`
	bytes []byte
}

// NewSigned builds and signs a transaction.
func NewSigned(unsigned UnsignedTx, key *crypto.Key) (*Tx, error) {
	unsignedBytes, err := Codec.Marshal(CodecVersion, &unsigned)
	if err != nil {
		return nil, fmt.Errorf("couldn't marshal UnsignedTx: %w", err)
	}
	tx := &Tx{
		Unsigned:  unsigned,
		Signature: key.Sign(unsignedBytes),
	}
	return tx, tx.Initialize()
}

// Parse decodes a signed transaction from its canonical bytes.
func Parse(signedBytes []byte) (*Tx, error) {
	tx := &Tx{}
	if _, err := Codec.Unmarshal(signedBytes, tx); err != nil {
		return nil, fmt.Errorf("couldn't parse tx: %w", err)
	}
	return tx, tx.Initialize()
}

// Initialize computes the canonical unsigned and signed bytes and the
// transaction ID. It must be called after construction or decoding, before
// any verification.
func (tx *Tx) Initialize() error {
	signedBytes, err := Codec.Marshal(CodecVersion, tx)
	if err != nil {
		return fmt.Errorf("couldn't marshal Tx: %w", err)
	}
	unsignedBytes, err := Codec.Marshal(CodecVersion, &tx.Unsigned)
	if err != nil {
		return fmt.Errorf("couldn't marshal UnsignedTx: %w", err)
	}
	tx.Unsigned.SetBytes(unsignedBytes)
	tx.bytes = signedBytes
	tx.TxID = crypto.HashID(signedBytes)
	return nil
}

// ID returns the unique identifier of this tx: the hash of its signed bytes.
func (tx *Tx) ID() ids.ID {
	return tx.TxID
}

// Bytes returns the canonical byte representation of this tx.
func (tx *Tx) Bytes() []byte {
	return tx.bytes
}

// SyntacticVerify checks that the transaction is well-formed and that the
// signature verifies against the sender's public key over the canonical
// unsigned bytes. Pure: no chain state is read.
func (tx *Tx) SyntacticVerify() error {
	if tx == nil || tx.Unsigned == nil {
		return ErrNilTx
	}
	if err := tx.Unsigned.SyntacticVerify(); err != nil {
		return err
	}
	if err := crypto.Verify(tx.Unsigned.SenderKey(), tx.Unsigned.Bytes(), tx.Signature); err != nil {
		return fmt.Errorf("%w: %w", ErrBadSignature, err)
	}
	return nil
}
