// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import "github.com/luxfi/ids"

var _ UnsignedTx = (*TransferTx)(nil)

// TransferTx moves [Amount] units from the sender to [To].
type TransferTx struct {
	BaseTx `serialize:"true"`

	// To is the recipient's address. The recipient account is created
	// implicitly on first credit.
	To ids.ShortID `serialize:"true" json:"to"`

	// Amount must be positive.
	Amount uint64 `serialize:"true" json:"amount"`
}

// SyntacticVerify returns nil iff [tx] is well-formed independent of chain
// state.
func (tx *TransferTx) SyntacticVerify() error {
	switch {
	case tx == nil:
		return ErrNilTx
	case tx.SyntacticallyVerified:
		return nil
	}

	if err := tx.BaseTx.SyntacticVerify(); err != nil {
		return err
	}
	if tx.Amount == 0 {
		return ErrZeroAmount
	}

	// Self-transfers are rejected: they move no value but would still
	// consume a nonce.
	sender, err := tx.Sender()
	if err != nil {
		return err
	}
	if sender == tx.To {
		return ErrSelfTransfer
	}

	tx.SyntacticallyVerified = true
	return nil
}

func (tx *TransferTx) Visit(visitor Visitor) error {
	return visitor.TransferTx(tx)
}
