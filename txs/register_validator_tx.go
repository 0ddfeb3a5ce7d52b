// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

var _ UnsignedTx = (*RegisterValidatorTx)(nil)

// RegisterValidatorTx bonds [Stake] units of the sender's balance, making the
// sender a registered validator eligible for proposer selection once its
// contribution score meets the configured minimum.
type RegisterValidatorTx struct {
	BaseTx `serialize:"true"`

	// Stake is the amount moved from balance to bond. Must meet the
	// configured minimum; checked at semantic verification since the
	// minimum is a chain policy, not a structural property.
	Stake uint64 `serialize:"true" json:"stake"`
}

// SyntacticVerify returns nil iff [tx] is well-formed independent of chain
// state.
func (tx *RegisterValidatorTx) SyntacticVerify() error {
	switch {
	case tx == nil:
		return ErrNilTx
	case tx.SyntacticallyVerified:
		return nil
	}

	if err := tx.BaseTx.SyntacticVerify(); err != nil {
		return err
	}
	if tx.Stake == 0 {
		return ErrZeroAmount
	}

	tx.SyntacticallyVerified = true
	return nil
}

func (tx *RegisterValidatorTx) Visit(visitor Visitor) error {
	return visitor.RegisterValidatorTx(tx)
}
