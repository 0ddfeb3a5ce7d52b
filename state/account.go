// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import "github.com/luxfi/ids"

// Account is the ledger's record for a single address. Accounts are created
// implicitly on first credit and mutated only through block application.
type Account struct {
	// Balance is the spendable amount, excluding bonded stake.
	Balance uint64 `serialize:"true" json:"balance"`

	// Nonce is the sequence number of the last accepted transaction from
	// this account. The next valid transaction nonce is Nonce + 1.
	Nonce uint64 `serialize:"true" json:"nonce"`

	// Stake is the amount bonded by a RegisterValidatorTx.
	Stake uint64 `serialize:"true" json:"stake"`

	// Score is the accumulated contribution score.
	Score uint64 `serialize:"true" json:"score"`

	// Registered is true once the account has bonded stake as a validator.
	Registered bool `serialize:"true" json:"registered"`
}

// Validator is the view of a registered account that proposer selection
// reads.
type Validator struct {
	Address ids.ShortID `json:"address"`
	Score   uint64      `json:"score"`
	Stake   uint64      `json:"stake"`
}
