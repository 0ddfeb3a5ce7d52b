// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

// Visitor allows the executor to run custom logic against the underlying
// transaction types.
type Visitor interface {
	TransferTx(*TransferTx) error
	RegisterValidatorTx(*RegisterValidatorTx) error
}
