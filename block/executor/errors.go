// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"errors"
	"fmt"
)

var (
	ErrNilBlock         = errors.New("block is nil")
	ErrStaleHeight      = errors.New("block height is not parent height + 1")
	ErrHashMismatch     = errors.New("block parent hash does not match last accepted block")
	ErrInvalidTimestamp = errors.New("block timestamp precedes parent timestamp")
	ErrTxRootMismatch   = errors.New("block tx root does not match its transactions")
	ErrTooManyTxs       = errors.New("block exceeds the transaction capacity")
	ErrWrongProposer    = errors.New("block proposer is not the selected proposer for this height")
	ErrBadSignature     = errors.New("invalid proposer signature over block header")

	// ErrTxValidationFailed is matched by every TxValidationError.
	ErrTxValidationFailed = errors.New("transaction validation failed")
)

// TxValidationError reports the first transaction that failed verification,
// by position, so the submitting peer can be told exactly what was wrong.
// The whole block is rejected; no prefix of it is retained.
type TxValidationError struct {
	Index int
	TxID  fmt.Stringer
	Cause error
}

func (e *TxValidationError) Error() string {
	return fmt.Sprintf("tx %s at index %d invalid: %s", e.TxID, e.Index, e.Cause)
}

func (e *TxValidationError) Unwrap() error {
	return e.Cause
}

func (e *TxValidationError) Is(target error) bool {
	return target == ErrTxValidationFailed
}
