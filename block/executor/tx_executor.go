// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"github.com/luxfi/database"
	"github.com/luxfi/ids"
	safemath "github.com/luxfi/math"

	"github.com/luxfi/meritvm/config"
	"github.com/luxfi/meritvm/state"
	"github.com/luxfi/meritvm/txs"
)

var _ txs.Visitor = (*txExecutor)(nil)

// txExecutor verifies a transaction against the diff and applies its effects
// to it. Transactions within a block run through the same executor in order,
// so each one observes the balances and nonces left by its predecessors.
type txExecutor struct {
	cfg  config.Config
	diff *state.Diff
}

// ExecuteTx verifies [tx] against [diff] and stages its effects. The
// signature and well-formedness of [tx] must already have been checked.
func ExecuteTx(cfg config.Config, diff *state.Diff, tx *txs.Tx) error {
	return tx.Unsigned.Visit(&txExecutor{
		cfg:  cfg,
		diff: diff,
	})
}

// SemanticVerifyTx verifies [tx] against [view] without staging anything.
func SemanticVerifyTx(cfg config.Config, view state.Chain, tx *txs.Tx) error {
	return ExecuteTx(cfg, state.NewDiff(view), tx)
}

func (e *txExecutor) TransferTx(tx *txs.TransferTx) error {
	sender, senderAcct, err := e.senderAccount(&tx.BaseTx)
	if err != nil {
		return err
	}
	if senderAcct.Balance < tx.Amount {
		return txs.ErrInsufficientFunds
	}

	recipientAcct, err := state.GetAccountOrZero(e.diff, tx.To)
	if err != nil {
		return err
	}
	newRecipientBalance, err := safemath.Add64(recipientAcct.Balance, tx.Amount)
	if err != nil {
		return err
	}

	senderAcct.Balance -= tx.Amount
	senderAcct.Nonce = tx.Nonce
	recipientAcct.Balance = newRecipientBalance

	e.diff.SetAccount(sender, senderAcct)
	e.diff.SetAccount(tx.To, recipientAcct)
	return nil
}

func (e *txExecutor) RegisterValidatorTx(tx *txs.RegisterValidatorTx) error {
	sender, senderAcct, err := e.senderAccount(&tx.BaseTx)
	if err != nil {
		return err
	}
	switch {
	case senderAcct.Registered:
		return txs.ErrAlreadyValidator
	case tx.Stake < e.cfg.MinValidatorStake:
		return txs.ErrInsufficientStake
	case senderAcct.Balance < tx.Stake:
		return txs.ErrInsufficientFunds
	}

	senderAcct.Balance -= tx.Stake
	senderAcct.Stake = tx.Stake
	senderAcct.Nonce = tx.Nonce
	senderAcct.Registered = true
	// Registration grants the configured starting score; an account that
	// somehow already exceeds it keeps the higher value.
	senderAcct.Score = max(senderAcct.Score, e.cfg.InitialScore)

	e.diff.SetAccount(sender, senderAcct)
	return nil
}

// senderAccount resolves the sender's account and enforces the strictly
// sequential nonce rule shared by all transaction types.
func (e *txExecutor) senderAccount(tx *txs.BaseTx) (ids.ShortID, state.Account, error) {
	sender, err := tx.Sender()
	if err != nil {
		return ids.ShortID{}, state.Account{}, err
	}
	acct, err := e.diff.GetAccount(sender)
	if err == database.ErrNotFound {
		// Sender has no funded account; treat it as unfunded rather than
		// exposing a distinct existence error.
		return ids.ShortID{}, state.Account{}, txs.ErrInsufficientFunds
	}
	if err != nil {
		return ids.ShortID{}, state.Account{}, err
	}
	if tx.Nonce != acct.Nonce+1 {
		return ids.ShortID{}, state.Account{}, txs.ErrBadNonce
	}
	return sender, acct, nil
}
