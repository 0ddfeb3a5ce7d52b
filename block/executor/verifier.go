// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package executor verifies candidate blocks against chain state. A block
// moves through Received -> StructurallyChecked -> ProposerVerified ->
// TransactionsVerified; any failure is terminal for that exact block object
// and leaves state untouched.
package executor

import (
	"fmt"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/meritvm/block"
	"github.com/luxfi/meritvm/config"
	"github.com/luxfi/meritvm/crypto"
	"github.com/luxfi/meritvm/state"
	"github.com/luxfi/meritvm/validators"
)

// Parent is the last accepted block's identity, against which a candidate is
// checked.
type Parent struct {
	ID        ids.ID
	Height    uint64
	Timestamp int64
}

// Verifier runs the block validation pipeline.
type Verifier struct {
	Cfg        config.Config
	Log        log.Logger
	Validators *validators.Manager
}

// Verify checks [blk] structurally, against the selected proposer for its
// height, and transaction-by-transaction against [parentState]. On success
// it returns the staged state diff; the caller owns committing it. On
// failure it returns a BlockError and no state is touched.
func (v *Verifier) Verify(
	parent Parent,
	parentState state.Chain,
	blk *block.Stateless,
) (*state.Diff, error) {
	if blk == nil {
		return nil, ErrNilBlock
	}

	if err := v.verifyStructure(parent, blk); err != nil {
		v.rejected(blk, Received, err)
		return nil, err
	}

	if err := v.verifyProposer(parentState, blk); err != nil {
		v.rejected(blk, StructurallyChecked, err)
		return nil, err
	}

	diff, err := v.verifyTxs(parentState, blk)
	if err != nil {
		v.rejected(blk, ProposerVerified, err)
		return nil, err
	}

	v.Log.Debug("block verified",
		log.Stringer("blkID", blk.ID()),
		log.Uint64("height", blk.Height()),
		log.Stringer("status", TransactionsVerified),
		log.Int("txs", len(blk.Txs)),
	)
	return diff, nil
}

func (v *Verifier) verifyStructure(parent Parent, blk *block.Stateless) error {
	switch {
	case blk.Height() != parent.Height+1:
		return fmt.Errorf("%w: got %d, parent %d", ErrStaleHeight, blk.Height(), parent.Height)
	case blk.ParentID() != parent.ID:
		return fmt.Errorf("%w: got %s, last accepted %s", ErrHashMismatch, blk.ParentID(), parent.ID)
	case blk.Timestamp() < parent.Timestamp:
		return fmt.Errorf("%w: %d < %d", ErrInvalidTimestamp, blk.Timestamp(), parent.Timestamp)
	case len(blk.Txs) > v.Cfg.MaxBlockTxs:
		return fmt.Errorf("%w: %d > %d", ErrTooManyTxs, len(blk.Txs), v.Cfg.MaxBlockTxs)
	case blk.Hdr.TxRoot != block.TxRoot(blk.Txs):
		return ErrTxRootMismatch
	default:
		return nil
	}
}

func (v *Verifier) verifyProposer(parentState state.Chain, blk *block.Stateless) error {
	expected, err := v.Validators.ExpectedProposer(blk.Height(), parentState)
	if err != nil {
		return err
	}
	if blk.Proposer() != expected {
		return fmt.Errorf("%w: got %s, expected %s", ErrWrongProposer, blk.Proposer(), expected)
	}

	// The claimed key must actually be the proposer's key, not merely any
	// key with a valid signature.
	proposerAddr, err := crypto.AddressOf(blk.Hdr.ProposerPubKey)
	if err != nil || proposerAddr != blk.Proposer() {
		return ErrBadSignature
	}
	if err := crypto.Verify(blk.Hdr.ProposerPubKey, blk.HeaderBytes(), blk.ProposerSignature); err != nil {
		return fmt.Errorf("%w: %w", ErrBadSignature, err)
	}
	return nil
}

func (v *Verifier) verifyTxs(parentState state.Chain, blk *block.Stateless) (*state.Diff, error) {
	// Signature and well-formedness checks are independent of state and of
	// each other; fan them out.
	var eg errgroup.Group
	for i, tx := range blk.Txs {
		eg.Go(func() error {
			if err := tx.SyntacticVerify(); err != nil {
				return &TxValidationError{
					Index: i,
					TxID:  tx.ID(),
					Cause: err,
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// Stateful checks must run in block order against a scratch copy so
	// that intra-block nonce progression and balance spending are honored.
	diff := state.NewDiff(parentState)
	for i, tx := range blk.Txs {
		if err := ExecuteTx(v.Cfg, diff, tx); err != nil {
			return nil, &TxValidationError{
				Index: i,
				TxID:  tx.ID(),
				Cause: err,
			}
		}
	}
	return diff, nil
}

func (v *Verifier) rejected(blk *block.Stateless, reached Status, err error) {
	v.Log.Debug("block rejected",
		log.Stringer("blkID", blk.ID()),
		log.Uint64("height", blk.Height()),
		log.Stringer("reachedStatus", reached),
		log.Err(err),
	)
}
