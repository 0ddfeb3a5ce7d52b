// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package block

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/meritvm/crypto"
	"github.com/luxfi/meritvm/txs"
)

func newTestKey(t *testing.T) *crypto.Key {
	key, err := crypto.GenerateKey(nil)
	require.NoError(t, err)
	return key
}

func newTestTx(t *testing.T, key *crypto.Key, nonce uint64) *txs.Tx {
	recipient := newTestKey(t)
	tx, err := txs.NewSigned(&txs.TransferTx{
		BaseTx: txs.BaseTx{
			SenderPubKey: key.PublicKey(),
			Nonce:        nonce,
			Timestamp:    1700000000,
		},
		To:     recipient.Address(),
		Amount: 10,
	}, key)
	require.NoError(t, err)
	return tx
}

func TestBuildParseRoundTrip(t *testing.T) {
	require := require.New(t)
	key := newTestKey(t)

	parentID := crypto.HashID([]byte("parent"))
	blockTxs := []*txs.Tx{
		newTestTx(t, key, 1),
		newTestTx(t, key, 2),
	}
	blk, err := Build(parentID, 3, 1700000123, blockTxs, key)
	require.NoError(err)

	parsed, err := Parse(blk.Bytes())
	require.NoError(err)
	require.Equal(blk.ID(), parsed.ID())
	require.Equal(blk.Bytes(), parsed.Bytes())
	require.Equal(blk.HeaderBytes(), parsed.HeaderBytes())
	require.Equal(uint64(3), parsed.Height())
	require.Equal(parentID, parsed.ParentID())
	require.Equal(int64(1700000123), parsed.Timestamp())
	require.Equal(key.Address(), parsed.Proposer())
	require.Len(parsed.Txs, 2)
	require.Equal(blockTxs[0].ID(), parsed.Txs[0].ID())
	require.Equal(blockTxs[1].ID(), parsed.Txs[1].ID())
}

func TestBlockSeal(t *testing.T) {
	require := require.New(t)
	key := newTestKey(t)

	blk, err := Build(ids.Empty, 1, 1700000000, nil, key)
	require.NoError(err)
	require.NoError(crypto.Verify(blk.Hdr.ProposerPubKey, blk.HeaderBytes(), blk.ProposerSignature))
}

func TestIDBindsHeaderFields(t *testing.T) {
	require := require.New(t)
	key := newTestKey(t)

	base, err := Build(ids.Empty, 1, 1700000000, nil, key)
	require.NoError(err)

	differentHeight, err := Build(ids.Empty, 2, 1700000000, nil, key)
	require.NoError(err)
	require.NotEqual(base.ID(), differentHeight.ID())

	differentParent, err := Build(crypto.HashID([]byte("x")), 1, 1700000000, nil, key)
	require.NoError(err)
	require.NotEqual(base.ID(), differentParent.ID())

	differentTime, err := Build(ids.Empty, 1, 1700000001, nil, key)
	require.NoError(err)
	require.NotEqual(base.ID(), differentTime.ID())

	// Same inputs reproduce the same ID.
	same, err := Build(ids.Empty, 1, 1700000000, nil, key)
	require.NoError(err)
	require.Equal(base.ID(), same.ID())
}

func TestIDBindsTxSequence(t *testing.T) {
	require := require.New(t)
	key := newTestKey(t)

	a := newTestTx(t, key, 1)
	b := newTestTx(t, key, 2)

	blkAB, err := Build(ids.Empty, 1, 1700000000, []*txs.Tx{a, b}, key)
	require.NoError(err)
	blkBA, err := Build(ids.Empty, 1, 1700000000, []*txs.Tx{b, a}, key)
	require.NoError(err)

	// Transaction order is part of the block's identity.
	require.NotEqual(blkAB.ID(), blkBA.ID())
	require.NotEqual(TxRoot([]*txs.Tx{a, b}), TxRoot([]*txs.Tx{b, a}))
}

func TestGenesisBlock(t *testing.T) {
	require := require.New(t)

	digest := crypto.HashID([]byte("allocations"))
	blk, err := BuildGenesis(1700000000, digest)
	require.NoError(err)
	require.Zero(blk.Height())
	require.Equal(ids.Empty, blk.ParentID())
	require.Empty(blk.ProposerSignature)

	other, err := BuildGenesis(1700000000, crypto.HashID([]byte("different")))
	require.NoError(err)
	require.NotEqual(blk.ID(), other.ID())
}
