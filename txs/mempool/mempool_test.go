// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mempool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/meritvm/crypto"
	"github.com/luxfi/meritvm/txs"
)

func newTx(t *testing.T, nonce uint64) *txs.Tx {
	key, err := crypto.GenerateKey(nil)
	require.NoError(t, err)
	recipient, err := crypto.GenerateKey(nil)
	require.NoError(t, err)

	tx, err := txs.NewSigned(&txs.TransferTx{
		BaseTx: txs.BaseTx{
			SenderPubKey: key.PublicKey(),
			Nonce:        nonce,
		},
		To:     recipient.Address(),
		Amount: 1,
	}, key)
	require.NoError(t, err)
	return tx
}

func TestMempoolAddGet(t *testing.T) {
	require := require.New(t)
	m := New()

	tx := newTx(t, 1)
	require.NoError(m.Add(tx))
	require.Equal(1, m.Len())

	got, ok := m.Get(tx.ID())
	require.True(ok)
	require.Equal(tx, got)

	_, ok = m.Get(newTx(t, 1).ID())
	require.False(ok)
}

func TestMempoolRejectsDuplicates(t *testing.T) {
	require := require.New(t)
	m := New()

	tx := newTx(t, 1)
	require.NoError(m.Add(tx))
	require.ErrorIs(m.Add(tx), ErrDuplicateTx)
	require.Equal(1, m.Len())
}

func TestMempoolPeekOrder(t *testing.T) {
	require := require.New(t)
	m := New()

	first := newTx(t, 1)
	second := newTx(t, 2)
	third := newTx(t, 3)
	require.NoError(m.Add(first))
	require.NoError(m.Add(second))
	require.NoError(m.Add(third))

	// Peek returns insertion order and does not drain the pool.
	require.Equal([]*txs.Tx{first, second}, m.Peek(2))
	require.Equal([]*txs.Tx{first, second, third}, m.Peek(10))
	require.Equal(3, m.Len())
}

func TestMempoolRemove(t *testing.T) {
	require := require.New(t)
	m := New()

	first := newTx(t, 1)
	second := newTx(t, 2)
	third := newTx(t, 3)
	require.NoError(m.Add(first))
	require.NoError(m.Add(second))
	require.NoError(m.Add(third))

	m.Remove(first, third)
	require.Equal(1, m.Len())
	require.Equal([]*txs.Tx{second}, m.Peek(10))

	// Removing an absent tx is a no-op.
	m.Remove(first)
	require.Equal(1, m.Len())

	// A removed tx can be re-added.
	require.NoError(m.Add(first))
	require.Equal([]*txs.Tx{second, first}, m.Peek(10))
}
