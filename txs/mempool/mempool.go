// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package mempool holds verified transactions awaiting inclusion in a block.
// Pool management is orchestration, not validation: a transaction must pass
// syntactic and semantic verification before being added here.
package mempool

import (
	"errors"
	"sync"

	"github.com/luxfi/ids"

	"github.com/luxfi/meritvm/txs"
)

const maxMempoolSize = 4096

var (
	ErrDuplicateTx = errors.New("duplicate tx")
	ErrMempoolFull = errors.New("mempool is full")
)

// Mempool is an insertion-ordered pool of pending transactions.
type Mempool struct {
	lock sync.RWMutex

	// txID -> tx, plus insertion order for deterministic block building.
	txs   map[ids.ID]*txs.Tx
	order []ids.ID
}

func New() *Mempool {
	return &Mempool{
		txs: make(map[ids.ID]*txs.Tx),
	}
}

func (m *Mempool) Add(tx *txs.Tx) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	txID := tx.ID()
	if _, ok := m.txs[txID]; ok {
		return ErrDuplicateTx
	}
	if len(m.txs) >= maxMempoolSize {
		return ErrMempoolFull
	}
	m.txs[txID] = tx
	m.order = append(m.order, txID)
	return nil
}

func (m *Mempool) Get(txID ids.ID) (*txs.Tx, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	tx, ok := m.txs[txID]
	return tx, ok
}

func (m *Mempool) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return len(m.txs)
}

// Peek returns up to [n] pending transactions in insertion order.
func (m *Mempool) Peek(n int) []*txs.Tx {
	m.lock.RLock()
	defer m.lock.RUnlock()

	result := make([]*txs.Tx, 0, min(n, len(m.txs)))
	for _, txID := range m.order {
		if len(result) >= n {
			break
		}
		if tx, ok := m.txs[txID]; ok {
			result = append(result, tx)
		}
	}
	return result
}

// Remove drops the given transactions, typically because a block containing
// them was accepted or because they were found invalid during building.
func (m *Mempool) Remove(removed ...*txs.Tx) {
	m.lock.Lock()
	defer m.lock.Unlock()

	for _, tx := range removed {
		delete(m.txs, tx.ID())
	}
	m.compact()
}

func (m *Mempool) compact() {
	if len(m.order) == len(m.txs) {
		return
	}
	order := make([]ids.ID, 0, len(m.txs))
	for _, txID := range m.order {
		if _, ok := m.txs[txID]; ok {
			order = append(order, txID)
		}
	}
	m.order = order
}
