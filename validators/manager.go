// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package validators derives the ordered proposer set for a height from
// ledger state. The derivation is a pure function of (state, height): every
// node computing it independently must reach the same answer, so ranking uses
// only committed data and ties break on addresses, never on local entropy.
package validators

import (
	"bytes"
	"errors"

	"github.com/google/btree"
	"github.com/luxfi/cache/lru"
	"github.com/luxfi/ids"

	"github.com/luxfi/meritvm/config"
	"github.com/luxfi/meritvm/state"
)

const (
	validatorSetsCacheSize = 64

	rankingTreeDegree = 2
)

var (
	// ErrNoValidators is returned when no registered validator meets the
	// eligibility thresholds at a height.
	ErrNoValidators = errors.New("no eligible validators")

	// ErrUnknownHeight is returned when a validator set is requested for a
	// height whose set was never derived and has since left the cache.
	ErrUnknownHeight = errors.New("validator set unavailable for height")
)

// rankedValidator orders the eligible set: higher score first, then
// lexicographically smaller address. Deterministic across nodes.
type rankedValidator struct {
	state.Validator
}

func (v rankedValidator) Less(than rankedValidator) bool {
	if v.Score != than.Score {
		return v.Score > than.Score
	}
	return bytes.Compare(v.Address[:], than.Address[:]) == -1
}

// Manager derives and caches validator sets.
//
// Invariant maintained by the chain: the set for height h is derived exactly
// once, from the ledger state left by block h-1, before any later block is
// applied. Sets for heights at or below the current height are therefore
// immutable and safe to cache.
type Manager struct {
	cfg config.Config

	validatorSetsCache *lru.Cache[uint64, []state.Validator]
}

func NewManager(cfg config.Config) *Manager {
	return &Manager{
		cfg:                cfg,
		validatorSetsCache: lru.NewCache[uint64, []state.Validator](validatorSetsCacheSize),
	}
}

// GetValidatorSet returns the score-ranked eligible validators for [height],
// deriving it from [src] on a cache miss.
func (m *Manager) GetValidatorSet(height uint64, src state.Chain) ([]state.Validator, error) {
	if validatorSet, ok := m.validatorSetsCache.Get(height); ok {
		return validatorSet, nil
	}

	validatorSet, err := m.deriveValidatorSet(src)
	if err != nil {
		return nil, err
	}
	m.validatorSetsCache.Put(height, validatorSet)
	return validatorSet, nil
}

// GetCachedValidatorSet returns the set previously derived for [height]
// without touching state. Used to answer queries for historical heights.
func (m *Manager) GetCachedValidatorSet(height uint64) ([]state.Validator, error) {
	validatorSet, ok := m.validatorSetsCache.Get(height)
	if !ok {
		return nil, ErrUnknownHeight
	}
	return validatorSet, nil
}

// ExpectedProposer returns the address that must propose the block at
// [height]: the entry at index height mod N of the ranked eligible set.
func (m *Manager) ExpectedProposer(height uint64, src state.Chain) (ids.ShortID, error) {
	validatorSet, err := m.GetValidatorSet(height, src)
	if err != nil {
		return ids.ShortID{}, err
	}
	if len(validatorSet) == 0 {
		return ids.ShortID{}, ErrNoValidators
	}
	return validatorSet[height%uint64(len(validatorSet))].Address, nil
}

func (m *Manager) deriveValidatorSet(src state.Chain) ([]state.Validator, error) {
	registered, err := src.GetValidators()
	if err != nil {
		return nil, err
	}

	tree := btree.NewG(rankingTreeDegree, rankedValidator.Less)
	for _, vdr := range registered {
		if vdr.Stake < m.cfg.MinValidatorStake || vdr.Score < m.cfg.MinEligibilityScore {
			continue
		}
		tree.ReplaceOrInsert(rankedValidator{Validator: vdr})
	}

	validatorSet := make([]state.Validator, 0, tree.Len())
	tree.Ascend(func(vdr rankedValidator) bool {
		validatorSet = append(validatorSet, vdr.Validator)
		return true
	})
	return validatorSet, nil
}
