// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validators

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/meritvm/config"
	"github.com/luxfi/meritvm/state"
)

// chainView is a static state.Chain for selection tests.
type chainView struct {
	validators []state.Validator
}

func (v *chainView) GetAccount(ids.ShortID) (state.Account, error) {
	return state.Account{}, nil
}

func (v *chainView) GetValidators() ([]state.Validator, error) {
	return v.validators, nil
}

func addr(b byte) ids.ShortID {
	var a ids.ShortID
	a[0] = b
	return a
}

func TestRankingOrder(t *testing.T) {
	require := require.New(t)

	cfg := config.Default()
	m := NewManager(cfg)

	src := &chainView{validators: []state.Validator{
		{Address: addr(3), Score: 100, Stake: 1000},
		{Address: addr(1), Score: 300, Stake: 1000},
		{Address: addr(2), Score: 200, Stake: 1000},
	}}

	set, err := m.GetValidatorSet(1, src)
	require.NoError(err)
	require.Len(set, 3)
	require.Equal(addr(1), set[0].Address)
	require.Equal(addr(2), set[1].Address)
	require.Equal(addr(3), set[2].Address)
}

func TestRankingTieBreaksOnAddress(t *testing.T) {
	require := require.New(t)

	m := NewManager(config.Default())
	src := &chainView{validators: []state.Validator{
		{Address: addr(9), Score: 200, Stake: 1000},
		{Address: addr(4), Score: 200, Stake: 1000},
		{Address: addr(7), Score: 200, Stake: 1000},
	}}

	set, err := m.GetValidatorSet(1, src)
	require.NoError(err)
	require.Len(set, 3)
	require.Equal(addr(4), set[0].Address)
	require.Equal(addr(7), set[1].Address)
	require.Equal(addr(9), set[2].Address)
}

func TestEligibilityThresholds(t *testing.T) {
	require := require.New(t)

	cfg := config.Default() // MinValidatorStake 1000, MinEligibilityScore 50
	m := NewManager(cfg)
	src := &chainView{validators: []state.Validator{
		{Address: addr(1), Score: 300, Stake: 1000},
		{Address: addr(2), Score: 300, Stake: 999}, // understaked
		{Address: addr(3), Score: 49, Stake: 5000}, // score too low
		{Address: addr(4), Score: 50, Stake: 1000}, // exactly at thresholds
	}}

	set, err := m.GetValidatorSet(1, src)
	require.NoError(err)
	require.Len(set, 2)
	require.Equal(addr(1), set[0].Address)
	require.Equal(addr(4), set[1].Address)
}

func TestProposerRoundRobin(t *testing.T) {
	require := require.New(t)

	src := &chainView{validators: []state.Validator{
		{Address: addr(1), Score: 300, Stake: 1000},
		{Address: addr(2), Score: 200, Stake: 1000},
		{Address: addr(3), Score: 100, Stake: 1000},
	}}

	// Fresh managers per height: the proposer at height h is ranked[h mod 3].
	for height, want := range map[uint64]ids.ShortID{
		1: addr(2),
		2: addr(3),
		3: addr(1),
		4: addr(2),
	} {
		m := NewManager(config.Default())
		proposer, err := m.ExpectedProposer(height, src)
		require.NoError(err)
		require.Equal(want, proposer, "height %d", height)
	}
}

func TestProposerDeterminism(t *testing.T) {
	require := require.New(t)

	src := &chainView{validators: []state.Validator{
		{Address: addr(1), Score: 300, Stake: 1000},
		{Address: addr(2), Score: 200, Stake: 1000},
	}}

	first, err := NewManager(config.Default()).ExpectedProposer(7, src)
	require.NoError(err)
	for i := 0; i < 10; i++ {
		again, err := NewManager(config.Default()).ExpectedProposer(7, src)
		require.NoError(err)
		require.Equal(first, again)
	}
}

func TestNoEligibleValidators(t *testing.T) {
	require := require.New(t)

	m := NewManager(config.Default())
	src := &chainView{}

	_, err := m.ExpectedProposer(1, src)
	require.ErrorIs(err, ErrNoValidators)
}

func TestCachedSets(t *testing.T) {
	require := require.New(t)

	m := NewManager(config.Default())
	src := &chainView{validators: []state.Validator{
		{Address: addr(1), Score: 300, Stake: 1000},
	}}

	derived, err := m.GetValidatorSet(5, src)
	require.NoError(err)

	cached, err := m.GetCachedValidatorSet(5)
	require.NoError(err)
	require.Equal(derived, cached)

	_, err = m.GetCachedValidatorSet(6)
	require.ErrorIs(err, ErrUnknownHeight)
}
