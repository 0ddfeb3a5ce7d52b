// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import "errors"

var (
	errNoProposerReward = errors.New("proposer reward must be positive")
	errStakeTooLow      = errors.New("minimum validator stake must be positive")
	errMaxScoreTooLow   = errors.New("max score must be at least the initial score")
	errNoBlockCapacity  = errors.New("max block txs must be positive")
)

// Config holds the policy knobs of the ledger core. All values are consensus
// critical: every node in a deployment must run with identical values.
type Config struct {
	// MinValidatorStake is the smallest bond accepted by a
	// RegisterValidatorTx.
	MinValidatorStake uint64 `json:"minValidatorStake"`

	// MinEligibilityScore is the contribution score below which a registered
	// validator is excluded from proposer selection.
	MinEligibilityScore uint64 `json:"minEligibilityScore"`

	// InitialScore is the contribution score granted upon registration.
	InitialScore uint64 `json:"initialScore"`

	// MaxScore caps accumulated contribution scores.
	MaxScore uint64 `json:"maxScore"`

	// ProposerReward is the score increment earned by the proposer of an
	// accepted block.
	ProposerReward uint64 `json:"proposerReward"`

	// AttesterReward is the score increment earned by every other eligible
	// validator at the height of an accepted block.
	AttesterReward uint64 `json:"attesterReward"`

	// ScoreDecay is subtracted from every validator's score each accepted
	// block, before rewards. Zero disables decay.
	ScoreDecay uint64 `json:"scoreDecay"`

	// MaxBlockTxs bounds the number of transactions in a block.
	MaxBlockTxs int `json:"maxBlockTxs"`
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		MinValidatorStake:   1000,
		MinEligibilityScore: 50,
		InitialScore:        100,
		MaxScore:            1000,
		ProposerReward:      10,
		AttesterReward:      1,
		ScoreDecay:          0,
		MaxBlockTxs:         1024,
	}
}

func (c *Config) Validate() error {
	switch {
	case c.ProposerReward == 0:
		return errNoProposerReward
	case c.MinValidatorStake == 0:
		return errStakeTooLow
	case c.MaxScore < c.InitialScore:
		return errMaxScoreTooLow
	case c.MaxBlockTxs <= 0:
		return errNoBlockCapacity
	default:
		return nil
	}
}
