// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package reward defines the contribution-score update policy applied when a
// block is accepted. The policy is a strategy seam: the chain only depends on
// Calculator, so deployments can swap increment, decay, or penalty rules
// without touching block execution.
package reward

import safemath "github.com/luxfi/math"

// Calculator computes post-acceptance contribution scores.
type Calculator interface {
	// ScoreAfterProposal returns the proposer's score after it proposed an
	// accepted block.
	ScoreAfterProposal(current uint64) uint64

	// ScoreAfterAttestation returns an eligible non-proposing validator's
	// score after a block it co-validated was accepted.
	ScoreAfterAttestation(current uint64) uint64
}

// Config parametrizes the default calculator.
type Config struct {
	ProposerReward uint64
	AttesterReward uint64
	Decay          uint64
	MaxScore       uint64
}

type calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) Calculator {
	return &calculator{cfg: cfg}
}

func (c *calculator) ScoreAfterProposal(current uint64) uint64 {
	return c.next(current, c.cfg.ProposerReward)
}

func (c *calculator) ScoreAfterAttestation(current uint64) uint64 {
	return c.next(current, c.cfg.AttesterReward)
}

// next applies decay then the increment, clamped to [0, MaxScore].
func (c *calculator) next(current uint64, increment uint64) uint64 {
	decayed := current - min(current, c.cfg.Decay)
	next, err := safemath.Add64(decayed, increment)
	if err != nil {
		next = c.cfg.MaxScore
	}
	return min(next, c.cfg.MaxScore)
}
