// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package genesis builds and commits the height-0 block from an initial
// allocation of balances and validators. The genesis block's ID is derived
// from the canonical encoding of the full configuration, so two nodes with
// different genesis files can never link to each other's chains.
package genesis

import (
	"errors"
	"fmt"

	"github.com/luxfi/codec"
	"github.com/luxfi/codec/linearcodec"
	"github.com/luxfi/ids"
	safemath "github.com/luxfi/math"
	"github.com/luxfi/math/set"

	"github.com/luxfi/meritvm/block"
	"github.com/luxfi/meritvm/config"
	"github.com/luxfi/meritvm/crypto"
	"github.com/luxfi/meritvm/state"
)

// CodecVersion is the version of the genesis serialization format.
const CodecVersion = 0

var (
	ErrNoValidators     = errors.New("genesis must include at least one validator")
	ErrDuplicateAddress = errors.New("duplicate address in genesis")
	ErrStakeTooLow      = errors.New("genesis validator stake below minimum")
	ErrGenesisMismatch  = errors.New("genesis does not match the committed chain")

	genesisCodec codec.Manager
)

func init() {
	c := linearcodec.NewDefault()
	genesisCodec = codec.NewDefaultManager()
	if err := genesisCodec.RegisterCodec(CodecVersion, c); err != nil {
		panic(err)
	}
}

// Allocation credits an address at genesis.
type Allocation struct {
	Address ids.ShortID `serialize:"true" json:"address"`
	Balance uint64      `serialize:"true" json:"balance"`
}

// Validator registers an address as a validator at genesis.
type Validator struct {
	Address ids.ShortID `serialize:"true" json:"address"`
	Stake   uint64      `serialize:"true" json:"stake"`

	// Score is the starting contribution score. Zero means the configured
	// initial score.
	Score uint64 `serialize:"true" json:"score"`
}

// Genesis is the chain's initial condition.
type Genesis struct {
	Timestamp   int64        `serialize:"true" json:"timestamp"`
	Allocations []Allocation `serialize:"true" json:"allocations"`
	Validators  []Validator  `serialize:"true" json:"validators"`
}

func (g *Genesis) Validate(cfg config.Config) error {
	if len(g.Validators) == 0 {
		return ErrNoValidators
	}

	seen := set.NewSet[ids.ShortID](len(g.Allocations))
	for _, alloc := range g.Allocations {
		if seen.Contains(alloc.Address) {
			return fmt.Errorf("%w: %s", ErrDuplicateAddress, alloc.Address)
		}
		seen.Add(alloc.Address)
	}

	validators := set.NewSet[ids.ShortID](len(g.Validators))
	for _, vdr := range g.Validators {
		if validators.Contains(vdr.Address) {
			return fmt.Errorf("%w: %s", ErrDuplicateAddress, vdr.Address)
		}
		validators.Add(vdr.Address)
		if vdr.Stake < cfg.MinValidatorStake {
			return fmt.Errorf("%w: %s staked %d", ErrStakeTooLow, vdr.Address, vdr.Stake)
		}
	}
	return nil
}

// Bytes returns the canonical encoding of [g].
func (g *Genesis) Bytes() ([]byte, error) {
	return genesisCodec.Marshal(CodecVersion, g)
}

// Commit validates [g], builds the genesis block, and commits it to a fresh
// [s]. If [s] is already initialized the stored genesis block is returned
// unchanged, so restarting a node is idempotent. A restart with a [g] whose
// digest does not match the committed height-0 block is refused: the node
// would otherwise silently resume a chain it does not agree on.
func Commit(g *Genesis, cfg config.Config, s state.State) (*block.Stateless, error) {
	if err := g.Validate(cfg); err != nil {
		return nil, err
	}
	genesisBytes, err := g.Bytes()
	if err != nil {
		return nil, err
	}
	contentDigest := crypto.HashID(genesisBytes)

	if s.IsInitialized() {
		blk, err := s.GetBlock(0)
		if err != nil {
			return nil, err
		}
		if blk.Hdr.TxRoot != contentDigest {
			return nil, fmt.Errorf("%w: committed %s, supplied %s", ErrGenesisMismatch, blk.Hdr.TxRoot, contentDigest)
		}
		return blk, nil
	}

	blk, err := block.BuildGenesis(g.Timestamp, contentDigest)
	if err != nil {
		return nil, err
	}

	diff := state.NewDiff(s)
	for _, alloc := range g.Allocations {
		acct, err := state.GetAccountOrZero(diff, alloc.Address)
		if err != nil {
			return nil, err
		}
		acct.Balance, err = safemath.Add64(acct.Balance, alloc.Balance)
		if err != nil {
			return nil, err
		}
		diff.SetAccount(alloc.Address, acct)
	}
	for _, vdr := range g.Validators {
		acct, err := state.GetAccountOrZero(diff, vdr.Address)
		if err != nil {
			return nil, err
		}
		acct.Stake = vdr.Stake
		acct.Registered = true
		acct.Score = vdr.Score
		if acct.Score == 0 {
			acct.Score = cfg.InitialScore
		}
		diff.SetAccount(vdr.Address, acct)
	}

	if err := s.CommitBlock(blk, diff); err != nil {
		return nil, err
	}
	return blk, nil
}
