// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package chain sequences block submission, validation, application, and
// validator re-derivation. It is the only writer of ledger state: block
// application is serialized under an exclusive lock, while reads proceed
// concurrently against the last committed snapshot.
package chain

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/meritvm/block"
	"github.com/luxfi/meritvm/block/executor"
	"github.com/luxfi/meritvm/config"
	"github.com/luxfi/meritvm/crypto"
	"github.com/luxfi/meritvm/genesis"
	"github.com/luxfi/meritvm/metrics"
	"github.com/luxfi/meritvm/reward"
	"github.com/luxfi/meritvm/state"
	"github.com/luxfi/meritvm/txs"
	"github.com/luxfi/meritvm/txs/mempool"
	"github.com/luxfi/meritvm/validators"
)

var (
	// ErrHalted is returned after an internal state invariant violation.
	// The chain refuses all further mutation rather than risk divergence.
	ErrHalted = errors.New("chain halted after state error")

	errNotSelected = errors.New("key is not the selected proposer for the next height")
)

// Chain is the ledger core's external surface.
type Chain struct {
	cfg        config.Config
	log        log.Logger
	metrics    *metrics.Metrics
	rewards    reward.Calculator
	validators *validators.Manager
	mempool    *mempool.Mempool

	// lock serializes state mutation. Concurrent appliers would race on
	// nonce and balance updates, so there is exactly one writer at a time;
	// readers share the lock and observe the last committed snapshot.
	lock   sync.RWMutex
	state  state.State
	halted bool

	parent executor.Parent
}

// New opens the chain over [db], committing [gen] if the database is fresh.
func New(
	cfg config.Config,
	db database.Database,
	gen *genesis.Genesis,
	logger log.Logger,
	registerer prometheus.Registerer,
) (*Chain, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NoLog{}
	}
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}

	m, err := metrics.New("meritvm", registerer)
	if err != nil {
		return nil, err
	}

	ledger, err := state.New(db)
	if err != nil {
		return nil, err
	}

	genesisBlk, err := genesis.Commit(gen, cfg, ledger)
	if err != nil {
		return nil, err
	}

	c := &Chain{
		cfg:     cfg,
		log:     logger,
		metrics: m,
		rewards: reward.NewCalculator(reward.Config{
			ProposerReward: cfg.ProposerReward,
			AttesterReward: cfg.AttesterReward,
			Decay:          cfg.ScoreDecay,
			MaxScore:       cfg.MaxScore,
		}),
		validators: validators.NewManager(cfg),
		mempool:    mempool.New(),
		state:      ledger,
	}

	// Resume from the last accepted block; on a fresh database that is the
	// genesis block just committed.
	c.parent = executor.Parent{
		ID:        ledger.GetLastAccepted(),
		Height:    ledger.GetHeight(),
		Timestamp: ledger.GetTimestamp(),
	}
	m.Height.Set(float64(c.parent.Height))

	c.log.Info("chain open",
		log.Stringer("lastAccepted", c.parent.ID),
		log.Uint64("height", c.parent.Height),
		log.Stringer("genesisID", genesisBlk.ID()),
	)
	return c, nil
}

// SubmitTx verifies [tx] both statelessly and against current ledger state,
// then admits it to the pending pool.
func (c *Chain) SubmitTx(tx *txs.Tx) error {
	if err := tx.SyntacticVerify(); err != nil {
		c.metrics.TxsRejected.Inc()
		return err
	}

	c.lock.RLock()
	err := executor.SemanticVerifyTx(c.cfg, c.state, tx)
	c.lock.RUnlock()
	if err != nil {
		c.metrics.TxsRejected.Inc()
		return err
	}

	if err := c.mempool.Add(tx); err != nil {
		return err
	}
	c.log.Debug("tx added to mempool",
		log.Stringer("txID", tx.ID()),
		log.Int("mempoolLen", c.mempool.Len()),
	)
	return nil
}

// SubmitTxBytes parses and submits a transaction from its wire encoding.
func (c *Chain) SubmitTxBytes(txBytes []byte) error {
	tx, err := txs.Parse(txBytes)
	if err != nil {
		c.metrics.TxsRejected.Inc()
		return err
	}
	return c.SubmitTx(tx)
}

// SubmitBlockBytes parses and submits a block from its wire encoding.
func (c *Chain) SubmitBlockBytes(blkBytes []byte) (ids.ID, error) {
	blk, err := block.Parse(blkBytes)
	if err != nil {
		c.metrics.MarkRejected("unparseable")
		return ids.Empty, err
	}
	return c.SubmitBlock(blk)
}

// SubmitBlock runs the full validation pipeline over [blk] and, on success,
// atomically applies it: balances and nonces move, contribution scores
// update, and the validator set for the next height is re-derived. Rejection
// leaves state untouched and is final for this exact block object.
func (c *Chain) SubmitBlock(blk *block.Stateless) (ids.ID, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.halted {
		return ids.Empty, ErrHalted
	}

	start := time.Now()
	verifier := &executor.Verifier{
		Cfg:        c.cfg,
		Log:        c.log,
		Validators: c.validators,
	}
	diff, err := verifier.Verify(c.parent, c.state, blk)
	c.metrics.BlockVerify.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.MarkRejected(rejectionReason(err))
		return ids.Empty, err
	}

	if err := c.accept(blk, diff); err != nil {
		return ids.Empty, err
	}
	return blk.ID(), nil
}

// accept applies rewards, commits, and advances the chain head.
func (c *Chain) accept(blk *block.Stateless, diff *state.Diff) error {
	if err := c.applyRewards(blk, diff); err != nil {
		return c.halt(err)
	}
	if err := c.state.CommitBlock(blk, diff); err != nil {
		return c.halt(err)
	}

	c.parent = executor.Parent{
		ID:        blk.ID(),
		Height:    blk.Height(),
		Timestamp: blk.Timestamp(),
	}
	c.mempool.Remove(blk.Txs...)

	// Derive the next height's validator set from the state this block just
	// produced. This pins the set in the cache before any further mutation.
	validatorSet, err := c.validators.GetValidatorSet(blk.Height()+1, c.state)
	if err != nil && !errors.Is(err, validators.ErrNoValidators) {
		return c.halt(err)
	}

	c.metrics.BlocksAccepted.Inc()
	c.metrics.TxsAccepted.Add(float64(len(blk.Txs)))
	c.metrics.Height.Set(float64(blk.Height()))
	c.metrics.EligibleValidators.Set(float64(len(validatorSet)))

	c.log.Info("block accepted",
		log.Stringer("blkID", blk.ID()),
		log.Uint64("height", blk.Height()),
		log.Int("txs", len(blk.Txs)),
		log.Int("validators", len(validatorSet)),
	)
	return nil
}

// applyRewards credits the proposer and every other eligible validator at
// this height through the configured policy.
func (c *Chain) applyRewards(blk *block.Stateless, diff *state.Diff) error {
	validatorSet, err := c.validators.GetValidatorSet(blk.Height(), c.state)
	if err != nil {
		return err
	}
	for _, vdr := range validatorSet {
		acct, err := diff.GetAccount(vdr.Address)
		if err != nil {
			return err
		}
		if vdr.Address == blk.Proposer() {
			acct.Score = c.rewards.ScoreAfterProposal(acct.Score)
		} else {
			acct.Score = c.rewards.ScoreAfterAttestation(acct.Score)
		}
		diff.SetAccount(vdr.Address, acct)
	}
	return nil
}

// halt latches the chain closed after an invariant violation.
func (c *Chain) halt(err error) error {
	c.halted = true
	c.log.Error("halting block application",
		log.Uint64("height", c.parent.Height),
		log.Err(err),
	)
	return fmt.Errorf("%w: %w", ErrHalted, err)
}

// BuildBlock assembles, seals, and returns the next block from pending
// transactions, if [key] controls the selected proposer for the next height.
// The block is not applied; submit it like any other candidate.
func (c *Chain) BuildBlock(key *crypto.Key, timestamp int64) (*block.Stateless, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if c.halted {
		return nil, ErrHalted
	}

	height := c.parent.Height + 1
	expected, err := c.validators.ExpectedProposer(height, c.state)
	if err != nil {
		return nil, err
	}
	if key.Address() != expected {
		return nil, fmt.Errorf("%w: expected %s", errNotSelected, expected)
	}
	if timestamp < c.parent.Timestamp {
		timestamp = c.parent.Timestamp
	}

	// Select pending txs that remain valid when executed in order.
	diff := state.NewDiff(c.state)
	var (
		selected []*txs.Tx
		invalid  []*txs.Tx
	)
	for _, tx := range c.mempool.Peek(c.cfg.MaxBlockTxs) {
		if err := executor.ExecuteTx(c.cfg, diff, tx); err != nil {
			invalid = append(invalid, tx)
			continue
		}
		selected = append(selected, tx)
	}
	c.mempool.Remove(invalid...)

	return block.Build(c.parent.ID, height, timestamp, selected, key)
}

// CurrentHeight returns the height of the last accepted block.
func (c *Chain) CurrentHeight() uint64 {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.parent.Height
}

// LastAccepted returns the ID of the last accepted block.
func (c *Chain) LastAccepted() ids.ID {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.parent.ID
}

// GetValidatorSet returns the ordered proposer committee for [height]. The
// set for the next height is always available; older sets are served from
// the cache while present.
func (c *Chain) GetValidatorSet(height uint64) ([]state.Validator, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if height == c.parent.Height+1 {
		return c.validators.GetValidatorSet(height, c.state)
	}
	return c.validators.GetCachedValidatorSet(height)
}

// GetAccount returns the balance, nonce, and contribution score at [addr].
func (c *Chain) GetAccount(addr ids.ShortID) (state.Account, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.state.GetAccount(addr)
}

// GetBlock returns the accepted block at [height].
func (c *Chain) GetBlock(height uint64) (*block.Stateless, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.state.GetBlock(height)
}

// Close releases the underlying database.
func (c *Chain) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.state.Close()
}

// rejectionReason maps a verification error onto a bounded metric label.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, executor.ErrStaleHeight):
		return "stale_height"
	case errors.Is(err, executor.ErrHashMismatch):
		return "hash_mismatch"
	case errors.Is(err, executor.ErrInvalidTimestamp):
		return "invalid_timestamp"
	case errors.Is(err, executor.ErrTxRootMismatch):
		return "tx_root_mismatch"
	case errors.Is(err, executor.ErrTooManyTxs):
		return "too_many_txs"
	case errors.Is(err, executor.ErrWrongProposer):
		return "wrong_proposer"
	case errors.Is(err, executor.ErrBadSignature):
		return "bad_signature"
	case errors.Is(err, executor.ErrTxValidationFailed):
		return "tx_validation_failed"
	default:
		return "other"
	}
}
