// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"errors"
	"fmt"

	"github.com/luxfi/cache/lru"
	"github.com/luxfi/codec"
	"github.com/luxfi/codec/linearcodec"
	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/database/versiondb"
	"github.com/luxfi/ids"

	"github.com/luxfi/meritvm/block"
)

// CodecVersion is the version of the account serialization format.
const CodecVersion = 0

const accountCacheSize = 8192

var (
	// ErrInternal reports an invariant violation during block application.
	// It is unrecoverable: it means either a bug or a prior validation gap,
	// and the safe response is to halt further block application.
	ErrInternal = errors.New("internal state invariant violation")

	accountPrefix   = []byte("account")
	validatorPrefix = []byte("validator")
	blockPrefix     = []byte("block")
	singletonPrefix = []byte("singleton")

	lastAcceptedKey = []byte("last accepted")
	heightKey       = []byte("height")
	timestampKey    = []byte("timestamp")

	accountCodec codec.Manager
)

func init() {
	c := linearcodec.NewDefault()
	accountCodec = codec.NewDefaultManager()
	if err := accountCodec.RegisterCodec(CodecVersion, c); err != nil {
		panic(err)
	}
}

// State is the authoritative ledger state: account balances, nonces, bonded
// stake, and contribution scores, plus the accepted block history.
//
// The persisted schema, all under one database:
//
//	account/<address>  -> codec(Account)
//	validator/<address> -> nil (registration index)
//	block/<height>     -> block bytes
//	singleton/...      -> last accepted ID, height, timestamp
type State interface {
	Chain

	// IsInitialized reports whether a genesis block has been committed.
	IsInitialized() bool

	GetLastAccepted() ids.ID
	GetHeight() uint64
	GetTimestamp() int64

	// GetBlock returns the accepted block at [height].
	GetBlock(height uint64) (*block.Stateless, error)

	// CommitBlock atomically persists [blk] and every account staged in
	// [diff], and advances the last accepted pointer. On any failure no
	// partial mutation survives and ErrInternal is returned.
	CommitBlock(blk *block.Stateless, diff *Diff) error

	Close() error
}

var _ State = (*state)(nil)

type state struct {
	baseDB database.Database
	vdb    *versiondb.Database

	accountDB   database.Database
	validatorDB database.Database
	blockDB     database.Database
	singletonDB database.Database

	accountCache *lru.Cache[ids.ShortID, Account]

	initialized  bool
	lastAccepted ids.ID
	height       uint64
	timestamp    int64
}

// New opens ledger state over [db], resuming from the last accepted block if
// one was previously committed.
func New(db database.Database) (State, error) {
	vdb := versiondb.New(db)
	s := &state{
		baseDB:       db,
		vdb:          vdb,
		accountDB:    prefixdb.New(accountPrefix, vdb),
		validatorDB:  prefixdb.New(validatorPrefix, vdb),
		blockDB:      prefixdb.New(blockPrefix, vdb),
		singletonDB:  prefixdb.New(singletonPrefix, vdb),
		accountCache: lru.NewCache[ids.ShortID, Account](accountCacheSize),
	}

	lastAcceptedBytes, err := s.singletonDB.Get(lastAcceptedKey)
	switch err {
	case nil:
		lastAccepted, err := ids.ToID(lastAcceptedBytes)
		if err != nil {
			return nil, err
		}
		height, err := database.GetUInt64(s.singletonDB, heightKey)
		if err != nil {
			return nil, err
		}
		timestamp, err := database.GetUInt64(s.singletonDB, timestampKey)
		if err != nil {
			return nil, err
		}
		s.initialized = true
		s.lastAccepted = lastAccepted
		s.height = height
		s.timestamp = int64(timestamp)
	case database.ErrNotFound:
		// Fresh database; awaiting genesis.
	default:
		return nil, err
	}
	return s, nil
}

func (s *state) IsInitialized() bool {
	return s.initialized
}

func (s *state) GetLastAccepted() ids.ID {
	return s.lastAccepted
}

func (s *state) GetHeight() uint64 {
	return s.height
}

func (s *state) GetTimestamp() int64 {
	return s.timestamp
}

func (s *state) GetAccount(addr ids.ShortID) (Account, error) {
	if acct, ok := s.accountCache.Get(addr); ok {
		return acct, nil
	}
	acctBytes, err := s.accountDB.Get(addr[:])
	if err != nil {
		return Account{}, err
	}
	acct := Account{}
	if _, err := accountCodec.Unmarshal(acctBytes, &acct); err != nil {
		return Account{}, err
	}
	s.accountCache.Put(addr, acct)
	return acct, nil
}

func (s *state) GetValidators() ([]Validator, error) {
	it := s.validatorDB.NewIterator()
	defer it.Release()

	var validators []Validator
	for it.Next() {
		addr, err := ids.ToShortID(it.Key())
		if err != nil {
			return nil, err
		}
		acct, err := s.GetAccount(addr)
		if err != nil {
			return nil, err
		}
		validators = append(validators, Validator{
			Address: addr,
			Score:   acct.Score,
			Stake:   acct.Stake,
		})
	}
	return validators, it.Error()
}

func (s *state) GetBlock(height uint64) (*block.Stateless, error) {
	blkBytes, err := s.blockDB.Get(database.PackUInt64(height))
	if err != nil {
		return nil, err
	}
	return block.Parse(blkBytes)
}

func (s *state) CommitBlock(blk *block.Stateless, diff *Diff) error {
	if err := s.commitBlock(blk, diff); err != nil {
		s.vdb.Abort()
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return nil
}

func (s *state) commitBlock(blk *block.Stateless, diff *Diff) error {
	height := blk.Height()
	switch {
	case !s.initialized && height != 0:
		return fmt.Errorf("committing height %d to uninitialized state", height)
	case s.initialized && height != s.height+1:
		return fmt.Errorf("committing height %d on top of height %d", height, s.height)
	}

	for addr, acct := range diff.Modified() {
		acctBytes, err := accountCodec.Marshal(CodecVersion, &acct)
		if err != nil {
			return err
		}
		if err := s.accountDB.Put(addr[:], acctBytes); err != nil {
			return err
		}
		if acct.Registered {
			if err := s.validatorDB.Put(addr[:], nil); err != nil {
				return err
			}
		}
	}

	blkID := blk.ID()
	if err := s.blockDB.Put(database.PackUInt64(height), blk.Bytes()); err != nil {
		return err
	}
	if err := s.singletonDB.Put(lastAcceptedKey, blkID[:]); err != nil {
		return err
	}
	if err := database.PutUInt64(s.singletonDB, heightKey, height); err != nil {
		return err
	}
	if err := database.PutUInt64(s.singletonDB, timestampKey, uint64(blk.Timestamp())); err != nil {
		return err
	}

	if err := s.vdb.Commit(); err != nil {
		return err
	}

	// The write batch is durable; it is now safe to expose the new state.
	for addr, acct := range diff.Modified() {
		s.accountCache.Put(addr, acct)
	}
	s.initialized = true
	s.lastAccepted = blkID
	s.height = height
	s.timestamp = blk.Timestamp()
	return nil
}

func (s *state) Close() error {
	return s.baseDB.Close()
}
