// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package block defines the block wire format: a header binding the chain
// order, proposer, and transaction digest, plus the ordered transactions and
// the proposer's seal over the header.
package block

import (
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/meritvm/crypto"
	"github.com/luxfi/meritvm/txs"
)

// Header carries everything a block commits to. The block ID is the SHA3-256
// digest of the header's canonical bytes; TxRoot folds the transaction
// sequence into that digest.
type Header struct {
	// Height is 0 for genesis and parent height + 1 afterwards.
	Height uint64 `serialize:"true" json:"height"`

	// ParentID is the ID of the block at Height - 1, or ids.Empty for
	// genesis.
	ParentID ids.ID `serialize:"true" json:"parentID"`

	// Timestamp in Unix seconds. Must not precede the parent's timestamp.
	Timestamp int64 `serialize:"true" json:"timestamp"`

	// Proposer is the address selected for this height.
	Proposer ids.ShortID `serialize:"true" json:"proposer"`

	// ProposerPubKey must derive to Proposer and verify the block seal.
	// Empty for genesis.
	ProposerPubKey []byte `serialize:"true" json:"proposerPublicKey"`

	// TxRoot is the digest of the ordered transaction IDs.
	TxRoot ids.ID `serialize:"true" json:"txRoot"`
}

// Stateless is a block as it travels over the wire, before any verification
// against chain state.
type Stateless struct {
	Hdr Header    `serialize:"true" json:"header"`
	Txs []*txs.Tx `serialize:"true" json:"txs"`

	// ProposerSignature is the proposer's signature over the canonical
	// header bytes. Empty for genesis.
	ProposerSignature []byte `serialize:"true" json:"proposerSignature"`

	id          ids.ID
	bytes       []byte
	headerBytes []byte
}

// Build assembles and seals a block.
func Build(
	parentID ids.ID,
	height uint64,
	timestamp int64,
	blockTxs []*txs.Tx,
	key *crypto.Key,
) (*Stateless, error) {
	blk := &Stateless{
		Hdr: Header{
			Height:         height,
			ParentID:       parentID,
			Timestamp:      timestamp,
			Proposer:       key.Address(),
			ProposerPubKey: key.PublicKey(),
			TxRoot:         TxRoot(blockTxs),
		},
		Txs: blockTxs,
	}
	headerBytes, err := Codec.Marshal(CodecVersion, &blk.Hdr)
	if err != nil {
		return nil, fmt.Errorf("couldn't marshal header: %w", err)
	}
	blk.ProposerSignature = key.Sign(headerBytes)
	return blk, blk.Initialize()
}

// BuildGenesis assembles the unsealed height-0 block. [contentDigest] binds
// the genesis configuration (allocations, initial validators) into the block
// ID in place of a transaction root.
func BuildGenesis(timestamp int64, contentDigest ids.ID) (*Stateless, error) {
	blk := &Stateless{
		Hdr: Header{
			Height:    0,
			ParentID:  ids.Empty,
			Timestamp: timestamp,
			TxRoot:    contentDigest,
		},
	}
	return blk, blk.Initialize()
}

// Parse decodes a block from its canonical bytes.
func Parse(blkBytes []byte) (*Stateless, error) {
	blk := &Stateless{}
	if _, err := Codec.Unmarshal(blkBytes, blk); err != nil {
		return nil, fmt.Errorf("couldn't parse block: %w", err)
	}
	for _, tx := range blk.Txs {
		if err := tx.Initialize(); err != nil {
			return nil, err
		}
	}
	return blk, blk.Initialize()
}

// Initialize computes the canonical bytes, header bytes, and block ID. It
// must be called after construction or decoding.
func (b *Stateless) Initialize() error {
	blkBytes, err := Codec.Marshal(CodecVersion, b)
	if err != nil {
		return fmt.Errorf("couldn't marshal block: %w", err)
	}
	headerBytes, err := Codec.Marshal(CodecVersion, &b.Hdr)
	if err != nil {
		return fmt.Errorf("couldn't marshal header: %w", err)
	}
	b.bytes = blkBytes
	b.headerBytes = headerBytes
	b.id = crypto.HashID(headerBytes)
	return nil
}

// ID is the hash of the canonical header bytes. The header's TxRoot binds
// the transaction sequence, so the ID covers the whole block.
func (b *Stateless) ID() ids.ID {
	return b.id
}

func (b *Stateless) Bytes() []byte {
	return b.bytes
}

// HeaderBytes returns the signed portion of the block.
func (b *Stateless) HeaderBytes() []byte {
	return b.headerBytes
}

func (b *Stateless) Height() uint64 {
	return b.Hdr.Height
}

func (b *Stateless) ParentID() ids.ID {
	return b.Hdr.ParentID
}

func (b *Stateless) Timestamp() int64 {
	return b.Hdr.Timestamp
}

func (b *Stateless) Proposer() ids.ShortID {
	return b.Hdr.Proposer
}

// TxRoot hashes the ordered transaction IDs into a single digest.
func TxRoot(blockTxs []*txs.Tx) ids.ID {
	digest := make([]byte, 0, len(blockTxs)*ids.IDLen)
	for _, tx := range blockTxs {
		txID := tx.ID()
		digest = append(digest, txID[:]...)
	}
	return crypto.HashID(digest)
}
