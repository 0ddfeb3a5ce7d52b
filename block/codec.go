// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package block

import (
	"github.com/luxfi/codec"
	"github.com/luxfi/codec/linearcodec"

	"github.com/luxfi/meritvm/txs"
)

// CodecVersion is the current codec version.
const CodecVersion = 0

// Codec serializes block headers and blocks canonically: fixed field order,
// fixed-width integers. Header hashing and proposer signatures are computed
// over these bytes, so every node must encode identically.
var Codec codec.Manager

func init() {
	c := linearcodec.NewDefault()

	// Transactions are embedded in blocks, so their concrete types must be
	// registered here in the same consensus-critical order as in the txs
	// codec.
	err := c.RegisterType(&txs.TransferTx{})
	if err == nil {
		err = c.RegisterType(&txs.RegisterValidatorTx{})
	}
	if err != nil {
		panic(err)
	}

	Codec = codec.NewDefaultManager()
	if err := Codec.RegisterCodec(CodecVersion, c); err != nil {
		panic(err)
	}
}
