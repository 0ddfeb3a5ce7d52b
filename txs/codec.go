// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import (
	"github.com/luxfi/codec"
	"github.com/luxfi/codec/linearcodec"
)

// CodecVersion is the current codec version.
const CodecVersion = 0

// Codec serializes transactions with a fixed field order and fixed-width
// integers so that transaction hashes and signatures reproduce byte-for-byte
// on every node.
var Codec codec.Manager

func init() {
	c := linearcodec.NewDefault()

	// The order of these registrations is consensus critical and must not
	// change.
	err := c.RegisterType(&TransferTx{})
	if err == nil {
		err = c.RegisterType(&RegisterValidatorTx{})
	}
	if err != nil {
		panic(err)
	}

	Codec = codec.NewDefaultManager()
	if err := Codec.RegisterCodec(CodecVersion, c); err != nil {
		panic(err)
	}
}
