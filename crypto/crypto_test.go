// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	require := require.New(t)

	key, err := GenerateKey(nil)
	require.NoError(err)

	msg := []byte("transfer 50 to bob")
	sig := key.Sign(msg)
	require.Len(sig, SignatureLen)
	require.NoError(Verify(key.PublicKey(), msg, sig))
}

func TestVerifyBitFlips(t *testing.T) {
	require := require.New(t)

	key, err := GenerateKey(nil)
	require.NoError(err)

	msg := []byte("transfer 50 to bob")
	sig := key.Sign(msg)

	// Flipping any single bit of the message must invalidate the signature.
	for i := range msg {
		mutated := make([]byte, len(msg))
		copy(mutated, msg)
		mutated[i] ^= 0x01
		require.ErrorIs(Verify(key.PublicKey(), mutated, sig), ErrInvalidSignature)
	}

	// Same for the signature itself.
	for i := range sig {
		mutated := make([]byte, len(sig))
		copy(mutated, sig)
		mutated[i] ^= 0x01
		require.ErrorIs(Verify(key.PublicKey(), msg, mutated), ErrInvalidSignature)
	}
}

func TestVerifyMalformedInputs(t *testing.T) {
	require := require.New(t)

	key, err := GenerateKey(nil)
	require.NoError(err)

	msg := []byte("msg")
	sig := key.Sign(msg)

	tests := []struct {
		name string
		pub  []byte
		sig  []byte
		err  error
	}{
		{name: "nil public key", pub: nil, sig: sig, err: ErrInvalidPublicKey},
		{name: "short public key", pub: key.PublicKey()[:16], sig: sig, err: ErrInvalidPublicKey},
		{name: "nil signature", pub: key.PublicKey(), sig: nil, err: ErrInvalidSignature},
		{name: "truncated signature", pub: key.PublicKey(), sig: sig[:32], err: ErrInvalidSignature},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.ErrorIs(Verify(test.pub, msg, test.sig), test.err)
		})
	}
}

func TestAddressDerivation(t *testing.T) {
	require := require.New(t)

	key, err := GenerateKey(nil)
	require.NoError(err)

	addr, err := AddressOf(key.PublicKey())
	require.NoError(err)
	require.Equal(key.Address(), addr)

	// Derivation is deterministic.
	again, err := AddressOf(key.PublicKey())
	require.NoError(err)
	require.Equal(addr, again)

	// Truncation rule: first AddressLen bytes of the pubkey digest.
	digest := Hash256(key.PublicKey())
	require.Equal(digest[:AddressLen], addr[:])

	_, err = AddressOf([]byte("too short"))
	require.ErrorIs(err, ErrInvalidPublicKey)
}

func TestParseKeyRoundTrip(t *testing.T) {
	require := require.New(t)

	key, err := GenerateKey(nil)
	require.NoError(err)

	parsed, err := ParseKey(key.Bytes())
	require.NoError(err)
	require.Equal(key.Address(), parsed.Address())

	msg := []byte("msg")
	require.NoError(Verify(parsed.PublicKey(), msg, key.Sign(msg)))
}

func TestHashDeterminism(t *testing.T) {
	require := require.New(t)

	a := Hash256([]byte("block"))
	b := Hash256([]byte("block"))
	require.Equal(a, b)

	c := Hash256([]byte("block!"))
	require.NotEqual(a, c)
}
