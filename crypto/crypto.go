// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package crypto provides the signature and hashing primitives used for
// transaction signing, block sealing, and address derivation. All functions
// are stateless and safe for concurrent use.
package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"io"

	"golang.org/x/crypto/sha3"

	"github.com/luxfi/ids"
)

const (
	// PublicKeyLen is the length in bytes of a serialized public key.
	PublicKeyLen = ed25519.PublicKeySize
	// SignatureLen is the length in bytes of a serialized signature.
	SignatureLen = ed25519.SignatureSize
	// AddressLen is the length in bytes of a derived address.
	AddressLen = 20
)

var (
	ErrInvalidPublicKey = errors.New("invalid public key")
	ErrInvalidSignature = errors.New("invalid signature")
)

// Hash256 returns the SHA3-256 digest of [b].
func Hash256(b []byte) [32]byte {
	return sha3.Sum256(b)
}

// HashID returns the SHA3-256 digest of [b] as an ID.
func HashID(b []byte) ids.ID {
	return ids.ID(sha3.Sum256(b))
}

// AddressOf derives the address of [publicKey]: the first [AddressLen] bytes
// of its SHA3-256 digest. Every node must derive addresses identically for
// signature checks and proposer selection to agree.
func AddressOf(publicKey []byte) (ids.ShortID, error) {
	if len(publicKey) != PublicKeyLen {
		return ids.ShortID{}, ErrInvalidPublicKey
	}
	digest := sha3.Sum256(publicKey)
	return ids.ToShortID(digest[:AddressLen])
}

// Verify reports whether [sig] is a valid signature of [msg] by the private
// key corresponding to [publicKey]. Malformed keys and signatures are
// reported as errors, never panics.
func Verify(publicKey []byte, msg []byte, sig []byte) error {
	if len(publicKey) != PublicKeyLen {
		return ErrInvalidPublicKey
	}
	if len(sig) != SignatureLen {
		return ErrInvalidSignature
	}
	if !ed25519.Verify(ed25519.PublicKey(publicKey), msg, sig) {
		return ErrInvalidSignature
	}
	return nil
}

// Key is a signing key and its derived identity.
type Key struct {
	priv    ed25519.PrivateKey
	pub     []byte
	address ids.ShortID
}

// GenerateKey creates a new signing key from [source]. If [source] is nil,
// crypto/rand is used.
func GenerateKey(source io.Reader) (*Key, error) {
	if source == nil {
		source = rand.Reader
	}
	pub, priv, err := ed25519.GenerateKey(source)
	if err != nil {
		return nil, err
	}
	address, err := AddressOf(pub)
	if err != nil {
		return nil, err
	}
	return &Key{
		priv:    priv,
		pub:     pub,
		address: address,
	}, nil
}

// ParseKey reconstructs a Key from a serialized ed25519 private key.
func ParseKey(privateKey []byte) (*Key, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, ErrInvalidPublicKey
	}
	priv := ed25519.PrivateKey(privateKey)
	pub := priv.Public().(ed25519.PublicKey)
	address, err := AddressOf(pub)
	if err != nil {
		return nil, err
	}
	return &Key{
		priv:    priv,
		pub:     pub,
		address: address,
	}, nil
}

// Sign returns the signature of [msg] by this key.
func (k *Key) Sign(msg []byte) []byte {
	return ed25519.Sign(k.priv, msg)
}

// PublicKey returns the serialized public key.
func (k *Key) PublicKey() []byte {
	return k.pub
}

// Address returns the address derived from this key's public key.
func (k *Key) Address() ids.ShortID {
	return k.address
}

// Bytes returns the serialized private key.
func (k *Key) Bytes() []byte {
	return k.priv
}
