// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ed25519suite is a reference suite.Suite for tests and
// parse-only tooling. The certificate core treats the signing suite as
// an out-of-scope collaborator; production callers wire a
// real suite (see suite/blssuite) the same way they wire a
// resolver.Resolver. This adapter exists because the worked examples
// worked examples are stated in terms of an Ed25519-family, 64-byte
// signature, and the standard library's crypto/ed25519 is the most
// direct way to exercise exactly that shape without guessing at an
// unexported third-party API for a component this module deliberately
// does not design.
package ed25519suite

import (
	"crypto/ed25519"
	"fmt"

	"github.com/luxfi/cert/suite"
)

// Suite implements suite.Suite over crypto/ed25519.
type Suite struct{}

// New returns an ed25519-backed suite.Suite.
func New() suite.Suite {
	return Suite{}
}

// SignatureSize implements suite.Suite.
func (Suite) SignatureSize() int {
	return ed25519.SignatureSize
}

// Sign implements suite.Suite.
func (Suite) Sign(priv suite.PrivateKey, message []byte) (suite.Signature, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("ed25519suite: private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(priv))
	}
	sig := ed25519.Sign(ed25519.PrivateKey(priv), message)
	return suite.Signature(sig), nil
}

// Verify implements suite.Suite.
func (Suite) Verify(pub suite.PublicKey, message []byte, sig suite.Signature) error {
	if len(pub) != ed25519.PublicKeySize {
		return fmt.Errorf("ed25519suite: public key must be %d bytes, got %d", ed25519.PublicKeySize, len(pub))
	}
	if len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("ed25519suite: %w: signature must be %d bytes, got %d", suite.ErrVerificationFailed, ed25519.SignatureSize, len(sig))
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), message, []byte(sig)) {
		return suite.ErrVerificationFailed
	}
	return nil
}

// GenerateKey returns a fresh key pair for tests.
func GenerateKey() (suite.PublicKey, suite.PrivateKey, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("ed25519suite: key generation failed: %w", err)
	}
	return suite.PublicKey(pub), suite.PrivateKey(priv), nil
}
