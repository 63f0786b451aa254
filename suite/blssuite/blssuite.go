// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package blssuite adapts github.com/luxfi/crypto/bls into a
// suite.Suite. Keys derive from a seed the same shape-wise way a
// consensus validator derives its signing key from a seed, and
// signing/verification follow the same Sign/Verify/PublicKey calls;
// this adapter only exposes what suite.Suite needs: Sign, Verify and
// SignatureSize.
package blssuite

import (
	"fmt"

	"github.com/luxfi/crypto/bls"

	"github.com/luxfi/cert/suite"
)

// SignatureSize is the length in bytes of a compressed BLS12-381 G2
// signature.
const SignatureSize = 96

// Suite implements suite.Suite over github.com/luxfi/crypto/bls.
type Suite struct{}

// New returns a BLS-backed suite.Suite.
func New() suite.Suite {
	return Suite{}
}

// SignatureSize implements suite.Suite.
func (Suite) SignatureSize() int {
	return SignatureSize
}

// Sign implements suite.Suite. priv is a 32-byte BLS secret key seed,
// the same convention engine/pq.NewCertificateGenerator uses for its
// blsKey parameter.
func (Suite) Sign(priv suite.PrivateKey, message []byte) (suite.Signature, error) {
	sk, err := bls.SecretKeyFromSeed(priv)
	if err != nil {
		return nil, fmt.Errorf("blssuite: deriving secret key: %w", err)
	}

	sig, err := sk.Sign(message)
	if err != nil {
		return nil, fmt.Errorf("blssuite: signing failed: %w", err)
	}

	return suite.Signature(bls.SignatureToBytes(sig)), nil
}

// Verify implements suite.Suite. pub is a compressed BLS public key, as
// produced by PublicKeyFromSeed.
func (Suite) Verify(pub suite.PublicKey, message []byte, sig suite.Signature) error {
	pk, err := bls.PublicKeyFromCompressedBytes(pub)
	if err != nil {
		return fmt.Errorf("blssuite: invalid public key: %w", err)
	}

	blsSig, err := bls.SignatureFromBytes(sig)
	if err != nil {
		return fmt.Errorf("blssuite: invalid signature: %w", err)
	}

	if !bls.Verify(pk, blsSig, message) {
		return suite.ErrVerificationFailed
	}
	return nil
}

// PublicKeyFromSeed derives the compressed public key for the secret
// key seeded by seed, the inverse of the key half of Sign.
func PublicKeyFromSeed(seed []byte) (suite.PublicKey, error) {
	sk, err := bls.SecretKeyFromSeed(seed)
	if err != nil {
		return nil, fmt.Errorf("blssuite: deriving secret key: %w", err)
	}
	return suite.PublicKey(bls.PublicKeyToCompressedBytes(sk.PublicKey())), nil
}

// AggregateSignatures combines independently produced signatures into
// one, for higher layers that need an aggregate rather than a single
// signer's signature. It is not used by the certificate core or the
// ringtail package, which sign with a single key.
func AggregateSignatures(sigs []suite.Signature) (suite.Signature, error) {
	parsed := make([]*bls.Signature, 0, len(sigs))
	for i, s := range sigs {
		sig, err := bls.SignatureFromBytes(s)
		if err != nil {
			return nil, fmt.Errorf("blssuite: signature %d: %w", i, err)
		}
		parsed = append(parsed, sig)
	}

	agg, err := bls.AggregateSignatures(parsed)
	if err != nil {
		return nil, fmt.Errorf("blssuite: aggregation failed: %w", err)
	}
	return suite.Signature(bls.SignatureToBytes(agg)), nil
}

// AggregatePublicKeys combines independently derived public keys for
// verifying an AggregateSignatures result.
func AggregatePublicKeys(pubs []suite.PublicKey) (suite.PublicKey, error) {
	parsed := make([]*bls.PublicKey, 0, len(pubs))
	for i, p := range pubs {
		pk, err := bls.PublicKeyFromCompressedBytes(p)
		if err != nil {
			return nil, fmt.Errorf("blssuite: public key %d: %w", i, err)
		}
		parsed = append(parsed, pk)
	}

	agg, err := bls.AggregatePublicKeys(parsed)
	if err != nil {
		return nil, fmt.Errorf("blssuite: aggregation failed: %w", err)
	}
	return suite.PublicKey(bls.PublicKeyToCompressedBytes(agg)), nil
}
