// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package suite defines the cryptographic-suite abstraction the
// certificate core calls into for signing and verification. The suite
// itself — key generation, signature algorithm, hashing — is explicitly
// out of scope for this module: this package only declares
// the boundary, the way github.com/luxfi/consensus declares
// ValidatorState or warp.Signer as interfaces its callers implement.
package suite

import "errors"

// ErrVerificationFailed is returned by Verify when a signature does not
// match the message under the given public key.
var ErrVerificationFailed = errors.New("suite: signature verification failed")

// PrivateKey, PublicKey and Signature are opaque, suite-specific byte
// encodings. The core never inspects their contents; it only passes
// them between Builder.Sign, Suite.Sign and Suite.Verify.
type (
	PrivateKey []byte
	PublicKey  []byte
	Signature  []byte
)

// Suite is the capability the certificate core needs from a signature
// scheme: how big a signature it produces, how to produce one, and how
// to check one. Implementations wrap a real algorithm (see
// suite/ed25519suite and suite/blssuite); the core never constructs a
// Suite itself.
type Suite interface {
	// SignatureSize is the exact length in bytes of every Signature
	// this suite produces. The builder uses it to size the SIGNATURE
	// field before the signature itself has been computed.
	SignatureSize() int

	// Sign returns the signature over message under priv.
	Sign(priv PrivateKey, message []byte) (Signature, error)

	// Verify returns nil if sig is a valid signature over message
	// under pub. Callers treat any non-nil error as verification
	// failure; Verify should return ErrVerificationFailed (possibly
	// wrapped) for "checked and rejected", and may return a different
	// error for malformed input.
	Verify(pub PublicKey, message []byte, sig Signature) error
}
