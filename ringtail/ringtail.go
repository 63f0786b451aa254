// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ringtail

import (
	rt "github.com/luxfi/crypto/ringtail"
)

// Precomp, Share and Cert alias github.com/luxfi/crypto/ringtail's
// types directly: this package adds identity and wire-format plumbing
// around them, not a competing representation.
type (
	Precomp = rt.Precomp
	Share   = rt.Share
	Cert    = rt.Cert
)

// Precompute derives an offline share from sk so a later QuickSign
// does not block on lattice setup.
func Precompute(sk []byte) (Precomp, error) {
	return rt.Precompute(sk)
}

// QuickSign signs msg using a share produced by Precompute.
func QuickSign(precomp Precomp, msg []byte) (Share, error) {
	return rt.QuickSign(precomp, msg)
}

// VerifyShare checks one validator's share against its public key.
func VerifyShare(pk []byte, msg []byte, share []byte) bool {
	return rt.VerifyShare(pk, msg, share)
}

// Aggregate combines validator shares into a single certificate.
func Aggregate(shares []Share) (Cert, error) {
	return rt.Aggregate(shares)
}

// Verify checks an aggregated certificate against a committee public key.
func Verify(pk []byte, msg []byte, cert []byte) bool {
	return rt.Verify(pk, msg, cert)
}
