// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ringtail builds a dual-certificate finality bundle — a
// classical BLS signature and a post-quantum ringtail certificate over
// the same block, plus a recursively attested inner certificate — on
// top of the field/builder/parser/attest/suite core.
package ringtail

import (
	"time"

	"github.com/luxfi/ids"
)

// Validator is one member of the committee a CertBundle is addressed
// to: its BLS signing key, its ringtail public key, and its weight.
type Validator struct {
	NodeID    ids.NodeID
	BLSPubKey []byte
	RTPubKey  []byte
	Weight    uint64
}

// ValidatorSet resolves validator identity and committee thresholds
// for CertBundle verification. The caller owns the validator roster;
// this package only ever reads from it.
type ValidatorSet interface {
	GetValidator(id ids.NodeID) (*Validator, error)
	GetQuorum() int
	GetThreshold() int
}

// Finalizer is notified as blocks cross the classical (BLS) finality
// threshold and, separately, the post-quantum (ringtail) threshold —
// the two certificates in a bundle can land at different times.
type Finalizer interface {
	// OnClassicalFinality fires once a block's BLS signature set
	// reaches quorum.
	OnClassicalFinality(height uint64, blockHash ids.ID)

	// CertBundle returns the finality bundle for height, if one has
	// been assembled yet.
	CertBundle(height uint64) ([]byte, bool)

	// IsQuantumFinal reports whether height's bundle has a verified
	// post-quantum certificate, not just a BLS one.
	IsQuantumFinal(height uint64) bool
}

// BundleConfig parameterizes how often and how large finality bundles
// are assembled.
type BundleConfig struct {
	// Interval is the minimum spacing between bundles.
	Interval time.Duration

	// Threshold is the number of validator shares needed for a bundle
	// (typically 2f+1).
	Threshold int

	// ValidatorCount is the total committee size.
	ValidatorCount int

	// MergeBlocks is how many block heights one bundle may cover.
	MergeBlocks int

	// DelayAfterClassical adds extra time after BLS finality before
	// the post-quantum round starts, giving stragglers time to catch
	// up without blocking classical finality on them.
	DelayAfterClassical time.Duration

	// PrecomputedRounds is how many ringtail precompute shares to keep
	// on hand so QuickSign never blocks on lattice setup.
	PrecomputedRounds int
}
